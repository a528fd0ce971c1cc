package match

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

// Tier confidences. The tier order is strict: the first tier that succeeds
// wins, a later tier can never override it even with a higher number.
const (
	confidenceExactCPE      = 0.98
	confidenceCPENoVersion  = 0.85
	confidenceVendorProduct = 0.80

	fuzzyProductThreshold = 80.0 // similarity ratio gate, 0-100
	fuzzyVendorDefault    = 50.0 // vendor score when either side is missing
	fuzzyCombinedMinimum  = 0.70
)

// Engine correlates installed software with vulnerability records through
// the tiered identity-matching heuristic. It holds no mutable state and is
// safe for concurrent use across batches.
type Engine struct {
	canon *Canonicalizer
}

// NewEngine creates a matcher over the given canonicalizer.
func NewEngine(canon *Canonicalizer) *Engine {
	return &Engine{canon: canon}
}

// MatchSoftware evaluates one software item against a vulnerability set and
// returns every successful match, sorted by confidence descending.
func (e *Engine) MatchSoftware(sw domain.SoftwareItem, vulns []domain.VulnerabilityRecord) []domain.MatchResult {
	swVendor := e.canon.Vendor(sw.Vendor)
	swProduct := e.canon.Product(sw.Name)

	var results []domain.MatchResult
	for i := range vulns {
		if res, ok := e.checkMatch(swVendor, swProduct, sw.Version, sw.CPE, &vulns[i]); ok {
			results = append(results, res)
		}
	}

	sortByConfidence(results)
	return results
}

// BulkMatch evaluates every software item against the full vulnerability
// set, tags each match with the originating software, and merges the
// results sorted by confidence descending. Matches for the same (asset,
// cve) pair across runs are deduplicated by the persistence layer, not
// here.
func (e *Engine) BulkMatch(software []domain.SoftwareItem, vulns []domain.VulnerabilityRecord) []domain.MatchResult {
	var all []domain.MatchResult
	for _, sw := range software {
		for _, res := range e.MatchSoftware(sw, vulns) {
			res.SoftwareName = sw.Name
			res.SoftwareVersion = sw.Version
			all = append(all, res)
		}
	}

	sortByConfidence(all)
	return all
}

// checkMatch walks the tiers in order and returns the first success.
func (e *Engine) checkMatch(swVendor, swProduct, swVersion, swCPE string, vuln *domain.VulnerabilityRecord) (domain.MatchResult, bool) {
	// Tier 1: structured identifier match.
	if swCPE != "" {
		if swParsed, ok := ParseCPE(swCPE); ok {
			for _, affected := range vuln.AffectedCPEs {
				target, ok := ParseCPE(affected)
				if !ok || !MatchCPE(swParsed, target) {
					continue
				}
				if ver := target.Version(); ver != "" {
					if IsVulnerable(swVersion, "", "", ver) {
						return e.result(vuln, confidenceExactCPE, domain.MatchExactCPE), true
					}
					continue
				}
				return e.result(vuln, confidenceCPENoVersion, domain.MatchCPENoVersion), true
			}
		}
	}

	cveVendor := e.canon.Vendor(vuln.Vendor)
	cveProduct := e.canon.Product(vuln.Product)

	// Tier 2: canonical vendor+product equality.
	if cveVendor != "" && cveProduct != "" && swVendor == cveVendor && swProduct == cveProduct {
		return e.result(vuln, confidenceVendorProduct, domain.MatchVendorProductExact), true
	}

	// Tier 3: fuzzy product similarity with a vendor-weighted combination.
	if swProduct != "" && cveProduct != "" {
		productScore := similarityRatio(swProduct, cveProduct)
		if productScore >= fuzzyProductThreshold {
			vendorScore := fuzzyVendorDefault
			if swVendor != "" && cveVendor != "" {
				vendorScore = similarityRatio(swVendor, cveVendor)
			}
			combined := (productScore*0.6 + vendorScore*0.4) / 100
			if combined >= fuzzyCombinedMinimum {
				return e.result(vuln, round2(combined), domain.MatchFuzzy), true
			}
		}
	}

	return domain.MatchResult{}, false
}

func (e *Engine) result(vuln *domain.VulnerabilityRecord, confidence float64, matchType domain.MatchType) domain.MatchResult {
	return domain.MatchResult{
		CVEID:      vuln.CVEID,
		Confidence: confidence,
		MatchType:  matchType,
		CVSSScore:  vuln.CVSSScore,
	}
}

// similarityRatio is a normalized edit-distance ratio on a 0-100 scale.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return (1 - float64(dist)/float64(longest)) * 100
}

func sortByConfidence(results []domain.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
