package match

import (
	"strings"

	"github.com/facebookincubator/nvdtools/wfn"
)

// CPE 2.3 formatted strings carry exactly 13 colon-separated components:
// cpe:2.3:part:vendor:product:version:update:edition:language:sw_edition:target_sw:target_hw:other
const cpeComponents = 13

// CPE is a parsed software identifier.
type CPE struct {
	attrs wfn.Attributes
}

// ParseCPE parses a CPE 2.3 formatted string. Parsing is lenient: strings
// with at least five components are padded to thirteen with wildcards, the
// way feeds commonly truncate them. Anything else fails closed (ok=false),
// never with an error.
func ParseCPE(s string) (CPE, bool) {
	if !strings.HasPrefix(s, "cpe:") {
		return CPE{}, false
	}
	if n := strings.Count(s, ":") + 1; n < 5 {
		return CPE{}, false
	} else if n < cpeComponents {
		s += strings.Repeat(":*", cpeComponents-n)
	}
	attrs, err := wfn.UnbindFmtString(s)
	if err != nil {
		return CPE{}, false
	}
	return CPE{attrs: *attrs}, true
}

// BuildCPE assembles a CPE 2.3 formatted string from a vendor/product/version
// triple. Vendor and product are lowercased with spaces and hyphens replaced
// by underscores. An empty version means "any"; an empty part defaults to
// "a" (application).
func BuildCPE(vendor, product, version, part string) string {
	if part == "" {
		part = "a"
	}
	attrs := wfn.NewAttributesWithAny()
	attrs.Part = part
	attrs.Vendor = wfnToken(vendor)
	attrs.Product = wfnToken(product)
	if version != "" && version != "*" {
		if v, err := wfn.WFNize(version); err == nil {
			attrs.Version = v
		}
	}
	return attrs.BindToFmtString()
}

func wfnToken(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	if t, err := wfn.WFNize(s); err == nil {
		return t
	}
	return s
}

// Part returns the part field, or "" when unset.
func (c CPE) Part() string { return wfn.StripSlashes(c.attrs.Part) }

// Vendor returns the vendor field, or "" when unset.
func (c CPE) Vendor() string { return wfn.StripSlashes(c.attrs.Vendor) }

// Product returns the product field, or "" when unset.
func (c CPE) Product() string { return wfn.StripSlashes(c.attrs.Product) }

// Version returns the version field, or "" when unset or wildcard.
func (c CPE) Version() string { return wfn.StripSlashes(c.attrs.Version) }

// MatchCPE reports whether the candidate identifier satisfies the target on
// the part, vendor and product fields. An unset target field matches
// anything; a set one must equal the candidate's case-insensitively.
// Version is deliberately left to the caller.
func MatchCPE(candidate, target CPE) bool {
	return matchAttr(candidate.Part(), target.Part()) &&
		matchAttr(candidate.Vendor(), target.Vendor()) &&
		matchAttr(candidate.Product(), target.Product())
}

func matchAttr(candidate, target string) bool {
	if target == "" || target == "*" {
		return true
	}
	return strings.EqualFold(candidate, target)
}
