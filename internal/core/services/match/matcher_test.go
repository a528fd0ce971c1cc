package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vulnguard/vulnguard/internal/core/domain"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultCanonicalizer())
}

func TestMatchExactCPE(t *testing.T) {
	e := newTestEngine()

	sw := domain.SoftwareItem{
		Name:    "log4j",
		Vendor:  "apache",
		Version: "2.14.1",
		CPE:     "cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*",
	}
	vulns := []domain.VulnerabilityRecord{{
		CVEID:        "CVE-2021-44228",
		Vendor:       "apache",
		Product:      "log4j",
		AffectedCPEs: []string{"cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*"},
		CVSSScore:    10.0,
	}}

	results := e.MatchSoftware(sw, vulns)
	require.Len(t, results, 1)
	// The structured identifier tier wins even though vendor+product
	// equality would also have matched.
	assert.Equal(t, domain.MatchExactCPE, results[0].MatchType)
	assert.Equal(t, 0.98, results[0].Confidence)
	assert.Equal(t, 10.0, results[0].CVSSScore)
}

func TestMatchCPENoVersion(t *testing.T) {
	e := newTestEngine()

	sw := domain.SoftwareItem{
		Name:    "log4j",
		Version: "2.14.1",
		CPE:     "cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*",
	}
	vulns := []domain.VulnerabilityRecord{{
		CVEID:        "CVE-2021-45046",
		AffectedCPEs: []string{"cpe:2.3:a:apache:log4j:*:*:*:*:*:*:*:*"},
	}}

	results := e.MatchSoftware(sw, vulns)
	require.Len(t, results, 1)
	assert.Equal(t, domain.MatchCPENoVersion, results[0].MatchType)
	assert.Equal(t, 0.85, results[0].Confidence)
}

func TestMatchCPEVersionMismatchFallsThrough(t *testing.T) {
	e := newTestEngine()

	// The affected CPE names a different version, so the structured tier
	// must not fire, but vendor+product equality still does.
	sw := domain.SoftwareItem{
		Name:    "log4j",
		Vendor:  "apache",
		Version: "2.17.0",
		CPE:     "cpe:2.3:a:apache:log4j:2.17.0:*:*:*:*:*:*:*",
	}
	vulns := []domain.VulnerabilityRecord{{
		CVEID:        "CVE-2021-44228",
		Vendor:       "apache",
		Product:      "log4j",
		AffectedCPEs: []string{"cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*"},
	}}

	results := e.MatchSoftware(sw, vulns)
	require.Len(t, results, 1)
	assert.Equal(t, domain.MatchVendorProductExact, results[0].MatchType)
	assert.Equal(t, 0.80, results[0].Confidence)
}

func TestMatchVendorProductUsesAliases(t *testing.T) {
	e := newTestEngine()

	sw := domain.SoftwareItem{
		Name:   "Apache Tomcat",
		Vendor: "The Apache Software Foundation",
	}
	vulns := []domain.VulnerabilityRecord{{
		CVEID:   "CVE-2024-0001",
		Vendor:  "apache",
		Product: "tomcat",
	}}

	results := e.MatchSoftware(sw, vulns)
	require.Len(t, results, 1)
	assert.Equal(t, domain.MatchVendorProductExact, results[0].MatchType)
}

func TestMatchFuzzy(t *testing.T) {
	e := newTestEngine()

	sw := domain.SoftwareItem{
		Name:   "widgetpro",
		Vendor: "acme",
	}
	vulns := []domain.VulnerabilityRecord{{
		CVEID:   "CVE-2024-0002",
		Vendor:  "acme",
		Product: "widget_pro",
	}}

	results := e.MatchSoftware(sw, vulns)
	require.Len(t, results, 1)
	assert.Equal(t, domain.MatchFuzzy, results[0].MatchType)
	// product ratio 90, vendor ratio 100: (90*0.6 + 100*0.4) / 100.
	assert.Equal(t, 0.94, results[0].Confidence)
}

func TestMatchFuzzyBelowProductThreshold(t *testing.T) {
	e := newTestEngine()

	sw := domain.SoftwareItem{Name: "nginx"}
	vulns := []domain.VulnerabilityRecord{{CVEID: "CVE-2024-0003", Product: "httpd"}}

	assert.Empty(t, e.MatchSoftware(sw, vulns))
}

func TestMatchFuzzyMissingVendorCanSinkCombined(t *testing.T) {
	e := newTestEngine()

	// Product ratio exactly 80 passes the gate, but the missing-vendor
	// default of 50 pulls the combined score to 0.68, under the floor.
	sw := domain.SoftwareItem{Name: "abcdefghij"}
	vulns := []domain.VulnerabilityRecord{{CVEID: "CVE-2024-0004", Product: "abcdefghxy"}}

	assert.Empty(t, e.MatchSoftware(sw, vulns))
}

func TestMatchSoftwareSortedByConfidence(t *testing.T) {
	e := newTestEngine()

	sw := domain.SoftwareItem{
		Name:    "log4j",
		Vendor:  "apache",
		Version: "2.14.1",
		CPE:     "cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*",
	}
	vulns := []domain.VulnerabilityRecord{
		{CVEID: "CVE-B", Vendor: "apache", Product: "log4j"},
		{CVEID: "CVE-A", AffectedCPEs: []string{"cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*"}},
	}

	results := e.MatchSoftware(sw, vulns)
	require.Len(t, results, 2)
	assert.Equal(t, "CVE-A", results[0].CVEID)
	assert.Equal(t, "CVE-B", results[1].CVEID)
}

func TestMatchNothing(t *testing.T) {
	e := newTestEngine()

	sw := domain.SoftwareItem{Name: "redis", Vendor: "redis"}
	vulns := []domain.VulnerabilityRecord{{CVEID: "CVE-2024-0005", Vendor: "microsoft", Product: "exchange"}}

	assert.Empty(t, e.MatchSoftware(sw, vulns))
}

func TestBulkMatchTagsAndSorts(t *testing.T) {
	e := newTestEngine()

	software := []domain.SoftwareItem{
		{Name: "log4j", Vendor: "apache", Version: "2.14.1", CPE: "cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*"},
		{Name: "tomcat", Vendor: "apache", Version: "9.0.1"},
	}
	vulns := []domain.VulnerabilityRecord{
		{CVEID: "CVE-TOMCAT", Vendor: "apache", Product: "tomcat"},
		{CVEID: "CVE-LOG4J", AffectedCPEs: []string{"cpe:2.3:a:apache:log4j:2.14.1:*:*:*:*:*:*:*"}},
	}

	results := e.BulkMatch(software, vulns)
	require.Len(t, results, 2)

	assert.Equal(t, "CVE-LOG4J", results[0].CVEID)
	assert.Equal(t, "log4j", results[0].SoftwareName)
	assert.Equal(t, "2.14.1", results[0].SoftwareVersion)

	assert.Equal(t, "CVE-TOMCAT", results[1].CVEID)
	assert.Equal(t, "tomcat", results[1].SoftwareName)
	assert.Equal(t, "9.0.1", results[1].SoftwareVersion)
}
