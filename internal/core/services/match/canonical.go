package match

import "strings"

// Canonicalizer maps vendor and product name variants onto canonical tokens.
// The alias tables are immutable configuration: built once at startup and
// injected, never mutated afterwards.
type Canonicalizer struct {
	vendorAliases  map[string][]string
	productAliases map[string][]string
}

// NewCanonicalizer builds a canonicalizer from explicit alias tables. Keys
// are canonical tokens, values the known variants.
func NewCanonicalizer(vendorAliases, productAliases map[string][]string) *Canonicalizer {
	return &Canonicalizer{
		vendorAliases:  vendorAliases,
		productAliases: productAliases,
	}
}

// Vendor returns the canonical vendor token. Unknown vendors pass through
// lowercased and trimmed.
func (c *Canonicalizer) Vendor(vendor string) string {
	if vendor == "" {
		return ""
	}
	v := strings.ToLower(strings.TrimSpace(vendor))
	if _, ok := c.vendorAliases[v]; ok {
		return v
	}
	for canonical, aliases := range c.vendorAliases {
		for _, alias := range aliases {
			if strings.EqualFold(v, alias) {
				return canonical
			}
		}
	}
	return v
}

// Product returns the canonical product token. Unknown products pass through
// lowercased and trimmed with spaces replaced by underscores.
func (c *Canonicalizer) Product(product string) string {
	if product == "" {
		return ""
	}
	p := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(product)), " ", "_")
	for canonical, aliases := range c.productAliases {
		if p == canonical {
			return canonical
		}
		for _, alias := range aliases {
			if p == strings.ReplaceAll(strings.ToLower(alias), " ", "_") {
				return canonical
			}
		}
	}
	return p
}

// DefaultVendorAliases is the built-in vendor alias table.
func DefaultVendorAliases() map[string][]string {
	return map[string][]string{
		"microsoft":  {"ms", "microsoft corporation", "microsoft corp", "microsoft corp."},
		"apache":     {"apache software foundation", "the apache software foundation", "asf"},
		"google":     {"google llc", "google inc", "google inc.", "alphabet"},
		"oracle":     {"oracle corporation", "oracle corp"},
		"redhat":     {"red hat", "red hat inc", "red hat, inc.", "rh"},
		"canonical":  {"canonical ltd", "canonical ltd."},
		"debian":     {"debian project", "debian gnu/linux"},
		"linux":      {"linux kernel organization", "linux foundation", "kernel.org"},
		"apple":      {"apple inc", "apple inc.", "apple computer"},
		"cisco":      {"cisco systems", "cisco systems inc", "cisco systems, inc."},
		"ibm":        {"ibm corporation", "international business machines"},
		"vmware":     {"vmware inc", "vmware, inc.", "broadcom vmware"},
		"sap":        {"sap se", "sap ag"},
		"adobe":      {"adobe systems", "adobe inc.", "adobe systems incorporated"},
		"fortinet":   {"fortinet inc", "fortinet, inc."},
		"paloalto":   {"palo alto networks", "palo alto", "pan-os"},
		"nginx":      {"nginx inc", "f5 nginx"},
		"wordpress":  {"wordpress.org", "automattic"},
		"php":        {"php group", "the php group"},
		"python":     {"python software foundation", "psf"},
		"nodejs":     {"node.js foundation", "openjs foundation"},
		"jenkins":    {"jenkins project", "cloudbees"},
		"elastic":    {"elastic nv", "elasticsearch bv"},
		"mongodb":    {"mongodb inc", "mongodb, inc."},
		"postgresql": {"postgresql global development group", "pgdg"},
		"mysql":      {"mysql ab", "oracle mysql"},
		"openssl":    {"openssl project", "openssl software foundation"},
		"curl":       {"curl project", "daniel stenberg"},
		"jquery":     {"jquery foundation", "openjs"},
	}
}

// DefaultProductAliases is the built-in product alias table.
func DefaultProductAliases() map[string][]string {
	return map[string][]string{
		"iis":            {"internet information services", "internet_information_services"},
		"exchange":       {"exchange server", "exchange_server"},
		"office":         {"microsoft office", "ms office"},
		"windows_server": {"windows server", "win_server"},
		"edge":           {"microsoft edge", "edge_chromium"},
		"chrome":         {"google chrome", "chromium"},
		"firefox":        {"mozilla firefox", "mozilla_firefox"},
		"safari":         {"apple safari"},
		"tomcat":         {"apache tomcat", "apache_tomcat"},
		"httpd":          {"apache http server", "apache_http_server", "apache2"},
		"struts":         {"apache struts", "apache_struts"},
		"log4j":          {"apache log4j", "apache_log4j", "log4j2"},
	}
}

// DefaultCanonicalizer builds a canonicalizer over the built-in tables.
func DefaultCanonicalizer() *Canonicalizer {
	return NewCanonicalizer(DefaultVendorAliases(), DefaultProductAliases())
}
