package domain

// SoftwareItem is one installed software entry from an asset inventory.
// Items are supplied per matching run and have no lifecycle of their own.
type SoftwareItem struct {
	Name    string `json:"name"`
	Vendor  string `json:"vendor"`
	Version string `json:"version"`
	// CPE is the optional structured identifier reported by the inventory
	// source, e.g. "cpe:2.3:a:apache:http_server:2.4.49:*:*:*:*:*:*:*".
	CPE string `json:"cpe,omitempty"`
}
