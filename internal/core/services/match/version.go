package match

import (
	"regexp"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// leading dotted-digits run, e.g. "1.2.3" out of "1.2.3-beta4".
var versionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)

// ParseVersion normalizes a version string and parses it for comparison.
// Normalization strips a leading v/V, trims whitespace, maps '_' and '-'
// to '.', and keeps only the leading dotted-numeric run. Unparsable input
// yields nil, never an error.
func ParseVersion(s string) *goversion.Version {
	if s == "" || s == "*" {
		return nil
	}
	clean := strings.TrimSpace(s)
	clean = strings.TrimLeft(clean, "vV")
	clean = strings.ReplaceAll(clean, "_", ".")
	clean = strings.ReplaceAll(clean, "-", ".")
	m := versionPattern.FindString(clean)
	if m == "" {
		return nil
	}
	v, err := goversion.NewVersion(m)
	if err != nil {
		return nil
	}
	return v
}

// IsVulnerable reports whether an installed version falls in a vulnerable
// range. Empty strings mean the bound is absent.
//
//   - exact set: vulnerable iff installed == exact.
//   - start and end set: inclusive range check.
//   - only end set: inclusive upper bound, unbounded below.
//   - nothing set: not vulnerable. Unscoped feed entries must not produce
//     false positives.
//
// An unparsable installed version is never vulnerable.
func IsVulnerable(installed, start, end, exact string) bool {
	iv := ParseVersion(installed)
	if iv == nil {
		return false
	}

	if exact != "" {
		ev := ParseVersion(exact)
		return ev != nil && iv.Equal(ev)
	}

	if start != "" && end != "" {
		sv := ParseVersion(start)
		ev := ParseVersion(end)
		if sv != nil && ev != nil {
			return iv.GreaterThanOrEqual(sv) && iv.LessThanOrEqual(ev)
		}
	}

	if end != "" {
		if ev := ParseVersion(end); ev != nil {
			return iv.LessThanOrEqual(ev)
		}
	}

	return false
}
