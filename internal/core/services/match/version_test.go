package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string // "" means nil expected
	}{
		{"plain", "1.2.3", "1.2.3"},
		{"leading v", "v1.2.3", "1.2.3"},
		{"leading V", "V2.0", "2.0"},
		{"whitespace", "  1.0.4  ", "1.0.4"},
		{"underscores", "1_2_3", "1.2.3"},
		{"hyphen suffix", "1.2.3-beta4", "1.2.3"},
		{"trailing junk", "9.0.1a", "9.0.1"},
		{"empty", "", ""},
		{"wildcard", "*", ""},
		{"no digits", "latest", ""},
		{"garbage", "-.-", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseVersion(tc.input)
			if tc.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			want := ParseVersion(tc.want)
			assert.True(t, got.Equal(want), "got %v, want %v", got, want)
		})
	}
}

func TestParseVersionPadsSegments(t *testing.T) {
	// "1.2" and "1.2.0" compare equal; missing segments count as zero.
	a := ParseVersion("1.2")
	b := ParseVersion("1.2.0")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.True(t, a.Equal(b))
}

func TestIsVulnerable(t *testing.T) {
	cases := []struct {
		name                         string
		installed, start, end, exact string
		want                         bool
	}{
		{"exact hit", "2.14.1", "", "", "2.14.1", true},
		{"exact miss", "2.15.0", "", "", "2.14.1", false},
		{"exact normalized", "v2.14.1", "", "", "2.14.1", true},
		{"range inside", "2.5", "2.0", "3.0", "", true},
		{"range at start", "2.0", "2.0", "3.0", "", true},
		{"range at end", "3.0", "2.0", "3.0", "", true},
		{"range below", "1.9", "2.0", "3.0", "", false},
		{"range above", "3.1", "2.0", "3.0", "", false},
		{"end only inside", "2.9", "", "3.0", "", true},
		{"end only at bound", "3.0", "", "3.0", "", true},
		{"end only above", "3.0.1", "", "3.0", "", false},
		{"no bounds", "2.5", "", "", "", false},
		{"unparsable installed", "latest", "2.0", "3.0", "", false},
		{"unparsable exact", "2.5", "", "", "unknown", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsVulnerable(tc.installed, tc.start, tc.end, tc.exact))
		})
	}
}

func TestIsVulnerableBadStartFallsToEndCheck(t *testing.T) {
	// When the lower bound cannot be parsed the upper bound still applies,
	// so a bad feed entry narrows the check instead of silencing it.
	assert.True(t, IsVulnerable("2.5", "unknown", "3.0", ""))
	assert.False(t, IsVulnerable("3.5", "unknown", "3.0", ""))
}
