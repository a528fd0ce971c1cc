package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizerVendor(t *testing.T) {
	c := DefaultCanonicalizer()

	cases := []struct {
		input string
		want  string
	}{
		{"Microsoft Corporation", "microsoft"},
		{"ms", "microsoft"},
		{"The Apache Software Foundation", "apache"},
		{"Red Hat, Inc.", "redhat"},
		{"Palo Alto Networks", "paloalto"},
		{"apache", "apache"}, // canonical tokens map to themselves
		{"  Oracle Corp  ", "oracle"},
		{"Acme Widgets", "acme widgets"}, // unknown vendors pass through
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Vendor(tc.input), "input %q", tc.input)
	}
}

func TestCanonicalizerProduct(t *testing.T) {
	c := DefaultCanonicalizer()

	cases := []struct {
		input string
		want  string
	}{
		{"Apache Log4j", "log4j"},
		{"log4j2", "log4j"},
		{"Internet Information Services", "iis"},
		{"Exchange Server", "exchange"},
		{"tomcat", "tomcat"},
		{"My Cool App", "my_cool_app"}, // unknown products pass through
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Product(tc.input), "input %q", tc.input)
	}
}

func TestCanonicalizerCustomTables(t *testing.T) {
	c := NewCanonicalizer(
		map[string][]string{"acme": {"acme corp"}},
		map[string][]string{"widget": {"widget deluxe"}},
	)

	assert.Equal(t, "acme", c.Vendor("ACME Corp"))
	assert.Equal(t, "widget", c.Product("Widget Deluxe"))
	assert.Equal(t, "microsoft corporation", c.Vendor("Microsoft Corporation"),
		"defaults do not leak into custom tables")
}
