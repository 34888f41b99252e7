package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	out := string(r.Render("We **care** for our community.\n\n<script>alert(1)</script>"))
	assert.Contains(t, out, "<strong>care</strong>")
	assert.NotContains(t, out, "<script>")

	assert.Empty(t, r.Render("   "))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "jane-doe", Slugify("Jane  Doe"))
	assert.Equal(t, "ravi-kumar-singh", Slugify("Ravi Kumar\tSingh"))
	assert.Equal(t, "asha", Slugify("ASHA"))
}

func TestSlugify_UnicodeSpaces(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no-break space", "Jane\u00a0Doe", "jane-doe"},
		{"ideographic space", "Jane\u3000Doe", "jane-doe"},
		{"narrow no-break space", "Jane\u202fDoe", "jane-doe"},
		{"mixed run", "Jane \u00a0\t\u2003Doe", "jane-doe"},
		{"vertical tab", "Jane\vDoe", "jane-doe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
