package classification

import (
	"testing"

	"github.com/Veraticus/partflow/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestBrandExtractor_Extract(t *testing.T) {
	e := NewBrandExtractor(rules.Default())

	tests := []struct {
		model string
		want  string
	}{
		{"AMD Ryzen 5 5600X", "AMD"},
		{"Ryzen 7 7800X3D", "AMD"},
		{"Noctua NH-D15 chromax.black", "Noctua"},
		{"WD_BLACK SN850X 2TB", "Western Digital"},
		{"G.SKILL Trident Z5 RGB 32GB", "G.Skill"},
		// Alias table order decides: "prime" is listed for ASUS before Seasonic.
		{"Seasonic Prime TX-850", "ASUS"},
		{"zephyr-x1 widget", "Zephyr"},
		{"  foo_bar baz", "Foo"},
		{"", UnknownBrand},
		{"  -_ ", UnknownBrand},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := e.Extract(tt.model)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}
