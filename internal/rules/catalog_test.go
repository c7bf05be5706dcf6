package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/partflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CoversBuiltinCategories(t *testing.T) {
	c := Default()
	assert.Equal(t, model.BuiltinCategories(), c.Categories())

	for _, r := range c.Rules() {
		assert.Len(t, r.Patterns(), len(r.CategoryRule.Patterns), "category %s", r.Category)
		assert.True(t, r.ComponentType().Valid(), "category %s", r.Category)
	}
}

func TestDefault_HintsPointAtKnownRules(t *testing.T) {
	c := Default()
	for _, h := range c.FilenameHints() {
		_, ok := c.Rule(h.Category)
		assert.True(t, ok, "hint %q points at %s which has no rule", h.Match, h.Category)
	}
}

func TestNewCatalog_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules []CategoryRule
	}{
		{name: "empty", rules: nil},
		{name: "missing category", rules: []CategoryRule{{Required: []string{"x"}}}},
		{name: "bad pattern", rules: []CategoryRule{{Category: "cpu", Patterns: []string{"(ryzen"}}}},
		{name: "inverted price range", rules: []CategoryRule{{Category: "cpu", PriceRange: PriceRange{Min: 10, Max: 1}}}},
		{name: "unknown type", rules: []CategoryRule{{Category: "nas", Type: "appliance"}}},
		{name: "duplicate", rules: []CategoryRule{{Category: "cpu"}, {Category: "cpu"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.rules, nil, nil)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestNewCatalog_LowercasesKeywords(t *testing.T) {
	c, err := NewCatalog([]CategoryRule{{
		Category: "nas",
		Type:     model.TypeStorage,
		Required: []string{"NAS", "Network Storage"},
	}}, []BrandAlias{{Brand: "Synology", Aliases: []string{"Synology", "DiskStation"}}}, nil)
	require.NoError(t, err)

	r, ok := c.Rule("nas")
	require.True(t, ok)
	assert.Equal(t, []string{"nas", "network storage"}, r.Required)
	assert.Equal(t, model.TypeStorage, r.ComponentType())
	assert.Equal(t, []string{"synology", "diskstation"}, c.BrandAliases()[0].Aliases)
}

func TestPriceRange_Contains(t *testing.T) {
	r := PriceRange{Min: 2000, Max: 150000}
	assert.True(t, r.Contains(2000))
	assert.True(t, r.Contains(150000))
	assert.False(t, r.Contains(1999.99))
	assert.False(t, r.Contains(150000.01))
}

func TestHintCategory(t *testing.T) {
	c := Default()

	tests := []struct {
		filename string
		want     model.Category
		wantOK   bool
	}{
		{"cpu.json", model.CategoryCPU, true},
		{"cpu-cooler.json", model.CategoryCooler, true},
		{"/data/pcpartpicker/CPU-Cooler.json", model.CategoryCooler, true},
		{"external-hard-drive.json", model.CategoryExternalStorage, true},
		{"2024-video-card-dump.json", model.CategoryGPU, true},
		{"case-fan.json", model.CategoryCaseFan, true},
		{"cases.json", model.CategoryCase, true},
		{"wireless-headset.json", model.CategoryHeadphones, true},
		{"misc.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, ok := c.HintCategory(tt.filename)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
rules:
  - category: nas
    type: storage
    required: [nas, diskstation]
    patterns: ['ds\d{3,4}\+?']
    price_range:
      min: 5000
      max: 200000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []model.Category{"nas"}, c.Categories())
	r, ok := c.Rule("nas")
	require.True(t, ok)
	assert.Equal(t, PriceRange{Min: 5000, Max: 200000}, r.PriceRange)
	assert.True(t, r.Patterns()[0].MatchString("Synology DS920+"))

	// Sections left out fall back to the built-in tables.
	assert.Equal(t, len(DefaultBrandAliases()), len(c.BrandAliases()))
	assert.Equal(t, len(DefaultFilenameHints()), len(c.FilenameHints()))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
