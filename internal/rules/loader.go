package rules

import (
	"fmt"

	"github.com/spf13/viper"
)

// File is the on-disk shape of a rules override file.
type File struct {
	Rules         []CategoryRule `mapstructure:"rules"`
	Brands        []BrandAlias   `mapstructure:"brands"`
	FilenameHints []FilenameHint `mapstructure:"filename_hints"`
}

// LoadFile reads a rules file (YAML, JSON or TOML, by extension) and builds a
// catalog from it. Any section the file leaves out falls back to the
// built-in table.
func LoadFile(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to decode rules file %s: %w", path, err)
	}

	if len(f.Rules) == 0 {
		f.Rules = DefaultRules()
	}
	if len(f.Brands) == 0 {
		f.Brands = DefaultBrandAliases()
	}
	if len(f.FilenameHints) == 0 {
		f.FilenameHints = DefaultFilenameHints()
	}

	return NewCatalog(f.Rules, f.Brands, f.FilenameHints)
}
