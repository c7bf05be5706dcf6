package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/Veraticus/partflow/internal/model"
)

// ExportSource names the upstream dataset in exported files.
const ExportSource = "pcpartpicker"

// ExportMetadata heads an exported file.
type ExportMetadata struct {
	ExportDate   time.Time `json:"export_date"`
	Source       string    `json:"source"`
	TotalRecords int       `json:"total_records"`
}

// ExportRecord is one exported component.
type ExportRecord struct {
	Specs     model.Specs `json:"specs"`
	Type      string      `json:"type"`
	Brand     string      `json:"brand"`
	Model     string      `json:"model"`
	Currency  string      `json:"currency"`
	ImageURL  string      `json:"image_url"`
	SourceURL string      `json:"source_url"`
	Price     float64     `json:"price"`
}

// Export is the file written by ExportVerified.
type Export struct {
	Metadata ExportMetadata `json:"metadata"`
	Records  []ExportRecord `json:"records"`
}

// ExportVerified writes the accepted components as a JSON document.
func ExportVerified(path string, components []model.Component, now time.Time) error {
	export := Export{
		Metadata: ExportMetadata{
			ExportDate:   now.UTC(),
			Source:       ExportSource,
			TotalRecords: len(components),
		},
		Records: make([]ExportRecord, len(components)),
	}
	for i, c := range components {
		specs := c.Specs
		if specs == nil {
			specs = model.Specs{}
		}
		export.Records[i] = ExportRecord{
			Type:      string(c.Type),
			Brand:     c.Brand,
			Model:     c.Model,
			Price:     c.Price,
			Currency:  c.Currency,
			ImageURL:  c.ImageURL,
			SourceURL: c.SourceURL,
			Specs:     specs,
		}
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
