// Package ingest runs the source files through normalization and
// classification and hands accepted components to the catalog writer.
package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Veraticus/partflow/internal/common"
	"github.com/Veraticus/partflow/internal/model"
)

// ErrSourceDirNotFound is returned when the source directory does not exist.
var ErrSourceDirNotFound = errors.New("source directory not found")

// Discover returns the *.json files in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSourceDirNotFound, dir)
		}
		return nil, fmt.Errorf("failed to access source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrSourceDirNotFound, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}

// ParseFile reads a source file whose top level must be a JSON array.
// Elements that are not objects are counted as malformed and skipped.
func ParseFile(path string) ([]model.RawRecord, int, error) {
	// #nosec G304 - path comes from Discover
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", common.ErrSourceUnreadable, err)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, 0, fmt.Errorf("%w: top level must be an array: %v", common.ErrMalformedSource, err)
	}

	records := make([]model.RawRecord, 0, len(elements))
	malformed := 0
	for _, element := range elements {
		record, err := decodeRecord(element)
		if err != nil {
			malformed++
			continue
		}
		records = append(records, record)
	}

	return records, malformed, nil
}

func decodeRecord(data []byte) (model.RawRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: not an object", common.ErrMalformedRecord)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var record model.RawRecord
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
	}
	return record, nil
}
