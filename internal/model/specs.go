package model

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// SpecField is one recognized specification value.
type SpecField struct {
	Value any
	Key   string
}

// Specs is an ordered key/value mapping. Order is preserved through JSON so
// the stored column reads in the same order the fields were recognized.
type Specs []SpecField

// Get returns the value stored under key.
func (s Specs) Get(key string) (any, bool) {
	for _, f := range s {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (s Specs) Keys() []string {
	keys := make([]string, len(s))
	for i, f := range s {
		keys[i] = f.Key
	}
	return keys
}

// MarshalJSON encodes the specs as a JSON object in field order.
func (s Specs) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode spec key %q: %w", f.Key, err)
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode spec %q: %w", f.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping the key order.
func (s *Specs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read specs: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("specs must be a JSON object, got %v", tok)
	}

	out := Specs{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read spec key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("spec key must be a string, got %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("failed to read spec %q: %w", key, err)
		}
		out = append(out, SpecField{Key: key, Value: value})
	}

	*s = out
	return nil
}
