package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Veraticus/partflow/internal/model"
)

// DefaultCurrency is stored when a component carries none.
const DefaultCurrency = "PHP"

const listComponentsColumns = `SELECT id, type, brand, model, price, currency, image_url, source_url, specs, last_updated FROM components`

// buildListQuery renders the filtered select; placeholder formats the n-th
// bind parameter for the backend.
func buildListQuery(filter ComponentFilter, placeholder func(n int) string) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, placeholder(len(args))))
	}

	if filter.Type != "" {
		add("type = %s", string(filter.Type))
	}
	if filter.Brand != "" {
		add("LOWER(brand) = %s", strings.ToLower(filter.Brand))
	}
	if filter.Search != "" {
		add("LOWER(model) LIKE %s", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.MinPrice > 0 {
		add("price >= %s", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		add("price <= %s", filter.MaxPrice)
	}

	var query strings.Builder
	query.WriteString(listComponentsColumns)
	if len(where) > 0 {
		query.WriteString(" WHERE ")
		query.WriteString(strings.Join(where, " AND "))
	}
	query.WriteString(" ORDER BY type, brand, model")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query.WriteString(" LIMIT " + placeholder(len(args)))
	}

	return query.String(), args
}

func encodeSpecs(specs model.Specs) (string, error) {
	if len(specs) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(specs)
	if err != nil {
		return "", fmt.Errorf("failed to encode specs: %w", err)
	}
	return string(data), nil
}

func decodeSpecs(data []byte) (model.Specs, error) {
	if len(data) == 0 {
		return model.Specs{}, nil
	}
	var specs model.Specs
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to decode specs: %w", err)
	}
	if specs == nil {
		specs = model.Specs{}
	}
	return specs, nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
