package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tables, err := Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tables)

	// Loading again returns the cached instance.
	again, err := Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, tables, again)
}

func TestTables_FieldSets(t *testing.T) {
	tables, err := Load(context.Background())
	require.NoError(t, err)

	for _, f := range []string{"id", "title", "price", "availability", "return_window"} {
		assert.True(t, tables.IsRequired(f), "expected %q to be required", f)
	}
	for _, f := range []string{"gtin", "color", "sale_price", "availability_date"} {
		assert.True(t, tables.IsRecommended(f), "expected %q to be recommended", f)
		assert.False(t, tables.IsRequired(f), "%q must not be required", f)
	}

	assert.True(t, tables.IsKnown("image_link"))
	assert.False(t, tables.IsKnown("quantum_flux"))

	vocab := tables.Vocabulary()
	assert.Len(t, vocab, len(tables.Required)+len(tables.Recommended))
	assert.Equal(t, tables.Required[0], vocab[0])
}

func TestTables_Aliases(t *testing.T) {
	tables, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "image_link", tables.Aliases["imageurl"])
	assert.Equal(t, "link", tables.Aliases["product_url"])
	assert.Equal(t, "seller_name", tables.Aliases["sellername"])
}

func TestTables_Enums(t *testing.T) {
	tables, err := Load(context.Background())
	require.NoError(t, err)

	tests := []struct {
		enum  string
		value string
		want  bool
	}{
		{"availability", "in_stock", true},
		{"availability", "preorder", true},
		{"availability", "sold_out", false},
		{"boolean", "true", true},
		{"boolean", "TRUE", false},
		{"condition", "refurbished", true},
		{"gender", "unisex", true},
		{"pickup_method", "reserve", true},
		{"relationship_type", "substitute", true},
		{"no_such_enum", "anything", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tables.InEnum(tt.enum, tt.value),
			"InEnum(%q, %q)", tt.enum, tt.value)
	}

	assert.ElementsMatch(t, []string{"male", "female", "unisex"}, tables.EnumValues("gender"))
	assert.Nil(t, tables.EnumValues("no_such_enum"))
}

func TestTables_Patterns(t *testing.T) {
	tables, err := Load(context.Background())
	require.NoError(t, err)

	tests := []struct {
		pattern string
		value   string
		want    bool
	}{
		{"price", "79.99 USD", true},
		{"price", "79.999 USD", false},
		{"price", "79.99 usd", false},
		{"price", "79.99USD", false},
		{"url", "https://example.com/p", true},
		{"url", "HTTP://example.com", true},
		{"url", "ftp://example.com", false},
		{"iso_date", "2026-01-31", true},
		{"iso_date", "2026/01/31", false},
		{"date_range", "2026-01-01 / 2026-02-01", true},
		{"date_range", "2026-01-01/2026-02-01", true},
		{"date_range", "2026-01-01", false},
		{"weight", "1.5 lb", true},
		{"weight", "2 KG", true},
		{"weight", "heavy", false},
		{"dimension", "10 cm", true},
		{"dimension", "10.5in", true},
		{"dimension", "10 parsec", false},
		{"id_charset", "SKU_1.2-3", true},
		{"id_charset", "SKU 1", false},
		{"country_alpha2", "US", true},
		{"country_alpha2", "USA", false},
		{"pickup_sla", "1 day", true},
		{"pickup_sla", "same-day", false},
		{"no_such_pattern", "anything", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tables.MatchPattern(tt.pattern, tt.value),
			"MatchPattern(%q, %q)", tt.pattern, tt.value)
	}

	assert.NotNil(t, tables.Pattern("date_range"))
	assert.Nil(t, tables.Pattern("no_such_pattern"))
}
