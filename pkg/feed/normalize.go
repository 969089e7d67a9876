package feed

import (
	"encoding/json"
	"fmt"
	"strings"
)

// multiValueFields are fields where a JSON array value is flattened into a
// single comma-separated string for display.
var multiValueFields = map[string]struct{}{
	"additional_image_link": {},
}

// Normalizer maps arbitrary input keys onto the canonical field vocabulary
// and coerces values into display-ready strings. It is a pure function of
// its alias table: normalization never fails and is idempotent.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer creates a Normalizer with the given alias table. Alias keys
// must already be in mechanically-normalized form (lower case, underscore
// separators); values are canonical field names.
func NewNormalizer(aliases map[string]string) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// NormalizeKey lower-cases and trims the raw key, replaces dashes and spaces
// with underscores, then resolves known aliases. Unrecognized keys pass
// through unchanged after the mechanical transform.
func (n *Normalizer) NormalizeKey(raw string) string {
	k := strings.ToLower(strings.TrimSpace(raw))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	if canonical, ok := n.aliases[k]; ok {
		return canonical
	}
	return k
}

// NormalizeRecord builds a Record from a raw key→value mapping: keys go
// through NormalizeKey, values are coerced to trimmed strings. List values
// for multi-value fields are joined with ", "; other non-scalar values fall
// back to their default string rendering.
func (n *Normalizer) NormalizeRecord(raw map[string]any) Record {
	r := make(Record, len(raw))
	for k, v := range raw {
		key := n.NormalizeKey(k)
		if _, multi := multiValueFields[key]; multi {
			if list, ok := v.([]any); ok {
				parts := make([]string, len(list))
				for i, item := range list {
					parts[i] = coerceValue(item)
				}
				r[key] = strings.Join(parts, ", ")
				continue
			}
		}
		r[key] = coerceValue(v)
	}
	return r
}

// coerceValue renders a decoded feed value as a trimmed string. json.Number
// keeps its source text so "2.50" does not become "2.5".
func coerceValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
