package rules

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"

	fcerrors "github.com/feedcheck/feedcheck/pkg/errors"
)

var (
	//go:embed data/rules-v1.yaml
	tableData []byte

	tablesOnce   sync.Once
	cachedTables *Tables
	cachedErr    error
)

// rawConfig is the on-disk shape of the embedded rule tables.
type rawConfig struct {
	Required    []string            `yaml:"required"`
	Recommended []string            `yaml:"recommended"`
	Aliases     map[string]string   `yaml:"aliases"`
	Enums       map[string][]string `yaml:"enums"`
	Patterns    map[string]string   `yaml:"patterns"`
}

// Tables is the compiled, lookup-ready form of the rule configuration.
// All members are read-only after Load returns.
type Tables struct {
	// Required lists canonical fields every record must carry, in
	// declaration order.
	Required []string

	// Recommended lists canonical fields that are optional but tracked
	// for dataset-level coverage, in declaration order.
	Recommended []string

	// Aliases maps mechanically-normalized header spellings onto
	// canonical field names.
	Aliases map[string]string

	requiredSet    map[string]struct{}
	recommendedSet map[string]struct{}
	enums          map[string]map[string]struct{}
	patterns       map[string]*regexp.Regexp
}

// Load parses and caches the embedded rule tables. Because the data is
// embedded at build time, it is parsed once and the in-memory representation
// is reused for the lifetime of the process.
func Load(_ context.Context) (*Tables, error) {
	tablesOnce.Do(func() {
		var raw rawConfig
		if err := yaml.Unmarshal(tableData, &raw); err != nil {
			cachedErr = err
			return
		}
		cachedTables, cachedErr = compile(&raw)
	})

	if cachedErr != nil {
		return nil, cachedErr
	}
	if cachedTables == nil {
		return nil, fcerrors.New(fcerrors.ErrCodeInternal, "rule tables not initialized")
	}
	return cachedTables, nil
}

func compile(raw *rawConfig) (*Tables, error) {
	t := &Tables{
		Required:       raw.Required,
		Recommended:    raw.Recommended,
		Aliases:        raw.Aliases,
		requiredSet:    make(map[string]struct{}, len(raw.Required)),
		recommendedSet: make(map[string]struct{}, len(raw.Recommended)),
		enums:          make(map[string]map[string]struct{}, len(raw.Enums)),
		patterns:       make(map[string]*regexp.Regexp, len(raw.Patterns)),
	}

	for _, f := range raw.Required {
		t.requiredSet[f] = struct{}{}
	}
	for _, f := range raw.Recommended {
		t.recommendedSet[f] = struct{}{}
	}
	for name, values := range raw.Enums {
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		t.enums[name] = set
	}
	for name, expr := range raw.Patterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", name, err)
		}
		t.patterns[name] = re
	}

	return t, nil
}

// IsRequired reports whether the canonical field is mandatory on every record.
func (t *Tables) IsRequired(field string) bool {
	_, ok := t.requiredSet[field]
	return ok
}

// IsRecommended reports whether the canonical field is tracked for coverage.
func (t *Tables) IsRecommended(field string) bool {
	_, ok := t.recommendedSet[field]
	return ok
}

// IsKnown reports whether the field belongs to the canonical vocabulary,
// required or recommended.
func (t *Tables) IsKnown(field string) bool {
	return t.IsRequired(field) || t.IsRecommended(field)
}

// InEnum reports whether value is a member of the named enumeration.
// Unknown enumeration names match nothing.
func (t *Tables) InEnum(name, value string) bool {
	set, ok := t.enums[name]
	if !ok {
		return false
	}
	_, ok = set[value]
	return ok
}

// EnumValues returns the declared members of the named enumeration.
func (t *Tables) EnumValues(name string) []string {
	set, ok := t.enums[name]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	return values
}

// Pattern returns the compiled regular expression for the named value shape,
// or nil if no such shape is declared.
func (t *Tables) Pattern(name string) *regexp.Regexp {
	return t.patterns[name]
}

// MatchPattern reports whether value matches the named value shape. A missing
// shape never matches, so a typo in a caller fails closed.
func (t *Tables) MatchPattern(name, value string) bool {
	re, ok := t.patterns[name]
	if !ok {
		return false
	}
	return re.MatchString(value)
}

// Vocabulary returns every canonical field name, required first, then
// recommended, preserving declaration order.
func (t *Tables) Vocabulary() []string {
	out := make([]string, 0, len(t.Required)+len(t.Recommended))
	out = append(out, t.Required...)
	out = append(out, t.Recommended...)
	return out
}
