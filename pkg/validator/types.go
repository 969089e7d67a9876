package validator

// Severity classifies a finding. It is a closed enumeration: error for hard
// rule violations, warning for soft conventions, opportunity for dataset-wide
// coverage suggestions.
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityOpportunity Severity = "opportunity"
)

// IsValid reports whether s is one of the declared severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityOpportunity:
		return true
	}
	return false
}

// Issue is one finding produced by a rule, scoped to a field and optionally
// to a record. RowIndex and ItemID are nil for dataset-level findings.
type Issue struct {
	RowIndex    *int     `json:"row_index" yaml:"row_index"`
	ItemID      *string  `json:"item_id" yaml:"item_id"`
	Field       string   `json:"field" yaml:"field"`
	RuleID      string   `json:"rule_id" yaml:"rule_id"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Message     string   `json:"message" yaml:"message"`
	SampleValue *string  `json:"sample_value" yaml:"sample_value"`
	Remediation []string `json:"remediation" yaml:"remediation"`
}

// Summary is the dataset-level statistics for one validation run.
//
// ItemsWithErrors/Warnings/Opportunities count issues, not distinct records:
// a record with five errors contributes five to ItemsWithErrors. PassRate is
// computed from distinct erroring records, so the two are not directly
// comparable. Both behaviors are kept deliberately.
type Summary struct {
	ItemsTotal             int     `json:"items_total" yaml:"items_total"`
	ItemsWithErrors        int     `json:"items_with_errors" yaml:"items_with_errors"`
	ItemsWithWarnings      int     `json:"items_with_warnings" yaml:"items_with_warnings"`
	ItemsWithOpportunities int     `json:"items_with_opportunities" yaml:"items_with_opportunities"`
	PassRate               float64 `json:"pass_rate" yaml:"pass_rate"`
}

// Result is the response object for one validation run: the aggregate
// summary plus the ordered issue stream. Issue order follows record order,
// within a record rule-family order, with dataset-level opportunity issues
// appended at the end.
type Result struct {
	Summary Summary `json:"summary" yaml:"summary"`
	Issues  []Issue `json:"issues" yaml:"issues"`
}

// Evaluation is the raw output of the rule engine before aggregation.
type Evaluation struct {
	// Issues holds every record-scoped finding, in evaluation order.
	Issues []Issue

	// ErrorFlags has one entry per processed record; true when the record
	// produced at least one error-severity issue.
	ErrorFlags []bool

	// ItemsTotal is the number of records processed (after the row cap).
	ItemsTotal int

	// seenOptional tracks which recommended fields appeared as a key in at
	// least one record, feeding the dataset-level opportunity pass.
	seenOptional map[string]struct{}
}
