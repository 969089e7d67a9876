package validator

import (
	"context"
	"log/slog"
	"time"

	"github.com/feedcheck/feedcheck/pkg/feed"
	"github.com/feedcheck/feedcheck/pkg/rules"
)

// DefaultRowCap is the maximum number of records evaluated per run. Records
// beyond the cap are silently dropped, not reported as an issue.
const DefaultRowCap = 50000

// Validator runs the per-field rule battery over a record sequence. It is
// stateless across runs; all run-scoped state lives in a fresh run value per
// call, so a single Validator is safe for concurrent use.
type Validator struct {
	tables *rules.Tables
	now    func() time.Time
	rowCap int
}

// Option is a functional option for configuring Validator instances.
type Option func(*Validator)

// WithNow returns an Option that injects the clock used for future-date
// checks. Defaults to time.Now; inject a fixed clock for deterministic tests.
func WithNow(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithRowCap returns an Option that overrides the maximum record count per
// run. Non-positive values are ignored.
func WithRowCap(rowCap int) Option {
	return func(v *Validator) {
		if rowCap > 0 {
			v.rowCap = rowCap
		}
	}
}

// New creates a Validator over the given rule tables.
func New(tables *rules.Tables, opts ...Option) *Validator {
	v := &Validator{
		tables: tables,
		now:    time.Now,
		rowCap: DefaultRowCap,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate runs the full pipeline over records: row cap, rule evaluation,
// and aggregation including the dataset-level opportunity pass.
func (v *Validator) Validate(ctx context.Context, records []feed.Record) *Result {
	start := time.Now()

	if len(records) > v.rowCap {
		slog.Warn("record count exceeds row cap, truncating",
			"records", len(records),
			"cap", v.rowCap)
		records = records[:v.rowCap]
	}

	eval := v.Evaluate(ctx, records)
	result := v.Summarize(eval)

	validationDuration.Observe(time.Since(start).Seconds())
	validationRecordsTotal.Add(float64(eval.ItemsTotal))
	for _, issue := range result.Issues {
		validationIssuesTotal.WithLabelValues(string(issue.Severity)).Inc()
	}

	slog.Debug("validation completed",
		"items_total", result.Summary.ItemsTotal,
		"errors", result.Summary.ItemsWithErrors,
		"warnings", result.Summary.ItemsWithWarnings,
		"opportunities", result.Summary.ItemsWithOpportunities,
		"pass_rate", result.Summary.PassRate,
		"duration", time.Since(start))

	return result
}

// Evaluate runs the ordered rule battery over every record, strictly in
// input order. Rules never short-circuit: a record accumulates one issue per
// violated rule. Malformed values become issues, never panics or errors.
func (v *Validator) Evaluate(_ context.Context, records []feed.Record) *Evaluation {
	rn := &run{
		tables:       v.tables,
		vocab:        v.tables.Vocabulary(),
		today:        dateOnly(v.now()),
		seenIDs:      make(map[string]struct{}),
		seenOptional: make(map[string]struct{}),
		errorFlags:   make([]bool, len(records)),
	}

	for idx, record := range records {
		rn.evaluateRecord(idx, record)
	}

	return &Evaluation{
		Issues:       rn.issues,
		ErrorFlags:   rn.errorFlags,
		ItemsTotal:   len(records),
		seenOptional: rn.seenOptional,
	}
}

// run is the working state threaded through one evaluation pass. It is
// created fresh per call and never shared between runs.
type run struct {
	tables *rules.Tables
	vocab  []string
	today  time.Time

	issues       []Issue
	errorFlags   []bool
	seenIDs      map[string]struct{}
	seenOptional map[string]struct{}
}

// push appends one finding and marks the row errored when the severity is
// error.
func (rn *run) push(rowIndex int, itemID, field, ruleID string, severity Severity, message, sample string) {
	idx := rowIndex
	issue := Issue{
		RowIndex:    &idx,
		Field:       field,
		RuleID:      ruleID,
		Severity:    severity,
		Message:     message,
		SampleValue: &sample,
		Remediation: []string{},
	}
	if itemID != "" {
		issue.ItemID = &itemID
	}
	rn.issues = append(rn.issues, issue)
	if severity == SeverityError {
		rn.errorFlags[rowIndex] = true
	}
}

// dateOnly truncates t to UTC midnight so future-date checks compare
// calendar days against the UTC dates produced by time.Parse.
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
