package validator

import (
	"fmt"
	"math"
	"strings"
)

// Summarize computes dataset-level statistics from a completed evaluation
// and appends one opportunity issue per recommended field never observed as
// a key across the whole run.
//
// Pass rate is computed from distinct erroring records (a record with five
// errors counts once); the severity counters count issues. See Summary.
func (v *Validator) Summarize(eval *Evaluation) *Result {
	issues := make([]Issue, 0, len(eval.Issues))
	issues = append(issues, eval.Issues...)
	issues = append(issues, v.opportunityIssues(eval)...)

	summary := Summary{ItemsTotal: eval.ItemsTotal}
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			summary.ItemsWithErrors++
		case SeverityWarning:
			summary.ItemsWithWarnings++
		case SeverityOpportunity:
			summary.ItemsWithOpportunities++
		}
	}

	errorRows := 0
	for _, flagged := range eval.ErrorFlags {
		if flagged {
			errorRows++
		}
	}
	if eval.ItemsTotal > 0 {
		summary.PassRate = roundRate(float64(eval.ItemsTotal-errorRows) / float64(eval.ItemsTotal))
	}

	return &Result{Summary: summary, Issues: issues}
}

// opportunityIssues synthesizes one dataset-scope finding per recommended
// field that no record supplied as a key, in declaration order. These carry
// no row index or item id and are emitted even for an empty dataset.
func (v *Validator) opportunityIssues(eval *Evaluation) []Issue {
	var out []Issue
	for _, f := range v.tables.Recommended {
		if _, seen := eval.seenOptional[f]; seen {
			continue
		}
		out = append(out, Issue{
			Field:    f,
			RuleID:   opportunityRuleID(f),
			Severity: SeverityOpportunity,
			Message:  fmt.Sprintf("%q was not provided by any record in the feed.", f),
			Remediation: []string{
				fmt.Sprintf("Add %q to your feed to improve listing quality.", f),
			},
		})
	}
	return out
}

// opportunityRuleID derives a stable rule identifier from the field name.
func opportunityRuleID(field string) string {
	return "OF-OPP-" + strings.ToUpper(field)
}

// roundRate rounds to four decimal places for stable API output.
func roundRate(r float64) float64 {
	return math.Round(r*10000) / 10000
}
