// Package validator implements the product-feed rule engine and aggregator.
//
// # Overview
//
// The validator consumes a sequence of normalized records (see pkg/feed) and
// runs an ordered battery of per-field checks against each one: required
// presence, value shapes, enumerations, and cross-field dependencies such as
// checkout-requires-search or the preorder availability date. Each violation
// becomes one Issue; rules never short-circuit, so a record accumulates one
// issue per violated rule.
//
// # Severities
//
// Findings are classified into three tiers:
//   - error: hard rule violations (missing required field, malformed
//     mandatory format, violated hard dependency)
//   - warning: soft conventions (length limits, casing, unit hints,
//     recommended-but-empty fields)
//   - opportunity: dataset-wide signal that a recommended field was never
//     supplied by any record
//
// # Run state
//
// One validation invocation is one synchronous pass with no I/O. Run-scoped
// state (seen ids for duplicate detection, erroring rows, observed optional
// fields) is created fresh per call, so concurrent validation runs never
// share state.
//
// # Usage
//
//	tables, err := rules.Load(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v := validator.New(tables)
//	result := v.Validate(ctx, records)
//	fmt.Printf("pass rate: %.4f\n", result.Summary.PassRate)
//
// The current date used by future-date checks is injectable via WithNow for
// deterministic tests. Rule tables (field vocabulary, aliases, enums, value
// shapes) are data, not code; see pkg/rules.
package validator
