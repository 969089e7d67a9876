// Package parser converts raw feed bytes into normalized records.
//
// Feeds arrive either as JSON (a top-level array of objects, or an object
// wrapping an "items" array) or as delimited text (CSV/TSV, with or without
// a BOM, in any IANA-registered charset). JSON is tried first; anything that
// does not decode as JSON falls back to the delimited reader, which sniffs
// the delimiter from the payload when the caller does not supply one.
//
// Every row passes through the feed Normalizer before it is returned, so
// downstream consumers only ever see canonical keys. Parse failures are
// request-level errors at the service boundary; they never appear in the
// validation issue stream.
package parser
