// Package feed defines the normalized record shape shared by the parser and
// the rule engine.
//
// # Overview
//
// Product feeds arrive with wildly inconsistent header spellings ("Image Link",
// "image-url", "imageurl"). The Normalizer collapses those onto a fixed
// canonical vocabulary before any rule runs, so the rule engine only ever sees
// canonical keys. Values are coerced to trimmed strings at the same time; the
// engine does not distinguish null from empty.
//
// Normalization is a pure function of the raw key. It never fails, and it is
// idempotent: normalizing an already-canonical key is a no-op.
package feed
