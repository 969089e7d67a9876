package feed

// Record is one product offer: a mapping from canonical field name to a
// display-ready string value. An empty string means absent/blank; the feed
// formats this system accepts do not distinguish null from empty.
type Record map[string]string

// Get returns the value for field, or "" when the field is absent.
func (r Record) Get(field string) string {
	return r[field]
}

// Has reports whether field is present as a key, regardless of value.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// ID returns the record's own id field, if any.
func (r Record) ID() string {
	return r["id"]
}
