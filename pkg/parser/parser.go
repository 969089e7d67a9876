package parser

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	fcerrors "github.com/feedcheck/feedcheck/pkg/errors"
	"github.com/feedcheck/feedcheck/pkg/feed"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// candidateDelimiters are tried in order when sniffing; the order breaks
// count ties, preferring tab over comma.
var candidateDelimiters = []rune{'\t', ',', ';', '|'}

// Parser turns raw feed bytes into normalized records. It tries a JSON shape
// first (a top-level array of objects, or an object with an "items" array)
// and falls back to delimited text with BOM stripping and header
// normalization.
type Parser struct {
	norm *feed.Normalizer
}

// New creates a Parser that normalizes keys through norm.
func New(norm *feed.Normalizer) *Parser {
	return &Parser{norm: norm}
}

// Parse decodes data and returns the normalized record sequence. delimiter
// and charset may be empty; the delimiter is sniffed and the charset
// defaults to UTF-8. Parse failures are boundary errors, never validation
// issues.
func (p *Parser) Parse(data []byte, delimiter, charset string) ([]feed.Record, error) {
	text, err := decodeCharset(data, charset)
	if err != nil {
		return nil, err
	}

	if records, ok := p.parseJSON(text); ok {
		slog.Debug("parsed feed as json", "records", len(records))
		return records, nil
	}

	records, err := p.parseDelimited(text, delimiter)
	if err != nil {
		return nil, err
	}
	slog.Debug("parsed feed as delimited text", "records", len(records))
	return records, nil
}

// decodeCharset strips a UTF-8 BOM and converts data to UTF-8 using the
// IANA-registered charset name, defaulting to UTF-8.
func decodeCharset(data []byte, charset string) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	name := strings.TrimSpace(charset)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return "", fcerrors.Newf(fcerrors.ErrCodeInvalidRequest, "unsupported encoding %q", name)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fcerrors.WrapWithContext(fcerrors.ErrCodeInvalidRequest,
			"failed to decode feed bytes", err, map[string]any{"encoding": name})
	}
	return string(decoded), nil
}

// parseJSON attempts the two JSON feed shapes: a top-level array of objects,
// or an object wrapping an "items" array. The second return is false for
// anything else, including JSON that decodes to some other shape, signalling
// the delimited fallback.
func (p *Parser) parseJSON(text string) ([]feed.Record, bool) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, false
	}

	var items []any
	switch v := root.(type) {
	case []any:
		items = v
	case map[string]any:
		wrapped, ok := v["items"].([]any)
		if !ok {
			return nil, false
		}
		items = wrapped
	default:
		return nil, false
	}

	records := make([]feed.Record, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, p.norm.NormalizeRecord(obj))
	}
	return records, true
}

// parseDelimited reads header-first delimited text. The first row is the
// header and is normalized onto the canonical vocabulary; rows may be ragged
// (missing trailing cells read as empty, extra cells are dropped).
func (p *Parser) parseDelimited(text, delimiter string) ([]feed.Record, error) {
	delim := sniffDelimiter(text, delimiter)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headerRow, err := reader.Read()
	if err == io.EOF {
		return []feed.Record{}, nil
	}
	if err != nil {
		return nil, fcerrors.Wrap(fcerrors.ErrCodeInvalidRequest, "failed to read feed header", err)
	}

	header := make([]string, len(headerRow))
	for i, h := range headerRow {
		header[i] = p.norm.NormalizeKey(h)
	}

	var records []feed.Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fcerrors.Wrap(fcerrors.ErrCodeInvalidRequest, "failed to read feed row", err)
		}

		raw := make(map[string]any, len(header))
		for i, key := range header {
			if i < len(row) {
				raw[key] = row[i]
			} else {
				raw[key] = ""
			}
		}
		records = append(records, p.norm.NormalizeRecord(raw))
	}

	if records == nil {
		records = []feed.Record{}
	}
	return records, nil
}

// sniffDelimiter returns the explicit delimiter when given, otherwise the
// candidate occurring most often in the text.
func sniffDelimiter(text, delimiter string) rune {
	if delimiter != "" {
		return []rune(delimiter)[0]
	}

	best := ','
	bestCount := -1
	for _, cand := range candidateDelimiters {
		if n := strings.Count(text, string(cand)); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best
}
