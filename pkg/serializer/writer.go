package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects the output encoding for serialized results.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	}
	return true
}

// Writer serializes values to an output stream in a fixed format.
type Writer struct {
	format Format
	out    io.Writer
}

// NewWriter creates a Writer for the given format. Unknown formats fall back
// to JSON.
func NewWriter(format Format, out io.Writer) *Writer {
	if format.IsUnknown() {
		format = FormatJSON
	}
	return &Writer{format: format, out: out}
}

// NewFileWriterOrStdout creates a Writer targeting path, or stdout when path
// is empty. The returned close function is a no-op for stdout.
func NewFileWriterOrStdout(format Format, path string) (*Writer, func() error, error) {
	if path == "" {
		return NewWriter(format, os.Stdout), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return NewWriter(format, f), f.Close, nil
}

// Serialize writes data to the output stream in the Writer's format.
func (w *Writer) Serialize(_ context.Context, data any) error {
	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(w.out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return w.serializeTable(data)
	default:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// serializeTable renders data as a two-column FIELD/VALUE table with
// flattened hierarchical keys ("[0].Field", "summary.pass_rate").
func (w *Writer) serializeTable(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to flatten data for table output: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("failed to flatten data for table output: %w", err)
	}

	rows := map[string]string{}
	flatten("", generic, rows)

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, rows[k])
	}
	return tw.Flush()
}

func flatten(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, item, out)
		}
	case []any:
		for i, item := range val {
			flatten(fmt.Sprintf("%s[%d]", prefix, i), item, out)
		}
	case nil:
		out[prefix] = ""
	default:
		out[prefix] = fmt.Sprint(val)
	}
}
