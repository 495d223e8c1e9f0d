// Package output renders run summaries for the terminal. It supports text,
// JSON, table and YAML formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/bimmerbailey/histshrink/internal/history"
	"github.com/bimmerbailey/histshrink/internal/shape"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	case "yaml", "yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// Summary describes one shrink run.
type Summary struct {
	Input   string        `json:"input" yaml:"input"`
	Output  string        `json:"output,omitempty" yaml:"output,omitempty"`
	Written bool          `json:"written" yaml:"written"`
	Stats   history.Stats `json:"stats" yaml:"stats"`
	Flagged []string      `json:"flagged" yaml:"flagged"`
	Shapes  []shape.Shape `json:"shapes,omitempty" yaml:"shapes,omitempty"`
}

// NewSummary builds a Summary from a finished pipeline result.
func NewSummary(input, output string, written bool, res *history.Result) Summary {
	return Summary{
		Input:   input,
		Output:  output,
		Written: written,
		Stats:   res.Stats,
		Flagged: res.Flagged.Entries(),
	}
}

// Writer handles writing formatted output.
type Writer struct {
	w      io.Writer
	format Format
	color  ColorMode
}

// New creates a new output Writer. Color only affects the text format.
func New(w io.Writer, format Format, color ColorMode) *Writer {
	return &Writer{w: w, format: format, color: color}
}

// WriteSummary outputs s in the configured format.
func (wr *Writer) WriteSummary(s Summary) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(s)
	case FormatYAML:
		return wr.WriteYAML(s)
	case FormatTable:
		return wr.writeTable(s)
	default:
		return wr.writeText(s)
	}
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v any) error {
	enc := json.NewEncoder(wr.w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML outputs any value as YAML.
func (wr *Writer) WriteYAML(v any) error {
	enc := yaml.NewEncoder(wr.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFlagged prints one flagged entry per line, highlighted when the
// writer is a terminal.
func (wr *Writer) WriteFlagged(entries []string) error {
	colorize := shouldColorize(wr.color, wr.w)
	for _, e := range entries {
		if _, err := fmt.Fprintln(wr.w, HighlightFlagged(e, colorize)); err != nil {
			return err
		}
	}
	return nil
}

func (wr *Writer) writeText(s Summary) error {
	st := s.Stats
	fmt.Fprintf(wr.w, "Input:      %s (%s, %d lines)\n", s.Input, st.Format, st.Lines)
	if s.Written {
		fmt.Fprintf(wr.w, "Output:     %s\n", s.Output)
	}
	fmt.Fprintf(wr.w, "Records:    %d\n", st.Records)
	fmt.Fprintf(wr.w, "Kept:       %d\n", st.Kept)
	fmt.Fprintf(wr.w, "Duplicates: %d\n", st.Duplicates)
	fmt.Fprintf(wr.w, "Excluded:   %d\n", st.Excluded)
	if st.TooShort > 0 {
		fmt.Fprintf(wr.w, "Too short:  %d\n", st.TooShort)
	}
	fmt.Fprintf(wr.w, "Redacted:   %d\n", st.Redacted)
	fmt.Fprintf(wr.w, "Big:        %d\n", st.Big)

	if len(st.ExcludedBy) > 0 {
		fmt.Fprintln(wr.w, "\nExcluded by pattern:")
		for _, p := range sortedByCount(st.ExcludedBy) {
			fmt.Fprintf(wr.w, "  %6d  %s\n", st.ExcludedBy[p], p)
		}
	}

	if len(s.Shapes) > 0 {
		fmt.Fprintln(wr.w, "\nTop command shapes:")
		for _, sh := range s.Shapes {
			fmt.Fprintf(wr.w, "  %6d  %s\n", sh.Count, sh.Pattern)
		}
	}

	if len(s.Flagged) > 0 {
		fmt.Fprintf(wr.w, "\nFlagged (%d):\n", len(s.Flagged))
		return wr.WriteFlagged(s.Flagged)
	}
	return nil
}

func (wr *Writer) writeTable(s Summary) error {
	st := s.Stats
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCOUNT")
	fmt.Fprintln(tw, "------\t-----")

	rows := []struct {
		name  string
		count int
	}{
		{"lines", st.Lines},
		{"records", st.Records},
		{"kept", st.Kept},
		{"empty", st.Empty},
		{"duplicates", st.Duplicates},
		{"too_short", st.TooShort},
		{"excluded", st.Excluded},
		{"redacted", st.Redacted},
		{"flagged", st.Flagged},
		{"big", st.Big},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.name, r.count)
	}
	for _, p := range sortedByCount(st.ExcludedBy) {
		fmt.Fprintf(tw, "excluded %s\t%d\n", truncate(p, 40), st.ExcludedBy[p])
	}
	for _, sh := range s.Shapes {
		fmt.Fprintf(tw, "shape %s\t%d\n", truncate(sh.Pattern, 40), sh.Count)
	}

	return tw.Flush()
}

// sortedByCount returns the keys of m, highest count first, ties by key.
func sortedByCount(m map[string]int) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b string) int {
		if m[a] != m[b] {
			return m[b] - m[a]
		}
		return strings.Compare(a, b)
	})
	return keys
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
