package history

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Outcome describes what the pipeline did with one record.
type Outcome int

const (
	Kept Outcome = iota
	DroppedEmpty
	DroppedDuplicate
	DroppedTooShort
	DroppedExcluded
)

// String returns the string representation of an Outcome.
func (o Outcome) String() string {
	switch o {
	case Kept:
		return "kept"
	case DroppedEmpty:
		return "empty"
	case DroppedDuplicate:
		return "duplicate"
	case DroppedTooShort:
		return "too_short"
	case DroppedExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Stats counts what happened during a run.
type Stats struct {
	Format     Format         `json:"format" yaml:"format"`
	Lines      int            `json:"lines" yaml:"lines"`
	Records    int            `json:"records" yaml:"records"`
	Kept       int            `json:"kept" yaml:"kept"`
	Empty      int            `json:"empty" yaml:"empty"`
	Duplicates int            `json:"duplicates" yaml:"duplicates"`
	TooShort   int            `json:"too_short" yaml:"too_short"`
	Excluded   int            `json:"excluded" yaml:"excluded"`
	ExcludedBy map[string]int `json:"excluded_by,omitempty" yaml:"excluded_by,omitempty"`
	Redacted   int            `json:"redacted" yaml:"redacted"`
	Flagged    int            `json:"flagged" yaml:"flagged"`
	Big        int            `json:"big" yaml:"big"`
}

// Result is the state a finished run hands to the emitter and reporter.
type Result struct {
	Format  Format
	Output  *MultiMap[uint32, string] // timestamp -> commands
	Sizes   *MultiMap[int, string]    // length -> commands at or above the size threshold
	Flagged *FlaggedSet
	Stats   Stats
}

// Pipeline filters records into an ordered, deduplicated output. A Pipeline
// holds the state of one run and is not safe for concurrent use.
type Pipeline struct {
	rules   *Rules
	logger  *slog.Logger
	seen    map[string]struct{}
	output  *MultiMap[uint32, string]
	sizes   *MultiMap[int, string]
	flagged *FlaggedSet
	stats   Stats
}

// New creates a Pipeline applying rules. A nil rules uses DefaultRules.
func New(rules *Rules, logger *slog.Logger) *Pipeline {
	if rules == nil {
		rules = DefaultRules()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		rules:   rules,
		logger:  logger,
		seen:    make(map[string]struct{}),
		output:  NewMultiMap[uint32, string](),
		sizes:   NewMultiMap[int, string](),
		flagged: NewFlaggedSet(),
		stats:   Stats{ExcludedBy: make(map[string]int)},
	}
}

// Run detects the format of content, feeds every record through Add and
// returns the accumulated result. The first extraction error aborts the run.
func (p *Pipeline) Run(content string) (*Result, error) {
	lines := SplitLines(content)
	format := Detect(lines)
	p.stats.Lines = len(lines)
	p.logger.Debug("detected history format", "format", format, "lines", len(lines))

	for rec, err := range Extract(lines, format) {
		if err != nil {
			return nil, err
		}
		p.Add(rec)
	}

	return p.Result(format), nil
}

// Add runs one record through the pipeline: empty check, redaction,
// duplicate/length/exclusion gate, flagging, size index, output.
func (p *Pipeline) Add(rec Record) Outcome {
	p.stats.Records++

	if rec.Text == "" {
		p.stats.Empty++
		return DroppedEmpty
	}

	text := p.rules.Redact(rec.Text)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if text != rec.Text {
		p.stats.Redacted++
		p.logger.Debug("redacted command", "command", strings.TrimRight(text, "\n"))
	}

	if _, ok := p.seen[text]; ok {
		p.stats.Duplicates++
		return DroppedDuplicate
	}
	if p.rules.TooShort(text) {
		p.stats.TooShort++
		return DroppedTooShort
	}
	if re := p.rules.ExcludedBy(text); re != nil {
		p.stats.Excluded++
		p.stats.ExcludedBy[re.String()]++
		p.logger.Debug("command excluded", "pattern", re.String(), "command", strings.TrimRight(text, "\n"))
		return DroppedExcluded
	}
	p.seen[text] = struct{}{}

	if re := p.rules.FlaggedBy(text); re != nil {
		if p.flagged.Add(re, text) {
			p.stats.Flagged++
		}
	}

	if p.rules.IsBig(text) {
		p.sizes.Insert(utf8.RuneCountInString(text), text)
		p.stats.Big++
	}

	p.output.Insert(rec.Timestamp, text)
	p.stats.Kept++
	return Kept
}

// Result snapshots the pipeline state. format is recorded as the format the
// records were read in.
func (p *Pipeline) Result(format Format) *Result {
	stats := p.stats
	stats.Format = format
	return &Result{
		Format:  format,
		Output:  p.output,
		Sizes:   p.sizes,
		Flagged: p.flagged,
		Stats:   stats,
	}
}
