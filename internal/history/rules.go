package history

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bimmerbailey/histshrink/internal/config"
)

// Redaction is a compiled redaction rule. Every match of Pattern is replaced
// with Replacement verbatim ($ is not expanded).
type Redaction struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Rules is the immutable rule set a Pipeline applies to each command.
// Build one per run with NewRules or DefaultRules and share it by pointer.
type Rules struct {
	Exclude    []*regexp.Regexp
	Redactions []Redaction
	Flag       []*regexp.Regexp

	// MinLength drops commands with fewer characters (excluding the trailing
	// newline). Zero disables the check.
	MinLength int

	// SizeThreshold is the length at or above which a command is recorded in
	// the size index.
	SizeThreshold int
}

// DefaultRules returns the built-in rule set with the default size threshold
// and no minimum length.
func DefaultRules() *Rules {
	rules, err := NewRules(config.Default())
	if err != nil {
		panic(fmt.Sprintf("built-in history rules do not compile: %v", err))
	}
	return rules
}

// NewRules compiles the rule lists and thresholds from cfg. An empty list
// keeps the built-in defaults; with cfg.Rules.Extend set, configured patterns
// are appended to the defaults instead of replacing them.
func NewRules(cfg *config.Config) (*Rules, error) {
	rules := &Rules{
		MinLength:     cfg.MinLength,
		SizeThreshold: cfg.SizeThreshold,
	}
	if rules.SizeThreshold <= 0 {
		rules.SizeThreshold = config.DefaultSizeThreshold
	}
	if rules.MinLength < 0 {
		return nil, fmt.Errorf("min length must not be negative: %d", rules.MinLength)
	}

	var err error
	rc := cfg.Rules

	rules.Exclude, err = compileAll("exclude", merge(defaultExcludePatterns, rc.Exclude, rc.Extend))
	if err != nil {
		return nil, err
	}

	rules.Flag, err = compileAll("flag", merge(defaultFlagPatterns, rc.Flag, rc.Extend))
	if err != nil {
		return nil, err
	}

	for _, r := range merge(defaultRedactRules, rc.Redact, rc.Extend) {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", r.Pattern, err)
		}
		rules.Redactions = append(rules.Redactions, Redaction{Pattern: re, Replacement: r.Replacement})
	}

	return rules, nil
}

// Redact applies every redaction in order, each one to the output of the
// previous.
func (r *Rules) Redact(text string) string {
	for _, rd := range r.Redactions {
		text = rd.Pattern.ReplaceAllLiteralString(text, rd.Replacement)
	}
	return text
}

// ExcludedBy returns the first exclusion pattern matching text, or nil.
// Patterns see the command without its trailing newline so that anchors
// like `^cd$` match a bare "cd".
func (r *Rules) ExcludedBy(text string) *regexp.Regexp {
	return firstMatch(r.Exclude, strings.TrimSuffix(text, "\n"))
}

// FlaggedBy returns the first flag pattern matching text, or nil.
func (r *Rules) FlaggedBy(text string) *regexp.Regexp {
	return firstMatch(r.Flag, text)
}

// TooShort reports whether text falls under the minimum length.
func (r *Rules) TooShort(text string) bool {
	return r.MinLength > 0 && commandLength(text) < r.MinLength
}

// IsBig reports whether text belongs in the size index.
func (r *Rules) IsBig(text string) bool {
	return utf8.RuneCountInString(text) >= r.SizeThreshold
}

func firstMatch(patterns []*regexp.Regexp, text string) *regexp.Regexp {
	for _, re := range patterns {
		if re.MatchString(text) {
			return re
		}
	}
	return nil
}

// commandLength counts the characters of a command without its newline.
func commandLength(text string) int {
	n := utf8.RuneCountInString(text)
	if n > 0 && text[len(text)-1] == '\n' {
		n--
	}
	return n
}

func merge[T any](defaults, configured []T, extend bool) []T {
	switch {
	case len(configured) == 0:
		return defaults
	case extend:
		return append(append([]T(nil), defaults...), configured...)
	default:
		return configured
	}
}

func compileAll(kind string, patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s pattern %q: %w", kind, p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
