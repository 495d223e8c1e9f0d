package prompt

import (
	"errors"
	"fmt"
)

// PromptType identifies the review task a prompt is built for.
type PromptType string

const (
	// TypeReview asks for a free-form, per-command review of flagged
	// commands. It is the default for `histshrink review`.
	TypeReview PromptType = "review"

	// TypeVerdicts is the two-pass variant used by `histshrink review
	// --structured`. The first pass (FirstPassResponse == "") is the same
	// review as TypeReview; the second pass prefills the model's answer and
	// asks for a JSON array of verdicts.
	TypeVerdicts PromptType = "verdicts"
)

// BuildOptions holds what a prompt needs to know about the flagged commands.
type BuildOptions struct {
	// Commands are the flagged report lines, already redacted.
	// Required for every PromptType.
	Commands []string

	// Source is the history file the commands came from. Optional.
	Source string

	// Format is the detected history format ("plain" or "extended"). Optional.
	Format string

	// FirstPassResponse selects the second pass of TypeVerdicts when set.
	FirstPassResponse string
}

// ErrMissingField is returned by [Build] when a required field is absent
// from [BuildOptions].
var ErrMissingField = errors.New("prompt: missing required field")

func missingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
