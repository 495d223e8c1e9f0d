package prompt

import (
	"fmt"
	"strings"

	"github.com/bimmerbailey/histshrink/internal/llm"
)

// Build constructs the messages to send to an llm.Provider.
//
// The slice always starts with a system message chosen by pt, followed by a
// user message listing the flagged commands. The second pass of TypeVerdicts
// appends the prefilled assistant answer and an extraction instruction.
//
// Returns ErrMissingField if Commands is empty.
func Build(pt PromptType, opts BuildOptions) ([]llm.Message, error) {
	if len(opts.Commands) == 0 {
		return nil, missingField("Commands")
	}

	messages := []llm.Message{
		llm.System(systemPrompt(pt)),
		llm.User(reviewRequest(opts)),
	}

	if pt != TypeVerdicts || opts.FirstPassResponse == "" {
		return messages, nil
	}

	return append(messages,
		llm.Assistant(opts.FirstPassResponse),
		llm.User("Now turn your review into the JSON array described in the system prompt. "+
			"Output ONLY the JSON array."),
	), nil
}

func reviewRequest(opts BuildOptions) string {
	var sb strings.Builder

	sb.WriteString("Review the following flagged shell history commands")
	if opts.Source != "" {
		fmt.Fprintf(&sb, " from %s", opts.Source)
	}
	if opts.Format != "" {
		fmt.Fprintf(&sb, " (%s format)", opts.Format)
	}
	sb.WriteString(":\n\n")

	for i, c := range opts.Commands {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c)
	}
	return sb.String()
}
