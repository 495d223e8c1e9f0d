// Package prompt builds the messages sent to a language model when
// reviewing flagged shell commands.
//
// Two prompt types exist. [TypeReview] asks for a readable per-command
// review. [TypeVerdicts] runs in two passes because small local models are
// unreliable at emitting JSON on the first try:
//
//	opts := prompt.BuildOptions{Commands: flagged}
//	first, _ := prompt.Build(prompt.TypeVerdicts, opts)
//	resp, _ := provider.Chat(ctx, first, chatOpts)
//
//	opts.FirstPassResponse = resp.Content
//	second, _ := prompt.Build(prompt.TypeVerdicts, opts)
//	verdicts, _ := provider.Chat(ctx, second, chatOpts)
package prompt
