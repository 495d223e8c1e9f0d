// Package llm defines the provider-neutral types used to talk to a language
// model: messages, chat options, complete and streamed responses, and the
// Provider interface itself.
//
// Implementations live in subpackages (internal/llm/ollama) and import this
// package; the factory that picks one from configuration is
// review.NewProvider.
//
// Only redacted command text is ever placed in a Message. Callers are
// expected to run the shrink pipeline before building a prompt.
//
// Errors wrap the sentinels below so callers can branch with errors.Is:
//
//	if errors.Is(err, llm.ErrProviderUnavailable) {
//	    // ollama is not running
//	}
package llm
