// Package review asks a language model to judge the commands the shrink
// pipeline flagged. Only redacted, and optionally masked, text is sent.
package review

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bimmerbailey/histshrink/internal/config"
	"github.com/bimmerbailey/histshrink/internal/llm"
	"github.com/bimmerbailey/histshrink/internal/llm/ollama"
	"github.com/bimmerbailey/histshrink/internal/prompt"
)

// NewProvider creates the LLM provider named by cfg.Provider.
func NewProvider(cfg config.LLMConfig, logger *slog.Logger) (llm.Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	name := strings.ToLower(cfg.Provider)
	logger.Debug("creating llm provider", "type", name)

	switch name {
	case "ollama":
		p, err := ollama.New(ollama.Config{
			Host:  cfg.Ollama.Host,
			Model: cfg.Ollama.Model,
		}, logger)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "":
		return nil, errors.New("llm provider not specified in configuration")
	default:
		return nil, fmt.Errorf("unknown llm provider: %s (supported: ollama)", name)
	}
}

// Options configures a Reviewer.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int

	// Source and Format describe where the commands came from; both end up
	// in the prompt.
	Source string
	Format string

	// Masker hides hosts and credentials that survived redaction. Nil sends
	// the commands as they are.
	Masker *Masker
}

// Reviewer sends flagged commands to a provider.
type Reviewer struct {
	provider llm.Provider
	opts     Options
	logger   *slog.Logger
}

// New creates a Reviewer. A nil logger discards.
func New(provider llm.Provider, opts Options, logger *slog.Logger) *Reviewer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reviewer{provider: provider, opts: opts, logger: logger}
}

// Check verifies the provider is reachable and the model has been pulled.
func (r *Reviewer) Check(ctx context.Context) error {
	if err := r.provider.Heartbeat(ctx); err != nil {
		return err
	}
	if r.opts.Model == "" {
		return nil
	}

	ok, err := r.provider.ModelAvailable(ctx, r.opts.Model)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s (run: ollama pull %s)", llm.ErrModelNotFound, r.opts.Model, r.opts.Model)
	}
	return nil
}

// Review returns the model's free-form review of flagged.
func (r *Reviewer) Review(ctx context.Context, flagged []string) (string, error) {
	msgs, err := r.build(prompt.TypeReview, flagged, "")
	if err != nil {
		return "", err
	}

	resp, err := r.provider.Chat(ctx, msgs, r.chatOptions())
	if err != nil {
		return "", err
	}
	r.logger.Debug("review completed", "model", resp.Model, "tokens", resp.TokensTotal)
	return resp.Content, nil
}

// Stream writes the model's review of flagged to w as it is generated.
// Returning early cancels the request so the provider stops producing.
func (r *Reviewer) Stream(ctx context.Context, flagged []string, w io.Writer) error {
	msgs, err := r.build(prompt.TypeReview, flagged, "")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := r.provider.ChatStream(ctx, msgs, r.chatOptions())
	if err != nil {
		return err
	}

	for ev := range events {
		if ev.Error != nil {
			return ev.Error
		}
		if _, err := io.WriteString(w, ev.Content); err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// Verdicts runs the two-pass review and parses the second answer into one
// Verdict per command.
func (r *Reviewer) Verdicts(ctx context.Context, flagged []string) ([]Verdict, error) {
	first, err := r.Review(ctx, flagged)
	if err != nil {
		return nil, err
	}

	msgs, err := r.build(prompt.TypeVerdicts, flagged, first)
	if err != nil {
		return nil, err
	}
	resp, err := r.provider.Chat(ctx, msgs, r.chatOptions())
	if err != nil {
		return nil, err
	}

	verdicts, err := ParseVerdicts(resp.Content)
	if err != nil {
		r.logger.Debug("unparseable verdicts", "content", resp.Content)
		return nil, err
	}
	return verdicts, nil
}

func (r *Reviewer) build(pt prompt.PromptType, flagged []string, firstPass string) ([]llm.Message, error) {
	commands := flagged
	if r.opts.Masker != nil {
		commands = r.opts.Masker.MaskAll(flagged)
		r.logger.Debug("masked commands", "values", r.opts.Masker.Masked())
	}
	return prompt.Build(pt, prompt.BuildOptions{
		Commands:          commands,
		Source:            r.opts.Source,
		Format:            r.opts.Format,
		FirstPassResponse: firstPass,
	})
}

func (r *Reviewer) chatOptions() *llm.ChatOptions {
	return &llm.ChatOptions{
		Model:       r.opts.Model,
		Temperature: r.opts.Temperature,
		MaxTokens:   r.opts.MaxTokens,
	}
}
