// Package ollama implements llm.Provider on top of a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/bimmerbailey/histshrink/internal/llm"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "llama3.2"

// Config holds Ollama-specific configuration.
type Config struct {
	// Host is the API endpoint, e.g. "http://localhost:11434". When empty
	// the OLLAMA_HOST environment variable decides.
	Host string

	// Model is the default model for requests that do not name one.
	Model string
}

// Provider talks to Ollama's chat API.
type Provider struct {
	client *api.Client
	config Config
	logger *slog.Logger
}

var _ llm.Provider = (*Provider)(nil)

// New creates a new Ollama provider.
func New(cfg Config, logger *slog.Logger) (*Provider, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	client, err := newClient(cfg.Host)
	if err != nil {
		logger.Error("failed to create ollama client", "host", cfg.Host, "error", err)
		return nil, err
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	logger.Debug("created ollama client", "host", cfg.Host, "model", cfg.Model)

	return &Provider{client: client, config: cfg, logger: logger}, nil
}

func newClient(host string) (*api.Client, error) {
	if host == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", llm.ErrProviderUnavailable, err)
		}
		return client, nil
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host: %w", err)
	}
	return api.NewClient(u, http.DefaultClient), nil
}

// Model returns the default model of the provider.
func (p *Provider) Model() string {
	return p.config.Model
}

// Chat sends messages to Ollama and returns the complete response.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message, opts *llm.ChatOptions) (*llm.Response, error) {
	req, err := p.request(messages, opts, false)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("sending chat request", "model", req.Model, "messages", len(messages))

	var last api.ChatResponse
	err = p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		last = resp
		return nil
	})
	if err != nil {
		p.logger.Error("chat request failed", "model", req.Model, "error", err)
		return nil, wrapErr(err)
	}

	p.logger.Debug("chat request completed",
		"model", last.Model,
		"prompt_tokens", last.PromptEvalCount,
		"eval_tokens", last.EvalCount)

	return &llm.Response{
		Content:      last.Message.Content,
		Model:        last.Model,
		TokensPrompt: last.PromptEvalCount,
		TokensTotal:  last.PromptEvalCount + last.EvalCount,
	}, nil
}

// ChatStream sends messages to Ollama and streams the reply chunk by chunk.
// A failure or cancellation is delivered as a final event with Error set.
func (p *Provider) ChatStream(ctx context.Context, messages []llm.Message, opts *llm.ChatOptions) (<-chan llm.StreamEvent, error) {
	req, err := p.request(messages, opts, true)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("starting chat stream", "model", req.Model, "messages", len(messages))

	events := make(chan llm.StreamEvent, 10)
	go func() {
		defer close(events)

		err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if resp.Message.Content != "" || resp.Done {
				send(ctx, events, llm.StreamEvent{Content: resp.Message.Content, Done: resp.Done})
			}
			return nil
		})
		if err != nil {
			p.logger.Debug("chat stream ended with error", "model", req.Model, "error", err)
			send(ctx, events, llm.StreamEvent{Error: wrapErr(err), Done: true})
		}
	}()

	return events, nil
}

// Heartbeat checks if the Ollama server is reachable.
func (p *Provider) Heartbeat(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		p.logger.Debug("ollama heartbeat failed", "error", err)
		return fmt.Errorf("%w: %v", llm.ErrProviderUnavailable, err)
	}
	return nil
}

// ModelAvailable checks if model has been pulled. Both the tagged name
// ("llama3.2:latest") and the bare model name match.
func (p *Provider) ModelAvailable(ctx context.Context, model string) (bool, error) {
	list, err := p.client.List(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", llm.ErrProviderUnavailable, err)
	}

	for _, m := range list.Models {
		if m.Name == model || m.Model == model {
			return true, nil
		}
	}
	p.logger.Debug("model not found", "model", model, "available", len(list.Models))
	return false, nil
}

func (p *Provider) request(messages []llm.Message, opts *llm.ChatOptions, stream bool) (*api.ChatRequest, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	model := p.config.Model
	options := map[string]any{"temperature": float32(0)}
	if opts != nil {
		if opts.Model != "" {
			model = opts.Model
		}
		options["temperature"] = opts.Temperature
		if opts.MaxTokens > 0 {
			options["num_predict"] = opts.MaxTokens
		}
	}

	msgs := make([]api.Message, len(messages))
	for i, m := range messages {
		msgs[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	return &api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Options:  options,
		Stream:   &stream,
	}, nil
}

// send delivers ev unless the consumer has gone away with a canceled ctx.
// The error event of a canceled stream is still delivered when there is
// buffer room.
func send(ctx context.Context, events chan<- llm.StreamEvent, ev llm.StreamEvent) {
	select {
	case events <- ev:
		return
	default:
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}

func wrapErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrContextCanceled, err)
	}
	return fmt.Errorf("%w: %v", llm.ErrProviderUnavailable, err)
}
