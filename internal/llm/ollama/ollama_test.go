package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bimmerbailey/histshrink/internal/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestProvider starts a mock Ollama server and points a provider at it.
func newTestProvider(t *testing.T, model string, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := New(Config{Host: server.URL, Model: model}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		config    Config
		wantModel string
		wantErr   bool
	}{
		{
			name:      "explicit host and model",
			config:    Config{Host: "http://localhost:11434", Model: "qwen2.5"},
			wantModel: "qwen2.5",
		},
		{
			name:      "empty model uses default",
			config:    Config{Host: "http://localhost:11434"},
			wantModel: DefaultModel,
		},
		{
			name:    "invalid host URL",
			config:  Config{Host: "://invalid-url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := New(tt.config, testLogger())
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if provider.Model() != tt.wantModel {
				t.Errorf("Model() = %q, want %q", provider.Model(), tt.wantModel)
			}
		})
	}
}

func TestNewNilLogger(t *testing.T) {
	if _, err := New(Config{Host: "http://localhost:11434"}, nil); err == nil {
		t.Error("New() should reject nil logger")
	}
}

func TestChat(t *testing.T) {
	requests := make(chan map[string]any, 1)
	provider := newTestProvider(t, "test-model", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		requests <- req

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model":             req["model"],
			"message":           map[string]string{"role": "assistant", "content": "looks safe"},
			"done":              true,
			"prompt_eval_count": 10,
			"eval_count":        20,
		})
	})

	resp, err := provider.Chat(context.Background(), []llm.Message{llm.User("review")}, nil)
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}

	if resp.Content != "looks safe" {
		t.Errorf("Content = %q, want %q", resp.Content, "looks safe")
	}
	if resp.Model != "test-model" {
		t.Errorf("Model = %q, want %q", resp.Model, "test-model")
	}
	if resp.TokensPrompt != 10 || resp.TokensTotal != 30 {
		t.Errorf("tokens = %d/%d, want 10/30", resp.TokensPrompt, resp.TokensTotal)
	}
	if req := <-requests; req["stream"] != false {
		t.Errorf("stream = %v, want false", req["stream"])
	}
}

func TestChatEmptyMessages(t *testing.T) {
	provider, err := New(Config{Host: "http://localhost:11434"}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Chat(context.Background(), nil, nil); err == nil {
		t.Error("Chat() should reject empty messages")
	}
	if _, err := provider.ChatStream(context.Background(), nil, nil); err == nil {
		t.Error("ChatStream() should reject empty messages")
	}
}

func TestChatWithOptions(t *testing.T) {
	requests := make(chan map[string]any, 1)
	provider := newTestProvider(t, "default-model", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		requests <- req

		json.NewEncoder(w).Encode(map[string]any{
			"model":   req["model"],
			"message": map[string]string{"content": "ok"},
			"done":    true,
		})
	})

	resp, err := provider.Chat(context.Background(), []llm.Message{llm.User("test")}, &llm.ChatOptions{
		Model:       "custom-model",
		Temperature: 0.5,
		MaxTokens:   100,
	})
	if err != nil {
		t.Fatalf("Chat() failed: %v", err)
	}

	if resp.Model != "custom-model" {
		t.Errorf("Model override not applied, got %q", resp.Model)
	}
	options, _ := (<-requests)["options"].(map[string]any)
	if options["temperature"] != 0.5 {
		t.Errorf("temperature = %v, want 0.5", options["temperature"])
	}
	if options["num_predict"] != float64(100) {
		t.Errorf("num_predict = %v, want 100", options["num_predict"])
	}
}

func TestChatServerDown(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	host := server.URL
	server.Close()

	provider, err := New(Config{Host: host}, testLogger())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Chat(context.Background(), []llm.Message{llm.User("x")}, nil)
	if !errors.Is(err, llm.ErrProviderUnavailable) {
		t.Errorf("Chat() error = %v, want ErrProviderUnavailable", err)
	}
	if err := provider.Heartbeat(context.Background()); !errors.Is(err, llm.ErrProviderUnavailable) {
		t.Errorf("Heartbeat() error = %v, want ErrProviderUnavailable", err)
	}
}

func TestChatStream(t *testing.T) {
	provider := newTestProvider(t, "test-model", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")

		chunks := []map[string]any{
			{"message": map[string]string{"content": "1. ssh "}, "done": false},
			{"message": map[string]string{"content": "host: "}, "done": false},
			{"message": map[string]string{"content": "safe"}, "done": true, "prompt_eval_count": 5, "eval_count": 15},
		}
		enc := json.NewEncoder(w)
		for _, chunk := range chunks {
			if err := enc.Encode(chunk); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	})

	stream, err := provider.ChatStream(context.Background(), []llm.Message{llm.User("review")}, nil)
	if err != nil {
		t.Fatalf("ChatStream() failed: %v", err)
	}

	var content strings.Builder
	var done int
	for event := range stream {
		if event.Error != nil {
			t.Fatalf("Stream error: %v", event.Error)
		}
		content.WriteString(event.Content)
		if event.Done {
			done++
		}
	}

	if content.String() != "1. ssh host: safe" {
		t.Errorf("content = %q, want %q", content.String(), "1. ssh host: safe")
	}
	if done != 1 {
		t.Errorf("done events = %d, want 1", done)
	}
}

func TestChatStreamCancellation(t *testing.T) {
	provider := newTestProvider(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		for i := 0; i < 100; i++ {
			chunk := map[string]any{
				"message": map[string]string{"content": "chunk"},
				"done":    false,
			}
			if err := enc.Encode(chunk); err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			time.Sleep(10 * time.Millisecond)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, err := provider.ChatStream(ctx, []llm.Message{llm.User("x")}, nil)
	if err != nil {
		t.Fatalf("ChatStream() failed: %v", err)
	}

	events := 0
	for event := range stream {
		events++
		if events == 3 {
			cancel()
		}
		if event.Error != nil {
			if !strings.Contains(event.Error.Error(), "canceled") {
				t.Errorf("Expected cancellation error, got: %v", event.Error)
			}
			break
		}
	}

	if events == 0 {
		t.Error("Should have received at least one event")
	}
}

func TestHeartbeat(t *testing.T) {
	provider := newTestProvider(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Ollama is running"))
	})

	if err := provider.Heartbeat(context.Background()); err != nil {
		t.Errorf("Heartbeat() should succeed, got error: %v", err)
	}
}

func TestModelAvailable(t *testing.T) {
	provider := newTestProvider(t, "", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{
				{"name": "llama3.2:latest", "model": "llama3.2"},
				{"name": "qwen2.5:7b", "model": "qwen2.5:7b"},
			},
		})
	})

	tests := []struct {
		model     string
		available bool
	}{
		{"llama3.2", true},
		{"llama3.2:latest", true},
		{"qwen2.5:7b", true},
		{"mistral", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			available, err := provider.ModelAvailable(context.Background(), tt.model)
			if err != nil {
				t.Fatalf("ModelAvailable() error: %v", err)
			}
			if available != tt.available {
				t.Errorf("ModelAvailable(%q) = %v, want %v", tt.model, available, tt.available)
			}
		})
	}
}
