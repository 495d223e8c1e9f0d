package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/bimmerbailey/histshrink/internal/config"
)

func TestReviewNothingFlagged(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	viper.Set("input", writeTempHistory(t, dir, "history", "#1700000000\nmake build\n"))

	var buf bytes.Buffer
	cmd := newTestCmd("review", &buf)
	cmd.Flags().String("model", "", "")
	cmd.Flags().Bool("structured", false, "")
	cmd.Flags().Bool("no-stream", false, "")

	if err := runReview(cmd, nil); err != nil {
		t.Fatalf("runReview() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No flagged commands.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestReviewUnknownMaskKind(t *testing.T) {
	viper.Reset()
	viper.Set("llm.mask", []string{"phone"})

	dir := t.TempDir()
	viper.Set("input", writeTempHistory(t, dir, "history", "#1700000000\nssh prod\n"))

	var buf bytes.Buffer
	cmd := newTestCmd("review", &buf)

	err := runReview(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown mask kind") {
		t.Errorf("runReview() error = %v, want unknown mask kind", err)
	}
}

func TestOllamaTarget(t *testing.T) {
	tests := []struct {
		cfg  config.LLMConfig
		want string
	}{
		{config.LLMConfig{Ollama: config.OllamaConfig{Model: "llama3.2"}}, "llama3.2"},
		{config.LLMConfig{Ollama: config.OllamaConfig{Model: "llama3.2", Host: "http://gpu:11434"}}, "llama3.2 at http://gpu:11434"},
	}
	for _, tt := range tests {
		if got := ollamaTarget(tt.cfg); got != tt.want {
			t.Errorf("ollamaTarget() = %q, want %q", got, tt.want)
		}
	}
}
