// Package config provides configuration types and helpers for histshrink.
package config

// Default values shared by the flag definitions and viper defaults.
const (
	DefaultOutput        = "shrunk_history"
	DefaultOutputFormat  = "auto"
	DefaultSizeThreshold = 200
	DefaultLogLevel      = "info"
	DefaultFormat        = "text"
	DefaultDebounce      = "500ms"
	DefaultOllamaModel   = "llama3.2"
)

// Config holds the application-wide configuration.
type Config struct {
	Input         string      `mapstructure:"input"`
	Output        string      `mapstructure:"output"`
	OutputFormat  string      `mapstructure:"output_format"`
	MinLength     int         `mapstructure:"min_length"`
	SizeThreshold int         `mapstructure:"size_threshold"`
	Format        string      `mapstructure:"format"`
	LogLevel      string      `mapstructure:"log_level"`
	Rules         RulesConfig `mapstructure:"rules"`
	Watch         WatchConfig `mapstructure:"watch"`
	LLM           LLMConfig   `mapstructure:"llm"`
}

// RulesConfig holds the pattern lists applied to every command. An empty
// list keeps the built-in defaults for that list.
type RulesConfig struct {
	// Extend appends the configured patterns to the built-in defaults
	// instead of replacing them.
	Extend bool `mapstructure:"extend"`

	// Exclude drops matching commands from the output.
	Exclude []string `mapstructure:"exclude"`

	// Redact rewrites matching text before deduplication.
	Redact []RedactRule `mapstructure:"redact"`

	// Flag reports matching commands without dropping them.
	Flag []string `mapstructure:"flag"`
}

// RedactRule replaces every match of Pattern with the literal Replacement.
type RedactRule struct {
	Pattern     string `mapstructure:"pattern"`
	Replacement string `mapstructure:"replacement"`
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	// Debounce is how long to wait after the last change before re-running,
	// e.g. "500ms", "2s".
	Debounce string `mapstructure:"debounce"`
}

// LLMConfig holds configuration for the flagged-command review.
type LLMConfig struct {
	// Provider selects which LLM to use. Only "ollama" is supported.
	Provider string `mapstructure:"provider"`

	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`

	// Mask names the kinds of values hidden from the model, e.g. "ipv4",
	// "email". Empty uses the built-in set; ["none"] disables masking.
	Mask []string `mapstructure:"mask"`

	Ollama OllamaConfig `mapstructure:"ollama"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host  string `mapstructure:"host"`  // API endpoint, OLLAMA_HOST when empty
	Model string `mapstructure:"model"` // e.g. "llama3.2"
}

// Default returns the configuration used when no file, env or flag
// overrides anything.
func Default() *Config {
	return &Config{
		Output:        DefaultOutput,
		OutputFormat:  DefaultOutputFormat,
		SizeThreshold: DefaultSizeThreshold,
		Format:        DefaultFormat,
		LogLevel:      DefaultLogLevel,
		Watch:         WatchConfig{Debounce: DefaultDebounce},
		LLM: LLMConfig{
			Provider: "ollama",
			Ollama:   OllamaConfig{Model: DefaultOllamaModel},
		},
	}
}
