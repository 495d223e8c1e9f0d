package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/histshrink/internal/config"
	"github.com/bimmerbailey/histshrink/internal/logging"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "histshrink",
	Short: "Shrink, deduplicate and sanitize shell history",
	Long: `histshrink reads a bash or zsh history file and writes a smaller copy:
duplicate commands are dropped (the first occurrence wins), trivial commands
such as cd and ls are excluded, passwords and bearer tokens are redacted, and
commands that still look sensitive are reported for review.

Both plain bash history (#<timestamp> marker lines) and zsh extended history
(": <timestamp>:<elapsed>;<command>") are detected automatically.

The input is --input, else $HISTFILE, else ~/.bash_history.

Examples:
  histshrink
  histshrink -i ~/.zsh_history -o zsh_history.min
  histshrink -i history.gz --output-format plain
  histshrink stats --format table
  histshrink watch -i ~/.bash_history`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupLogging,
	RunE:              runShrink,
	SilenceUsage:      true,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.histshrink.yaml)")
	rootCmd.PersistentFlags().StringP("log", "l", config.DefaultLogLevel, "log level (off, error, warn, info, debug, trace)")
	rootCmd.PersistentFlags().StringP("format", "f", config.DefaultFormat, "report format (text, json, table, yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	addShrinkFlags(rootCmd)

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
}

// addShrinkFlags registers the flags shared by every command that runs the
// pipeline. Viper bindings happen in bindShrinkFlags when the command runs,
// since several commands own a flag of the same name.
func addShrinkFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "history file to read (default $HISTFILE, then ~/.bash_history)")
	cmd.Flags().StringP("output", "o", config.DefaultOutput, "file to write the shrunk history to")
	cmd.Flags().IntP("min-length", "m", 0, "drop commands shorter than this many characters (0 disables)")
	cmd.Flags().Int("size-threshold", config.DefaultSizeThreshold, "report commands at least this long at trace level")
	cmd.Flags().String("output-format", config.DefaultOutputFormat, "output format (auto, plain, extended)")
}

func bindShrinkFlags(cmd *cobra.Command) {
	for key, flag := range map[string]string{
		"input":          "input",
		"output":         "output",
		"min_length":     "min-length",
		"size_threshold": "size-threshold",
		"output_format":  "output-format",
	} {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	bindShrinkFlags(cmd)
	logger := logging.Init(os.Stderr, logging.ParseLevel(viper.GetString("log_level")))
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	return nil
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".histshrink")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HISTSHRINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// A missing config file is fine; flags and defaults still apply.
	_ = viper.ReadInConfig()
}

func setDefaults() {
	def := config.Default()
	viper.SetDefault("output", def.Output)
	viper.SetDefault("output_format", def.OutputFormat)
	viper.SetDefault("size_threshold", def.SizeThreshold)
	viper.SetDefault("min_length", def.MinLength)
	viper.SetDefault("format", def.Format)
	viper.SetDefault("log_level", def.LogLevel)
	viper.SetDefault("rules.extend", false)
	viper.SetDefault("watch.debounce", def.Watch.Debounce)
	viper.SetDefault("llm.provider", def.LLM.Provider)
	viper.SetDefault("llm.temperature", def.LLM.Temperature)
	viper.SetDefault("llm.max_tokens", def.LLM.MaxTokens)
	viper.SetDefault("llm.ollama.host", def.LLM.Ollama.Host)
	viper.SetDefault("llm.ollama.model", def.LLM.Ollama.Model)
}
