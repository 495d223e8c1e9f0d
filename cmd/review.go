package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/histshrink/internal/config"
	"github.com/bimmerbailey/histshrink/internal/output"
	"github.com/bimmerbailey/histshrink/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review [flags]",
	Short: "Ask a local LLM to review flagged commands",
	Long: `Run the shrink pipeline without writing, then send the flagged commands
to a local Ollama model for a second opinion. Only redacted text is sent,
and hosts, addresses and keys are masked first (see llm.mask).

With --structured the model is asked twice: once for a review and once to
turn that review into one SAFE / REVIEW / LEAK verdict per command.

Examples:
  histshrink review
  histshrink review --model qwen2.5:7b
  histshrink review --structured --format json`,
	Args: cobra.NoArgs,
	RunE: runReview,
}

func init() {
	addShrinkFlags(reviewCmd)
	reviewCmd.Flags().String("model", "", "model to use (default llm.ollama.model)")
	reviewCmd.Flags().Bool("structured", false, "return one verdict per command")
	reviewCmd.Flags().Bool("no-stream", false, "wait for the complete review instead of streaming it")

	rootCmd.AddCommand(reviewCmd)
}

// reviewReport is the JSON / YAML form of a review.
type reviewReport struct {
	Input    string           `json:"input" yaml:"input"`
	Model    string           `json:"model" yaml:"model"`
	Flagged  []string         `json:"flagged" yaml:"flagged"`
	Review   string           `json:"review,omitempty" yaml:"review,omitempty"`
	Verdicts []review.Verdict `json:"verdicts,omitempty" yaml:"verdicts,omitempty"`
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.LLM.Ollama.Model = model
	}
	structured, _ := cmd.Flags().GetBool("structured")
	noStream, _ := cmd.Flags().GetBool("no-stream")

	ctx := commandContext(cmd)
	logger := runLogger()
	out := cmd.OutOrStdout()
	format := output.ParseFormat(viper.GetString("format"))
	w := output.New(out, format, output.ParseColorMode(viper.GetBool("no_color")))

	run, err := shrinkFile(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	flagged := run.res.Flagged.Entries()
	if len(flagged) == 0 {
		fmt.Fprintln(out, "No flagged commands.")
		return nil
	}

	masker, err := review.NewMasker(cfg.LLM.Mask)
	if err != nil {
		return err
	}
	provider, err := review.NewProvider(cfg.LLM, logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	reviewer := review.New(provider, review.Options{
		Model:       cfg.LLM.Ollama.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Source:      run.input,
		Format:      string(run.res.Format),
		Masker:      masker,
	}, logger)

	if err := reviewer.Check(ctx); err != nil {
		return fmt.Errorf("cannot use %s: %w\n\nStart Ollama with: ollama serve", ollamaTarget(cfg.LLM), err)
	}

	report := reviewReport{Input: run.input, Model: cfg.LLM.Ollama.Model, Flagged: flagged}

	switch {
	case structured:
		report.Verdicts, err = reviewer.Verdicts(ctx, flagged)
	case format == output.FormatText && !noStream:
		fmt.Fprintf(out, "Reviewing %d flagged commands with %s\n\n", len(flagged), report.Model)
		if err := w.WriteFlagged(flagged); err != nil {
			return err
		}
		fmt.Fprintln(out)
		return reviewer.Stream(ctx, flagged, out)
	default:
		report.Review, err = reviewer.Review(ctx, flagged)
	}
	if err != nil {
		return err
	}

	switch format {
	case output.FormatJSON:
		return w.WriteJSON(report)
	case output.FormatYAML:
		return w.WriteYAML(report)
	default:
		return writeReviewText(out, w, report)
	}
}

func writeReviewText(out io.Writer, w *output.Writer, r reviewReport) error {
	if err := w.WriteFlagged(r.Flagged); err != nil {
		return err
	}
	fmt.Fprintln(out)

	if r.Review != "" {
		fmt.Fprintln(out, r.Review)
		return nil
	}
	for _, v := range r.Verdicts {
		fmt.Fprintf(out, "%-7s %s\n        %s\n", v.Verdict, v.Command, v.Reason)
	}
	return nil
}

func ollamaTarget(cfg config.LLMConfig) string {
	if cfg.Ollama.Host != "" {
		return fmt.Sprintf("%s at %s", cfg.Ollama.Model, cfg.Ollama.Host)
	}
	return cfg.Ollama.Model
}
