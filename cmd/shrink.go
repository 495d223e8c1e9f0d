package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/histshrink/internal/config"
	"github.com/bimmerbailey/histshrink/internal/histfile"
	"github.com/bimmerbailey/histshrink/internal/history"
)

// shrinkResult is what one pass over the history file produced.
type shrinkResult struct {
	input   string
	output  string
	written bool
	res     *history.Result
}

func runShrink(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, err = shrinkFile(commandContext(cmd), cfg, runLogger(), true)
	return err
}

// commandContext returns the command's context, or Background when the
// command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig unmarshals viper state over the built-in defaults.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// runLogger tags every log line of one run so watch-mode re-runs can be
// told apart.
func runLogger() *slog.Logger {
	return slog.Default().With("run_id", uuid.NewString())
}

// shrinkFile reads the history file, runs the pipeline and, when write is
// set, replaces the output file with the emitted history. The big and
// flagged command report is logged either way.
func shrinkFile(ctx context.Context, cfg *config.Config, logger *slog.Logger, write bool) (*shrinkResult, error) {
	input, err := config.ResolveHistoryPath(cfg.Input)
	if err != nil {
		return nil, err
	}

	outFormat, err := history.ParseFormat(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	rules, err := history.NewRules(cfg)
	if err != nil {
		return nil, err
	}

	content, err := histfile.Read(input)
	if err != nil {
		return nil, err
	}

	res, err := history.New(rules, logger).Run(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}

	result := &shrinkResult{input: input, output: cfg.Output, res: res}

	if write {
		if outFormat == "" {
			outFormat = res.Format
		}

		var buf bytes.Buffer
		if err := history.Emit(&buf, res.Output, outFormat); err != nil {
			return nil, err
		}
		if err := histfile.Write(cfg.Output, buf.Bytes()); err != nil {
			return nil, err
		}
		result.written = true

		logger.Info("history shrunk",
			"input", input,
			"output", cfg.Output,
			"format", outFormat,
			"records", res.Stats.Records,
			"kept", res.Stats.Kept)
	}

	history.Report(ctx, logger, res)
	return result, nil
}
