package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/histshrink/internal/config"
	"github.com/bimmerbailey/histshrink/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags]",
	Short: "Re-shrink the history file whenever it changes",
	Long: `Shrink the history file once, then watch it and rewrite the output file
from scratch every time the shell appends to or replaces it. Bursts of writes
are coalesced by --debounce.

Press Ctrl+C to stop.

Examples:
  histshrink watch
  histshrink watch -i ~/.zsh_history -o ~/history/zsh.min --debounce 2s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addShrinkFlags(watchCmd)
	watchCmd.Flags().String("debounce", config.DefaultDebounce, "quiet period before re-running (e.g. 500ms, 2s)")
	_ = viper.BindPFlag("watch.debounce", watchCmd.Flags().Lookup("debounce"))

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	debounce, err := config.ParseDuration(cfg.Watch.Debounce)
	if err != nil {
		return fmt.Errorf("invalid --debounce value: %w", err)
	}

	input, err := config.ResolveHistoryPath(cfg.Input)
	if err != nil {
		return err
	}
	if samePath(input, cfg.Output) {
		return errors.New("watch: --output must differ from the input file")
	}
	cfg.Input = input

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	rerun := func(ctx context.Context) error {
		_, err := shrinkFile(ctx, cfg, runLogger(), true)
		return err
	}
	if err := rerun(ctx); err != nil {
		return err
	}

	watcher := watch.New(watch.Options{
		FilePath: input,
		Debounce: debounce,
		OnChange: rerun,
		Logger:   runLogger(),
	})

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- watcher.Run(ctx)
	}()

	select {
	case <-sigChan:
		cancel()
		return <-errChan
	case err := <-errChan:
		return err
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
