package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/histshrink/internal/history"
	"github.com/bimmerbailey/histshrink/internal/output"
	"github.com/bimmerbailey/histshrink/internal/shape"
)

var statsCmd = &cobra.Command{
	Use:   "stats [flags]",
	Short: "Show what a shrink would do without writing anything",
	Long: `Run the shrink pipeline over a history file and print a summary:
records read, kept, duplicates, exclusions per pattern, redactions and
flagged commands. No output file is written.

With --shapes N the kept commands are also grouped by shape, variable
arguments replaced by <*>, and the N most common shapes are listed.

Examples:
  histshrink stats
  histshrink stats -i ~/.zsh_history --format json
  histshrink stats --format table -m 4
  histshrink stats --shapes 10`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	addShrinkFlags(statsCmd)
	statsCmd.Flags().Int("shapes", 0, "list the N most common command shapes")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	run, err := shrinkFile(commandContext(cmd), cfg, runLogger(), false)
	if err != nil {
		return err
	}

	summary := output.NewSummary(run.input, "", false, run.res)
	if n, _ := cmd.Flags().GetInt("shapes"); n > 0 {
		summary.Shapes = topShapes(run.res, n)
	}

	w := output.New(cmd.OutOrStdout(),
		output.ParseFormat(viper.GetString("format")),
		output.ParseColorMode(viper.GetBool("no_color")))
	return w.WriteSummary(summary)
}

// topShapes groups the kept commands of res by shape.
func topShapes(res *history.Result, n int) []shape.Shape {
	m := shape.NewMiner(shape.Options{})
	for _, command := range res.Output.All() {
		m.Add(strings.TrimRight(command, "\n"))
	}
	return m.Top(n)
}
