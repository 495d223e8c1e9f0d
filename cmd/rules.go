package cmd

import (
	"fmt"
	"io"
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bimmerbailey/histshrink/internal/config"
	"github.com/bimmerbailey/histshrink/internal/history"
	"github.com/bimmerbailey/histshrink/internal/output"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective exclusion, redaction and flag rules",
	Long: `Print the rules a shrink would apply after merging the built-in
defaults with the rules section of the config file.

Examples:
  histshrink rules
  histshrink rules --format yaml > rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

// ruleSet is the printable form of history.Rules.
type ruleSet struct {
	MinLength     int                 `json:"min_length" yaml:"min_length"`
	SizeThreshold int                 `json:"size_threshold" yaml:"size_threshold"`
	Exclude       []string            `json:"exclude" yaml:"exclude"`
	Redact        []config.RedactRule `json:"redact" yaml:"redact"`
	Flag          []string            `json:"flag" yaml:"flag"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rules, err := history.NewRules(cfg)
	if err != nil {
		return err
	}

	set := ruleSet{
		MinLength:     rules.MinLength,
		SizeThreshold: rules.SizeThreshold,
		Exclude:       patterns(rules.Exclude),
		Flag:          patterns(rules.Flag),
	}
	for _, r := range rules.Redactions {
		set.Redact = append(set.Redact, config.RedactRule{Pattern: r.Pattern.String(), Replacement: r.Replacement})
	}

	out := cmd.OutOrStdout()
	format := output.ParseFormat(viper.GetString("format"))
	w := output.New(out, format, output.ColorNever)
	switch format {
	case output.FormatJSON:
		return w.WriteJSON(set)
	case output.FormatYAML:
		return w.WriteYAML(set)
	default:
		writeRulesText(out, set)
		return nil
	}
}

func writeRulesText(w io.Writer, set ruleSet) {
	fmt.Fprintf(w, "Min length:     %d\n", set.MinLength)
	fmt.Fprintf(w, "Size threshold: %d\n", set.SizeThreshold)

	fmt.Fprintf(w, "\nExclude (%d):\n", len(set.Exclude))
	for _, p := range set.Exclude {
		fmt.Fprintf(w, "  %s\n", p)
	}

	fmt.Fprintf(w, "\nRedact (%d):\n", len(set.Redact))
	for _, r := range set.Redact {
		fmt.Fprintf(w, "  %s -> %s\n", r.Pattern, r.Replacement)
	}

	fmt.Fprintf(w, "\nFlag (%d):\n", len(set.Flag))
	for _, p := range set.Flag {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

func patterns(res []*regexp.Regexp) []string {
	out := make([]string, len(res))
	for i, re := range res {
		out[i] = re.String()
	}
	return out
}
