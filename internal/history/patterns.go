package history

import "github.com/bimmerbailey/histshrink/internal/config"

// Built-in exclusion patterns. The common commands were picked by counting
// the first word of every line of a long-lived history:
//
//	grep -v '^#' $HISTFILE |
//	  awk '{count[$1]++} END {for (word in count) print count[word], word}' |
//	  sort -rn | head -n 20
//
// Navigation, listing and quick git porcelain made up over half of it.
var defaultExcludePatterns = []string{
	// Common commands not worth keeping
	`^echo `,
	`^en `,
	`^cd `,
	`^cd$`,
	`^ls `,
	`^ls$`,
	`^l `,
	`^l$`,
	`^la `,
	`^la$`,
	`^lt `,
	`^lt$`,
	`^vi `,
	`^md `,
	`^rd `,
	`^mv `,
	`^rm `,
	`^cp `,
	`^ij `,
	`^rr `,
	`^s `,
	`^type `,
	`^sk8s `,
	`^history`,
	`^fexpr `,
	`^git add`,
	`^git pull`,
	`^gpull`,
	`^gst`,
	`^git status`,
	`^git checkout`,
	`^git mv`,
	`^git rm`,
	`^git diff`,
	// sk8s shortcuts (8l, 8h, 8logs)
	`^8`,
	`help`,
	// Commands likely to carry secrets
	`echo.*\| *pbcopy`,
	`en .*\| *pbcopy`,
	`echo.*\| *clip.exe`,
	`en .*\| *clip.exe`,
	`echo.*\| *base64`,
	`en .*\| *base64`,
}

// Built-in redactions, applied in order. Values stop at a space or the end of
// the line so the command keeps its newline; values starting with $ are
// variable references and are left alone.
var defaultRedactRules = []config.RedactRule{
	{Pattern: `Authorization: Bearer [^'"\n]*`, Replacement: "Authorization: Bearer xxx"},
	{Pattern: `password="[^$\n][^ \n]*`, Replacement: "password=XXX"},
	{Pattern: `password=[^$\n][^ \n]*`, Replacement: "password=XXX"},
	{Pattern: `password: ?[^ \n]*`, Replacement: "password: XXX"},
}

// Built-in flag patterns. A match is reported for review but the command is
// still written out.
var defaultFlagPatterns = []string{
	`password`,
	`ssh`,
	`secret`,
	`base64`,
	`jasypt`,
}

// DefaultExcludePatterns returns a copy of the built-in exclusion patterns.
func DefaultExcludePatterns() []string {
	return append([]string(nil), defaultExcludePatterns...)
}

// DefaultRedactRules returns a copy of the built-in redaction rules.
func DefaultRedactRules() []config.RedactRule {
	return append([]config.RedactRule(nil), defaultRedactRules...)
}

// DefaultFlagPatterns returns a copy of the built-in flag patterns.
func DefaultFlagPatterns() []string {
	return append([]string(nil), defaultFlagPatterns...)
}
