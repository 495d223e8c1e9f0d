// Package history extracts, normalizes and re-emits shell history records.
//
// Two on-disk encodings are understood:
//
//	plain (bash, optionally with HISTTIMEFORMAT comments):
//	  #1746142083
//	  cargo build --workspace --profile release
//
//	extended (zsh EXTENDED_HISTORY):
//	  : 1746142083:0;cargo build --workspace --profile release
//
// A file with no timestamp comments at all is handled as plain.
package history

import (
	"fmt"
	"regexp"
	"strings"
)

// Format represents a history file encoding.
type Format string

const (
	FormatPlain    Format = "plain"
	FormatExtended Format = "extended"
)

var (
	// plainMarkerRegex matches a plain-format timestamp comment line.
	plainMarkerRegex = regexp.MustCompile(`^#([0-9]{8}[0-9]*)$`)

	// extendedLineRegex matches an extended-format record line. Groups are the
	// start timestamp, the elapsed seconds and the first line of the command.
	extendedLineRegex = regexp.MustCompile(`^: ([0-9]{8}[0-9]*):([0-9]*);(.*)$`)
)

// ParseFormat converts a user-supplied format name to a Format. "auto" and the
// empty string return the empty Format, meaning "use the detected format".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return "", nil
	case "plain", "bash":
		return FormatPlain, nil
	case "extended", "zsh":
		return FormatExtended, nil
	default:
		return "", fmt.Errorf("unknown history format %q (must be auto, plain or extended)", s)
	}
}

// Detect reports the encoding of the whole file. One extended-format line
// anywhere is enough to treat every line as extended.
func Detect(lines []string) Format {
	for _, line := range lines {
		if extendedLineRegex.MatchString(line) {
			return FormatExtended
		}
	}
	return FormatPlain
}

// SplitLines splits file content into lines without their terminators.
// A final newline does not produce an empty trailing line and a trailing
// carriage return is stripped from every line.
func SplitLines(content string) []string {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
