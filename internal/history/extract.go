package history

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// ErrTimestampOverflow is returned when a timestamp marker carries more digits
// than fit in 32 bits.
var ErrTimestampOverflow = errors.New("timestamp overflows 32 bits")

// Record is one command read from a history file. Text ends in a single
// newline once produced by Extract; multi-line commands keep their inner
// newlines.
type Record struct {
	Timestamp uint32
	Text      string
}

// Extract yields the records of lines in file order using the given format.
// Records may have empty Text; callers are expected to skip those. Iteration
// stops after the first error.
func Extract(lines []string, format Format) iter.Seq2[Record, error] {
	if format == FormatExtended {
		return extractExtended(lines)
	}
	return extractPlain(lines)
}

// extractPlain emits the buffered command each time a timestamp marker is seen
// and once more at the end of input, since the last command has no marker
// after it. Lines before the first marker belong to timestamp 0.
func extractPlain(lines []string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		var timestamp uint32
		var command strings.Builder

		for i, line := range lines {
			m := plainMarkerRegex.FindStringSubmatch(line)
			if m == nil {
				command.WriteString(line)
				command.WriteByte('\n')
				continue
			}

			next, err := parseTimestamp(m[1], i+1)
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(Record{Timestamp: timestamp, Text: command.String()}, nil) {
				return
			}
			timestamp = next
			command.Reset()
		}

		yield(Record{Timestamp: timestamp, Text: command.String()}, nil)
	}
}

// extractExtended emits one record per matching line. A command ending in a
// backslash swallows the following physical lines until one does not end in a
// backslash or input runs out. Lines that are neither records nor
// continuations are skipped.
func extractExtended(lines []string) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for i := 0; i < len(lines); i++ {
			m := extendedLineRegex.FindStringSubmatch(lines[i])
			if m == nil {
				continue
			}

			timestamp, err := parseTimestamp(m[1], i+1)
			if err != nil {
				yield(Record{}, err)
				return
			}

			// m[2] is the elapsed time; zsh usually leaves it at 0 and it is
			// not carried to the output.
			command := strings.TrimSpace(m[3])
			for strings.HasSuffix(command, `\`) && i+1 < len(lines) {
				i++
				command += "\n" + lines[i]
			}

			// A trailing backslash left by trimming would join the next
			// record on re-read, so such commands keep their blank last line.
			if trimmed := strings.TrimSpace(command); !strings.HasSuffix(trimmed, `\`) {
				command = trimmed
			}
			rec := Record{Timestamp: timestamp, Text: command + "\n"}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func parseTimestamp(digits string, lineNum int) (uint32, error) {
	v, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w: %s", lineNum, ErrTimestampOverflow, digits)
	}
	return uint32(v), nil
}
