package history

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Emit writes the commands of out to w in the given format, timestamps
// ascending. Each command already ends in a newline, so no separator is
// written between records.
//
// Timestamps are padded to the 8 digits the readers require. The
// elapsed-time field of the extended format is always written as 0. In plain
// format, commands with timestamp 0 (text that preceded the first marker) are
// written without a marker so that re-reading the output puts them back under
// timestamp 0. In extended format every inner line of a multi-line command
// ends in a backslash, the only way the format can carry it.
func Emit(w io.Writer, out *MultiMap[uint32, string], format Format) error {
	bw := bufio.NewWriter(w)

	for timestamp, command := range out.All() {
		switch format {
		case FormatExtended:
			fmt.Fprintf(bw, ": %08d:0;", timestamp)
			command = continueLines(command)
		default:
			if timestamp != 0 {
				fmt.Fprintf(bw, "#%08d\n", timestamp)
			}
		}
		if _, err := bw.WriteString(command); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// continueLines appends a backslash to every inner line of command that does
// not already end in one. A command whose last line ends in a backslash gets
// an empty line after it, otherwise it would swallow the next record.
func continueLines(command string) string {
	lines := strings.Split(strings.TrimSuffix(command, "\n"), "\n")
	last := len(lines) - 1
	for i, line := range lines[:last] {
		if !strings.HasSuffix(line, `\`) {
			lines[i] = line + `\`
		}
	}
	if strings.HasSuffix(lines[last], `\`) {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n") + "\n"
}
