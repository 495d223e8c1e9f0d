package history

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// FlaggedSet collects one report line per flagged command.
type FlaggedSet struct {
	entries map[string]struct{}
}

// NewFlaggedSet creates an empty FlaggedSet.
func NewFlaggedSet() *FlaggedSet {
	return &FlaggedSet{entries: make(map[string]struct{})}
}

// Add records that command matched pattern. It reports whether the entry was
// new.
func (f *FlaggedSet) Add(pattern *regexp.Regexp, command string) bool {
	entry := fmt.Sprintf("Flagged for '%s': %s", pattern, strings.TrimRight(command, "\n"))
	if _, ok := f.entries[entry]; ok {
		return false
	}
	f.entries[entry] = struct{}{}
	return true
}

// Len returns the number of flagged commands.
func (f *FlaggedSet) Len() int {
	return len(f.entries)
}

// Entries returns the report lines sorted for stable output.
func (f *FlaggedSet) Entries() []string {
	out := make([]string, 0, len(f.entries))
	for e := range f.entries {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}
