package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HistFileEnv is the environment variable shells export for their history file.
const HistFileEnv = "HISTFILE"

// ResolveHistoryPath picks the history file to read: the explicit path when
// given, then $HISTFILE, then ~/.bash_history. A leading "~/" is expanded.
func ResolveHistoryPath(explicit string) (string, error) {
	if explicit != "" {
		return expandHome(explicit)
	}

	if env := os.Getenv(HistFileEnv); env != "" {
		return expandHome(env)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".bash_history"), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
