package history

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bimmerbailey/histshrink/internal/logging"
)

// Report logs the diagnostics of a run: the size index grouped by length at
// trace level, and the flagged commands at info level when there are any.
// It never changes the result.
func Report(ctx context.Context, logger *slog.Logger, res *Result) {
	for _, length := range res.Sizes.Keys() {
		commands := res.Sizes.Get(length)
		logging.Trace(ctx, logger, "big commands", "length", length, "count", len(commands))
		for _, command := range commands {
			logging.Trace(ctx, logger, strings.TrimRight(command, "\n"))
		}
	}

	if res.Flagged.Len() == 0 {
		return
	}

	logger.InfoContext(ctx, "flagged commands", "count", res.Flagged.Len())
	for _, entry := range res.Flagged.Entries() {
		logger.InfoContext(ctx, entry)
	}
}
