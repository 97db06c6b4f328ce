// Package cli implements the conceptree command-line interface.
//
// # Commands
//
//   - resolve: visible rows of a concept bundle for a visibility configuration
//   - stats: per-category counts for the options panel
//   - validate: structural checks, with cycle members reported
//   - layout: width-bounded layers of the hierarchy graph
//   - render: DOT, SVG, PNG or JSON drawings of the layout
//   - browse: interactive tree-table with expand and collapse
//   - serve: the HTTP API
//   - cache: manage the layout and artifact cache
//
// # Logging
//
// All commands log through charmbracelet/log to stderr; --verbose (-v)
// switches to debug level. Results go to stdout or the -o file.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Resolved 42 rows (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
