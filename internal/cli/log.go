// Package cli implements the mgraph command-line interface.
//
// Commands load graphs from the JSON documents written by the io package,
// operate on them and print results with lipgloss styles. The CLI is built
// using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
//   - demo: walk through editing, undo and redo on a small graph
//   - inspect: statistics, degree summary and acyclicity of a graph file
//   - render: write DOT or SVG
//   - history: interactive undo/redo browser
//   - serve: HTTP API over one graph
//   - snapshot: save, list, load and delete stored snapshots
//   - config: show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// shows checkpoint operations. Loggers are passed through context.Context.
package cli

import (
	"context"
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

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Loaded g.json (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
