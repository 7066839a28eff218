// Package cli implements the automate command-line interface.
//
// The commands load the project manifests, walk the library registry in
// dependency order and either write generated files or drive Conan. The CLI
// is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - install-dependencies: install third-party packages for every library
//   - generate-workspace: write the CMake workspace file
//   - create-recipes, export-recipes: generate and export Conan recipes
//   - list-dependencies: print libraries in dependency order
//   - create-packages: build a Conan package per library
//   - editable: switch libraries in or out of Conan editable mode
//   - check, graph: inspect the dependency graph
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context and carry a short run id.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/CesiumGS/cesium-native/pkg/observability"
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

// done logs msg along with the elapsed time since progress was created.
// Example output: "Created 14 packages (1m2.345s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// fileLogHooks reports generated files at debug level through the logger
// carried by the context of the write.
type fileLogHooks struct{}

var _ observability.FileHooks = fileLogHooks{}

func (fileLogHooks) OnFileWritten(ctx context.Context, path string, size int, changed bool) {
	msg := "wrote file"
	if !changed {
		msg = "file unchanged"
	}
	loggerFromContext(ctx).Debug(msg, "path", path, "bytes", size)
}
