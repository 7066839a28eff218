// Package observability provides hooks for metrics, tracing, and logging.
//
// Instrumentation is optional and has no backend dependency. Consumers
// register hooks at startup to receive events about external tool
// invocations and generated files.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetToolHooks(&myToolHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Tool().OnToolStart(ctx, runID, args)
//	// ... run the tool ...
//	observability.Tool().OnToolComplete(ctx, runID, args, exitCode, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Tool Hooks
// =============================================================================

// ToolHooks receives events around each external tool invocation.
type ToolHooks interface {
	// OnToolStart is called before the tool is started. args includes the
	// program name as args[0].
	OnToolStart(ctx context.Context, runID string, args []string)

	// OnToolComplete is called after the tool has exited or failed to start.
	// exitCode is -1 when the tool could not be started.
	OnToolComplete(ctx context.Context, runID string, args []string, exitCode int, duration time.Duration, err error)
}

// =============================================================================
// File Hooks
// =============================================================================

// FileHooks receives events from generated-file writes.
type FileHooks interface {
	// OnFileWritten records a generated file. changed is false when the file
	// already held the same content and was left untouched.
	OnFileWritten(ctx context.Context, path string, size int, changed bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopToolHooks is a no-op implementation of ToolHooks.
type NoopToolHooks struct{}

func (NoopToolHooks) OnToolStart(context.Context, string, []string) {}
func (NoopToolHooks) OnToolComplete(context.Context, string, []string, int, time.Duration, error) {
}

// NoopFileHooks is a no-op implementation of FileHooks.
type NoopFileHooks struct{}

func (NoopFileHooks) OnFileWritten(context.Context, string, int, bool) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	toolHooks ToolHooks = NoopToolHooks{}
	fileHooks FileHooks = NoopFileHooks{}
	hooksMu   sync.RWMutex
)

// SetToolHooks registers custom tool hooks.
// This should be called once at application startup before any tool runs.
func SetToolHooks(h ToolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		toolHooks = h
	}
}

// SetFileHooks registers custom file hooks.
func SetFileHooks(h FileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fileHooks = h
	}
}

// Tool returns the registered tool hooks.
func Tool() ToolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return toolHooks
}

// File returns the registered file hooks.
func File() FileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fileHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	toolHooks = NoopToolHooks{}
	fileHooks = NoopFileHooks{}
}
