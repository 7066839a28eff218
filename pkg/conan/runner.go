// Package conan drives the Conan package manager.
//
// Commands are built by [Client] and executed by a [Runner]. [Exec] starts
// the real executable with an argument vector (never through a shell) and
// streams its output; [DryRun] only prints what would run. A tool that exits
// non-zero is reported as an [*ExitError] carrying its exit code, which the
// caller is expected to propagate as its own.
package conan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/syntax"

	"github.com/CesiumGS/cesium-native/pkg/observability"
)

// DefaultProgram is the executable name used when none is configured.
const DefaultProgram = "conan"

// Runner runs one tool invocation to completion.
type Runner interface {
	Run(ctx context.Context, args ...string) error
}

// ExitError reports a tool invocation that exited with a non-zero code.
type ExitError struct {
	Code int
	Args []string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", CommandLine(e.Args), e.Code)
}

// CommandLine renders args as a POSIX shell command line, quoting only
// where needed. It is used for display; commands never run through a shell.
func CommandLine(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		q, err := syntax.Quote(a, syntax.LangPOSIX)
		if err != nil {
			q = fmt.Sprintf("%q", a)
		}
		parts[i] = q
	}
	return strings.Join(parts, " ")
}

// Exec runs Program as a child process.
type Exec struct {
	Program string      // Executable name or path; DefaultProgram if empty
	Dir     string      // Working directory; the current one if empty
	Stdout  io.Writer   // Child stdout; os.Stdout if nil
	Stderr  io.Writer   // Child stderr; os.Stderr if nil
	Logger  *log.Logger // Optional
	RunID   string      // Passed to tool hooks
}

// Run starts the program with args and waits for it. Cancelling ctx kills
// the child.
func (e *Exec) Run(ctx context.Context, args ...string) error {
	program := e.Program
	if program == "" {
		program = DefaultProgram
	}
	argv := append([]string{program}, args...)

	if e.Logger != nil {
		e.Logger.Info("running", "cmd", CommandLine(argv))
	}
	hooks := observability.Tool()
	hooks.OnToolStart(ctx, e.RunID, argv)
	start := time.Now()

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = e.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = orDefault(e.Stdout, os.Stdout)
	cmd.Stderr = orDefault(e.Stderr, os.Stderr)

	err := cmd.Run()
	code := 0
	if err != nil {
		code = -1
		var ee *exec.ExitError
		if errors.As(err, &ee) && ctx.Err() == nil {
			code = ee.ExitCode()
			err = &ExitError{Code: code, Args: argv}
		} else if ctx.Err() != nil {
			err = ctx.Err()
		} else {
			err = fmt.Errorf("start %s: %w", program, err)
		}
	}
	elapsed := time.Since(start)
	hooks.OnToolComplete(ctx, e.RunID, argv, code, elapsed, err)

	if e.Logger != nil {
		e.Logger.Debug("finished", "cmd", argv[0], "code", code, "took", elapsed.Round(time.Millisecond))
	}
	return err
}

func orDefault(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}

// DryRun prints each command line to Out instead of running it.
type DryRun struct {
	Program string
	Out     io.Writer
}

// Run writes the command line and reports success.
func (d *DryRun) Run(ctx context.Context, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	program := d.Program
	if program == "" {
		program = DefaultProgram
	}
	_, err := fmt.Fprintln(d.Out, CommandLine(append([]string{program}, args...)))
	return err
}
