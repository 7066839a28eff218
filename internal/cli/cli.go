package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/CesiumGS/cesium-native/pkg/buildinfo"
	"github.com/CesiumGS/cesium-native/pkg/conan"
	"github.com/CesiumGS/cesium-native/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the command name used for display.
	appName = "automate"

	// cycleWarning is logged each time a traversal reaches a library that is
	// still being visited.
	cycleWarning = "Detected a cycle in the dependency graph while visiting %s!"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer // Machine output and status lines
	Err    io.Writer // Log output and tool stderr

	// Runner overrides how Conan is invoked. When nil, commands start the
	// configured executable (or print commands with --dry-run).
	Runner conan.Runner

	global globalOpts
	runID  string
}

// globalOpts holds the persistent flags shared by every command.
type globalOpts struct {
	root       string // project root
	conan      string // conan executable
	configPath string // explicit config file
	dryRun     bool   // print tool commands instead of running them
	verbose    bool   // debug logging
}

// New creates a new CLI instance writing status to out and logs to errw.
func New(out, errw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errw, level),
		Out:    out,
		Err:    errw,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Automate cesium-native dependency and package tasks",
		Long: `automate drives Conan for the cesium-native libraries: it installs
dependencies, generates the CMake workspace and per-library recipes, and
creates, exports or toggles editable packages in dependency order.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.global.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			c.runID = uuid.NewString()
			logger := c.Logger.With("run", c.runID[:8])
			cmd.SetContext(withLogger(cmd.Context(), logger))
			observability.SetFileHooks(fileLogHooks{})
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&c.global.root, "root", ".", "cesium-native project root")
	pf.StringVar(&c.global.conan, "conan", conan.DefaultProgram, "conan executable")
	pf.StringVar(&c.global.configPath, "config-file", "", "config file (default <root>/automate.toml)")
	pf.BoolVar(&c.global.dryRun, "dry-run", false, "print conan commands instead of running them")
	pf.BoolVarP(&c.global.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.installCommand())
	root.AddCommand(c.workspaceCommand())
	root.AddCommand(c.createRecipesCommand())
	root.AddCommand(c.exportRecipesCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.packagesCommand())
	root.AddCommand(c.editableCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.testDataCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Argument Normalisation
// =============================================================================

// profileFlags maps Conan's profile spellings to the long flags registered
// on commands.
var profileFlags = map[string]string{
	"-pr:h": "--pr-h",
	"-pr:b": "--pr-b",
}

// NormalizeArgs rewrites "-pr:h X", "-pr:h=X" and the -pr:b variants into
// flags cobra can parse. Arguments after "--" are left alone.
func NormalizeArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a == "--" {
			copy(out[i:], args[i:])
			break
		}
		out[i] = a
		for short, long := range profileFlags {
			if a == short || strings.HasPrefix(a, short+"=") {
				out[i] = long + strings.TrimPrefix(a, short)
			}
		}
	}
	return out
}
