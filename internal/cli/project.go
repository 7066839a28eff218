package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CesiumGS/cesium-native/internal/config"
	"github.com/CesiumGS/cesium-native/pkg/conan"
	"github.com/CesiumGS/cesium-native/pkg/manifest"
	"github.com/CesiumGS/cesium-native/pkg/recipe"
	"github.com/CesiumGS/cesium-native/pkg/registry"
)

// Flag names shared by several commands.
const (
	flagHostProfile  = "pr-h"
	flagBuildProfile = "pr-b"
	flagConfig       = "config"
)

// project is a loaded cesium-native checkout.
type project struct {
	root     string
	native   *manifest.Native
	registry *registry.Registry
	emitter  *recipe.Emitter
}

// loadProject reads the global manifest and every library manifest below
// the --root directory.
func (c *CLI) loadProject(ctx context.Context) (*project, error) {
	root, err := filepath.Abs(c.global.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", c.global.root, err)
	}
	native, err := manifest.LoadNative(root)
	if err != nil {
		return nil, err
	}
	reg, err := registry.Load(root, native)
	if err != nil {
		return nil, err
	}
	renderer, err := recipe.NewRenderer()
	if err != nil {
		return nil, err
	}

	loggerFromContext(ctx).Debug("loaded project", "root", root, "version", native.Version, "libraries", reg.Len())
	return &project{
		root:     root,
		native:   native,
		registry: reg,
		emitter:  recipe.NewEmitter(root, renderer, reg, native),
	}, nil
}

// rel returns path relative to the project root, for display and for tool
// arguments (tools run in the root).
func (p *project) rel(path string) string {
	if r, err := filepath.Rel(p.root, path); err == nil {
		return r
	}
	return path
}

// walk visits every library in dependency order, logging a warning for each
// cycle. It stops early when ctx is cancelled.
func (p *project) walk(ctx context.Context, visit func(registry.Library) error) error {
	logger := loggerFromContext(ctx)
	return p.registry.Walk(
		func(lib registry.Library) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return visit(lib)
		},
		func(lib registry.Library) {
			logger.Warnf(cycleWarning, lib.Name)
		},
	)
}

// loadConfig resolves settings for cmd. flags maps config keys to the names
// of cmd's flags that override them.
func (c *CLI) loadConfig(cmd *cobra.Command, root string, flags map[string]string) (*config.Config, error) {
	bound := map[string]*pflag.Flag{config.KeyConan: cmd.Flags().Lookup("conan")}
	for key, name := range flags {
		bound[key] = cmd.Flags().Lookup(name)
	}

	res, err := config.Load(config.Options{Root: root, Path: c.global.configPath, Flags: bound})
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(cmd.Context())
	if res.Path != "" {
		logger.Debug("loaded config", "file", res.Path)
	}
	for _, key := range res.Unused {
		logger.Warn("unknown config key", "key", key, "file", res.Path)
	}
	return &res.Config, nil
}

// newClient returns a Conan client for p using cfg.
func (c *CLI) newClient(ctx context.Context, p *project, cfg *config.Config) *conan.Client {
	runner := c.Runner
	if runner == nil {
		if c.global.dryRun {
			runner = &conan.DryRun{Program: cfg.Conan, Out: c.Out}
		} else {
			runner = &conan.Exec{
				Program: cfg.Conan,
				Dir:     p.root,
				Stdout:  c.Out,
				Stderr:  c.Err,
				Logger:  loggerFromContext(ctx),
				RunID:   c.runID,
			}
		}
	}
	return conan.NewClient(runner, cfg.HostProfile, cfg.BuildProfile)
}

// addProfileFlags registers --pr-h and --pr-b, also accepted as
// --host-profile and --build-profile. -pr:h and -pr:b reach them through
// [NormalizeArgs].
func addProfileFlags(cmd *cobra.Command) {
	def := config.Default()
	cmd.Flags().String(flagHostProfile, def.HostProfile, "Conan host profile (-pr:h)")
	cmd.Flags().String(flagBuildProfile, def.BuildProfile, "Conan build profile (-pr:b)")
	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "host-profile":
			name = flagHostProfile
		case "build-profile":
			name = flagBuildProfile
		}
		return pflag.NormalizedName(name)
	})
}

// profileKeys binds the profile flags added by [addProfileFlags].
func profileKeys() map[string]string {
	return map[string]string{
		config.KeyHostProfile:  flagHostProfile,
		config.KeyBuildProfile: flagBuildProfile,
	}
}

// reportFile prints a generated file and warns about placeholder versions.
func (c *CLI) reportFile(ctx context.Context, p *project, out recipe.Output) {
	printFile(c.Out, p.rel(out.Path), out.Changed)
	logger := loggerFromContext(ctx)
	for _, dep := range out.Unresolved {
		logger.Warn("no version in "+manifest.NativeFileName+", using placeholder",
			"dependency", dep, "file", p.rel(out.Path))
	}
}
