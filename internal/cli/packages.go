package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CesiumGS/cesium-native/internal/config"
	"github.com/CesiumGS/cesium-native/pkg/recipe"
	"github.com/CesiumGS/cesium-native/pkg/registry"
)

// listCommand creates the list-dependencies command. Output is one library
// name per line, dependencies first, with nothing else on stdout.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-dependencies",
		Short: "List the libraries in dependency order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			return p.walk(ctx, func(lib registry.Library) error {
				_, err := fmt.Fprintln(c.Out, lib.Name)
				return err
			})
		},
	}
}

// packagesCommand creates the create-packages command.
func (c *CLI) packagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-packages",
		Short: "Create a Conan package for every library in dependency order (conan create)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			keys := profileKeys()
			keys[config.KeyPackageConfig] = flagConfig
			cfg, err := c.loadConfig(cmd, p.root, keys)
			if err != nil {
				return err
			}

			client := c.newClient(ctx, p, cfg)
			prog := newProgress(loggerFromContext(ctx))
			err = p.walk(ctx, func(lib registry.Library) error {
				return client.Create(ctx, lib.Name, cfg.PackageConfig)
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Created %d packages", p.registry.Len()))
			printSuccess(c.Out, "Created %d packages (%s)", p.registry.Len(), cfg.PackageConfig)
			return nil
		},
	}

	cmd.Flags().String(flagConfig, config.Default().PackageConfig, "build configuration")
	addProfileFlags(cmd)
	return cmd
}

// editableCommand creates the editable command, which puts every library
// into Conan editable mode backed by its directory, or takes it out again.
func (c *CLI) editableCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "editable on|off",
		Short:     "Switch all libraries into or out of Conan editable mode",
		ValidArgs: []string{"on", "off"},
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig(cmd, p.root, nil)
			if err != nil {
				return err
			}

			on := args[0] == "on"
			client := c.newClient(ctx, p, cfg)
			res := recipe.NewResolver(p.registry, p.native, recipe.Packaged)
			err = p.walk(ctx, func(lib registry.Library) error {
				ref := res.Reference(lib.Name)
				if on {
					return client.EditableAdd(ctx, lib.Name, ref)
				}
				return client.EditableRemove(ctx, ref)
			})
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Editable mode %s for %d libraries", args[0], p.registry.Len())
			return nil
		},
	}
}
