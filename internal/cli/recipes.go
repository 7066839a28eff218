package cli

import (
	"github.com/spf13/cobra"

	"github.com/CesiumGS/cesium-native/pkg/recipe"
	"github.com/CesiumGS/cesium-native/pkg/registry"
)

// workspaceCommand creates the generate-workspace command.
func (c *CLI) workspaceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate-workspace",
		Short: "Generate build/workspace.cmake with one add_subdirectory per library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			out, err := p.emitter.WriteWorkspace(ctx)
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Generated workspace for %d libraries", p.registry.Len())
			c.reportFile(ctx, p, out)
			return nil
		},
	}
}

// createRecipesCommand creates the create-recipes command.
func (c *CLI) createRecipesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create-recipes",
		Short: "Generate a Conan recipe (conanfile.py) in every library directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			outputs, err := p.emitter.WriteRecipes(ctx)
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Generated %d recipes", len(outputs))
			for _, out := range outputs {
				c.reportFile(ctx, p, out)
			}
			return nil
		},
	}
}

// exportRecipesCommand creates the export-recipes command. Recipes are
// regenerated first so the exported ones match the manifests.
func (c *CLI) exportRecipesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export-recipes",
		Short: "Generate and export every recipe to the local Conan cache (conan export)",
		Args:  cobra.NoArgs,
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
			if _, err := p.emitter.WriteRecipes(ctx); err != nil {
				return err
			}

			client := c.newClient(ctx, p, cfg)
			res := recipe.NewResolver(p.registry, p.native, recipe.Packaged)
			prog := newProgress(loggerFromContext(ctx))
			err = p.walk(ctx, func(lib registry.Library) error {
				return client.Export(ctx, lib.Name, res.Reference(lib.Name))
			})
			if err != nil {
				return err
			}
			prog.done("Exported recipes")
			printSuccess(c.Out, "Exported %d recipes", p.registry.Len())
			return nil
		},
	}
}
