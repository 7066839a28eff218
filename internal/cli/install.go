package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/CesiumGS/cesium-native/internal/config"
	"github.com/CesiumGS/cesium-native/pkg/conan"
	"github.com/CesiumGS/cesium-native/pkg/recipe"
)

// recipesDir holds extra recipes created before dependencies are installed.
const recipesDir = "recipes"

// installCommand creates the install-dependencies command.
//
// For every build configuration it creates the extra recipes named in the
// global manifest, then writes build/conanfile-<lib>.txt for each library
// and installs it into build/<lib>/conan, and finally installs the
// toolchain-only conanfile into build/conan.
func (c *CLI) installCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install-dependencies",
		Short: "Install the third-party dependencies of every library (conan install)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInstall(cmd)
		},
	}

	cmd.Flags().StringSlice(flagConfig, config.Default().InstallConfigs, "build configuration to install (repeatable)")
	addProfileFlags(cmd)
	return cmd
}

func (c *CLI) runInstall(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	p, err := c.loadProject(ctx)
	if err != nil {
		return err
	}
	keys := profileKeys()
	keys[config.KeyInstallConfigs] = flagConfig
	cfg, err := c.loadConfig(cmd, p.root, keys)
	if err != nil {
		return err
	}
	client := c.newClient(ctx, p, cfg)
	prog := newProgress(logger)

	for _, name := range p.native.ExtraRecipes {
		for _, buildType := range cfg.InstallConfigs {
			if err := client.Create(ctx, filepath.Join(recipesDir, name), buildType); err != nil {
				return err
			}
		}
	}

	for _, lib := range p.registry.Libraries() {
		out, err := p.emitter.WriteConanfile(ctx, lib)
		if err != nil {
			return err
		}
		c.reportFile(ctx, p, out)

		folder := filepath.Join(recipe.BuildDir, lib.Name, "conan")
		for _, buildType := range cfg.InstallConfigs {
			if err := client.Install(ctx, p.rel(out.Path), folder, buildType, conan.InstallOptions{BuildMissing: true}); err != nil {
				return err
			}
		}
	}

	out, err := p.emitter.WriteToolchainConanfile(ctx)
	if err != nil {
		return err
	}
	c.reportFile(ctx, p, out)
	folder := filepath.Join(recipe.BuildDir, "conan")
	for _, buildType := range cfg.InstallConfigs {
		if err := client.Install(ctx, p.rel(out.Path), folder, buildType, conan.InstallOptions{}); err != nil {
			return err
		}
	}

	prog.done(fmt.Sprintf("Installed dependencies for %d libraries", p.registry.Len()))
	printSuccess(c.Out, "Dependencies installed for %s", StyleHighlight.Render(fmt.Sprint(cfg.InstallConfigs)))
	return nil
}
