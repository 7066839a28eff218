package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CesiumGS/cesium-native/pkg/dag"
	"github.com/CesiumGS/cesium-native/pkg/errors"
	"github.com/CesiumGS/cesium-native/pkg/fixture"
	pkgio "github.com/CesiumGS/cesium-native/pkg/io"
	"github.com/CesiumGS/cesium-native/pkg/manifest"
	"github.com/CesiumGS/cesium-native/pkg/recipe"
	"github.com/CesiumGS/cesium-native/pkg/registry"
	"github.com/CesiumGS/cesium-native/pkg/render/nodelink"
)

// Graph output formats.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// checkCommand creates the check command. Loading the project validates
// every manifest; check then reports each cycle and each external
// dependency with no version in the global manifest. Library directories
// missing from the registry are reported but do not fail the check.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate manifests, dependency cycles and external versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}

			problems := 0
			g := p.registry.Graph()
			if !dag.IsAcyclic(g) {
				for _, e := range dag.BackEdges(g) {
					printWarning(c.Out, "cycle: %s depends on %s", e.From, e.To)
					problems++
				}
			}

			res := recipe.NewResolver(p.registry, p.native, recipe.Packaged)
			for _, lib := range p.registry.Libraries() {
				missing := res.Unresolved(lib.AllDependencies())
				if len(missing) == 0 {
					continue
				}
				printWarning(c.Out, "%s: no version in %s", lib.Name, manifest.NativeFileName)
				printDetail(c.Out, "%s", strings.Join(missing, ", "))
				problems += len(missing)
			}

			found, err := registry.Discover(p.root)
			if err != nil {
				return err
			}
			for _, name := range found {
				if !p.registry.Contains(name) {
					printWarning(c.Out, "%s has a %s but is not registered", name, manifest.LibraryFileName)
				}
			}

			if problems > 0 {
				return errors.New(errors.ErrCodeInvalidManifest, "%d problems found", problems)
			}
			printSuccess(c.Out, "%d libraries, %d dependency edges, no problems",
				p.registry.Len(), g.EdgeCount())
			return nil
		},
	}
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the library dependency graph (dot, svg or json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.loadProject(ctx)
			if err != nil {
				return err
			}
			g := p.registry.Graph()
			logger := loggerFromContext(ctx)

			if format == formatJSON && output != "" {
				if err := pkgio.ExportJSON(g, output); err != nil {
					return err
				}
				logger.Info("wrote graph", "file", output, "format", format)
				return nil
			}

			var data []byte
			switch format {
			case formatDOT:
				data = []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
			case formatSVG:
				data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
				if err != nil {
					return err
				}
			case formatJSON:
				var b strings.Builder
				if err := pkgio.WriteJSON(g, &b); err != nil {
					return err
				}
				data = []byte(b.String())
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg or json)", format)
			}

			if output == "" {
				_, err := c.Out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("wrote graph", "file", output, "format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot, svg, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show dependency counts in node labels")
	return cmd
}

// testDataCommand creates the generate-test-data command.
func (c *CLI) testDataCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate-test-data",
		Short: "Write the cube glTF fixtures used by the content tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := output
			if dir == "" {
				dir = filepath.Join(c.global.root, "CesiumGltfContent", "test", "data")
			}
			paths, err := fixture.WriteAll(dir)
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Generated %d test files", len(paths))
			for _, path := range paths {
				printFile(c.Out, path, true)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default <root>/CesiumGltfContent/test/data)")
	return cmd
}
