package recipe

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CesiumGS/cesium-native/pkg/manifest"
	"github.com/CesiumGS/cesium-native/pkg/observability"
	"github.com/CesiumGS/cesium-native/pkg/registry"
)

const (
	// BuildDir is the build output area, relative to the project root.
	BuildDir = "build"

	// RecipeFileName is the generated recipe inside each library directory.
	RecipeFileName = "conanfile.py"

	// WorkspaceFileName is the generated workspace file inside BuildDir.
	WorkspaceFileName = "workspace.cmake"
)

// Output describes one generated file.
type Output struct {
	Path       string   // Absolute or root-relative path of the file
	Changed    bool     // False when the file already had this content
	Unresolved []string // External dependencies rendered with VersionPlaceholder
}

// Emitter renders and writes the generated files of a project. Its only
// side effects are file writes below Root.
type Emitter struct {
	Root     string
	Renderer *Renderer
	Registry *registry.Registry
	Native   *manifest.Native
}

// NewEmitter creates an emitter for the project in root.
func NewEmitter(root string, r *Renderer, reg *registry.Registry, native *manifest.Native) *Emitter {
	return &Emitter{Root: root, Renderer: r, Registry: reg, Native: native}
}

// RecipePath returns the path of the recipe of lib.
func (e *Emitter) RecipePath(lib registry.Library) string {
	return filepath.Join(e.Root, lib.Name, RecipeFileName)
}

// ConanfilePath returns the path of the install conanfile of lib.
func (e *Emitter) ConanfilePath(lib registry.Library) string {
	return filepath.Join(e.Root, BuildDir, "conanfile-"+lib.Name+".txt")
}

// ToolchainConanfilePath returns the path of the toolchain-only conanfile.
func (e *Emitter) ToolchainConanfilePath() string {
	return filepath.Join(e.Root, BuildDir, "conan", "conanfile.txt")
}

// WorkspacePath returns the path of the workspace file.
func (e *Emitter) WorkspacePath() string {
	return filepath.Join(e.Root, BuildDir, WorkspaceFileName)
}

// Recipe renders the recipe of lib. Sibling libraries are referenced in
// Packaged mode.
func (e *Emitter) Recipe(lib registry.Library) ([]byte, []string, error) {
	res := NewResolver(e.Registry, e.Native, Packaged)
	data := RecipeData{
		Name:             lib.Name,
		Alias:            lib.Alias,
		Version:          e.Native.Version,
		User:             e.Native.User,
		Channel:          e.Native.Channel,
		Dependencies:     res.ResolveAll(lib.Dependencies),
		TestDependencies: res.ResolveAll(lib.TestDependencies),
	}
	out, err := e.Renderer.Render(RecipeTemplate, data)
	if err != nil {
		return nil, nil, err
	}
	return out, res.Unresolved(lib.AllDependencies()), nil
}

// WriteRecipe writes the recipe of lib into its library directory.
func (e *Emitter) WriteRecipe(ctx context.Context, lib registry.Library) (Output, error) {
	data, unresolved, err := e.Recipe(lib)
	if err != nil {
		return Output{}, err
	}
	return e.write(ctx, e.RecipePath(lib), data, unresolved)
}

// WriteRecipes writes the recipe of every library in registry order.
func (e *Emitter) WriteRecipes(ctx context.Context) ([]Output, error) {
	outputs := make([]Output, 0, e.Registry.Len())
	for _, lib := range e.Registry.Libraries() {
		out, err := e.WriteRecipe(ctx, lib)
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// Conanfile renders the install conanfile of lib: its build and test
// dependencies with sibling libraries left out, since those come from this
// repository's own build.
func (e *Emitter) Conanfile(lib registry.Library) ([]byte, []string, error) {
	res := NewResolver(e.Registry, e.Native, Editable)
	all := lib.AllDependencies()
	out, err := e.Renderer.Render(ConanfileTemplate, ConanfileData{
		Requires:   res.ResolveAll(all),
		Generators: []string{"CMakeDeps"},
	})
	if err != nil {
		return nil, nil, err
	}
	return out, res.Unresolved(all), nil
}

// WriteConanfile writes the install conanfile of lib into the build area.
func (e *Emitter) WriteConanfile(ctx context.Context, lib registry.Library) (Output, error) {
	data, unresolved, err := e.Conanfile(lib)
	if err != nil {
		return Output{}, err
	}
	return e.write(ctx, e.ConanfilePath(lib), data, unresolved)
}

// WriteToolchainConanfile writes the conanfile used only to generate the
// CMake toolchain matching the Conan settings.
func (e *Emitter) WriteToolchainConanfile(ctx context.Context) (Output, error) {
	data, err := e.Renderer.Render(ConanfileTemplate, ConanfileData{
		Generators: []string{"CMakeToolchain"},
	})
	if err != nil {
		return Output{}, err
	}
	return e.write(ctx, e.ToolchainConanfilePath(), data, nil)
}

// WriteWorkspace writes one add_subdirectory line per library, registry order.
func (e *Emitter) WriteWorkspace(ctx context.Context) (Output, error) {
	data, err := e.Renderer.Render(WorkspaceTemplate, WorkspaceData{Libraries: e.Registry.Names()})
	if err != nil {
		return Output{}, err
	}
	return e.write(ctx, e.WorkspacePath(), data, nil)
}

func (e *Emitter) write(ctx context.Context, path string, data []byte, unresolved []string) (Output, error) {
	changed, err := writeIfChanged(path, data)
	if err != nil {
		return Output{}, err
	}
	observability.File().OnFileWritten(ctx, path, len(data), changed)
	return Output{Path: path, Changed: changed, Unresolved: unresolved}, nil
}

// writeIfChanged writes data to path unless the file already holds exactly
// data. It reports whether the file was written.
func writeIfChanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}
