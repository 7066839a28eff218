// Package registry holds the ordered set of cesium-native libraries and
// their declared dependencies for the duration of a run.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/CesiumGS/cesium-native/pkg/dag"
	"github.com/CesiumGS/cesium-native/pkg/errors"
	"github.com/CesiumGS/cesium-native/pkg/manifest"
)

// defaultLibraries is the registry order used when the global manifest does
// not list libraries itself.
var defaultLibraries = []string{
	"Cesium3DTiles",
	"Cesium3DTilesReader",
	"Cesium3DTilesSelection",
	"Cesium3DTilesWriter",
	"CesiumAsync",
	"CesiumGeometry",
	"CesiumGeospatial",
	"CesiumGltf",
	"CesiumGltfReader",
	"CesiumGltfWriter",
	"CesiumIonClient",
	"CesiumJsonReader",
	"CesiumJsonWriter",
	"CesiumUtility",
}

// DefaultLibraries returns the built-in library list.
func DefaultLibraries() []string {
	return slices.Clone(defaultLibraries)
}

// Library is one named unit of the project with its own manifest.
type Library struct {
	Name             string   // Canonical name, also the directory name (e.g. "CesiumGltf")
	Alias            string   // Lowercase package-name alias (e.g. "cesiumgltf")
	Dependencies     []string // Build dependencies, declared order
	TestDependencies []string // Test-only dependencies, declared order
}

// AllDependencies returns build then test dependencies without duplicates.
func (l Library) AllDependencies() []string {
	m := manifest.Library{Dependencies: l.Dependencies, TestDependencies: l.TestDependencies}
	return m.All()
}

// Registry is an immutable, ordered set of libraries.
type Registry struct {
	libs    []Library
	byName  map[string]int
	byAlias map[string]int
}

// New builds a registry from libs in order. Names are validated and
// aliases derived; two libraries whose names or aliases collide are rejected.
func New(libs []Library) (*Registry, error) {
	r := &Registry{
		libs:    make([]Library, 0, len(libs)),
		byName:  make(map[string]int, len(libs)),
		byAlias: make(map[string]int, len(libs)),
	}
	for _, lib := range libs {
		if err := errors.ValidateLibraryName(lib.Name); err != nil {
			return nil, err
		}
		lib.Alias = strings.ToLower(lib.Name)
		if _, dup := r.byName[lib.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidLibrary, "library %s listed twice", lib.Name)
		}
		if j, dup := r.byAlias[lib.Alias]; dup {
			return nil, errors.New(errors.ErrCodeInvalidLibrary,
				"libraries %s and %s share the package name %s", r.libs[j].Name, lib.Name, lib.Alias)
		}
		lib.Dependencies = slices.Clone(lib.Dependencies)
		lib.TestDependencies = slices.Clone(lib.TestDependencies)

		r.byName[lib.Name] = len(r.libs)
		r.byAlias[lib.Alias] = len(r.libs)
		r.libs = append(r.libs, lib)
	}
	return r, nil
}

// Load reads the manifest of every library named by native (or the default
// list) from root/<Name>/library.yml.
func Load(root string, native *manifest.Native) (*Registry, error) {
	names := DefaultLibraries()
	if native != nil && len(native.Libraries) > 0 {
		names = slices.Clone(native.Libraries)
	}

	libs := make([]Library, 0, len(names))
	for _, name := range names {
		if err := errors.ValidateLibraryName(name); err != nil {
			return nil, err
		}
		m, err := manifest.LoadLibrary(filepath.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("load library %s: %w", name, err)
		}
		libs = append(libs, Library{
			Name:             name,
			Dependencies:     m.Dependencies,
			TestDependencies: m.TestDependencies,
		})
	}
	return New(libs)
}

// Len returns the number of libraries.
func (r *Registry) Len() int { return len(r.libs) }

// At returns the library at position i.
func (r *Registry) At(i int) Library { return r.libs[i] }

// Libraries returns every library in registry order.
func (r *Registry) Libraries() []Library { return slices.Clone(r.libs) }

// Names returns the canonical names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.libs))
	for i, l := range r.libs {
		names[i] = l.Name
	}
	return names
}

// Index returns the position of the library called name. The canonical
// name is matched first, then the lowercase alias.
func (r *Registry) Index(name string) (int, bool) {
	if i, ok := r.byName[name]; ok {
		return i, true
	}
	i, ok := r.byAlias[strings.ToLower(name)]
	return i, ok
}

// Lookup returns the library called name (see [Registry.Index]).
func (r *Registry) Lookup(name string) (Library, bool) {
	i, ok := r.Index(name)
	if !ok {
		return Library{}, false
	}
	return r.libs[i], true
}

// Contains reports whether name refers to a library in the registry.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Index(name)
	return ok
}

// Graph returns the dependency graph between registry members. Edges to
// names outside the registry (external packages) are not part of it.
func (r *Registry) Graph() *dag.Graph {
	g, err := dag.New(r.Names())
	if err != nil {
		// Names were validated unique and non-empty by New.
		panic(err)
	}
	for _, lib := range r.libs {
		for _, dep := range lib.AllDependencies() {
			if j, ok := r.Index(dep); ok {
				_ = g.AddEdge(lib.Name, r.libs[j].Name)
			}
		}
	}
	return g
}

// Walk calls visit for every library in dependency order and onCycle for
// each cycle diagnostic; see [dag.Walk].
func (r *Registry) Walk(visit func(Library) error, onCycle func(Library)) error {
	var cycle dag.CycleFunc
	if onCycle != nil {
		cycle = func(i int) { onCycle(r.libs[i]) }
	}
	return dag.Walk(r.Graph(), func(i int) error { return visit(r.libs[i]) }, cycle)
}

// Discover lists directories under root that contain a library manifest,
// sorted by name.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), manifest.LibraryFileName)); err == nil {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}
