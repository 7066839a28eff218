package recipe

import (
	"fmt"

	"github.com/CesiumGS/cesium-native/pkg/manifest"
	"github.com/CesiumGS/cesium-native/pkg/registry"
)

// VersionPlaceholder stands in for the version of an external dependency
// missing from the global manifest. It ends up in generated files so that a
// maintainer notices and adds the entry.
const VersionPlaceholder = "specify.version.in." + manifest.NativeFileName

// Mode selects how references to sibling libraries are resolved.
type Mode int

const (
	// Packaged qualifies sibling references with the shared version and the
	// optional user/channel pair, as needed by published recipes.
	Packaged Mode = iota
	// Editable drops sibling references entirely, so a local build picks up
	// the sibling from this repository instead of a pinned package.
	Editable
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Packaged:
		return "packaged"
	case Editable:
		return "editable"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Resolver turns dependency names into version-qualified Conan references.
type Resolver struct {
	registry *registry.Registry
	native   *manifest.Native
	mode     Mode
}

// NewResolver creates a resolver over the given registry and global manifest.
func NewResolver(reg *registry.Registry, native *manifest.Native, mode Mode) *Resolver {
	return &Resolver{registry: reg, native: native, mode: mode}
}

// Mode returns the resolution mode.
func (r *Resolver) Mode() Mode { return r.mode }

// Resolve returns the reference for the dependency called name. ok is false
// when the reference is elided (a sibling library in Editable mode).
//
// External dependencies absent from the version table resolve to
// name/[VersionPlaceholder]; this is not an error.
func (r *Resolver) Resolve(name string) (ref string, ok bool) {
	if lib, found := r.registry.Lookup(name); found {
		if r.mode == Editable {
			return "", false
		}
		return r.Reference(lib.Name), true
	}
	if version, found := r.native.DependencyVersions[name]; found {
		return name + "/" + version, true
	}
	return name + "/" + VersionPlaceholder, true
}

// ResolveAll resolves names in order, skipping elided references.
func (r *Resolver) ResolveAll(names []string) []string {
	refs := make([]string, 0, len(names))
	for _, name := range names {
		if ref, ok := r.Resolve(name); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// Reference returns the packaged reference of a sibling library:
// Name/version, or Name/version@user/channel when either is set. A name
// found by its alias is replaced with the canonical one.
func (r *Resolver) Reference(name string) string {
	if lib, found := r.registry.Lookup(name); found {
		name = lib.Name
	}
	if r.native.Qualified() {
		return fmt.Sprintf("%s/%s@%s/%s", name, r.native.Version, r.native.User, r.native.Channel)
	}
	return fmt.Sprintf("%s/%s", name, r.native.Version)
}

// Unresolved returns the external dependencies among names that have no
// entry in the version table.
func (r *Resolver) Unresolved(names []string) []string {
	var missing []string
	for _, name := range names {
		if r.registry.Contains(name) {
			continue
		}
		if _, found := r.native.DependencyVersions[name]; !found {
			missing = append(missing, name)
		}
	}
	return missing
}
