// Package manifest loads the YAML manifests that describe cesium-native.
//
// Two documents exist: the global manifest (cesium-native.yml) at the
// project root, holding the shared version, the optional Conan user/channel
// qualifier, and the version table for external dependencies; and one
// library manifest (library.yml) per library directory, listing that
// library's build and test dependencies.
//
// Both are decoded into typed structs and validated at load time. A missing
// file fails with [errors.ErrCodeFileNotFound]; a parse failure or a missing
// required field fails with [errors.ErrCodeInvalidManifest] naming the file
// and the field.
package manifest

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/CesiumGS/cesium-native/pkg/errors"
)

const (
	// NativeFileName is the name of the global manifest at the project root.
	NativeFileName = "cesium-native.yml"

	// LibraryFileName is the name of the manifest inside each library directory.
	LibraryFileName = "library.yml"

	// MaxManifestSize bounds the size of a manifest file (1MB).
	MaxManifestSize = 1024 * 1024
)

// Native is the global manifest.
type Native struct {
	// Version is shared by every library in the project.
	Version string `yaml:"version" validate:"required,refpart"`

	// User and Channel qualify Conan references to sibling libraries
	// (name/version@user/channel). Both are optional.
	User    string `yaml:"user" validate:"omitempty,refpart"`
	Channel string `yaml:"channel" validate:"omitempty,refpart"`

	// DependencyVersions maps external package names to versions.
	DependencyVersions map[string]string `yaml:"dependencyVersions" validate:"dive,keys,required,pkgname,endkeys,required"`

	// ExtraRecipes names directories under recipes/ that are created with
	// "conan create" before dependencies are installed.
	ExtraRecipes []string `yaml:"extraRecipes" validate:"unique,dive,required,pkgname"`

	// Libraries overrides the built-in library list when set. Order matters:
	// it is the registry order used for workspaces and traversal roots.
	Libraries []string `yaml:"libraries" validate:"unique,dive,required,pkgname"`
}

// Qualified reports whether sibling references carry a user/channel pair.
func (n *Native) Qualified() bool {
	return n.User != "" || n.Channel != ""
}

// Library is a per-library manifest.
type Library struct {
	Dependencies     []string `yaml:"dependencies" validate:"unique,dive,required,pkgname"`
	TestDependencies []string `yaml:"testDependencies" validate:"unique,dive,required,pkgname"`
}

// All returns build dependencies followed by test dependencies, without
// duplicates, in declared order.
func (l *Library) All() []string {
	all := make([]string, 0, len(l.Dependencies)+len(l.TestDependencies))
	for _, d := range l.Dependencies {
		if !slices.Contains(all, d) {
			all = append(all, d)
		}
	}
	for _, d := range l.TestDependencies {
		if !slices.Contains(all, d) {
			all = append(all, d)
		}
	}
	return all
}

// LoadNative reads and validates the global manifest in root.
func LoadNative(root string) (*Native, error) {
	var n Native
	if err := load(filepath.Join(root, NativeFileName), &n); err != nil {
		return nil, err
	}
	if n.DependencyVersions == nil {
		n.DependencyVersions = map[string]string{}
	}
	return &n, nil
}

// LoadLibrary reads and validates the manifest of the library in dir.
func LoadLibrary(dir string) (*Library, error) {
	var l Library
	if err := load(filepath.Join(dir, LibraryFileName), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ParseNative decodes and validates a global manifest from r.
// The name is used in error messages only.
func ParseNative(r io.Reader, name string) (*Native, error) {
	var n Native
	if err := parse(r, name, &n); err != nil {
		return nil, err
	}
	if n.DependencyVersions == nil {
		n.DependencyVersions = map[string]string{}
	}
	return &n, nil
}

// ParseLibrary decodes and validates a library manifest from r.
func ParseLibrary(r io.Reader, name string) (*Library, error) {
	var l Library
	if err := parse(r, name, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func load(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s not found", path)
		}
		return fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()
	return parse(f, path, out)
}

func parse(r io.Reader, name string, out any) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxManifestSize+1))
	if err != nil {
		return fmt.Errorf("read manifest %s: %w", name, err)
	}
	if len(data) > MaxManifestSize {
		return errors.New(errors.ErrCodeInvalidManifest, "%s: file exceeds %d bytes", name, MaxManifestSize)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidManifest, err, "%s: malformed YAML", name)
	}

	if err := validateStruct(out); err != nil {
		var fe *errors.FieldError
		if stderrors.As(err, &fe) {
			return errors.Wrap(errors.ErrCodeInvalidManifest, fe, "%s", name)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "%s: validate", name)
	}
	return nil
}
