package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/CesiumGS/cesium-native/pkg/errors"
)

func TestParseNative(t *testing.T) {
	input := `
version: 0.21.3
user: cesium
channel: stable
dependencyVersions:
  glm: 0.9.9.8
  asyncplusplus: 1.1
extraRecipes:
  - draco
`
	n, err := ParseNative(strings.NewReader(input), NativeFileName)
	if err != nil {
		t.Fatalf("ParseNative() error = %v", err)
	}

	if n.Version != "0.21.3" {
		t.Errorf("Version = %q, want %q", n.Version, "0.21.3")
	}
	if n.User != "cesium" || n.Channel != "stable" {
		t.Errorf("User/Channel = %q/%q, want cesium/stable", n.User, n.Channel)
	}
	if got := n.DependencyVersions["asyncplusplus"]; got != "1.1" {
		t.Errorf("DependencyVersions[asyncplusplus] = %q, want %q", got, "1.1")
	}
	if !slices.Equal(n.ExtraRecipes, []string{"draco"}) {
		t.Errorf("ExtraRecipes = %v, want [draco]", n.ExtraRecipes)
	}
	if !n.Qualified() {
		t.Error("Qualified() = false, want true")
	}
	if n.Libraries != nil {
		t.Errorf("Libraries = %v, want nil", n.Libraries)
	}
}

func TestParseNativeDefaults(t *testing.T) {
	n, err := ParseNative(strings.NewReader("version: 1.0.0\n"), NativeFileName)
	if err != nil {
		t.Fatalf("ParseNative() error = %v", err)
	}
	if n.DependencyVersions == nil {
		t.Error("DependencyVersions should never be nil")
	}
	if n.Qualified() {
		t.Error("Qualified() = true, want false")
	}
}

func TestParseNativeVersionRanges(t *testing.T) {
	input := "version: 1.0.0\ndependencyVersions:\n  glm: \"[>=1.0 <2.0]\"\n  draco: 1.5.6@user/channel\n"
	n, err := ParseNative(strings.NewReader(input), NativeFileName)
	if err != nil {
		t.Fatalf("ParseNative() error = %v", err)
	}
	if got := n.DependencyVersions["glm"]; got != "[>=1.0 <2.0]" {
		t.Errorf("DependencyVersions[glm] = %q, want %q", got, "[>=1.0 <2.0]")
	}
	if got := n.DependencyVersions["draco"]; got != "1.5.6@user/channel" {
		t.Errorf("DependencyVersions[draco] = %q", got)
	}
}

func TestParseNativeErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		code      errors.Code
		wantField string
	}{
		{
			name:      "missing version",
			input:     "user: cesium\n",
			code:      errors.ErrCodeInvalidManifest,
			wantField: "version is required",
		},
		{
			name:  "empty document",
			input: "",
			code:  errors.ErrCodeInvalidManifest,
		},
		{
			name:  "malformed yaml",
			input: "version: [unclosed\n",
			code:  errors.ErrCodeInvalidManifest,
		},
		{
			name:  "version with slash",
			input: "version: 1.0/2\n",
			code:  errors.ErrCodeInvalidManifest,
		},
		{
			name:  "empty dependency version",
			input: "version: 1.0.0\ndependencyVersions:\n  glm: \"\"\n",
			code:  errors.ErrCodeInvalidManifest,
		},
		{
			name:      "duplicate libraries",
			input:     "version: 1.0.0\nlibraries: [A, A]\n",
			code:      errors.ErrCodeInvalidManifest,
			wantField: "libraries contains duplicate entries",
		},
		{
			name:  "library with path separator",
			input: "version: 1.0.0\nlibraries: [../A]\n",
			code:  errors.ErrCodeInvalidManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNative(strings.NewReader(tt.input), "test.yml")
			if err == nil {
				t.Fatal("ParseNative() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
			if !strings.Contains(err.Error(), "test.yml") {
				t.Errorf("error %q should name the file", err)
			}
			if tt.wantField != "" && !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("error %q should contain %q", err, tt.wantField)
			}
		})
	}
}

func TestParseLibrary(t *testing.T) {
	input := `
dependencies:
  - CesiumUtility
  - glm
testDependencies:
  - catch2
  - glm
`
	l, err := ParseLibrary(strings.NewReader(input), LibraryFileName)
	if err != nil {
		t.Fatalf("ParseLibrary() error = %v", err)
	}

	if !slices.Equal(l.Dependencies, []string{"CesiumUtility", "glm"}) {
		t.Errorf("Dependencies = %v", l.Dependencies)
	}
	if !slices.Equal(l.TestDependencies, []string{"catch2", "glm"}) {
		t.Errorf("TestDependencies = %v", l.TestDependencies)
	}

	want := []string{"CesiumUtility", "glm", "catch2"}
	if got := l.All(); !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestParseLibraryErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"duplicate dependency", "dependencies: [glm, glm]\n", "dependencies contains duplicate entries"},
		{"empty entry", "dependencies: [\"\"]\n", "dependencies[0] is required"},
		{"wrong type", "dependencies: 42\n", "malformed YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLibrary(strings.NewReader(tt.input), "library.yml")
			if !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Fatalf("code = %v, want %v (err: %v)", errors.GetCode(err), errors.ErrCodeInvalidManifest, err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadNativeMissing(t *testing.T) {
	_, err := LoadNative(t.TempDir())
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	data := []byte("dependencies:\n  - CesiumUtility\ntestDependencies: []\n")
	if err := os.WriteFile(filepath.Join(dir, LibraryFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadLibrary(dir)
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}
	if !slices.Equal(l.Dependencies, []string{"CesiumUtility"}) {
		t.Errorf("Dependencies = %v", l.Dependencies)
	}
	if len(l.TestDependencies) != 0 {
		t.Errorf("TestDependencies = %v, want empty", l.TestDependencies)
	}
}

func TestLoadTooLarge(t *testing.T) {
	dir := t.TempDir()
	data := []byte("version: 1.0.0\n# " + strings.Repeat("x", MaxManifestSize) + "\n")
	if err := os.WriteFile(filepath.Join(dir, NativeFileName), data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadNative(dir)
	if !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidManifest)
	}
}
