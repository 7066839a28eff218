package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateLibraryName validates a library name for safety and correctness.
// Library names double as directory names under the project root, so they
// must not be usable for path traversal.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateLibraryName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidLibrary, "library name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidLibrary, "library name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLibrary, "library name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidLibrary, "library name %q contains invalid characters: %q", name, pattern)
		}
	}

	if !libraryNameRegex.MatchString(name) {
		return New(ErrCodeInvalidLibrary, "invalid library name: %q", name)
	}

	return nil
}

// libraryNameRegex matches names usable both as directories and as Conan
// package names.
var libraryNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.+-]*$`)

// conanReferenceRegex matches the name/version part of a Conan reference.
var conanReferenceRegex = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.+-]*$`)

// ValidateVersion validates a version string used in a Conan reference.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidManifest, "version cannot be empty")
	}
	if !conanReferenceRegex.MatchString(version) {
		return New(ErrCodeInvalidManifest, "invalid version: %q", version)
	}
	return nil
}

// ValidateBuildConfig validates a CMake build configuration name such as
// "Debug" or "RelWithDebInfo".
func ValidateBuildConfig(config string) error {
	if config == "" {
		return New(ErrCodeInvalidInput, "build configuration cannot be empty")
	}
	for _, r := range config {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidInput, "invalid build configuration: %q", config)
		}
	}
	return nil
}
