// Package config loads the settings of the automate command.
//
// Values come from four layers, highest precedence first: command-line
// flags, CESIUM_AUTOMATE_* environment variables, the optional TOML file
// (automate.toml in the project root, or an explicit path), and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/CesiumGS/cesium-native/pkg/errors"
)

const (
	// FileName is the config file looked up in the project root.
	FileName = "automate.toml"

	// EnvPrefix prefixes environment overrides, e.g. CESIUM_AUTOMATE_CONAN.
	EnvPrefix = "CESIUM_AUTOMATE"
)

// Keys.
const (
	KeyConan          = "conan"
	KeyHostProfile    = "host_profile"
	KeyBuildProfile   = "build_profile"
	KeyInstallConfigs = "install_configs"
	KeyPackageConfig  = "package_config"
)

// Config holds the resolved settings.
type Config struct {
	Conan          string   `mapstructure:"conan"`
	HostProfile    string   `mapstructure:"host_profile"`
	BuildProfile   string   `mapstructure:"build_profile"`
	InstallConfigs []string `mapstructure:"install_configs"`
	PackageConfig  string   `mapstructure:"package_config"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Conan:          "conan",
		HostProfile:    "default",
		BuildProfile:   "default",
		InstallConfigs: []string{"Release", "Debug"},
		PackageConfig:  "Debug",
	}
}

// file mirrors the TOML document. Pointer fields tell unset keys apart
// from empty values.
type file struct {
	Conan          *string   `toml:"conan"`
	HostProfile    *string   `toml:"host_profile"`
	BuildProfile   *string   `toml:"build_profile"`
	InstallConfigs *[]string `toml:"install_configs"`
	PackageConfig  *string   `toml:"package_config"`
}

// Options controls [Load].
type Options struct {
	// Root is the project root searched for FileName.
	Root string

	// Path is an explicit config file. It must exist when set.
	Path string

	// Flags maps config keys to flags that override them when set on the
	// command line.
	Flags map[string]*pflag.Flag
}

// Result is the outcome of [Load].
type Result struct {
	Config Config
	Path   string   // Config file read, empty if none
	Unused []string // Keys in the file that mean nothing here
}

// Load resolves the configuration.
func Load(opts Options) (*Result, error) {
	v := viper.New()
	def := Default()
	v.SetDefault(KeyConan, def.Conan)
	v.SetDefault(KeyHostProfile, def.HostProfile)
	v.SetDefault(KeyBuildProfile, def.BuildProfile)
	v.SetDefault(KeyInstallConfigs, def.InstallConfigs)
	v.SetDefault(KeyPackageConfig, def.PackageConfig)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	res := &Result{}
	path := opts.Path
	if path == "" {
		candidate := filepath.Join(opts.Root, FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}

	if path != "" {
		values, unused, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(values); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: merge", path)
		}
		res.Path = path
		res.Unused = unused
	}

	keys := make([]string, 0, len(opts.Flags))
	for key := range opts.Flags {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if f := opts.Flags[key]; f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	if err := v.Unmarshal(&res.Config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode configuration")
	}
	if err := res.Config.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

func readFile(path string) (map[string]any, []string, error) {
	var f file
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s: malformed TOML", path)
	}

	var unused []string
	for _, key := range md.Undecoded() {
		unused = append(unused, key.String())
	}

	values := map[string]any{}
	if f.Conan != nil {
		values[KeyConan] = *f.Conan
	}
	if f.HostProfile != nil {
		values[KeyHostProfile] = *f.HostProfile
	}
	if f.BuildProfile != nil {
		values[KeyBuildProfile] = *f.BuildProfile
	}
	if f.InstallConfigs != nil {
		values[KeyInstallConfigs] = *f.InstallConfigs
	}
	if f.PackageConfig != nil {
		values[KeyPackageConfig] = *f.PackageConfig
	}
	return values, unused, nil
}

// Validate checks that the settings can be turned into Conan arguments.
func (c *Config) Validate() error {
	if c.Conan == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "%s must not be empty", KeyConan)
	}
	if c.HostProfile == "" || c.BuildProfile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "profiles must not be empty")
	}
	if len(c.InstallConfigs) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "%s must list at least one build configuration", KeyInstallConfigs)
	}
	for _, cfg := range c.InstallConfigs {
		if err := errors.ValidateBuildConfig(cfg); err != nil {
			return err
		}
	}
	return errors.ValidateBuildConfig(c.PackageConfig)
}
