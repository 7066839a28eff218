package conan

import "context"

// DefaultProfile is the Conan profile used when none is given.
const DefaultProfile = "default"

// Client builds Conan commands and hands them to a Runner. Paths are
// relative to the runner's working directory.
type Client struct {
	Runner       Runner
	HostProfile  string
	BuildProfile string
}

// NewClient returns a client using the default profiles when host or build
// are empty.
func NewClient(r Runner, host, build string) *Client {
	if host == "" {
		host = DefaultProfile
	}
	if build == "" {
		build = DefaultProfile
	}
	return &Client{Runner: r, HostProfile: host, BuildProfile: build}
}

func (c *Client) profiles(config string) []string {
	return []string{
		"-pr:h=" + c.HostProfile,
		"-pr:b=" + c.BuildProfile,
		"-s", "build_type=" + config,
	}
}

// Create builds and packages the recipe in path:
//
//	conan create <path> -pr:h=<host> -pr:b=<build> -s build_type=<config>
func (c *Client) Create(ctx context.Context, path, config string) error {
	args := append([]string{"create", path}, c.profiles(config)...)
	return c.Runner.Run(ctx, args...)
}

// InstallOptions tunes [Client.Install].
type InstallOptions struct {
	BuildMissing bool // Append "--build missing"
}

// Install installs the requirements of conanfile into folder:
//
//	conan install <conanfile> -if <folder> -pr:h=<host> -pr:b=<build> -s build_type=<config> [--build missing]
func (c *Client) Install(ctx context.Context, conanfile, folder, config string, opts InstallOptions) error {
	args := append([]string{"install", conanfile, "-if", folder}, c.profiles(config)...)
	if opts.BuildMissing {
		args = append(args, "--build", "missing")
	}
	return c.Runner.Run(ctx, args...)
}

// Export copies the recipe in path into the local cache as ref.
func (c *Client) Export(ctx context.Context, path, ref string) error {
	return c.Runner.Run(ctx, "export", path, ref)
}

// EditableAdd puts ref into editable mode backed by path.
func (c *Client) EditableAdd(ctx context.Context, path, ref string) error {
	return c.Runner.Run(ctx, "editable", "add", path, ref)
}

// EditableRemove takes ref out of editable mode.
func (c *Client) EditableRemove(ctx context.Context, ref string) error {
	return c.Runner.Run(ctx, "editable", "remove", ref)
}
