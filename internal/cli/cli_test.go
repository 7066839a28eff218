package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/CesiumGS/cesium-native/pkg/conan"
	"github.com/CesiumGS/cesium-native/pkg/errors"
	"github.com/CesiumGS/cesium-native/pkg/fixture"
	"github.com/CesiumGS/cesium-native/pkg/manifest"
)

// recorder is a conan.Runner that records every command.
type recorder struct {
	calls [][]string
	fail  int // index of the call that fails, -1 for none
}

func (r *recorder) Run(_ context.Context, args ...string) error {
	r.calls = append(r.calls, args)
	if len(r.calls)-1 == r.fail {
		return &conan.ExitError{Code: 2, Args: append([]string{"conan"}, args...)}
	}
	return nil
}

func (r *recorder) lines() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newProject writes a project with the given global manifest and one
// library manifest per entry of libs.
func newProject(t *testing.T, native string, libs map[string]string) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifest.NativeFileName), native)
	for name, content := range libs {
		writeFile(t, filepath.Join(root, name, manifest.LibraryFileName), content)
	}
	return root
}

// chainProject is A -> B -> C with one external dependency.
func chainProject(t *testing.T) string {
	return newProject(t, `version: 1.0.0
libraries: [A, B, C]
extraRecipes: [extra]
dependencyVersions:
  glm: 0.9.9.8
`, map[string]string{
		"A": "dependencies: [B, glm]\n",
		"B": "dependencies: [C]\n",
		"C": "{}\n",
	})
}

type result struct {
	out, err string
	rec      *recorder
	runErr   error
}

func execute(t *testing.T, root string, rec *recorder, args ...string) result {
	t.Helper()
	var out, errw bytes.Buffer
	c := New(&out, &errw, LogInfo)
	if rec != nil {
		c.Runner = rec
	}
	cmd := c.RootCommand()
	cmd.SetArgs(NormalizeArgs(append([]string{"--root", root}, args...)))
	err := cmd.ExecuteContext(context.Background())
	return result{out: out.String(), err: errw.String(), rec: rec, runErr: err}
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"separate value", []string{"install-dependencies", "-pr:h", "linux"}, []string{"install-dependencies", "--pr-h", "linux"}},
		{"inline value", []string{"-pr:b=windows"}, []string{"--pr-b=windows"}},
		{"other flags", []string{"--config", "Release", "-v"}, []string{"--config", "Release", "-v"}},
		{"after separator", []string{"-pr:h=a", "--", "-pr:h=b"}, []string{"--pr-h=a", "--", "-pr:h=b"}},
		{"prefix only", []string{"-pr:hx"}, []string{"-pr:hx"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeArgs(tt.in); !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestListDependencies(t *testing.T) {
	res := execute(t, chainProject(t), nil, "list-dependencies")
	if res.runErr != nil {
		t.Fatalf("list-dependencies error = %v", res.runErr)
	}
	if res.out != "C\nB\nA\n" {
		t.Errorf("output = %q, want %q", res.out, "C\nB\nA\n")
	}
}

func TestListDependenciesCycle(t *testing.T) {
	root := newProject(t, "version: 1.0.0\nlibraries: [A, B]\n", map[string]string{
		"A": "dependencies: [B]\n",
		"B": "testDependencies: [A]\n",
	})

	res := execute(t, root, nil, "list-dependencies")
	if res.runErr != nil {
		t.Fatalf("list-dependencies error = %v", res.runErr)
	}
	if res.out != "B\nA\n" {
		t.Errorf("output = %q, want %q", res.out, "B\nA\n")
	}
	if !strings.Contains(res.err, "Detected a cycle in the dependency graph while visiting A!") {
		t.Errorf("log = %q, want cycle warning for A", res.err)
	}
}

func TestListDependenciesMissingManifest(t *testing.T) {
	res := execute(t, t.TempDir(), nil, "list-dependencies")
	if !errors.Is(res.runErr, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", res.runErr)
	}
}

func TestInstallDependencies(t *testing.T) {
	root := chainProject(t)
	rec := &recorder{fail: -1}

	res := execute(t, root, rec, "install-dependencies", "--config", "Release", "-pr:h", "host")
	if res.runErr != nil {
		t.Fatalf("install-dependencies error = %v", res.runErr)
	}

	profiles := " -pr:h=host -pr:b=default -s build_type=Release"
	want := []string{
		"create recipes/extra" + profiles,
		"install build/conanfile-A.txt -if build/A/conan" + profiles + " --build missing",
		"install build/conanfile-B.txt -if build/B/conan" + profiles + " --build missing",
		"install build/conanfile-C.txt -if build/C/conan" + profiles + " --build missing",
		"install build/conan/conanfile.txt -if build/conan" + profiles,
	}
	if got := rec.lines(); !slices.Equal(got, want) {
		t.Errorf("commands =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}

	data, err := os.ReadFile(filepath.Join(root, "build", "conanfile-A.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "[requires]\nglm/0.9.9.8\n\n[generators]\nCMakeDeps\n" {
		t.Errorf("conanfile-A.txt = %q", got)
	}
}

func TestInstallDependenciesDefaultConfigs(t *testing.T) {
	rec := &recorder{fail: -1}
	res := execute(t, chainProject(t), rec, "install-dependencies")
	if res.runErr != nil {
		t.Fatalf("install-dependencies error = %v", res.runErr)
	}
	// extra recipe, three libraries and the toolchain, each for Release and Debug
	if len(rec.calls) != 10 {
		t.Fatalf("got %d commands, want 10", len(rec.calls))
	}
	if got := rec.lines()[1]; !strings.HasSuffix(got, "build_type=Debug") {
		t.Errorf("second command = %q, want Debug build", got)
	}
}

func TestToolFailureStopsRun(t *testing.T) {
	rec := &recorder{fail: 1}
	res := execute(t, chainProject(t), rec, "create-packages")

	var exitErr *conan.ExitError
	if !stderrors.As(res.runErr, &exitErr) {
		t.Fatalf("error = %v, want *conan.ExitError", res.runErr)
	}
	if exitErr.Code != 2 {
		t.Errorf("Code = %d, want 2", exitErr.Code)
	}
	if len(rec.calls) != 2 {
		t.Errorf("got %d commands, want 2", len(rec.calls))
	}
}

func TestCreatePackages(t *testing.T) {
	tests := []struct {
		name   string
		config string // automate.toml content, if any
		args   []string
		want   string
	}{
		{"default", "", nil, "build_type=Debug"},
		{"flag", "", []string{"--config", "Release"}, "build_type=Release"},
		{"config file", "package_config = \"RelWithDebInfo\"\n", nil, "build_type=RelWithDebInfo"},
		{"flag over file", "package_config = \"RelWithDebInfo\"\n", []string{"--config", "Release"}, "build_type=Release"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := chainProject(t)
			if tt.config != "" {
				writeFile(t, filepath.Join(root, "automate.toml"), tt.config)
			}
			rec := &recorder{fail: -1}
			res := execute(t, root, rec, append([]string{"create-packages"}, tt.args...)...)
			if res.runErr != nil {
				t.Fatalf("create-packages error = %v", res.runErr)
			}

			var names []string
			for _, c := range rec.calls {
				names = append(names, c[1])
				if last := c[len(c)-1]; last != tt.want {
					t.Errorf("command %v ends with %q, want %q", c, last, tt.want)
				}
			}
			if !slices.Equal(names, []string{"C", "B", "A"}) {
				t.Errorf("package order = %v, want [C B A]", names)
			}
		})
	}
}

func TestDryRun(t *testing.T) {
	res := execute(t, chainProject(t), nil, "--dry-run", "--conan", "conan1", "create-packages")
	if res.runErr != nil {
		t.Fatalf("create-packages error = %v", res.runErr)
	}
	if !strings.Contains(res.out, "conan1 create C ") {
		t.Errorf("output = %q, want create command for C", res.out)
	}
	if strings.Index(res.out, "create C") > strings.Index(res.out, "create A") {
		t.Errorf("output = %q, want C before A", res.out)
	}
}

func TestEditable(t *testing.T) {
	root := newProject(t, "version: 2.1.0\nuser: cesium\nchannel: stable\nlibraries: [A, B]\n", map[string]string{
		"A": "dependencies: [B]\n",
		"B": "{}\n",
	})

	tests := []struct {
		mode string
		want []string
	}{
		{"on", []string{"editable add B B/2.1.0@cesium/stable", "editable add A A/2.1.0@cesium/stable"}},
		{"off", []string{"editable remove B/2.1.0@cesium/stable", "editable remove A/2.1.0@cesium/stable"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			rec := &recorder{fail: -1}
			res := execute(t, root, rec, "editable", tt.mode)
			if res.runErr != nil {
				t.Fatalf("editable %s error = %v", tt.mode, res.runErr)
			}
			if got := rec.lines(); !slices.Equal(got, tt.want) {
				t.Errorf("commands = %v, want %v", got, tt.want)
			}
		})
	}

	res := execute(t, root, &recorder{fail: -1}, "editable", "maybe")
	if res.runErr == nil {
		t.Error("editable maybe: expected error")
	}
}

func TestExportRecipes(t *testing.T) {
	root := chainProject(t)
	rec := &recorder{fail: -1}
	res := execute(t, root, rec, "export-recipes")
	if res.runErr != nil {
		t.Fatalf("export-recipes error = %v", res.runErr)
	}

	want := []string{"export C C/1.0.0", "export B B/1.0.0", "export A A/1.0.0"}
	if got := rec.lines(); !slices.Equal(got, want) {
		t.Errorf("commands = %v, want %v", got, want)
	}
	for _, lib := range []string{"A", "B", "C"} {
		if _, err := os.Stat(filepath.Join(root, lib, "conanfile.py")); err != nil {
			t.Errorf("recipe for %s not written: %v", lib, err)
		}
	}
}

func TestGenerateWorkspace(t *testing.T) {
	root := chainProject(t)
	res := execute(t, root, nil, "generate-workspace")
	if res.runErr != nil {
		t.Fatalf("generate-workspace error = %v", res.runErr)
	}

	data, err := os.ReadFile(filepath.Join(root, "build", "workspace.cmake"))
	if err != nil {
		t.Fatal(err)
	}
	want := "add_subdirectory(A)\nadd_subdirectory(B)\nadd_subdirectory(C)\n"
	if string(data) != want {
		t.Errorf("workspace.cmake = %q, want %q", data, want)
	}
}

func TestCreateRecipesWarnsOnMissingVersion(t *testing.T) {
	root := newProject(t, "version: 1.0.0\nlibraries: [A]\n", map[string]string{
		"A": "dependencies: [uriparser]\n",
	})

	res := execute(t, root, nil, "create-recipes")
	if res.runErr != nil {
		t.Fatalf("create-recipes error = %v", res.runErr)
	}
	if !strings.Contains(res.err, "uriparser") {
		t.Errorf("log = %q, want warning naming uriparser", res.err)
	}

	data, err := os.ReadFile(filepath.Join(root, "A", "conanfile.py"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "uriparser/specify.version.in.cesium-native.yml") {
		t.Errorf("recipe missing placeholder reference:\n%s", data)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		native   string
		libs     map[string]string
		wantErr  bool
		contains string
	}{
		{
			name:   "clean",
			native: "version: 1.0.0\nlibraries: [A, B]\ndependencyVersions:\n  glm: 0.9.9.8\n",
			libs:   map[string]string{"A": "dependencies: [B, glm]\n", "B": "{}\n"},
		},
		{
			name:     "cycle",
			native:   "version: 1.0.0\nlibraries: [A, B]\n",
			libs:     map[string]string{"A": "dependencies: [B]\n", "B": "dependencies: [A]\n"},
			wantErr:  true,
			contains: "cycle: B depends on A",
		},
		{
			name:     "unresolved",
			native:   "version: 1.0.0\nlibraries: [A]\n",
			libs:     map[string]string{"A": "testDependencies: [catch2]\n"},
			wantErr:  true,
			contains: "catch2",
		},
		{
			name:     "unregistered directory",
			native:   "version: 1.0.0\nlibraries: [A]\n",
			libs:     map[string]string{"A": "{}\n", "Z": "{}\n"},
			contains: "Z has a library.yml but is not registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, newProject(t, tt.native, tt.libs), nil, "check")
			if (res.runErr != nil) != tt.wantErr {
				t.Fatalf("check error = %v, wantErr %v", res.runErr, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(res.runErr, errors.ErrCodeInvalidManifest) {
				t.Errorf("error code = %s, want INVALID_MANIFEST", errors.GetCode(res.runErr))
			}
			if !strings.Contains(res.out, tt.contains) {
				t.Errorf("output = %q, want it to contain %q", res.out, tt.contains)
			}
		})
	}
}

func TestGraph(t *testing.T) {
	root := chainProject(t)

	res := execute(t, root, nil, "graph", "-f", "json")
	if res.runErr != nil {
		t.Fatalf("graph error = %v", res.runErr)
	}
	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}
	if err := json.Unmarshal([]byte(res.out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, res.out)
	}
	if len(doc.Nodes) != 3 || len(doc.Edges) != 2 {
		t.Errorf("got %d nodes and %d edges, want 3 and 2", len(doc.Nodes), len(doc.Edges))
	}

	out := filepath.Join(t.TempDir(), "deps.dot")
	res = execute(t, root, nil, "graph", "-o", out)
	if res.runErr != nil {
		t.Fatalf("graph -o error = %v", res.runErr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("dot output = %q, want digraph", data)
	}

	jsonOut := filepath.Join(t.TempDir(), "deps.json")
	res = execute(t, root, nil, "graph", "-f", "json", "-o", jsonOut)
	if res.runErr != nil {
		t.Fatalf("graph -f json -o error = %v", res.runErr)
	}
	if res.out != "" {
		t.Errorf("stdout = %q, want nothing when writing to a file", res.out)
	}
	data, err = os.ReadFile(jsonOut)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &doc); err != nil || len(doc.Nodes) != 3 {
		t.Errorf("json file = %s (err %v), want 3 nodes", data, err)
	}

	res = execute(t, root, nil, "graph", "-f", "png")
	if !errors.Is(res.runErr, errors.ErrCodeInvalidFormat) {
		t.Errorf("graph -f png error = %v, want INVALID_FORMAT", res.runErr)
	}
}

func TestGenerateTestData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	res := execute(t, t.TempDir(), nil, "generate-test-data", "-o", dir)
	if res.runErr != nil {
		t.Fatalf("generate-test-data error = %v", res.runErr)
	}
	for _, name := range []string{fixture.CubeFanFile, fixture.CubeFanIndexedFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestCompletion(t *testing.T) {
	res := execute(t, t.TempDir(), nil, "completion", "bash")
	if res.runErr != nil {
		t.Fatalf("completion error = %v", res.runErr)
	}
	if !strings.Contains(res.out, appName) {
		t.Error("bash completion should mention the command name")
	}
}
