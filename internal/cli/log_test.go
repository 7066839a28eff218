package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("hello")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("log line = %q, want HH:MM:SS.ms prefix", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Created 3 packages")

	if !regexp.MustCompile(`Created 3 packages \(\d+(\.\d+)?[mµn]?s\)`).MatchString(buf.String()) {
		t.Errorf("progress output = %q, want message with elapsed time", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext() should return the attached logger")
	}
}

func TestVerboseLogging(t *testing.T) {
	runField := regexp.MustCompile(`run=[0-9a-f]{8}\b`)

	tests := []struct {
		name      string
		args      []string
		wantDebug bool
	}{
		{"default level", []string{"list-dependencies"}, false},
		{"verbose", []string{"-v", "list-dependencies"}, true},
		{"verbose long form", []string{"list-dependencies", "--verbose"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, chainProject(t), nil, tt.args...)
			if res.runErr != nil {
				t.Fatalf("error = %v", res.runErr)
			}
			if got := strings.Contains(res.err, "loaded project"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v\n%s", got, tt.wantDebug, res.err)
			}
			if tt.wantDebug && !runField.MatchString(res.err) {
				t.Errorf("log = %q, want a run=<id> field", res.err)
			}
			if res.out != "C\nB\nA\n" {
				t.Errorf("stdout = %q, want only library names", res.out)
			}
		})
	}
}

func TestRunIDOnWarnings(t *testing.T) {
	root := newProject(t, "version: 1.0.0\nlibraries: [A, B]\n", map[string]string{
		"A": "dependencies: [B]\n",
		"B": "dependencies: [A]\n",
	})

	res := execute(t, root, nil, "list-dependencies")
	if res.runErr != nil {
		t.Fatalf("error = %v", res.runErr)
	}
	line := res.err
	if !strings.Contains(line, "Detected a cycle") || !regexp.MustCompile(`run=[0-9a-f]{8}\b`).MatchString(line) {
		t.Errorf("warning = %q, want cycle message with run id", line)
	}
}

func TestFileHooksLogWrites(t *testing.T) {
	root := chainProject(t)

	first := execute(t, root, nil, "-v", "generate-workspace")
	if first.runErr != nil {
		t.Fatalf("first run error = %v", first.runErr)
	}
	if !strings.Contains(first.err, "wrote file") || !strings.Contains(first.err, "workspace.cmake") {
		t.Errorf("first run log = %q, want wrote file for workspace.cmake", first.err)
	}

	second := execute(t, root, nil, "-v", "generate-workspace")
	if second.runErr != nil {
		t.Fatalf("second run error = %v", second.runErr)
	}
	if !strings.Contains(second.err, "file unchanged") {
		t.Errorf("second run log = %q, want file unchanged", second.err)
	}

	quiet := execute(t, root, nil, "generate-workspace")
	if strings.Contains(quiet.err, "file unchanged") {
		t.Errorf("log without -v = %q, want no debug lines", quiet.err)
	}
}
