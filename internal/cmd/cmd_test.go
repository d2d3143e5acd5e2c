package cmd

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/spf13/cobra"

	"github.com/adamancini/tlaplus-cli/internal/invoke"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
)

// testStatus is a canned invoke.ExitStatus.
type testStatus struct {
	code   int
	signal int
}

func (s testStatus) Success() bool { return s.signal == 0 && s.code == 0 }

func (s testStatus) ExitCode() (int, bool) {
	if s.signal != 0 {
		return -1, false
	}
	return s.code, true
}

func (s testStatus) TerminatingSignal() (int, bool) { return s.signal, s.signal != 0 }

// recordingRunner records command lines instead of running them.
type recordingRunner struct {
	calls  [][]string
	status invoke.ExitStatus
}

func (r *recordingRunner) Run(_ context.Context, argv []string) (invoke.ExitStatus, error) {
	r.calls = append(r.calls, argv)
	if r.status == nil {
		return testStatus{}, nil
	}
	return r.status, nil
}

// useRunner swaps the process runner for the duration of the test.
func useRunner(t *testing.T, r invoke.Runner) {
	t.Helper()
	orig := getRunner
	getRunner = func(*cobra.Command) invoke.Runner { return r }
	t.Cleanup(func() { getRunner = orig })
}

// testEnv isolates HOME, config lookup and the install root.
type testEnv struct {
	home string
	root string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("TLAPLUS_CONFIG", "")
	t.Setenv("TLAPLUS_HOME", "")
	t.Setenv("GITHUB_TOKEN", "")
	return &testEnv{home: home, root: filepath.Join(home, "tools")}
}

// install records version in the manifest without downloading anything.
func (e *testEnv) install(t *testing.T, version string) string {
	t.Helper()
	store := manifest.NewStore(e.root)
	m, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := store.RecordNewVersion(m, version); err != nil {
		t.Fatalf("RecordNewVersion() error = %v", err)
	}
	path := manifest.Path(e.root, version)
	if err := os.WriteFile(path, makeJar(t), 0o644); err != nil {
		t.Fatalf("Failed to write archive: %v", err)
	}
	return path
}

// writeConfig writes a YAML config file and returns its path.
func (e *testEnv) writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(e.home, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

// run executes the command tree with args against the test env.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(append([]string{"--home", e.root}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func makeJar(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("META-INF/MANIFEST.MF")
	if err != nil {
		t.Fatalf("Failed to create jar entry: %v", err)
	}
	_, _ = w.Write([]byte("Manifest-Version: 1.0\n"))
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close jar: %v", err)
	}
	return buf.Bytes()
}

// newReleaseServer serves a GitHub-style latest release for tag.
func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	jar := makeJar(t)
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/tlaplus/tlaplus/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"tag_name": %q, "html_url": "https://example.test/%s", "assets": [{"name": "tla2tools.jar", "size": %d, "browser_download_url": "%s/tla2tools.jar"}]}`,
			tag, tag, len(jar), server.URL)
	})
	mux.HandleFunc("/tla2tools.jar", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(jar)))
		_, _ = w.Write(jar)
	})
	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
