package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/cobra"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("read stdout: %v", err)
	}
	return buf.String()
}

func withTempDir(t *testing.T) (string, func()) {
	t.Helper()

	dir, err := os.MkdirTemp("", "taskdesk-cli-test-*")
	if err != nil {
		t.Fatalf("temp dir: %v", err)
	}
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	return dir, func() {
		_ = os.Chdir(old)
		_ = os.RemoveAll(dir)
	}
}

// withServer points the CLI at handler for the duration of the test.
func withServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()

	srv := httptest.NewServer(handler)
	old := serverURL
	serverURL = srv.URL
	t.Cleanup(func() {
		serverURL = old
		srv.Close()
	})
}

// withDeadServer points the CLI at a closed server so every call falls back.
func withDeadServer(t *testing.T) {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	old := serverURL
	serverURL = srv.URL
	t.Cleanup(func() { serverURL = old })
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func runCmd(t *testing.T, cmd *cobra.Command) (string, error) {
	t.Helper()

	cmd.SetContext(context.Background())
	var err error
	out := captureStdout(t, func() {
		err = cmd.RunE(cmd, nil)
	})
	return out, err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
