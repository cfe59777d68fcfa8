package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/taskdesk/pkg/storage"
)

func withAuditConfig(t *testing.T) string {
	t.Helper()

	dir, cleanup := withTempDir(t)
	t.Cleanup(cleanup)

	old := configPath
	configPath = filepath.Join(dir, "taskdesk.yaml")
	t.Cleanup(func() { configPath = old })
	writeFile(t, configPath, fmt.Sprintf("audit:\n  enabled: true\n  root: %q\n", dir))
	return dir
}

func TestAuditVerify_Intact(t *testing.T) {
	dir := withAuditConfig(t)

	svc, err := wiring.BuildAuditService(dir)
	if err != nil {
		t.Fatalf("build audit: %v", err)
	}
	_ = svc.Log("describe", "ai", map[string]interface{}{"source": "oracle", "input_tokens": 10, "output_tokens": 5})
	_ = svc.Log("priority", "fallback", map[string]interface{}{"source": "fallback", "reason": "timeout"})

	out, err := runCmd(t, auditVerifyCmd)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !strings.Contains(out, "Audit trail is intact and verified.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAuditVerify_Tampered(t *testing.T) {
	dir := withAuditConfig(t)

	svc, err := wiring.BuildAuditService(dir)
	if err != nil {
		t.Fatalf("build audit: %v", err)
	}
	_ = svc.Log("describe", "ai", nil)

	path := filepath.Join(dir, storage.DataDir, storage.EventsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	tampered := strings.Replace(string(data), `"describe"`, `"analyze"`, 1)
	writeFile(t, path, tampered)

	out, err := runCmd(t, auditVerifyCmd)
	if err == nil {
		t.Fatal("expected error for tampered trail")
	}
	if !strings.Contains(out, "Found 1 integrity violations") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestAuditUsageAndTimeline(t *testing.T) {
	dir := withAuditConfig(t)

	svc, err := wiring.BuildAuditService(dir)
	if err != nil {
		t.Fatalf("build audit: %v", err)
	}
	_ = svc.Log("describe", "ai", map[string]interface{}{"source": "oracle", "input_tokens": 10, "output_tokens": 5})
	_ = svc.Log("priority", "fallback", map[string]interface{}{"source": "fallback", "reason": "timeout"})

	out, err := runCmd(t, auditUsageCmd)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	for _, want := range []string{"Calls:     2 (oracle 1, fallback 1)", "Tokens:    10 in / 5 out", "describe", "priority"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in usage output, got %q", want, out)
		}
	}

	out, err = runCmd(t, auditTimelineCmd)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if !strings.Contains(out, "timeout") || strings.Count(out, "\n") != 2 {
		t.Fatalf("unexpected timeline %q", out)
	}
}

func TestAuditTimeline_Empty(t *testing.T) {
	withAuditConfig(t)

	out, err := runCmd(t, auditTimelineCmd)
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if !strings.Contains(out, "No audit events recorded.") {
		t.Fatalf("unexpected output %q", out)
	}
}
