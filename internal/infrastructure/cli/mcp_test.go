package cli

import (
	"path/filepath"
	"testing"
)

func TestMCP_UnsupportedTransport(t *testing.T) {
	old := mcpTransport
	mcpTransport = "carrier-pigeon"
	defer func() { mcpTransport = old }()

	if _, err := runCmd(t, mcpCmd); err == nil {
		t.Fatal("expected unsupported transport error")
	}
}

func TestMCP_BuildsServicesThenSkips(t *testing.T) {
	dir, cleanup := withTempDir(t)
	defer cleanup()
	t.Setenv("TASKDESK_SKIP_MCP_START", "true")

	old := configPath
	configPath = filepath.Join(dir, "taskdesk.yaml")
	defer func() { configPath = old }()

	if _, err := runCmd(t, mcpCmd); err != nil {
		t.Fatalf("mcp: %v", err)
	}
}
