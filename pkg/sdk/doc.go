// Package sdk provides typed Go clients for the taskdesk assistant.
//
// Client talks to the HTTP API and never surfaces failures: when the server
// cannot be reached, answers with a non-2xx status, or returns a body that
// does not decode, each method answers with the same deterministic fallback
// the server itself would use.
//
//	c := sdk.NewClient("http://localhost:8080", os.Getenv("TASKDESK_TOKEN"))
//	priority := c.SuggestPriority(ctx, "Fix login", "Users locked out asap")
//
// MCPClient wraps mcp-go/client.CallTool with one method per taskdesk MCP
// tool and returns errors like any other RPC client.
package sdk
