package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/mcp-go/client"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

// Tool names exposed by the taskdesk MCP server.
const (
	ToolGenerateDescription = "taskdesk_generate_description"
	ToolSuggestPriority     = "taskdesk_suggest_priority"
	ToolTaskSuggestions     = "taskdesk_task_suggestions"
	ToolAnalyzePerformance  = "taskdesk_analyze_performance"
)

// MCPClient is a typed Go client for the taskdesk MCP server.
type MCPClient struct {
	mcp      *client.Client
	retryCfg retry.Config
	timeout  time.Duration
}

// NewMCPClient creates a new SDK client wrapping the given MCP transport.
func NewMCPClient(transport client.Transport, opts ...Option) *MCPClient {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &MCPClient{
		mcp:     client.New(transport, client.WithTimeout(o.timeout)),
		timeout: o.timeout,
		retryCfg: retry.Config{
			MaxAttempts:   o.maxAttempts,
			InitialDelay:  o.initialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Initialize performs the MCP initialize handshake.
func (c *MCPClient) Initialize(ctx context.Context) (*client.ServerInfo, error) {
	return c.mcp.Initialize(ctx)
}

// Close closes the underlying transport.
func (c *MCPClient) Close() error {
	return c.mcp.Close()
}

// call invokes a tool with retry.
func (c *MCPClient) call(ctx context.Context, tool string, args map[string]any) (*client.ToolResult, error) {
	r := retry.New[*client.ToolResult](c.retryCfg)
	result, err := r.Do(ctx, func(ctx context.Context) (*client.ToolResult, error) {
		return c.mcp.CallTool(ctx, tool, args)
	})
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", tool, err)
	}
	if result.IsError {
		msg := ""
		if len(result.Content) > 0 {
			msg = result.Content[0].Text
		}
		return nil, &ToolError{Tool: tool, Message: msg}
	}
	return result, nil
}

// unmarshalText extracts Content[0].Text from a tool result and unmarshals it as JSON.
func unmarshalText[T any](result *client.ToolResult) (*T, error) {
	text, err := textResult(result)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &v, nil
}

// textResult extracts Content[0].Text from a tool result.
func textResult(result *client.ToolResult) (string, error) {
	if len(result.Content) == 0 {
		return "", ErrNoContent
	}
	return result.Content[0].Text, nil
}

// GenerateDescription drafts a task description.
func (c *MCPClient) GenerateDescription(ctx context.Context, title, taskContext string) (string, error) {
	args := map[string]any{"title": title}
	if taskContext != "" {
		args["context"] = taskContext
	}
	res, err := c.call(ctx, ToolGenerateDescription, args)
	if err != nil {
		return "", err
	}
	out, err := unmarshalText[assist.DescriptionResponse](res)
	if err != nil {
		return "", err
	}
	return out.Description, nil
}

// SuggestPriority suggests a priority label.
func (c *MCPClient) SuggestPriority(ctx context.Context, title, description string) (assist.PriorityLabel, error) {
	res, err := c.call(ctx, ToolSuggestPriority, map[string]any{"title": title, "description": description})
	if err != nil {
		return "", err
	}
	out, err := unmarshalText[assist.PriorityResponse](res)
	if err != nil {
		return "", err
	}
	if !out.Priority.IsValid() {
		return "", fmt.Errorf("unknown priority %q", out.Priority)
	}
	return out.Priority, nil
}

// TaskSuggestions proposes new tasks.
func (c *MCPClient) TaskSuggestions(ctx context.Context, projectContext, employeeRole string) ([]assist.TaskSuggestion, error) {
	args := map[string]any{}
	if projectContext != "" {
		args["project_context"] = projectContext
	}
	if employeeRole != "" {
		args["employee_role"] = employeeRole
	}
	res, err := c.call(ctx, ToolTaskSuggestions, args)
	if err != nil {
		return nil, err
	}
	out, err := unmarshalText[assist.SuggestionsResponse](res)
	if err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// AnalyzePerformance summarizes a task set.
func (c *MCPClient) AnalyzePerformance(ctx context.Context, tasks []assist.TaskSummary) (assist.Analysis, error) {
	if tasks == nil {
		tasks = []assist.TaskSummary{}
	}
	res, err := c.call(ctx, ToolAnalyzePerformance, map[string]any{"tasks": tasks})
	if err != nil {
		return assist.Analysis{}, err
	}
	out, err := unmarshalText[assist.AnalysisResponse](res)
	if err != nil {
		return assist.Analysis{}, err
	}
	return out.Analysis, nil
}
