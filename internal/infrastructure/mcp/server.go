package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/taskdesk/pkg/application"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
	"github.com/felixgeelhaar/taskdesk/pkg/sdk"
)

type Server struct {
	mcpServer *mcp.Server
	assistSvc *application.AssistService
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
// Internal details are omitted; only the friendly message is returned.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

func NewServer(assistSvc *application.AssistService) *Server {
	info := mcp.ServerInfo{
		Name:    "taskdesk",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Taskdesk MCP Server"),
			mcp.WithDescription("Taskdesk drafts task descriptions, suggests priorities, proposes tasks and analyzes task sets."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/taskdesk"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Every tool always answers: when the language model is unavailable a deterministic fallback is returned."),
		),
		assistSvc: assistSvc,
	}

	s.registerTools()
	s.registerResources()
	return s
}

type GenerateDescriptionArgs struct {
	Title   string `json:"title" jsonschema:"description=The task title"`
	Context string `json:"context,omitempty" jsonschema:"description=Optional project or domain context"`
}

type SuggestPriorityArgs struct {
	Title       string `json:"title" jsonschema:"description=The task title"`
	Description string `json:"description" jsonschema:"description=The task description"`
}

type TaskSuggestionsArgs struct {
	ProjectContext string `json:"project_context,omitempty" jsonschema:"description=Optional description of the project"`
	EmployeeRole   string `json:"employee_role,omitempty" jsonschema:"description=Optional role of the person the tasks are for"`
}

type AnalyzePerformanceArgs struct {
	Tasks []assist.TaskSummary `json:"tasks" jsonschema:"description=Tasks to analyze, each with title, priority and optional status"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool(sdk.ToolGenerateDescription).
		Description("Draft a clear, actionable description for a task title").
		Handler(s.handleGenerateDescription)

	s.mcpServer.Tool(sdk.ToolSuggestPriority).
		Description("Suggest one of: Most Important, Important, Least Important").
		Handler(s.handleSuggestPriority)

	s.mcpServer.Tool(sdk.ToolTaskSuggestions).
		Description("Propose up to five new tasks for a project and role").
		Handler(s.handleTaskSuggestions)

	s.mcpServer.Tool(sdk.ToolAnalyzePerformance).
		Description("Analyze priority distribution, bottlenecks and productivity of a task set").
		Handler(s.handleAnalyzePerformance)
}

func (s *Server) handleGenerateDescription(ctx context.Context, args GenerateDescriptionArgs) (any, error) {
	if args.Title == "" {
		return nil, mcpErr("Title is required")
	}
	description, err := s.assistSvc.GenerateDescription(ctx, args.Title, args.Context)
	if err != nil {
		return nil, mcpErr("Failed to generate task description")
	}
	return assist.DescriptionResponse{Description: description}, nil
}

func (s *Server) handleSuggestPriority(ctx context.Context, args SuggestPriorityArgs) (any, error) {
	if args.Title == "" || args.Description == "" {
		return nil, mcpErr("Title and description are required")
	}
	priority, err := s.assistSvc.SuggestPriority(ctx, args.Title, args.Description)
	if err != nil {
		return nil, mcpErr("Failed to suggest priority")
	}
	return assist.PriorityResponse{Priority: priority}, nil
}

func (s *Server) handleTaskSuggestions(ctx context.Context, args TaskSuggestionsArgs) (any, error) {
	suggestions, err := s.assistSvc.GenerateTaskSuggestions(ctx, args.ProjectContext, args.EmployeeRole)
	if err != nil {
		return nil, mcpErr("Failed to generate task suggestions")
	}
	return assist.SuggestionsResponse{Suggestions: suggestions}, nil
}

func (s *Server) handleAnalyzePerformance(ctx context.Context, args AnalyzePerformanceArgs) (any, error) {
	if args.Tasks == nil {
		return nil, mcpErr("Tasks array is required")
	}
	analysis, err := s.assistSvc.AnalyzeTaskPerformance(ctx, args.Tasks)
	if err != nil {
		return nil, mcpErr("Failed to analyze task performance")
	}
	return assist.AnalysisResponse{Analysis: analysis}, nil
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
