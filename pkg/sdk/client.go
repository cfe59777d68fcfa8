package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

// Client is a typed Go client for the taskdesk HTTP API.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	retryCfg retry.Config
	timeout  time.Duration
	logger   *slog.Logger
}

// NewClient creates a client for the API at baseURL. The bearer token is
// captured once here and sent with every request.
func NewClient(baseURL, token string, opts ...Option) *Client {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.maxAttempts < 1 {
		o.maxAttempts = 1
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    o.httpClient,
		timeout: o.timeout,
		logger:  o.logger,
		retryCfg: retry.Config{
			MaxAttempts:   o.maxAttempts,
			InitialDelay:  o.initialDelay,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// GenerateTaskDescription drafts a description for title.
func (c *Client) GenerateTaskDescription(ctx context.Context, title, taskContext string) string {
	var resp assist.DescriptionResponse
	err := c.post(ctx, "/api/ai/generate-description", assist.DescriptionRequest{Title: title, Context: taskContext}, &resp)
	if err == nil && resp.Description == "" {
		err = fmt.Errorf("empty description")
	}
	if err != nil {
		c.absorb("generate-description", err)
		return assist.DescribeFallback(title, taskContext)
	}
	return resp.Description
}

// SuggestPriority suggests one of the three priority labels.
func (c *Client) SuggestPriority(ctx context.Context, title, description string) assist.PriorityLabel {
	var resp assist.PriorityResponse
	err := c.post(ctx, "/api/ai/suggest-priority", assist.PriorityRequest{Title: title, Description: description}, &resp)
	if err == nil && !resp.Priority.IsValid() {
		err = fmt.Errorf("unknown priority %q", resp.Priority)
	}
	if err != nil {
		c.absorb("suggest-priority", err)
		return assist.Classify(title, description)
	}
	return resp.Priority
}

// GetTaskSuggestions proposes new tasks. Both arguments are optional.
func (c *Client) GetTaskSuggestions(ctx context.Context, projectContext, employeeRole string) []assist.TaskSuggestion {
	var resp assist.SuggestionsResponse
	err := c.post(ctx, "/api/ai/task-suggestions", assist.SuggestionsRequest{ProjectContext: projectContext, EmployeeRole: employeeRole}, &resp)
	if err != nil {
		c.absorb("task-suggestions", err)
		return assist.SuggestionsFallback()
	}
	return resp.Suggestions
}

// AnalyzeTaskPerformance summarizes a task set.
func (c *Client) AnalyzeTaskPerformance(ctx context.Context, tasks []assist.TaskSummary) assist.Analysis {
	if tasks == nil {
		tasks = []assist.TaskSummary{}
	}
	var resp assist.AnalysisResponse
	err := c.post(ctx, "/api/ai/analyze-performance", assist.PerformanceRequest{Tasks: tasks}, &resp)
	if err != nil {
		c.absorb("analyze-performance", err)
		return assist.AnalysisFallback(tasks)
	}
	return resp.Analysis
}

// TaskStats returns the task dashboard tiles.
func (c *Client) TaskStats(ctx context.Context, tasks []assist.TaskSummary) assist.TaskStats {
	if tasks == nil {
		tasks = []assist.TaskSummary{}
	}
	var resp assist.TaskStatsResponse
	if err := c.post(ctx, "/api/dashboard/task-stats", assist.TaskStatsRequest{Tasks: tasks}, &resp); err != nil {
		c.absorb("task-stats", err)
		return assist.ComputeTaskStats(tasks)
	}
	return resp.Stats
}

// ProjectStats returns the project dashboard tiles.
func (c *Client) ProjectStats(ctx context.Context, projects []assist.ProjectSummary) assist.ProjectStats {
	if projects == nil {
		projects = []assist.ProjectSummary{}
	}
	var resp assist.ProjectStatsResponse
	if err := c.post(ctx, "/api/dashboard/project-stats", assist.ProjectStatsRequest{Projects: projects}, &resp); err != nil {
		c.absorb("project-stats", err)
		return assist.ComputeProjectStats(projects)
	}
	return resp.Stats
}

// Health reports whether the server is up and whether its oracle is configured.
func (c *Client) Health(ctx context.Context) (oracle bool, err error) {
	var resp struct {
		Status string `json:"status"`
		Oracle bool   `json:"oracle"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return false, err
	}
	return resp.Oracle, nil
}

func (c *Client) absorb(op string, err error) {
	c.logger.Warn("assistant request failed, using local fallback", "operation", op, "reason", err.Error())
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// do performs one call with retry. out is decoded only on success.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	r := retry.New[[]byte](c.retryCfg)
	data, err := r.Do(ctx, func(ctx context.Context) ([]byte, error) {
		return c.roundTrip(ctx, method, path, payload)
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "taskdesk-sdk/"+Version)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e assist.ErrorResponse
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Message
		}
		return nil, apiErr
	}
	return data, nil
}
