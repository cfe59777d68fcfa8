package e2e

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/config"
	"github.com/felixgeelhaar/taskdesk/internal/infrastructure/wiring"
	infraai "github.com/felixgeelhaar/taskdesk/pkg/ai"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
	"github.com/felixgeelhaar/taskdesk/pkg/sdk"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGemini answers each generateContent call with the next scripted text.
type fakeGemini struct {
	mu      sync.Mutex
	answers []string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	text := f.answers[0]
	f.answers = f.answers[1:]

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":`+quote(text)+`}]}}],"usageMetadata":{"promptTokenCount":12,"candidatesTokenCount":4}}`)
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func startStack(t *testing.T, apiKey string, gemini http.Handler) (*httptest.Server, *wiring.AppServices) {
	t.Helper()

	cfg := config.Default()
	cfg.AI.APIKey = apiKey
	cfg.AI.TimeoutSec = 2
	cfg.Auth.Tokens = []string{"e2e-token"}
	cfg.Audit.Enabled = true
	cfg.Audit.Root = t.TempDir()

	var opts []infraai.ProviderOption
	if gemini != nil {
		oracle := httptest.NewServer(gemini)
		t.Cleanup(oracle.Close)
		opts = append(opts, infraai.WithBaseURL(oracle.URL))
	}

	services, err := wiring.BuildAppServices(cfg, quietLogger(), opts...)
	if err != nil {
		t.Fatalf("BuildAppServices failed: %v", err)
	}
	api := httptest.NewServer(wiring.BuildAPIServer(cfg, services, quietLogger()).Handler())
	t.Cleanup(api.Close)
	return api, services
}

// TestAssistantHappyPath drives the SDK through the HTTP API to a scripted oracle.
func TestAssistantHappyPath(t *testing.T) {
	gemini := &fakeGemini{answers: []string{
		"Build the OAuth login flow and cover it with tests.",
		"Important",
		"```json\n[{\"title\":\"Add SSO\",\"description\":\"Support SAML\",\"priority\":\"Most Important\"}]\n```",
		`{"priorityAnalysis":"Balanced","bottlenecks":"None","recommendations":"Ship","productivityInsights":"Good pace"}`,
	}}
	api, services := startStack(t, "e2e-key", gemini)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client := sdk.NewClient(api.URL, "e2e-token", sdk.WithLogger(quietLogger()))

	oracle, err := client.Health(ctx)
	if err != nil || !oracle {
		t.Fatalf("expected healthy server with oracle, got %v, %v", oracle, err)
	}

	if got := client.GenerateTaskDescription(ctx, "Login", "Portal"); got != "Build the OAuth login flow and cover it with tests." {
		t.Errorf("unexpected description %q", got)
	}
	if got := client.SuggestPriority(ctx, "Login", "OAuth flow"); got != assist.PriorityImportant {
		t.Errorf("unexpected priority %q", got)
	}
	suggestions := client.GetTaskSuggestions(ctx, "Portal", "Engineer")
	if len(suggestions) != 1 || suggestions[0].Priority != assist.PriorityMostImportant {
		t.Errorf("unexpected suggestions %+v", suggestions)
	}
	analysis := client.AnalyzeTaskPerformance(ctx, []assist.TaskSummary{{Title: "Login", Priority: assist.PriorityImportant}})
	if analysis.PriorityAnalysis != "Balanced" {
		t.Errorf("unexpected analysis %+v", analysis)
	}

	stats := client.TaskStats(ctx, []assist.TaskSummary{{Title: "a"}, {Title: "b", Status: assist.TaskStatusCompleted}})
	if stats.Total != 2 || stats.CompletedPercent != 50 {
		t.Errorf("unexpected task stats %+v", stats)
	}

	usage, err := services.Audit.Summarize()
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if usage.OracleCalls != 4 || usage.FallbackCalls != 0 || usage.InputTokens != 48 {
		t.Errorf("unexpected usage %+v", usage)
	}
	violations, err := services.Audit.VerifyIntegrity()
	if err != nil || len(violations) != 0 {
		t.Errorf("expected intact audit trail, got %v, %v", violations, err)
	}
}

// TestAssistantDegradedMode runs the stack without a credential.
func TestAssistantDegradedMode(t *testing.T) {
	api, services := startStack(t, "", nil)

	ctx := context.Background()
	client := sdk.NewClient(api.URL, "e2e-token", sdk.WithLogger(quietLogger()))

	if got := client.SuggestPriority(ctx, "urgent fix", "asap please"); got != assist.PriorityMostImportant {
		t.Errorf("expected classifier result, got %q", got)
	}
	if got := client.GenerateTaskDescription(ctx, "Login", ""); got != assist.DescribeFallback("Login", "") {
		t.Errorf("expected templated description, got %q", got)
	}
	if got := client.GetTaskSuggestions(ctx, "", ""); len(got) != 5 {
		t.Errorf("expected five reference suggestions, got %d", len(got))
	}

	usage, err := services.Audit.Summarize()
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if usage.FallbackCalls != 3 || usage.OracleCalls != 0 {
		t.Errorf("unexpected usage %+v", usage)
	}
}

// TestAssistantOracleFailure falls back on every operation when the oracle errors.
func TestAssistantOracleFailure(t *testing.T) {
	api, _ := startStack(t, "e2e-key", &fakeGemini{})

	ctx := context.Background()
	client := sdk.NewClient(api.URL, "e2e-token", sdk.WithLogger(quietLogger()))

	if got := client.SuggestPriority(ctx, "urgent fix", "asap please"); got != assist.PriorityImportant {
		t.Errorf("in-flight oracle error should yield Important, got %q", got)
	}
	tasks := []assist.TaskSummary{{Title: "a", Priority: assist.PriorityMostImportant}}
	if got := client.AnalyzeTaskPerformance(ctx, tasks); got != assist.AnalysisFallback(tasks) {
		t.Errorf("unexpected analysis %+v", got)
	}
}

// TestAssistantRejectsBadToken shows the SDK absorbing a 401 into local fallbacks.
func TestAssistantRejectsBadToken(t *testing.T) {
	api, services := startStack(t, "", nil)

	client := sdk.NewClient(api.URL, "wrong", sdk.WithLogger(quietLogger()))
	if got := client.SuggestPriority(context.Background(), "review doc", "weekly meeting"); got != assist.PriorityImportant {
		t.Errorf("expected local classifier result, got %q", got)
	}

	usage, err := services.Audit.Summarize()
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if usage.TotalCalls != 0 {
		t.Errorf("rejected requests must not reach the assistant, got %+v", usage)
	}
}
