package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felixgeelhaar/taskdesk/pkg/application"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

const testToken = "secret-token"

// mockAssistant implements Assistant for testing.
type mockAssistant struct {
	available bool
	err       error
	panicMsg  string
	tasks     []assist.TaskSummary
}

func (m *mockAssistant) Available() bool { return m.available }

func (m *mockAssistant) GenerateDescription(ctx context.Context, title, taskContext string) (string, error) {
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return "desc for " + title, m.err
}

func (m *mockAssistant) SuggestPriority(ctx context.Context, title, description string) (assist.PriorityLabel, error) {
	return assist.PriorityMostImportant, m.err
}

func (m *mockAssistant) GenerateTaskSuggestions(ctx context.Context, projectContext, employeeRole string) ([]assist.TaskSuggestion, error) {
	return assist.SuggestionsFallback(), m.err
}

func (m *mockAssistant) AnalyzeTaskPerformance(ctx context.Context, tasks []assist.TaskSummary) (assist.Analysis, error) {
	m.tasks = tasks
	return assist.AnalysisFallback(tasks), m.err
}

func newTestServer(a Assistant) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(":0", a, WithLogger(logger), WithAuthenticator(NewTokenAuthenticator([]string{testToken})))
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp assist.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp.Message
}

func TestValidation(t *testing.T) {
	h := newTestServer(&mockAssistant{}).Handler()

	tests := []struct {
		name        string
		path        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{"describe without title", "/api/ai/generate-description", `{}`, http.StatusBadRequest, msgTitleRequired},
		{"describe empty body", "/api/ai/generate-description", ``, http.StatusBadRequest, msgTitleRequired},
		{"describe title wrong type", "/api/ai/generate-description", `{"title": 5}`, http.StatusBadRequest, msgInvalidBody},
		{"describe malformed json", "/api/ai/generate-description", `{"title":`, http.StatusBadRequest, msgInvalidBody},
		{"priority missing description", "/api/ai/suggest-priority", `{"title":"x"}`, http.StatusBadRequest, msgPriorityRequired},
		{"priority missing title", "/api/ai/suggest-priority", `{"description":"x"}`, http.StatusBadRequest, msgPriorityRequired},
		{"analyze without tasks", "/api/ai/analyze-performance", `{}`, http.StatusBadRequest, msgTasksRequired},
		{"analyze tasks not array", "/api/ai/analyze-performance", `{"tasks":"many"}`, http.StatusBadRequest, msgTasksRequired},
		{"analyze tasks null", "/api/ai/analyze-performance", `{"tasks":null}`, http.StatusBadRequest, msgTasksRequired},
		{"analyze bad task entry", "/api/ai/analyze-performance", `{"tasks":[{"title":1}]}`, http.StatusBadRequest, msgInvalidBody},
		{"task stats without tasks", "/api/dashboard/task-stats", `{}`, http.StatusBadRequest, msgTasksRequired},
		{"project stats without projects", "/api/dashboard/project-stats", `{"projects":{}}`, http.StatusBadRequest, msgProjectsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body, testToken)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if got := message(t, rec); got != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, got)
			}
		})
	}
}

func TestSuccessResponses(t *testing.T) {
	a := &mockAssistant{}
	h := newTestServer(a).Handler()

	t.Run("describe", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/ai/generate-description", `{"title":"Fix bug","context":"billing"}`, testToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var resp assist.DescriptionResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Description != "desc for Fix bug" {
			t.Errorf("unexpected description %q", resp.Description)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
	})

	t.Run("priority", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/ai/suggest-priority", `{"title":"x","description":"y"}`, testToken)
		var resp assist.PriorityResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if rec.Code != http.StatusOK || resp.Priority != assist.PriorityMostImportant {
			t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("suggestions without body", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/ai/task-suggestions", ``, testToken)
		var resp assist.SuggestionsResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if rec.Code != http.StatusOK || len(resp.Suggestions) != 5 {
			t.Errorf("unexpected response %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("analyze", func(t *testing.T) {
		body := `{"tasks":[{"title":"A","priority":"Important"},{"title":"B","priority":"Important"},{"title":"C","priority":"Most Important"}]}`
		rec := do(t, h, http.MethodPost, "/api/ai/analyze-performance", body, testToken)
		var resp assist.AnalysisResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(a.tasks) != 3 {
			t.Errorf("expected 3 tasks delegated, got %d", len(a.tasks))
		}
		if !strings.Contains(resp.Analysis.PriorityAnalysis, "Important (2)") {
			t.Errorf("unexpected analysis %q", resp.Analysis.PriorityAnalysis)
		}
	})

	t.Run("analyze empty array", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/ai/analyze-performance", `{"tasks":[]}`, testToken)
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 for empty array, got %d", rec.Code)
		}
	})

	t.Run("task stats", func(t *testing.T) {
		body := `{"tasks":[{"title":"a"},{"title":"b","status":"pending"},{"title":"c","status":"in-progress"},{"title":"d","status":"completed"}]}`
		rec := do(t, h, http.MethodPost, "/api/dashboard/task-stats", body, testToken)
		var resp assist.TaskStatsResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Stats.Pending != 2 || resp.Stats.PendingPercent != 50 || resp.Stats.CompletedPercent != 25 {
			t.Errorf("unexpected stats %+v", resp.Stats)
		}
	})

	t.Run("project stats", func(t *testing.T) {
		body := `{"projects":[{"name":"p1","status":"Testing"},{"name":"p2"}]}`
		rec := do(t, h, http.MethodPost, "/api/dashboard/project-stats", body, testToken)
		var resp assist.ProjectStatsResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Stats.Testing != 1 || resp.Stats.OnHold != 1 || resp.Stats.TestingPercent != 50 {
			t.Errorf("unexpected stats %+v", resp.Stats)
		}
	})
}

func TestDelegateErrorsAreGeneric(t *testing.T) {
	h := newTestServer(&mockAssistant{err: errors.New("db exploded: secret detail")}).Handler()

	tests := []struct {
		path string
		body string
		want string
	}{
		{"/api/ai/generate-description", `{"title":"x"}`, msgDescribeFailed},
		{"/api/ai/suggest-priority", `{"title":"x","description":"y"}`, msgPriorityFailed},
		{"/api/ai/task-suggestions", `{}`, msgSuggestionsFailed},
		{"/api/ai/analyze-performance", `{"tasks":[]}`, msgAnalyzeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body, testToken)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
			if got := message(t, rec); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if strings.Contains(rec.Body.String(), "secret detail") {
				t.Error("internal error detail leaked to caller")
			}
		})
	}
}

func TestPanicBecomes500(t *testing.T) {
	h := newTestServer(&mockAssistant{panicMsg: "boom"}).Handler()

	rec := do(t, h, http.MethodPost, "/api/ai/generate-description", `{"title":"x"}`, testToken)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := message(t, rec); got != msgDescribeFailed {
		t.Errorf("unexpected message %q", got)
	}
}

func TestAuthentication(t *testing.T) {
	h := newTestServer(&mockAssistant{}).Handler()

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"wrong token", "nope", http.StatusUnauthorized},
		{"valid token", testToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/ai/task-suggestions", `{}`, tt.token)
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.want == http.StatusUnauthorized && message(t, rec) != msgUnauthorized {
				t.Errorf("unexpected message %q", rec.Body.String())
			}
		})
	}
}

func TestDefaultAuthenticatorDeniesAll(t *testing.T) {
	s := NewServer(":0", &mockAssistant{}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	rec := do(t, s.Handler(), http.MethodPost, "/api/ai/task-suggestions", `{}`, "anything")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAllowAll(t *testing.T) {
	s := NewServer(":0", &mockAssistant{}, WithAuthenticator(AllowAll{}), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	rec := do(t, s.Handler(), http.MethodPost, "/api/ai/task-suggestions", `{}`, "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHealthIsPublic(t *testing.T) {
	h := newTestServer(&mockAssistant{available: true}).Handler()

	rec := do(t, h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp healthResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Status != "ok" || !resp.Oracle {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestRequestID(t *testing.T) {
	h := newTestServer(&mockAssistant{}).Handler()

	rec := do(t, h, http.MethodGet, "/health", "", "")
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected propagated id, got %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(&mockAssistant{}).Handler()
	rec := do(t, h, http.MethodGet, "/api/ai/generate-description", "", testToken)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestBodyTooLarge(t *testing.T) {
	h := newTestServer(&mockAssistant{}).Handler()
	big := `{"title":"` + strings.Repeat("a", MaxBodyBytes+10) + `"}`
	rec := do(t, h, http.MethodPost, "/api/ai/generate-description", big, testToken)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestAccessLogIncludesStatus(t *testing.T) {
	var buf bytes.Buffer
	s := NewServer(":0", &mockAssistant{}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	_ = do(t, s.Handler(), http.MethodPost, "/api/ai/task-suggestions", `{}`, "")
	if !strings.Contains(buf.String(), "status=401") {
		t.Errorf("access log missing status: %q", buf.String())
	}
}

func TestEndToEndWithUnavailableOracle(t *testing.T) {
	svc := application.NewAssistService(nil, "", application.WithAssistLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	h := newTestServer(svc).Handler()

	rec := do(t, h, http.MethodPost, "/api/ai/suggest-priority", `{"title":"urgent fix","description":"asap please"}`, testToken)
	var resp assist.PriorityResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Priority != assist.PriorityMostImportant {
		t.Errorf("expected Most Important via classifier, got %q", resp.Priority)
	}
}

func TestShutdownWithoutStart(t *testing.T) {
	s := newTestServer(&mockAssistant{})
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
