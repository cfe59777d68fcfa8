package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

const (
	msgInvalidBody       = "Invalid request body"
	msgTitleRequired     = "Title is required"
	msgPriorityRequired  = "Title and description are required"
	msgTasksRequired     = "Tasks array is required"
	msgProjectsRequired  = "Projects array is required"
	msgDescribeFailed    = "Failed to generate task description"
	msgPriorityFailed    = "Failed to suggest priority"
	msgSuggestionsFailed = "Failed to generate task suggestions"
	msgAnalyzeFailed     = "Failed to analyze task performance"
	msgInternal          = "Internal server error"
	msgUnauthorized      = "Unauthorized"
)

// errBadRequest carries a client-facing 400 message.
type errBadRequest struct{ message string }

func (e errBadRequest) Error() string { return e.message }

func badRequest(message string) error { return errBadRequest{message: message} }

// guard turns handler errors into JSON error responses. Client errors keep
// their message; anything else, including panics, becomes a 500 with failMsg.
func (s *Server) guard(failMsg string, h func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("handler panic", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "panic", rec)
				writeError(w, http.StatusInternalServerError, failMsg)
			}
		}()

		err := h(w, r)
		if err == nil {
			return
		}

		var bad errBadRequest
		if errors.As(err, &bad) {
			writeError(w, http.StatusBadRequest, bad.message)
			return
		}
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, failMsg)
	}
}

func (s *Server) handleGenerateDescription(w http.ResponseWriter, r *http.Request) error {
	var req assist.DescriptionRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	if req.Title == "" {
		return badRequest(msgTitleRequired)
	}

	description, err := s.assistant.GenerateDescription(r.Context(), req.Title, req.Context)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, assist.DescriptionResponse{Description: description})
	return nil
}

func (s *Server) handleSuggestPriority(w http.ResponseWriter, r *http.Request) error {
	var req assist.PriorityRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}
	if req.Title == "" || req.Description == "" {
		return badRequest(msgPriorityRequired)
	}

	priority, err := s.assistant.SuggestPriority(r.Context(), req.Title, req.Description)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, assist.PriorityResponse{Priority: priority})
	return nil
}

func (s *Server) handleTaskSuggestions(w http.ResponseWriter, r *http.Request) error {
	var req assist.SuggestionsRequest
	if err := decodeBody(w, r, &req); err != nil {
		return err
	}

	suggestions, err := s.assistant.GenerateTaskSuggestions(r.Context(), req.ProjectContext, req.EmployeeRole)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, assist.SuggestionsResponse{Suggestions: suggestions})
	return nil
}

func (s *Server) handleAnalyzePerformance(w http.ResponseWriter, r *http.Request) error {
	var raw struct {
		Tasks json.RawMessage `json:"tasks"`
	}
	if err := decodeBody(w, r, &raw); err != nil {
		return err
	}
	var tasks []assist.TaskSummary
	if err := decodeArray(raw.Tasks, &tasks, msgTasksRequired); err != nil {
		return err
	}

	analysis, err := s.assistant.AnalyzeTaskPerformance(r.Context(), tasks)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, assist.AnalysisResponse{Analysis: analysis})
	return nil
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) error {
	var raw struct {
		Tasks json.RawMessage `json:"tasks"`
	}
	if err := decodeBody(w, r, &raw); err != nil {
		return err
	}
	var tasks []assist.TaskSummary
	if err := decodeArray(raw.Tasks, &tasks, msgTasksRequired); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, assist.TaskStatsResponse{Stats: assist.ComputeTaskStats(tasks)})
	return nil
}

func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) error {
	var raw struct {
		Projects json.RawMessage `json:"projects"`
	}
	if err := decodeBody(w, r, &raw); err != nil {
		return err
	}
	var projects []assist.ProjectSummary
	if err := decodeArray(raw.Projects, &projects, msgProjectsRequired); err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, assist.ProjectStatsResponse{Stats: assist.ComputeProjectStats(projects)})
	return nil
}

type healthResponse struct {
	Status string `json:"status"`
	Oracle bool   `json:"oracle"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Oracle: s.assistant.Available()})
}

// decodeBody reads a JSON object body. An empty body is treated as {}.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest(msgInvalidBody)
	}
	return nil
}

// decodeArray requires raw to be a JSON array and decodes it into dst.
func decodeArray(raw json.RawMessage, dst any, missingMsg string) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return badRequest(missingMsg)
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return badRequest(msgInvalidBody)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, assist.ErrorResponse{Message: message})
}
