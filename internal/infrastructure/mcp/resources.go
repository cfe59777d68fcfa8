package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

const (
	priorityResourceURI = "taskdesk://priorities"
	statusResourceURI   = "taskdesk://status"
)

type priorityInfo struct {
	Label assist.PriorityLabel `json:"label"`
	Order int                  `json:"order"`
	Color string               `json:"color"`
}

type statusResponse struct {
	ServerVersion string `json:"server_version"`
	Oracle        bool   `json:"oracle"`
	Model         string `json:"model,omitempty"`
}

func priorityList() []priorityInfo {
	labels := assist.AllPriorityLabels()
	out := make([]priorityInfo, 0, len(labels))
	for _, l := range labels {
		out = append(out, priorityInfo{Label: l, Order: l.Order(), Color: l.Color()})
	}
	return out
}

func (s *Server) status() statusResponse {
	return statusResponse{
		ServerVersion: Version,
		Oracle:        s.assistSvc.Available(),
		Model:         s.assistSvc.Model(),
	}
}

func (s *Server) registerResources() {
	s.mcpServer.Resource(priorityResourceURI).
		Name(priorityResourceURI).
		Description("The closed set of priority labels, most urgent first").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			return jsonResource(priorityResourceURI, priorityList())
		})

	s.mcpServer.Resource(statusResourceURI).
		Name(statusResourceURI).
		Description("Whether the language model is configured for this server").
		MimeType("application/json").
		Handler(func(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
			return jsonResource(statusResourceURI, s.status())
		})
}

func jsonResource(uri string, v any) (*mcplib.ResourceContent, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &mcplib.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
