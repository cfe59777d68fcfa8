package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ProviderOption customizes an HTTP-backed provider.
type ProviderOption func(*httpBackend)

// WithBaseURL overrides the API endpoint. Used by tests and self-hosted gateways.
func WithBaseURL(url string) ProviderOption {
	return func(b *httpBackend) { b.baseURL = url }
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(b *httpBackend) { b.client = client }
}

type httpBackend struct {
	baseURL string
	client  *http.Client
}

func newHTTPBackend(defaultURL string, opts []ProviderOption) httpBackend {
	b := httpBackend{baseURL: defaultURL}
	for _, opt := range opts {
		opt(&b)
	}
	if b.client == nil {
		b.client = http.DefaultClient
	}
	return b
}

// postJSON sends body to url and decodes a 200 response into out.
func (b httpBackend) postJSON(ctx context.Context, name, url string, headers map[string]string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", name, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read body

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body so the error is useful without echoing huge payloads.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s API returned status %s: %s", name, resp.Status, bytes.TrimSpace(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", name, err)
	}
	return nil
}
