package cli

import (
	"os"

	"github.com/felixgeelhaar/taskdesk/pkg/sdk"
)

const defaultServerURL = "http://localhost:8080"

// resolveServerURL picks --server, then $TASKDESK_SERVER, then the default.
func resolveServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	if v := os.Getenv("TASKDESK_SERVER"); v != "" {
		return v
	}
	return defaultServerURL
}

// newClient returns an API client. The token is read once, here.
func newClient() *sdk.Client {
	return sdk.NewClient(resolveServerURL(), os.Getenv("TASKDESK_TOKEN"))
}
