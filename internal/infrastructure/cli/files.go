package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

// readList decodes a YAML or JSON list from path. YAML is a superset of JSON.
func readList[T any](path string) ([]T, error) {
	// #nosec G304 -- Path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var out []T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func loadTasks(path string) ([]assist.TaskSummary, error) {
	return readList[assist.TaskSummary](path)
}

func loadProjects(path string) ([]assist.ProjectSummary, error) {
	return readList[assist.ProjectSummary](path)
}
