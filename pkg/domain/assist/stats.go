package assist

import "math"

// Task status values used by the task dashboard. An empty status counts as pending.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in-progress"
	TaskStatusCompleted  = "completed"
)

// Project status values used by the project dashboard. An empty status counts as on hold.
const (
	ProjectStatusOnHold     = "On Hold"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusTesting    = "Testing"
	ProjectStatusCompleted  = "Completed"
)

// TaskStats holds the task dashboard tiles.
type TaskStats struct {
	Total             int `json:"total"`
	Pending           int `json:"pending"`
	InProgress        int `json:"inProgress"`
	Completed         int `json:"completed"`
	PendingPercent    int `json:"pendingPercent"`
	InProgressPercent int `json:"inProgressPercent"`
	CompletedPercent  int `json:"completedPercent"`
}

// ProjectSummary is the slice of a project the dashboard looks at.
type ProjectSummary struct {
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// ProjectStats holds the project dashboard tiles.
type ProjectStats struct {
	Total             int `json:"total"`
	OnHold            int `json:"onHold"`
	InProgress        int `json:"inProgress"`
	Testing           int `json:"testing"`
	Completed         int `json:"completed"`
	OnHoldPercent     int `json:"onHoldPercent"`
	InProgressPercent int `json:"inProgressPercent"`
	TestingPercent    int `json:"testingPercent"`
	CompletedPercent  int `json:"completedPercent"`
}

// ComputeTaskStats counts tasks per status. Statuses outside the known set
// count toward the total only.
func ComputeTaskStats(tasks []TaskSummary) TaskStats {
	stats := TaskStats{Total: len(tasks)}

	for _, t := range tasks {
		switch t.Status {
		case "", TaskStatusPending:
			stats.Pending++
		case TaskStatusInProgress:
			stats.InProgress++
		case TaskStatusCompleted:
			stats.Completed++
		}
	}

	stats.PendingPercent = percent(stats.Pending, stats.Total)
	stats.InProgressPercent = percent(stats.InProgress, stats.Total)
	stats.CompletedPercent = percent(stats.Completed, stats.Total)
	return stats
}

// ComputeProjectStats counts projects per status.
func ComputeProjectStats(projects []ProjectSummary) ProjectStats {
	stats := ProjectStats{Total: len(projects)}

	for _, p := range projects {
		switch p.Status {
		case "", ProjectStatusOnHold:
			stats.OnHold++
		case ProjectStatusInProgress:
			stats.InProgress++
		case ProjectStatusTesting:
			stats.Testing++
		case ProjectStatusCompleted:
			stats.Completed++
		}
	}

	stats.OnHoldPercent = percent(stats.OnHold, stats.Total)
	stats.InProgressPercent = percent(stats.InProgress, stats.Total)
	stats.TestingPercent = percent(stats.Testing, stats.Total)
	stats.CompletedPercent = percent(stats.Completed, stats.Total)
	return stats
}

func percent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
