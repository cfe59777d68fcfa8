package assist

// DescriptionRequest asks for a drafted task description.
type DescriptionRequest struct {
	Title   string `json:"title"`
	Context string `json:"context,omitempty"`
}

// DescriptionResponse carries a drafted task description.
type DescriptionResponse struct {
	Description string `json:"description"`
}

// PriorityRequest asks for a priority suggestion.
type PriorityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PriorityResponse carries a suggested priority.
type PriorityResponse struct {
	Priority PriorityLabel `json:"priority"`
}

// SuggestionsRequest asks for new task ideas. Both fields are optional.
type SuggestionsRequest struct {
	ProjectContext string `json:"projectContext,omitempty"`
	EmployeeRole   string `json:"employeeRole,omitempty"`
}

// TaskSuggestion is one proposed task.
type TaskSuggestion struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    PriorityLabel `json:"priority"`
}

// SuggestionsResponse carries proposed tasks.
type SuggestionsResponse struct {
	Suggestions []TaskSuggestion `json:"suggestions"`
}

// TaskSummary is the slice of a task the analytics operation looks at.
// Priority is kept as received; values outside the label set are simply not counted.
type TaskSummary struct {
	Title    string        `json:"title" yaml:"title"`
	Priority PriorityLabel `json:"priority,omitempty" yaml:"priority,omitempty"`
	Status   string        `json:"status,omitempty" yaml:"status,omitempty"`
}

// PerformanceRequest asks for an analysis of a task set.
type PerformanceRequest struct {
	Tasks []TaskSummary `json:"tasks"`
}

// Analysis is the four-part task-set report.
type Analysis struct {
	PriorityAnalysis     string `json:"priorityAnalysis"`
	Bottlenecks          string `json:"bottlenecks"`
	Recommendations      string `json:"recommendations"`
	ProductivityInsights string `json:"productivityInsights"`
}

// AnalysisResponse wraps an Analysis on the wire.
type AnalysisResponse struct {
	Analysis Analysis `json:"analysis"`
}

// TaskStatsRequest asks for task dashboard tiles.
type TaskStatsRequest struct {
	Tasks []TaskSummary `json:"tasks"`
}

// TaskStatsResponse wraps TaskStats on the wire.
type TaskStatsResponse struct {
	Stats TaskStats `json:"stats"`
}

// ProjectStatsRequest asks for project dashboard tiles.
type ProjectStatsRequest struct {
	Projects []ProjectSummary `json:"projects"`
}

// ProjectStatsResponse wraps ProjectStats on the wire.
type ProjectStatsResponse struct {
	Stats ProjectStats `json:"stats"`
}

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Message string `json:"message"`
}
