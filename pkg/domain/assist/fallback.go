package assist

import (
	"fmt"
	"strings"
)

const (
	fallbackBottlenecks          = "Consider reviewing task priorities and deadlines to identify potential bottlenecks."
	fallbackRecommendations      = "Focus on completing high-priority tasks first and ensure proper task distribution among team members."
	fallbackProductivityInsights = "Monitor task completion rates and adjust priorities based on project requirements."
)

// DescribeFallback produces a templated description for a task title.
// The context clause is only added when context is non-empty.
func DescribeFallback(title, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Complete the task: %s.", title)
	if context != "" {
		fmt.Fprintf(&b, " This task is related to %s.", context)
	}
	b.WriteString(" Please ensure all requirements are met and the task is completed according to specifications.")
	return b.String()
}

// SuggestionsFallback returns the five reference suggestions.
// Each call returns a new slice so callers may modify it.
func SuggestionsFallback() []TaskSuggestion {
	return []TaskSuggestion{
		{
			Title:       "Review project documentation",
			Description: "Review and update project documentation to ensure accuracy and completeness",
			Priority:    PriorityImportant,
		},
		{
			Title:       "Team meeting preparation",
			Description: "Prepare agenda and materials for upcoming team meeting",
			Priority:    PriorityMostImportant,
		},
		{
			Title:       "Code review and testing",
			Description: "Review code changes and perform necessary testing procedures",
			Priority:    PriorityImportant,
		},
		{
			Title:       "Update project status",
			Description: "Update project status and progress in the management system",
			Priority:    PriorityLeastImportant,
		},
		{
			Title:       "Client communication",
			Description: "Follow up with client regarding project updates and requirements",
			Priority:    PriorityImportant,
		},
	}
}

// AnalysisFallback summarizes the priority distribution of tasks and pairs it
// with fixed advice. Tasks without a known priority count toward the total only.
func AnalysisFallback(tasks []TaskSummary) Analysis {
	counts := CountByPriority(tasks)

	return Analysis{
		PriorityAnalysis: fmt.Sprintf(
			"Total tasks: %d. Priority distribution: Most Important (%d), Important (%d), Least Important (%d)",
			len(tasks),
			counts[PriorityMostImportant],
			counts[PriorityImportant],
			counts[PriorityLeastImportant],
		),
		Bottlenecks:          fallbackBottlenecks,
		Recommendations:      fallbackRecommendations,
		ProductivityInsights: fallbackProductivityInsights,
	}
}

// CountByPriority counts tasks per known label. Unknown or empty priorities are skipped.
func CountByPriority(tasks []TaskSummary) map[PriorityLabel]int {
	counts := make(map[PriorityLabel]int, len(priorityOrder))
	for _, t := range tasks {
		if t.Priority.IsValid() {
			counts[t.Priority]++
		}
	}
	return counts
}
