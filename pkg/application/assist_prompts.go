package application

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

const assistSystemPrompt = "You are an assistant inside a task management system. Answer exactly in the requested format."

func describePrompt(title, taskContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a detailed task description for a task titled %q.\n", title)
	if taskContext != "" {
		fmt.Fprintf(&b, "Context: %s\n", taskContext)
	}
	b.WriteString(`
The description should be:
- Clear and actionable
- Include specific steps or requirements
- Be professional and concise
- Suitable for a task management system

Return only the description without any additional formatting or explanations.`)
	return b.String()
}

func priorityPrompt(title, description string) string {
	return fmt.Sprintf(`Analyze the following task and suggest an appropriate priority level:

Title: %s
Description: %s

Priority levels available: %s

Consider factors like:
- Urgency and deadlines
- Impact on business/project
- Complexity and effort required
- Dependencies on other tasks

Return only the priority level (%s) without any additional text.`,
		title, description, labelList(), labelChoice())
}

func suggestionsPrompt(projectContext, employeeRole string) string {
	var b strings.Builder
	b.WriteString("Generate 5 relevant task suggestions for a task management system.\n\n")
	if projectContext != "" {
		fmt.Fprintf(&b, "Project Context: %s\n", projectContext)
	}
	if employeeRole != "" {
		fmt.Fprintf(&b, "Employee Role: %s\n", employeeRole)
	}
	fmt.Fprintf(&b, `
Each suggestion should include:
- A clear, actionable title
- A brief description
- Suggested priority level (%s)

Return ONLY a JSON array of objects with keys title, description, priority. No markdown, no code fences.
Example: [{"title": "Review code changes", "description": "Review and approve pending code changes in the repository", "priority": "Important"}]`,
		labelList())
	return b.String()
}

func analysisPrompt(tasks []assist.TaskSummary) string {
	summary := make([]assist.TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == "" {
			t.Status = assist.TaskStatusPending
		}
		summary = append(summary, t)
	}
	// Marshalling plain strings cannot fail.
	data, _ := json.Marshal(summary)

	return fmt.Sprintf(`Analyze the following task data and provide insights:

Tasks: %s

Provide insights on:
1. Priority distribution analysis
2. Potential bottlenecks or issues
3. Recommendations for improvement
4. Productivity patterns

Return ONLY a JSON object with string keys: priorityAnalysis, bottlenecks, recommendations, productivityInsights`, data)
}

func labelList() string {
	labels := assist.AllPriorityLabels()
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

// labelChoice renders "A, B, or C".
func labelChoice() string {
	list := labelList()
	last := strings.LastIndex(list, ", ")
	return list[:last] + ", or " + list[last+2:]
}
