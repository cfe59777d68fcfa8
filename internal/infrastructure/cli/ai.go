package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

const (
	warnTitleRequired    = "Please enter a task title first"
	warnPriorityRequired = "Please enter both title and description"
	warnTasksRequired    = "Please create some tasks first to get AI insights"
)

var (
	aiTitle       string
	aiContext     string
	aiDescription string
	aiProject     string
	aiRole        string
	aiTasksFile   string
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "AI assistant widgets",
}

var aiDescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Draft a task description from its title",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(aiTitle) == "" {
			fmt.Println(warnStyle.Render(warnTitleRequired))
			return nil
		}
		desc := newClient().GenerateTaskDescription(cmd.Context(), aiTitle, aiContext)
		fmt.Println(renderDescription(aiTitle, desc))
		return nil
	},
}

var aiPriorityCmd = &cobra.Command{
	Use:   "priority",
	Short: "Suggest a priority for a task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(aiTitle) == "" || strings.TrimSpace(aiDescription) == "" {
			fmt.Println(warnStyle.Render(warnPriorityRequired))
			return nil
		}
		p := newClient().SuggestPriority(cmd.Context(), aiTitle, aiDescription)
		fmt.Println(renderPriority(p))
		return nil
	},
}

var aiSuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Propose new tasks for a project or role",
	RunE: func(cmd *cobra.Command, args []string) error {
		suggestions := newClient().GetTaskSuggestions(cmd.Context(), aiProject, aiRole)
		fmt.Println(renderSuggestions(suggestions))
		return nil
	},
}

var aiInsightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Analyze a task list",
	RunE: func(cmd *cobra.Command, args []string) error {
		var tasks []assist.TaskSummary
		if aiTasksFile != "" {
			var err error
			if tasks, err = loadTasks(aiTasksFile); err != nil {
				return err
			}
		}
		if len(tasks) == 0 {
			fmt.Println(warnStyle.Render(warnTasksRequired))
			return nil
		}
		analysis := newClient().AnalyzeTaskPerformance(cmd.Context(), tasks)
		fmt.Println(renderAnalysis(analysis))
		return nil
	},
}

var aiDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a new task: description first, then priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(aiTitle) == "" {
			fmt.Println(warnStyle.Render(warnTitleRequired))
			return nil
		}
		client := newClient()
		desc := client.GenerateTaskDescription(cmd.Context(), aiTitle, aiContext)
		priority := client.SuggestPriority(cmd.Context(), aiTitle, desc)

		out, err := renderDraft(taskDraft{
			Title:       aiTitle,
			Description: desc,
			Priority:    priority,
			Status:      assist.TaskStatusPending,
		})
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	aiDescribeCmd.Flags().StringVar(&aiTitle, "title", "", "Task title")
	aiDescribeCmd.Flags().StringVar(&aiContext, "context", "", "Project context")

	aiPriorityCmd.Flags().StringVar(&aiTitle, "title", "", "Task title")
	aiPriorityCmd.Flags().StringVar(&aiDescription, "description", "", "Task description")

	aiSuggestCmd.Flags().StringVar(&aiProject, "project", "", "Project context")
	aiSuggestCmd.Flags().StringVar(&aiRole, "role", "", "Employee role")

	aiInsightsCmd.Flags().StringVar(&aiTasksFile, "tasks", "", "YAML or JSON file with the task list")

	aiDraftCmd.Flags().StringVar(&aiTitle, "title", "", "Task title")
	aiDraftCmd.Flags().StringVar(&aiContext, "context", "", "Project context")

	aiCmd.AddCommand(aiDescribeCmd, aiPriorityCmd, aiSuggestCmd, aiInsightsCmd, aiDraftCmd)
	RootCmd.AddCommand(aiCmd)
}

func renderDescription(title, desc string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(title),
		cardStyle.Render(desc),
	)
}

func renderPriority(p assist.PriorityLabel) string {
	return fmt.Sprintf("Suggested priority: %s", priorityBadge(p))
}

func renderSuggestions(suggestions []assist.TaskSuggestion) string {
	lines := []string{headerStyle.Render("Suggested tasks")}
	for i, s := range suggestions {
		lines = append(lines,
			fmt.Sprintf("%d. %s %s", i+1, s.Title, priorityBadge(s.Priority)),
			mutedStyle.Render("   "+s.Description),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderAnalysis(a assist.Analysis) string {
	section := func(name, body string) string {
		return sectionStyle.Render(name) + "\n" + body
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("AI Task Insights"),
		section("Priority Analysis", a.PriorityAnalysis),
		section("Bottlenecks", a.Bottlenecks),
		section("Recommendations", a.Recommendations),
		section("Productivity Insights", a.ProductivityInsights),
	))
}

// taskDraft is the task produced by the draft flow.
type taskDraft struct {
	Title       string               `yaml:"title"`
	Description string               `yaml:"description"`
	Priority    assist.PriorityLabel `yaml:"priority"`
	Status      string               `yaml:"status"`
}

func renderDraft(d taskDraft) (string, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("encode draft: %w", err)
	}
	return string(out), nil
}
