package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

var (
	dashTasksFile    string
	dashProjectsFile string
	dashInteractive  bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Task and project status tiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			tasks    []assist.TaskSummary
			projects []assist.ProjectSummary
			err      error
		)
		if dashTasksFile != "" {
			if tasks, err = loadTasks(dashTasksFile); err != nil {
				return err
			}
		}
		if dashProjectsFile != "" {
			if projects, err = loadProjects(dashProjectsFile); err != nil {
				return err
			}
		}

		client := newClient()
		taskStats := client.TaskStats(cmd.Context(), tasks)
		projectStats := client.ProjectStats(cmd.Context(), projects)

		if !dashInteractive {
			fmt.Println(renderTaskTiles(taskStats))
			fmt.Println(renderProjectTiles(projectStats))
			return nil
		}
		if os.Getenv("TASKDESK_SKIP_DASHBOARD_RUN") == "true" {
			return nil
		}
		p := tea.NewProgram(newDashboardModel(tasks, taskStats, projectStats))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashTasksFile, "tasks", "", "YAML or JSON file with the task list")
	dashboardCmd.Flags().StringVar(&dashProjectsFile, "projects", "", "YAML or JSON file with the project list")
	dashboardCmd.Flags().BoolVarP(&dashInteractive, "interactive", "i", false, "Browse tasks in an interactive table")
	RootCmd.AddCommand(dashboardCmd)
}

func tile(label string, count, pct int) string {
	return cardStyle.Render(fmt.Sprintf("%s\n%d (%d%%)", sectionStyle.Render(label), count, pct))
}

func renderTaskTiles(s assist.TaskStats) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("Tasks: %d", s.Total)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			tile("Pending", s.Pending, s.PendingPercent),
			tile("In Progress", s.InProgress, s.InProgressPercent),
			tile("Completed", s.Completed, s.CompletedPercent),
		),
	)
}

func renderProjectTiles(s assist.ProjectStats) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("Projects: %d", s.Total)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			tile("On Hold", s.OnHold, s.OnHoldPercent),
			tile("In Progress", s.InProgress, s.InProgressPercent),
			tile("Testing", s.Testing, s.TestingPercent),
			tile("Completed", s.Completed, s.CompletedPercent),
		),
	)
}

type dashboardModel struct {
	table    table.Model
	tasks    assist.TaskStats
	projects assist.ProjectStats
}

func newDashboardModel(tasks []assist.TaskSummary, taskStats assist.TaskStats, projectStats assist.ProjectStats) dashboardModel {
	columns := []table.Column{
		{Title: "Status", Width: 12},
		{Title: "Priority", Width: 16},
		{Title: "Task", Width: 40},
	}

	rows := make([]table.Row, 0, len(tasks))
	for _, t := range tasks {
		status := t.Status
		if status == "" {
			status = assist.TaskStatusPending
		}
		rows = append(rows, table.Row{status, string(t.Priority), t.Title})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	return dashboardModel{table: t, tasks: taskStats, projects: projectStats}
}

func (m dashboardModel) Init() tea.Cmd { return nil }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		renderTaskTiles(m.tasks),
		renderProjectTiles(m.projects),
		m.table.View(),
		mutedStyle.Render("Press q to quit."),
	)
}
