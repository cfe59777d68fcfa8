package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/taskdesk/pkg/domain/assist"
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var cardStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

var sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
var mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))

// badgeColors maps label colors to terminal colors.
var badgeColors = map[string]lipgloss.Color{
	"red":    lipgloss.Color("196"),
	"yellow": lipgloss.Color("220"),
	"green":  lipgloss.Color("42"),
	"gray":   lipgloss.Color("245"),
}

// priorityBadge renders a priority label in its color.
func priorityBadge(p assist.PriorityLabel) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(badgeColors[p.Color()]).
		Render(fmt.Sprintf("[%s]", p))
}
