package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/sgaunet/dsxplorer/pkg/browser"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))
	crumbStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	currentCrumbStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
	emptyStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#888888")).
			Padding(1, 2)
	selectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4A90E2"))

	noticeStyles = map[browser.Severity]lipgloss.Style{
		browser.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF7F")),
		browser.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFEB3B")),
		browser.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true),
	}
)

func tableStyles() table.Styles {
	return table.Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			BorderBottom(true).
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4A90E2")).
			Bold(true),
		Cell: lipgloss.NewStyle().
			Padding(0, 1),
	}
}
