package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hejijunhao/botdeck/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	bannerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("1")).Padding(0, 1)
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)

	categoryStyles = map[model.Category]lipgloss.Style{
		model.CategoryError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		model.CategoryWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		model.CategorySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		model.CategoryInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		model.CategoryNone:    lipgloss.NewStyle(),
	}

	statusColors = map[model.Status]lipgloss.Color{
		model.StatusConnecting: lipgloss.Color("8"),
		model.StatusConnected:  lipgloss.Color("2"),
		model.StatusRunning:    lipgloss.Color("4"),
		model.StatusScheduled:  lipgloss.Color("3"),
		model.StatusError:      lipgloss.Color("1"),
		model.StatusCleared:    lipgloss.Color("8"),
	}

	toastColors = map[model.ToastLevel]lipgloss.Color{
		model.ToastInfo:    lipgloss.Color("4"),
		model.ToastSuccess: lipgloss.Color("2"),
		model.ToastError:   lipgloss.Color("1"),
	}
)

func statusBadge(s model.Status) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(statusColors[s]).
		Padding(0, 1).
		Render(string(s))
}

func toastView(t model.Toast) string {
	return lipgloss.NewStyle().Foreground(toastColors[t.Level]).Bold(true).Render("● " + t.Message)
}

// control renders a label, struck through when the control is disabled.
func control(label string, enabled bool) string {
	if enabled {
		return label
	}
	return lockedStyle.Render(label)
}
