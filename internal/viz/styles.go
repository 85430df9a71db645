package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const panelWidth = 34

type styles struct {
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	active lipgloss.Style
	help   lipgloss.Style
	status lipgloss.Style
	paused lipgloss.Style
	graph  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(0, 1).
			Width(panelWidth),
		header: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		active: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		help:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		status: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		paused: lipgloss.NewStyle().Foreground(t.Warn).Bold(true),
		graph:  lipgloss.NewStyle().Foreground(t.Accent),
	}
}

// paramBar draws value relative to twice its initial value.
func paramBar(value, initial float64, width int) string {
	ratio := 0.0
	if initial != 0 {
		ratio = value / (2 * initial)
	}
	ratio = min(max(ratio, 0), 1)
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (s styles) row(label, value string) string {
	return s.label.Render(label) + s.value.Render(value) + "\n"
}

func (s styles) rowf(label, format string, args ...any) string {
	return s.row(label, fmt.Sprintf(format, args...))
}
