package cli

import "github.com/charmbracelet/lipgloss"

var (
	primaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B4EFF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B30"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB020"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00B3C7"))
	silentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8E8E93"))
	textStyle    = lipgloss.NewStyle()
)

func Primary(text string) string { return primaryStyle.Render(text) }
func Error(text string) string   { return errorStyle.Render(text) }
func Warning(text string) string { return warningStyle.Render(text) }
func Info(text string) string    { return infoStyle.Render(text) }
func Silent(text string) string  { return silentStyle.Render(text) }
func Text(text string) string    { return textStyle.Render(text) }
