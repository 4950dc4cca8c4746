package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	stageStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B"))

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

const progressWidth = 30

// renderProgress draws a single-line progress bar, redrawn in place.
func renderProgress(label string, done, total int, symbol string) string {
	filled := 0
	if total > 0 {
		filled = done * progressWidth / total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)

	return fmt.Sprintf("\r%s [%s] %d/%d %s",
		stageStyle.Render(label), bar, done, total, dimStyle.Render(symbol))
}

func printStage(format string, args ...interface{}) {
	fmt.Println(stageStyle.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

func printWarn(format string, args ...interface{}) {
	fmt.Println(warnStyle.Render(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render(fmt.Sprintf(format, args...)))
}
