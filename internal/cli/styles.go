// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Board palette.
var (
	solderMask = lipgloss.Color("#2E8B57")
	copper     = lipgloss.Color("#D08B4F")
	silkscreen = lipgloss.Color("#F5F5F0")
	pass       = lipgloss.Color("#4ECDC4")
	caution    = lipgloss.Color("#FFE66D")
	fault      = lipgloss.Color("#FF6B6B")
	note       = lipgloss.Color("#95E1D3")
	substrate  = lipgloss.Color("#666666")
)

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(solderMask).MarginBottom(1)

	// SubtleStyle formats ids, matcher lists and other secondary text.
	SubtleStyle = lipgloss.NewStyle().Foreground(substrate)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(silkscreen)

	successStyle = lipgloss.NewStyle().Foreground(pass)
	warningStyle = lipgloss.NewStyle().Foreground(caution)
	errorStyle   = lipgloss.NewStyle().Foreground(fault)
	infoStyle    = lipgloss.NewStyle().Foreground(note)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(solderMask)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(solderMask).
			Padding(1, 2)
)

// categoryColors highlights the categories that carry the strictest routing rules.
var categoryColors = map[string]lipgloss.Color{
	"Power":                copper,
	"RF":                   fault,
	"High Speed Interface": caution,
	"Clock":                note,
}

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	BoardIcon   = "🔌"
	ChartIcon   = "📊"
	FolderIcon  = "🗄️"
)

// CategoryStyle returns the style for a net category name.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle()
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return warningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the board icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(BoardIcon + " " + title)
}

// FormatPrompt formats a question asked on the terminal.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt)
}

// RenderBox renders content in a bordered box under a title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.UnsetMargins().Render(title),
		content,
	))
}
