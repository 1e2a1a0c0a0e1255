package ux

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles used for text output.
type Styles struct {
	Title lipgloss.Style
	Key   lipgloss.Style
	Value lipgloss.Style
	Muted lipgloss.Style
	Good  lipgloss.Style
	Bad   lipgloss.Style
}

// NewStyles returns the default palette, or unstyled text when noColor is set.
func NewStyles(noColor bool) Styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return Styles{Title: plain, Key: plain, Value: plain, Muted: plain, Good: plain, Bad: plain}
	}
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Key:   lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		Value: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Good:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Bad:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}
