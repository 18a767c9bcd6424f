package ui

import gloss "github.com/charmbracelet/lipgloss"

var (
	// white on blue, used for both the title and the status bar
	barStyle = gloss.NewStyle().
			Foreground(gloss.Color("15")).
			Background(gloss.Color("4"))

	bodyStyle = gloss.NewStyle()
)
