// Package styles holds the colors and styles shared by terminal output.
package styles

import (
	"charm.land/lipgloss/v2"
)

// Color palette - ANSI 256 colors
var (
	// Primary accent color (purple)
	ColorAccent = lipgloss.Color("141")

	ColorText      = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("245")

	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorInfo    = lipgloss.Color("39")
)

// Progress indicator
var (
	// SpinnerStyle colors the rotating glyph
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	// SpinnerLabelStyle for the text after the glyph
	SpinnerLabelStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true)
)

// Message prefixes
var (
	ErrorPrefixStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	WarnPrefixStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	InfoPrefixStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	// PromptStyle for the interactive input marker
	PromptStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)
