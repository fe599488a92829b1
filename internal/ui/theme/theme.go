// Package theme holds the shared color palette. Screens build their own
// lipgloss styles from these so the palette stays in one place.
package theme

import (
	"charm.land/lipgloss/v2"
)

var (
	// Brand colors.
	Primary   = lipgloss.Color("#6366F1") // indigo, headings and selection
	Secondary = lipgloss.Color("#14B8A6") // teal, tutor voice and accents

	// Feedback colors.
	Success = lipgloss.Color("#22C55E")
	Error   = lipgloss.Color("#F43F5E")

	// Body text on a dark terminal background.
	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")

	// Chrome.
	BgCard = lipgloss.Color("#1E293B")
	Border = lipgloss.Color("#334155")
)
