package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/socraticlabs/socratic-cli/internal/ui/layout"
)

// Screen is one entry on the router's stack. The app shell renders the
// header and footer; a screen only draws the content area between them.
type Screen interface {
	// Init returns the command to run when the screen becomes active.
	Init() tea.Cmd

	// Update handles a message and returns the (possibly new) screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area at the given size.
	View(width, height int) string

	// Title is shown in the header while the screen is on top.
	Title() string
}

// KeyHintProvider lets a screen supply its own footer key hints; screens
// without it get the shell's defaults.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
