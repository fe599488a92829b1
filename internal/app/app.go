package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/socraticlabs/socratic-cli/internal/api"
	"github.com/socraticlabs/socratic-cli/internal/router"
	"github.com/socraticlabs/socratic-cli/internal/screen"
	"github.com/socraticlabs/socratic-cli/internal/screens/home"
	"github.com/socraticlabs/socratic-cli/internal/screens/session"
	"github.com/socraticlabs/socratic-cli/internal/store"
	"github.com/socraticlabs/socratic-cli/internal/ui/layout"
)

// Deps carries the services the screens need.
type Deps struct {
	Client  *api.Client
	Results store.ResultRepo
	UserID  string
	Log     zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel. When code is non-empty the session
// screen for that test is the initial screen instead of home.
func newAppModel(deps Deps, code string) AppModel {
	var initial screen.Screen
	if code != "" {
		initial = session.New(deps.Client, deps.Results, code, deps.UserID, deps.Log)
	} else {
		initial = home.New(deps.Client, deps.Results, deps.UserID, deps.Log)
	}
	return AppModel{
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Esc is screen-local: the session screen needs it for its
		// leave confirmation, so only ctrl+c is handled globally.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.width)

	var footerHints []layout.KeyHint
	if provider, ok := active.(screen.KeyHintProvider); ok {
		footerHints = provider.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program at the home screen, or directly in a
// test session when code is non-empty.
func Run(deps Deps, code string) error {
	p := tea.NewProgram(newAppModel(deps, code))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
