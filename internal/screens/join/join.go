package join

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/socraticlabs/socratic-cli/internal/api"
	"github.com/socraticlabs/socratic-cli/internal/router"
	"github.com/socraticlabs/socratic-cli/internal/screen"
	"github.com/socraticlabs/socratic-cli/internal/screens/session"
	"github.com/socraticlabs/socratic-cli/internal/store"
	"github.com/socraticlabs/socratic-cli/internal/ui/components"
	"github.com/socraticlabs/socratic-cli/internal/ui/layout"
	"github.com/socraticlabs/socratic-cli/internal/ui/theme"
)

// JoinScreen prompts for a test code and starts a session with it.
type JoinScreen struct {
	client  *api.Client
	results store.ResultRepo
	userID  string
	log     zerolog.Logger

	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*JoinScreen)(nil)
var _ screen.KeyHintProvider = (*JoinScreen)(nil)

// New creates a new JoinScreen.
func New(client *api.Client, results store.ResultRepo, userID string, log zerolog.Logger) *JoinScreen {
	return &JoinScreen{
		client:  client,
		results: results,
		userID:  userID,
		log:     log,
		input:   components.NewTextInput("Test code", 32),
	}
}

func (j *JoinScreen) Init() tea.Cmd {
	return j.input.Init()
}

func (j *JoinScreen) Title() string {
	return "Join a Test"
}

func (j *JoinScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Join"},
		{Key: "Esc", Description: "Back"},
	}
}

func (j *JoinScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return j, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			code := strings.TrimSpace(j.input.Value())
			if code == "" {
				j.errMsg = "Enter a test code to join."
				return j, nil
			}
			// The join screen replaces itself so that finishing the
			// session lands back on home, not here.
			client := j.client
			results := j.results
			userID := j.userID
			log := j.log
			return j, func() tea.Msg {
				return router.ReplaceScreenMsg{
					Screen: session.New(client, results, code, userID, log),
				}
			}
		}
	}

	var cmd tea.Cmd
	j.input, cmd = j.input.Update(msg)
	return j, cmd
}

func (j *JoinScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Enter the code your teacher gave you"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, j.input.View()))
	b.WriteString("\n")

	if j.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(j.errMsg))
	}

	return b.String()
}
