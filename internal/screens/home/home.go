package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/socraticlabs/socratic-cli/internal/api"
	"github.com/socraticlabs/socratic-cli/internal/router"
	"github.com/socraticlabs/socratic-cli/internal/screen"
	"github.com/socraticlabs/socratic-cli/internal/screens/history"
	"github.com/socraticlabs/socratic-cli/internal/screens/join"
	"github.com/socraticlabs/socratic-cli/internal/store"
	"github.com/socraticlabs/socratic-cli/internal/ui/components"
	"github.com/socraticlabs/socratic-cli/internal/ui/theme"
)

// HomeScreen is the landing screen of the application.
type HomeScreen struct {
	menu   components.Menu
	recent []store.ResultRecord
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(client *api.Client, results store.ResultRepo, userID string, log zerolog.Logger) *HomeScreen {
	var recent []store.ResultRecord
	if results != nil {
		recent, _ = results.Recent(context.Background(), 3)
	}

	items := []components.MenuItem{
		{Label: "JOIN A TEST", Hint: "enter a test code", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: join.New(client, results, userID, log),
				}
			}
		}},
		{Label: "HISTORY", Hint: "your past results", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(results)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:   components.NewMenu(items),
		recent: recent,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Socratic"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Take tests with an AI tutor at your side"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))

	if len(h.recent) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Recent results")))
		b.WriteString("\n")
		for _, r := range h.recent {
			line := fmt.Sprintf("%s  %s  %.0f%%  (%d/%d)",
				r.FinishedAt.Format("Jan 2"), r.TestName, r.Score, r.Correct, r.Total)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
