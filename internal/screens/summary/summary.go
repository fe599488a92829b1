package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/socraticlabs/socratic-cli/internal/router"
	"github.com/socraticlabs/socratic-cli/internal/screen"
	"github.com/socraticlabs/socratic-cli/internal/session"
	"github.com/socraticlabs/socratic-cli/internal/ui/layout"
	"github.com/socraticlabs/socratic-cli/internal/ui/theme"
)

// autoReturnSecs is how long the summary stays up before returning home on
// its own. Any keypress cancels the countdown.
const autoReturnSecs = 30

// tickMsg drives the auto-return countdown.
type tickMsg time.Time

// SummaryScreen displays the graded result of a finished test session.
type SummaryScreen struct {
	summary   *session.Summary
	remaining int // seconds left; -1 once canceled
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{
		summary:   summary,
		remaining: autoReturnSecs,
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return tickCmd()
}

func (s *SummaryScreen) Title() string {
	return "Test Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "any key", Description: "Stay"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.remaining <= 0 {
			return s, nil
		}
		s.remaining--
		if s.remaining == 0 {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, tickCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		// Anything else just cancels the countdown.
		s.remaining = -1
		return s, nil
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	// Title.
	title := "Test complete!"
	if sum.PracticeExam {
		title = "Practice exam complete!"
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s (%s)", sum.AssessmentName, sum.TestCode)))
	b.WriteString("\n\n")

	// Stats line.
	statsLine := fmt.Sprintf("Score: %.0f%%        Correct: %d/%d        Time: %s",
		sum.Score, sum.CorrectCount, sum.TotalQuestions, formatTotal(sum.TotalTime))
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n")
	if !sum.StartedAt.IsZero() {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Started %s    Finished %s",
				sum.StartedAt.Format("15:04:05"), sum.FinishedAt.Format("15:04:05"))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Questions divider.
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Questions")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	// Per-question results.
	for _, q := range sum.Questions {
		glyph := lipgloss.NewStyle().Foreground(theme.TextDim).Render("-")
		answer := "not answered"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if q.Answered {
			glyph = lipgloss.NewStyle().Foreground(theme.TextDim).Render("?")
			answer = q.Answer
			style = lipgloss.NewStyle().Foreground(theme.Text)
			if q.Validated {
				if q.Correct {
					glyph = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
				} else {
					glyph = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
				}
			}
		}

		attempts := ""
		if q.Attempts > 1 {
			attempts = fmt.Sprintf("  (%d attempts)", q.Attempts)
		}

		line := fmt.Sprintf("  Q%d  %s  %s  %s%s    %s",
			q.Position+1, glyph, truncate(q.Text, 40), answer, attempts,
			formatTotal(q.TimeSpent))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")
	}

	// Countdown.
	if s.remaining > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Italic(true).
			Render(fmt.Sprintf("Returning home in %ds. Press any key to stay.", s.remaining)))
	}

	return b.String()
}

// formatTotal renders a duration in h/m/s units, dropping leading zeros.
func formatTotal(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, sec)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
