package session

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	sess "github.com/socraticlabs/socratic-cli/internal/session"
	"github.com/socraticlabs/socratic-cli/internal/ui/theme"
)

// renderQuestionView renders the active question with its transcript and
// the chat input.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	state := s.state
	q := state.CurrentQuestion()
	record := state.Results[state.Current]

	var b strings.Builder

	// Info line: position on the left, elapsed on the right.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", state.Current+1, state.LastIndex()+1))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Time %s", formatDuration(state.TotalTimeSpent())))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// Question text.
	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(q.PublicQuestion))
	b.WriteString("\n")

	if q.ImageURL != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("[image] " + q.ImageURL))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Answer status line.
	if record.Answered {
		status := "awaiting check"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if record.Validated {
			if record.Correct {
				status = "correct"
				style = lipgloss.NewStyle().Foreground(theme.Success)
			} else {
				status = "incorrect"
				style = lipgloss.NewStyle().Foreground(theme.Error)
			}
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render(style.Render(fmt.Sprintf("Your answer: %s (%s)", record.Answer, status))))
		b.WriteString("\n\n")
	}

	// Transcript: keep the tail that fits.
	b.WriteString(s.renderTranscript(record, width, height))

	if s.pendingChat[state.Current] {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("  Tutor is thinking..."))
		b.WriteString("\n")
	}

	// Input line.
	b.WriteString("\n")
	b.WriteString("  " + s.input.View())

	return b.String()
}

// renderTranscript renders the last few transcript entries for a question.
func (s *SessionScreen) renderTranscript(record *sess.QuestionResult, width, height int) string {
	msgs := record.Messages
	keep := height - 12
	if keep < 4 {
		keep = 4
	}
	if len(msgs) > keep {
		msgs = msgs[len(msgs)-keep:]
	}

	bodyWidth := width - 6
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	var b strings.Builder
	for _, m := range msgs {
		var prefix string
		var style lipgloss.Style
		switch m.Sender {
		case sess.SenderStudent:
			prefix = "You: "
			style = lipgloss.NewStyle().Foreground(theme.Text)
		case sess.SenderAI:
			prefix = "Tutor: "
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		default:
			prefix = "* "
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		line := lipgloss.NewStyle().Width(bodyWidth).Render(prefix + m.Content)
		b.WriteString("  " + style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// renderReview renders the pre-submission review list.
func (s *SessionScreen) renderReview(width, height int) string {
	state := s.state

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Review your answers"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Revisit any question, then press S to submit the test."))
	b.WriteString("\n\n")

	for i, r := range state.Results {
		glyph := lipgloss.NewStyle().Foreground(theme.TextDim).Render("-")
		status := "not answered"
		if r.Answered {
			glyph = lipgloss.NewStyle().Foreground(theme.TextDim).Render("?")
			status = "answered: " + r.Answer
			if r.Validated {
				if r.Correct {
					glyph = lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
				} else {
					glyph = lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
				}
			}
		}

		prefix := "    "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.reviewSelected {
			prefix = "  > "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}

		line := fmt.Sprintf("%sQ%d  %s  %s  (%s)",
			prefix, i+1, glyph, status, formatDuration(r.TimeSpent))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	if s.submitErr != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.submitErr))
		b.WriteString("\n")
	}

	return b.String()
}

// renderQuitConfirm renders the leave confirmation dialog.
func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Leave this test?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("The test has not been submitted. Your answers will be lost."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, leave"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderSubmitting renders the finish-in-flight state.
func renderSubmitting(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Submitting your answers...")
}

// renderLoading renders the loading state.
func renderLoading(width, height int, code string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("\n\n\n  Loading test %s...", code))
}

// renderError renders an error message.
func renderError(width, height int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  %s\n\n  Press any key to go back.", errMsg))
}

// formatDuration renders a duration as m:ss, or h:mm:ss past an hour.
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	sec := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
