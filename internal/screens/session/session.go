package session

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/socraticlabs/socratic-cli/internal/api"
	"github.com/socraticlabs/socratic-cli/internal/router"
	"github.com/socraticlabs/socratic-cli/internal/screen"
	sess "github.com/socraticlabs/socratic-cli/internal/session"
	"github.com/socraticlabs/socratic-cli/internal/store"
	"github.com/socraticlabs/socratic-cli/internal/ui/components"
	"github.com/socraticlabs/socratic-cli/internal/ui/layout"
)

// Repository is the slice of the platform client the session screen needs.
type Repository interface {
	FetchAssessment(ctx context.Context, code string) (*api.Assessment, error)
	Chat(ctx context.Context, req api.ChatRequest) (string, error)
	SubmitAnswer(ctx context.Context, req api.AnswerRequest) (bool, error)
	FinishTest(ctx context.Context, req api.FinishRequest) (*api.FinishResult, error)
}

// SessionScreen implements screen.Screen for an active test session.
type SessionScreen struct {
	repo    Repository
	results store.ResultRepo
	code    string
	userID  string
	log     zerolog.Logger

	state           *sess.State
	input           components.TextInput
	pendingChat     map[int]bool
	reviewSelected  int
	showQuitConfirm bool
	errMsg          string
	submitErr       string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a session screen that joins the test with the given code.
func New(repo Repository, results store.ResultRepo, code, userID string, log zerolog.Logger) *SessionScreen {
	return &SessionScreen{
		repo:        repo,
		results:     results,
		code:        code,
		userID:      userID,
		log:         log,
		input:       components.NewTextInput("Ask a question or give your answer...", 0),
		pendingChat: make(map[int]bool),
	}
}

func (s *SessionScreen) Init() tea.Cmd {
	return tea.Batch(
		s.loadAssessment(),
		s.input.Init(),
	)
}

func (s *SessionScreen) Title() string {
	if s.state != nil {
		return s.state.Assessment.Name
	}
	return "Test Session"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	if s.showQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave test"},
			{Key: "N", Description: "Keep going"},
		}
	}
	if s.state == nil {
		return nil
	}
	switch s.state.Phase {
	case sess.PhaseInProgress:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send"},
			{Key: "Ctrl+N", Description: "Next"},
			{Key: "Ctrl+P", Description: "Back"},
			{Key: "Esc", Description: "Leave"},
		}
	case sess.PhaseReview:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Select"},
			{Key: "Enter", Description: "Revisit"},
			{Key: "S", Description: "Submit test"},
			{Key: "Esc", Description: "Leave"},
		}
	case sess.PhaseSubmitting:
		return []layout.KeyHint{}
	}
	return nil
}

func (s *SessionScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, height, s.errMsg)
	}
	if s.state == nil {
		return renderLoading(width, height, s.code)
	}
	if s.showQuitConfirm {
		return renderQuitConfirm(width, height)
	}
	switch s.state.Phase {
	case sess.PhaseReview:
		return s.renderReview(width, height)
	case sess.PhaseSubmitting:
		return renderSubmitting(width, height)
	}
	return s.renderQuestionView(width, height)
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case assessmentLoadedMsg:
		return s.handleLoaded(msg)

	case chatReplyMsg:
		return s.handleChatReply(msg)

	case validationResultMsg:
		return s.handleValidation(msg)

	case finishResultMsg:
		return s.handleFinish(msg)

	case timerTickMsg:
		if s.state == nil {
			return s, nil
		}
		switch s.state.Phase {
		case sess.PhaseInProgress, sess.PhaseReview:
			return s, tickCmd()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.inputActive() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	return s, nil
}

// inputActive reports whether keystrokes should reach the chat input.
func (s *SessionScreen) inputActive() bool {
	return s.state != nil && s.state.Phase == sess.PhaseInProgress && !s.showQuitConfirm
}

// loadAssessment fetches the assessment for the join code.
func (s *SessionScreen) loadAssessment() tea.Cmd {
	repo := s.repo
	code := s.code
	return func() tea.Msg {
		a, err := repo.FetchAssessment(context.Background(), code)
		return assessmentLoadedMsg{Assessment: a, Err: err}
	}
}

func (s *SessionScreen) handleLoaded(msg assessmentLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		if errors.Is(msg.Err, api.ErrNotFound) {
			s.errMsg = "No test found for code \"" + s.code + "\". Check the code and try again."
		} else {
			s.errMsg = "Could not load the test. " + msg.Err.Error()
		}
		return s, nil
	}

	state, err := sess.New(msg.Assessment, uuid.New().String())
	if err != nil {
		s.errMsg = "This test has no questions."
		return s, nil
	}
	s.state = state
	s.log.Info().Str("code", s.code).Str("session_id", state.SessionID).Msg("session started")

	return s, tickCmd()
}

func (s *SessionScreen) handleChatReply(msg chatReplyMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil {
		return s, nil
	}
	delete(s.pendingChat, msg.Position)

	if msg.Err != nil {
		s.log.Warn().Err(msg.Err).Int("position", msg.Position).Msg("chat reply failed")
		_ = s.state.RecordMessage(msg.Position, sess.SenderSystem,
			"The tutor is unavailable right now. Try again in a moment.")
		return s, nil
	}

	_ = s.state.RecordMessage(msg.Position, sess.SenderAI, msg.Reply)
	return s, nil
}

func (s *SessionScreen) handleValidation(msg validationResultMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil {
		return s, nil
	}

	if msg.Err != nil {
		// The attempt stays recorded; correctness just stays unknown.
		// No transcript line: the check runs in the background.
		s.log.Warn().Err(msg.Err).Int("position", msg.Position).Msg("answer validation failed")
		return s, nil
	}

	_ = s.state.SetValidation(msg.Position, msg.Correct)
	if msg.Correct {
		_ = s.state.RecordMessage(msg.Position, sess.SenderSystem, "That's correct!")
	} else {
		_ = s.state.RecordMessage(msg.Position, sess.SenderSystem,
			"Not quite. You can try again or move on.")
	}
	return s, nil
}

func (s *SessionScreen) handleFinish(msg finishResultMsg) (screen.Screen, tea.Cmd) {
	if s.state == nil {
		return s, nil
	}

	if msg.Err != nil {
		s.state.FailSubmit()
		s.submitErr = "Submission failed. Press S to try again."
		s.log.Error().Err(msg.Err).Str("code", s.code).Msg("finish failed")
		return s, nil
	}

	s.state.CompleteSubmit(msg.Result)
	summary := sess.BuildSummary(s.state, msg.Result)
	record := buildRecord(s.state, summary)

	results := s.results
	log := s.log
	return s, func() tea.Msg {
		if results != nil {
			if err := results.Save(context.Background(), record); err != nil {
				log.Error().Err(err).Str("session_id", record.SessionID).Msg("result save failed")
			}
		}
		return router.ReplaceScreenMsg{Screen: newSummaryScreenAdapter(summary)}
	}
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Error state: any key goes back.
	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.state == nil {
		return s, nil
	}

	if s.showQuitConfirm {
		switch key {
		case "y", "Y":
			s.log.Info().Str("session_id", s.state.SessionID).Msg("session abandoned")
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showQuitConfirm = false
		}
		return s, nil
	}

	switch s.state.Phase {
	case sess.PhaseInProgress:
		switch key {
		case "esc":
			s.showQuitConfirm = true
			return s, nil
		case "enter":
			return s.send()
		case "ctrl+n":
			s.state.Next()
			if s.state.Phase == sess.PhaseReview {
				s.reviewSelected = 0
			}
			return s, nil
		case "ctrl+p":
			s.state.Prev()
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case sess.PhaseReview:
		switch key {
		case "esc":
			s.showQuitConfirm = true
		case "up", "k":
			if s.reviewSelected > 0 {
				s.reviewSelected--
			}
		case "down", "j":
			if s.reviewSelected < s.state.LastIndex() {
				s.reviewSelected++
			}
		case "enter":
			s.state.Resume(s.reviewSelected)
		case "s", "S":
			if s.state.BeginSubmit() {
				s.submitErr = ""
				return s, s.finishCmd()
			}
		}
		return s, nil
	}

	return s, nil
}

// send classifies the typed message as a graded attempt or a tutoring query
// and dispatches the matching call.
func (s *SessionScreen) send() (screen.Screen, tea.Cmd) {
	text := strings.TrimSpace(s.input.Value())
	if text == "" {
		return s, nil
	}

	pos := s.state.Current
	q := s.state.CurrentQuestion()
	_ = s.state.RecordMessage(pos, sess.SenderStudent, text)
	s.input.Reset()

	kind, candidate := sess.Classify(text)
	if kind == sess.KindAttempt {
		_ = s.state.RecordAnswerAttempt(pos, candidate)
		return s, s.validateCmd(pos, q, candidate)
	}

	s.pendingChat[pos] = true
	return s, s.chatCmd(pos, q, text)
}

func (s *SessionScreen) chatCmd(pos int, q api.Question, query string) tea.Cmd {
	repo := s.repo
	a := s.state.Assessment
	userID := s.userID
	return func() tea.Msg {
		reply, err := repo.Chat(context.Background(), api.ChatRequest{
			TestCode:       a.Code,
			QuestionID:     q.ID,
			PublicQuestion: q.PublicQuestion,
			Query:          query,
			UserID:         userID,
			IsPracticeExam: a.IsPracticeExam,
		})
		return chatReplyMsg{Position: pos, Reply: reply, Err: err}
	}
}

func (s *SessionScreen) validateCmd(pos int, q api.Question, answer string) tea.Cmd {
	repo := s.repo
	a := s.state.Assessment
	userID := s.userID
	return func() tea.Msg {
		correct, err := repo.SubmitAnswer(context.Background(), api.AnswerRequest{
			UserID:        userID,
			TestCode:      a.Code,
			QuestionID:    q.ID,
			QuestionIndex: pos,
			Answer:        answer,
		})
		return validationResultMsg{Position: pos, Correct: correct, Err: err}
	}
}

func (s *SessionScreen) finishCmd() tea.Cmd {
	repo := s.repo
	a := s.state.Assessment
	userID := s.userID
	return func() tea.Msg {
		result, err := repo.FinishTest(context.Background(), api.FinishRequest{
			UserID:   userID,
			TestID:   a.ID,
			TestCode: a.Code,
		})
		return finishResultMsg{Result: result, Err: err}
	}
}

// buildRecord maps a finished session onto the local history record.
func buildRecord(st *sess.State, sum *sess.Summary) *store.ResultRecord {
	rows := make([]store.QuestionRow, len(sum.Questions))
	for i, q := range sum.Questions {
		rows[i] = store.QuestionRow{
			Position:  q.Position,
			Text:      q.Text,
			Answer:    q.Answer,
			Answered:  q.Answered,
			Validated: q.Validated,
			Correct:   q.Correct,
			Attempts:  q.Attempts,
			TimeSpent: q.TimeSpent,
		}
	}
	return &store.ResultRecord{
		SessionID:    st.SessionID,
		TestCode:     sum.TestCode,
		TestName:     sum.AssessmentName,
		PracticeExam: sum.PracticeExam,
		Score:        sum.Score,
		Correct:      sum.CorrectCount,
		Total:        sum.TotalQuestions,
		Duration:     sum.TotalTime,
		StartedAt:    sum.StartedAt,
		FinishedAt:   sum.FinishedAt,
		Questions:    rows,
	}
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
