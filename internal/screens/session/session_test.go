package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/socraticlabs/socratic-cli/internal/api"
	"github.com/socraticlabs/socratic-cli/internal/router"
	"github.com/socraticlabs/socratic-cli/internal/screen"
	sess "github.com/socraticlabs/socratic-cli/internal/session"
	"github.com/socraticlabs/socratic-cli/internal/store"
)

// mockRepo implements Repository for testing.
type mockRepo struct {
	assessment *api.Assessment
	fetchErr   error

	chatReply string
	chatErr   error

	correct     bool
	validateErr error

	result    *api.FinishResult
	finishErr error

	chatCalls   []api.ChatRequest
	answerCalls []api.AnswerRequest
	finishCalls []api.FinishRequest
}

func (m *mockRepo) FetchAssessment(_ context.Context, code string) (*api.Assessment, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	a := *m.assessment
	a.Code = code
	return &a, nil
}

func (m *mockRepo) Chat(_ context.Context, req api.ChatRequest) (string, error) {
	m.chatCalls = append(m.chatCalls, req)
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.chatReply, nil
}

func (m *mockRepo) SubmitAnswer(_ context.Context, req api.AnswerRequest) (bool, error) {
	m.answerCalls = append(m.answerCalls, req)
	if m.validateErr != nil {
		return false, m.validateErr
	}
	return m.correct, nil
}

func (m *mockRepo) FinishTest(_ context.Context, req api.FinishRequest) (*api.FinishResult, error) {
	m.finishCalls = append(m.finishCalls, req)
	if m.finishErr != nil {
		return nil, m.finishErr
	}
	return m.result, nil
}

// mockResults implements store.ResultRepo for testing.
type mockResults struct {
	saved []*store.ResultRecord
}

func (m *mockResults) Save(_ context.Context, rec *store.ResultRecord) error {
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockResults) Recent(_ context.Context, _ int) ([]store.ResultRecord, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlKey(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testAssessment() *api.Assessment {
	return &api.Assessment{
		ID:   7,
		Name: "Kinematics Quiz",
		Questions: []api.Question{
			{ID: 101, PublicQuestion: "What is the slope of the line?"},
			{ID: 102, PublicQuestion: "What is the y-intercept?"},
		},
	}
}

func testSessionScreen() (*SessionScreen, *mockRepo, *mockResults) {
	repo := &mockRepo{
		assessment: testAssessment(),
		chatReply:  "Think about rise over run.",
		correct:    true,
		result: &api.FinishResult{
			Score:          100,
			CorrectAnswers: 2,
			TotalQuestions: 2,
			TotalTime:      90,
		},
	}
	results := &mockResults{}
	s := New(repo, results, "ABC123", "user-1", zerolog.Nop())
	return s, repo, results
}

func loadSession(t *testing.T, s *SessionScreen) {
	t.Helper()
	a := testAssessment()
	a.Code = "ABC123"
	scr, _ := s.Update(assessmentLoadedMsg{Assessment: a})
	if scr.(*SessionScreen).state == nil {
		t.Fatal("expected state after load")
	}
}

func TestSessionScreen_Title(t *testing.T) {
	s, _, _ := testSessionScreen()
	if s.Title() != "Test Session" {
		t.Errorf("Title = %q, want %q", s.Title(), "Test Session")
	}

	loadSession(t, s)
	if s.Title() != "Kinematics Quiz" {
		t.Errorf("Title after load = %q, want assessment name", s.Title())
	}
}

func TestSessionScreen_View_Loading(t *testing.T) {
	s, _, _ := testSessionScreen()
	if s.View(80, 24) == "" {
		t.Error("expected non-empty view for loading state")
	}
}

func TestSessionScreen_LoadNotFound(t *testing.T) {
	s, _, _ := testSessionScreen()
	err := fmt.Errorf("%w: code %q", api.ErrNotFound, "NOPE")
	s.Update(assessmentLoadedMsg{Err: err})

	if s.errMsg == "" {
		t.Fatal("expected error message for unknown code")
	}
	if s.View(80, 24) == "" {
		t.Error("expected non-empty error view")
	}

	// Any key goes back.
	_, cmd := s.Update(keyPress('x'))
	if cmd == nil {
		t.Error("expected a pop command from error state")
	}
}

func TestSessionScreen_LoadEmptyAssessment(t *testing.T) {
	s, _, _ := testSessionScreen()
	s.Update(assessmentLoadedMsg{Assessment: &api.Assessment{Name: "Empty"}})
	if s.errMsg == "" {
		t.Error("expected error message for empty assessment")
	}
	if s.state != nil {
		t.Error("expected no session state for empty assessment")
	}
}

func TestSessionScreen_TutoringExchange(t *testing.T) {
	s, repo, _ := testSessionScreen()
	loadSession(t, s)

	s.input.Model.SetValue("what is an incline?")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a chat command")
	}

	msg := cmd()
	reply, ok := msg.(chatReplyMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want chatReplyMsg", msg)
	}
	s.Update(reply)

	if len(repo.chatCalls) != 1 {
		t.Fatalf("chat calls = %d, want 1", len(repo.chatCalls))
	}
	if repo.chatCalls[0].QuestionID != 101 {
		t.Errorf("chat QuestionID = %d, want 101", repo.chatCalls[0].QuestionID)
	}

	msgs := s.state.Results[0].Messages
	if len(msgs) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(msgs))
	}
	if msgs[0].Sender != sess.SenderStudent || msgs[1].Sender != sess.SenderAI {
		t.Errorf("transcript senders = %v/%v, want student/ai", msgs[0].Sender, msgs[1].Sender)
	}
	if s.state.Results[0].Answered {
		t.Error("tutoring exchange must not record an attempt")
	}
}

func TestSessionScreen_AnswerAttempt(t *testing.T) {
	s, repo, _ := testSessionScreen()
	loadSession(t, s)

	s.input.Model.SetValue("my answer is 42")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected a validation command")
	}

	record := s.state.Results[0]
	if !record.Answered || record.Answer != "42" {
		t.Errorf("record = %+v, want answered with 42", record)
	}
	if record.Validated {
		t.Error("correctness must stay unknown until the server responds")
	}

	msg := cmd()
	verdict, ok := msg.(validationResultMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want validationResultMsg", msg)
	}
	s.Update(verdict)

	if len(repo.answerCalls) != 1 {
		t.Fatalf("answer calls = %d, want 1", len(repo.answerCalls))
	}
	if repo.answerCalls[0].Answer != "42" || repo.answerCalls[0].QuestionIndex != 0 {
		t.Errorf("answer call = %+v, want answer 42 at index 0", repo.answerCalls[0])
	}
	if !record.Validated || !record.Correct {
		t.Error("expected validated correct record after server verdict")
	}
}

func TestSessionScreen_ValidationFailureKeepsAttempt(t *testing.T) {
	s, repo, _ := testSessionScreen()
	repo.validateErr = api.ErrValidationFailed
	loadSession(t, s)

	s.input.Model.SetValue("answer: 7")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(cmd())

	record := s.state.Results[0]
	if !record.Answered {
		t.Error("attempt must survive a validation failure")
	}
	if record.Validated {
		t.Error("failed validation must leave correctness unknown")
	}
	if n := len(record.Messages); n != 1 {
		t.Errorf("transcript has %d messages, want just the student's line; the check is background-only", n)
	}
}

func TestSessionScreen_LateChatReplyRouting(t *testing.T) {
	s, _, _ := testSessionScreen()
	loadSession(t, s)

	// Ask from question 0, then move on before the reply lands.
	s.input.Model.SetValue("help me understand this")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	s.Update(ctrlKey('n'))
	if s.state.Current != 1 {
		t.Fatalf("Current = %d, want 1", s.state.Current)
	}

	s.Update(cmd())

	q0 := s.state.Results[0].Messages
	if len(q0) != 2 || q0[1].Sender != sess.SenderAI {
		t.Errorf("reply should land on question 0, got %+v", q0)
	}
	if len(s.state.Results[1].Messages) != 0 {
		t.Error("reply must not leak into the current question")
	}
}

func TestSessionScreen_NavigationToReview(t *testing.T) {
	s, _, _ := testSessionScreen()
	loadSession(t, s)

	s.Update(ctrlKey('n'))
	s.Update(ctrlKey('n'))

	if s.state.Phase != sess.PhaseReview {
		t.Fatalf("Phase = %v, want review", s.state.Phase)
	}
	if s.View(80, 24) == "" {
		t.Error("expected non-empty review view")
	}
}

func TestSessionScreen_ReviewRevisit(t *testing.T) {
	s, _, _ := testSessionScreen()
	loadSession(t, s)
	s.Update(ctrlKey('n'))
	s.Update(ctrlKey('n'))

	s.Update(keyPress('j'))
	if s.reviewSelected != 1 {
		t.Fatalf("reviewSelected = %d, want 1", s.reviewSelected)
	}

	s.Update(specialKey(tea.KeyEnter))
	if s.state.Phase != sess.PhaseInProgress || s.state.Current != 1 {
		t.Errorf("phase/current = %v/%d, want in-progress/1", s.state.Phase, s.state.Current)
	}
}

func TestSessionScreen_SubmitFlow(t *testing.T) {
	s, repo, results := testSessionScreen()
	loadSession(t, s)
	s.Update(ctrlKey('n'))
	s.Update(ctrlKey('n'))

	_, cmd := s.Update(keyPress('s'))
	if s.state.Phase != sess.PhaseSubmitting {
		t.Fatalf("Phase = %v, want submitting", s.state.Phase)
	}
	if cmd == nil {
		t.Fatal("expected a finish command")
	}

	msg := cmd()
	finish, ok := msg.(finishResultMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want finishResultMsg", msg)
	}
	_, cmd = s.Update(finish)

	if s.state.Phase != sess.PhaseCompleted {
		t.Errorf("Phase = %v, want completed", s.state.Phase)
	}
	if len(repo.finishCalls) != 1 {
		t.Errorf("finish calls = %d, want 1", len(repo.finishCalls))
	}
	if cmd == nil {
		t.Fatal("expected a completion command")
	}

	// The completion command saves history and swaps in the summary.
	out := cmd()
	if _, ok := out.(router.ReplaceScreenMsg); !ok {
		t.Errorf("completion msg = %T, want ReplaceScreenMsg", out)
	}
	if len(results.saved) != 1 {
		t.Fatalf("saved records = %d, want 1", len(results.saved))
	}
	if results.saved[0].TestCode != "ABC123" || results.saved[0].Total != 2 {
		t.Errorf("saved record = %+v", results.saved[0])
	}
}

func TestSessionScreen_SubmitFailureReturnsToReview(t *testing.T) {
	s, repo, _ := testSessionScreen()
	repo.finishErr = api.ErrSubmissionFailed
	loadSession(t, s)
	s.Update(ctrlKey('n'))
	s.Update(ctrlKey('n'))

	_, cmd := s.Update(keyPress('s'))
	s.Update(cmd())

	if s.state.Phase != sess.PhaseReview {
		t.Errorf("Phase = %v, want review after failed submit", s.state.Phase)
	}
	if s.submitErr == "" {
		t.Error("expected a submit error message")
	}

	// Retry is possible.
	_, cmd = s.Update(keyPress('s'))
	if cmd == nil {
		t.Error("expected resubmission to be possible")
	}
}

func TestSessionScreen_QuitConfirm(t *testing.T) {
	s, _, _ := testSessionScreen()
	loadSession(t, s)

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	ss := scr.(*SessionScreen)
	if !ss.showQuitConfirm {
		t.Fatal("expected quit confirmation dialog")
	}

	scr, _ = ss.Update(keyPress('n'))
	ss = scr.(*SessionScreen)
	if ss.showQuitConfirm {
		t.Error("expected quit confirmation to be dismissed")
	}

	scr, _ = ss.Update(specialKey(tea.KeyEscape))
	_, cmd := scr.Update(keyPress('y'))
	if cmd == nil {
		t.Error("expected a pop command after confirming leave")
	}
}

func TestSessionScreen_EmptyMessageIgnored(t *testing.T) {
	s, repo, _ := testSessionScreen()
	loadSession(t, s)

	s.input.Model.SetValue("   ")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for a blank message")
	}
	if len(repo.chatCalls) != 0 || len(repo.answerCalls) != 0 {
		t.Error("blank message must not reach the platform")
	}
}

func TestSessionScreen_TimerTickKeepsTicking(t *testing.T) {
	s, _, _ := testSessionScreen()
	loadSession(t, s)

	_, cmd := s.Update(timerTickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected tick to reschedule while in progress")
	}

	s.state.Phase = sess.PhaseCompleted
	_, cmd = s.Update(timerTickMsg(time.Now()))
	if cmd != nil {
		t.Error("expected tick to stop once completed")
	}
}

func TestSessionScreen_KeyHints(t *testing.T) {
	s, _, _ := testSessionScreen()
	loadSession(t, s)

	hints := s.KeyHints()
	if len(hints) == 0 {
		t.Error("expected non-empty key hints")
	}

	s.Update(ctrlKey('n'))
	s.Update(ctrlKey('n'))
	reviewHints := s.KeyHints()
	if len(reviewHints) == 0 {
		t.Error("expected review key hints")
	}
}
