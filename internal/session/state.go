package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/socraticlabs/socratic-cli/internal/api"
)

// ErrNoQuestions is returned when an assessment arrives with an empty
// question list; the caller shows a terminal "no questions" display instead
// of starting a session.
var ErrNoQuestions = errors.New("assessment has no questions")

// Phase is the protocol state of a session.
type Phase int

const (
	PhaseLoading    Phase = iota // Fetching the assessment
	PhaseInProgress              // Working a question
	PhaseReview                  // All questions visited, awaiting submit
	PhaseSubmitting              // Finish call in flight
	PhaseCompleted               // Server result received
	PhaseError                   // Fetch failed; terminal
)

// Sender identifies who produced a transcript message.
type Sender string

const (
	SenderStudent Sender = "student"
	SenderAI      Sender = "ai"
	SenderSystem  Sender = "system"
)

// Message is one transcript entry.
type Message struct {
	Sender  Sender
	Content string
}

// QuestionResult is the per-question record for one session. Transcript,
// answer, and validation fields may be written at any valid position (async
// responses land late); timing fields are only ever touched by navigation.
type QuestionResult struct {
	// StartTime is when this question most recently became current.
	StartTime time.Time

	// EndTime is when the student last navigated away.
	EndTime time.Time

	// TimeSpent accumulates across visits and never decreases.
	TimeSpent time.Duration

	// Answer is the last submitted candidate value.
	Answer string

	// Answered is true once any attempt has been recorded.
	Answered bool

	// Validated/Correct form the tri-state correctness: unknown until the
	// server responds, then a bool.
	Validated bool
	Correct   bool

	// Attempts counts graded answer attempts, never tutoring messages.
	Attempts int

	// Messages is the append-only transcript for this question.
	Messages []Message
}

// State is one student's attempt at an assessment, from fetch to submission.
// It is owned by a single event loop; no internal locking.
type State struct {
	Assessment *api.Assessment
	SessionID  string

	// Current is the active question position while InProgress.
	Current int

	Phase     Phase
	StartTime time.Time

	// Results holds one pre-allocated record per question position.
	Results []*QuestionResult

	// Result is the server's authoritative grading, set on completion.
	Result *api.FinishResult

	// now is the clock; settable in tests.
	now func() time.Time
}

// New builds session state for a fetched assessment, pre-allocating one
// QuestionResult per position and starting the clock on position 0.
func New(a *api.Assessment, sessionID string) (*State, error) {
	return newState(a, sessionID, time.Now)
}

func newState(a *api.Assessment, sessionID string, clock func() time.Time) (*State, error) {
	if len(a.Questions) == 0 {
		return nil, ErrNoQuestions
	}

	now := clock()
	results := make([]*QuestionResult, len(a.Questions))
	for i := range results {
		results[i] = &QuestionResult{}
	}
	results[0].StartTime = now

	return &State{
		Assessment: a,
		SessionID:  sessionID,
		Phase:      PhaseInProgress,
		StartTime:  now,
		Results:    results,
		now:        clock,
	}, nil
}

// Question returns the canonical question at position i.
func (s *State) Question(i int) api.Question {
	return s.Assessment.Questions[i]
}

// CurrentQuestion returns the question at the current position.
func (s *State) CurrentQuestion() api.Question {
	return s.Question(s.Current)
}

// LastIndex returns the highest valid question position.
func (s *State) LastIndex() int {
	return len(s.Assessment.Questions) - 1
}

// ValidPosition reports whether i addresses a question in this session.
func (s *State) ValidPosition(i int) bool {
	return i >= 0 && i < len(s.Results)
}

// RecordMessage appends to the transcript at position pos. Late async
// responses may target a position that is no longer current.
func (s *State) RecordMessage(pos int, sender Sender, content string) error {
	if !s.ValidPosition(pos) {
		return fmt.Errorf("position %d out of range", pos)
	}
	r := s.Results[pos]
	r.Messages = append(r.Messages, Message{Sender: sender, Content: content})
	return nil
}

// RecordAnswerAttempt stores the candidate value and bumps the attempt
// count. Correctness stays unknown until SetValidation.
func (s *State) RecordAnswerAttempt(pos int, value string) error {
	if !s.ValidPosition(pos) {
		return fmt.Errorf("position %d out of range", pos)
	}
	r := s.Results[pos]
	r.Answer = value
	r.Answered = true
	r.Attempts++
	r.Validated = false
	return nil
}

// SetValidation records server-confirmed correctness for a previously
// recorded answer.
func (s *State) SetValidation(pos int, correct bool) error {
	if !s.ValidPosition(pos) {
		return fmt.Errorf("position %d out of range", pos)
	}
	r := s.Results[pos]
	r.Validated = true
	r.Correct = correct
	return nil
}

// Next advances to the following question, or to review when on the last
// one. Returns false (state unchanged) outside InProgress.
func (s *State) Next() bool {
	if s.Phase != PhaseInProgress {
		return false
	}
	s.freeze(s.Current)
	if s.Current >= s.LastIndex() {
		s.Phase = PhaseReview
		return true
	}
	s.Current++
	s.Results[s.Current].StartTime = s.now()
	return true
}

// Prev moves to the previous question. A no-op at position 0.
func (s *State) Prev() bool {
	if s.Phase != PhaseInProgress || s.Current == 0 {
		return false
	}
	s.freeze(s.Current)
	s.Current--
	s.Results[s.Current].StartTime = s.now()
	return true
}

// Resume returns from review to a chosen question; its timing picks back up
// where it left off.
func (s *State) Resume(pos int) bool {
	if s.Phase != PhaseReview || !s.ValidPosition(pos) {
		return false
	}
	s.Phase = PhaseInProgress
	s.Current = pos
	s.Results[pos].StartTime = s.now()
	return true
}

// BeginSubmit moves review into the submitting state.
func (s *State) BeginSubmit() bool {
	if s.Phase != PhaseReview {
		return false
	}
	s.Phase = PhaseSubmitting
	return true
}

// CompleteSubmit records the server result and terminates the session.
func (s *State) CompleteSubmit(result *api.FinishResult) bool {
	if s.Phase != PhaseSubmitting {
		return false
	}
	s.Result = result
	s.Phase = PhaseCompleted
	return true
}

// FailSubmit returns a failed submission to review so the student can retry.
func (s *State) FailSubmit() bool {
	if s.Phase != PhaseSubmitting {
		return false
	}
	s.Phase = PhaseReview
	return true
}

// TotalTimeSpent sums accumulated time across all positions, counting the
// live slice of the current question while one is active.
func (s *State) TotalTimeSpent() time.Duration {
	var total time.Duration
	for i, r := range s.Results {
		total += r.TimeSpent
		if s.Phase == PhaseInProgress && i == s.Current && !r.StartTime.IsZero() {
			total += s.now().Sub(r.StartTime)
		}
	}
	return total
}

// freeze stamps EndTime and folds the live interval into TimeSpent for the
// record at pos.
func (s *State) freeze(pos int) {
	r := s.Results[pos]
	now := s.now()
	if !r.StartTime.IsZero() {
		r.TimeSpent += now.Sub(r.StartTime)
	}
	r.EndTime = now
}
