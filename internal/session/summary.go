package session

import (
	"time"

	"github.com/socraticlabs/socratic-cli/internal/api"
)

// QuestionSummary is one row of the end-of-session breakdown.
type QuestionSummary struct {
	Position  int
	Text      string
	Answer    string
	Answered  bool
	Validated bool
	Correct   bool
	Attempts  int
	TimeSpent time.Duration
}

// Summary combines the server's authoritative grading with the local
// per-question records for presentation.
type Summary struct {
	AssessmentName string
	TestCode       string
	PracticeExam   bool

	Score          float64
	CorrectCount   int
	TotalQuestions int
	TotalTime      time.Duration
	StartedAt      time.Time
	FinishedAt     time.Time

	Questions []QuestionSummary
}

// BuildSummary assembles the terminal summary from a completed session. The
// score, counts, and total time come from the server result; per-question
// detail comes from the session's own records.
func BuildSummary(s *State, result *api.FinishResult) *Summary {
	questions := make([]QuestionSummary, len(s.Results))
	for i, r := range s.Results {
		questions[i] = QuestionSummary{
			Position:  i,
			Text:      s.Question(i).PublicQuestion,
			Answer:    r.Answer,
			Answered:  r.Answered,
			Validated: r.Validated,
			Correct:   r.Correct,
			Attempts:  r.Attempts,
			TimeSpent: r.TimeSpent,
		}
	}

	sum := &Summary{
		AssessmentName: s.Assessment.Name,
		TestCode:       s.Assessment.Code,
		PracticeExam:   s.Assessment.IsPracticeExam,
		Questions:      questions,
	}

	if result != nil {
		sum.Score = result.Score
		sum.CorrectCount = result.CorrectAnswers
		sum.TotalQuestions = result.TotalQuestions
		sum.TotalTime = time.Duration(result.TotalTime * float64(time.Second))
		sum.StartedAt = result.StartTime
		sum.FinishedAt = result.EndTime
	}
	if sum.TotalQuestions == 0 {
		sum.TotalQuestions = len(questions)
	}
	return sum
}
