package api

import (
	"bytes"
	"encoding/json"
	"time"
)

// Assessment is a test or practice exam as served by the platform. Immutable
// for the duration of a session.
type Assessment struct {
	ID             int64      `json:"id"`
	Code           string     `json:"-"` // the join code; set by the client, not the payload
	Name           string     `json:"name"`
	IsPracticeExam bool       `json:"isPracticeExam"`
	Questions      []Question `json:"questions"`
}

// Question is one assessment item in canonical form. The platform serves
// question fields under two key spellings (snake_case from the database
// service, camelCase from older payloads); UnmarshalJSON unifies them here
// so nothing past this package ever sees both.
type Question struct {
	ID             int64
	PublicQuestion string
	HiddenValues   map[string]any
	Answer         string
	ImageURL       string
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID             int64          `json:"id"`
		PublicQuestion string         `json:"publicQuestion"`
		PublicSnake    string         `json:"public_question"`
		HiddenValues   map[string]any `json:"hiddenValues"`
		HiddenSnake    map[string]any `json:"hidden_values"`
		Answer         flexString     `json:"answer"`
		ImageURL       string         `json:"imageUrl"`
		ImageSnake     string         `json:"image_url"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	q.ID = raw.ID
	q.PublicQuestion = firstNonEmpty(raw.PublicQuestion, raw.PublicSnake)
	q.HiddenValues = raw.HiddenValues
	if q.HiddenValues == nil {
		q.HiddenValues = raw.HiddenSnake
	}
	q.Answer = string(raw.Answer)
	q.ImageURL = firstNonEmpty(raw.ImageURL, raw.ImageSnake)
	return nil
}

// flexString accepts a JSON string or bare number; the platform stores
// expected answers as either.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(data)
	return nil
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ChatRequest is the payload for a tutoring exchange.
type ChatRequest struct {
	TestCode       string `json:"test_code"`
	QuestionID     int64  `json:"question_id"`
	PublicQuestion string `json:"public_question"`
	Query          string `json:"query"`
	UserID         string `json:"user_id"`
	IsPracticeExam bool   `json:"isPracticeExam"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// AnswerRequest submits a candidate answer for server-side validation.
type AnswerRequest struct {
	UserID        string `json:"user_id"`
	TestCode      string `json:"test_code"`
	QuestionID    int64  `json:"question_id"`
	QuestionIndex int    `json:"question_index"`
	Answer        string `json:"answer"`
}

type answerResponse struct {
	IsCorrect bool `json:"is_correct"`
}

// FinishRequest asks the platform to grade and close the session.
type FinishRequest struct {
	UserID   string `json:"user_id"`
	TestID   int64  `json:"test_id"`
	TestCode string `json:"test_code"`
}

// FinishResult is the platform's authoritative grading of a session.
type FinishResult struct {
	ID             int64     `json:"id"`
	TestID         int64     `json:"test_id"`
	Score          float64   `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	TotalTime      float64   `json:"total_time"` // seconds
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
}
