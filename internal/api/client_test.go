package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "user-1", nil, DefaultTimeouts(), zerolog.Nop())
}

func TestFetchAssessment(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tests/ABC123", r.URL.Path)
		assert.Equal(t, "user-1", r.URL.Query().Get("user_id"))
		_, _ = w.Write([]byte(`{
			"id": 7, "name": "Kinematics Quiz", "isPracticeExam": false,
			"questions": [
				{"id": 1, "public_question": "Find v.", "hidden_values": {"g": 9.8}, "answer": "5", "image_url": "http://img/1.png"},
				{"id": 2, "publicQuestion": "Find t.", "hiddenValues": {"d": 100}, "answer": 12, "imageUrl": ""}
			]
		}`))
	}))

	a, err := c.FetchAssessment(context.Background(), "ABC123")
	require.NoError(t, err)

	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, "ABC123", a.Code)
	assert.Equal(t, "Kinematics Quiz", a.Name)
	require.Len(t, a.Questions, 2)

	// Both key spellings normalize to the same canonical shape.
	assert.Equal(t, "Find v.", a.Questions[0].PublicQuestion)
	assert.Equal(t, "http://img/1.png", a.Questions[0].ImageURL)
	assert.Equal(t, 9.8, a.Questions[0].HiddenValues["g"])
	assert.Equal(t, "Find t.", a.Questions[1].PublicQuestion)
	assert.Equal(t, "12", a.Questions[1].Answer, "numeric answers decode as strings")
}

func TestFetchAssessment_NotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.FetchAssessment(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchAssessment_ServerError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.FetchAssessment(context.Background(), "ABC123")
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchAssessment_SchemaRejection(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Questions missing any question-text key.
		_, _ = w.Write([]byte(`{"id": 7, "questions": [{"id": 1}]}`))
	}))

	_, err := c.FetchAssessment(context.Background(), "ABC123")
	require.ErrorIs(t, err, ErrFetchFailed)
}

func TestChat(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ABC123", req["test_code"])
		assert.Equal(t, "what's an incline?", req["query"])
		_, _ = w.Write([]byte(`{"response": "An incline is a sloped surface."}`))
	}))

	text, err := c.Chat(context.Background(), ChatRequest{
		TestCode:       "ABC123",
		QuestionID:     1,
		PublicQuestion: "Find v.",
		Query:          "what's an incline?",
		UserID:         "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "An incline is a sloped surface.", text)
}

func TestChat_Unavailable(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := c.Chat(context.Background(), ChatRequest{TestCode: "ABC123"})
	require.ErrorIs(t, err, ErrChatUnavailable)
}

func TestSubmitAnswer(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submit-answer", r.URL.Path)
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "5", req["answer"])
		assert.Equal(t, float64(0), req["question_index"])
		_, _ = w.Write([]byte(`{"is_correct": true}`))
	}))

	correct, err := c.SubmitAnswer(context.Background(), AnswerRequest{
		UserID: "user-1", TestCode: "ABC123", QuestionID: 1, QuestionIndex: 0, Answer: "5",
	})
	require.NoError(t, err)
	assert.True(t, correct)
}

func TestSubmitAnswer_Failed(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.SubmitAnswer(context.Background(), AnswerRequest{TestCode: "ABC123"})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestFinishTest(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/finish-test", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 55, "test_id": 7, "score": 50, "correct_answers": 1,
			"total_questions": 2, "total_time": 40,
			"start_time": "2026-03-10T09:00:00Z", "end_time": "2026-03-10T09:00:40Z"
		}`))
	}))

	res, err := c.FinishTest(context.Background(), FinishRequest{
		UserID: "user-1", TestID: 7, TestCode: "ABC123",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(50), res.Score)
	assert.Equal(t, 1, res.CorrectAnswers)
	assert.Equal(t, 2, res.TotalQuestions)
	assert.Equal(t, float64(40), res.TotalTime)
}

func TestFinishTest_Failed(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	_, err := c.FinishTest(context.Background(), FinishRequest{TestCode: "ABC123"})
	require.ErrorIs(t, err, ErrSubmissionFailed)
}

func TestQuestion_DualKeyDecodeEquivalence(t *testing.T) {
	snake := []byte(`{"id": 1, "public_question": "Find v.", "hidden_values": {"g": 9.8}, "answer": "5", "image_url": "u"}`)
	camel := []byte(`{"id": 1, "publicQuestion": "Find v.", "hiddenValues": {"g": 9.8}, "answer": "5", "imageUrl": "u"}`)

	var a, b Question
	require.NoError(t, json.Unmarshal(snake, &a))
	require.NoError(t, json.Unmarshal(camel, &b))
	assert.Equal(t, a, b)
}
