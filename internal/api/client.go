package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/socraticlabs/socratic-cli/internal/auth"
)

// Timeouts bounds each call class. The platform guarantees no server-side
// timeout, so the client enforces its own.
type Timeouts struct {
	Fetch    time.Duration
	Chat     time.Duration
	Validate time.Duration
}

// DefaultTimeouts returns the timeouts used when none are configured.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Fetch:    15 * time.Second,
		Chat:     30 * time.Second,
		Validate: 10 * time.Second,
	}
}

// Client talks to the assessment platform. It carries the student identity
// and auth session context so callers never touch ambient credential state.
type Client struct {
	baseURL  string
	userID   string
	creds    *auth.Credentials
	httpc    *http.Client
	timeouts Timeouts
	log      zerolog.Logger
}

// NewClient creates a platform client. creds may be nil for anonymous use
// against a dev server.
func NewClient(baseURL, userID string, creds *auth.Credentials, timeouts Timeouts, log zerolog.Logger) *Client {
	if timeouts.Fetch == 0 {
		timeouts = DefaultTimeouts()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		userID:   userID,
		creds:    creds,
		httpc:    &http.Client{},
		timeouts: timeouts,
		log:      log,
	}
}

// UserID returns the student identity this client was built with.
func (c *Client) UserID() string {
	return c.userID
}

// FetchAssessment loads the assessment for a join code. The returned
// assessment has Code set and every question normalized to the canonical
// shape. 404 maps to ErrNotFound, anything else to ErrFetchFailed.
func (c *Client) FetchAssessment(ctx context.Context, code string) (*Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Fetch)
	defer cancel()

	u := fmt.Sprintf("%s/tests/%s", c.baseURL, url.PathEscape(code))
	if c.userID != "" {
		u += "?user_id=" + url.QueryEscape(c.userID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("code", code).Msg("assessment fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		c.log.Info().Str("code", code).Msg("unknown test code")
		return nil, fmt.Errorf("%w: code %q", ErrNotFound, code)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Str("code", code).Msg("assessment fetch failed")
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFetchFailed, err)
	}

	if err := validateAssessment(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var a Assessment
	if err := json.Unmarshal(body, &a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrFetchFailed, err)
	}
	a.Code = code

	c.log.Info().Str("code", code).Str("name", a.Name).Int("questions", len(a.Questions)).
		Msg("assessment loaded")
	return &a, nil
}

// Chat sends a tutoring query and returns the AI response text.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Chat)
	defer cancel()

	var out chatResponse
	if err := c.postJSON(ctx, "/chat", req, &out); err != nil {
		c.log.Warn().Err(err).Int64("question_id", req.QuestionID).Msg("chat call failed")
		return "", fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}
	return out.Response, nil
}

// SubmitAnswer asks the platform to validate a candidate answer.
func (c *Client) SubmitAnswer(ctx context.Context, req AnswerRequest) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Validate)
	defer cancel()

	var out answerResponse
	if err := c.postJSON(ctx, "/submit-answer", req, &out); err != nil {
		c.log.Warn().Err(err).Int("position", req.QuestionIndex).Msg("answer validation failed")
		return false, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return out.IsCorrect, nil
}

// FinishTest submits the session for grading and returns the authoritative
// result.
func (c *Client) FinishTest(ctx context.Context, req FinishRequest) (*FinishResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Fetch)
	defer cancel()

	var out FinishResult
	if err := c.postJSON(ctx, "/finish-test", req, &out); err != nil {
		c.log.Error().Err(err).Str("code", req.TestCode).Msg("finish call failed")
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}
	c.log.Info().Str("code", req.TestCode).Float64("score", out.Score).Msg("session submitted")
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.creds != nil && c.creds.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	}
}
