package session

import (
	"regexp"
	"strings"
)

// Kind classifies a chat submission.
type Kind int

const (
	// KindTutoring routes the message to the AI tutor; it is never graded.
	KindTutoring Kind = iota
	// KindAttempt routes the message to server-side answer validation.
	KindAttempt
)

// numberPattern matches the first integer or decimal literal in a message.
// Matches the deployed web client, so negative signs and locale separators
// are not part of the candidate value.
var numberPattern = regexp.MustCompile(`\b\d+(\.\d+)?\b`)

// Classify decides whether a chat message is a graded answer attempt or
// tutoring dialogue. A message grades only when it contains the word
// "answer" (any case) AND at least one numeric literal; the first literal
// becomes the candidate value. Anything else is tutoring.
func Classify(text string) (Kind, string) {
	if !strings.Contains(strings.ToLower(text), "answer") {
		return KindTutoring, ""
	}
	value := numberPattern.FindString(text)
	if value == "" {
		return KindTutoring, ""
	}
	return KindAttempt, value
}
