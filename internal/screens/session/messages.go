package session

import (
	"time"

	"github.com/socraticlabs/socratic-cli/internal/api"
)

// assessmentLoadedMsg is sent when the assessment fetch completes.
type assessmentLoadedMsg struct {
	Assessment *api.Assessment
	Err        error
}

// chatReplyMsg carries a tutor response. Position tags the question the
// query was sent from, so a reply that lands after navigation still reaches
// the right transcript.
type chatReplyMsg struct {
	Position int
	Reply    string
	Err      error
}

// validationResultMsg carries the server's verdict on a submitted answer,
// tagged with the question position it was submitted for.
type validationResultMsg struct {
	Position int
	Correct  bool
	Err      error
}

// finishResultMsg is sent when the finish call completes.
type finishResultMsg struct {
	Result *api.FinishResult
	Err    error
}

// timerTickMsg is sent every second to refresh the elapsed display.
type timerTickMsg time.Time
