package session

import (
	"github.com/socraticlabs/socratic-cli/internal/screen"
	"github.com/socraticlabs/socratic-cli/internal/screens/summary"
	sess "github.com/socraticlabs/socratic-cli/internal/session"
)

// newSummaryScreenAdapter creates a summary screen from session data.
func newSummaryScreenAdapter(s *sess.Summary) screen.Screen {
	return summary.New(s)
}
