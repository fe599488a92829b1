package join

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/socraticlabs/socratic-cli/internal/router"
)

func testJoinScreen() *JoinScreen {
	return New(nil, nil, "user-1", zerolog.Nop())
}

func TestJoinScreen_Title(t *testing.T) {
	j := testJoinScreen()
	if j.Title() != "Join a Test" {
		t.Errorf("Title = %q, want %q", j.Title(), "Join a Test")
	}
}

func TestJoinScreen_EmptyCodeRejected(t *testing.T) {
	j := testJoinScreen()
	_, cmd := j.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no command for an empty code")
	}
	if j.errMsg == "" {
		t.Error("expected an error message for an empty code")
	}
}

func TestJoinScreen_EnterStartsSession(t *testing.T) {
	j := testJoinScreen()
	j.input.Model.SetValue("  ABC123  ")

	_, cmd := j.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command for a valid code")
	}

	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want ReplaceScreenMsg", msg)
	}
	if replace.Screen == nil {
		t.Error("expected a session screen")
	}
}

func TestJoinScreen_EscGoesBack(t *testing.T) {
	j := testJoinScreen()
	_, cmd := j.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg on Esc")
	}
}
