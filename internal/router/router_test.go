package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/socraticlabs/socratic-cli/internal/screen"
)

type fakeScreen struct {
	name      string
	initCount int
	lastMsg   tea.Msg
}

func (f *fakeScreen) Init() tea.Cmd {
	f.initCount++
	return nil
}

func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	f.lastMsg = msg
	return f, nil
}

func (f *fakeScreen) View(int, int) string { return f.name }
func (f *fakeScreen) Title() string        { return f.name }

type pingMsg struct{}

func TestRouter_PushAndPop(t *testing.T) {
	home := &fakeScreen{name: "home"}
	r := New(home)

	child := &fakeScreen{name: "child"}
	r.Update(PushScreenMsg{Screen: child})

	if r.Depth() != 2 || r.Active() != screen.Screen(child) {
		t.Fatalf("after push: depth %d, active %q", r.Depth(), r.Active().Title())
	}
	if child.initCount != 1 {
		t.Errorf("pushed screen Init ran %d times, want 1", child.initCount)
	}

	r.Update(PopScreenMsg{})
	if r.Depth() != 1 || r.Active() != screen.Screen(home) {
		t.Fatalf("after pop: depth %d, active %q", r.Depth(), r.Active().Title())
	}
}

func TestRouter_PopKeepsBottomScreen(t *testing.T) {
	home := &fakeScreen{name: "home"}
	r := New(home)

	r.Update(PopScreenMsg{})
	r.Update(PopScreenMsg{})

	if r.Depth() != 1 {
		t.Errorf("depth = %d after popping at the bottom, want 1", r.Depth())
	}
	if r.Active() != screen.Screen(home) {
		t.Error("bottom screen must survive pops")
	}
}

func TestRouter_ReplaceSwapsInPlace(t *testing.T) {
	home := &fakeScreen{name: "home"}
	r := New(home)
	r.Update(PushScreenMsg{Screen: &fakeScreen{name: "join"}})

	sess := &fakeScreen{name: "session"}
	r.Update(ReplaceScreenMsg{Screen: sess})

	if r.Depth() != 2 {
		t.Errorf("depth = %d after replace, want 2", r.Depth())
	}
	if r.Active() != screen.Screen(sess) {
		t.Errorf("active = %q, want session", r.Active().Title())
	}
	if sess.initCount != 1 {
		t.Errorf("replacement Init ran %d times, want 1", sess.initCount)
	}

	// Popping after a replace skips the replaced screen entirely.
	r.Update(PopScreenMsg{})
	if r.Active() != screen.Screen(home) {
		t.Errorf("active = %q after pop, want home", r.Active().Title())
	}
}

func TestRouter_ForwardsOtherMessagesToActive(t *testing.T) {
	home := &fakeScreen{name: "home"}
	top := &fakeScreen{name: "top"}
	r := New(home)
	r.Push(top)

	r.Update(pingMsg{})

	if _, ok := top.lastMsg.(pingMsg); !ok {
		t.Errorf("active screen got %T, want pingMsg", top.lastMsg)
	}
	if home.lastMsg != nil {
		t.Error("inactive screen must not receive messages")
	}
}
