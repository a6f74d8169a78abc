package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestViewBindingShadowsGlobal(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal("quit", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "global" }})
	r.AddView("call", "quality", &Action{Key: tcell.KeyRune, Rune: 'q', Handler: func() { got = "view" }})

	ev := tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	if !r.HandleEvent("call", ev) || got != "view" {
		t.Errorf("call view: handled by %q, want view", got)
	}
	if !r.HandleEvent("contacts", ev) || got != "global" {
		t.Errorf("contacts view: handled by %q, want global", got)
	}
}

func TestHandleEventSpecialKey(t *testing.T) {
	r := NewRegistry()
	called := false
	r.AddView("thread", "back", &Action{Key: tcell.KeyEscape, Handler: func() { called = true }})

	if r.HandleEvent("thread", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("rune event should not match KeyEscape binding")
	}
	if !r.HandleEvent("thread", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) || !called {
		t.Error("Escape binding not dispatched")
	}
}

func TestHintsOrder(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal("help", &Action{Description: "?:help", Visible: true})
	r.AddGlobal("hidden", &Action{Description: "x", Visible: false})
	r.AddView("thread", "compose", &Action{Description: "i:compose", Visible: true})
	r.AddView("thread", "call", &Action{Description: "c:call", Visible: true})
	r.AddView("thread", "compose", &Action{Description: "i:write", Visible: true})

	got := r.Hints("thread")
	want := []string{"i:write", "c:call", "?:help"}
	if len(got) != len(want) {
		t.Fatalf("Hints() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Hints()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
