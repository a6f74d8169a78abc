package notify

import (
	"testing"
	"time"

	"github.com/matheus3301/lmekki/internal/bus"
)

func TestPublishReplaces(t *testing.T) {
	p := NewPresenter(time.Hour, nil)
	defer p.Stop()

	p.Publish(Toast{ContactName: "Ali", Message: "first"})
	p.Publish(Toast{ContactName: "Fatima", Message: "second"})

	got, ok := p.Current()
	if !ok {
		t.Fatal("expected a visible toast")
	}
	if got.ContactName != "Fatima" || got.Message != "second" {
		t.Errorf("Current() = %+v, want the second toast", got)
	}
}

func TestToastExpires(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("notify.dismissed", 1)
	defer unsub()

	p := NewPresenter(20*time.Millisecond, b)
	p.Publish(Toast{Message: "hi"})

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for expiry")
	}
	if _, ok := p.Current(); ok {
		t.Error("toast still visible after expiry")
	}
}

func TestReplaceResetsExpiry(t *testing.T) {
	p := NewPresenter(80*time.Millisecond, nil)
	defer p.Stop()

	p.Publish(Toast{Message: "first"})
	time.Sleep(50 * time.Millisecond)
	p.Publish(Toast{Message: "second"})
	time.Sleep(50 * time.Millisecond)

	// 100ms after the first publish but only 50ms after the second.
	got, ok := p.Current()
	if !ok || got.Message != "second" {
		t.Errorf("Current() = %+v, %v; want second still visible", got, ok)
	}
}

func TestDismissCancelsExpiry(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("notify.dismissed", 4)
	defer unsub()

	p := NewPresenter(30*time.Millisecond, b)
	p.Publish(Toast{Message: "hi"})
	p.Dismiss()

	if _, ok := p.Current(); ok {
		t.Fatal("toast visible after Dismiss")
	}
	<-ch
	time.Sleep(80 * time.Millisecond)
	select {
	case evt := <-ch:
		t.Errorf("unexpected second dismissal: %+v", evt)
	default:
	}

	// Dismissing with nothing visible is a no-op.
	p.Dismiss()
	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %+v", evt)
	default:
	}
}
