// Package notify holds the single transient toast for simulated inbound messages.
package notify

import (
	"sync"
	"time"

	"github.com/matheus3301/lmekki/internal/bus"
)

// DefaultLifetime is how long a toast stays visible after it is shown.
const DefaultLifetime = 5 * time.Second

// Toast describes the latest inbound message.
type Toast struct {
	ContactID   string
	ContactName string
	Message     string
	Avatar      string
}

// Presenter shows at most one toast. Publishing replaces the current toast
// and restarts its expiry; there is no queue.
type Presenter struct {
	mu       sync.Mutex
	current  *Toast
	timer    *time.Timer
	gen      uint64
	lifetime time.Duration
	bus      *bus.Bus
}

// NewPresenter creates a presenter whose toasts expire after lifetime.
func NewPresenter(lifetime time.Duration, b *bus.Bus) *Presenter {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Presenter{lifetime: lifetime, bus: b}
}

// Publish displays t, replacing any visible toast.
func (p *Presenter) Publish(t Toast) {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.current = &t
	p.timer = time.AfterFunc(p.lifetime, func() { p.expire(gen) })
	p.mu.Unlock()

	p.bus.Emit(bus.NotifyShown, t)
}

// Dismiss hides the visible toast and cancels its pending expiry.
func (p *Presenter) Dismiss() {
	p.mu.Lock()
	if p.current == nil {
		p.mu.Unlock()
		return
	}
	p.clear()
	p.mu.Unlock()

	p.bus.Emit(bus.NotifyDismissed, nil)
}

// Current returns the visible toast, if any.
func (p *Presenter) Current() (Toast, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return Toast{}, false
	}
	return *p.current, true
}

// Stop cancels any pending expiry without emitting events.
func (p *Presenter) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// expire runs on the timer goroutine. A stale generation means the toast it
// was scheduled for has been replaced or dismissed.
func (p *Presenter) expire(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.current == nil {
		p.mu.Unlock()
		return
	}
	p.clear()
	p.mu.Unlock()

	p.bus.Emit(bus.NotifyDismissed, nil)
}

// clear drops the toast. Caller holds p.mu.
func (p *Presenter) clear() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
	p.current = nil
}
