// Package simulator injects synthetic inbound messages into inactive contacts.
package simulator

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/matheus3301/lmekki/internal/ids"
	"github.com/matheus3301/lmekki/internal/notify"
	"github.com/matheus3301/lmekki/internal/store"
	"go.uber.org/zap"
)

// DefaultPeriod is the interval between simulated messages.
const DefaultPeriod = 15 * time.Second

// Rand picks uniformly in [0, n).
type Rand interface {
	IntN(n int) int
}

// Simulator delivers one pooled message per tick to a random contact that is
// neither AI-backed nor active.
type Simulator struct {
	dir       *store.Directory
	convs     *store.Conversations
	presenter *notify.Presenter
	pool      []string
	period    time.Duration
	rand      Rand
	logger    *zap.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a simulator. presenter may be nil.
func New(dir *store.Directory, convs *store.Conversations, presenter *notify.Presenter, pool []string, period time.Duration, logger *zap.Logger) *Simulator {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Simulator{
		dir:       dir,
		convs:     convs,
		presenter: presenter,
		pool:      pool,
		period:    period,
		rand:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    logger,
	}
}

// SetRand replaces the random source. Call before Start.
func (s *Simulator) SetRand(r Rand) {
	s.rand = r
}

// Start begins ticking until ctx is cancelled or Stop is called.
func (s *Simulator) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx)
}

// Stop stops the tick loop and waits for it to exit.
func (s *Simulator) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *Simulator) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Tick()
		case <-ctx.Done():
			return
		}
	}
}

// Tick delivers at most one message. Eligibility is evaluated against the
// current directory and active contact. Returns the target id, or "" when
// the tick was skipped.
func (s *Simulator) Tick() string {
	if len(s.pool) == 0 {
		return ""
	}
	active := s.dir.Active()
	var eligible []store.Contact
	for _, c := range s.dir.List() {
		if s.dir.IsAI(c.ID) || c.ID == active {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		s.logger.Debug("no eligible contact, skipping tick")
		return ""
	}

	target := eligible[s.rand.IntN(len(eligible))]
	text := s.pool[s.rand.IntN(len(s.pool))]
	label := ids.Now()

	s.convs.AppendMessage(target.ID, store.Message{
		ID:        ids.NewMessageID(),
		Text:      text,
		Sender:    store.SenderAI,
		Timestamp: label,
	})
	s.dir.RecordSummary(target.ID, text, label)
	unread := s.dir.IncrementUnread(target.ID)

	if s.presenter != nil {
		s.presenter.Publish(notify.Toast{
			ContactID:   target.ID,
			ContactName: target.Name,
			Message:     text,
			Avatar:      target.Avatar,
		})
	}
	s.logger.Debug("simulated inbound message", zap.String("contact", target.ID), zap.Int("unread", unread))
	return target.ID
}
