package session

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/moshez/Pomodouroboros/internal/intention"
	"github.com/moshez/Pomodouroboros/internal/interval"
	"github.com/moshez/Pomodouroboros/internal/nexus"
)

// Publisher is a nexus.UIEventListener that rewrites the status file after
// every state change. Plain progress ticks are not written.
type Publisher struct {
	n       *nexus.Nexus
	store   Store
	log     *zap.Logger
	started time.Time

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewPublisher returns a Publisher reading from n. Call it from the factory
// passed to nexus.New.
func NewPublisher(n *nexus.Nexus, store Store, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{n: n, store: store, log: log.Named("session"), started: time.Now(), Now: time.Now}
}

// Publish writes the current snapshot.
func (p *Publisher) Publish() {
	s := Snapshot(p.n, p.Now())
	s.PID = os.Getpid()
	s.StartedAt = p.started
	if err := p.store.Save(&s); err != nil {
		p.log.Warn("publishing status", zap.Error(err))
	}
}

func (p *Publisher) IntervalStart(interval.Interval) { p.Publish() }

func (p *Publisher) IntervalProgress(fraction float64) {
	if fraction >= 1 {
		p.Publish()
	}
}

// IntervalEnd is always followed by IntervalStart, which publishes.
func (p *Publisher) IntervalEnd() {}

func (p *Publisher) IntentionAdded(intention.Intention)     { p.Publish() }
func (p *Publisher) IntentionAbandoned(intention.Intention) { p.Publish() }
func (p *Publisher) IntentionCompleted(intention.Intention) { p.Publish() }
