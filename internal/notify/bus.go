package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/metrics"
)

// Publisher delivers notifications somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// Bus fans session notifications out to in-process subscribers and external
// publishers. Subscribers run synchronously in publish order.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(domain.Notification)
	sinks  []Publisher
	logger *zap.Logger
}

func NewBus(logger *zap.Logger, sinks ...Publisher) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{subs: make(map[int]func(domain.Notification)), sinks: sinks, logger: logger}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(domain.Notification)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish never fails the caller; sink errors are logged.
func (b *Bus) Publish(ctx context.Context, n domain.Notification) {
	metrics.NotificationPublished(string(n.Kind))
	b.mu.RLock()
	subs := make([]func(domain.Notification), 0, len(b.subs))
	for id := 0; id < b.nextID; id++ {
		if fn, ok := b.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	sinks := b.sinks
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(n)
	}
	for _, s := range sinks {
		if err := s.Publish(ctx, n); err != nil {
			b.logger.Warn("notification sink failed",
				zap.String("kind", string(n.Kind)),
				zap.String("session_id", n.SessionID),
				zap.Error(err),
			)
		}
	}
}
