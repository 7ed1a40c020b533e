package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/nba-playoffs-service/internal/logging"
)

// DefaultDelay is the gap between two delivered notifications.
const DefaultDelay = 1500 * time.Millisecond

// Queue delivers pushed notifications in push order, waiting a fixed delay after each one.
type Queue struct {
	sink   Sink
	delay  time.Duration
	logger *slog.Logger
	now    func() time.Time
	after  func(time.Duration) <-chan time.Time

	mu      sync.Mutex
	pending []Notification
	signal  chan struct{}
}

var _ Notifier = (*Queue)(nil)

// NewQueue builds a queue feeding sink. A non-positive delay selects DefaultDelay.
func NewQueue(sink Sink, delay time.Duration, logger *slog.Logger) *Queue {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Queue{
		sink:   sink,
		delay:  delay,
		logger: logger,
		now:    time.Now,
		after:  time.After,
		signal: make(chan struct{}, 1),
	}
}

// Push enqueues items and returns their ids. Items without an id get a fresh one.
func (q *Queue) Push(items ...Notification) []string {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	now := q.now()

	q.mu.Lock()
	for _, n := range items {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		q.pending = append(q.pending, n)
		ids = append(ids, n.ID)
	}
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return ids
}

// Pending returns how many notifications wait for delivery.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Run delivers until ctx is done. Undelivered items stay queued.
func (q *Queue) Run(ctx context.Context) {
	for {
		n, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.signal:
				continue
			}
		}

		n.DeliveredAt = q.now()
		if q.sink != nil {
			q.sink.Deliver(n)
		}
		logging.Debug(q.logger, "notification delivered", "id", n.ID, "kind", string(n.Kind))

		select {
		case <-ctx.Done():
			return
		case <-q.after(q.delay):
		}
	}
}

func (q *Queue) pop() (Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return Notification{}, false
	}
	n := q.pending[0]
	q.pending = q.pending[1:]
	return n, true
}
