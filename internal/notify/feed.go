package notify

import "sync"

const defaultFeedSize = 50

// Feed keeps the most recent delivered notifications, oldest first.
type Feed struct {
	mu    sync.RWMutex
	size  int
	items []Notification
}

var _ Sink = (*Feed)(nil)

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{size: size}
}

func (f *Feed) Deliver(n Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if over := len(f.items) - f.size; over > 0 {
		f.items = append([]Notification(nil), f.items[over:]...)
	}
}

// List returns a copy of the feed.
func (f *Feed) List() []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Notification{}, f.items...)
}
