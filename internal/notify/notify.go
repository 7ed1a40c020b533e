// Package notify delivers user-facing notifications one at a time with a fixed gap
// between them, so a burst of awards reads as a sequence rather than a pile.
package notify

import (
	"time"
)

// Kind classifies a notification.
type Kind string

const (
	KindAward         Kind = "award"
	KindPlayoffUpdate Kind = "playoff_update"
	KindChampion      Kind = "champion"
	KindError         Kind = "error"
)

// Notification is one message for the user.
type Notification struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	Message     string    `json:"message,omitempty"`
	SeriesID    string    `json:"seriesId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	DeliveredAt time.Time `json:"deliveredAt"`
}

// Notifier accepts notifications for ordered delivery.
type Notifier interface {
	Push(items ...Notification) []string
}

// Sink receives delivered notifications.
type Sink interface {
	Deliver(n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notification)

func (f SinkFunc) Deliver(n Notification) { f(n) }
