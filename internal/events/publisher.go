// Package events defines the outbound sink for auction events.
package events

import (
	"context"
	"sync"

	"github.com/mcoot/auctionhouse/internal/model"
)

// Publisher sends auction events to an external system
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event model.Event) error { return nil }
func (NopPublisher) Close() error                                         { return nil }

// Recording keeps published events in memory
type Recording struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *Recording) Publish(ctx context.Context, event model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recording) Close() error { return nil }

// Events returns a copy of everything published so far
func (r *Recording) Events() []model.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Event(nil), r.events...)
}
