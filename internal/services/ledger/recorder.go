// Package ledger records committed auction events off the mutation path.
//
// The Recorder observes the store, queues each event, and on its own
// goroutine writes sales to storage and forwards events to a publisher.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/auctionhouse/internal/events"
	"github.com/mcoot/auctionhouse/internal/model"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/storage"
)

const (
	defaultBufferSize = 1024
	writeTimeout      = 5 * time.Second
)

// Recorder persists the sale ledger and publishes events
type Recorder struct {
	storage   storage.Storage
	publisher events.Publisher
	logger    *slog.Logger

	queue chan model.Event
	done  chan struct{}
}

var _ auction.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder. A nil publisher drops events after they are recorded.
func NewRecorder(storage storage.Storage, publisher events.Publisher, logger *slog.Logger) *Recorder {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Recorder{
		storage:   storage,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "ledger")),
		queue:     make(chan model.Event, defaultBufferSize),
		done:      make(chan struct{}),
	}
}

// Observe queues the change's events. It never blocks.
func (r *Recorder) Observe(change auction.Change) {
	for _, e := range change.Events {
		select {
		case r.queue <- e:
		default:
			r.logger.Warn("ledger event dropped - queue full",
				slog.String("type", string(e.Type)))
		}
	}
}

// Run processes queued events until ctx is cancelled, then drains what is left
func (r *Recorder) Run(ctx context.Context) {
	defer close(r.done)
	r.logger.Info("ledger recorder started")
	for {
		select {
		case e := <-r.queue:
			r.handle(e)
		case <-ctx.Done():
			drained := 0
			for {
				select {
				case e := <-r.queue:
					r.handle(e)
					drained++
				default:
					r.logger.Info("ledger recorder stopped", slog.Int("drained", drained))
					return
				}
			}
		}
	}
}

// Done is closed once Run has returned
func (r *Recorder) Done() <-chan struct{} {
	return r.done
}

func (r *Recorder) handle(e model.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	switch e.Type {
	case model.EventPlayerSold:
		if payload, ok := e.Payload.(model.PlayerSoldPayload); ok {
			if err := r.storage.AppendSale(ctx, &payload.Sale); err != nil {
				r.logger.Error("failed to record sale",
					slog.String("player_id", string(payload.Sale.PlayerID)),
					slog.Any("error", err))
			}
		}
	case model.EventAuctionReset:
		if err := r.storage.ClearSales(ctx); err != nil {
			r.logger.Error("failed to clear sale ledger", slog.Any("error", err))
		}
	}

	if err := r.publisher.Publish(ctx, e); err != nil {
		r.logger.Warn("failed to publish event",
			slog.String("type", string(e.Type)),
			slog.Any("error", err))
	}
}
