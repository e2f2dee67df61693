package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types, one per successful mutating engine operation.
const (
	EventMinted         = "minted"
	EventListed         = "listed"
	EventSold           = "sold"
	EventAuctionCreated = "auction_created"
	EventBidPlaced      = "bid_placed"
	EventAuctionEnded   = "auction_ended"
)

// Stream is the pub/sub channel every engine event is published on.
const Stream = "events:market"

type Event struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	EmittedAt time.Time      `json:"emitted_at"`
}

func New(eventType string, payload map[string]any) Event {
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}

// Sink is the engine's write-only view of the event log. The engine records
// exactly one event per successful operation and never reads any back.
type Sink interface {
	Record(ctx context.Context, event Event)
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
