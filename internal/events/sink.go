package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Archiver persists events durably. Satisfied by repositories.EventRepo.
type Archiver interface {
	Append(ctx context.Context, event Event) error
}

// Fanout records each event to the archive and the live publisher. Both legs
// are best-effort from the engine's perspective: the engine's own state has
// already committed, so a failed archive or publish is logged, never bubbled
// back into the operation.
type Fanout struct {
	archiver  Archiver
	publisher Publisher
	log       *zap.Logger
}

func NewFanout(archiver Archiver, publisher Publisher, log *zap.Logger) *Fanout {
	return &Fanout{archiver: archiver, publisher: publisher, log: log}
}

func (f *Fanout) Record(ctx context.Context, event Event) {
	if f.archiver != nil {
		if err := f.archiver.Append(ctx, event); err != nil {
			f.log.Error("failed to archive event",
				zap.String("type", event.Type), zap.Error(err))
		}
	}
	if f.publisher != nil {
		if err := f.publisher.Publish(ctx, Stream, event); err != nil {
			f.log.Error("failed to publish event",
				zap.String("type", event.Type), zap.Error(err))
		}
	}
}

// Memory is an append-only in-process event log. Used by tests and as the
// sink when the server runs without redis/postgres.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Record(_ context.Context, event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// All returns a copy of every recorded event in emission order.
func (m *Memory) All() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}
