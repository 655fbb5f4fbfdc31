package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Tables whose inserts are fanned out to live views.
const (
	TablePresenceLog = "presence_log"
	TableActivity    = "participant_activity"
)

// Change describes one insert visible to live subscribers.
type Change struct {
	Table         string          `json:"table"`
	ParticipantID string          `json:"participant_id"`
	Payload       json.RawMessage `json:"payload"`
	At            time.Time       `json:"at"`
}

// Broker fans insert notifications out to subscribers. Write paths publish
// best-effort: a failed or absent fan-out never affects the write itself.
type Broker interface {
	Publish(ctx context.Context, ch Change) error
	// Subscribe registers a listener; the returned cancel func must be
	// called when the listener goes away.
	Subscribe() (<-chan Change, func())
	Close() error
}

// Memory is an in-process broker for single-instance deployments.
type Memory struct {
	mu     sync.Mutex
	subs   map[int]chan Change
	nextID int
	closed bool
}

// NewMemory creates an in-process broker.
func NewMemory() *Memory {
	return &Memory{subs: make(map[int]chan Change)}
}

// Publish delivers the change to every live subscriber. Slow subscribers are
// skipped rather than blocking the write path.
func (b *Memory) Publish(_ context.Context, ch Change) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	for _, sub := range b.subs {
		select {
		case sub <- ch:
		default:
		}
	}
	return nil
}

// Subscribe registers a listener.
func (b *Memory) Subscribe() (<-chan Change, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	sub := make(chan Change, 16)
	b.subs[id] = sub
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s)
		}
	}
	return sub, cancel
}

// Close drops all subscribers.
func (b *Memory) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub)
	}
	return nil
}
