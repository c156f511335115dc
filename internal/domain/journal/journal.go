package journal

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultCapacity = 500

// Journal keeps the latest entries in memory, newest first, and fans every
// entry out to its sinks. Clear only empties the in-memory view.
type Journal struct {
	mu        sync.RWMutex
	sessionID string
	capacity  int
	entries   []Entry
	sinks     []Sink
	now       func() time.Time

	// OnSinkError is called when a sink rejects an entry.
	OnSinkError func(error)
}

func New(sessionID string, capacity int, now func() time.Time, sinks ...Sink) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &Journal{
		sessionID: sessionID,
		capacity:  capacity,
		now:       now,
		sinks:     sinks,
	}
}

// Add stamps and stores an entry, then forwards it to the sinks.
func (j *Journal) Add(ctx context.Context, level Level, msg string) Entry {
	e := Entry{
		ID:        uuid.New().String(),
		SessionID: j.sessionID,
		Level:     level,
		Message:   msg,
		Time:      j.now(),
	}

	j.mu.Lock()
	j.entries = append([]Entry{e}, j.entries...)
	if len(j.entries) > j.capacity {
		j.entries = j.entries[:j.capacity]
	}
	sinks := j.sinks
	onErr := j.OnSinkError
	j.mu.Unlock()

	for _, s := range sinks {
		if err := s.Append(ctx, e); err != nil && onErr != nil {
			onErr(err)
		}
	}
	return e
}

// Entries returns a copy, newest first.
func (j *Journal) Entries() []Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

func (j *Journal) Clear() {
	j.mu.Lock()
	j.entries = nil
	j.mu.Unlock()
}

func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}
