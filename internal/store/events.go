package store

import (
	"sync"
	"time"
)

// EventOp categorizes a store operation.
type EventOp string

const (
	OpInsert EventOp = "INSERT"
	OpUpdate EventOp = "UPDATE"
	OpDelete EventOp = "DELETE"
	OpQuery  EventOp = "QUERY"
	OpSync   EventOp = "SYNC"
)

// Event describes one store operation for observers (CLI verbose output,
// telemetry). The store owns no display formatting.
type Event struct {
	Op        EventOp   `json:"op"`
	ThoughtID string    `json:"thought_id,omitempty"`
	Detail    string    `json:"detail"`
	Time      time.Time `json:"time"`
}

const eventRingSize = 50

// eventLog is a bounded ring of recent events with subscribers.
type eventLog struct {
	mu     sync.Mutex
	recent []Event // newest first
	subs   map[int]func(Event)
	nextID int
}

func newEventLog() *eventLog {
	return &eventLog{subs: make(map[int]func(Event))}
}

func (l *eventLog) emit(e Event) {
	l.mu.Lock()
	l.recent = append([]Event{e}, l.recent...)
	if len(l.recent) > eventRingSize {
		l.recent = l.recent[:eventRingSize]
	}
	subs := make([]func(Event), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

func (l *eventLog) subscribe(fn func(Event)) func() {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

// Recent returns a snapshot of the retained events, newest first.
func (l *eventLog) Recent() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.recent))
	copy(out, l.recent)
	return out
}
