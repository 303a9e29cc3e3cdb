// Package stream provides access to timestamped CAN payloads.
package stream

import (
	"sort"
	"sync"

	"github.com/cristianoliveira/cansig/internal/dbc"
)

// Event is one received payload. Timestamp is in seconds since the
// start of the recording.
type Event struct {
	Timestamp float64
	Data      []byte
}

// CanData is the latest state of a message.
type CanData struct {
	Timestamp float64
	Data      []byte
	Count     int
}

// Stream is the read side of a live or replayed CAN source.
type Stream interface {
	// LastMessage returns the most recent payload of id; Data is empty
	// when nothing was received yet.
	LastMessage(id dbc.MessageID) CanData
	// SamplesInWindow returns the payloads of id with start <= ts <= end.
	SamplesInWindow(id dbc.MessageID, start, end float64) []Event
}

// ReceivedFunc is called with the ids that received payloads.
type ReceivedFunc func(ids map[dbc.MessageID]struct{})

// Replay is an in-memory recording played back by moving a cursor.
// Reads are safe from multiple goroutines.
type Replay struct {
	mu          sync.RWMutex
	events      map[dbc.MessageID][]Event
	current     float64
	subscribers []ReceivedFunc
}

// NewReplay creates an empty replay positioned at time 0.
func NewReplay() *Replay {
	return &Replay{events: make(map[dbc.MessageID][]Event)}
}

var _ Stream = (*Replay)(nil)

// Append records a payload, keeping per-message order by timestamp.
func (r *Replay) Append(id dbc.MessageID, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	evs := r.events[id]
	pos := sort.Search(len(evs), func(i int) bool { return evs[i].Timestamp > ev.Timestamp })
	evs = append(evs, Event{})
	copy(evs[pos+1:], evs[pos:])
	evs[pos] = Event{Timestamp: ev.Timestamp, Data: append([]byte(nil), ev.Data...)}
	r.events[id] = evs
}

// Subscribe registers fn for received notifications.
func (r *Replay) Subscribe(fn ReceivedFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// IDs returns all recorded message ids in ascending order.
func (r *Replay) IDs() []dbc.MessageID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]dbc.MessageID, 0, len(r.events))
	for id := range r.events {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Events returns a copy of all recorded payloads of id.
func (r *Replay) Events(id dbc.MessageID) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Event(nil), r.events[id]...)
}

// Bounds returns the first and last recorded timestamps.
func (r *Replay) Bounds() (first, last float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := false
	for _, evs := range r.events {
		if len(evs) == 0 {
			continue
		}
		if !seen || evs[0].Timestamp < first {
			first = evs[0].Timestamp
		}
		if !seen || evs[len(evs)-1].Timestamp > last {
			last = evs[len(evs)-1].Timestamp
		}
		seen = true
	}
	return first, last
}

// Current returns the replay cursor.
func (r *Replay) Current() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Seek moves the cursor to ts and notifies subscribers about the
// messages received between the old and the new cursor.
func (r *Replay) Seek(ts float64) {
	r.mu.Lock()
	from, to := r.current, ts
	if to < from {
		from, to = to, from
	}
	received := make(map[dbc.MessageID]struct{})
	for id, evs := range r.events {
		i := sort.Search(len(evs), func(i int) bool { return evs[i].Timestamp > from })
		if i < len(evs) && evs[i].Timestamp <= to {
			received[id] = struct{}{}
		}
	}
	r.current = ts
	subs := append([]ReceivedFunc(nil), r.subscribers...)
	r.mu.Unlock()

	if len(received) == 0 {
		return
	}
	for _, fn := range subs {
		fn(received)
	}
}

// LastMessage returns the latest payload of id at or before the cursor.
func (r *Replay) LastMessage(id dbc.MessageID) CanData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	evs := r.events[id]
	n := sort.Search(len(evs), func(i int) bool { return evs[i].Timestamp > r.current })
	if n == 0 {
		return CanData{}
	}
	last := evs[n-1]
	return CanData{Timestamp: last.Timestamp, Data: append([]byte(nil), last.Data...), Count: n}
}

// SamplesInWindow returns the payloads of id with start <= ts <= end.
func (r *Replay) SamplesInWindow(id dbc.MessageID, start, end float64) []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	evs := r.events[id]
	first := sort.Search(len(evs), func(i int) bool { return evs[i].Timestamp >= start })
	last := sort.Search(len(evs), func(i int) bool { return evs[i].Timestamp > end })
	if first >= last {
		return nil
	}
	return append([]Event(nil), evs[first:last]...)
}
