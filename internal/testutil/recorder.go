package testutil

import (
	"slices"
	"sync"
)

// Recorder collects every value passed to its Listen method.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Recorder[S any] struct {
	mu   sync.Mutex
	seen []S
}

// NewRecorder creates an empty recorder.
func NewRecorder[S any]() *Recorder[S] {
	return &Recorder[S]{}
}

// Listen records state. Pass it to Subscribe.
func (r *Recorder[S]) Listen(state S) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, state)
}

// Values returns a copy of the recorded values in call order.
func (r *Recorder[S]) Values() []S {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.seen)
}

// Count returns how many values were recorded.
func (r *Recorder[S]) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// Last returns the most recent value, or the zero value if none.
func (r *Recorder[S]) Last() S {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero S
	if len(r.seen) == 0 {
		return zero
	}
	return r.seen[len(r.seen)-1]
}

// Reset forgets every recorded value.
func (r *Recorder[S]) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = nil
}

// Log is an ordered, shared event log used to assert interleavings between
// several listeners, plugins or reducers.
type Log struct {
	mu      sync.Mutex
	entries []string
}

// Add appends entry.
func (l *Log) Add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the log.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}
