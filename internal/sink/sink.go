package sink

import (
	"sort"
	"sync"

	"github.com/mimecast/urlgrep/internal/line"
)

// Sink is a thread-safe, append-only collection of matched records. The
// order of records is unspecified.
type Sink struct {
	mu      sync.RWMutex
	records []line.Record
}

// New creates an empty sink.
func New() *Sink {
	return &Sink{}
}

// Append adds a record with thread safety.
func (s *Sink) Append(r line.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// Len returns the number of records appended so far.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns a copy of the collected records in append order.
func (s *Sink) Records() []line.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]line.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Sorted returns a copy of the collected records ordered by source and
// line number.
func (s *Sink) Sorted() []line.Record {
	out := s.Records()
	sort.SliceStable(out, func(i, j int) bool {
		return line.Less(out[i], out[j])
	})
	return out
}
