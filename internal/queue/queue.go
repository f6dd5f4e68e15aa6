// Package queue provides the work queue shared by producers and consumers:
// an unbounded, blocking, multi-producer multi-consumer FIFO.
//
// Put never blocks and never fails. Take blocks until an item is available
// or its context is done. A queue carries two kinds of items, line records
// and stop markers, and the two can never be confused by a consumer.
package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/line"
)

// Item is what travels through the queue: either a line record or a stop
// marker (also known as poison pill).
type Item struct {
	record line.Record
	stop   bool
}

// LineItem wraps a record for the queue.
func LineItem(r line.Record) Item {
	return Item{record: r}
}

// StopItem returns a stop marker. A consumer which takes one exits.
func StopItem() Item {
	return Item{stop: true}
}

// IsStop reports whether the item is a stop marker.
func (i Item) IsStop() bool {
	return i.stop
}

// Record returns the wrapped record. It is the zero Record for stop markers.
func (i Item) Record() line.Record {
	return i.record
}

// Queue is safe for concurrent use by any number of goroutines.
type Queue struct {
	mu    sync.Mutex
	items []Item
	head  int
	// wake holds at most one token. Whoever receives it re-arms it if items
	// are left, so a single Put wakes one waiter and a burst of Puts wakes
	// waiters one after another.
	wake chan struct{}
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Put appends an item to the tail of the queue.
func (q *Queue) Put(item Item) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
	q.signal()
}

// Take removes and returns the item at the head of the queue, blocking while
// the queue is empty. It returns ErrQueueInterrupted when ctx is done first.
func (q *Queue) Take(ctx context.Context) (Item, error) {
	for {
		if item, ok := q.pop(); ok {
			return item, nil
		}
		select {
		case <-q.wake:
		case <-ctx.Done():
			return Item{}, fmt.Errorf("%w: %w", errors.ErrQueueInterrupted, ctx.Err())
		}
	}
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

func (q *Queue) pop() (Item, bool) {
	q.mu.Lock()
	if q.head == len(q.items) {
		q.mu.Unlock()
		return Item{}, false
	}
	item := q.items[q.head]
	q.items[q.head] = Item{}
	q.head++
	remaining := len(q.items) - q.head
	q.compact()
	q.mu.Unlock()

	if remaining > 0 {
		q.signal()
	}
	return item, true
}

// compact reclaims the consumed prefix of the backing slice. Must be called
// with mu held.
func (q *Queue) compact() {
	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head > 1024 && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
