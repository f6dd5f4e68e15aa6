package grep

import (
	"context"

	"github.com/mimecast/urlgrep/internal/io/dlog"
	"github.com/mimecast/urlgrep/internal/match"
	"github.com/mimecast/urlgrep/internal/queue"
	"github.com/mimecast/urlgrep/internal/sink"
)

// ConsumerStats describes what one consumer did during a run.
type ConsumerStats struct {
	ID      int
	Taken   int
	Matches int
	// Stopped is set when the consumer took its termination marker.
	Stopped bool
	// Err is set when the consumer was interrupted before its marker.
	Err error
}

// Consume takes items from q until it takes a termination marker or ctx is
// done. Records accepted by m are appended to s.
func Consume(ctx context.Context, id int, m match.Matcher, q *queue.Queue, s *sink.Sink) (stats ConsumerStats) {
	stats.ID = id
	logger := dlog.New("consumer").With("consumer", id)

	for {
		item, err := q.Take(ctx)
		if err != nil {
			stats.Err = err
			logger.Debug("Consumer interrupted", "taken", stats.Taken, "error", err)
			return
		}
		if item.IsStop() {
			stats.Stopped = true
			logger.Debug("Consumer stopped", "taken", stats.Taken, "matches", stats.Matches)
			return
		}

		stats.Taken++
		rec := item.Record()
		if m.Match(rec.Text()) {
			s.Append(rec)
			stats.Matches++
		}
	}
}
