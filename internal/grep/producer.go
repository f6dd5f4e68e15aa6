package grep

import (
	"bufio"
	"context"
	"time"

	"github.com/mimecast/urlgrep/internal/constants"
	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/io/dlog"
	"github.com/mimecast/urlgrep/internal/io/pool"
	"github.com/mimecast/urlgrep/internal/line"
	"github.com/mimecast/urlgrep/internal/queue"
	"github.com/mimecast/urlgrep/internal/source"
)

// SourceStats is the outcome of producing a single source.
type SourceStats struct {
	Source string
	// Lines enqueued from the source.
	Lines int
	// Matches among those lines, filled in by the Coordinator.
	Matches  int
	Err      error
	Duration time.Duration
}

// Produce streams src line by line into q. Lines are numbered from 1 in
// the order they are read. Failures end the source early and are returned
// in the stats as *errors.SourceError; lines enqueued before a read failure
// stay enqueued.
func Produce(ctx context.Context, src string, resolver source.Resolver, q *queue.Queue) (stats SourceStats) {
	start := time.Now()
	stats.Source = src
	logger := dlog.New("producer").With("source", src)
	defer func() {
		stats.Duration = time.Since(start)
		logger.Debug("Producer done", "lines", stats.Lines, "duration", stats.Duration)
	}()

	rc, err := resolver.Open(ctx, src)
	if err != nil {
		stats.Err = errors.NewSourceError(src, errors.StreamOpen, err)
		logger.Warn("Unable to open source", "error", err)
		return
	}
	defer rc.Close()

	buf := pool.GetScannerBuffer()
	defer pool.PutScannerBuffer(buf)

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(*buf, constants.MaxLineLength)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			stats.Err = errors.NewSourceError(src, errors.StreamRead, err)
			logger.Warn("Source interrupted", "lines", stats.Lines)
			return
		}
		stats.Lines++
		q.Put(queue.LineItem(line.New(src, stats.Lines, scanner.Text())))
	}
	if err := scanner.Err(); err != nil {
		stats.Err = errors.NewSourceError(src, errors.StreamRead, err)
		logger.Warn("Unable to read source", "lines", stats.Lines, "error", err)
	}
	return
}
