// Package grep runs the producer/consumer pipeline: one producer per source
// streams lines into a shared queue, a fixed pool of consumers filters them
// into a sink. Termination uses one stop marker per consumer, enqueued once
// every producer has finished.
package grep

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/io/dlog"
	"github.com/mimecast/urlgrep/internal/line"
	"github.com/mimecast/urlgrep/internal/match"
	"github.com/mimecast/urlgrep/internal/queue"
	"github.com/mimecast/urlgrep/internal/sink"
	"github.com/mimecast/urlgrep/internal/source"
)

// Config of a single run.
type Config struct {
	Substring string
	Invert    bool
	Sources   []string
	Consumers int
}

// State of the Coordinator.
type State int32

// Coordinator states in the order they are passed.
const (
	Init State = iota
	ProducingAndConsuming
	Draining
	Stopping
	Joining
	Done
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case ProducingAndConsuming:
		return "PRODUCING_AND_CONSUMING"
	case Draining:
		return "DRAINING"
	case Stopping:
		return "STOPPING"
	case Joining:
		return "JOINING"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Result of a run.
type Result struct {
	RunID string
	// Matches in unspecified order.
	Matches []line.Record
	// Sources in the order they were configured.
	Sources       []SourceStats
	Consumers     int
	ConsumerStats []ConsumerStats
	// Markers is the number of termination markers enqueued.
	Markers  int
	Duration time.Duration
	// Err collects the source failures as *errors.MultiError, nil if every
	// source was read completely.
	Err error
}

// Coordinator owns the queue and the sink of one run.
type Coordinator struct {
	cfg      Config
	resolver source.Resolver
	matcher  match.Matcher
	queue    *queue.Queue
	sink     *sink.Sink

	runID  string
	state  atomic.Int32
	ran    atomic.Bool
	logger *slog.Logger
}

// New validates cfg and prepares a run.
func New(cfg Config, resolver source.Resolver) (*Coordinator, error) {
	if cfg.Consumers < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument,
			"need at least one consumer, got %d", cfg.Consumers)
	}
	if resolver == nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "no stream resolver")
	}
	flag := match.Default
	if cfg.Invert {
		flag = match.Invert
	}
	matcher, err := match.New(cfg.Substring, flag)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	c := &Coordinator{
		cfg:      cfg,
		resolver: resolver,
		matcher:  matcher,
		queue:    queue.New(),
		sink:     sink.New(),
		runID:    runID,
		logger:   dlog.New("grep").With("run", runID),
	}
	return c, nil
}

// State returns the current state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

func (c *Coordinator) setState(s State) {
	from := State(c.state.Swap(int32(s)))
	c.logger.Debug("State transition", "from", from.String(), "to", s.String())
}

// Run executes the pipeline once. Failed sources do not fail the run, they
// are reported in Result.Err. An error is only returned when ctx ended the
// run before every consumer took its marker; the partial result is returned
// alongside.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "coordinator already ran")
	}
	start := time.Now()
	n := c.cfg.Consumers
	c.logger.Info("Starting run", "sources", len(c.cfg.Sources),
		"consumers", n, "matcher", c.matcher.String())

	c.setState(ProducingAndConsuming)
	consumerStats := make([]ConsumerStats, n)
	var consumers errgroup.Group
	for i := range n {
		consumers.Go(func() error {
			consumerStats[i] = Consume(ctx, i, c.matcher, c.queue, c.sink)
			return consumerStats[i].Err
		})
	}

	sourceStats := make([]SourceStats, len(c.cfg.Sources))
	var producers errgroup.Group
	for i, src := range c.cfg.Sources {
		producers.Go(func() error {
			sourceStats[i] = Produce(ctx, src, c.resolver, c.queue)
			return nil
		})
	}

	c.setState(Draining)
	_ = producers.Wait() // errors captured in sourceStats

	c.setState(Stopping)
	markers := 0
	for range n {
		c.queue.Put(queue.StopItem())
		markers++
	}

	c.setState(Joining)
	consumerErr := consumers.Wait()

	c.setState(Done)
	result := c.result(sourceStats, consumerStats)
	result.Markers = markers
	result.Duration = time.Since(start)

	c.logger.Info("Run finished", "matches", len(result.Matches),
		"failedSources", countFailed(sourceStats), "duration", result.Duration)
	if consumerErr != nil {
		c.logger.Warn("Consumers interrupted", "error", consumerErr)
		return result, consumerErr
	}
	return result, nil
}

func (c *Coordinator) result(sources []SourceStats, consumers []ConsumerStats) *Result {
	matches := c.sink.Records()

	perSource := make(map[string]int, len(sources))
	for _, rec := range matches {
		perSource[rec.Source()]++
	}
	failures := errors.NewMultiError()
	for i := range sources {
		sources[i].Matches = perSource[sources[i].Source]
		failures.Add(sources[i].Err)
	}

	return &Result{
		RunID:         c.runID,
		Matches:       matches,
		Sources:       sources,
		Consumers:     len(consumers),
		ConsumerStats: consumers,
		Err:           failures.ErrorOrNil(),
	}
}

func countFailed(sources []SourceStats) int {
	var failed int
	for _, s := range sources {
		if s.Err != nil {
			failed++
		}
	}
	return failed
}
