package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// StaticResolver serves sources from memory. It satisfies the stream
// resolver interface used by the grep pipeline without any network access.
type StaticResolver struct {
	// Sources maps a source identifier to its full content.
	Sources map[string]string
	// OpenErrors makes Open fail for the given identifiers.
	OpenErrors map[string]error
	// ReadErrors makes the stream fail with the error after its content
	// (taken from Sources) has been read.
	ReadErrors map[string]error

	mu     sync.Mutex
	opened map[string]int
}

// NewStaticResolver returns a resolver serving sources, one entry per
// identifier, each a list of lines.
func NewStaticResolver(sources map[string][]string) *StaticResolver {
	r := &StaticResolver{Sources: make(map[string]string, len(sources))}
	for id, lines := range sources {
		r.Sources[id] = Lines(lines...)
	}
	return r
}

// Open returns the content of source id.
func (r *StaticResolver) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	r.mu.Lock()
	if r.opened == nil {
		r.opened = make(map[string]int)
	}
	r.opened[id]++
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := r.OpenErrors[id]; ok {
		return nil, err
	}
	content, ok := r.Sources[id]
	if !ok {
		return nil, fmt.Errorf("no such source %q", id)
	}
	var reader io.Reader = strings.NewReader(content)
	if err, ok := r.ReadErrors[id]; ok {
		reader = io.MultiReader(reader, &failingReader{err: err})
	}
	return io.NopCloser(reader), nil
}

// Opened returns how often id was opened.
func (r *StaticResolver) Opened(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opened[id]
}

type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}
