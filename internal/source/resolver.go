// Package source resolves source identifiers to readable streams. A source
// identifier is an HTTP(S) URL, an ssh://[user@]host[:port]/path URL, a
// file:// URL or a plain local path. Streams of identifiers ending in ".zst"
// or ".gz" are decompressed transparently.
package source

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/mimecast/urlgrep/internal/errors"
)

// Resolver opens the stream behind a source identifier. Implementations must
// be safe for concurrent use, one producer per source calls Open at the same
// time as all others.
type Resolver interface {
	Open(ctx context.Context, id string) (io.ReadCloser, error)
}

// Kind is the transport a source identifier resolves through.
type Kind int

// Transports understood by Mux.
const (
	KindUnsupported Kind = iota
	KindFile
	KindHTTP
	KindSSH
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindHTTP:
		return "http"
	case KindSSH:
		return "ssh"
	default:
		return "unsupported"
	}
}

// KindOf classifies a source identifier.
func KindOf(id string) Kind {
	scheme, _, found := strings.Cut(id, "://")
	if !found {
		return KindFile
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
		return KindHTTP
	case "ssh":
		return KindSSH
	case "file":
		return KindFile
	default:
		return KindUnsupported
	}
}

// Mux dispatches identifiers to the resolver for their transport and wraps
// the result with a decompressor where the identifier asks for one.
type Mux struct {
	Files Resolver
	HTTP  Resolver
	SSH   Resolver
}

var _ Resolver = (*Mux)(nil)

// Open resolves id through the transport KindOf selects.
func (m *Mux) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	var resolver Resolver
	switch KindOf(id) {
	case KindFile:
		resolver = m.Files
	case KindHTTP:
		resolver = m.HTTP
	case KindSSH:
		resolver = m.SSH
	}
	if resolver == nil {
		return nil, errors.Wrapf(errors.ErrUnsupportedSource, "%s", id)
	}

	rc, err := resolver.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return decompress(id, rc)
}

// pathOf returns the path component of id, used to pick a decompressor.
func pathOf(id string) string {
	if !strings.Contains(id, "://") {
		return id
	}
	u, err := url.Parse(id)
	if err != nil {
		return id
	}
	return u.Path
}
