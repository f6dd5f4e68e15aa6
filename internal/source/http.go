package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/version"
)

// HTTP fetches http:// and https:// sources with a GET request. Redirects
// are followed; any final status outside 2xx fails the open.
type HTTP struct {
	Client *http.Client
}

var _ Resolver = (*HTTP)(nil)

// NewHTTP returns an HTTP resolver whose requests, body included, must
// complete within timeout. A zero timeout means no timeout.
func NewHTTP(timeout time.Duration) *HTTP {
	return &HTTP{Client: &http.Client{Timeout: timeout}}
}

// Open issues the request and returns the response body.
func (h *HTTP) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, id, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", version.UserAgent())

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.Wrapf(errors.ErrUnexpectedStatus, "GET %s: %s", id, resp.Status)
	}
	return resp.Body, nil
}
