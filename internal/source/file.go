package source

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/mimecast/urlgrep/internal/errors"
)

// Files opens local files, given as plain paths or file:// URLs.
type Files struct{}

var _ Resolver = Files{}

// Open opens the file id refers to.
func (Files) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := id
	if strings.HasPrefix(id, "file://") {
		u, err := url.Parse(id)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "%s: %v", id, err)
		}
		path = u.Path
	}
	return os.Open(path)
}
