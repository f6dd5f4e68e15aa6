package source

import (
	"compress/gzip"
	"io"
	"strings"

	"github.com/DataDog/zstd"

	"github.com/mimecast/urlgrep/internal/errors"
)

// decompress wraps rc with a decompressing reader chosen by the file name
// suffix of id. Closing the result closes rc as well.
func decompress(id string, rc io.ReadCloser) (io.ReadCloser, error) {
	path := pathOf(id)

	switch {
	case strings.HasSuffix(path, ".zst"):
		return &stackedReadCloser{ReadCloser: zstd.NewReader(rc), under: rc}, nil
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(rc)
		if err != nil {
			rc.Close()
			return nil, errors.Wrapf(err, "gzip header of %s", id)
		}
		return &stackedReadCloser{ReadCloser: gz, under: rc}, nil
	default:
		return rc, nil
	}
}

type stackedReadCloser struct {
	io.ReadCloser
	under io.Closer
}

func (s *stackedReadCloser) Close() error {
	err := s.ReadCloser.Close()
	if underErr := s.under.Close(); err == nil {
		err = underErr
	}
	return err
}
