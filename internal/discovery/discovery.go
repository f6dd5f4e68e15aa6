// Package discovery builds source lists from the places urlgrep accepts
// them: comma separated strings (environment) and line oriented streams
// such as stdin or a sources file.
package discovery

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mimecast/urlgrep/internal/errors"
)

// FromComma splits a comma separated list. Surrounding whitespace and
// empty entries are dropped.
func FromComma(list string) []string {
	var sources []string
	for _, part := range strings.Split(list, ",") {
		if part = strings.TrimSpace(part); part != "" {
			sources = append(sources, part)
		}
	}
	return sources
}

// FromReader reads one source per line. Blank lines and lines starting
// with '#' are skipped.
func FromReader(r io.Reader) ([]string, error) {
	var sources []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		src := strings.TrimSpace(scanner.Text())
		if src == "" || strings.HasPrefix(src, "#") {
			continue
		}
		sources = append(sources, src)
	}
	return sources, scanner.Err()
}

// FromFile reads the sources listed in the file at path.
func FromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sources file")
	}
	defer f.Close()
	return FromReader(f)
}
