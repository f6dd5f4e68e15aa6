// Package match implements the line filter used by consumers: a literal,
// case-sensitive substring test, optionally inverted. There is no regular
// expression support, a pattern is always taken verbatim.
package match

import (
	"fmt"
	"strings"

	"github.com/mimecast/urlgrep/internal/errors"
)

// Flag selects how a line is tested against the substring.
type Flag int

const (
	// Default matches lines containing the substring.
	Default Flag = iota
	// Invert matches lines not containing the substring.
	Invert
)

// NewFlag parses a flag name as used in config files.
func NewFlag(str string) (Flag, error) {
	switch str {
	case "default", "":
		return Default, nil
	case "invert":
		return Invert, nil
	default:
		return Default, errors.Wrapf(errors.ErrInvalidArgument, "unknown match flag %q", str)
	}
}

func (f Flag) String() string {
	switch f {
	case Default:
		return "default"
	case Invert:
		return "invert"
	default:
		return "unknown"
	}
}

// Matcher tests lines for a literal substring. The zero value is not usable,
// construct it with New. A Matcher is immutable and safe for concurrent use.
type Matcher struct {
	substring string
	flag      Flag
}

// New returns a matcher for substring. An empty substring is rejected since
// it would match (or, inverted, reject) every line.
func New(substring string, flag Flag) (Matcher, error) {
	if substring == "" {
		return Matcher{}, errors.Wrap(errors.ErrInvalidArgument, "empty substring")
	}
	if flag != Default && flag != Invert {
		return Matcher{}, errors.Wrapf(errors.ErrInvalidArgument, "match flag %d", flag)
	}
	return Matcher{substring: substring, flag: flag}, nil
}

// Match reports whether text is selected by the matcher.
func (m Matcher) Match(text string) bool {
	contains := strings.Contains(text, m.substring)
	if m.flag == Invert {
		return !contains
	}
	return contains
}

// Substring returns the literal the matcher searches for.
func (m Matcher) Substring() string {
	return m.substring
}

// Flag returns the match flag.
func (m Matcher) Flag() Flag {
	return m.flag
}

func (m Matcher) String() string {
	return fmt.Sprintf("Matcher(substring:%q,flag:%s)", m.substring, m.flag)
}
