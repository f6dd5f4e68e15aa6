package match

import (
	"testing"

	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/testutil"
)

func TestLiteralMatching(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		match   bool
	}{
		{"EECE 210", "EECE 210 lab", true},
		{"EECE 210", "eece 210 lab", false}, // Case sensitive
		{"EECE 210", "EECE 2100", true},
		{"EECE 210", "EECE  210", false},
		{"ERROR", "This is an ERROR message", true},
		{"WARNING", "This is an ERROR message", false},
		{"test", "", false},
		// Metacharacters are literal.
		{".*", "anything", false},
		{".*", "match .* here", true},
		{"a+b", "aab", false},
		{"a+b", "a+b", true},
		{"[abc]", "[abc]", true},
		{"192.168.1.1", "192x168x1x1", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			m, err := New(tt.pattern, Default)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, tt.match, m.Match(tt.text))

			inv, err := New(tt.pattern, Invert)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, !tt.match, inv.Match(tt.text))
		})
	}
}

func TestEmptySubstring(t *testing.T) {
	_, err := New("", Default)
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestUnknownFlag(t *testing.T) {
	_, err := New("x", Flag(7))
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestNewFlag(t *testing.T) {
	tests := []struct {
		in      string
		flag    Flag
		wantErr bool
	}{
		{"", Default, false},
		{"default", Default, false},
		{"invert", Invert, false},
		{"regex", Default, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			flag, err := NewFlag(tt.in)
			if tt.wantErr {
				testutil.AssertError(t, err, "unknown match flag")
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, tt.flag, flag)
			testutil.AssertEqual(t, tt.flag.String(), flag.String())
		})
	}
}

func TestMatcherString(t *testing.T) {
	m, err := New("EECE 210", Invert)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, `Matcher(substring:"EECE 210",flag:invert)`, m.String())
	testutil.AssertEqual(t, "EECE 210", m.Substring())
	testutil.AssertEqual(t, Invert, m.Flag())
}
