package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, Name+" "+Version) {
		t.Errorf("unexpected version string %q", s)
	}
	if UserAgent() != "urlgrep/"+Version {
		t.Errorf("unexpected user agent %q", UserAgent())
	}
}
