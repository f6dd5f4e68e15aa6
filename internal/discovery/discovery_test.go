package discovery

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mimecast/urlgrep/internal/testutil"
)

func TestFromComma(t *testing.T) {
	tests := []struct {
		name string
		list string
		want []string
	}{
		{"single", "http://a", []string{"http://a"}},
		{"multiple", "http://a,/var/log/b,ssh://host/c", []string{"http://a", "/var/log/b", "ssh://host/c"}},
		{"spaces", " http://a , http://b ", []string{"http://a", "http://b"}},
		{"empty entries", ",http://a,,", []string{"http://a"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FromComma(tt.list)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromReader(t *testing.T) {
	sources, err := FromReader(strings.NewReader("a\n\n# comment\n  b \r\nc"))
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff([]string{"a", "b", "c"}, sources); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromFile(t *testing.T) {
	path := testutil.TempFile(t, "http://a:8080/x\n# comment line\n\n/var/log/y\n")

	sources, err := FromFile(path)
	testutil.AssertNoError(t, err)
	if diff := cmp.Diff([]string{"http://a:8080/x", "/var/log/y"}, sources); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	_, err = FromFile(path + ".missing")
	testutil.AssertError(t, err, "opening sources file")
}
