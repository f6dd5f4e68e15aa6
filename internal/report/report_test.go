package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mimecast/urlgrep/internal/errors"
	"github.com/mimecast/urlgrep/internal/grep"
	"github.com/mimecast/urlgrep/internal/line"
	"github.com/mimecast/urlgrep/internal/testutil"
)

func result() *grep.Result {
	return &grep.Result{
		Matches: []line.Record{
			line.New("http://b", 3, "EECE 210 lab"),
			line.New("http://a", 7, "EECE 210 exam"),
			line.New("http://a", 2, "EECE 210"),
		},
		Sources: []grep.SourceStats{
			{Source: "http://a", Lines: 10, Matches: 2},
			{Source: "http://b", Lines: 5, Matches: 1},
			{Source: "/var/log/missing", Err: errors.NewSourceError("/var/log/missing",
				errors.StreamOpen, fmt.Errorf("no such file"))},
		},
	}
}

func TestReportSorted(t *testing.T) {
	var out bytes.Buffer
	err := New(&out, Options{Sort: true}).Report(result())
	testutil.AssertNoError(t, err)

	want := testutil.Lines(
		"http://a:2:EECE 210",
		"http://a:7:EECE 210 exam",
		"http://b:3:EECE 210 lab",
		"3 lines matched",
	)
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestReportUnsortedKeepsOrder(t *testing.T) {
	var out bytes.Buffer
	res := result()
	testutil.AssertNoError(t, New(&out, Options{}).Report(res))

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	testutil.AssertEqual(t, 4, len(lines))
	testutil.AssertEqual(t, "http://b:3:EECE 210 lab", lines[0])
	// The caller's slice is left alone.
	testutil.AssertEqual(t, "http://b", res.Matches[0].Source())
}

func TestReportEmpty(t *testing.T) {
	var out bytes.Buffer
	testutil.AssertNoError(t, New(&out, Options{Sort: true}).Report(&grep.Result{}))
	testutil.AssertEqual(t, "0 lines matched\n", out.String())
}

func TestReportColor(t *testing.T) {
	text.EnableColors()
	t.Cleanup(text.DisableColors)

	var out bytes.Buffer
	res := &grep.Result{Matches: []line.Record{line.New("A", 1, "x EECE 210 y")}}
	testutil.AssertNoError(t, New(&out, Options{Color: true, Substring: "EECE 210"}).Report(res))

	testutil.AssertContains(t, out.String(), "\x1b[")
	testutil.AssertContains(t, out.String(), "EECE 210")
	testutil.AssertContains(t, out.String(), "1 lines matched")
	testutil.AssertNotContains(t, out.String(), "A:1:x EECE 210 y")
}

func TestStats(t *testing.T) {
	var out bytes.Buffer
	testutil.AssertNoError(t, New(&out, Options{Stats: true}).Report(result()))
	s := out.String()

	for _, want := range []string{"SOURCE", "MATCHES", "http://a", "/var/log/missing",
		"stream open failed", "3 sources", "1 failed", "file", "http"} {
		testutil.AssertContains(t, s, want)
	}
}
