package dlog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/mimecast/urlgrep/internal/testutil"
)

func TestNewHasComponent(t *testing.T) {
	var buf bytes.Buffer
	Start(slog.LevelDebug, FormatText, &buf)
	defer Discard()

	logger := New("producer")
	logger.Info("hello")

	output := buf.String()
	testutil.AssertContains(t, output, "component=producer")
	testutil.AssertContains(t, output, "hello")
}

func TestStartJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	Start(slog.LevelInfo, FormatJSON, &buf)
	defer Discard()

	New("json-test").Info("json check", "source", "http://a")

	output := buf.String()
	testutil.AssertContains(t, output, `"level":"INFO"`)
	testutil.AssertContains(t, output, `"source":"http://a"`)
}

func TestStartFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	Start(slog.LevelWarn, FormatText, &buf)
	defer Discard()

	logger := New("level-test")
	logger.Info("hidden")
	logger.Warn("shown")

	output := buf.String()
	testutil.AssertNotContains(t, output, "hidden")
	testutil.AssertContains(t, output, "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		level   slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"TRACE", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			level, err := ParseLevel(tt.in)
			if tt.wantErr {
				testutil.AssertError(t, err, "unknown log level")
				return
			}
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, tt.level, level)
		})
	}
}

func TestValidFormat(t *testing.T) {
	testutil.AssertEqual(t, true, ValidFormat("text"))
	testutil.AssertEqual(t, true, ValidFormat("json"))
	testutil.AssertEqual(t, false, ValidFormat("xml"))
}
