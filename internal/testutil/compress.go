package testutil

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/DataDog/zstd"
)

// compressionWriter is a function that creates a compression writer
type compressionWriter func(io.Writer) (io.WriteCloser, error)

func gzipWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

func zstdWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriterLevel(w, zstd.DefaultCompression), nil
}

// Zstd returns content compressed with zstd.
func Zstd(t *testing.T, content string) []byte {
	t.Helper()
	return compress(t, content, zstdWriter)
}

// Gzip returns content compressed with gzip.
func Gzip(t *testing.T, content string) []byte {
	t.Helper()
	return compress(t, content, gzipWriter)
}

// ZstdFile writes content zstd compressed into a temporary ".zst" file.
func ZstdFile(t *testing.T, content string) string {
	t.Helper()
	return TempFileWithSuffix(t, string(Zstd(t, content)), ".zst")
}

// GzipFile writes content gzip compressed into a temporary ".gz" file.
func GzipFile(t *testing.T, content string) string {
	t.Helper()
	return TempFileWithSuffix(t, string(Gzip(t, content)), ".gz")
}

func compress(t *testing.T, content string, createWriter compressionWriter) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := createWriter(&buf)
	if err != nil {
		t.Fatalf("failed to create compression writer: %v", err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		t.Fatalf("failed to compress: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish compression: %v", err)
	}
	return buf.Bytes()
}
