package constants

// Buffer size constants in bytes
const (
	// ScannerBufferSize is the initial size of a producer's line buffer (64KB)
	ScannerBufferSize = 64 * 1024

	// MaxLineLength is the longest line a producer accepts before it gives up
	// on the stream (1MB)
	MaxLineLength = 1024 * 1024
)
