// Package pool recycles the scanner buffers producers read lines into.
package pool

import (
	"sync"

	"github.com/mimecast/urlgrep/internal/constants"
)

// ScannerBufferPool holds initial scanner buffers. bufio.Scanner grows past
// them up to constants.MaxLineLength for longer lines.
var ScannerBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, constants.ScannerBufferSize)
		return &buf
	},
}

// GetScannerBuffer gets a scanner buffer from the pool.
func GetScannerBuffer() *[]byte {
	return ScannerBufferPool.Get().(*[]byte)
}

// PutScannerBuffer returns a scanner buffer to the pool. Buffers of the
// wrong size are dropped.
func PutScannerBuffer(buf *[]byte) {
	if buf == nil || cap(*buf) != constants.ScannerBufferSize {
		return
	}
	*buf = (*buf)[:cap(*buf)]
	ScannerBufferPool.Put(buf)
}
