package signal

import (
	"context"
	"os"
	gosignal "os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mimecast/urlgrep/internal/constants"
	"github.com/mimecast/urlgrep/internal/io/dlog"
)

// Terminations are the signals that end a run early.
var Terminations = []os.Signal{os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT}

// CancelOnSignal cancels the returned context when one of the termination
// signals arrives, which interrupts every blocked consumer. A second signal,
// or a shutdown that takes longer than the interrupt timeout, exits the
// process hard. Call stop once the run is over to release the handler.
func CancelOnSignal(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return cancelOn(parent, time.Second*constants.InterruptTimeoutSeconds, func(code int) { os.Exit(code) })
}

func cancelOn(parent context.Context, timeout time.Duration, exit func(int)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	sigCh := make(chan os.Signal, 2)
	gosignal.Notify(sigCh, Terminations...)
	logger := dlog.New("signal")

	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("Received signal, shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			return
		case <-done:
			return
		}
		select {
		case sig := <-sigCh:
			logger.Error("Received second signal, exiting", "signal", sig.String())
			exit(constants.ExitInterrupted)
		case <-time.After(timeout):
			logger.Error("Shutdown timed out, exiting")
			exit(constants.ExitInterrupted)
		case <-parent.Done():
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			gosignal.Stop(sigCh)
			close(done)
			cancel()
		})
	}
}
