package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/mimecast/urlgrep/internal/constants"
)

func TestCancelOnSignal(t *testing.T) {
	parent, done := context.WithCancel(context.Background())
	defer done()

	exited := make(chan int, 1)
	ctx, stop := cancelOn(parent, time.Minute, func(code int) { exited <- code })
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("failed to send signal: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled by signal")
	}

	// A clean shutdown ends the parent before the hard exit kicks in.
	done()
	select {
	case code := <-exited:
		t.Fatalf("unexpected hard exit with %d", code)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopReleasesContext(t *testing.T) {
	ctx, stop := CancelOnSignal(context.Background())
	stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel the context")
	}
}

func TestStopAfterSignalDisarmsHardExit(t *testing.T) {
	exited := make(chan int, 1)
	ctx, stop := cancelOn(context.Background(), 100*time.Millisecond, func(code int) { exited <- code })

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("failed to send signal: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled by signal")
	}

	stop()
	stop()
	select {
	case code := <-exited:
		t.Fatalf("hard exit with %d after stop", code)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestShutdownTimeoutExits(t *testing.T) {
	exited := make(chan int, 1)
	ctx, stop := cancelOn(context.Background(), 50*time.Millisecond, func(code int) { exited <- code })
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGHUP); err != nil {
		t.Fatalf("failed to send signal: %v", err)
	}
	<-ctx.Done()

	select {
	case code := <-exited:
		if code != constants.ExitInterrupted {
			t.Errorf("expected exit status %d, got %d", constants.ExitInterrupted, code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown timeout did not exit")
	}
}
