package service

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/Jedsam/ComputerNetworksProject/internal/api"
	"github.com/Jedsam/ComputerNetworksProject/internal/core"
	"github.com/Jedsam/ComputerNetworksProject/internal/origin"
)

func startRun(t *testing.T, opts Options) (string, context.CancelFunc, <-chan error) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	opts.Listener = listener
	if opts.Name == "" {
		opts.Name = "test"
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	done := make(chan error, 1)
	go func() { done <- Run(ctx, opts) }()

	return listener.Addr().String(), cancel, done
}

func waitRun(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_CancelReturnsWithIdleConnection(t *testing.T) {
	accepted := make(chan struct{}, 1)
	h := core.ConnectionHandlerFunc(func(ctx context.Context, conn net.Conn) {
		accepted <- struct{}{}
		origin.NewHandler().HandleConnection(ctx, conn)
	})
	addr, cancel, done := startRun(t, Options{Handler: h, GracePeriod: 100 * time.Millisecond})

	idle, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer idle.Close()
	select {
	case <-accepted:
	case <-time.After(5 * time.Second):
		t.Fatal("idle connection was never accepted")
	}

	// The client never sends a byte, so its handler stays blocked in Read.
	cancel()
	waitRun(t, done)

	if conn, err := net.Dial("tcp", addr); err == nil {
		conn.Close()
		t.Fatal("listener still accepting after Run returned")
	}
}

func TestRun_DrainsFinishingConnection(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	h := core.ConnectionHandlerFunc(func(ctx context.Context, conn net.Conn) {
		defer conn.Close()
		close(entered)
		<-release
		conn.Write([]byte("done"))
	})
	addr, cancel, done := startRun(t, Options{Handler: h, GracePeriod: 5 * time.Second})

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()
	<-entered

	cancel()
	select {
	case <-done:
		t.Fatal("Run returned before the in-flight connection finished")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	waitRun(t, done)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if got, _ := io.ReadAll(conn); string(got) != "done" {
		t.Fatalf("got %q", got)
	}
}

func TestRun_HealthFollowsLifecycle(t *testing.T) {
	health := api.NewHealthServer("127.0.0.1:0", "test")
	ready := func() int {
		rec := httptest.NewRecorder()
		health.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
		return rec.Code
	}

	h := core.ConnectionHandlerFunc(func(ctx context.Context, conn net.Conn) { conn.Close() })
	_, cancel, done := startRun(t, Options{Handler: h, Health: health, GracePeriod: time.Second})

	deadline := time.Now().Add(5 * time.Second)
	for ready() != http.StatusOK {
		if time.Now().After(deadline) {
			t.Fatal("/ready never turned 200")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	waitRun(t, done)
	if got := ready(); got != http.StatusServiceUnavailable {
		t.Fatalf("/ready after shutdown: got %d", got)
	}
}

func TestSignalContext_FirstSignalCancels(t *testing.T) {
	ctx, stop := SignalContext(context.Background())
	defer stop()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled by SIGTERM")
	}
}

func TestSignalContext_StopCancels(t *testing.T) {
	ctx, stop := SignalContext(context.Background())
	stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel the context")
	}
}
