package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRefreshScheduler_Disabled(t *testing.T) {
	s := NewRefreshScheduler(NewService(nil, Options{}), 0, quietLogger())
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() with zero interval = %v", err)
	}
}

func TestRefreshScheduler_Ticks(t *testing.T) {
	up := &fakeUpstream{bodies: []string{"a\n1", "a\n1\n2", "a\n1\n2\n3"}}
	svc := NewService(up, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewRefreshScheduler(svc, 10*time.Millisecond, quietLogger()).Run(ctx)
	}()

	waitFor(t, func() bool {
		up.mu.Lock()
		defer up.mu.Unlock()
		return up.calls >= 2
	})
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if svc.Status().Generation == 0 {
		t.Error("scheduler never committed a table")
	}
}

func TestRefreshScheduler_FailureWaitsForNextTick(t *testing.T) {
	up := &fakeUpstream{err: errors.New("connection refused")}
	svc := NewService(up, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewRefreshScheduler(svc, 300*time.Millisecond, quietLogger()).Run(ctx)
	}()

	calls := func() int {
		up.mu.Lock()
		defer up.mu.Unlock()
		return up.calls
	}
	waitFor(t, func() bool { return calls() >= 1 })
	time.Sleep(100 * time.Millisecond)
	got := calls()
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != 1 {
		t.Errorf("upstream calls = %d after one failed tick, want 1", got)
	}
	if svc.Status().Error == "" {
		t.Error("failed refresh should be reported in status")
	}
}

func TestFileWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leads.csv")
	if err := os.WriteFile(path, []byte("Company\nAcme"), 0o600); err != nil {
		t.Fatal(err)
	}

	svc := NewService(nil, Options{})
	w := NewFileWatcher(svc, path, quietLogger())
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	waitFor(t, func() bool { return svc.Status().Rows == 1 })

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x\n1\n2\n3"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("Company\nAcme\nBeta"), 0o600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool { return svc.Status().Rows == 2 })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := svc.Status().Name; got != "leads.csv" {
		t.Errorf("status name = %q, want leads.csv", got)
	}
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	w := NewFileWatcher(NewService(nil, Options{}), filepath.Join(t.TempDir(), "nope", "leads.csv"), quietLogger())
	err := w.Run(context.Background())
	if err == nil {
		t.Fatal("Run() should fail when the directory does not exist")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error %v", err)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
