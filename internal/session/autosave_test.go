package session

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestAutosaverDebounce(t *testing.T) {
	var saves atomic.Int32
	a := NewAutosaver(50*time.Millisecond, func() error {
		saves.Add(1)
		return nil
	}, nil)
	defer a.Close()

	// Rapid notifications within the debounce window coalesce to one save.
	a.Notify()
	time.Sleep(10 * time.Millisecond)
	a.Notify()
	time.Sleep(10 * time.Millisecond)
	a.Notify()

	time.Sleep(25 * time.Millisecond)
	if saves.Load() != 0 {
		t.Fatalf("save fired before debounce expired: %d", saves.Load())
	}

	waitFor(t, time.Second, func() bool { return saves.Load() == 1 })

	time.Sleep(80 * time.Millisecond)
	if got := saves.Load(); got != 1 {
		t.Fatalf("expected exactly one save, got %d", got)
	}
	if a.LastSaved().IsZero() {
		t.Error("LastSaved should be set after a successful save")
	}
}

func TestAutosaverFlush(t *testing.T) {
	var saves atomic.Int32
	a := NewAutosaver(time.Hour, func() error {
		saves.Add(1)
		return nil
	}, nil)
	defer a.Close()

	a.Notify()
	if err := a.Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if saves.Load() != 1 {
		t.Fatalf("expected one save after Flush, got %d", saves.Load())
	}

	// The pending timer was cancelled; no second save arrives.
	time.Sleep(50 * time.Millisecond)
	if saves.Load() != 1 {
		t.Fatalf("cancelled timer still fired, saves=%d", saves.Load())
	}
}

func TestAutosaverFlushPropagatesError(t *testing.T) {
	wantErr := errors.New("disk full")
	a := NewAutosaver(time.Hour, func() error { return wantErr }, nil)
	defer a.Close()

	if err := a.Flush(); !errors.Is(err, wantErr) {
		t.Fatalf("Flush error = %v, want %v", err, wantErr)
	}
	if !a.LastSaved().IsZero() {
		t.Error("failed save must not update LastSaved")
	}
}

func TestAutosaverCloseAbandonsPendingSave(t *testing.T) {
	var saves atomic.Int32
	a := NewAutosaver(30*time.Millisecond, func() error {
		saves.Add(1)
		return nil
	}, nil)

	a.Notify()
	a.Close()

	time.Sleep(60 * time.Millisecond)
	if saves.Load() != 0 {
		t.Fatalf("save fired after Close, saves=%d", saves.Load())
	}

	// Post-close calls are no-ops.
	a.Notify()
	if err := a.Flush(); err != nil {
		t.Fatalf("Flush after Close returned error: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if saves.Load() != 0 {
		t.Fatalf("closed autosaver still saved, saves=%d", saves.Load())
	}
}
