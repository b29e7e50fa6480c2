package session

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Autosaver debounces snapshot writes: each mutation restarts a timer, and
// the save function runs once the timer expires with no further mutations.
// A manual Flush bypasses the debounce. Close abandons any pending timer
// without saving, mirroring navigation away from an in-progress assessment.
type Autosaver struct {
	delay  time.Duration
	save   func() error
	logger *zap.SugaredLogger

	mu        sync.Mutex
	timer     *time.Timer
	lastSaved time.Time
	closed    bool
}

// NewAutosaver wires a debounced saver around the given save function.
func NewAutosaver(delay time.Duration, save func() error, logger *zap.SugaredLogger) *Autosaver {
	return &Autosaver{
		delay:  delay,
		save:   save,
		logger: logger,
	}
}

// Notify records that state changed and (re)starts the debounce timer.
func (a *Autosaver) Notify() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

func (a *Autosaver) fire() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	if err := a.save(); err != nil {
		if a.logger != nil {
			a.logger.Warnw("autosave failed", "error", err)
		}
		return
	}

	a.mu.Lock()
	a.lastSaved = time.Now()
	a.mu.Unlock()
}

// Flush saves immediately, cancelling any pending debounce.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	if err := a.save(); err != nil {
		return err
	}

	a.mu.Lock()
	a.lastSaved = time.Now()
	a.mu.Unlock()
	return nil
}

// LastSaved reports when the most recent successful save happened; the zero
// time means nothing has been saved yet.
func (a *Autosaver) LastSaved() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSaved
}

// Close abandons any pending save. Further Notify/Flush calls are no-ops.
func (a *Autosaver) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.closed = true
}
