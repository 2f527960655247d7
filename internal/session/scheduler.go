// ABOUTME: Cancellable delayed callback used for the form's hide-then-restore transition.
// ABOUTME: Scheduling again replaces the pending callback, so rapid show/hide cycles never stack.
package session

import (
	"sync"
	"time"
)

// RestoreDelay is the pause between hiding the form and restoring its layout.
const RestoreDelay = time.Second

// Scheduler runs at most one pending callback.
type Scheduler interface {
	// Schedule replaces any pending callback with fn.
	Schedule(fn func())
	// Cancel drops the pending callback and reports whether one was pending.
	Cancel() bool
}

// TimerScheduler is a Scheduler backed by time.AfterFunc.
type TimerScheduler struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewTimerScheduler returns a scheduler that fires after delay.
func NewTimerScheduler(delay time.Duration) *TimerScheduler {
	return &TimerScheduler{delay: delay}
}

// Schedule implements Scheduler.
func (s *TimerScheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if gen != s.gen || s.timer == nil {
			s.mu.Unlock()
			return
		}
		s.timer = nil
		s.mu.Unlock()
		fn()
	})
}

// Cancel implements Scheduler.
func (s *TimerScheduler) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopLocked()
}

// stopLocked stops the pending timer. Callers hold mu.
func (s *TimerScheduler) stopLocked() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	return true
}
