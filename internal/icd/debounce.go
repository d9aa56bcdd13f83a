// Copyright (c) 2026 Clinera. All rights reserved.
// Author: platform@clinera.health

package icd

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of values into a single delayed firing.
//
// Standard debounce semantics: every Trigger cancels the pending firing and
// schedules a new one, so only the final value of a burst is ever delivered,
// and only after the quiescence window has elapsed without another Trigger.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	fire   func(value string)
	timer  *time.Timer
}

// NewDebouncer creates a [Debouncer] with the given quiescence window.
//
// # Parameters
//   - window: Delay between the last Trigger and the firing.
//   - fire: Callback receiving the final value. Runs on a timer goroutine.
func NewDebouncer(window time.Duration, fire func(value string)) *Debouncer {
	return &Debouncer{window: window, fire: fire}
}

// Trigger schedules value for delivery after the quiescence window,
// cancelling any pending delivery first.
func (debouncer *Debouncer) Trigger(value string) {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()

	if debouncer.timer != nil {
		debouncer.timer.Stop()
	}
	debouncer.timer = time.AfterFunc(debouncer.window, func() {
		debouncer.fire(value)
	})
}

// Stop cancels any pending delivery. Used on widget teardown; a firing
// already started is not interrupted.
func (debouncer *Debouncer) Stop() {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()

	if debouncer.timer != nil {
		debouncer.timer.Stop()
		debouncer.timer = nil
	}
}
