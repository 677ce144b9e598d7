// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake is a Clock whose time moves only through Advance. Safe for
// concurrent use.
type Fake struct {
	mu      sync.Mutex
	elapsed time.Duration
	timers  []fakeTimer
	armed   *sync.Cond
}

type fakeTimer struct {
	due  time.Duration
	fire chan time.Time
}

// NewFake returns a Fake at the Unix epoch.
func NewFake() *Fake {
	fake := &Fake{}
	fake.armed = sync.NewCond(&fake.mu)
	return fake
}

// After registers a timer. A non-positive d fires at once without
// registering.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	fire := make(chan time.Time, 1)
	if d <= 0 {
		fire <- f.now()
		return fire
	}
	f.timers = append(f.timers, fakeTimer{due: f.elapsed + d, fire: fire})
	f.armed.Broadcast()
	return fire
}

// Advance moves time forward by d and fires every timer now due.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.elapsed += d
	pending := f.timers[:0]
	for _, timer := range f.timers {
		if timer.due <= f.elapsed {
			timer.fire <- f.now()
			continue
		}
		pending = append(pending, timer)
	}
	f.timers = pending
}

// WaitForTimers blocks until at least n timers are registered and
// unfired, so a test never advances before the code under test has
// armed its timer.
func (f *Fake) WaitForTimers(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.timers) < n {
		f.armed.Wait()
	}
}

func (f *Fake) now() time.Time {
	return time.Unix(0, 0).Add(f.elapsed)
}
