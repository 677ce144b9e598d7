// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"
	"time"
)

// RequireReceive returns the next value from ch, failing the test if
// none arrives within timeout or ch is closed. waiting describes what
// the test was waiting for.
//
//	code := testutil.RequireReceive(t, exited, 5*time.Second, "launcher to return")
func RequireReceive[T any](t testing.TB, ch <-chan T, timeout time.Duration, waiting string) T {
	t.Helper()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed while waiting for %s", waiting)
		}
		return value
	case <-timer.C:
		t.Fatalf("timed out after %v waiting for %s", timeout, waiting)
	}
	var zero T
	return zero
}
