// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock lets the launcher's grace-period timer be replaced in
// tests.
//
// Production passes [Real]. Tests pass a [Fake] and move it forward
// explicitly:
//
//	fake := clock.NewFake()
//	go launcher.Run(ctx, result, launcher.Options{Clock: fake, ...})
//	fake.WaitForTimers(1)        // the launcher armed its grace timer
//	fake.Advance(5 * time.Second) // and now it expires
package clock
