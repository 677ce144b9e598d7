// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret keeps the IDE auth token out of the Go heap while it
// travels from the editor's lock file to the session.
//
// [Seal] moves bytes into an anonymous mapping, zeroing the source.
// The mapping is excluded from core dumps on Linux and locked in RAM
// when RLIMIT_MEMLOCK allows. [Buffer.Close] zeroes and unmaps it;
// reading a closed Buffer panics.
package secret
