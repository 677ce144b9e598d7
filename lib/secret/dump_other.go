// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix && !linux

package secret

// No per-mapping core dump control outside Linux.
func excludeFromCoreDump([]byte) error { return nil }
