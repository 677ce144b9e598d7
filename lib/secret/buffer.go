// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package secret

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds one secret in memory the garbage collector never sees.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	size   int
	locked bool
}

// Seal copies source into a new Buffer and zeroes source.
func Seal(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, errors.New("secret: nothing to seal")
	}

	region, err := unix.Mmap(-1, 0, len(source), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("secret: mapping %d bytes: %w", len(source), err)
	}
	if err := excludeFromCoreDump(region); err != nil {
		unix.Munmap(region)
		return nil, err
	}

	buffer := &Buffer{region: region, size: len(source)}
	// A low memlock limit leaves the page swappable but still private.
	buffer.locked = unix.Mlock(region) == nil

	copy(region, source)
	Zero(source)
	return buffer, nil
}

// Bytes returns the secret. The slice aliases the mapping and is
// invalid after Close.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.region == nil {
		panic("secret: read after Close")
	}
	return b.region[:b.size]
}

// String copies the secret onto the heap. Use it only where an API
// demands a string; Bytes avoids the copy. Panics after Close.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// Locked reports whether the mapping is pinned in RAM.
func (b *Buffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Close zeroes and releases the mapping. Later calls do nothing.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.region == nil {
		return nil
	}

	Zero(b.region)
	var errs []error
	if b.locked {
		if err := unix.Munlock(b.region); err != nil {
			errs = append(errs, fmt.Errorf("secret: munlock: %w", err))
		}
	}
	if err := unix.Munmap(b.region); err != nil {
		errs = append(errs, fmt.Errorf("secret: munmap: %w", err))
	}
	b.region = nil
	b.locked = false
	return errors.Join(errs...)
}

// Zero overwrites data with zeros.
func Zero(data []byte) {
	clear(data)
}
