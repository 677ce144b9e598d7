// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func excludeFromCoreDump(region []byte) error {
	if err := unix.Madvise(region, unix.MADV_DONTDUMP); err != nil {
		return fmt.Errorf("secret: excluding from core dumps: %w", err)
	}
	return nil
}
