// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/claude-sandbox/lib/secret"
	"github.com/bureau-foundation/claude-sandbox/lib/session"
	"github.com/tidwall/jsonc"
)

// IDETokenFile is the staged token's name inside the isolated home.
const IDETokenFile = ".claude-sandbox-ide-token"

// lockSuffix marks editor lock files.
const lockSuffix = ".lock"

// ErrNoLockFile is returned by SelectLockFile when the directory holds
// no candidates.
var ErrNoLockFile = errors.New("no IDE lock file found")

// IDE describes a relayed editor integration.
type IDE struct {
	// LockDir is the host lock directory, exposed read-only.
	LockDir string

	// LockFile is the selected lock file.
	LockFile string

	// Port is the lock file's port, taken from its name.
	Port string

	// TokenFile is the staged token path on the host side.
	TokenFile string
}

// ideLock is the subset of an editor lock file we read.
type ideLock struct {
	AuthToken string `json:"authToken"`
}

func (b *Bridge) prepareIDE() (*IDE, error) {
	lockDir := b.host.IDELockDir()
	lockFile, err := SelectLockFile(lockDir, b.host.IDEPortHint)
	if err != nil {
		b.logger.Warn("ide access requested but no usable lock file, continuing without it",
			"dir", lockDir,
			"error", err,
		)
		return nil, nil
	}

	token, err := readAuthToken(lockFile)
	if err != nil {
		b.logger.Warn("ide access requested but the lock file has no auth token, continuing without it",
			"lock_file", lockFile,
			"error", err,
		)
		return nil, nil
	}
	defer token.Close()

	tokenFile, err := b.stager.Stage(path.Join(session.HomeDir, IDETokenFile), token.Bytes(), 0o600)
	if err != nil {
		return nil, fmt.Errorf("staging ide token: %w", err)
	}

	ide := &IDE{
		LockDir:   lockDir,
		LockFile:  lockFile,
		Port:      strings.TrimSuffix(filepath.Base(lockFile), lockSuffix),
		TokenFile: tokenFile,
	}
	b.logger.Debug("ide token staged", "lock_file", lockFile, "port", ide.Port)
	return ide, nil
}

// SelectLockFile picks the editor lock file to relay. A file named
// "<portHint>.lock" wins when it exists. Otherwise the candidate with
// the newest modification time wins; equal times go to the lexically
// greatest name so the choice is deterministic.
func SelectLockFile(dir, portHint string) (string, error) {
	if portHint != "" && !strings.ContainsAny(portHint, `/\`) {
		hinted := filepath.Join(dir, portHint+lockSuffix)
		if info, err := os.Stat(hinted); err == nil && info.Mode().IsRegular() {
			return hinted, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var best string
	var bestInfo os.FileInfo
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), lockSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if bestInfo == nil ||
			info.ModTime().After(bestInfo.ModTime()) ||
			(info.ModTime().Equal(bestInfo.ModTime()) && entry.Name() > filepath.Base(best)) {
			best = filepath.Join(dir, entry.Name())
			bestInfo = info
		}
	}
	if best == "" {
		return "", ErrNoLockFile
	}
	return best, nil
}

// readAuthToken parses a lock file (JSON, comments tolerated) and moves
// its authToken into locked memory.
func readAuthToken(lockFile string) (*secret.Buffer, error) {
	data, err := os.ReadFile(lockFile)
	if err != nil {
		return nil, err
	}
	defer secret.Zero(data)

	stripped := jsonc.ToJSON(data)
	defer secret.Zero(stripped)

	var lock ideLock
	if err := json.Unmarshal(stripped, &lock); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", lockFile, err)
	}
	token := strings.TrimSpace(lock.AuthToken)
	if token == "" {
		return nil, fmt.Errorf("%s has no authToken", lockFile)
	}
	return secret.Seal([]byte(token))
}
