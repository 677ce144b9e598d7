// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// DirPrefix starts every session directory name.
const DirPrefix = "claude-sandbox-"

// HomeDir is the session subdirectory bound over the sandbox's HOME.
const HomeDir = "home"

// ErrClosed is returned by Stage after Close.
var ErrClosed = errors.New("session: closed")

// Session is one ephemeral identity: a private directory tree that
// lives exactly as long as the invocation.
type Session struct {
	id     string
	dir    string
	home   string
	logger *slog.Logger

	mu     sync.Mutex
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// New creates <tempRoot>/claude-sandbox-<id> with mode 0700 and its
// home/ subdirectory. An empty tempRoot means os.TempDir(). The
// directory must not already exist.
func New(tempRoot string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}

	id := uuid.NewString()
	dir := filepath.Join(tempRoot, DirPrefix+id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	home := filepath.Join(dir, HomeDir)
	if err := os.Mkdir(home, 0o700); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("creating session home: %w", err)
	}

	logger.Debug("session created", "session", id, "dir", dir)
	return &Session{
		id:     id,
		dir:    dir,
		home:   home,
		logger: logger,
	}, nil
}

// ID returns the random session identifier.
func (s *Session) ID() string { return s.id }

// Dir returns the session directory.
func (s *Session) Dir() string { return s.dir }

// Home returns the isolated home directory inside the session.
func (s *Session) Home() string { return s.home }

// Stage writes data to relative (slash-separated, relative to Dir) and
// returns the absolute path. Parent directories are created with mode
// 0700. The final component must not exist yet and is never followed
// if it is a symlink.
func (s *Session) Stage(relative string, data []byte, perm os.FileMode) (string, error) {
	path, err := s.resolve(relative)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("staging %s: %w", relative, err)
	}

	fd, err := unix.Open(path, unix.O_WRONLY|unix.O_CREAT|unix.O_EXCL|unix.O_NOFOLLOW|unix.O_CLOEXEC, uint32(perm.Perm()))
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", relative, &fs.PathError{Op: "open", Path: path, Err: err})
	}
	file := os.NewFile(uintptr(fd), path)
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("staging %s: %w", relative, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("staging %s: %w", relative, err)
	}
	return path, nil
}

// resolve maps a relative artifact path into the session directory,
// rejecting anything that would escape it.
func (s *Session) resolve(relative string) (string, error) {
	if relative == "" || filepath.IsAbs(relative) {
		return "", fmt.Errorf("staging %q: path must be relative to the session directory", relative)
	}
	cleaned := filepath.Clean(filepath.FromSlash(relative))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("staging %q: path escapes the session directory", relative)
	}
	return filepath.Join(s.dir, cleaned), nil
}

// Close removes the session tree. Only the first call does work; every
// call returns the first call's result. A directory that is already
// gone, fully or partially, is not an error.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		err := os.RemoveAll(s.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.closeErr = fmt.Errorf("removing session directory: %w", err)
			s.logger.Warn("session cleanup failed",
				"session", s.id,
				"dir", s.dir,
				"error", err,
			)
			return
		}
		s.logger.Debug("session removed", "session", s.id)
	})
	return s.closeErr
}
