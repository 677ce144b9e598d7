// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/bureau-foundation/claude-sandbox/lib/config"
	"github.com/bureau-foundation/claude-sandbox/lib/credential"
	"github.com/bureau-foundation/claude-sandbox/lib/session"
	"github.com/bureau-foundation/claude-sandbox/lib/testutil"
)

// hostFixture is a miniature host filesystem under a temp directory.
type hostFixture struct {
	root    string
	home    string
	project string
	session *session.Session
	layout  HostLayout
	host    credential.Host
}

func newHostFixture(t *testing.T) *hostFixture {
	t.Helper()
	root := t.TempDir()
	home := testutil.MkdirAll(t, filepath.Join(root, "home", "u"))
	project := testutil.MkdirAll(t, filepath.Join(home, "work", "repo"))

	sess, err := session.New(testutil.MkdirAll(t, filepath.Join(root, "tmp")), nil)
	if err != nil {
		t.Fatalf("session.New() error: %v", err)
	}
	t.Cleanup(func() { sess.Close() })

	store := testutil.MkdirAll(t, filepath.Join(root, "nix"))
	layout := HostLayout{
		SystemDirs:        []string{testutil.MkdirAll(t, filepath.Join(root, "usr")), filepath.Join(root, "lib64")},
		RuntimeAllowList:  []string{filepath.Join(root, "run", "current-system")},
		StoreRoot:         store,
		StoreDaemonSocket: testutil.MkdirAll(t, filepath.Join(store, "var", "nix", "daemon-socket")),
		SystemSSHConfig:   filepath.Join(root, "etc", "ssh", "ssh_config"),
		RootTemp:          "/tmp",
	}

	return &hostFixture{
		root:    root,
		home:    home,
		project: project,
		session: sess,
		layout:  layout,
		host: credential.Host{
			Home:            home,
			User:            "u",
			RuntimeDir:      "/run/user/1000",
			ConfigHome:      filepath.Join(home, ".config"),
			ClaudeConfigDir: filepath.Join(home, ".claude"),
		},
	}
}

func (f *hostFixture) config(t *testing.T, capabilities config.Capabilities, plan *credential.Plan, environ ...string) *Config {
	t.Helper()
	cfg, err := NewConfig(ConfigOptions{
		ProjectRoot:  f.project,
		Host:         f.host,
		Stager:       f.session,
		Capabilities: capabilities,
		Credentials:  plan,
		Environ:      environ,
		Layout:       f.layout,
		TempDir:      filepath.Join(f.root, "tmp"),
		ClaudeArgs:   []string{"--resume"},
	})
	if err != nil {
		t.Fatalf("NewConfig() error: %v", err)
	}
	return cfg
}

// indexOf returns the position of the first occurrence of sequence in
// args, or -1.
func indexOf(args []string, sequence ...string) int {
	for index := 0; index+len(sequence) <= len(args); index++ {
		if slices.Equal(args[index:index+len(sequence)], sequence) {
			return index
		}
	}
	return -1
}

// requireOrder fails unless each sequence occurs, in the given order.
func requireOrder(t *testing.T, args []string, sequences ...[]string) {
	t.Helper()
	previous := -1
	for _, sequence := range sequences {
		position := indexOf(args, sequence...)
		if position < 0 {
			t.Fatalf("args missing %q\nargs: %q", sequence, args)
		}
		if position <= previous {
			t.Fatalf("%q at %d, want after position %d\nargs: %q", sequence, position, previous, args)
		}
		previous = position
	}
}
