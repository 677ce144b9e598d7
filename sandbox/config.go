// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/claude-sandbox/lib/config"
	"github.com/bureau-foundation/claude-sandbox/lib/credential"
)

// HostLayout names the host paths the namespace plan mounts. Tests
// point these at temporary directories; production uses DefaultLayout.
type HostLayout struct {
	// SystemDirs are bound read-only when they exist.
	SystemDirs []string

	// RuntimeAllowList are subpaths of /run bound read-only when they
	// exist. The per-user runtime directory is never on this list.
	RuntimeAllowList []string

	// StoreRoot is the package store bound read-only (Nix: /nix).
	StoreRoot string

	// StoreDaemonSocket is the store daemon's socket directory, bound
	// read-write so builds can talk to the daemon.
	StoreDaemonSocket string

	// SystemSSHConfig is the system-wide ssh client config that may
	// include files from the store.
	SystemSSHConfig string

	// RootTemp is the platform's absolute temp root.
	RootTemp string
}

// DefaultLayout returns the host layout for goos.
func DefaultLayout(goos string) HostLayout {
	if goos != "linux" {
		return HostLayout{RootTemp: "/tmp"}
	}
	return HostLayout{
		SystemDirs: []string{
			"/usr",
			"/bin",
			"/sbin",
			"/lib",
			"/lib32",
			"/lib64",
			"/etc",
			"/opt",
		},
		RuntimeAllowList: []string{
			"/run/current-system",
			"/run/booted-system",
			"/run/opengl-driver",
			"/run/wrappers",
			"/run/systemd/resolve",
			"/run/resolvconf",
			"/run/NetworkManager",
		},
		StoreRoot:         "/nix",
		StoreDaemonSocket: "/nix/var/nix/daemon-socket",
		SystemSSHConfig:   "/etc/ssh/ssh_config",
		RootTemp:          "/tmp",
	}
}

// Config is the complete, immutable input to a backend.
type Config struct {
	// IsolatedHome is the session home bound over HostHome.
	IsolatedHome string

	// HostHome is the real home directory; inside the namespace it is
	// also the sandbox HOME.
	HostHome string

	// User and Path are pinned into the sandbox environment.
	User string
	Path string

	// ClaudeConfigDir and ClaudeCredentialsFile are the assistant's
	// own state, bound read-write into the isolated home.
	ClaudeConfigDir       string
	ClaudeCredentialsFile string

	// SharedTree is bound read-only; ProjectRoot read-write.
	SharedTree  string
	ProjectRoot string

	// TempDir is the host temp directory ($TMPDIR).
	TempDir string

	Capabilities config.Capabilities
	Credentials  *credential.Plan

	// IDELockDir is masked when IDE access is off.
	IDELockDir string

	// Environ is the host environment.
	Environ map[string]string

	Layout HostLayout

	// SanitizedSSHConfig replaces Layout.SystemSSHConfig when set.
	SanitizedSSHConfig string

	// ProfilePath is the Profile backend's base policy file.
	ProfilePath string

	// ClaudeArgs are passed through to the assistant.
	ClaudeArgs []string
}

// ConfigOptions are the inputs to NewConfig.
type ConfigOptions struct {
	// ProjectRoot is the working project; relative paths are resolved
	// against the current directory.
	ProjectRoot string

	Host         credential.Host
	Stager       credential.Stager
	Capabilities config.Capabilities
	Credentials  *credential.Plan

	// Environ is the host environment as KEY=value pairs.
	Environ []string

	Layout      HostLayout
	TempDir     string
	ProfilePath string
	ClaudeArgs  []string
}

// NewConfig validates the options and derives the full Config. It
// creates the assistant's config directory and credentials file if
// missing so their binds have a source, and stages a sanitized copy of
// the system ssh_config when it includes files from the store.
func NewConfig(options ConfigOptions) (*Config, error) {
	if options.Stager == nil {
		return nil, errors.New("sandbox: a session is required")
	}
	projectRoot, err := filepath.Abs(options.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	info, err := os.Stat(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", projectRoot)
	}

	host := options.Host
	environ := EnvironMap(options.Environ)
	tempDir := options.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}

	cfg := &Config{
		IsolatedHome:          options.Stager.Home(),
		HostHome:              host.Home,
		User:                  host.User,
		Path:                  environ["PATH"],
		ClaudeConfigDir:       host.ClaudeConfigDir,
		ClaudeCredentialsFile: filepath.Join(host.Home, ".claude.json"),
		SharedTree:            SharedTree(projectRoot, host.Home),
		ProjectRoot:           projectRoot,
		TempDir:               filepath.Clean(tempDir),
		Capabilities:          options.Capabilities,
		Credentials:           options.Credentials,
		IDELockDir:            host.IDELockDir(),
		Environ:               environ,
		Layout:                options.Layout,
		ProfilePath:           options.ProfilePath,
		ClaudeArgs:            options.ClaudeArgs,
	}
	if cfg.Credentials == nil {
		cfg.Credentials = &credential.Plan{}
	}
	if cfg.Path == "" {
		cfg.Path = "/usr/local/bin:/usr/bin:/bin"
	}

	if err := ensureClaudeState(cfg.ClaudeConfigDir, cfg.ClaudeCredentialsFile); err != nil {
		return nil, err
	}

	if cfg.Layout.SystemSSHConfig != "" && cfg.Layout.StoreRoot != "" {
		sanitized, err := stageSanitizedSSHConfig(options.Stager, cfg.Layout)
		if err != nil {
			return nil, err
		}
		cfg.SanitizedSSHConfig = sanitized
	}

	return cfg, nil
}

// ensureClaudeState creates the assistant's config directory and an
// empty JSON credentials file when they do not exist.
func ensureClaudeState(configDir, credentialsFile string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", configDir, err)
	}
	file, err := os.OpenFile(credentialsFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", credentialsFile, err)
	}
	if _, err := file.WriteString("{}\n"); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", credentialsFile, err)
	}
	return file.Close()
}

// EnvironMap converts KEY=value pairs to a map. Later duplicates win,
// matching how the process environment resolves them.
func EnvironMap(environ []string) map[string]string {
	result := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		result[key] = value
	}
	return result
}
