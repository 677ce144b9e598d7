// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/claude-sandbox/lib/config"
)

// Status grades one doctor check.
type Status int

const (
	StatusPass Status = iota
	// StatusWarn marks something worth knowing that does not stop a
	// launch.
	StatusWarn
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	}
	return "✗"
}

// Check is one line of a doctor report.
type Check struct {
	Name    string
	Status  Status
	Message string
}

// Report collects checks in the order they ran.
type Report struct {
	checks []Check
}

// Checks returns the recorded checks.
func (r *Report) Checks() []Check {
	return r.checks
}

// Failures counts checks with StatusFail.
func (r *Report) Failures() int {
	count := 0
	for _, check := range r.checks {
		if check.Status == StatusFail {
			count++
		}
	}
	return count
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool {
	return r.Failures() > 0
}

func (r *Report) add(name string, status Status, format string, args ...any) {
	r.checks = append(r.checks, Check{Name: name, Status: status, Message: fmt.Sprintf(format, args...)})
}

// DoctorOptions are the inputs to Diagnose.
type DoctorOptions struct {
	GOOS        string
	ProjectRoot string
	ProfilePath string
	SSHAuthSock string
	ConfigPath  string

	// ConfigHome locates the default config file when ConfigPath is
	// empty.
	ConfigHome string

	// Probe inspects the host. Nil means ProbeHost.
	Probe func(goos string) HostSupport
}

// Diagnose runs every check relevant to options.GOOS. Backend checks
// are skipped when the platform has no backend.
func Diagnose(options DoctorOptions) *Report {
	report := &Report{}
	if report.checkPlatform(options.GOOS) {
		probe := options.Probe
		if probe == nil {
			probe = ProbeHost
		}
		report.checkHost(probe(options.GOOS))
		if options.GOOS == "darwin" {
			report.checkProfile(options.ProfilePath)
		}
	}
	report.checkProject(options.ProjectRoot)
	report.checkSSHAgent(options.SSHAuthSock)
	report.checkConfigFile(options.ConfigPath, options.ConfigHome)
	return report
}

func (r *Report) checkPlatform(goos string) bool {
	backend, err := ForPlatform(goos)
	if err != nil {
		r.add("platform", StatusFail, "%v", err)
		return false
	}
	r.add("platform", StatusPass, "%s uses the %s backend", goos, backend.Name())
	return true
}

func (r *Report) checkHost(support HostSupport) {
	if support.GOOS == "darwin" {
		if support.Tool == "" {
			r.add("sandbox-exec", StatusFail, "%s", support.Problem())
			return
		}
		r.add("sandbox-exec", StatusPass, "available: %s", support.Tool)
		return
	}

	if support.Tool == "" {
		r.add("bwrap", StatusFail, "%s", support.Problem())
		return
	}
	if support.ToolVersion == "" {
		r.add("bwrap", StatusWarn, "found at %s but --version failed", support.Tool)
	} else {
		r.add("bwrap", StatusPass, "available: %s (%s)", support.Tool, support.ToolVersion)
	}

	switch support.Namespaces {
	case NamespacesAvailable:
		r.add("userns", StatusPass, "unprivileged user namespaces work")
	case NamespacesUnchecked:
		r.add("userns", StatusWarn, "user namespace support was not checked")
	default:
		r.add("userns", StatusFail, "%s", support.Problem())
	}
}

func (r *Report) checkProfile(path string) {
	policy, err := ReadBasePolicy(path)
	switch {
	case err != nil:
		r.add("profile", StatusFail, "%v", err)
	case strings.TrimSpace(policy) == "":
		r.add("profile", StatusWarn, "%s is empty", path)
	default:
		r.add("profile", StatusPass, "readable: %s", path)
	}
}

func (r *Report) checkProject(root string) {
	if root == "" {
		r.add("project", StatusFail, "project directory path is required")
		return
	}
	absolute, err := filepath.Abs(root)
	if err != nil {
		r.add("project", StatusFail, "cannot resolve %s: %v", root, err)
		return
	}
	info, err := os.Stat(absolute)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.add("project", StatusFail, "does not exist: %s", absolute)
	case err != nil:
		r.add("project", StatusFail, "cannot access: %v", err)
	case !info.IsDir():
		r.add("project", StatusFail, "not a directory: %s", absolute)
	default:
		r.add("project", StatusPass, "exists: %s", absolute)
	}
}

// checkSSHAgent never fails: agent forwarding is optional.
func (r *Report) checkSSHAgent(socket string) {
	if socket == "" {
		r.add("ssh-agent", StatusWarn, "SSH_AUTH_SOCK not set (--ssh-agent will have no effect)")
		return
	}
	info, err := os.Stat(socket)
	switch {
	case err != nil:
		r.add("ssh-agent", StatusWarn, "cannot access socket: %v", err)
	case info.Mode()&os.ModeSocket == 0:
		r.add("ssh-agent", StatusWarn, "not a socket: %s", socket)
	default:
		r.add("ssh-agent", StatusPass, "socket exists: %s", socket)
	}
}

// checkConfigFile never fails: a broken file falls back to defaults at
// launch.
func (r *Report) checkConfigFile(path, configHome string) {
	if path == "" {
		path = config.DefaultPath(configHome)
	}
	if path == "" {
		r.add("config", StatusWarn, "cannot locate the config directory (defaults apply)")
		return
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		r.add("config", StatusPass, "no config file (defaults apply): %s", path)
		return
	}
	if _, err := config.LoadFile(path); err != nil {
		r.add("config", StatusWarn, "%v (defaults will be used)", err)
		return
	}
	r.add("config", StatusPass, "loaded: %s", path)
}

// Print writes one line per check and a closing verdict. Symbols are
// colored only when w is a terminal.
func (r *Report) Print(w io.Writer) {
	renderer := lipgloss.NewRenderer(w)
	styles := map[Status]lipgloss.Style{
		StatusPass: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		StatusWarn: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		StatusFail: renderer.NewStyle().Foreground(lipgloss.Color("1")),
	}

	for _, check := range r.checks {
		fmt.Fprintf(w, "%s %s: %s\n", styles[check.Status].Render(check.Status.symbol()), check.Name, check.Message)
	}

	fmt.Fprintln(w)
	if failures := r.Failures(); failures > 0 {
		fmt.Fprintf(w, "Validation failed with %d error(s)\n", failures)
		return
	}
	fmt.Fprintln(w, "Ready to run sandbox")
}
