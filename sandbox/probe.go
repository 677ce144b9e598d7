// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"
)

// userNamespaceSysctl is the Debian/Ubuntu knob for unprivileged user
// namespaces. Kernels without it do not restrict them this way.
const userNamespaceSysctl = "/proc/sys/kernel/unprivileged_userns_clone"

// NamespaceState is what the probe learned about unprivileged user
// namespaces.
type NamespaceState int

const (
	// NamespacesUnchecked means no probe ran: not linux, or bwrap is
	// missing.
	NamespacesUnchecked NamespaceState = iota
	NamespacesAvailable
	// NamespacesDisabled means the sysctl is set to 0.
	NamespacesDisabled
	// NamespacesBlocked means the sysctl allowed them but a trial
	// bwrap run still failed (AppArmor, seccomp, a container).
	NamespacesBlocked
)

// HostSupport is the result of probing the host for one platform's
// backend tool.
type HostSupport struct {
	GOOS string

	// Tool is the resolved isolation tool, "" when none was found.
	Tool        string
	ToolVersion string

	Namespaces NamespaceState
}

// Ready reports whether the backend tool can be expected to start.
func (h HostSupport) Ready() bool {
	switch h.GOOS {
	case "linux":
		return h.Tool != "" && h.Namespaces == NamespacesAvailable
	case "darwin":
		return h.Tool != ""
	}
	return false
}

// Problem describes why the host is not Ready, or "" when it is.
func (h HostSupport) Problem() string {
	switch {
	case h.Ready():
		return ""
	case h.GOOS != "linux" && h.GOOS != "darwin":
		return "no sandbox backend for " + h.GOOS
	case h.Tool == "" && h.GOOS == "darwin":
		return SandboxExecPath + " not found or not executable"
	case h.Tool == "":
		return "bubblewrap not found on PATH or in standard locations"
	case h.Namespaces == NamespacesDisabled:
		return "unprivileged user namespaces are disabled (set kernel.unprivileged_userns_clone=1)"
	default:
		return "bubblewrap could not create a user namespace"
	}
}

// hostProbe holds the host queries so tests can substitute them.
type hostProbe struct {
	findBwrap  func() (string, error)
	version    func(tool string) (string, error)
	sysctl     func() (string, error)
	trial      func(tool string) error
	executable func(path string) bool
}

var systemProbe = hostProbe{
	findBwrap: func() (string, error) {
		if path, err := exec.LookPath("bwrap"); err == nil {
			return path, nil
		}
		return BwrapPath()
	},
	version: func(tool string) (string, error) {
		output, err := exec.Command(tool, "--version").Output()
		return strings.TrimSpace(string(output)), err
	},
	sysctl: func() (string, error) {
		data, err := os.ReadFile(userNamespaceSysctl)
		return strings.TrimSpace(string(data)), err
	},
	trial: func(tool string) error {
		return exec.Command(tool, "--unshare-user", "--ro-bind", "/", "/", "--", "true").Run()
	},
	executable: executable,
}

// ProbeHost inspects the running host for goos's backend. On linux this
// runs bwrap twice: once for its version and once in a throwaway user
// namespace.
func ProbeHost(goos string) HostSupport {
	return systemProbe.run(goos)
}

func (p hostProbe) run(goos string) HostSupport {
	support := HostSupport{GOOS: goos}
	switch goos {
	case "linux":
		tool, err := p.findBwrap()
		if err != nil || !p.executable(tool) {
			return support
		}
		support.Tool = tool
		if version, err := p.version(tool); err == nil {
			support.ToolVersion = version
		}
		support.Namespaces = p.namespaces(tool)
	case "darwin":
		if p.executable(SandboxExecPath) {
			support.Tool = SandboxExecPath
		}
	}
	return support
}

func (p hostProbe) namespaces(tool string) NamespaceState {
	// A missing or unreadable sysctl leaves the decision to the trial.
	if value, err := p.sysctl(); err == nil && value == "0" {
		return NamespacesDisabled
	}
	if p.trial(tool) != nil {
		return NamespacesBlocked
	}
	return NamespacesAvailable
}

// executable reports whether the current user may execute path.
func executable(path string) bool {
	return unix.Access(path, unix.X_OK) == nil
}
