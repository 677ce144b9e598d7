// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"bytes"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/claude-sandbox/lib/testutil"
)

// only returns the single check a focused check function recorded.
func only(t *testing.T, report *Report) Check {
	t.Helper()
	if checks := report.Checks(); len(checks) != 1 {
		t.Fatalf("recorded %d checks, want 1: %+v", len(checks), checks)
	}
	return report.Checks()[0]
}

func TestReport_Failures(t *testing.T) {
	t.Parallel()

	report := &Report{}
	if report.Failed() || len(report.Checks()) != 0 {
		t.Fatal("empty report should have no checks and no failures")
	}

	report.add("a", StatusPass, "fine")
	report.add("b", StatusWarn, "hmm %d", 2)
	if report.Failed() {
		t.Error("warnings counted as failures")
	}
	report.add("c", StatusFail, "broken")
	report.add("d", StatusFail, "also broken")
	if got := report.Failures(); got != 2 {
		t.Errorf("Failures() = %d, want 2", got)
	}
	if got := report.Checks()[1].Message; got != "hmm 2" {
		t.Errorf("formatted message = %q", got)
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	for status, want := range map[Status]string{
		StatusPass: "pass",
		StatusWarn: "warn",
		StatusFail: "fail",
		Status(9):  "Status(9)",
	} {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(status), got, want)
		}
	}
}

func TestCheckPlatform(t *testing.T) {
	t.Parallel()

	for goos, backend := range map[string]string{"linux": "bwrap", "darwin": "sandbox-exec"} {
		report := &Report{}
		if !report.checkPlatform(goos) {
			t.Errorf("checkPlatform(%q) = false", goos)
		}
		if check := only(t, report); !strings.Contains(check.Message, backend) {
			t.Errorf("checkPlatform(%q) message %q does not name %s", goos, check.Message, backend)
		}
	}

	report := &Report{}
	if report.checkPlatform("windows") || !report.Failed() {
		t.Error("windows should fail the platform check")
	}
}

func TestCheckHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		support HostSupport
		want    []Status
		message string
	}{
		{
			name:    "linux ready",
			support: HostSupport{GOOS: "linux", Tool: "/usr/bin/bwrap", ToolVersion: "bubblewrap 0.11.0", Namespaces: NamespacesAvailable},
			want:    []Status{StatusPass, StatusPass},
			message: "bubblewrap 0.11.0",
		},
		{
			name:    "linux without bwrap",
			support: HostSupport{GOOS: "linux"},
			want:    []Status{StatusFail},
			message: "bubblewrap not found",
		},
		{
			name:    "version unreadable",
			support: HostSupport{GOOS: "linux", Tool: "/usr/bin/bwrap", Namespaces: NamespacesAvailable},
			want:    []Status{StatusWarn, StatusPass},
			message: "--version failed",
		},
		{
			name:    "sysctl off",
			support: HostSupport{GOOS: "linux", Tool: "/usr/bin/bwrap", ToolVersion: "v", Namespaces: NamespacesDisabled},
			want:    []Status{StatusPass, StatusFail},
			message: "unprivileged_userns_clone=1",
		},
		{
			name:    "trial blocked",
			support: HostSupport{GOOS: "linux", Tool: "/usr/bin/bwrap", ToolVersion: "v", Namespaces: NamespacesBlocked},
			want:    []Status{StatusPass, StatusFail},
			message: "could not create a user namespace",
		},
		{
			name:    "darwin ready",
			support: HostSupport{GOOS: "darwin", Tool: SandboxExecPath},
			want:    []Status{StatusPass},
			message: SandboxExecPath,
		},
		{
			name:    "darwin missing",
			support: HostSupport{GOOS: "darwin"},
			want:    []Status{StatusFail},
			message: "not found or not executable",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			report := &Report{}
			report.checkHost(test.support)

			checks := report.Checks()
			if len(checks) != len(test.want) {
				t.Fatalf("checks = %+v, want statuses %v", checks, test.want)
			}
			var messages []string
			for i, check := range checks {
				if check.Status != test.want[i] {
					t.Errorf("check %s status = %v, want %v", check.Name, check.Status, test.want[i])
				}
				messages = append(messages, check.Message)
			}
			if joined := strings.Join(messages, "\n"); !strings.Contains(joined, test.message) {
				t.Errorf("messages %q do not mention %q", joined, test.message)
			}
		})
	}
}

func TestCheckProject(t *testing.T) {
	t.Parallel()
	directory := t.TempDir()
	file := testutil.WriteFile(t, filepath.Join(directory, "not-a-dir"), "content")

	tests := []struct {
		name    string
		root    string
		status  Status
		message string
	}{
		{name: "unset", root: "", status: StatusFail, message: "required"},
		{name: "missing", root: filepath.Join(directory, "gone"), status: StatusFail, message: "does not exist"},
		{name: "file", root: file, status: StatusFail, message: "not a directory"},
		{name: "directory", root: directory, status: StatusPass, message: "exists: " + directory},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			report := &Report{}
			report.checkProject(test.root)
			check := only(t, report)
			if check.Name != "project" || check.Status != test.status {
				t.Errorf("check = %+v, want project/%v", check, test.status)
			}
			if !strings.Contains(check.Message, test.message) {
				t.Errorf("message %q does not contain %q", check.Message, test.message)
			}
		})
	}
}

func TestCheckSSHAgent(t *testing.T) {
	t.Parallel()

	socket := filepath.Join(testutil.SocketDir(t), "agent.sock")
	listener, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatalf("creating unix socket: %v", err)
	}
	t.Cleanup(func() { listener.Close() })
	file := testutil.WriteFile(t, filepath.Join(t.TempDir(), "not-a-socket"), "content")

	tests := []struct {
		name    string
		socket  string
		status  Status
		message string
	}{
		{name: "unset", socket: "", status: StatusWarn, message: "SSH_AUTH_SOCK not set"},
		{name: "missing", socket: filepath.Join(t.TempDir(), "gone.sock"), status: StatusWarn, message: "cannot access"},
		{name: "regular file", socket: file, status: StatusWarn, message: "not a socket"},
		{name: "listening socket", socket: socket, status: StatusPass, message: "socket exists"},
	}

	for _, test := range tests {
		report := &Report{}
		report.checkSSHAgent(test.socket)
		check := only(t, report)
		if check.Status != test.status || !strings.Contains(check.Message, test.message) {
			t.Errorf("%s: check = %+v, want %v containing %q", test.name, check, test.status, test.message)
		}
	}
}

func TestCheckProfile(t *testing.T) {
	t.Parallel()
	directory := t.TempDir()

	tests := []struct {
		name   string
		path   string
		status Status
	}{
		{name: "unset", path: "", status: StatusFail},
		{name: "missing", path: filepath.Join(directory, "missing.sb"), status: StatusFail},
		{name: "blank", path: testutil.WriteFile(t, filepath.Join(directory, "blank.sb"), " \n"), status: StatusWarn},
		{name: "readable", path: testutil.WriteFile(t, filepath.Join(directory, "base.sb"), "(version 1)\n"), status: StatusPass},
	}

	for _, test := range tests {
		report := &Report{}
		report.checkProfile(test.path)
		if check := only(t, report); check.Status != test.status {
			t.Errorf("%s: status = %v, want %v (%s)", test.name, check.Status, test.status, check.Message)
		}
	}
}

func TestCheckConfigFile(t *testing.T) {
	t.Parallel()
	directory := t.TempDir()

	configHome := t.TempDir()
	homeConfig := testutil.WriteFile(t, filepath.Join(configHome, "claude-sandbox", "config.yaml"), "ssh_agent: true\n")

	tests := []struct {
		name       string
		path       string
		configHome string
		status     Status
		message    string
	}{
		{name: "missing", path: filepath.Join(directory, "config.json"), status: StatusPass, message: "defaults apply"},
		{name: "from config home", configHome: configHome, status: StatusPass, message: "loaded: " + homeConfig},
		{name: "no config home", status: StatusWarn, message: "cannot locate the config directory"},
		{name: "jsonc", path: testutil.WriteFile(t, filepath.Join(directory, "good.json"), "{\"ssh_agent\": true, // mine\n}"), status: StatusPass, message: "loaded"},
		{name: "yaml", path: testutil.WriteFile(t, filepath.Join(directory, "good.yaml"), "ide: true\n"), status: StatusPass, message: "loaded"},
		{name: "malformed", path: testutil.WriteFile(t, filepath.Join(directory, "bad.json"), `{"ssh_agent": `), status: StatusWarn, message: "defaults will be used"},
	}

	for _, test := range tests {
		report := &Report{}
		report.checkConfigFile(test.path, test.configHome)
		check := only(t, report)
		if check.Status != test.status || !strings.Contains(check.Message, test.message) {
			t.Errorf("%s: check = %+v, want %v containing %q", test.name, check, test.status, test.message)
		}
	}
}

func TestDiagnose(t *testing.T) {
	t.Parallel()
	project := t.TempDir()
	profile := testutil.WriteFile(t, filepath.Join(t.TempDir(), "base.sb"), "(version 1)\n")

	probed := ""
	report := Diagnose(DoctorOptions{
		GOOS:        "darwin",
		ProjectRoot: project,
		ProfilePath: profile,
		ConfigPath:  filepath.Join(project, "absent.json"),
		Probe: func(goos string) HostSupport {
			probed = goos
			return HostSupport{GOOS: goos, Tool: SandboxExecPath}
		},
	})

	if probed != "darwin" {
		t.Errorf("probe called with %q, want darwin", probed)
	}
	var names []string
	for _, check := range report.Checks() {
		names = append(names, check.Name)
	}
	want := "platform sandbox-exec profile project ssh-agent config"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("checks = %s, want %s", got, want)
	}
	if report.Failed() {
		t.Errorf("unexpected failure: %+v", report.Checks())
	}
}

func TestDiagnose_UnsupportedPlatformSkipsProbe(t *testing.T) {
	t.Parallel()

	report := Diagnose(DoctorOptions{
		GOOS:        "plan9",
		ProjectRoot: t.TempDir(),
		ConfigPath:  filepath.Join(t.TempDir(), "absent.json"),
		Probe: func(string) HostSupport {
			t.Error("probe ran for an unsupported platform")
			return HostSupport{}
		},
	})
	if first := report.Checks()[0]; first.Name != "platform" || first.Status != StatusFail {
		t.Errorf("first check = %+v, want a platform failure", first)
	}
	if got := len(report.Checks()); got != 4 {
		t.Errorf("recorded %d checks, want platform plus three host-independent checks", got)
	}
}

func TestReport_Print(t *testing.T) {
	t.Parallel()

	report := &Report{}
	report.add("a", StatusPass, "fine")
	report.add("b", StatusWarn, "hmm")

	var output bytes.Buffer
	report.Print(&output)
	want := "✓ a: fine\n⚠ b: hmm\n\nReady to run sandbox\n"
	if output.String() != want {
		t.Errorf("Print() = %q, want %q", output.String(), want)
	}

	report.add("c", StatusFail, "broken")
	output.Reset()
	report.Print(&output)
	if !strings.Contains(output.String(), "✗ c: broken\n") || !strings.HasSuffix(output.String(), "Validation failed with 1 error(s)\n") {
		t.Errorf("Print() = %q", output.String())
	}
}
