// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SandboxExecPath is the macOS policy sandbox tool.
const SandboxExecPath = "/usr/bin/sandbox-exec"

// Policy parameters, substituted by sandbox-exec from -D arguments.
const (
	ParamProjectDir = "PROJECT_DIR"
	ParamTmpDir     = "TMP_DIR"
	ParamRootTmpDir = "ROOT_TMP_DIR"
)

// Profile is the sandbox-exec backend.
type Profile struct{}

func (*Profile) sealed() {}

// Name returns "sandbox-exec".
func (*Profile) Name() string { return "sandbox-exec" }

// Build reads the base policy, appends the generated fragment, and
// passes every path as a -D parameter.
func (p *Profile) Build(cfg *Config, script string) (*WrapResult, error) {
	if cfg == nil {
		return nil, errors.New("sandbox: config is required")
	}
	base, err := ReadBasePolicy(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}

	projectDir, err := filepath.EvalSymlinks(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing project root: %w", err)
	}
	tempDir, err := filepath.EvalSymlinks(cfg.TempDir)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing temp directory: %w", err)
	}
	rootTemp := cfg.Layout.RootTemp
	if rootTemp == "" {
		rootTemp = "/tmp"
	}
	rootTempDir, err := filepath.EvalSymlinks(rootTemp)
	if err != nil {
		// No root temp at all: nothing extra to allow.
		rootTempDir = tempDir
	}
	includeRootTemp := rootTempDir != tempDir

	policy := base + "\n" + PolicyFragment(includeRootTemp)

	args := []string{
		"-p", policy,
		"-D", ParamProjectDir + "=" + projectDir,
		"-D", ParamTmpDir + "=" + tempDir,
	}
	if includeRootTemp {
		args = append(args, "-D", ParamRootTmpDir+"="+rootTempDir)
	}
	args = append(args, InnerShell, "-c", script, ScriptName)
	args = append(args, cfg.ClaudeArgs...)

	plan := cfg.Credentials
	env := SanitizeEnvironment(cfg.Environ, plan, cfg.Environ["SSH_AUTH_SOCK"])
	env[MarkerEnv] = "1"
	if plan != nil {
		if plan.SSH != nil {
			env["SSH_AUTH_SOCK"] = plan.SSH.HostSocket
		}
		if plan.RuntimeDir != "" {
			env["XDG_RUNTIME_DIR"] = plan.RuntimeDir
		}
		if plan.IDE != nil {
			env[IDEPortEnv] = plan.IDE.Port
			env[IDETokenFileEnv] = plan.IDE.TokenFile
		}
	}

	return &WrapResult{
		Command: SandboxExecPath,
		Args:    args,
		Env:     env,
	}, nil
}

// ReadBasePolicy reads the externally supplied base policy. An empty
// path or unreadable file is ErrProfileUnavailable.
func ReadBasePolicy(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: set %s to a sandbox-exec policy file", ErrProfileUnavailable, ProfileEnv)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	return string(data), nil
}

// PolicyFragment returns the generated policy appended to the base:
// read anywhere, write only to the project and temp directories, and
// unrestricted networking.
func PolicyFragment(includeRootTemp bool) string {
	var builder strings.Builder
	line := func(s string) {
		builder.WriteString(s)
		builder.WriteByte('\n')
	}

	line(";; claude-sandbox")
	line("(allow file-read*)")
	line("(allow file-write*")
	line(`    (subpath (param "` + ParamProjectDir + `"))`)
	line(`    (subpath (param "` + ParamTmpDir + `"))`)
	if includeRootTemp {
		line(`    (subpath (param "` + ParamRootTmpDir + `"))`)
	}
	line(")")
	line("(allow network-outbound)")
	line("(allow network-inbound)")
	line("(allow system-socket)")
	return builder.String()
}
