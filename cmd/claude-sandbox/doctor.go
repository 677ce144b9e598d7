// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/claude-sandbox/cmd/claude-sandbox/cli"
	"github.com/bureau-foundation/claude-sandbox/lib/process"
	"github.com/bureau-foundation/claude-sandbox/sandbox"
)

func doctorCommand(env *environment) *cli.Command {
	var (
		project    string
		configPath string
	)

	return &cli.Command{
		Name:    "doctor",
		Summary: "Check that this host can run the sandbox",
		Description: `Check that this host can run the sandbox.

Reports the backend for this platform and whether its tool is
installed and usable, whether the project directory exists, whether an
SSH agent is reachable for --ssh-agent, and whether the config file
parses. Exits 1 if any check fails; warnings do not fail.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("doctor", pflag.ContinueOnError)
			flagSet.StringVar(&project, "project", "", "project directory to check (default: current directory)")
			flagSet.StringVar(&configPath, "config", "", "config file to check")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return &cli.UsageError{Message: "doctor takes no arguments"}
			}
			if project == "" {
				project = env.workdir
			}

			report := sandbox.Diagnose(sandbox.DoctorOptions{
				GOOS:        env.goos,
				ProjectRoot: project,
				ProfilePath: env.getenv(sandbox.ProfileEnv),
				SSHAuthSock: env.getenv("SSH_AUTH_SOCK"),
				ConfigPath:  configPath,
				ConfigHome:  env.configHome(),
				Probe:       env.probe,
			})
			report.Print(env.stdout)

			if report.Failed() {
				return &cli.ExitError{Code: process.ExitFailure}
			}
			return nil
		},
	}
}
