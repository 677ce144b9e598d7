// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/claude-sandbox/cmd/claude-sandbox/cli"
	"github.com/bureau-foundation/claude-sandbox/lib/config"
)

func configCommand(env *environment) *cli.Command {
	var flags capabilityFlags

	return &cli.Command{
		Name:    "config",
		Summary: "Show the resolved capabilities and where each came from",
		Description: `Show the resolved capabilities and where each came from.

Accepts the same capability flags as the root command, so
"claude-sandbox config --ssh-agent" shows what a launch with
--ssh-agent would get.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("config", pflag.ContinueOnError)
			flags.register(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return &cli.UsageError{Message: "config takes no arguments"}
			}

			configHome := env.configHome()
			path := flags.configPath
			if path == "" {
				path = config.DefaultPath(configHome)
			}
			resolved := config.Resolve(flags.layer, config.Load(flags.configPath, configHome, env.logger), config.Default())

			fmt.Fprintf(env.stdout, "config file: %s\n\n", path)
			tw := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
			for _, field := range config.Fields {
				value, err := resolved.Capabilities.Value(field)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%t\t(%s)\n", field, value, resolved.Sources[field])
			}
			return tw.Flush()
		},
	}
}
