// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/claude-sandbox/cmd/claude-sandbox/cli"
	"github.com/bureau-foundation/claude-sandbox/lib/config"
	"github.com/bureau-foundation/claude-sandbox/lib/credential"
	"github.com/bureau-foundation/claude-sandbox/lib/launcher"
	"github.com/bureau-foundation/claude-sandbox/lib/session"
	"github.com/bureau-foundation/claude-sandbox/sandbox"
)

// capabilityFlags are the flags shared by the root and config
// commands.
type capabilityFlags struct {
	layer      config.Layer
	configPath string
}

func (f *capabilityFlags) register(flagSet *pflag.FlagSet) {
	f.layer = config.Layer{}
	cli.OptionalBool(flagSet, &f.layer.SSHAgent, config.FieldSSHAgent, "forward the SSH agent socket")
	cli.OptionalBool(flagSet, &f.layer.GPGAgent, config.FieldGPGAgent, "expose the gpg-agent socket directory")
	cli.OptionalBool(flagSet, &f.layer.GitConfig, config.FieldGitConfig, "expose ~/.gitconfig and ~/.config/git read-only")
	cli.OptionalBool(flagSet, &f.layer.XDGRuntime, config.FieldXDGRuntime, "expose the whole XDG runtime directory read-only")
	cli.OptionalBool(flagSet, &f.layer.IDE, config.FieldIDE, "relay the editor integration's port and auth token")
	flagSet.StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/claude-sandbox/config.json)")
}

func rootCommand(env *environment) *cli.Command {
	var (
		flags   capabilityFlags
		dryRun  bool
		flagSet *pflag.FlagSet
	)

	return &cli.Command{
		Name:    "claude-sandbox",
		Summary: "Run Claude inside a sandbox",
		Description: `Run Claude inside a sandbox.

The project directory (the current directory) is writable; its sibling
checkouts are readable; the home directory is replaced by an empty
one that is deleted on exit. Host credentials stay out unless a flag
or the config file lets them in. Flags override the config file.`,
		Usage:      "claude-sandbox [flags] [-- claude-args...]",
		HelpOutput: env.stderr,
		Examples: []cli.Example{
			{Description: "Start an interactive session in the current project", Command: "claude-sandbox"},
			{Description: "Allow git pushes over SSH", Command: "claude-sandbox --ssh-agent --git-config"},
			{Description: "Show what would run without running it", Command: "claude-sandbox --dry-run -- --resume"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("claude-sandbox", pflag.ContinueOnError)
			flags.register(flagSet)
			flagSet.BoolVar(&dryRun, "dry-run", false, "print the environment changes and command without running")
			return flagSet
		},
		Subcommands: []*cli.Command{
			doctorCommand(env),
			configCommand(env),
			versionCommand(env),
		},
		Run: func(args []string) error {
			if dash := flagSet.ArgsLenAtDash(); dash != 0 && len(args) > 0 {
				return &cli.UsageError{Message: fmt.Sprintf(
					"unexpected argument %q (pass arguments for claude after --)\n\nRun 'claude-sandbox --help' for usage.", args[0])}
			}
			resolved := config.Resolve(flags.layer, config.Load(flags.configPath, env.configHome(), env.logger), config.Default())
			return launch(context.Background(), env, resolved.Capabilities, dryRun, args)
		},
	}
}

// launch builds the sandbox for the current project and runs Claude in
// it, or prints the invocation when dryRun is set.
func launch(ctx context.Context, env *environment, capabilities config.Capabilities, dryRun bool, claudeArgs []string) error {
	logger := env.logger

	backend, err := sandbox.ForPlatform(env.goos)
	if err != nil {
		return err
	}

	host, err := credential.HostEnvironment(env.getenv)
	if err != nil {
		return err
	}

	sess, err := session.New(env.tempDir, logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	plan, err := credential.NewBridge(host, sess, logger).Prepare(capabilities)
	if err != nil {
		return err
	}

	cfg, err := sandbox.NewConfig(sandbox.ConfigOptions{
		ProjectRoot:  env.workdir,
		Host:         host,
		Stager:       sess,
		Capabilities: capabilities,
		Credentials:  plan,
		Environ:      env.environ,
		Layout:       sandbox.DefaultLayout(env.goos),
		TempDir:      env.tempDir,
		ProfilePath:  env.getenv(sandbox.ProfileEnv),
		ClaudeArgs:   claudeArgs,
	})
	if err != nil {
		return err
	}

	result, err := backend.Build(cfg, sandbox.InnerScript(cfg.ProjectRoot))
	if err != nil {
		return err
	}

	if dryRun {
		return launcher.DryRun(env.stdout, result, sandbox.EnvironMap(env.environ))
	}

	logger.Debug("launching sandbox",
		"backend", backend.Name(),
		"session", sess.ID(),
		"project", cfg.ProjectRoot,
		"shared_tree", cfg.SharedTree,
	)

	code, err := launcher.Run(ctx, result, launcher.Options{
		Stdin:   env.stdin,
		Stdout:  env.stdout,
		Stderr:  env.stderr,
		Signals: env.signals,
		Cleanup: sess.Close,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return &cli.ExitError{Code: code}
	}
	return nil
}
