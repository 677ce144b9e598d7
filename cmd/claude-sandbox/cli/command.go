// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one node of the command tree.
type Command struct {
	// Name is the word the user types to reach this command.
	Name string

	// Summary is listed next to the name in the parent's help.
	Summary string

	// Description opens the command's own help. Summary is used when
	// it is empty.
	Description string

	// Usage overrides the synthesized usage line.
	Usage string

	Examples []Example

	// Flags builds a fresh flag set. Nil means the command takes no
	// flags.
	Flags func() *pflag.FlagSet

	Subcommands []*Command

	// Run receives the arguments left after flag parsing. A command
	// with both Run and Subcommands runs itself when the first
	// argument is not a subcommand name.
	Run func(args []string) error

	// HelpOutput receives help text. Unset commands inherit from their
	// parent; the root falls back to os.Stderr.
	HelpOutput io.Writer

	parent *Command
}

// Example is one entry in the Examples section of help.
type Example struct {
	Description string
	Command     string
}

// Execute routes args through the tree and runs the selected command.
func (c *Command) Execute(args []string) error {
	target, rest, err := c.route(args)
	if err != nil {
		return err
	}
	return target.invoke(rest)
}

// route descends through subcommand names at the front of args. Flags
// stop the descent, as does a command with no subcommands.
func (c *Command) route(args []string) (*Command, []string, error) {
	current := c
	for len(args) > 0 && len(current.Subcommands) > 0 {
		word := args[0]
		if strings.HasPrefix(word, "-") || isHelpFlag(word) {
			break
		}
		next := current.lookup(word)
		if next == nil {
			return nil, nil, current.unknownCommand(word)
		}
		next.parent = current
		current, args = next, args[1:]
	}
	return current, args, nil
}

func (c *Command) lookup(name string) *Command {
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

func (c *Command) unknownCommand(word string) error {
	names := make([]string, len(c.Subcommands))
	for i, sub := range c.Subcommands {
		names[i] = sub.Name
	}
	message := fmt.Sprintf("unknown command %q", word)
	if guess := nearest(word, names); guess != "" {
		message += fmt.Sprintf(" (did you mean %q?)", guess)
	}
	return c.usageError(message)
}

// invoke parses flags and calls Run on a command already selected by
// route.
func (c *Command) invoke(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.helpOutput())
		return nil
	}

	if c.Run == nil {
		c.PrintHelp(c.helpOutput())
		if len(c.Subcommands) == 0 {
			return fmt.Errorf("no action defined for %q", c.fullName())
		}
		if len(args) == 0 {
			return usageErrorf("subcommand required")
		}
		return usageErrorf("subcommand required (got flag %q)", args[0])
	}

	if c.Flags == nil {
		return c.Run(args)
	}

	flagSet := c.Flags()
	flagSet.SetOutput(io.Discard)
	err := flagSet.Parse(args)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		c.PrintHelp(c.helpOutput())
		return nil
	case err != nil:
		message := err.Error()
		if guess := suggestFlag(err, c.Flags()); guess != "" {
			message += fmt.Sprintf(" (did you mean %s?)", guess)
		}
		return c.usageError(message)
	}
	return c.Run(flagSet.Args())
}

func (c *Command) usageError(message string) error {
	return usageErrorf("%s\n\nRun '%s --help' for usage.", message, c.fullName())
}

// PrintHelp renders the command's help to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	if intro := c.Description; intro != "" {
		fmt.Fprintf(w, "%s\n\n", intro)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	usage := c.Usage
	if usage == "" {
		usage = name + " [flags]"
		if len(c.Subcommands) > 0 {
			usage = name + " <command> [flags]"
		}
	}
	fmt.Fprintf(w, "Usage:\n  %s\n", usage)

	if len(c.Subcommands) > 0 {
		fmt.Fprint(w, "\nCommands:\n")
		table := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(table, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		table.Flush()
	}

	if c.Flags != nil {
		if usages := c.Flags().FlagUsages(); usages != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usages)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprint(w, "\nExamples:\n")
		for i, example := range c.Examples {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

func (c *Command) helpOutput() io.Writer {
	for command := c; command != nil; command = command.parent {
		if command.HelpOutput != nil {
			return command.HelpOutput
		}
	}
	return os.Stderr
}

// fullName joins the names from the root down to c.
func (c *Command) fullName() string {
	var names []string
	for command := c; command != nil; command = command.parent {
		names = append([]string{command.Name}, names...)
	}
	return strings.Join(names, " ")
}

func isHelpFlag(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	}
	return false
}
