// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strconv"

	"github.com/spf13/pflag"
)

// optionalBool is a pflag.Value whose target stays nil until the flag
// is seen on the command line.
type optionalBool struct {
	target **bool
}

func (o *optionalBool) String() string {
	if o.target == nil || *o.target == nil {
		return ""
	}
	return strconv.FormatBool(**o.target)
}

func (o *optionalBool) Set(value string) error {
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*o.target = &parsed
	return nil
}

func (o *optionalBool) Type() string {
	return "bool"
}

// IsBoolFlag lets "--flag" appear without a value.
func (o *optionalBool) IsBoolFlag() bool {
	return true
}

// OptionalBool defines a boolean flag that records whether it was
// given. "--name" and "--name=true" set *target to true, "--name=false"
// sets it to false, and absence leaves it nil.
func OptionalBool(flagSet *pflag.FlagSet, target **bool, name, usage string) {
	flag := flagSet.VarPF(&optionalBool{target: target}, name, "", usage)
	flag.NoOptDefVal = "true"
}
