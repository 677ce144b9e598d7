// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config resolves the capability flags that decide which host
// integrations leak into the sandbox.
//
// Three layers are merged independently per field, highest first:
//
//   - the command line ([Layer] built by the CLI; a nil field means the
//     flag was not given, which is distinct from an explicit false),
//   - the per-user config file ([LoadFile] / [Load]),
//   - built-in defaults ([Default]; every capability is off).
//
// The file is optional. A missing file yields an empty layer. A file
// that exists but cannot be read or parsed is reported as a warning by
// [Load] and contributes nothing, so resolution falls back to the
// defaults for that layer rather than aborting the launch.
//
// YAML files (.yaml, .yml) are decoded with gopkg.in/yaml.v3. Every
// other extension is treated as JSON with optional comments and
// trailing commas, normalized by github.com/tidwall/jsonc.
//
// Key exports:
//
//   - [Capabilities] -- the resolved five booleans
//   - [Layer] -- one layer of optional values
//   - [Resolve] -- first-non-empty-wins merge with per-field [Source]
//
// This package depends on no other claude-sandbox packages.
package config
