// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_JSONWhenNotTerminal(t *testing.T) {
	var buffer bytes.Buffer
	logger := newLogger(&buffer, false, false)
	logger.Info("session created", "session", "abc")

	var record map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buffer.String())
	}
	if record["session"] != "abc" {
		t.Errorf("session = %v, want abc", record["session"])
	}
}

func TestNewLogger_TextWhenTerminal(t *testing.T) {
	var buffer bytes.Buffer
	logger := newLogger(&buffer, true, false)
	logger.Info("session created", "session", "abc")

	if !strings.Contains(buffer.String(), "session=abc") {
		t.Errorf("output = %q, want text key=value", buffer.String())
	}
}

func TestNewLogger_DebugLevel(t *testing.T) {
	var quiet, verbose bytes.Buffer
	newLogger(&quiet, true, false).Debug("hidden")
	newLogger(&verbose, true, true).Debug("shown")

	if quiet.Len() != 0 {
		t.Errorf("debug record emitted at info level: %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), "shown") {
		t.Errorf("debug record missing at debug level: %q", verbose.String())
	}
}
