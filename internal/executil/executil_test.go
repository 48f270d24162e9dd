// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package executil

import (
	"errors"
	"strings"
	"testing"
)

// =============================================================================
// SHELL QUOTE TESTS
// =============================================================================

func TestShellQuote(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain word", "alice", "'alice'"},
		{"empty string", "", "''"},
		{"spaces", "a b", "'a b'"},
		{"double quotes", `a"b`, `'a"b'`},
		{"single quote", "it's", `'it'\''s'`},
		{"command substitution", "$(reboot)", "'$(reboot)'"},
		{"backticks", "`reboot`", "'`reboot`'"},
		{"semicolon injection", "x; rm -rf /", "'x; rm -rf /'"},
		{"only quotes", "''", `''\'''\'''`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShellQuote(tc.input); got != tc.want {
				t.Errorf("ShellQuote(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestShellQuote_AlwaysSingleWord(t *testing.T) {
	// Whatever the input, the quoted form must start and end inside a
	// single-quoted region and contain no unescaped quote.
	inputs := []string{"a", "a b c", "'", "''", `'\'`, "$HOME", "a\nb"}
	for _, input := range inputs {
		quoted := ShellQuote(input)
		if !strings.HasPrefix(quoted, "'") || !strings.HasSuffix(quoted, "'") {
			t.Errorf("ShellQuote(%q) = %s: not wrapped in single quotes", input, quoted)
		}
	}
}

// =============================================================================
// COMMAND ERROR TESTS
// =============================================================================

func TestCommandError(t *testing.T) {
	underlying := errors.New("exit status 1")
	err := &CommandError{
		Program: "sfdisk",
		Args:    []string{"/dev/sda"},
		Err:     underlying,
	}

	if !strings.Contains(err.Error(), "sfdisk /dev/sda") {
		t.Errorf("Error() = %q, want the argv included", err.Error())
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is should match the wrapped error")
	}
}
