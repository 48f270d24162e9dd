// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package executil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner is the channel through which every system-mutating command runs.
// The pipeline and edition installer depend on this interface so tests can
// record invocations instead of touching the host.
type Runner interface {
	// Run executes program with args and waits for it to exit.
	Run(ctx context.Context, program string, args ...string) error

	// RunInput is Run with stdin fed from the given string. Used where a
	// tool reads sensitive or structured data from stdin (chpasswd, sfdisk)
	// so nothing passes through a shell.
	RunInput(ctx context.Context, stdin, program string, args ...string) error

	// RunInteractive is Run with the calling terminal's stdio attached,
	// for tools that take over the screen (cfdisk).
	RunInteractive(ctx context.Context, program string, args ...string) error

	// RunInTarget executes a shell command inside the mounted target root
	// via chroot. The script is passed as a single /bin/bash -c argument;
	// callers must ShellQuote any interpolated value.
	RunInTarget(ctx context.Context, root, script string) error
}

// ExecRunner runs commands on the host with os/exec.
type ExecRunner struct {
	Log *logrus.Logger
}

// NewRunner returns an ExecRunner logging through log.
func NewRunner(log *logrus.Logger) *ExecRunner {
	return &ExecRunner{Log: log}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, program string, args ...string) error {
	return r.run(ctx, "", program, args...)
}

// RunInput implements Runner.
func (r *ExecRunner) RunInput(ctx context.Context, stdin, program string, args ...string) error {
	return r.run(ctx, stdin, program, args...)
}

// RunInteractive implements Runner.
func (r *ExecRunner) RunInteractive(ctx context.Context, program string, args ...string) error {
	r.logCommand(program, args)

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return &CommandError{Program: program, Args: args, Err: err}
	}
	return nil
}

// RunInTarget implements Runner.
func (r *ExecRunner) RunInTarget(ctx context.Context, root, script string) error {
	return r.run(ctx, "", "chroot", root, "/bin/bash", "-c", script)
}

func (r *ExecRunner) run(ctx context.Context, stdin, program string, args ...string) error {
	r.logCommand(program, args)

	cmd := exec.CommandContext(ctx, program, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	if out := strings.TrimSpace(output.String()); out != "" && r.Log != nil {
		r.Log.WithField("command", program).Debug(out)
	}
	if err != nil {
		return &CommandError{Program: program, Args: args, Output: output.String(), Err: err}
	}
	return nil
}

func (r *ExecRunner) logCommand(program string, args []string) {
	if r.Log == nil {
		return
	}
	r.Log.WithField("args", strings.Join(args, " ")).Infof("running %s", program)
}

// CommandError reports a command that failed to launch or exited non-zero.
// The exit status is the only signal consumed; interpretation is left to
// the caller.
type CommandError struct {
	Program string
	Args    []string
	Output  string
	Err     error
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", e.Program+" "+strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ShellQuote wraps s in single quotes for safe interpolation into a
// RunInTarget script. Embedded single quotes are closed, escaped and
// reopened, so the result is always a single shell word.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
