// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package executil runs the external commands that perform the actual
// installation: partitioning tools, formatters, mount, debootstrap, and
// chroot-wrapped commands inside the target root.
//
// The Runner interface is the single choke point for privileged side
// effects, which keeps the pipeline testable with a recording fake. Values
// interpolated into target-root shell scripts must pass through ShellQuote;
// anything sensitive (passwords, partition layouts) is fed via stdin instead
// of the command line.
package executil
