// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/executil"
)

// mountTracker records every mount the pipeline acquires so they can be
// released in reverse order on any exit path. A failure after mounting must
// still unmount before the error propagates; manual unmount calls at the
// end of a phase list cannot guarantee that.
type mountTracker struct {
	runner  executil.Runner
	log     *logrus.Logger
	targets []string
}

func newMountTracker(runner executil.Runner, log *logrus.Logger) *mountTracker {
	return &mountTracker{runner: runner, log: log}
}

// Mount mounts device on target and records the mountpoint.
func (t *mountTracker) Mount(ctx context.Context, device, target string) error {
	if err := t.runner.Run(ctx, "mount", device, target); err != nil {
		return err
	}
	t.targets = append(t.targets, target)
	return nil
}

// Bind bind-mounts source on target and records the mountpoint.
func (t *mountTracker) Bind(ctx context.Context, source, target string) error {
	if err := t.runner.Run(ctx, "mount", "--bind", source, target); err != nil {
		return err
	}
	t.targets = append(t.targets, target)
	return nil
}

// UnmountAll releases every recorded mount in reverse order. Failures are
// logged and do not stop the remaining unmounts; the first failure is
// returned. The tracker is drained either way, so a second call is a no-op.
func (t *mountTracker) UnmountAll(ctx context.Context) error {
	var firstErr error
	for i := len(t.targets) - 1; i >= 0; i-- {
		target := t.targets[i]
		if err := t.runner.Run(ctx, "umount", target); err != nil {
			if t.log != nil {
				t.log.WithError(err).WithField("target", target).Warn("unmount failed")
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	t.targets = nil
	return firstErr
}
