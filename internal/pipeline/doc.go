// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline executes the installation: a fixed sequence of
// provisioning phases from package-source configuration through
// partitioning, bootstrap, user creation, edition install and bootloader
// setup, ending in a reboot.
//
// Phases run strictly sequentially with no retries; the first failure
// aborts the run. Mounts and bind mounts are tracked as scoped resources,
// so a failure in any later phase still unmounts everything (in reverse
// order of mounting) before the error propagates. There is no rollback of
// destructive disk operations and no resume of a partial install.
package pipeline
