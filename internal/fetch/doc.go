// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fetch downloads edition artifacts (prebuilt binaries, session
// files) from fixed release URLs into the target root, retrying transient
// network failures.
package fetch
