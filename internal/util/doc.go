// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small filesystem helpers shared by the installer:
// crash-safe file writing (AtomicWriteFile) and recursive directory copying
// (CopyDir) for asset overlays.
package util
