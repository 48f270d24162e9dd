// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides the installer's configuration model.
//
// It contains two kinds of data:
//
//   - Configuration: the choices the wizard collects from the user
//     (account, edition, branch, filesystem, disk). The wizard is the only
//     writer; once Validate passes, the pipeline treats it as read-only.
//
//   - Settings: deployment parameters (mirror URL, target root, asset
//     directory, release URLs, package sets) with built-in defaults that an
//     optional installer.toml can override.
//
// The Edition, Branch and Filesystem enums carry their wizard list labels so
// the positional index-to-value mapping lives in one place.
package config
