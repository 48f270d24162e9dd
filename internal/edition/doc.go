// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package edition installs the chosen desktop edition into the target root.
//
// Every edition starts from the same base overlay; the edition-specific
// action is one of three shapes: an apt package set (Official, Gnome, XFCE,
// Wayfire, Cybersecurity), a fixed list of prebuilt release downloads (Blue,
// Atomic), or a cloned configuration repository copied over the root
// (Hydra). Downloads run sequentially and the first failure aborts the
// edition install.
package edition
