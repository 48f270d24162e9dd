// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// The HackerOS-Installer command installs HackerOS from the live ISO.
//
// Without flags it runs a full-screen terminal wizard that collects the
// account, disk, edition, branch and filesystem choices, then hands the
// finished configuration to the installation pipeline. With --text the same
// questions are asked as plain prompts, for serial consoles and scripted
// runs. Installation itself always requires root.
package main
