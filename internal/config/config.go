// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config holds the installer configuration model: the choices the
// wizard collects and the settings that parameterize the pipeline.
package config

import (
	"errors"
	"fmt"
	"regexp"
)

// =============================================================================
// EDITION
// =============================================================================

// Edition is the desktop-environment variant to install.
type Edition int

const (
	EditionOfficial Edition = iota
	EditionGnome
	EditionXfce
	EditionBlue
	EditionHydra
	EditionCybersecurity
	EditionWayfire
	EditionAtomic
)

// editionNames is indexed by Edition and matches the wizard's list order.
var editionNames = [...]string{
	"Official",
	"Gnome",
	"XFCE",
	"Blue",
	"Hydra",
	"Cybersecurity",
	"Wayfire",
	"Atomic",
}

// editionLabels are the human-facing list entries shown by the wizard.
var editionLabels = [...]string{
	"Official (KDE Plasma + SDDM)",
	"Gnome (GNOME + GDM3)",
	"XFCE (XFCE + LightDM)",
	"Blue (Custom Environment)",
	"Hydra (Custom Look)",
	"Cybersecurity (With Tools)",
	"Wayfire (Wayfire + SDDM)",
	"Atomic (With Hammer)",
}

// String returns the edition name.
func (e Edition) String() string {
	if e < 0 || int(e) >= len(editionNames) {
		return fmt.Sprintf("Edition(%d)", int(e))
	}
	return editionNames[e]
}

// PreviewImage returns the screenshot filename shown when the edition is
// selected in the wizard.
func (e Edition) PreviewImage() string {
	switch e {
	case EditionOfficial:
		return "plasma.png"
	case EditionGnome:
		return "gnome.png"
	case EditionXfce:
		return "xfce.png"
	case EditionBlue:
		return "blue.png"
	case EditionHydra:
		return "hydra.png"
	case EditionCybersecurity:
		return "cybersecurity.png"
	case EditionWayfire:
		return "wayfire.png"
	case EditionAtomic:
		return "atomic.png"
	}
	return ""
}

// EditionOptions returns the wizard list labels, in selection order.
func EditionOptions() []string {
	return editionLabels[:]
}

// EditionAt maps a wizard list index to an Edition.
func EditionAt(index int) (Edition, bool) {
	if index < 0 || index >= len(editionNames) {
		return 0, false
	}
	return Edition(index), true
}

// =============================================================================
// BRANCH
// =============================================================================

// Branch is the Debian repository track the installed system follows.
type Branch int

const (
	BranchStable Branch = iota
	BranchTesting
	BranchUnstable
)

var branchNames = [...]string{"Stable", "Testing", "Unstable"}

// branchCodenames maps each branch to its upstream repository codename.
var branchCodenames = [...]string{"trixie", "forky", "sid"}

// String returns the branch name.
func (b Branch) String() string {
	if b < 0 || int(b) >= len(branchNames) {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return branchNames[b]
}

// Codename returns the upstream repository codename for the branch.
func (b Branch) Codename() string {
	if b < 0 || int(b) >= len(branchCodenames) {
		return ""
	}
	return branchCodenames[b]
}

// BranchOptions returns the wizard list labels, in selection order.
func BranchOptions() []string {
	labels := make([]string, len(branchNames))
	for i, name := range branchNames {
		labels[i] = fmt.Sprintf("%s (%s)", name, branchCodenames[i])
	}
	return labels
}

// BranchAt maps a wizard list index to a Branch.
func BranchAt(index int) (Branch, bool) {
	if index < 0 || index >= len(branchNames) {
		return 0, false
	}
	return Branch(index), true
}

// =============================================================================
// FILESYSTEM
// =============================================================================

// Filesystem is the root filesystem type to create.
type Filesystem int

const (
	FilesystemBtrfs Filesystem = iota
	FilesystemExt4
	FilesystemZfs
)

var filesystemNames = [...]string{"Btrfs", "Ext4", "Zfs"}

// String returns the filesystem name.
func (f Filesystem) String() string {
	if f < 0 || int(f) >= len(filesystemNames) {
		return fmt.Sprintf("Filesystem(%d)", int(f))
	}
	return filesystemNames[f]
}

// MkfsCommand returns the formatter argv prefix for the filesystem. The
// caller appends the partition device.
func (f Filesystem) MkfsCommand() []string {
	switch f {
	case FilesystemBtrfs:
		return []string{"mkfs.btrfs", "-f"}
	case FilesystemExt4:
		return []string{"mkfs.ext4", "-F"}
	case FilesystemZfs:
		return []string{"zpool", "create", "-f", "hackeros"}
	}
	return nil
}

// FilesystemOptions returns the wizard list labels, in selection order.
func FilesystemOptions() []string {
	return filesystemNames[:]
}

// FilesystemAt maps a wizard list index to a Filesystem.
func FilesystemAt(index int) (Filesystem, bool) {
	if index < 0 || index >= len(filesystemNames) {
		return 0, false
	}
	return Filesystem(index), true
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// usernamePattern is deliberately conservative: the username is interpolated
// into target-root commands and a sudoers drop-in filename.
var usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

// Configuration is the full set of user choices. The wizard builds it
// incrementally and validates it once; the pipeline treats it as read-only
// and performs no re-validation.
type Configuration struct {
	Username        string
	Password        string
	Hostname        string
	Edition         Edition
	Branch          Branch
	Filesystem      Filesystem
	ManualPartition bool
	Disk            string
}

// Validate is the sole gate between the wizard and the pipeline. Every field
// the pipeline consumes must be usable after this returns nil.
func (c *Configuration) Validate() error {
	if c.Username == "" {
		return errors.New("username must not be empty")
	}
	if !usernamePattern.MatchString(c.Username) {
		return fmt.Errorf("username %q is not a valid POSIX user name", c.Username)
	}
	if c.Password == "" {
		return errors.New("password must not be empty")
	}
	if c.Hostname == "" {
		return errors.New("hostname must not be empty")
	}
	if c.Disk == "" {
		return errors.New("disk must not be empty")
	}
	if c.Edition < EditionOfficial || c.Edition > EditionAtomic {
		return fmt.Errorf("unknown edition %d", int(c.Edition))
	}
	if c.Branch < BranchStable || c.Branch > BranchUnstable {
		return fmt.Errorf("unknown branch %d", int(c.Branch))
	}
	if c.Filesystem < FilesystemBtrfs || c.Filesystem > FilesystemZfs {
		return fmt.Errorf("unknown filesystem %d", int(c.Filesystem))
	}
	return nil
}
