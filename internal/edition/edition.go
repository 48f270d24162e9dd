// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package edition

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/sirupsen/logrus"

	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/config"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/executil"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/fetch"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/util"
)

// blueComponents are the Blue Environment binaries fetched into the user's
// session directory, in release naming.
var blueComponents = []string{"wm", "shell", "launcher", "Desktop", "decorations", "core"}

// hammerComponents are the Atomic management-tool parts installed under the
// hammer library directory.
var hammerComponents = []string{"hammer-updater", "hammer-tui", "hammer-core", "hammer-builder"}

// Installer applies the edition-specific step of the pipeline: package
// installs, prebuilt-binary downloads, or a configuration-repository clone,
// depending on the chosen edition.
type Installer struct {
	Runner   executil.Runner
	Fetcher  fetch.Fetcher
	Settings config.Settings
	Log      *logrus.Logger

	// clone is swappable for tests; the default clones with go-git.
	clone func(ctx context.Context, url, dir string) error
}

// New creates an edition installer.
func New(runner executil.Runner, fetcher fetch.Fetcher, settings config.Settings, log *logrus.Logger) *Installer {
	return &Installer{
		Runner:   runner,
		Fetcher:  fetcher,
		Settings: settings,
		Log:      log,
		clone:    gitClone,
	}
}

// Install copies the common base overlay into the target root, then runs
// the edition-specific action. The first failed download or command aborts
// the edition install.
func (inst *Installer) Install(ctx context.Context, cfg config.Configuration) error {
	if inst.Log != nil {
		inst.Log.WithField("edition", cfg.Edition.String()).Info("installing edition")
	}

	if err := inst.copyBaseOverlay(); err != nil {
		return err
	}

	switch cfg.Edition {
	case config.EditionOfficial:
		return inst.aptInstall(ctx, inst.Settings.Packages.Official)
	case config.EditionGnome:
		return inst.aptInstall(ctx, inst.Settings.Packages.Gnome)
	case config.EditionXfce:
		return inst.aptInstall(ctx, inst.Settings.Packages.Xfce)
	case config.EditionWayfire:
		return inst.aptInstall(ctx, inst.Settings.Packages.Wayfire)
	case config.EditionCybersecurity:
		return inst.aptInstall(ctx, inst.Settings.Packages.Cybersecurity)
	case config.EditionBlue:
		return inst.installBlue(ctx, cfg)
	case config.EditionHydra:
		return inst.installHydra(ctx)
	case config.EditionAtomic:
		return inst.installAtomic(ctx)
	}
	return fmt.Errorf("unknown edition %d", int(cfg.Edition))
}

// copyBaseOverlay lays the shared file overlay over the target root before
// any edition-specific action.
func (inst *Installer) copyBaseOverlay() error {
	overlay := filepath.Join(inst.Settings.AssetDir, "official")
	if _, err := os.Stat(overlay); os.IsNotExist(err) {
		// Nothing shipped, nothing to copy. Text-mode installs outside
		// the live ISO hit this path.
		return nil
	}
	if err := util.CopyDir(overlay, inst.Settings.TargetRoot); err != nil {
		return fmt.Errorf("base overlay: %w", err)
	}
	return nil
}

// aptInstall installs packages inside the target root.
func (inst *Installer) aptInstall(ctx context.Context, packages []string) error {
	if len(packages) == 0 {
		return nil
	}
	script := "apt install -y " + strings.Join(packages, " ")
	return inst.Runner.RunInTarget(ctx, inst.Settings.TargetRoot, script)
}

// installBlue fetches the prebuilt Blue Environment binaries into the new
// user's home, the compositor binary and session file into system paths,
// then installs the display manager.
func (inst *Installer) installBlue(ctx context.Context, cfg config.Configuration) error {
	root := inst.Settings.TargetRoot
	userDir := filepath.Join(root, "home", cfg.Username, ".hackeros", "Blue-Environment")

	for _, component := range blueComponents {
		url := inst.Settings.BlueReleaseURL + "/" + component
		if err := inst.Fetcher.Fetch(ctx, url, filepath.Join(userDir, component)); err != nil {
			return err
		}
	}

	binary := inst.Settings.BlueReleaseURL + "/Blue-Environment"
	if err := inst.Fetcher.Fetch(ctx, binary, filepath.Join(root, "usr", "bin", "Blue-Environment")); err != nil {
		return err
	}

	session := filepath.Join(root, "usr", "share", "wayland-sessions", "Blue-Environment.desktop")
	if err := inst.Fetcher.Fetch(ctx, inst.Settings.BlueSessionURL, session); err != nil {
		return err
	}

	return inst.aptInstall(ctx, inst.Settings.Packages.Blue)
}

// installHydra clones the look-and-feel repository and copies its files
// tree over the target root. No packages are installed for this edition.
func (inst *Installer) installHydra(ctx context.Context) error {
	tmp, err := os.MkdirTemp("", "hydra-look-and-feel-")
	if err != nil {
		return fmt.Errorf("hydra clone dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := inst.clone(ctx, inst.Settings.HydraRepoURL, tmp); err != nil {
		return fmt.Errorf("hydra clone: %w", err)
	}

	if err := util.CopyDir(filepath.Join(tmp, "files"), inst.Settings.TargetRoot); err != nil {
		return fmt.Errorf("hydra overlay: %w", err)
	}
	return nil
}

// installAtomic fetches the hammer management tool and its components,
// installs the default desktop, then runs hammer's setup inside the target.
func (inst *Installer) installAtomic(ctx context.Context) error {
	root := inst.Settings.TargetRoot

	hammer := inst.Settings.HammerReleaseURL + "/hammer"
	if err := inst.Fetcher.Fetch(ctx, hammer, filepath.Join(root, "usr", "bin", "hammer")); err != nil {
		return err
	}

	libDir := filepath.Join(root, "usr", "lib", "HackerOS", "hammer")
	for _, component := range hammerComponents {
		url := inst.Settings.HammerReleaseURL + "/" + component
		if err := inst.Fetcher.Fetch(ctx, url, filepath.Join(libDir, component)); err != nil {
			return err
		}
	}

	if err := inst.aptInstall(ctx, inst.Settings.Packages.Atomic); err != nil {
		return err
	}
	return inst.Runner.RunInTarget(ctx, root, "hammer setup")
}

// gitClone is the production clone implementation.
func gitClone(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:   url,
		Depth: 1,
	})
	return err
}
