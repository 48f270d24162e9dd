// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/config"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/executil"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/util"
)

// autoPartitionScript is the sfdisk layout for the automatic path: GPT with
// a 512 MiB EFI system partition and the remainder as the Linux root.
const autoPartitionScript = "label: gpt\n,512MiB,U\n,,L\n"

// bindDirs are bind-mounted into the target root, in this order, so
// chrooted commands see host device and process interfaces.
var bindDirs = []string{"/dev", "/proc", "/sys", "/run"}

// EditionInstaller is the edition-specific step of the pipeline.
type EditionInstaller interface {
	Install(ctx context.Context, cfg config.Configuration) error
}

// Reporter receives phase progress for display. May be nil.
type Reporter func(phase string, step, total int)

// Pipeline executes the ordered provisioning phases that turn a blank disk
// into a bootable system. Phases are strictly sequential and fail fast:
// the first error aborts everything after it. The Configuration has been
// validated by the wizard and is treated as read-only here.
type Pipeline struct {
	Config   config.Configuration
	Settings config.Settings
	Runner   executil.Runner
	Editions EditionInstaller
	Log      *logrus.Logger
	Report   Reporter

	mounts *mountTracker
}

// New assembles a pipeline.
func New(cfg config.Configuration, settings config.Settings, runner executil.Runner, editions EditionInstaller, log *logrus.Logger) *Pipeline {
	return &Pipeline{
		Config:   cfg,
		Settings: settings,
		Runner:   runner,
		Editions: editions,
		Log:      log,
	}
}

type phase struct {
	name string
	run  func(ctx context.Context) error
}

// phases returns the fixed execution order.
func (p *Pipeline) phases() []phase {
	return []phase{
		{"configure package sources", p.configureSources},
		{"partition disk", p.partitionDisk},
		{"create filesystems", p.createFilesystems},
		{"mount target", p.mountTarget},
		{"bootstrap base system", p.bootstrapBase},
		{"bind host filesystems", p.bindMounts},
		{"install base system and user", p.setupBaseAndUser},
		{"set hostname", p.writeHostname},
		{"install edition", p.installEdition},
		{"install bootloader", p.installBootloader},
		{"clean up", p.cleanup},
		{"reboot", p.reboot},
	}
}

// Run executes all phases in order. Any mounts acquired before a failure
// are unmounted before the error is returned.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	p.mounts = newMountTracker(p.Runner, p.Log)
	defer func() {
		if err != nil {
			// Release mounts even when a later phase failed; the
			// detached context survives cancellation.
			p.mounts.UnmountAll(context.WithoutCancel(ctx))
		}
	}()

	phases := p.phases()
	for i, ph := range phases {
		if p.Report != nil {
			p.Report(ph.name, i+1, len(phases))
		}
		if p.Log != nil {
			p.Log.WithField("phase", ph.name).Info("starting phase")
		}
		if err = ph.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", ph.name, err)
		}
	}
	return nil
}

// =============================================================================
// PHASES
// =============================================================================

// configureSources points the package sources at the chosen branch and
// refreshes the index. The sources list is overwritten, not appended.
func (p *Pipeline) configureSources(ctx context.Context) error {
	line := fmt.Sprintf("deb %s %s main\n", p.Settings.MirrorURL, p.Config.Branch.Codename())
	if err := util.AtomicWriteFile(p.Settings.SourcesList, []byte(line), 0o644); err != nil {
		return err
	}
	return p.Runner.Run(ctx, "apt", "update")
}

/// partitionDisk writes the partition table: interactively with cfdisk when
// the user asked for manual control, otherwise with the fixed sfdisk layout.
func (p *Pipeline) partitionDisk(ctx context.Context) error {
	if p.Config.ManualPartition {
		return p.Runner.RunInteractive(ctx, "cfdisk", p.Config.Disk)
	}
	return p.Runner.RunInput(ctx, autoPartitionScript, "sfdisk", "--wipe", "always", p.Config.Disk)
}

// createFilesystems formats the EFI system partition and the root.
func (p *Pipeline) createFilesystems(ctx context.Context) error {
	boot := PartitionDevice(p.Config.Disk, 1)
	root := PartitionDevice(p.Config.Disk, 2)

	if err := p.Runner.Run(ctx, "mkfs.vfat", "-F", "32", boot); err != nil {
		return err
	}

	argv := p.Config.Filesystem.MkfsCommand()
	return p.Runner.Run(ctx, argv[0], append(argv[1:], root)...)
}

// mountTarget mounts root and boot under the target root.
func (p *Pipeline) mountTarget(ctx context.Context) error {
	targetRoot := p.Settings.TargetRoot
	if err := os.MkdirAll(targetRoot, 0o755); err != nil {
		return err
	}
	if err := p.mounts.Mount(ctx, PartitionDevice(p.Config.Disk, 2), targetRoot); err != nil {
		return err
	}

	bootDir := filepath.Join(targetRoot, "boot")
	if err := os.MkdirAll(bootDir, 0o755); err != nil {
		return err
	}
	return p.mounts.Mount(ctx, PartitionDevice(p.Config.Disk, 1), bootDir)
}

// bootstrapBase populates the minimal base system from the mirror.
func (p *Pipeline) bootstrapBase(ctx context.Context) error {
	return p.Runner.Run(ctx, "debootstrap", p.Config.Branch.Codename(), p.Settings.TargetRoot, p.Settings.MirrorURL)
}

// bindMounts binds the host interfaces the chroot needs.
func (p *Pipeline) bindMounts(ctx context.Context) error {
	for _, dir := range bindDirs {
		target := filepath.Join(p.Settings.TargetRoot, dir)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return err
		}
		if err := p.mounts.Bind(ctx, dir, target); err != nil {
			return err
		}
	}
	return nil
}

// setupBaseAndUser installs the kernel and bootloader packages and creates
// the administrative user inside the target.
func (p *Pipeline) setupBaseAndUser(ctx context.Context) error {
	root := p.Settings.TargetRoot

	if err := p.Runner.RunInTarget(ctx, root, "apt update"); err != nil {
		return err
	}
	if packages := p.Settings.Packages.Base; len(packages) > 0 {
		script := "apt install -y " + strings.Join(packages, " ")
		if err := p.Runner.RunInTarget(ctx, root, script); err != nil {
			return err
		}
	}

	user := executil.ShellQuote(p.Config.Username)
	if err := p.Runner.RunInTarget(ctx, root, fmt.Sprintf("useradd -m -G sudo -s /bin/bash %s", user)); err != nil {
		return err
	}

	// The password goes through chpasswd's stdin, never a shell string.
	credentials := p.Config.Username + ":" + p.Config.Password + "\n"
	if err := p.Runner.RunInput(ctx, credentials, "chroot", root, "chpasswd"); err != nil {
		return err
	}

	// A sudoers drop-in instead of appending to /etc/sudoers: restricted
	// syntax, own file, validated ownership via mode 0440.
	dropIn := filepath.Join(root, "etc", "sudoers.d", p.Config.Username)
	rule := fmt.Sprintf("%s ALL=(ALL) ALL\n", p.Config.Username)
	return util.AtomicWriteFile(dropIn, []byte(rule), 0o440)
}

// writeHostname writes the hostname and a matching hosts entry.
func (p *Pipeline) writeHostname(ctx context.Context) error {
	root := p.Settings.TargetRoot
	hostname := p.Config.Hostname

	if err := util.AtomicWriteFile(filepath.Join(root, "etc", "hostname"), []byte(hostname+"\n"), 0o644); err != nil {
		return err
	}

	hosts := fmt.Sprintf("127.0.0.1\tlocalhost\n127.0.1.1\t%s\n", hostname)
	return util.AtomicWriteFile(filepath.Join(root, "etc", "hosts"), []byte(hosts), 0o644)
}

// installEdition hands off to the edition installer.
func (p *Pipeline) installEdition(ctx context.Context) error {
	return p.Editions.Install(ctx, p.Config)
}

// installBootloader installs grub on the chosen disk and generates its
// configuration.
func (p *Pipeline) installBootloader(ctx context.Context) error {
	root := p.Settings.TargetRoot
	if err := p.Runner.RunInTarget(ctx, root, "grub-install "+executil.ShellQuote(p.Config.Disk)); err != nil {
		return err
	}
	return p.Runner.RunInTarget(ctx, root, "update-grub")
}

// cleanup unmounts everything in reverse order, then removes the
// installer's own files from the host. The self-uninstall runs only here,
// on the success path; failure paths never reach it.
func (p *Pipeline) cleanup(ctx context.Context) error {
	if err := p.mounts.UnmountAll(ctx); err != nil {
		return err
	}
	p.removeInstallerFiles()
	return nil
}

// removeInstallerFiles deletes the installer assets, binary and profile
// hook from the live system. Best effort: a leftover file on a system that
// is about to reboot into the new install is not worth failing over.
func (p *Pipeline) removeInstallerFiles() {
	remove := func(path string, all bool) {
		if path == "" {
			return
		}
		var err error
		if all {
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil && !os.IsNotExist(err) && p.Log != nil {
			p.Log.WithError(err).WithField("path", path).Warn("self-uninstall failed")
		}
	}
	remove(p.Settings.AssetDir, true)
	remove(p.Settings.InstallerBinary, false)
	remove(p.Settings.ProfileScript, false)
}

// reboot restarts into the installed system.
func (p *Pipeline) reboot(ctx context.Context) error {
	if err := p.Runner.Run(ctx, "systemctl", "reboot"); err != nil {
		return p.Runner.Run(ctx, "reboot")
	}
	return nil
}

// =============================================================================
// PARTITION NAMING
// =============================================================================

// PartitionDevice returns the device path of partition number on disk.
// Disks whose name ends in a digit (nvme0n1, mmcblk0, loop0) take a "p"
// separator before the partition number.
func PartitionDevice(disk string, number int) string {
	if disk == "" {
		return ""
	}
	last := rune(disk[len(disk)-1])
	if unicode.IsDigit(last) {
		return fmt.Sprintf("%sp%d", disk, number)
	}
	return fmt.Sprintf("%s%d", disk, number)
}
