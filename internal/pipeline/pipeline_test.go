// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/config"
)

// =============================================================================
// FAKES
// =============================================================================

type call struct {
	kind    string // "run", "input", "interactive", "target"
	program string
	args    []string
	stdin   string
	root    string
	script  string
}

// signature renders a call compactly for ordering assertions.
func (c call) signature() string {
	switch c.kind {
	case "target":
		return "target:" + c.script
	default:
		s := c.kind + ":" + c.program
		if len(c.args) > 0 {
			s += " " + strings.Join(c.args, " ")
		}
		return s
	}
}

type fakeRunner struct {
	calls    []call
	failWhen func(c call) bool
}

func (r *fakeRunner) record(c call) error {
	r.calls = append(r.calls, c)
	if r.failWhen != nil && r.failWhen(c) {
		return errors.New("injected command failure")
	}
	return nil
}

func (r *fakeRunner) Run(ctx context.Context, program string, args ...string) error {
	return r.record(call{kind: "run", program: program, args: args})
}

func (r *fakeRunner) RunInput(ctx context.Context, stdin, program string, args ...string) error {
	return r.record(call{kind: "input", program: program, args: args, stdin: stdin})
}

func (r *fakeRunner) RunInteractive(ctx context.Context, program string, args ...string) error {
	return r.record(call{kind: "interactive", program: program, args: args})
}

func (r *fakeRunner) RunInTarget(ctx context.Context, root, script string) error {
	return r.record(call{kind: "target", root: root, script: script})
}

func (r *fakeRunner) signatures() []string {
	sigs := make([]string, len(r.calls))
	for i, c := range r.calls {
		sigs[i] = c.signature()
	}
	return sigs
}

func (r *fakeRunner) indexOf(signature string) int {
	for i, c := range r.calls {
		if c.signature() == signature {
			return i
		}
	}
	return -1
}

type fakeEdition struct {
	installed bool
	cfg       config.Configuration
	err       error
}

func (e *fakeEdition) Install(ctx context.Context, cfg config.Configuration) error {
	e.installed = true
	e.cfg = cfg
	return e.err
}

// =============================================================================
// TEST SETUP
// =============================================================================

func testPipeline(t *testing.T) (*Pipeline, *fakeRunner, *fakeEdition) {
	t.Helper()

	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.SourcesList = filepath.Join(dir, "sources.list")
	settings.TargetRoot = filepath.Join(dir, "mnt")
	settings.AssetDir = filepath.Join(dir, "assets")
	settings.InstallerBinary = filepath.Join(dir, "HackerOS-Installer")
	settings.ProfileScript = filepath.Join(dir, "HackerOS-Installer.sh")

	// Installed files that the success path self-uninstalls.
	if err := os.MkdirAll(settings.AssetDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{settings.InstallerBinary, settings.ProfileScript} {
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.Configuration{
		Username:        "alice",
		Password:        "x",
		Hostname:        "hackeros",
		Edition:         config.EditionGnome,
		Branch:          config.BranchTesting,
		Filesystem:      config.FilesystemExt4,
		ManualPartition: false,
		Disk:            "/dev/sda",
	}

	runner := &fakeRunner{}
	editions := &fakeEdition{}
	return New(cfg, settings, runner, editions, nil), runner, editions
}

// =============================================================================
// FULL RUN
// =============================================================================

func TestRun_PhaseOrdering(t *testing.T) {
	p, runner, editions := testPipeline(t)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	root := p.Settings.TargetRoot
	want := []string{
		"run:apt update",
		"input:sfdisk --wipe always /dev/sda",
		"run:mkfs.vfat -F 32 /dev/sda1",
		"run:mkfs.ext4 -F /dev/sda2",
		"run:mount /dev/sda2 " + root,
		"run:mount /dev/sda1 " + filepath.Join(root, "boot"),
		"run:debootstrap forky " + root + " http://deb.debian.org/debian",
		"run:mount --bind /dev " + filepath.Join(root, "dev"),
		"run:mount --bind /proc " + filepath.Join(root, "proc"),
		"run:mount --bind /sys " + filepath.Join(root, "sys"),
		"run:mount --bind /run " + filepath.Join(root, "run"),
		"target:apt update",
		"target:apt install -y linux-image-amd64 grub-efi-amd64",
		"target:useradd -m -G sudo -s /bin/bash 'alice'",
		"input:chroot " + root + " chpasswd",
		"target:grub-install '/dev/sda'",
		"target:update-grub",
		"run:umount " + filepath.Join(root, "run"),
		"run:umount " + filepath.Join(root, "sys"),
		"run:umount " + filepath.Join(root, "proc"),
		"run:umount " + filepath.Join(root, "dev"),
		"run:umount " + filepath.Join(root, "boot"),
		"run:umount " + root,
		"run:systemctl reboot",
	}

	got := runner.signatures()
	if len(got) != len(want) {
		t.Fatalf("command count = %d, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if !editions.installed {
		t.Error("edition installer was not invoked")
	}
	if editions.cfg.Edition != config.EditionGnome {
		t.Errorf("edition installer saw %v, want Gnome", editions.cfg.Edition)
	}
}

func TestRun_WritesSourcesList(t *testing.T) {
	p, _, _ := testPipeline(t)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	data, err := os.ReadFile(p.Settings.SourcesList)
	if err != nil {
		t.Fatalf("sources list missing: %v", err)
	}
	if string(data) != "deb http://deb.debian.org/debian forky main\n" {
		t.Errorf("sources.list = %q", data)
	}
}

func TestRun_WritesHostnameAndHosts(t *testing.T) {
	p, _, _ := testPipeline(t)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	hostname, err := os.ReadFile(filepath.Join(p.Settings.TargetRoot, "etc", "hostname"))
	if err != nil {
		t.Fatalf("hostname file missing: %v", err)
	}
	if string(hostname) != "hackeros\n" {
		t.Errorf("hostname = %q", hostname)
	}

	hosts, err := os.ReadFile(filepath.Join(p.Settings.TargetRoot, "etc", "hosts"))
	if err != nil {
		t.Fatalf("hosts file missing: %v", err)
	}
	if !strings.Contains(string(hosts), "127.0.1.1\thackeros") {
		t.Errorf("hosts = %q, want a 127.0.1.1 entry", hosts)
	}
}

func TestRun_SudoersDropIn(t *testing.T) {
	p, _, _ := testPipeline(t)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	dropIn := filepath.Join(p.Settings.TargetRoot, "etc", "sudoers.d", "alice")
	data, err := os.ReadFile(dropIn)
	if err != nil {
		t.Fatalf("sudoers drop-in missing: %v", err)
	}
	if string(data) != "alice ALL=(ALL) ALL\n" {
		t.Errorf("drop-in = %q", data)
	}

	info, _ := os.Stat(dropIn)
	if info.Mode().Perm() != 0o440 {
		t.Errorf("drop-in mode = %v, want 0440", info.Mode().Perm())
	}
}

func TestRun_PasswordGoesThroughStdin(t *testing.T) {
	p, runner, _ := testPipeline(t)
	p.Config.Password = "s3cret; rm -rf /"

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var chpasswd *call
	for i := range runner.calls {
		if runner.calls[i].kind == "input" && runner.calls[i].program == "chroot" {
			chpasswd = &runner.calls[i]
		}
	}
	if chpasswd == nil {
		t.Fatal("no chpasswd invocation recorded")
	}
	if chpasswd.stdin != "alice:s3cret; rm -rf /\n" {
		t.Errorf("chpasswd stdin = %q", chpasswd.stdin)
	}

	// The password must never appear in a shell script.
	for _, c := range runner.calls {
		if c.kind == "target" && strings.Contains(c.script, "s3cret") {
			t.Errorf("password leaked into shell script %q", c.script)
		}
	}
}

func TestRun_AutomaticPartitionLayout(t *testing.T) {
	p, runner, _ := testPipeline(t)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	i := runner.indexOf("input:sfdisk --wipe always /dev/sda")
	if i < 0 {
		t.Fatal("sfdisk not invoked")
	}
	script := runner.calls[i].stdin
	if !strings.HasPrefix(script, "label: gpt\n") {
		t.Errorf("layout %q should declare a GPT label", script)
	}
	if !strings.Contains(script, "512MiB,U") {
		t.Errorf("layout %q should carve an EFI system partition", script)
	}
	if !strings.Contains(script, ",,L") {
		t.Errorf("layout %q should give the remainder to the root partition", script)
	}
}

func TestRun_ManualPartitionUsesInteractiveTool(t *testing.T) {
	p, runner, _ := testPipeline(t)
	p.Config.ManualPartition = true

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if runner.indexOf("interactive:cfdisk /dev/sda") < 0 {
		t.Error("manual mode should launch cfdisk interactively")
	}
	for _, sig := range runner.signatures() {
		if strings.Contains(sig, "sfdisk") {
			t.Errorf("manual mode ran %q", sig)
		}
	}
}

func TestRun_SelfUninstallOnSuccess(t *testing.T) {
	p, _, _ := testPipeline(t)

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	for _, path := range []string{p.Settings.AssetDir, p.Settings.InstallerBinary, p.Settings.ProfileScript} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("%s still present after successful install", path)
		}
	}
}

// =============================================================================
// FAILURE BEHAVIOR
// =============================================================================

func TestRun_FailFastStopsLaterPhases(t *testing.T) {
	p, runner, editions := testPipeline(t)
	runner.failWhen = func(c call) bool {
		return c.program == "sfdisk"
	}

	err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Run() should fail when partitioning fails")
	}
	if !strings.Contains(err.Error(), "partition disk") {
		t.Errorf("error %q should name the failing phase", err)
	}

	for _, sig := range runner.signatures() {
		if strings.Contains(sig, "mkfs") || strings.Contains(sig, "debootstrap") || strings.Contains(sig, "reboot") {
			t.Errorf("phase after the failure still ran: %q", sig)
		}
	}
	if editions.installed {
		t.Error("edition installed despite earlier failure")
	}
}

func TestRun_FailureNeverReboots(t *testing.T) {
	p, runner, _ := testPipeline(t)
	runner.failWhen = func(c call) bool {
		return c.kind == "target" && c.script == "update-grub"
	}

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail")
	}
	for _, sig := range runner.signatures() {
		if strings.Contains(sig, "reboot") {
			t.Error("reboot ran on a failure path")
		}
	}
}

func TestRun_FailureAfterMountingStillUnmounts(t *testing.T) {
	p, runner, _ := testPipeline(t)
	runner.failWhen = func(c call) bool {
		return c.program == "debootstrap"
	}

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail")
	}

	root := p.Settings.TargetRoot
	bootUmount := runner.indexOf("run:umount " + filepath.Join(root, "boot"))
	rootUmount := runner.indexOf("run:umount " + root)
	if bootUmount < 0 || rootUmount < 0 {
		t.Fatalf("mounts not released on failure:\n%s", strings.Join(runner.signatures(), "\n"))
	}
	if bootUmount > rootUmount {
		t.Error("unmounts not in reverse order of mounting")
	}
}

func TestRun_NoSelfUninstallOnFailure(t *testing.T) {
	p, runner, _ := testPipeline(t)
	runner.failWhen = func(c call) bool {
		return c.program == "debootstrap"
	}

	if err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() should fail")
	}

	if _, err := os.Stat(p.Settings.AssetDir); err != nil {
		t.Error("self-uninstall must not run on a failure path")
	}
}

func TestRun_RebootFallsBackWhenSystemctlMissing(t *testing.T) {
	p, runner, _ := testPipeline(t)
	runner.failWhen = func(c call) bool {
		return c.program == "systemctl"
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if runner.indexOf("run:reboot") < 0 {
		t.Error("plain reboot not attempted after systemctl failed")
	}
}

// =============================================================================
// REPORTING
// =============================================================================

func TestRun_ReportsEveryPhaseInOrder(t *testing.T) {
	p, _, _ := testPipeline(t)

	var phases []string
	var steps []int
	p.Report = func(phase string, step, total int) {
		phases = append(phases, phase)
		steps = append(steps, step)
		if total != 12 {
			t.Errorf("total = %d, want 12", total)
		}
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(phases) != 12 {
		t.Fatalf("reported %d phases, want 12", len(phases))
	}
	if phases[0] != "configure package sources" || phases[len(phases)-1] != "reboot" {
		t.Errorf("phase order wrong: %v", phases)
	}
	for i, step := range steps {
		if step != i+1 {
			t.Errorf("step[%d] = %d, want %d", i, step, i+1)
		}
	}
}

// =============================================================================
// PARTITION NAMING
// =============================================================================

func TestPartitionDevice(t *testing.T) {
	tests := []struct {
		disk   string
		number int
		want   string
	}{
		{"/dev/sda", 1, "/dev/sda1"},
		{"/dev/sda", 2, "/dev/sda2"},
		{"/dev/vdb", 2, "/dev/vdb2"},
		{"/dev/nvme0n1", 1, "/dev/nvme0n1p1"},
		{"/dev/nvme0n1", 2, "/dev/nvme0n1p2"},
		{"/dev/mmcblk0", 2, "/dev/mmcblk0p2"},
		{"", 1, ""},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := PartitionDevice(tc.disk, tc.number); got != tc.want {
				t.Errorf("PartitionDevice(%q, %d) = %q, want %q", tc.disk, tc.number, got, tc.want)
			}
		})
	}
}
