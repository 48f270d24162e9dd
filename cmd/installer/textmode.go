// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/config"
)

// =============================================================================
// TEXT MODE INSTALLER
// =============================================================================

// runTextInstaller collects the same configuration as the wizard through
// plain line-oriented prompts, then runs the same pipeline.
func runTextInstaller(settings config.Settings, log *logrus.Logger) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("================================================================================")
	fmt.Println("                    HACKEROS INSTALLER - Inspired by Arch")
	fmt.Println("================================================================================")
	fmt.Println()
	fmt.Println("This installer will:")
	fmt.Println("  [1] Collect your account, disk and edition choices")
	fmt.Println("  [2] Partition and format the chosen disk")
	fmt.Println("  [3] Bootstrap the base system and the selected edition")
	fmt.Println("  [4] Install the bootloader and reboot")
	fmt.Println()
	fmt.Print("Press Enter to continue (or 'q' to quit): ")
	if line, _ := reader.ReadString('\n'); strings.TrimSpace(line) == "q" {
		fmt.Println("Installation cancelled.")
		return
	}
	fmt.Println()

	cfg := config.Configuration{
		Username: promptRequired(reader, "Username"),
		Password: promptPassword(reader),
		Hostname: promptDefault(reader, "Hostname", settings.DefaultHostname),
	}
	// promptChoice only returns indexes inside the option list.
	cfg.Edition, _ = config.EditionAt(promptChoice(reader, "Edition", config.EditionOptions()))
	cfg.Branch, _ = config.BranchAt(promptChoice(reader, "Branch", config.BranchOptions()))
	cfg.Filesystem, _ = config.FilesystemAt(promptChoice(reader, "Root filesystem", config.FilesystemOptions()))
	cfg.ManualPartition = promptChoice(reader, "Partitioning", []string{
		"Automatic Partitioning",
		"Manual Partitioning",
	}) == 1
	cfg.Disk = promptRequired(reader, "Target disk (e.g. /dev/sda)")

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Println("                                  SUMMARY")
	fmt.Println("--------------------------------------------------------------------------------")
	fmt.Printf("  Username:     %s\n", cfg.Username)
	fmt.Printf("  Hostname:     %s\n", cfg.Hostname)
	fmt.Printf("  Edition:      %s\n", cfg.Edition)
	fmt.Printf("  Branch:       %s\n", cfg.Branch)
	fmt.Printf("  Filesystem:   %s\n", cfg.Filesystem)
	fmt.Printf("  Disk:         %s\n", cfg.Disk)
	if cfg.ManualPartition {
		fmt.Println("  Partitioning: manual (cfdisk)")
	} else {
		fmt.Println("  Partitioning: automatic")
	}
	fmt.Println()
	fmt.Printf("All data on %s will be erased.\n", cfg.Disk)
	fmt.Print("Type 'yes' to install: ")
	line, _ := reader.ReadString('\n')
	if strings.TrimSpace(line) != "yes" {
		fmt.Println("Installation cancelled.")
		return
	}
	fmt.Println()

	if err := install(cfg, settings, log); err != nil {
		fmt.Fprintf(os.Stderr, "Installation failed: %v\n", err)
		os.Exit(1)
	}
}

// promptRequired re-prompts until the answer is non-empty.
func promptRequired(reader *bufio.Reader, label string) string {
	for {
		fmt.Printf("%s: ", label)
		line, _ := reader.ReadString('\n')
		if value := strings.TrimSpace(line); value != "" {
			return value
		}
	}
}

// promptDefault returns fallback when the answer is empty.
func promptDefault(reader *bufio.Reader, label, fallback string) string {
	fmt.Printf("%s [%s]: ", label, fallback)
	line, _ := reader.ReadString('\n')
	if value := strings.TrimSpace(line); value != "" {
		return value
	}
	return fallback
}

// promptPassword reads without echo when stdin is a terminal.
func promptPassword(reader *bufio.Reader) string {
	fd := int(os.Stdin.Fd())
	for {
		fmt.Print("Password: ")
		if term.IsTerminal(fd) {
			raw, err := term.ReadPassword(fd)
			fmt.Println()
			if err == nil && len(raw) > 0 {
				return string(raw)
			}
			continue
		}
		line, _ := reader.ReadString('\n')
		if value := strings.TrimRight(line, "\r\n"); value != "" {
			return value
		}
	}
}

// promptChoice prints a numbered menu and returns the chosen index. Empty
// input selects the first option.
func promptChoice(reader *bufio.Reader, label string, options []string) int {
	fmt.Println()
	fmt.Printf("%s:\n", label)
	for i, option := range options {
		fmt.Printf("  [%d] %s\n", i+1, option)
	}
	for {
		fmt.Printf("Enter choice [1-%d]: ", len(options))
		line, _ := reader.ReadString('\n')
		value := strings.TrimSpace(line)
		if value == "" {
			return 0
		}
		n, err := strconv.Atoi(value)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1
		}
	}
}
