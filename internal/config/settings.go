// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings parameterizes the pipeline: paths, mirrors, release URLs and
// package sets. Defaults match the shipped live ISO; an installer.toml in
// the asset directory may override individual fields.
type Settings struct {
	MirrorURL       string `toml:"mirror_url"`
	SourcesList     string `toml:"sources_list"`
	TargetRoot      string `toml:"target_root"`
	AssetDir        string `toml:"asset_dir"`
	DefaultHostname string `toml:"default_hostname"`
	LogFile         string `toml:"log_file"`

	// Paths removed from the host on successful completion.
	InstallerBinary string `toml:"installer_binary"`
	ProfileScript   string `toml:"profile_script"`

	// Remote endpoints for editions that fetch prebuilt artifacts.
	BlueReleaseURL   string `toml:"blue_release_url"`
	BlueSessionURL   string `toml:"blue_session_url"`
	HydraRepoURL     string `toml:"hydra_repo_url"`
	HammerReleaseURL string `toml:"hammer_release_url"`

	Packages PackageSets `toml:"packages"`
}

// PackageSets are the apt package lists installed per phase and edition.
type PackageSets struct {
	Base          []string `toml:"base"`
	Official      []string `toml:"official"`
	Gnome         []string `toml:"gnome"`
	Xfce          []string `toml:"xfce"`
	Wayfire       []string `toml:"wayfire"`
	Cybersecurity []string `toml:"cybersecurity"`
	Blue          []string `toml:"blue"`
	Atomic        []string `toml:"atomic"`
}

// DefaultSettings returns the built-in settings for a live-ISO install.
func DefaultSettings() Settings {
	return Settings{
		MirrorURL:       "http://deb.debian.org/debian",
		SourcesList:     "/etc/apt/sources.list",
		TargetRoot:      "/mnt",
		AssetDir:        "/usr/share/HackerOS-Installer",
		DefaultHostname: "hackeros",
		LogFile:         "/var/log/hackeros-install.log",
		InstallerBinary: "/usr/bin/HackerOS-Installer",
		ProfileScript:   "/etc/profile.d/HackerOS-Installer.sh",

		BlueReleaseURL:   "https://github.com/HackerOS-Linux-System/Blue-Environment/releases/download/v0.1",
		BlueSessionURL:   "https://raw.githubusercontent.com/HackerOS-Linux-System/Blue-Environment/main/Blue-Environment.desktop",
		HydraRepoURL:     "https://github.com/HackerOS-Linux-System/hydra-look-and-feel.git",
		HammerReleaseURL: "https://github.com/HackerOS-Linux-System/hammer/releases/download/v0.5",

		Packages: PackageSets{
			Base:          []string{"linux-image-amd64", "grub-efi-amd64"},
			Official:      []string{"kde-plasma-desktop", "sddm"},
			Gnome:         []string{"gnome", "gdm3"},
			Xfce:          []string{"xfce4", "lightdm"},
			Wayfire:       []string{"wayfire", "sddm"},
			Cybersecurity: []string{"nmap", "wireshark"},
			Blue:          []string{"sddm"},
			Atomic:        []string{"kde-plasma-desktop", "sddm"},
		},
	}
}

// LoadSettings reads a TOML settings file and merges it over the defaults.
// A missing file is not an error; the defaults are returned unchanged.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := toml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return settings, nil
}
