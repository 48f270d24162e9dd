// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "http://deb.debian.org/debian", s.MirrorURL)
	assert.Equal(t, "/mnt", s.TargetRoot)
	assert.Equal(t, "hackeros", s.DefaultHostname)
	assert.Equal(t, "/etc/apt/sources.list", s.SourcesList)
	assert.Equal(t, "/usr/share/HackerOS-Installer", s.AssetDir)

	// Every edition needs its package set or release endpoint.
	assert.Equal(t, []string{"kde-plasma-desktop", "sddm"}, s.Packages.Official)
	assert.Equal(t, []string{"gnome", "gdm3"}, s.Packages.Gnome)
	assert.Equal(t, []string{"xfce4", "lightdm"}, s.Packages.Xfce)
	assert.Equal(t, []string{"wayfire", "sddm"}, s.Packages.Wayfire)
	assert.NotEmpty(t, s.Packages.Base)
	assert.NotEmpty(t, s.Packages.Cybersecurity)
	assert.NotEmpty(t, s.BlueReleaseURL)
	assert.NotEmpty(t, s.HydraRepoURL)
	assert.NotEmpty(t, s.HammerReleaseURL)
}

func TestLoadSettings_MissingFileReturnsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_OverridesMergeOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installer.toml")
	content := `
mirror_url = "http://mirror.example.org/debian"
target_root = "/target"

[packages]
gnome = ["gnome-core", "gdm3"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "http://mirror.example.org/debian", s.MirrorURL)
	assert.Equal(t, "/target", s.TargetRoot)
	assert.Equal(t, []string{"gnome-core", "gdm3"}, s.Packages.Gnome)

	// Untouched fields keep their defaults.
	assert.Equal(t, "hackeros", s.DefaultHostname)
	assert.Equal(t, []string{"kde-plasma-desktop", "sddm"}, s.Packages.Official)
}

func TestLoadSettings_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "installer.toml")
	require.NoError(t, os.WriteFile(path, []byte("mirror_url = [broken"), 0o644))

	_, err := LoadSettings(path)
	assert.Error(t, err)
}
