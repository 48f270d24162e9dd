// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package wizard

import (
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/config"
)

// =============================================================================
// STAGES
// =============================================================================

// Stage is one screen of the wizard's linear input sequence.
type Stage int

const (
	StageWelcome Stage = iota
	StageUsername
	StagePassword
	StageHostname
	StageEdition
	StageBranch
	StageFilesystem
	StagePartitionMode
	StageDisk
	StageSummary

	stageCount
)

var stageNames = [...]string{
	"welcome",
	"username",
	"password",
	"hostname",
	"edition",
	"branch",
	"filesystem",
	"partition_mode",
	"disk",
	"summary",
}

// String returns the stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// IsList reports whether the stage presents a fixed option list.
func (s Stage) IsList() bool {
	switch s {
	case StageEdition, StageBranch, StageFilesystem, StagePartitionMode:
		return true
	}
	return false
}

// IsText reports whether the stage collects free text.
func (s Stage) IsText() bool {
	switch s {
	case StageUsername, StagePassword, StageHostname, StageDisk:
		return true
	}
	return false
}

// partitionModeOptions is positional: index 1 selects manual partitioning.
var partitionModeOptions = []string{
	"Automatic Partitioning",
	"Manual Partitioning",
}

// Options returns the option labels for a list stage, nil otherwise.
func (s Stage) Options() []string {
	switch s {
	case StageEdition:
		return config.EditionOptions()
	case StageBranch:
		return config.BranchOptions()
	case StageFilesystem:
		return config.FilesystemOptions()
	case StagePartitionMode:
		return partitionModeOptions
	}
	return nil
}

// =============================================================================
// STATE
// =============================================================================

// CursorUnset marks a list stage with no explicit selection yet. Such a
// stage renders index 0 as implicitly highlighted; the stored state is not
// mutated until the user moves or confirms.
const CursorUnset = -1

// State is the wizard's complete state. All transitions are pure: each
// event method takes the state by value and returns the next state, which
// keeps every acceptance rule in one place and directly testable.
type State struct {
	Stage  Stage
	Config config.Configuration

	// Cursor is the transient selection index for the current list stage.
	// Reset to CursorUnset on every stage transition.
	Cursor int

	// ShowPreview requests a one-shot edition preview render. It is a
	// render hint, not part of any transition rule.
	ShowPreview bool

	// Quitting is set by the quit event; the loop exits without installing.
	Quitting bool

	// Complete is set when the Summary stage is confirmed; the frozen
	// Config is then handed to the pipeline.
	Complete bool
}

// NewState returns the initial wizard state at the Welcome stage.
func NewState() State {
	return State{Cursor: CursorUnset}
}

// SelectedIndex returns the effective selection for a list stage: the
// cursor if set, otherwise the implicitly highlighted index 0.
func (s State) SelectedIndex() int {
	if s.Cursor == CursorUnset {
		return 0
	}
	return s.Cursor
}

// MoveUp moves the selection cursor up on list stages, stopping at 0.
func (s State) MoveUp() State {
	if !s.Stage.IsList() {
		return s
	}
	index := s.SelectedIndex() - 1
	if index < 0 {
		index = 0
	}
	s.Cursor = index
	return s
}

// MoveDown moves the selection cursor down on list stages, stopping at the
// last option.
func (s State) MoveDown() State {
	if !s.Stage.IsList() {
		return s
	}
	index := s.SelectedIndex() + 1
	if last := len(s.Stage.Options()) - 1; index > last {
		index = last
	}
	s.Cursor = index
	return s
}

// Insert appends a character to the active free-text field. Ignored on all
// other stages.
func (s State) Insert(r rune) State {
	switch s.Stage {
	case StageUsername:
		s.Config.Username += string(r)
	case StagePassword:
		s.Config.Password += string(r)
	case StageHostname:
		s.Config.Hostname += string(r)
	case StageDisk:
		s.Config.Disk += string(r)
	}
	return s
}

// DeleteBack removes the last character of the active free-text field.
func (s State) DeleteBack() State {
	trim := func(v string) string {
		if v == "" {
			return v
		}
		runes := []rune(v)
		return string(runes[:len(runes)-1])
	}
	switch s.Stage {
	case StageUsername:
		s.Config.Username = trim(s.Config.Username)
	case StagePassword:
		s.Config.Password = trim(s.Config.Password)
	case StageHostname:
		s.Config.Hostname = trim(s.Config.Hostname)
	case StageDisk:
		s.Config.Disk = trim(s.Config.Disk)
	}
	return s
}

// Quit sets the abort flag. No installation occurs after a quit.
func (s State) Quit() State {
	s.Quitting = true
	return s
}

// ClearPreview clears the one-shot preview hint after it has been rendered.
func (s State) ClearPreview() State {
	s.ShowPreview = false
	return s
}

// Confirm applies the stage-specific acceptance rule for the confirmation
// event. Stages with unmet requirements return the state unchanged (the
// wizard silently re-prompts). defaultHostname fills an empty hostname.
func (s State) Confirm(defaultHostname string) State {
	switch s.Stage {
	case StageWelcome:
		return s.advance()

	case StageUsername:
		if s.Config.Username == "" {
			return s
		}
		return s.advance()

	case StagePassword:
		if s.Config.Password == "" {
			return s
		}
		return s.advance()

	case StageHostname:
		if s.Config.Hostname == "" {
			s.Config.Hostname = defaultHostname
		}
		return s.advance()

	case StageEdition:
		edition, ok := config.EditionAt(s.SelectedIndex())
		if !ok {
			return s
		}
		s.Config.Edition = edition
		s.ShowPreview = true
		return s.advance()

	case StageBranch:
		branch, ok := config.BranchAt(s.SelectedIndex())
		if !ok {
			return s
		}
		s.Config.Branch = branch
		return s.advance()

	case StageFilesystem:
		fs, ok := config.FilesystemAt(s.SelectedIndex())
		if !ok {
			return s
		}
		s.Config.Filesystem = fs
		return s.advance()

	case StagePartitionMode:
		s.Config.ManualPartition = s.SelectedIndex() == 1
		return s.advance()

	case StageDisk:
		if s.Config.Disk == "" {
			return s
		}
		return s.advance()

	case StageSummary:
		s.Complete = true
		s.Cursor = CursorUnset
		return s
	}
	return s
}

// advance moves to the next stage and resets the selection cursor.
func (s State) advance() State {
	if s.Stage < StageSummary {
		s.Stage++
	}
	s.Cursor = CursorUnset
	return s
}
