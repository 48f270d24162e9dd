// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package wizard implements the installer's input-collection state machine:
// ten fixed stages from Welcome to Summary, advancing one stage per accepted
// confirmation and never skipping.
//
// The stage logic lives in State, a pure value whose transition methods
// (Confirm, MoveUp, MoveDown, Insert, DeleteBack, Quit) return the next
// state. Model adapts State to bubbletea: Update translates key events into
// transitions and View renders the current stage as a pure projection. When
// the Summary stage is confirmed the finalized Configuration is available
// through Finalized and control passes to the pipeline.
package wizard
