// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

package wizard

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/config"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	brandPrimary   = lipgloss.Color("#22C55E") // Green
	brandSecondary = lipgloss.Color("#06B6D4") // Cyan
	brandWarning   = lipgloss.Color("#F59E0B") // Amber
	textMuted      = lipgloss.Color("#6B7280") // Gray

	headerStyle = lipgloss.NewStyle().
			Foreground(brandSecondary).
			Bold(true).
			MarginBottom(1)

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	inputStyle = lipgloss.NewStyle().
			Foreground(brandWarning)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandPrimary).
			Padding(1, 2)

	summaryStyle = lipgloss.NewStyle().
			Foreground(brandSecondary)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(textMuted).
			Padding(0, 1)
)

const headerText = "HackerOS Installer - Inspired by Arch"

// =============================================================================
// MODEL
// =============================================================================

// Model wraps the pure wizard State as a bubbletea model. Event handling
// mutates state through the State transition methods only; View is a pure
// projection of the current state.
type Model struct {
	state    State
	settings config.Settings
	width    int
	height   int
}

// New creates the wizard model.
func New(settings config.Settings) Model {
	return Model{
		state:    NewState(),
		settings: settings,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// handleKey maps key presses to wizard events.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The preview hint is rendered exactly once; any following key
	// clears it.
	if m.state.ShowPreview {
		m.state = m.state.ClearPreview()
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		m.state = m.state.Quit()
		return m, tea.Quit

	case "enter":
		m.state = m.state.Confirm(m.settings.DefaultHostname)
		if m.state.Complete {
			return m, tea.Quit
		}
		return m, nil

	case "up":
		m.state = m.state.MoveUp()
		return m, nil

	case "down":
		m.state = m.state.MoveDown()
		return m, nil

	case "backspace":
		m.state = m.state.DeleteBack()
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		// On non-text stages "q" quits; while typing it is just a letter.
		if !m.state.Stage.IsText() {
			if len(msg.Runes) == 1 && msg.Runes[0] == 'q' {
				m.state = m.state.Quit()
				return m, tea.Quit
			}
			return m, nil
		}
		for _, r := range msg.Runes {
			m.state = m.state.Insert(r)
		}
	}
	return m, nil
}

// Aborted reports whether the user quit before completing the wizard.
func (m Model) Aborted() bool {
	return m.state.Quitting
}

// Finalized returns the frozen configuration after the Summary stage was
// confirmed. ok is false if the wizard did not complete.
func (m Model) Finalized() (config.Configuration, bool) {
	if !m.state.Complete || m.state.Quitting {
		return config.Configuration{}, false
	}
	return m.state.Config, true
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("  " + headerText))
	s.WriteString("\n\n")

	switch m.state.Stage {
	case StageWelcome:
		s.WriteString(m.viewWelcome())
	case StageUsername:
		s.WriteString(m.viewTextInput("User Creation", "Enter username", m.state.Config.Username))
	case StagePassword:
		s.WriteString(m.viewTextInput("Password", "Enter password", strings.Repeat("*", len([]rune(m.state.Config.Password)))))
	case StageHostname:
		prompt := fmt.Sprintf("Enter hostname (default: %s)", m.settings.DefaultHostname)
		s.WriteString(m.viewTextInput("Hostname", prompt, m.state.Config.Hostname))
	case StageEdition:
		s.WriteString(m.viewList("Select Edition"))
	case StageBranch:
		s.WriteString(m.viewList("Select Debian Branch"))
	case StageFilesystem:
		s.WriteString(m.viewList("Select Filesystem"))
	case StagePartitionMode:
		s.WriteString(m.viewList("Partitioning Mode"))
	case StageDisk:
		s.WriteString(m.viewTextInput("Disk Selection", "Enter disk (e.g., /dev/sda)", m.state.Config.Disk))
	case StageSummary:
		s.WriteString(m.viewSummary())
	}

	if m.state.ShowPreview {
		s.WriteString("\n")
		s.WriteString(m.viewPreview())
	}

	s.WriteString("\n\n")
	s.WriteString(m.viewFooter())
	return s.String()
}

func (m Model) viewWelcome() string {
	welcome := `Welcome to the HackerOS Installer!

This wizard collects your configuration, then provisions
the disk, bootstraps the base system and installs the
edition of your choice.

Nothing is written to disk before the summary screen.`

	var s strings.Builder
	s.WriteString(boxStyle.Render(welcome))
	s.WriteString("\n\n")
	s.WriteString(titleStyle.Render("  Press ENTER to start"))
	return s.String()
}

func (m Model) viewTextInput(title, prompt, value string) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("  " + title))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("  %s: %s", prompt, inputStyle.Render(value)))
	s.WriteString(inputStyle.Render("_"))
	return s.String()
}

func (m Model) viewList(title string) string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("  " + title))
	s.WriteString("\n\n")

	selected := m.state.SelectedIndex()
	for idx, option := range m.state.Stage.Options() {
		cursor := "   "
		style := unselectedStyle
		if idx == selected {
			cursor = " > "
			style = selectedStyle
		}
		s.WriteString(style.Render(fmt.Sprintf(" %s%s", cursor, option)))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) viewSummary() string {
	cfg := m.state.Config

	partitioning := "Automatic"
	if cfg.ManualPartition {
		partitioning = "Manual"
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("  Summary"))
	s.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Username", cfg.Username},
		{"Hostname", cfg.Hostname},
		{"Edition", cfg.Edition.String()},
		{"Branch", fmt.Sprintf("%s (%s)", cfg.Branch, cfg.Branch.Codename())},
		{"Filesystem", cfg.Filesystem.String()},
		{"Partitioning", partitioning},
		{"Disk", cfg.Disk},
	}
	for _, row := range rows {
		s.WriteString(summaryStyle.Render(fmt.Sprintf("  %-13s %s", row.label+":", row.value)))
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(titleStyle.Render("  Press ENTER to install"))
	s.WriteString(dimStyle.Render("  (this will erase " + cfg.Disk + ")"))
	return s.String()
}

func (m Model) viewPreview() string {
	image := filepath.Join(m.settings.AssetDir, "images", m.state.Config.Edition.PreviewImage())
	return previewStyle.Render("Edition preview: " + image)
}

func (m Model) viewFooter() string {
	switch {
	case m.state.Stage.IsList():
		return dimStyle.Render("  Up/Down select  |  ENTER confirm  |  Q quit")
	case m.state.Stage.IsText():
		return dimStyle.Render("  Type to edit  |  ENTER confirm  |  ESC quit")
	default:
		return dimStyle.Render("  ENTER continue  |  Q quit")
	}
}
