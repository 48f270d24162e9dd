// Copyright (c) 2025 HackerOS Linux System
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main provides the HackerOS installer - a guided setup experience
// for the live ISO.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/config"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/edition"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/executil"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/fetch"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/pipeline"
	"github.com/HackerOS-Linux-System/HackerOS-Installer/internal/wizard"
)

const version = "1.0.0"

var (
	phaseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22C55E")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func main() {
	textMode := false
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--text", "-t":
			textMode = true
		case "--help", "-h":
			printHelp()
			return
		case "--version", "-v":
			fmt.Printf("HackerOS installer v%s\n", version)
			return
		}
	}

	settings, err := config.LoadSettings(settingsPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid settings file: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(settings.LogFile)

	if textMode {
		runTextInstaller(settings, log)
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("The HackerOS installer requires an interactive terminal.")
		fmt.Println("Run with --text for a line-oriented install.")
		os.Exit(1)
	}

	// Mouse capture stays off so terminal text selection keeps working.
	program := tea.NewProgram(
		wizard.New(settings),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running installer: %v\n", err)
		os.Exit(1)
	}

	model, ok := final.(wizard.Model)
	if !ok || model.Aborted() {
		return
	}
	cfg, ok := model.Finalized()
	if !ok {
		return
	}

	if err := install(cfg, settings, log); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Installation failed: ")+err.Error())
		os.Exit(1)
	}
}

// settingsPath locates the optional installer.toml override inside the
// default asset directory.
func settingsPath() string {
	return filepath.Join(config.DefaultSettings().AssetDir, "installer.toml")
}

// install runs the privileged pipeline for a validated configuration. The
// wizard may run unprivileged, the pipeline may not.
func install(cfg config.Configuration, settings config.Settings, log *logrus.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if os.Geteuid() != 0 {
		return fmt.Errorf("installing requires root privileges, run with sudo")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := executil.NewRunner(log)
	editions := edition.New(runner, fetch.NewClient(), settings, log)

	p := pipeline.New(cfg, settings, runner, editions, log)
	p.Report = newReporter()

	if err := p.Run(ctx); err != nil {
		log.WithError(err).Error("installation failed")
		return err
	}
	return nil
}

// newReporter prints one progress line per pipeline phase.
func newReporter() pipeline.Reporter {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 30

	return func(phase string, step, total int) {
		fmt.Printf("%s [%d/%d] %s\n",
			bar.ViewAs(float64(step)/float64(total)),
			step, total,
			phaseStyle.Render(phase),
		)
	}
}

// newLogger writes the install log to path, or discards when the file
// cannot be opened (read-only live media without the log dir).
func newLogger(path string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.SetOutput(io.Discard)
		return log
	}
	log.SetOutput(f)
	return log
}

// printHelp shows usage information
func printHelp() {
	fmt.Println(`HackerOS installer v` + version + `

Usage: HackerOS-Installer [OPTIONS]

Options:
  --text, -t     Run in text mode (line oriented, no alternate screen)
  --help, -h     Show this help
  --version, -v  Show version

The default mode is an interactive terminal wizard. Both modes collect the
same configuration and run the same installation.`)
}
