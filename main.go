package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tessa/bridge"
	"tessa/config"
	"tessa/provider"
	"tessa/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Tessa %s - an LLM assistant for your editor

Usage:
  tessa [--file PATH [--line N] [--col N]]   chat in the terminal
  tessa serve                                serve an editor plugin over stdin/stdout
  tessa key set PROVIDER [KEY]               store a provider API key (reads stdin if KEY is omitted)
  tessa key delete PROVIDER                  remove a stored provider API key
  tessa --version

Set TESSA_DEBUG=1 to write a debug log to the data directory.
`, Version)
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-version", "version":
			fmt.Printf("tessa %s (%s)\n", Version, License)
			return
		case "serve":
			os.Exit(runServe())
		case "key":
			os.Exit(runKey(args[1:]))
		case "help", "-h", "--help":
			usage()
			return
		}
	}
	os.Exit(runTUI(args))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.InitDebugLog(cfg.DataDir())

	// Crash recovery: review copies from an earlier run are stale.
	if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Warning: failed to cleanup old temp directory: %v", err)
	}
	if err := config.CreateTempDir(); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return cfg, nil
}

func cleanupTempDir() {
	if err := config.CleanupTempDir(); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("Warning: failed to cleanup temp directory on exit: %v", err)
	}
}

// unlockCredentials prompts for the SSH key passphrase when the credential
// store is encrypted with a protected key. It reports false if the user
// skipped the prompt.
func unlockCredentials(cfg *config.Config) bool {
	err := cfg.CredentialStore.Load(cfg.DataDir())
	if !errors.Is(err, config.ErrPassphraseRequired) {
		return true
	}

	p := tea.NewProgram(ui.NewPassphraseModal(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	m, ok := final.(ui.PassphraseModal)
	return ok && m.Unlocked()
}

func showError(title, message string) {
	p := tea.NewProgram(ui.NewErrorModal(title, message), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tessa", flag.ContinueOnError)
	fs.Usage = usage
	file := fs.String("file", "", "file to work on")
	line := fs.Int("line", 1, "cursor line (1-based)")
	col := fs.Int("col", 1, "cursor column (1-based)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		showError("Configuration Error", err.Error())
		return 1
	}
	defer cleanupTempDir()

	if !unlockCredentials(cfg) && config.DebugLog != nil {
		config.DebugLog.Printf("Continuing without stored provider keys")
	}

	var doc *ui.Document
	if *file != "" {
		doc, err = ui.OpenDocument(*file, *line, *col)
		if err != nil {
			showError("Cannot Open File", err.Error())
			return 1
		}
	}

	view := ui.NewAppView(cfg, provider.NewClient(), doc, Version)
	p := tea.NewProgram(view, tea.WithAltScreen())
	view.Host().Attach(p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running tessa: %v\n", err)
		return 1
	}
	return 0
}

func runServe() int {
	cfg, err := loadConfig()
	if err != nil {
		// stdout belongs to the plugin; report on stderr only.
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	defer cleanupTempDir()

	srv := bridge.NewServer(cfg, provider.NewClient(), os.Stdin, os.Stdout)
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runKey(args []string) int {
	if len(args) < 2 || (args[0] != "set" && args[0] != "delete") {
		usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	config.InitDebugLog(cfg.DataDir())
	if !unlockCredentials(cfg) {
		fmt.Fprintln(os.Stderr, "Credentials are locked; no changes made.")
		return 1
	}

	providerName, key := args[1], ""
	if args[0] == "set" {
		if len(args) > 2 {
			key = args[2]
		} else {
			fmt.Fprintf(os.Stderr, "API key for %s: ", providerName)
			reader := bufio.NewReader(os.Stdin)
			key, err = reader.ReadString('\n')
			if err != nil && key == "" {
				fmt.Fprintf(os.Stderr, "Failed to read key: %v\n", err)
				return 1
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			fmt.Fprintln(os.Stderr, "Empty key; use 'tessa key delete' to remove one.")
			return 2
		}
	}

	if err := config.SetProviderKey(cfg, providerName, key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if key == "" {
		fmt.Printf("Removed key for %s.\n", providerName)
	} else {
		fmt.Printf("Stored key for %s.\n", providerName)
	}
	return 0
}
