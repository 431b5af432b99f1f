package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tessa/config"
)

var errEmptyPassphrase = errors.New("passphrase cannot be empty")

// PassphraseModal asks for the SSH key passphrase that unlocks encrypted
// provider keys. Enter tries the passphrase against the credential store
// and keeps the modal open on failure.
type PassphraseModal struct {
	cfg       *config.Config
	input     textinput.Model
	err       string
	width     int
	height    int
	unlocked  bool
	cancelled bool
}

func NewPassphraseModal(cfg *config.Config) PassphraseModal {
	input := NewPassphraseInput("Enter passphrase")
	input.Focus()
	return PassphraseModal{cfg: cfg, input: input}
}

// NewPassphraseInput creates a masked textinput for passphrase entry.
func NewPassphraseInput(placeholder string) textinput.Model {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Width = 50
	input.CharLimit = 200
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	return input
}

func (m PassphraseModal) Init() tea.Cmd {
	return textinput.Blink
}

func (m PassphraseModal) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if err := LoadCredentialsWithPassphrase(m.cfg, m.input.Value()); err != nil {
				if errors.Is(err, errEmptyPassphrase) {
					m.err = "Passphrase cannot be empty"
				} else {
					m.err = "Incorrect passphrase. Please try again."
				}
				m.input.SetValue("")
				return m, nil
			}
			m.unlocked = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m PassphraseModal) View() string {
	if m.width < 20 || m.height < 10 {
		return "Terminal too small"
	}

	modalWidth := modalWidthFor(70, m.width)
	keyPath := ""
	if m.cfg != nil && m.cfg.CredentialStore != nil {
		keyPath = m.cfg.CredentialStore.SSHKeyPath()
	}

	lines := []string{
		centerTextLine("Your provider keys are encrypted with an SSH key.", modalWidth),
		centerTextLine(fmt.Sprintf("Key: %s", keyPath), modalWidth),
		centerTextLine("Please enter the passphrase:", modalWidth),
		"",
		centerTextLine(m.input.View(), modalWidth),
	}
	if m.err != "" {
		styled := lipgloss.NewStyle().Foreground(dangerColor).Bold(true).Render("⚠ " + m.err)
		lines = append(lines, "", centerTextLine(styled, modalWidth))
	}

	return RenderThreeSectionModal(
		"SSH Key Passphrase Required",
		lines,
		FormatFooter("Enter", "Continue", "Esc", "Skip"),
		ModalTypeInfo,
		modalWidth,
		m.width,
		m.height,
	)
}

// Unlocked reports whether the credential store loaded.
func (m PassphraseModal) Unlocked() bool {
	return m.unlocked
}

func (m PassphraseModal) IsCancelled() bool {
	return m.cancelled
}

// LoadCredentialsWithPassphrase sets the passphrase on the credential store
// and reloads it.
func LoadCredentialsWithPassphrase(cfg *config.Config, passphrase string) error {
	if passphrase == "" {
		return errEmptyPassphrase
	}
	if cfg == nil || cfg.CredentialStore == nil {
		return fmt.Errorf("invalid config - cannot set passphrase")
	}

	cfg.CredentialStore.SetPassphrase(passphrase)
	if err := cfg.CredentialStore.Load(cfg.DataDir()); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Passphrase] failed to load credentials: %v", err)
		}
		return err
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Passphrase] credentials unlocked")
	}
	return nil
}
