package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DevOrc/mini/internal/config"
	"github.com/DevOrc/mini/internal/discovery"
)

// ErrCancelled is returned by Run when the user leaves without saving.
var ErrCancelled = errors.New("setup cancelled")

// ScanTimeout bounds the relay scan shown before the form.
const ScanTimeout = 3 * time.Second

// ScanFunc finds relays to offer as the default server.
type ScanFunc func(context.Context) ([]*discovery.Relay, error)

type stage int

const (
	stageScanning stage = iota
	stageForm
	stageDone
	stageCancelled
)

const (
	fieldNickname = iota
	fieldServer
	fieldChannels
	fieldCount
)

var fieldLabels = [fieldCount]string{"Nickname", "Server", "Channels"}

type scanDoneMsg struct {
	relays []*discovery.Relay
	err    error
}

// Model is the setup form: an optional relay scan, then nickname, server
// and channel inputs.
type Model struct {
	stage  stage
	base   config.Config
	inputs []textinput.Model
	focus  int

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	scan    ScanFunc
	relays  []*discovery.Relay
	scanErr error

	err    error
	result *config.Config
	width  int
}

// New creates the wizard prefilled from base. A nil scan skips discovery.
func New(base *config.Config, scan ScanFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	nick := textinput.New()
	nick.Placeholder = config.DefaultNickname
	nick.CharLimit = 32
	nick.Width = 40
	nick.SetValue(base.Nickname)

	server := textinput.New()
	server.Placeholder = config.DefaultServer
	server.CharLimit = 256
	server.Width = 40
	server.SetValue(base.Server)

	channels := textinput.New()
	channels.Placeholder = strings.Join(config.DefaultChannels, ", ")
	channels.CharLimit = 256
	channels.Width = 40
	channels.SetValue(strings.Join(base.Channels, ", "))

	m := Model{
		stage:   stageScanning,
		base:    *base,
		inputs:  []textinput.Model{nick, server, channels},
		spinner: s,
		help:    help.New(),
		keys:    newKeyMap(),
		scan:    scan,
	}
	if scan == nil {
		m.stage = stageForm
		m.inputs[fieldNickname].Focus()
	}
	return m
}

// Init starts the scan or the cursor blink
func (m Model) Init() tea.Cmd {
	if m.stage == stageScanning {
		return tea.Batch(m.spinner.Tick, m.runScan())
	}
	return textinput.Blink
}

func (m Model) runScan() tea.Cmd {
	scan := m.scan
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ScanTimeout)
		defer cancel()
		relays, err := scan(ctx)
		return scanDoneMsg{relays: relays, err: err}
	}
}

// Update handles keys, scan results and spinner ticks
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case scanDoneMsg:
		if m.stage != stageScanning {
			return m, nil
		}
		m.relays = msg.relays
		m.scanErr = msg.err
		if len(msg.relays) > 0 && m.keepsDefaultServer() {
			m.inputs[fieldServer].SetValue(msg.relays[0].URL())
		}
		return m.startForm()

	case spinner.TickMsg:
		if m.stage != stageScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Cancel) {
			m.stage = stageCancelled
			return m, tea.Quit
		}
		if m.stage == stageScanning {
			if key.Matches(msg, m.keys.Skip) {
				return m.startForm()
			}
			return m, nil
		}
		if m.stage == stageForm {
			return m.updateForm(msg)
		}
	}
	return m, nil
}

// keepsDefaultServer reports whether no relay has been chosen yet, so a
// scanned one may take its place.
func (m Model) keepsDefaultServer() bool {
	return m.base.Server == "" || m.base.Server == config.DefaultServer
}

func (m Model) startForm() (tea.Model, tea.Cmd) {
	m.stage = stageForm
	m.focus = fieldNickname
	m.inputs[fieldNickname].Focus()
	return m, textinput.Blink
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		return m.setFocus(m.focus + 1)

	case key.Matches(msg, m.keys.Prev):
		return m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keys.Submit):
		if m.focus < fieldCount-1 {
			return m.setFocus(m.focus + 1)
		}
		cfg, err := m.build()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.result = cfg
		m.stage = stageDone
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.err = nil
	return m, cmd
}

func (m Model) setFocus(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = (i + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m, textinput.Blink
}

// build turns the form into a validated config.
func (m Model) build() (*config.Config, error) {
	cfg := m.base
	cfg.Nickname = strings.TrimSpace(m.inputs[fieldNickname].Value())
	cfg.Server = strings.TrimSpace(m.inputs[fieldServer].Value())
	cfg.Channels = ParseChannels(m.inputs[fieldChannels].Value())

	if len(cfg.Channels) == 0 {
		return nil, errors.New("at least one channel is required")
	}
	if !contains(cfg.Channels, cfg.Target) {
		cfg.Target = cfg.Channels[0]
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseChannels splits a comma or space separated list, adds missing '#'
// prefixes and drops duplicates.
func ParseChannels(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	var out []string
	for _, f := range fields {
		if !strings.HasPrefix(f, "#") {
			f = "#" + f
		}
		if f != "#" && !contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Result returns the saved config once the form was submitted.
func (m Model) Result() (*config.Config, bool) {
	return m.result, m.stage == stageDone
}

// Cancelled reports whether the user left the wizard.
func (m Model) Cancelled() bool {
	return m.stage == stageCancelled
}

// View renders the current stage
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(AppName))
	b.WriteString("\n")

	switch m.stage {
	case stageScanning:
		b.WriteString(fmt.Sprintf("%s Looking for relays on the local network...\n", m.spinner.View()))
		b.WriteString(HelpStyle.Render("s: skip • esc: cancel"))

	case stageForm:
		b.WriteString(m.formView())

	case stageDone:
		b.WriteString("Configuration ready.\n")

	case stageCancelled:
		b.WriteString("Setup cancelled.\n")
	}

	frame := FrameStyle
	if m.width > 4 {
		frame = frame.MaxWidth(m.width)
	}
	return frame.Render(b.String()) + "\n"
}

func (m Model) formView() string {
	var lines []string

	switch {
	case len(m.relays) > 0:
		lines = append(lines, SubtitleStyle.Render(fmt.Sprintf("Found %d relay(s); the first one is prefilled.", len(m.relays))), "")
	case m.scanErr != nil:
		lines = append(lines, SubtitleStyle.Render("Relay scan unavailable: "+m.scanErr.Error()), "")
	}

	for i, input := range m.inputs {
		label := LabelStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = FocusedLabelStyle.Render(fieldLabels[i])
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label, input.View()))
	}
	lines = append(lines, HintStyle.Render("comma separated, e.g. #mini, #rust"))

	if m.err != nil {
		lines = append(lines, "", ErrorStyle.Render(m.err.Error()))
	}

	lines = append(lines, HelpStyle.Render(m.help.View(m.keys)))
	return strings.Join(lines, "\n")
}

// Run shows the wizard on the terminal and returns the submitted config.
func Run(base *config.Config, scan ScanFunc) (*config.Config, error) {
	p := tea.NewProgram(New(base, scan))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("setup wizard failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("setup wizard returned unexpected model %T", final)
	}
	cfg, done := m.Result()
	if !done {
		return nil, ErrCancelled
	}
	return cfg, nil
}
