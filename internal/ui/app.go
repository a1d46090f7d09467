package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubble-exchange/web3-onboard/internal/logtail"
	"github.com/hubble-exchange/web3-onboard/internal/observable"
	"github.com/hubble-exchange/web3-onboard/internal/prefs"
	"github.com/hubble-exchange/web3-onboard/internal/wallet"
)

const (
	logRefresh = time.Second
	logLines   = 5
)

// Controller switches the active wallet on key presses.
type Controller interface {
	Next() (string, error)
	Disconnect()
}

// Options configures the UI.
type Options struct {
	View       *observable.Derived[wallet.State]
	Controller Controller
	ThemeName  string
	PrefsPath  string // theme changes are saved here when set
	LogPath    string // recent entries of this JSON log are shown when set
}

// Model is the root application state for Bubble Tea.
type Model struct {
	controller Controller
	updates    <-chan wallet.State
	prefsPath  string
	logPath    string

	// UI state
	theme   Theme
	keys    keyMap
	help    help.Model
	spinner spinner.Model

	// Data state
	state wallet.State
	ready bool
	logs  []string

	// Last key action result
	status    string
	statusErr bool
}

// New creates a model that renders every state received on updates.
func New(opts Options, updates <-chan wallet.State) Model {
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}
	return Model{
		controller: opts.Controller,
		updates:    updates,
		prefsPath:  opts.PrefsPath,
		logPath:    opts.LogPath,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, waitForState(m.updates)}
	if m.logPath != "" {
		cmds = append(cmds, readLogsCmd(m.logPath), tickCmd(logRefresh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.state = wallet.State(msg)
		m.ready = true
		return m, waitForState(m.updates)

	case tickMsg:
		return m, tea.Batch(readLogsCmd(m.logPath), tickCmd(logRefresh))

	case logsMsg:
		m.logs = msg
		return m, nil

	case actionMsg:
		m.status = msg.text
		m.statusErr = msg.err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case key.Matches(msg, m.keys.NextWallet):
		return m, nextWalletCmd(m.controller)

	case key.Matches(msg, m.keys.Disconnect):
		return m, disconnectCmd(m.controller)
	}
	return m, nil
}

// Messages

type stateMsg wallet.State

type tickMsg time.Time

type logsMsg []string

type actionMsg struct {
	text string
	err  bool
}

// Commands

func waitForState(updates <-chan wallet.State) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg(st)
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Tail(path, logLines)
		if err != nil {
			return logsMsg{err.Error()}
		}
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.Summary())
		}
		return logsMsg(lines)
	}
}

func nextWalletCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return actionMsg{text: "no scenario loaded", err: true}
		}
		name, err := c.Next()
		if err != nil {
			return actionMsg{text: fmt.Sprintf("connect failed: %v", err), err: true}
		}
		return actionMsg{text: "connected " + name}
	}
}

func disconnectCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		if c == nil {
			return actionMsg{text: "no scenario loaded", err: true}
		}
		c.Disconnect()
		return actionMsg{text: "disconnected"}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.View == nil {
		return fmt.Errorf("ui requires a wallet view")
	}

	updates := make(chan wallet.State, 1)
	stop := opts.View.Subscribe(func(st wallet.State) {
		// Keep only the newest state; deliveries are serialized.
		select {
		case updates <- st:
		default:
			select {
			case <-updates:
			default:
			}
			updates <- st
		}
	})
	defer stop()

	p := tea.NewProgram(New(opts, updates), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
