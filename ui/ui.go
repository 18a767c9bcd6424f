package ui

import (
	"os"

	"github.com/best8oy/LyricsCMUS/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Fallback viewport used until the first size report arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// FatalMsg asks the UI to shut down because the poller failed.
type FatalMsg struct {
	Err error
}

type changedMsg struct{}

// Model is the bubbletea model rendering the shared screen state. Key
// presses only ever touch the scroll offset.
type Model struct {
	store  *state.Store
	keys   keyMap
	width  int
	height int
}

// New returns a Model reading from store, sized to the current terminal.
func New(store *state.Store) Model {
	w, h := terminalSize()
	return Model{store: store, keys: defaultKeys(), width: w, height: h}
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.store)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.store.ScrollBy(-1)
		case key.Matches(msg, m.keys.Down):
			m.store.ScrollBy(1)
		}
	case changedMsg:
		return m, waitForChange(m.store)
	case FatalMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	return Render(m.store.Snapshot(), m.width, m.height)
}

// waitForChange turns the next store change into a redraw.
func waitForChange(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		<-store.Changed()
		return changedMsg{}
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func terminalSize() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}
