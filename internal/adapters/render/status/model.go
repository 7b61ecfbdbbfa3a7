package status

import (
	"errors"
	"io"

	"github.com/bnema/pairline/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// snapshotMsg carries the lobby snapshot into the program once it starts.
type snapshotMsg struct {
	stats application.Stats
}

// lobbyModel draws a single snapshot and quits. It never reads input, so
// it is safe to run without a terminal.
type lobbyModel struct {
	opts   RenderOptions
	styles styles
	frame  string
}

func newLobbyModel(opts RenderOptions) lobbyModel {
	return lobbyModel{opts: opts, styles: newStyles()}
}

func (m lobbyModel) Init() tea.Cmd {
	return nil
}

func (m lobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	snapshot, ok := msg.(snapshotMsg)
	if !ok {
		return m, nil
	}

	frame := renderView(snapshot.stats, m.opts, m.styles)
	if m.opts.Width > 0 {
		frame = lipgloss.NewStyle().MaxWidth(m.opts.Width).Render(frame)
	}
	m.frame = frame
	return m, tea.Quit
}

func (m lobbyModel) View() string {
	return m.frame
}

// Render draws a lobby snapshot as styled text. Lines are cut at
// opts.Width when it is set.
func Render(stats application.Stats, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newLobbyModel(opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)
	go p.Send(snapshotMsg{stats: stats})

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(lobbyModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
