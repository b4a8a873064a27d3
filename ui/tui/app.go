package tui

import (
	"context"
	"time"

	"minerdash/internal/config"
	"minerdash/internal/output"
	"minerdash/internal/projector"
	"minerdash/internal/snapshot"
	"minerdash/ui/tui/components"
	"minerdash/ui/tui/state"
	"minerdash/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	source    snapshot.Source
	config    config.Config
	state     state.AppState
	spinner   spinner.Model
	chart     *components.StatusChart
	cursor    gridCursor
	animating bool
	quitting  bool
	width     int
	height    int
}

// Messages
type AnimateMsg time.Time
type SnapshotLoadedMsg struct {
	Entry *snapshot.Entry
	Err   error
}

func InitialModel(source snapshot.Source, cfg config.Config) MainModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return MainModel{
		source:  source,
		config:  cfg,
		spinner: s,
		chart:   components.NewStatusChart(48, 12),
		state: state.AppState{
			Loading: true,
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	return tea.Batch(
		m.spinner.Tick,
		loadSnapshotCmd(m.source, m.config.LoadTimeout),
	)
}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func loadSnapshotCmd(src snapshot.Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		entry, err := src.Load(ctx)
		return SnapshotLoadedMsg{Entry: entry, Err: err}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case SnapshotLoadedMsg:
		return m.handleSnapshotLoadedMsg(msg)

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

// dashboard re-projects the loaded entry.
func (m *MainModel) dashboard() output.DashboardView {
	return output.BuildDashboard(projector.Project(m.state.Entry))
}

func (m *MainModel) ready() bool {
	return !m.state.Loading && m.state.Err == nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	if !m.ready() {
		return m, nil
	}

	switch msg.String() {
	case "g":
		return m, m.toggleChart()
	case "x":
		m.state.CloseChart()
		return m, nil
	case "esc", "c":
		m.state.ClearSelection()
		return m, nil
	}

	if m.state.ChartVisible {
		switch msg.String() {
		case "left", "h":
			m.chart.MoveCursor(-1)
		case "right", "l":
			m.chart.MoveCursor(1)
		}
		return m, nil
	}

	if m.state.Selected != nil {
		return m, nil
	}

	view := m.dashboard()
	switch msg.String() {
	case "up", "k":
		m.cursor = m.cursor.move(view, 0, -1)
	case "down", "j":
		m.cursor = m.cursor.move(view, 0, 1)
	case "left", "h":
		m.cursor = m.cursor.move(view, -1, 0)
	case "right", "l":
		m.cursor = m.cursor.move(view, 1, 0)
	case "enter":
		if p, ok := m.cursor.clamp(view).port(view); ok {
			m.state.Select(p.Device)
		}
	}
	return m, nil
}

// toggleChart opens or closes the chart. Opening restarts the bars from zero.
func (m *MainModel) toggleChart() tea.Cmd {
	if !m.state.ToggleChart() {
		return nil
	}
	m.chart.SetHistogram(m.dashboard().Histogram)
	m.chart.Reset()
	if m.animating {
		return nil
	}
	m.animating = true
	return animateCmd()
}

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	if !m.state.ChartVisible || !m.chart.Step() {
		m.animating = false
		return m, nil
	}
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	newW := msg.Width/2 - 6
	if newW > 30 {
		m.chart.Resize(newW, 12)
	}
	return m, nil
}

func (m *MainModel) handleSnapshotLoadedMsg(msg SnapshotLoadedMsg) (tea.Model, tea.Cmd) {
	m.state.Loading = false
	if msg.Err != nil {
		m.state.Err = msg.Err
		return m, nil
	}

	m.state.Entry = msg.Entry
	m.state.LoadedAt = time.Now()
	view := m.dashboard()
	m.chart.SetHistogram(view.Histogram)
	m.cursor = m.cursor.clamp(view)
	return m, nil
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready() {
		return m, nil
	}

	if m.state.ChartVisible {
		for i := range projector.Categories() {
			if zone.Get(views.LegendZoneID(i)).InBounds(msg) {
				m.chart.SetCursor(i)
			}
		}
	}

	if msg.Action != tea.MouseActionRelease {
		return m, nil
	}

	if m.state.ModalOpen() {
		if m.state.Selected != nil && zone.Get(views.DetailCloseZoneID).InBounds(msg) {
			m.state.ClearSelection()
		}
		if m.state.ChartVisible && zone.Get(views.ChartCloseZoneID).InBounds(msg) {
			m.state.CloseChart()
		}
		return m, nil
	}

	if zone.Get(views.GraphsZoneID).InBounds(msg) {
		return m, m.toggleChart()
	}

	view := m.dashboard()
	for si, sec := range view.Sections {
		for pi, p := range sec.Ports {
			if zone.Get(views.PortZoneID(sec.PDU, p.Port)).InBounds(msg) {
				m.cursor = gridCursor{Section: si, Port: pi}
				m.state.Select(p.Device)
				return m, nil
			}
		}
	}
	return m, nil
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	if m.state.Loading {
		return views.RenderLoading(m.width, m.height, m.spinner.View(), m.config.DataPath)
	}
	if m.state.Err != nil {
		return views.RenderError(m.width, m.height, m.state.Err)
	}

	if !m.state.ModalOpen() {
		props := views.ViewProps{Width: m.width, Height: m.height}
		if p, ok := m.cursor.port(m.dashboard()); ok {
			props.HasCursor = true
			props.CursorPDU = p.Device.PDU
			props.CursorPort = p.Port
		}
		return zone.Scan(views.RenderGrid(m.state, props))
	}

	var modals []string
	if m.state.Selected != nil {
		modals = append(modals, views.RenderDetail(m.state))
	}
	if m.state.ChartVisible {
		modals = append(modals, views.RenderChart(m.state, m.chart.View(), m.chart.Tooltip(), m.chart.Cursor))
	}
	return zone.Scan(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Center, modals...),
	))
}

func Start(source snapshot.Source, cfg config.Config) error {
	m := InitialModel(source, cfg)
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}
