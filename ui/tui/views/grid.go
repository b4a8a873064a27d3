package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"minerdash/internal/output"
	"minerdash/internal/projector"
	"minerdash/ui/tui/state"
	"minerdash/ui/tui/styles"
)

const swatchesPerRow = 8

type GridView struct{}

func (v GridView) Render(s state.AppState, props ViewProps) string {
	dash := output.BuildDashboard(projector.Project(s.Entry))

	title := dash.Title
	if title == "" {
		title = "no snapshot"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.HeaderStyle.Render("MINERDASH // "+strings.ToUpper(title)),
		" ",
		RenderButton(GraphsZoneID, "GRAPHS..."),
	)

	summary := styles.FooterStyle.Render(fmt.Sprintf("%d of %d miners reporting across %d PDUs",
		dash.Eligible, dash.Devices, len(dash.Sections)))

	var cards []string
	for _, sec := range dash.Sections {
		cards = append(cards, v.renderCard(sec, props))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		summary,
		flow(cards, props.Width),
		footer("[←↑↓→/hjkl] Move • [Enter] Details • [G] Graphs • [Q] Quit"),
	)
}

func (v GridView) renderCard(sec output.Section, props ViewProps) string {
	var rows []string
	var row []string
	for _, p := range sec.Ports {
		cursor := props.HasCursor && props.CursorPDU == sec.PDU && props.CursorPort == p.Port
		row = append(row, RenderSwatch(p, cursor))
		if len(row) == swatchesPerRow {
			rows = append(rows, strings.Join(row, " "))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	if len(rows) == 0 {
		rows = append(rows, lipgloss.NewStyle().Foreground(styles.Muted).Render("no telemetry"))
	}

	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		append([]string{lipgloss.NewStyle().Bold(true).Render(sec.Title)}, rows...)...,
	))
}

// flow lays cards out left to right, wrapping at width. A zero width keeps one card per row.
func flow(cards []string, width int) string {
	var lines []string
	var line []string
	used := 0
	for _, c := range cards {
		w := lipgloss.Width(c)
		if len(line) > 0 && (width <= 0 || used+w > width) {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, used = nil, 0
		}
		line = append(line, c)
		used += w
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
