package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"minerdash/internal/output"
	"minerdash/internal/projector"
	"minerdash/ui/tui/state"
	"minerdash/ui/tui/styles"
)

// DetailView is the miner popup. It renders nothing without a selection.
type DetailView struct{}

func (v DetailView) Render(s state.AppState, props ViewProps) string {
	if s.Selected == nil {
		return ""
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted).Width(14)
	var rows []string
	for _, f := range output.DetailFields(s.Selected) {
		value := f.Value
		if f.Label == "Status" && value != output.NoData {
			value = styles.StatusText(projector.ColorForStatus(projector.StatusOf(*s.Selected))).Bold(true).Render(value)
		}
		rows = append(rows, labelStyle.Render(f.Label)+value)
	}

	title := fmt.Sprintf("Miner %s", s.Selected.Key())
	return modal(title,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		RenderButton(DetailCloseZoneID, "Close"),
		footer("[Esc/C] Close"),
	)
}
