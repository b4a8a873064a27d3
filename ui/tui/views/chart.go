package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"minerdash/internal/projector"
	"minerdash/ui/tui/state"
	"minerdash/ui/tui/styles"
)

// ChartView is the status histogram popup around an already drawn bar chart.
type ChartView struct{}

func (v ChartView) Render(s state.AppState, props ViewProps) string {
	if !s.ChartVisible {
		return ""
	}

	var legend []string
	for i, c := range projector.Categories() {
		item := styles.StatusText(c.Color).Render("■") + fmt.Sprintf(" %d %s", c.Code, c.Label)
		if i == props.LegendCursor {
			item = lipgloss.NewStyle().Reverse(true).Render(item)
		}
		legend = append(legend, zone.Mark(LegendZoneID(i), item))
	}

	tooltip := props.Tooltip
	if tooltip == "" {
		tooltip = " "
	}

	return modal("Status distribution",
		props.ChartView,
		strings.Join(legend[:3], "  "),
		strings.Join(legend[3:], "  "),
		"",
		lipgloss.NewStyle().Bold(true).Render(tooltip),
		"",
		RenderButton(ChartCloseZoneID, "Close"),
		footer("[←/→] Tooltip • [X] Close"),
	)
}
