package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"minerdash/internal/output"
	"minerdash/ui/tui/styles"
)

// Zone IDs shared with the controller's mouse handling.
const (
	GraphsZoneID      = "graphs_toggle"
	DetailCloseZoneID = "detail_close"
	ChartCloseZoneID  = "chart_close"
)

func PortZoneID(pdu, port int) string {
	return fmt.Sprintf("port_%d_%d", pdu, port)
}

func LegendZoneID(i int) string {
	return fmt.Sprintf("legend_%d", i)
}

// RenderSwatch draws one clickable port tile.
func RenderSwatch(p output.Port, cursor bool) string {
	style := styles.Swatch(p.Color)
	if cursor {
		style = styles.CursorSwatch(p.Color)
	}
	return zone.Mark(PortZoneID(p.Device.PDU, p.Port), style.Render(p.Label))
}

// RenderButton draws a clickable button.
func RenderButton(id, label string) string {
	return zone.Mark(id, styles.ButtonStyle.Render(label))
}

func footer(text string) string {
	return styles.FooterStyle.Render(text)
}

func modal(title string, body ...string) string {
	parts := append([]string{lipgloss.NewStyle().Bold(true).Foreground(styles.BrandColor).Render(title), ""}, body...)
	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
