package styles

import (
	"github.com/charmbracelet/lipgloss"

	"minerdash/internal/projector"
)

var (
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Muted     = lipgloss.Color("#888")

	BrandColor = lipgloss.Color("#f27b24")

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor).
			Align(lipgloss.Left).
			Padding(0, 2)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1).
			Margin(0, 1)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(BrandColor).
			Padding(1, 2)

	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Highlight).
			Padding(0, 2)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(1)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF1818"))
)

// Swatch is the port tile for a status color. Text flips to white on the black no-status tile.
func Swatch(color string) lipgloss.Style {
	fg := "#000000"
	if color == projector.NoStatusColor {
		fg = "#FFFFFF"
	}
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(color)).
		Width(4).
		Align(lipgloss.Center)
}

// CursorSwatch marks the keyboard cursor on top of the status color.
func CursorSwatch(color string) lipgloss.Style {
	return Swatch(color).Underline(true).Reverse(true)
}

// StatusText colors a label with its category color.
func StatusText(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}
