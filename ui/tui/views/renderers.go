package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"minerdash/ui/tui/state"
	"minerdash/ui/tui/styles"
)

func RenderGrid(s state.AppState, props ViewProps) string {
	return GridView{}.Render(s, props)
}

func RenderDetail(s state.AppState) string {
	return DetailView{}.Render(s, ViewProps{})
}

func RenderChart(s state.AppState, chartView, tooltip string, legendCursor int) string {
	return ChartView{}.Render(s, ViewProps{
		ChartView:    chartView,
		Tooltip:      tooltip,
		LegendCursor: legendCursor,
	})
}

func RenderLoading(width, height int, spinnerView, source string) string {
	return LoadingView{Source: source}.Render(state.AppState{Loading: true}, ViewProps{
		Width:       width,
		Height:      height,
		SpinnerView: spinnerView,
	})
}

func RenderError(width, height int, err error) string {
	return ErrorView{}.Render(state.AppState{Err: err}, ViewProps{Width: width, Height: height})
}

// LoadingView is shown while the snapshot source is being read.
type LoadingView struct {
	Source string
}

func (v LoadingView) Render(s state.AppState, props ViewProps) string {
	return lipgloss.Place(props.Width, props.Height, lipgloss.Center, lipgloss.Center,
		fmt.Sprintf("%s Loading snapshot %s", props.SpinnerView, v.Source),
	)
}

// ErrorView replaces the dashboard when the snapshot could not be loaded.
type ErrorView struct{}

func (v ErrorView) Render(s state.AppState, props ViewProps) string {
	return lipgloss.Place(props.Width, props.Height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left,
			styles.ErrorStyle.Render("Failed to load snapshot"),
			fmt.Sprintf("%v", s.Err),
			footer("\nPress 'q' to quit"),
		),
	)
}
