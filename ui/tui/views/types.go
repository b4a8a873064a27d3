package views

import (
	"minerdash/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height int

	// Grid cursor, when HasCursor is set
	HasCursor  bool
	CursorPDU  int
	CursorPort int

	// Component States
	SpinnerView  string
	ChartView    string
	Tooltip      string
	LegendCursor int
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}

var (
	_ View = GridView{}
	_ View = DetailView{}
	_ View = ChartView{}
	_ View = LoadingView{}
	_ View = ErrorView{}
)
