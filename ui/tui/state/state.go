package state

import (
	"time"

	"minerdash/internal/snapshot"
)

// AppState holds the loaded entry plus the two transient view cells:
// the selected miner and whether the chart is open.
type AppState struct {
	Entry        *snapshot.Entry
	Selected     *snapshot.Device
	ChartVisible bool
	Loading      bool
	Err          error
	LoadedAt     time.Time
}

// Select opens the detail view for d.
func (s *AppState) Select(d snapshot.Device) {
	s.Selected = &d
}

// ClearSelection closes the detail view.
func (s *AppState) ClearSelection() {
	s.Selected = nil
}

// ToggleChart flips chart visibility and reports the new value.
func (s *AppState) ToggleChart() bool {
	s.ChartVisible = !s.ChartVisible
	return s.ChartVisible
}

func (s *AppState) CloseChart() {
	s.ChartVisible = false
}

// ModalOpen reports whether anything covers the grid.
func (s AppState) ModalOpen() bool {
	return s.Selected != nil || s.ChartVisible
}
