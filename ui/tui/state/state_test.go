package state

import (
	"testing"

	"minerdash/internal/snapshot"
)

func TestSelectionIndependentOfChart(t *testing.T) {
	var s AppState

	d := snapshot.Device{PDU: 1, Port: 4}
	s.Select(d)
	if !s.ToggleChart() {
		t.Fatal("Expected chart to open")
	}

	d.Port = 9
	if s.Selected == nil || s.Selected.Port != 4 {
		t.Errorf("Expected selection to hold a copy, got %+v", s.Selected)
	}

	s.ClearSelection()
	if s.Selected != nil {
		t.Error("Expected selection to be cleared")
	}
	if !s.ChartVisible {
		t.Error("Closing the detail view must not close the chart")
	}
	if !s.ModalOpen() {
		t.Error("Expected chart to count as a modal")
	}

	s.CloseChart()
	if s.ModalOpen() {
		t.Error("Expected no modal after closing both")
	}
}
