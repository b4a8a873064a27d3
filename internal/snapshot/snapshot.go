// Package snapshot holds the miner telemetry data model and loads the static data file.
package snapshot

import (
	"fmt"
	"math"

	jsoniter "github.com/json-iterator/go"
)

// ============================================================================
// DATA STRUCTURES
// ============================================================================

// Device is one physical mining unit attached to a PDU port.
// Optional telemetry is nil when the export did not report it.
//
// A field is nil when its key is missing, when it is JSON null, or when it
// holds something other than a number. Null therefore counts as absent, so a
// device whose only telemetry is {"tB": null} is not display-eligible. The
// dashboard this replaces treated an explicit null as present.
type Device struct {
	PDU  int `json:"pdu"`
	Port int `json:"port"`

	Hashrate5s  *float64 `json:"TH5s,omitempty"`  // Instantaneous hashrate
	HashrateAvg *float64 `json:"THAvg,omitempty"` // Hourly average hashrate
	Temperature *float64 `json:"tB,omitempty"`    // Board temperature (°C)
	Frequency   *float64 `json:"freq,omitempty"`  // Operating frequency (MHz)
	Power       *float64 `json:"w,omitempty"`     // Power draw (W)
	Status      *float64 `json:"s,omitempty"`     // Health code, see projector status table
}

// Entry is one named dataset in the snapshot file.
type Entry struct {
	Name   string   `json:"name"`
	Values []Device `json:"values"`
}

// Dataset is the full decoded snapshot file.
type Dataset []Entry

// UnmarshalJSON decodes pdu and port strictly and the telemetry fields leniently.
func (d *Device) UnmarshalJSON(data []byte) error {
	var raw struct {
		PDU         int                 `json:"pdu"`
		Port        int                 `json:"port"`
		Hashrate5s  jsoniter.RawMessage `json:"TH5s"`
		HashrateAvg jsoniter.RawMessage `json:"THAvg"`
		Temperature jsoniter.RawMessage `json:"tB"`
		Frequency   jsoniter.RawMessage `json:"freq"`
		Power       jsoniter.RawMessage `json:"w"`
		Status      jsoniter.RawMessage `json:"s"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Device{
		PDU:         raw.PDU,
		Port:        raw.Port,
		Hashrate5s:  optionalNumber(raw.Hashrate5s),
		HashrateAvg: optionalNumber(raw.HashrateAvg),
		Temperature: optionalNumber(raw.Temperature),
		Frequency:   optionalNumber(raw.Frequency),
		Power:       optionalNumber(raw.Power),
		Status:      optionalNumber(raw.Status),
	}
	return nil
}

// optionalNumber returns nil for a missing, null or non-numeric value.
func optionalNumber(raw jsoniter.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// Key identifies a device by its PDU and port.
func (d Device) Key() string {
	return fmt.Sprintf("%d/%d", d.PDU, d.Port)
}

// StatusCode returns the integral status code. Missing or non-integral values report false.
func (d Device) StatusCode() (int, bool) {
	if d.Status == nil {
		return 0, false
	}
	v := *d.Status
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// Float returns a pointer to v, for building devices in code.
func Float(v float64) *float64 {
	return &v
}
