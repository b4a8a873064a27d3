package output

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"minerdash/internal/projector"
	"minerdash/internal/snapshot"
)

// NoData replaces any absent or zero telemetry value in the detail view.
const NoData = "no data"

// UI/view-model types (no printing here)
type Port struct {
	Port   int
	Label  string // text on the swatch
	Status string // classified status label
	Color  string
	Device snapshot.Device
}

type Section struct {
	PDU   int
	Title string
	Ports []Port // eligible devices only
}

type DashboardView struct {
	Title     string
	Sections  []Section
	Histogram projector.Histogram
	Devices   int
	Eligible  int
}

// Field is one labelled row of the miner detail popup.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// BuildDashboard converts a projection into UI-ready sections.
func BuildDashboard(p projector.Projection) DashboardView {
	view := DashboardView{
		Title:     p.Name,
		Histogram: p.Histogram,
		Devices:   p.Total,
	}

	for _, grp := range p.Groups.Groups {
		sec := Section{
			PDU:   grp.PDU,
			Title: fmt.Sprintf("PDU %d", grp.PDU),
		}
		for _, d := range grp.Devices {
			if !projector.IsDisplayEligible(d) {
				continue
			}
			code := projector.StatusOf(d)
			sec.Ports = append(sec.Ports, Port{
				Port:   d.Port,
				Label:  fmt.Sprintf("%d", d.Port),
				Status: projector.ClassifyStatus(code),
				Color:  projector.ColorForStatus(code),
				Device: d,
			})
		}
		view.Eligible += len(sec.Ports)
		view.Sections = append(view.Sections, sec)
	}

	return view
}

// DetailFields lists the popup rows for d. A nil device yields nil.
func DetailFields(d *snapshot.Device) []Field {
	if d == nil {
		return nil
	}
	status := NoData
	if d.Status != nil && *d.Status != 0 {
		status = projector.ClassifyStatus(projector.StatusOf(*d))
	}
	return []Field{
		{Label: "PDU", Value: formatInt(d.PDU)},
		{Label: "Port", Value: formatInt(d.Port)},
		{Label: "Hashrate 5s", Value: formatValue(d.Hashrate5s, "h/s")},
		{Label: "Hashrate 1h", Value: formatValue(d.HashrateAvg, "h/s")},
		{Label: "Frequency", Value: formatValue(d.Frequency, "MHz")},
		{Label: "Status", Value: status},
		{Label: "Temperature", Value: formatValue(d.Temperature, "°C")},
		{Label: "Power", Value: formatValue(d.Power, "W")},
	}
}

// TooltipText is the hover text for one histogram bar.
func TooltipText(b projector.Bucket) string {
	return fmt.Sprintf("%s : %d", b.Category.Label, b.Count)
}

// FindPort returns the swatch for a PDU/port pair.
func (v DashboardView) FindPort(pdu, port int) (*Port, bool) {
	for i := range v.Sections {
		if v.Sections[i].PDU != pdu {
			continue
		}
		for j := range v.Sections[i].Ports {
			if v.Sections[i].Ports[j].Port == port {
				return &v.Sections[i].Ports[j], true
			}
		}
	}
	return nil, false
}

// Ports flattens every section's swatches in display order.
func (v DashboardView) Ports() []Port {
	var out []Port
	for _, sec := range v.Sections {
		out = append(out, sec.Ports...)
	}
	return out
}

func formatInt(v int) string {
	if v == 0 {
		return NoData
	}
	return humanize.Comma(int64(v))
}

func formatValue(v *float64, unit string) string {
	if v == nil || *v == 0 {
		return NoData
	}
	return humanize.CommafWithDigits(*v, 2) + " " + unit
}
