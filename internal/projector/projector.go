// Package projector turns one snapshot entry into the views the dashboard needs:
// devices grouped by PDU, per-device status classification, and the status histogram.
//
// Everything here is pure. Calling Project twice on the same entry yields equal results.
package projector

import (
	"minerdash/internal/snapshot"
)

// Group is the ordered list of devices attached to one PDU.
type Group struct {
	PDU     int
	Devices []snapshot.Device
}

// PduGroups keeps groups in first-seen PDU order.
type PduGroups struct {
	Groups []Group
	index  map[int]int
}

// Get returns the devices on pdu.
func (g PduGroups) Get(pdu int) ([]snapshot.Device, bool) {
	i, ok := g.index[pdu]
	if !ok {
		return nil, false
	}
	return g.Groups[i].Devices, true
}

// Len returns the number of PDUs.
func (g PduGroups) Len() int {
	return len(g.Groups)
}

// Devices flattens the groups in bucket order.
func (g PduGroups) Devices() []snapshot.Device {
	var out []snapshot.Device
	for _, grp := range g.Groups {
		out = append(out, grp.Devices...)
	}
	return out
}

// Bucket is one histogram bar.
type Bucket struct {
	Category Category
	Count    int
}

// Histogram holds one bucket per status category in table order.
type Histogram []Bucket

// Total sums all bucket counts.
func (h Histogram) Total() int {
	n := 0
	for _, b := range h {
		n += b.Count
	}
	return n
}

// Count returns the count for a category label.
func (h Histogram) Count(label string) int {
	for _, b := range h {
		if b.Category.Label == label {
			return b.Count
		}
	}
	return 0
}

// Projection is everything derived from one entry.
type Projection struct {
	Name      string
	Groups    PduGroups
	Histogram Histogram
	Total     int
}

// Eligible returns the devices shown on the grid, in bucket order.
func (p Projection) Eligible() []snapshot.Device {
	var out []snapshot.Device
	for _, grp := range p.Groups.Groups {
		for _, d := range grp.Devices {
			if IsDisplayEligible(d) {
				out = append(out, d)
			}
		}
	}
	return out
}

// StatusOf returns the integral status code of d, or nil.
func StatusOf(d snapshot.Device) *int {
	if c, ok := d.StatusCode(); ok {
		return &c
	}
	return nil
}

// IsDisplayEligible reports whether d carries any telemetry at all.
func IsDisplayEligible(d snapshot.Device) bool {
	return d.Hashrate5s != nil ||
		d.HashrateAvg != nil ||
		d.Temperature != nil ||
		d.Frequency != nil ||
		d.Power != nil ||
		d.Status != nil
}

// GroupByPdu buckets devices by PDU. Ineligible devices are kept.
func GroupByPdu(devices []snapshot.Device) PduGroups {
	g := PduGroups{index: make(map[int]int)}
	for _, d := range devices {
		i, ok := g.index[d.PDU]
		if !ok {
			i = len(g.Groups)
			g.index[d.PDU] = i
			g.Groups = append(g.Groups, Group{PDU: d.PDU})
		}
		g.Groups[i].Devices = append(g.Groups[i].Devices, d)
	}
	return g
}

// BuildHistogram counts devices per status category.
// Devices without a known status are not counted anywhere.
func BuildHistogram(devices []snapshot.Device) Histogram {
	h := make(Histogram, len(statusTable))
	pos := make(map[int]int, len(statusTable))
	for i, c := range statusTable {
		h[i] = Bucket{Category: c}
		pos[c.Code] = i
	}

	for _, d := range devices {
		c, ok := LookupStatus(StatusOf(d))
		if !ok {
			continue
		}
		h[pos[c.Code]].Count++
	}
	return h
}

// Project derives groups and histogram from entry. A nil entry projects to empty groups
// and an all-zero histogram.
func Project(entry *snapshot.Entry) Projection {
	var devices []snapshot.Device
	p := Projection{}
	if entry != nil {
		p.Name = entry.Name
		devices = entry.Values
	}
	p.Groups = GroupByPdu(devices)
	p.Histogram = BuildHistogram(devices)
	p.Total = len(devices)
	return p
}
