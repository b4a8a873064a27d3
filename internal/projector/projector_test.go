package projector

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"minerdash/internal/snapshot"
)

func intPtr(v int) *int { return &v }

func status(v float64) *float64 { return snapshot.Float(v) }

func TestClassifyAndColorStatus(t *testing.T) {
	tests := []struct {
		code      *int
		wantLabel string
		wantColor string
	}{
		{intPtr(10), "OK", "#50C804"},
		{intPtr(20), "Hashrate loss", "#7499FF"},
		{intPtr(30), "Warning", "#FFC859"},
		{intPtr(40), "Minor issue", "#FFBF00"},
		{intPtr(50), "Major issue", "#E97659"},
		{intPtr(60), "Critical state", "#EF1818"},
		{intPtr(99), NoStatusLabel, NoStatusColor},
		{intPtr(0), NoStatusLabel, NoStatusColor},
		{intPtr(-10), NoStatusLabel, NoStatusColor},
		{intPtr(15), NoStatusLabel, NoStatusColor},
		{nil, NoStatusLabel, NoStatusColor},
	}

	for _, tt := range tests {
		label := ClassifyStatus(tt.code)
		color := ColorForStatus(tt.code)
		if label != tt.wantLabel {
			t.Errorf("ClassifyStatus(%v) = %q; want %q", tt.code, label, tt.wantLabel)
		}
		if color != tt.wantColor {
			t.Errorf("ColorForStatus(%v) = %q; want %q", tt.code, color, tt.wantColor)
		}
		// Stable across calls.
		if ClassifyStatus(tt.code) != label || ColorForStatus(tt.code) != color {
			t.Errorf("classification of %v not stable", tt.code)
		}
	}
}

func TestLabelAndColorShareTableRow(t *testing.T) {
	for code := -5; code <= 100; code++ {
		c := intPtr(code)
		if ColorForLabel(ClassifyStatus(c)) != ColorForStatus(c) {
			t.Errorf("code %d: label %q and color %q come from different rows",
				code, ClassifyStatus(c), ColorForStatus(c))
		}
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	cats := Categories()
	if len(cats) != 6 {
		t.Fatalf("Expected 6 categories, got %d", len(cats))
	}
	cats[0].Label = "mutated"
	if ClassifyStatus(intPtr(10)) != "OK" {
		t.Error("Categories() leaked the status table")
	}
}

func TestIsDisplayEligible(t *testing.T) {
	tests := []struct {
		name string
		dev  snapshot.Device
		want bool
	}{
		{"no telemetry", snapshot.Device{PDU: 1, Port: 1}, false},
		{"status only", snapshot.Device{Status: status(10)}, true},
		{"unknown status only", snapshot.Device{Status: status(99)}, true},
		{"hashrate 5s", snapshot.Device{Hashrate5s: snapshot.Float(0)}, true},
		{"hashrate avg", snapshot.Device{HashrateAvg: snapshot.Float(1)}, true},
		{"temperature", snapshot.Device{Temperature: snapshot.Float(60)}, true},
		{"frequency", snapshot.Device{Frequency: snapshot.Float(500)}, true},
		{"power", snapshot.Device{Power: snapshot.Float(3000)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDisplayEligible(tt.dev); got != tt.want {
				t.Errorf("IsDisplayEligible() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestNullTelemetryIsNotEligible(t *testing.T) {
	ds, err := snapshot.Decode(strings.NewReader(`[{"name": "nulls", "values": [
		{"pdu": 1, "port": 1, "tB": null, "s": null},
		{"pdu": 1, "port": 2, "tB": 0}
	]}]`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if IsDisplayEligible(ds[0].Values[0]) {
		t.Error("Expected a device with only null telemetry to be ineligible")
	}
	if !IsDisplayEligible(ds[0].Values[1]) {
		t.Error("Expected a zero reading to count as present")
	}
}

func TestScenarioSmallEntry(t *testing.T) {
	entry := &snapshot.Entry{
		Name: "scenario",
		Values: []snapshot.Device{
			{PDU: 1, Port: 1, Status: status(10)},
			{PDU: 1, Port: 2, Status: status(60)},
			{PDU: 2, Port: 1},
		},
	}

	p := Project(entry)

	if p.Groups.Len() != 2 {
		t.Fatalf("Expected 2 PDU groups, got %d", p.Groups.Len())
	}
	if p.Groups.Groups[0].PDU != 1 || p.Groups.Groups[1].PDU != 2 {
		t.Errorf("Expected PDU order [1 2], got [%d %d]", p.Groups.Groups[0].PDU, p.Groups.Groups[1].PDU)
	}

	pdu1, ok := p.Groups.Get(1)
	if !ok || len(pdu1) != 2 || pdu1[0].Port != 1 || pdu1[1].Port != 2 {
		t.Errorf("Unexpected PDU 1 bucket: %+v", pdu1)
	}
	pdu2, ok := p.Groups.Get(2)
	if !ok || len(pdu2) != 1 || pdu2[0].Port != 1 {
		t.Errorf("Unexpected PDU 2 bucket: %+v", pdu2)
	}

	want := map[string]int{
		"OK": 1, "Hashrate loss": 0, "Warning": 0,
		"Minor issue": 0, "Major issue": 0, "Critical state": 1,
	}
	for label, n := range want {
		if got := p.Histogram.Count(label); got != n {
			t.Errorf("Histogram[%s] = %d; want %d", label, got, n)
		}
	}

	if IsDisplayEligible(pdu2[0]) {
		t.Error("Expected {pdu:2, port:1} to be ineligible")
	}
	if len(p.Eligible()) != 2 {
		t.Errorf("Expected 2 eligible devices, got %d", len(p.Eligible()))
	}
}

func TestScenarioUnknownStatus(t *testing.T) {
	d := snapshot.Device{PDU: 4, Port: 7, Status: status(99), Temperature: snapshot.Float(55)}

	if got := ClassifyStatus(StatusOf(d)); got != NoStatusLabel {
		t.Errorf("Expected %q, got %q", NoStatusLabel, got)
	}
	if h := BuildHistogram([]snapshot.Device{d}); h.Total() != 0 {
		t.Errorf("Expected unknown status excluded from histogram, total %d", h.Total())
	}
	if !IsDisplayEligible(d) {
		t.Error("Expected device with temperature to stay eligible")
	}
}

func TestHistogramOrder(t *testing.T) {
	h := BuildHistogram(nil)
	cats := Categories()
	if len(h) != len(cats) {
		t.Fatalf("Expected %d buckets, got %d", len(cats), len(h))
	}
	for i, b := range h {
		if b.Category != cats[i] {
			t.Errorf("bucket %d = %+v; want %+v", i, b.Category, cats[i])
		}
		if b.Count != 0 {
			t.Errorf("bucket %d count = %d; want 0", i, b.Count)
		}
	}
}

func TestProjectNilEntry(t *testing.T) {
	p := Project(nil)
	if p.Groups.Len() != 0 {
		t.Errorf("Expected no groups, got %d", p.Groups.Len())
	}
	if p.Histogram.Total() != 0 || len(p.Histogram) != 6 {
		t.Errorf("Expected six zero buckets, got %+v", p.Histogram)
	}
	if _, ok := p.Groups.Get(1); ok {
		t.Error("Expected Get on empty groups to miss")
	}
}

func randomDevices(r *rand.Rand, n int) []snapshot.Device {
	codes := []float64{10, 20, 30, 40, 50, 60, 0, 99, 35}
	devs := make([]snapshot.Device, n)
	for i := range devs {
		d := snapshot.Device{PDU: r.Intn(5), Port: i}
		if r.Intn(4) > 0 {
			d.Status = status(codes[r.Intn(len(codes))])
		}
		if r.Intn(2) == 0 {
			d.Power = snapshot.Float(float64(r.Intn(4000)))
		}
		devs[i] = d
	}
	return devs
}

func TestGroupingPartitionProperty(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		devs := randomDevices(r, r.Intn(60))
		g := GroupByPdu(devs)

		seen := make(map[int]bool)
		total := 0
		for _, grp := range g.Groups {
			if seen[grp.PDU] {
				t.Fatalf("PDU %d appears in two buckets", grp.PDU)
			}
			seen[grp.PDU] = true

			// Relative input order is preserved (ports are the input index).
			for i, d := range grp.Devices {
				if d.PDU != grp.PDU {
					t.Fatalf("device %s in bucket %d", d.Key(), grp.PDU)
				}
				if i > 0 && grp.Devices[i-1].Port >= d.Port {
					t.Fatalf("bucket %d out of input order", grp.PDU)
				}
			}
			total += len(grp.Devices)
		}
		if total != len(devs) {
			t.Fatalf("grouped %d devices, input had %d", total, len(devs))
		}

		// Buckets appear in first-seen order.
		var order []int
		firstSeen := make(map[int]bool)
		for _, d := range devs {
			if !firstSeen[d.PDU] {
				firstSeen[d.PDU] = true
				order = append(order, d.PDU)
			}
		}
		for i, grp := range g.Groups {
			if order[i] != grp.PDU {
				t.Fatalf("bucket %d is PDU %d; want %d", i, grp.PDU, order[i])
			}
		}
	}
}

func TestHistogramSumProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		devs := randomDevices(r, r.Intn(60))
		h := BuildHistogram(devs)

		known := 0
		for _, d := range devs {
			if _, ok := LookupStatus(StatusOf(d)); ok {
				known++
			}
		}
		if h.Total() > len(devs) {
			t.Fatalf("histogram total %d exceeds device count %d", h.Total(), len(devs))
		}
		if h.Total() != known {
			t.Fatalf("histogram total %d; want %d known-status devices", h.Total(), known)
		}
	}
}

func TestProjectIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	entry := &snapshot.Entry{Name: "idem", Values: randomDevices(r, 40)}

	a := Project(entry)
	b := Project(entry)
	if !reflect.DeepEqual(a, b) {
		t.Error("Project is not idempotent")
	}
	if !reflect.DeepEqual(a.Groups.Devices(), b.Groups.Devices()) {
		t.Error("flattened groups differ between runs")
	}
}
