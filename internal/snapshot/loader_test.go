package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDataset = `[
  {"name": "first", "values": []},
  {"name": "Farm A", "values": [
    {"pdu": 1, "port": 1, "TH5s": 98.5, "THAvg": 97.1, "tB": 71, "freq": 525, "w": 3250, "s": 10},
    {"pdu": 1, "port": 2, "s": 60},
    {"pdu": 2, "port": 1},
    {"pdu": 2, "port": 2, "s": null, "tB": 40.5}
  ]}
]`

func TestDecode(t *testing.T) {
	ds, err := Decode(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(ds) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(ds))
	}

	e := ds[1]
	if e.Name != "Farm A" {
		t.Errorf("Expected name 'Farm A', got %q", e.Name)
	}
	if len(e.Values) != 4 {
		t.Fatalf("Expected 4 devices, got %d", len(e.Values))
	}

	first := e.Values[0]
	if first.Hashrate5s == nil || *first.Hashrate5s != 98.5 {
		t.Errorf("Expected TH5s 98.5, got %v", first.Hashrate5s)
	}
	if first.Power == nil || *first.Power != 3250 {
		t.Errorf("Expected w 3250, got %v", first.Power)
	}
	if code, ok := first.StatusCode(); !ok || code != 10 {
		t.Errorf("Expected status 10, got %d (ok=%v)", code, ok)
	}

	bare := e.Values[2]
	if bare.Hashrate5s != nil || bare.HashrateAvg != nil || bare.Temperature != nil ||
		bare.Frequency != nil || bare.Power != nil || bare.Status != nil {
		t.Errorf("Expected all optional fields nil for bare device, got %+v", bare)
	}

	if e.Values[3].Status != nil {
		t.Error("Expected null status to decode as absent")
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"name": "not an array"`)); err == nil {
		t.Error("Expected error for malformed dataset")
	}
}

func TestDecodeLenientTelemetry(t *testing.T) {
	tests := []struct {
		name    string
		device  string
		check   func(Device) bool
		wantErr bool
	}{
		{
			name:   "quoted status is absent",
			device: `{"pdu": 1, "port": 1, "s": "10", "w": 3000}`,
			check:  func(d Device) bool { return d.Status == nil && d.Power != nil && *d.Power == 3000 },
		},
		{
			name:   "boolean and object telemetry are absent",
			device: `{"pdu": 1, "port": 2, "tB": true, "freq": {"mhz": 500}, "TH5s": 90}`,
			check: func(d Device) bool {
				return d.Temperature == nil && d.Frequency == nil && d.Hashrate5s != nil && *d.Hashrate5s == 90
			},
		},
		{
			name:   "null telemetry is absent",
			device: `{"pdu": 1, "port": 3, "tB": null, "s": null}`,
			check:  func(d Device) bool { return d.Temperature == nil && d.Status == nil },
		},
		{
			name:    "quoted pdu is rejected",
			device:  `{"pdu": "x", "port": 1}`,
			wantErr: true,
		},
		{
			name:    "quoted port is rejected",
			device:  `{"pdu": 1, "port": "1"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `[{"name": "x", "values": [` + tt.device + `, {"pdu": 9, "port": 9, "s": 10}]}]`
			ds, err := Decode(strings.NewReader(doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(ds) != 1 || len(ds[0].Values) != 2 {
				t.Fatalf("Expected both devices to decode, got %+v", ds)
			}
			if !tt.check(ds[0].Values[0]) {
				t.Errorf("Unexpected device %+v", ds[0].Values[0])
			}
			if code, ok := ds[0].Values[1].StatusCode(); !ok || code != 10 {
				t.Errorf("Expected neighbour status 10, got %d (ok=%v)", code, ok)
			}
		})
	}
}

func TestDatasetEntry(t *testing.T) {
	ds, err := Decode(strings.NewReader(sampleDataset))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	tests := []struct {
		name    string
		index   int
		wantErr bool
	}{
		{"first entry", 0, false},
		{"last entry", 1, false},
		{"past the end", 2, true},
		{"default index on short dataset", DefaultIndex, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ds.Entry(tt.index)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Entry(%d) error = %v, wantErr %v", tt.index, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrEntryNotFound) {
				t.Errorf("Expected ErrEntryNotFound, got %v", err)
			}
			if !tt.wantErr && e == nil {
				t.Error("Expected non-nil entry")
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		status *float64
		want   int
		wantOK bool
	}{
		{"absent", nil, 0, false},
		{"known", Float(40), 40, true},
		{"unknown integer", Float(99), 99, true},
		{"fractional", Float(10.5), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Device{Status: tt.status}.StatusCode()
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("StatusCode() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miners.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e, err := NewFileSource(path, 1).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if e.Name != "Farm A" {
		t.Errorf("Expected 'Farm A', got %q", e.Name)
	}

	_, err = NewFileSource(path, DefaultIndex).Load(context.Background())
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound for index %d, got %v", DefaultIndex, err)
	}

	_, err = NewFileSource(filepath.Join(t.TempDir(), "missing.json"), 0).Load(context.Background())
	if err == nil {
		t.Error("Expected error for missing file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileSource(path, 1).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestStaticSource(t *testing.T) {
	if _, err := (StaticSource{}).Load(context.Background()); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound for empty source, got %v", err)
	}

	entry := &Entry{Name: "x"}
	got, err := StaticSource{Entry: entry}.Load(context.Background())
	if err != nil || got != entry {
		t.Errorf("Expected the same entry back, got %v, %v", got, err)
	}
}

func TestDeviceKey(t *testing.T) {
	if got := (Device{PDU: 3, Port: 12}).Key(); got != "3/12" {
		t.Errorf("Key() = %q, want %q", got, "3/12")
	}
}
