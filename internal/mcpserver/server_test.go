package mcpserver

import (
	"context"
	"errors"
	"testing"

	"minerdash/internal/database/relational"
	"minerdash/internal/output"
	"minerdash/internal/snapshot"
)

// MockFleetStore implements FleetStore for testing
type MockFleetStore struct {
	Summaries    []relational.PDUSummary
	Breakdown    []relational.StatusCount
	ByStatus     map[int][]string
	SummaryErr   error
	BreakdownErr error
	ByStatusErr  error
}

func (m *MockFleetStore) PDUSummaries(ctx context.Context) ([]relational.PDUSummary, error) {
	if m.SummaryErr != nil {
		return nil, m.SummaryErr
	}
	return m.Summaries, nil
}

func (m *MockFleetStore) StatusBreakdown(ctx context.Context) ([]relational.StatusCount, error) {
	if m.BreakdownErr != nil {
		return nil, m.BreakdownErr
	}
	return m.Breakdown, nil
}

func (m *MockFleetStore) DevicesByStatus(ctx context.Context, code int) ([]string, error) {
	if m.ByStatusErr != nil {
		return nil, m.ByStatusErr
	}
	return m.ByStatus[code], nil
}

// MockAsker implements Asker for testing
type MockAsker struct {
	Answer   string
	Err      error
	Question string
}

func (m *MockAsker) Query(ctx context.Context, question string) (string, error) {
	m.Question = question
	return m.Answer, m.Err
}

func testPayload() *output.PipelinePayload {
	f := snapshot.Float
	return output.Bundle(&snapshot.Entry{
		Name: "Farm A",
		Values: []snapshot.Device{
			{PDU: 4, Port: 1, Status: f(10), Hashrate5s: f(95)},
			{PDU: 4, Port: 2},
			{PDU: 2, Port: 1, Status: f(60), Temperature: f(91)},
			{PDU: 2, Port: 2, Status: f(10), Power: f(3200)},
		},
	})
}

func TestHandleFleetOverview(t *testing.T) {
	s := &Server{payload: testPayload()}

	_, result, err := s.handleFleetOverview(context.Background(), nil, NoArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.Snapshot != "Farm A" {
		t.Errorf("Expected snapshot 'Farm A', got %s", result.Snapshot)
	}
	if result.PDUs != 2 || result.Devices != 4 || result.Eligible != 3 {
		t.Errorf("Unexpected counts: %+v", result)
	}
	if len(result.Histogram) != 6 {
		t.Fatalf("Expected 6 histogram buckets, got %d", len(result.Histogram))
	}
	if result.Histogram[0].Status != "OK" || result.Histogram[0].Count != 2 {
		t.Errorf("Expected OK bucket with 2, got %+v", result.Histogram[0])
	}
}

func TestHandleHistogram(t *testing.T) {
	s := &Server{payload: testPayload()}

	_, result, err := s.handleHistogram(context.Background(), nil, NoArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	wantCodes := []int{10, 20, 30, 40, 50, 60}
	for i, b := range result.Histogram {
		if b.Code != wantCodes[i] {
			t.Errorf("bucket %d: expected code %d, got %d", i, wantCodes[i], b.Code)
		}
	}
	last := result.Histogram[5]
	if last.Status != "Critical state" || last.Color != "#EF1818" || last.Count != 1 {
		t.Errorf("Unexpected critical bucket: %+v", last)
	}
}

func TestHandlePDUGroups(t *testing.T) {
	s := &Server{payload: testPayload()}
	ctx := context.Background()

	_, result, err := s.handlePDUGroups(ctx, nil, PDUGroupsArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(result.Groups))
	}
	if result.Groups[0].PDU != 4 || result.Groups[1].PDU != 2 {
		t.Errorf("Expected first-seen order [4 2], got [%d %d]", result.Groups[0].PDU, result.Groups[1].PDU)
	}
	if result.Groups[0].Devices != 2 || len(result.Groups[0].Ports) != 1 {
		t.Errorf("Expected PDU 4 to hold 2 devices with 1 drawn port, got %+v", result.Groups[0])
	}

	pdu := 2
	_, result, err = s.handlePDUGroups(ctx, nil, PDUGroupsArgs{PDU: &pdu})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Groups) != 1 || result.Groups[0].Ports[0].Status != "Critical state" {
		t.Errorf("Unexpected filtered result: %+v", result.Groups)
	}

	missing := 7
	if _, _, err := s.handlePDUGroups(ctx, nil, PDUGroupsArgs{PDU: &missing}); err == nil {
		t.Error("Expected error for unknown PDU")
	}
}

func TestHandleMiner(t *testing.T) {
	s := &Server{payload: testPayload()}
	ctx := context.Background()

	_, result, err := s.handleMiner(ctx, nil, MinerArgs{PDU: 2, Port: 2})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.Eligible {
		t.Error("Expected miner to be eligible")
	}
	fields := make(map[string]string)
	for _, f := range result.Fields {
		fields[f.Label] = f.Value
	}
	if fields["Status"] != "OK" || fields["Power"] != "3,200 W" || fields["Temperature"] != output.NoData {
		t.Errorf("Unexpected fields: %v", fields)
	}

	_, result, err = s.handleMiner(ctx, nil, MinerArgs{PDU: 4, Port: 2})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Eligible {
		t.Error("Expected miner without telemetry to be ineligible")
	}

	tests := []MinerArgs{{PDU: 9, Port: 1}, {PDU: 4, Port: 9}}
	for _, args := range tests {
		if _, _, err := s.handleMiner(ctx, nil, args); err == nil {
			t.Errorf("Expected error for %+v", args)
		}
	}
}

func TestHandlePDUSummary(t *testing.T) {
	store := &MockFleetStore{
		Summaries: []relational.PDUSummary{{PDU: 2, Devices: 2, Eligible: 2}},
		Breakdown: []relational.StatusCount{{PDU: 2, Code: 10, Status: "OK", Count: 1}},
	}
	s := &Server{payload: testPayload(), store: store}

	_, result, err := s.handlePDUSummary(context.Background(), nil, NoArgs{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.PDUs) != 1 || len(result.Status) != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestHandlePDUSummary_Error(t *testing.T) {
	tests := []struct {
		name  string
		store *MockFleetStore
	}{
		{"summaries", &MockFleetStore{SummaryErr: errors.New("db closed")}},
		{"breakdown", &MockFleetStore{BreakdownErr: errors.New("db closed")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Server{payload: testPayload(), store: tt.store}
			if _, _, err := s.handlePDUSummary(context.Background(), nil, NoArgs{}); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestHandleDevicesByStatus(t *testing.T) {
	store := &MockFleetStore{ByStatus: map[int][]string{10: {"4/1", "2/2"}}}
	s := &Server{payload: testPayload(), store: store}
	ctx := context.Background()

	_, result, err := s.handleDevicesByStatus(ctx, nil, DevicesByStatusArgs{Code: 10})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Status != "OK" || len(result.Devices) != 2 || result.Devices[0] != "4/1" {
		t.Errorf("Unexpected result: %+v", result)
	}

	_, result, err = s.handleDevicesByStatus(ctx, nil, DevicesByStatusArgs{Code: 50})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Status != "Major issue" || result.Devices == nil || len(result.Devices) != 0 {
		t.Errorf("Expected an empty list for a category nobody reports, got %+v", result)
	}

	if _, _, err := s.handleDevicesByStatus(ctx, nil, DevicesByStatusArgs{Code: 99}); err == nil {
		t.Error("Expected error for a code outside the status table")
	}

	store.ByStatusErr = errors.New("db closed")
	if _, _, err := s.handleDevicesByStatus(ctx, nil, DevicesByStatusArgs{Code: 10}); err == nil {
		t.Error("Expected error when the store fails")
	}
}

func TestHandleAsk(t *testing.T) {
	asker := &MockAsker{Answer: "PDU 2 port 1 is critical."}
	s := &Server{payload: testPayload(), asker: asker}
	ctx := context.Background()

	_, result, err := s.handleAsk(ctx, nil, AskArgs{Question: "Anything critical?"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Answer != asker.Answer {
		t.Errorf("Expected %q, got %q", asker.Answer, result.Answer)
	}
	if asker.Question != "Anything critical?" {
		t.Errorf("Expected question to be forwarded, got %q", asker.Question)
	}

	if _, _, err := s.handleAsk(ctx, nil, AskArgs{}); err == nil {
		t.Error("Expected error for empty question")
	}

	asker.Err = errors.New("quota exceeded")
	if _, _, err := s.handleAsk(ctx, nil, AskArgs{Question: "q"}); err == nil {
		t.Error("Expected error when asker fails")
	}
}

func TestNewServer(t *testing.T) {
	cfg := Config{ServerName: "minerdash", ServerVersion: "1.0.0"}

	s := NewServer(cfg, testPayload(), nil, nil)
	if s.mcpServer == nil {
		t.Fatal("Expected MCP server to be created")
	}
	if s.store != nil || s.asker != nil {
		t.Error("Expected optional dependencies to stay nil")
	}

	s = NewServer(cfg, testPayload(), &MockFleetStore{}, &MockAsker{})
	if s.store == nil || s.asker == nil {
		t.Error("Expected optional dependencies to be set")
	}
}
