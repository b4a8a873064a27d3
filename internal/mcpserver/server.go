package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/common/log"

	"minerdash/internal/database/relational"
	"minerdash/internal/output"
	"minerdash/internal/projector"
)

// Asker answers free-form questions about the fleet.
type Asker interface {
	Query(ctx context.Context, question string) (string, error)
}

// FleetStore is the part of the fleet repo the tools read.
type FleetStore interface {
	PDUSummaries(ctx context.Context) ([]relational.PDUSummary, error)
	StatusBreakdown(ctx context.Context) ([]relational.StatusCount, error)
	DevicesByStatus(ctx context.Context, code int) ([]string, error)
}

// Server wraps the MCP server with minerdash capabilities.
type Server struct {
	mcpServer *mcp.Server
	payload   *output.PipelinePayload
	store     FleetStore
	asker     Asker
}

// Config holds configuration for the MCP server.
type Config struct {
	ServerName    string
	ServerVersion string
}

// NewServer creates a new MCP server instance. asker may be nil, which leaves out the ask tool.
func NewServer(cfg Config, payload *output.PipelinePayload, store FleetStore, asker Asker) *Server {
	impl := &mcp.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}

	s := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		payload:   payload,
		store:     store,
		asker:     asker,
	}
	s.registerTools()
	return s
}

// NoArgs is the input of tools that take none.
type NoArgs struct{}

// FleetOverviewResult summarizes the loaded snapshot.
type FleetOverviewResult struct {
	Snapshot  string            `json:"snapshot" jsonschema:"snapshot display name"`
	PDUs      int               `json:"pdus" jsonschema:"number of PDUs"`
	Devices   int               `json:"devices" jsonschema:"devices in the snapshot"`
	Eligible  int               `json:"eligible_devices" jsonschema:"devices with any telemetry"`
	Histogram []HistogramBucket `json:"histogram" jsonschema:"device count per status category"`
}

// HistogramBucket is one status category count.
type HistogramBucket struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
	Color  string `json:"color"`
	Count  int    `json:"count"`
}

// HistogramResult wraps the status histogram.
type HistogramResult struct {
	Histogram []HistogramBucket `json:"histogram" jsonschema:"device count per status category, fixed order"`
}

// PDUGroupsArgs filters get_pdu_groups.
type PDUGroupsArgs struct {
	PDU *int `json:"pdu,omitempty" jsonschema:"only return this PDU"`
}

// PortInfo is one drawn swatch.
type PortInfo struct {
	Port   int    `json:"port"`
	Status string `json:"status"`
	Color  string `json:"color"`
}

// PDUGroup lists the eligible ports on a PDU.
type PDUGroup struct {
	PDU     int        `json:"pdu"`
	Devices int        `json:"devices" jsonschema:"all devices, including ones without telemetry"`
	Ports   []PortInfo `json:"ports"`
}

// PDUGroupsResult wraps the PDU groups.
type PDUGroupsResult struct {
	Groups []PDUGroup `json:"groups"`
}

// MinerArgs identifies a miner.
type MinerArgs struct {
	PDU  int `json:"pdu" jsonschema:"PDU number"`
	Port int `json:"port" jsonschema:"port number on the PDU"`
}

// MinerResult is the detail popup content.
type MinerResult struct {
	PDU      int            `json:"pdu"`
	Port     int            `json:"port"`
	Eligible bool           `json:"eligible" jsonschema:"whether the miner is drawn on the grid"`
	Fields   []output.Field `json:"fields"`
}

// PDUSummaryResult wraps the fleet store aggregates.
type PDUSummaryResult struct {
	PDUs   []relational.PDUSummary  `json:"pdus"`
	Status []relational.StatusCount `json:"status_breakdown"`
}

// DevicesByStatusArgs selects a status category by code.
type DevicesByStatusArgs struct {
	Code int `json:"code" jsonschema:"status code: 10, 20, 30, 40, 50 or 60"`
}

// DevicesByStatusResult lists the miners reporting one status.
type DevicesByStatusResult struct {
	Code    int      `json:"code"`
	Status  string   `json:"status"`
	Devices []string `json:"devices" jsonschema:"PDU/port keys in snapshot order"`
}

// AskArgs defines the input for ask_minerdash.
type AskArgs struct {
	Question string `json:"question" jsonschema:"the question to ask about the mining fleet"`
}

// AskResult defines the output for ask_minerdash.
type AskResult struct {
	Answer string `json:"answer" jsonschema:"AI-generated answer"`
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_fleet_overview",
		Description: "Summary of the loaded miner snapshot: name, PDU and device counts, and the status histogram.",
	}, s.handleFleetOverview)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_pdu_groups",
		Description: "Miners grouped by PDU in snapshot order. Only miners with telemetry are listed as ports. Optionally filter to one PDU.",
	}, s.handlePDUGroups)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_miner",
		Description: "Detail view of one miner by PDU and port: hashrate, frequency, status, temperature and power. Missing values read 'no data'.",
	}, s.handleMiner)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_status_histogram",
		Description: "Device count per status category (OK, Hashrate loss, Warning, Minor issue, Major issue, Critical state). Miners without a known status are not counted.",
	}, s.handleHistogram)

	if s.store != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "get_pdu_summary",
			Description: "Per-PDU aggregates: device counts, summed average hashrate and power, max temperature, and status counts per PDU.",
		}, s.handlePDUSummary)

		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "get_devices_by_status",
			Description: "Miners reporting one status code, as PDU/port keys in snapshot order. Use it to find which miners are critical or losing hashrate.",
		}, s.handleDevicesByStatus)
	}

	if s.asker != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "ask_minerdash",
			Description: "Ask a free-form question about the mining fleet. Answers are grounded in the loaded snapshot.",
		}, s.handleAsk)
	}
}

func (s *Server) handleFleetOverview(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, FleetOverviewResult, error) {
	view := s.payload.View
	return nil, FleetOverviewResult{
		Snapshot:  view.Title,
		PDUs:      len(view.Sections),
		Devices:   view.Devices,
		Eligible:  view.Eligible,
		Histogram: toBuckets(view.Histogram),
	}, nil
}

func (s *Server) handleHistogram(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, HistogramResult, error) {
	return nil, HistogramResult{Histogram: toBuckets(s.payload.Projection.Histogram)}, nil
}

func (s *Server) handlePDUGroups(ctx context.Context, _ *mcp.CallToolRequest, args PDUGroupsArgs) (*mcp.CallToolResult, PDUGroupsResult, error) {
	var res PDUGroupsResult
	for _, sec := range s.payload.View.Sections {
		if args.PDU != nil && *args.PDU != sec.PDU {
			continue
		}
		devs, _ := s.payload.Projection.Groups.Get(sec.PDU)
		grp := PDUGroup{PDU: sec.PDU, Devices: len(devs), Ports: []PortInfo{}}
		for _, p := range sec.Ports {
			grp.Ports = append(grp.Ports, PortInfo{Port: p.Port, Status: p.Status, Color: p.Color})
		}
		res.Groups = append(res.Groups, grp)
	}
	if args.PDU != nil && len(res.Groups) == 0 {
		return nil, PDUGroupsResult{}, fmt.Errorf("no PDU %d in snapshot", *args.PDU)
	}
	return nil, res, nil
}

func (s *Server) handleMiner(ctx context.Context, _ *mcp.CallToolRequest, args MinerArgs) (*mcp.CallToolResult, MinerResult, error) {
	devs, ok := s.payload.Projection.Groups.Get(args.PDU)
	if !ok {
		return nil, MinerResult{}, fmt.Errorf("no PDU %d in snapshot", args.PDU)
	}
	for i := range devs {
		if devs[i].Port != args.Port {
			continue
		}
		d := devs[i]
		return nil, MinerResult{
			PDU:      d.PDU,
			Port:     d.Port,
			Eligible: projector.IsDisplayEligible(d),
			Fields:   output.DetailFields(&d),
		}, nil
	}
	return nil, MinerResult{}, fmt.Errorf("no miner on PDU %d port %d", args.PDU, args.Port)
}

func (s *Server) handlePDUSummary(ctx context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, PDUSummaryResult, error) {
	sums, err := s.store.PDUSummaries(ctx)
	if err != nil {
		return nil, PDUSummaryResult{}, fmt.Errorf("failed to query pdu summaries: %w", err)
	}
	breakdown, err := s.store.StatusBreakdown(ctx)
	if err != nil {
		return nil, PDUSummaryResult{}, fmt.Errorf("failed to query status breakdown: %w", err)
	}
	return nil, PDUSummaryResult{PDUs: sums, Status: breakdown}, nil
}

func (s *Server) handleDevicesByStatus(ctx context.Context, _ *mcp.CallToolRequest, args DevicesByStatusArgs) (*mcp.CallToolResult, DevicesByStatusResult, error) {
	code := args.Code
	cat, ok := projector.LookupStatus(&code)
	if !ok {
		return nil, DevicesByStatusResult{}, fmt.Errorf("unknown status code %d", code)
	}
	keys, err := s.store.DevicesByStatus(ctx, code)
	if err != nil {
		return nil, DevicesByStatusResult{}, fmt.Errorf("failed to query devices by status: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return nil, DevicesByStatusResult{Code: cat.Code, Status: cat.Label, Devices: keys}, nil
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, args AskArgs) (*mcp.CallToolResult, AskResult, error) {
	if args.Question == "" {
		return nil, AskResult{}, fmt.Errorf("question is required")
	}
	answer, err := s.asker.Query(ctx, args.Question)
	if err != nil {
		return nil, AskResult{}, fmt.Errorf("ask failed: %w", err)
	}
	return nil, AskResult{Answer: answer}, nil
}

func toBuckets(h projector.Histogram) []HistogramBucket {
	out := make([]HistogramBucket, len(h))
	for i, b := range h {
		out[i] = HistogramBucket{
			Code:   b.Category.Code,
			Status: b.Category.Label,
			Color:  b.Category.Color,
			Count:  b.Count,
		}
	}
	return out
}

// Start starts the MCP server using stdio transport.
func (s *Server) Start(ctx context.Context) error {
	log.Infoln("Starting minerdash MCP server on stdio, snapshot:", s.payload.View.Title)
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}
