// Package rag answers free-form questions about the fleet using Gemini, grounded in the
// projected snapshot and the fleet store aggregates.
package rag

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"

	"minerdash/internal/database/relational"
	"minerdash/internal/output"
	"minerdash/internal/projector"
)

// ModelConfig defines configuration for a Gemini model.
type ModelConfig struct {
	Name        string
	Temperature float32
	TopP        float32
	TopK        int32
}

// AvailableModels defines the available Gemini models and their configurations.
var AvailableModels = map[string]ModelConfig{
	"flash": {
		Name:        "gemini-flash-latest",
		Temperature: 0.3,
		TopP:        0.95,
		TopK:        40,
	},
	"pro": {
		Name:        "gemini-pro-latest",
		Temperature: 0.3,
		TopP:        0.95,
		TopK:        40,
	},
	"flash-2": {
		Name:        "gemini-2.0-flash",
		Temperature: 0.3,
		TopP:        0.95,
		TopK:        40,
	},
}

const defaultModelKey = "flash"

// Generator is the slice of the Gemini API the engine needs.
type Generator interface {
	Generate(ctx context.Context, cfg ModelConfig, prompt string) (string, error)
}

// FleetStore is the slice of the fleet repo the engine reads.
type FleetStore interface {
	PDUSummaries(ctx context.Context) ([]relational.PDUSummary, error)
}

// Engine answers questions about one loaded snapshot.
type Engine struct {
	gen     Generator
	store   FleetStore
	payload *output.PipelinePayload
	config  ModelConfig
}

// NewEngine builds an engine. Unknown model keys fall back to flash.
func NewEngine(gen Generator, store FleetStore, payload *output.PipelinePayload, modelKey string) *Engine {
	cfg, ok := AvailableModels[modelKey]
	if !ok {
		cfg = AvailableModels[defaultModelKey]
	}
	return &Engine{
		gen:     gen,
		store:   store,
		payload: payload,
		config:  cfg,
	}
}

// Model returns the resolved Gemini model name.
func (e *Engine) Model() string {
	return e.config.Name
}

// FleetContext is the JSON document handed to the model.
type FleetContext struct {
	Snapshot  string                  `json:"snapshot"`
	Devices   int                     `json:"devices"`
	Eligible  int                     `json:"eligible_devices"`
	Histogram map[string]int          `json:"status_histogram"`
	PDUs      []relational.PDUSummary `json:"pdus,omitempty"`
	Attention []AttentionItem         `json:"needs_attention"`
}

// AttentionItem is a miner reporting anything other than OK.
type AttentionItem struct {
	PDU    int    `json:"pdu"`
	Port   int    `json:"port"`
	Status string `json:"status"`
}

// BuildContext assembles the grounding document for a question.
func (e *Engine) BuildContext(ctx context.Context) (FleetContext, error) {
	view := e.payload.View
	fc := FleetContext{
		Snapshot:  view.Title,
		Devices:   view.Devices,
		Eligible:  view.Eligible,
		Histogram: make(map[string]int, len(view.Histogram)),
	}
	for _, b := range view.Histogram {
		fc.Histogram[b.Category.Label] = b.Count
	}

	for _, p := range view.Ports() {
		if p.Status == "OK" {
			continue
		}
		fc.Attention = append(fc.Attention, AttentionItem{PDU: p.Device.PDU, Port: p.Port, Status: p.Status})
	}

	if e.store != nil {
		sums, err := e.store.PDUSummaries(ctx)
		if err != nil {
			return FleetContext{}, fmt.Errorf("pdu summaries: %w", err)
		}
		fc.PDUs = sums
	}
	return fc, nil
}

// Query answers question from the snapshot context.
func (e *Engine) Query(ctx context.Context, question string) (string, error) {
	fc, err := e.BuildContext(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`You are a mining farm operations expert. Answer the question using only the snapshot data below.

Question: %s

Snapshot Data:
%s

Status codes map to categories in increasing severity: %s.
Devices with "%s" reported an unrecognized or missing code.

Answer concisely. Name PDU and port numbers when pointing at specific miners.
If the data is insufficient, say so clearly.`, question, string(data), categoryList(), projector.NoStatusLabel)

	answer, err := e.gen.Generate(ctx, e.config, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	if answer == "" {
		return "Unable to generate response from the available data.", nil
	}
	return answer, nil
}

func categoryList() string {
	s := ""
	for i, c := range projector.Categories() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d=%s", c.Code, c.Label)
	}
	return s
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(client *genai.Client) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, cfg ModelConfig, prompt string) (string, error) {
	model := g.client.GenerativeModel(cfg.Name)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	model.SetTopK(cfg.TopK)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
