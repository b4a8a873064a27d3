package output

import (
	"context"
	"fmt"

	"minerdash/internal/projector"
	"minerdash/internal/snapshot"
)

// PipelinePayload is one loaded entry with everything derived from it.
type PipelinePayload struct {
	Entry      *snapshot.Entry
	Projection projector.Projection
	View       DashboardView
}

// RunPipeline executes the full data pipeline: Load -> Project -> Bundle.
func RunPipeline(ctx context.Context, src snapshot.Source) (*PipelinePayload, error) {
	// 1. Load the selected entry
	entry, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	// 2. Bundle
	return Bundle(entry), nil
}

// Bundle projects an already loaded entry.
func Bundle(entry *snapshot.Entry) *PipelinePayload {
	proj := projector.Project(entry)
	return &PipelinePayload{
		Entry:      entry,
		Projection: proj,
		View:       BuildDashboard(proj),
	}
}
