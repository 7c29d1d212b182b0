package app

import (
	"fmt"

	"marketpulse/domain/aggregate"
	"marketpulse/domain/enrich"
	"marketpulse/domain/fields"
	"marketpulse/domain/mapping"
	"marketpulse/domain/normalize"
	"marketpulse/domain/report"
	"marketpulse/domain/schema"
	"marketpulse/domain/selector"
	"marketpulse/domain/table"
)

// AnalysisResult is everything one pipeline run returns to its caller:
// the mappings for UI confirmation, the selected canonical rows, the
// aggregation, and the full diagnostic report.
type AnalysisResult struct {
	RegistryVersion string                   `json:"registry_version"`
	Profile         schema.Result            `json:"profile"`
	Mappings        []fields.Mapping         `json:"mappings"`
	Suggestions     []fields.Mapping         `json:"suggestions,omitempty"`
	Rows            []normalize.CanonicalRow `json:"rows"`
	Filter          selector.FilterReport    `json:"filter"`
	Aggregation     aggregate.Result         `json:"aggregation"`
	Report          report.Report            `json:"report"`
}

// PipelineService runs the conversion-value pipeline: profile, match,
// normalize, enrich, select, aggregate. Each invocation is a pure
// computation over its immutable inputs; concurrent runs for different
// campaigns need no coordination.
type PipelineService struct {
	registry fields.Registry
	cfg      schema.Config
}

// NewPipelineService creates a pipeline service over a compiled field
// registry.
func NewPipelineService(registry fields.Registry, cfg schema.Config) (*PipelineService, error) {
	if len(registry.Specs) == 0 {
		return nil, fmt.Errorf("pipeline service requires a non-empty field registry")
	}
	return &PipelineService{registry: registry, cfg: cfg}, nil
}

// Analyze runs the full pipeline. It never panics past its boundary and
// never returns an error: any failure, including a totally unusable
// dataset, comes back as diagnostics on the result.
func (s *PipelineService) Analyze(t table.RawTable, ctx table.CampaignContext) (result AnalysisResult) {
	result.RegistryVersion = s.registry.Version

	defer func() {
		if r := recover(); r != nil {
			result.Report.Fail(report.EmptyDataset, "", "pipeline aborted internally: %v", r)
		}
	}()

	if err := ctx.Validate(); err != nil {
		result.Report.Fail(report.NoMatchingRows, string(fields.CampaignName),
			"campaign context is unusable: %v", err)
		return result
	}
	if err := t.Validate(); err != nil {
		result.Report.Fail(report.EmptyDataset, "", "dataset is unusable: %v", err)
		return result
	}

	// 1. Schema profiling
	result.Profile = schema.Profile(t, s.cfg)

	// 2. Field matching
	match := mapping.Match(result.Profile, s.registry, ctx)
	result.Mappings = match.Mappings
	result.Suggestions = match.Suggestions
	result.Report.Merge(match.Report)

	// 3. Value normalization
	rows, normReport := normalize.BuildRows(t, s.registry, match.Mappings)
	result.Report.Merge(normReport)

	// 4. Context enrichment
	set := fields.NewMappingSet(match.Mappings)
	enriched, enrichReport := enrich.Apply(rows, set, result.Profile, t, ctx)
	result.Report.Merge(enrichReport)

	// 5. Row selection
	selected, filter, selectReport := selector.Select(enriched, t, match, result.Profile, ctx)
	result.Rows = selected
	result.Filter = filter
	result.Report.Merge(selectReport)

	// 6. Aggregation
	result.Aggregation = aggregate.Compute(selected, ctx)

	return result
}

// Registry exposes the registry version for callers that persist results
func (s *PipelineService) Registry() fields.Registry { return s.registry }
