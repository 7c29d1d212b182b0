package app

import (
	"context"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
	"marketpulse/internal"
	apperrors "marketpulse/internal/errors"
	"marketpulse/models"
	"marketpulse/ports"
)

// AnalysisService orchestrates pipeline runs against stored campaigns:
// it fetches the raw table from the integration's source, runs the
// pipeline, and persists a run summary. All I/O happens here, before and
// after the pure pipeline computation.
type AnalysisService struct {
	campaigns    ports.CampaignRepository
	integrations ports.IntegrationRepository
	runs         ports.RunRepository
	source       ports.TableSource
	pipeline     *PipelineService
	logger       *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(
	campaigns ports.CampaignRepository,
	integrations ports.IntegrationRepository,
	runs ports.RunRepository,
	source ports.TableSource,
	pipeline *PipelineService,
	logger *internal.Logger,
) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		campaigns:    campaigns,
		integrations: integrations,
		runs:         runs,
		source:       source,
		pipeline:     pipeline,
		logger:       logger,
	}
}

// AnalyzeStored fetches the integration's current table, runs the
// pipeline for the campaign and persists the run summary. The external
// conversion count, when the caller has one from the platform, takes
// priority over any conversions column in the dataset.
func (s *AnalysisService) AnalyzeStored(
	ctx context.Context,
	campaignID core.CampaignID,
	integrationID core.IntegrationID,
	externalConversions *int64,
) (AnalysisResult, *models.AnalysisRun, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return AnalysisResult{}, nil, err
	}

	integration, err := s.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return AnalysisResult{}, nil, err
	}
	if integration.Status != models.IntegrationConnected {
		return AnalysisResult{}, nil, apperrors.ValidationError(
			"integration " + integrationID.String() + " is not connected")
	}

	raw, err := s.source.Fetch(ctx, integrationID)
	if err != nil {
		return AnalysisResult{}, nil, apperrors.SourceError(integration.Platform, err)
	}

	result := s.pipeline.Analyze(raw, campaign.Context(externalConversions))

	run := s.buildRun(campaignID, integrationID, result)
	if err := s.runs.Create(ctx, run); err != nil {
		// The analysis itself succeeded; surface it even when the
		// summary cannot be stored.
		s.logger.Error("failed to persist analysis run for campaign %s: %v", campaignID, err)
		return result, nil, nil
	}

	now := core.Now()
	integration.LastSync = &now
	if err := s.integrations.Update(ctx, integration); err != nil {
		s.logger.Warn("failed to update last sync for integration %s: %v", integrationID, err)
	}

	s.logger.Info("analysis run %s: campaign=%s rows=%d/%d revenue=%s warnings=%d errors=%d",
		run.ID, campaignID, run.MatchedRows, run.RowCount, run.TotalRevenue,
		run.WarningCount, run.ErrorCount)

	return result, run, nil
}

// AnalyzeTable runs the pipeline over a caller-supplied table for a
// stored campaign without touching any integration. Used for ad-hoc file
// uploads; nothing is persisted.
func (s *AnalysisService) AnalyzeTable(
	ctx context.Context,
	campaignID core.CampaignID,
	t table.RawTable,
	externalConversions *int64,
) (AnalysisResult, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return AnalysisResult{}, err
	}
	return s.pipeline.Analyze(t, campaign.Context(externalConversions)), nil
}

// History returns recent persisted runs for a campaign
func (s *AnalysisService) History(ctx context.Context, campaignID core.CampaignID, limit int) ([]models.AnalysisRun, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.runs.ListByCampaign(ctx, campaignID, limit)
}

func (s *AnalysisService) buildRun(
	campaignID core.CampaignID,
	integrationID core.IntegrationID,
	result AnalysisResult,
) *models.AnalysisRun {
	agg := result.Aggregation
	return &models.AnalysisRun{
		ID:               core.RunID(core.NewID()),
		CampaignID:       campaignID,
		IntegrationID:    integrationID,
		RegistryVersion:  result.RegistryVersion,
		TotalRevenue:     agg.TotalRevenue,
		TotalConversions: agg.TotalConversions,
		ConversionValue:  agg.ConversionValue,
		RowCount:         result.Filter.TotalRows,
		MatchedRows:      result.Filter.MatchedRows,
		DateStart:        agg.DateRange.Start,
		DateEnd:          agg.DateRange.End,
		WarningCount:     len(result.Report.Warnings),
		ErrorCount:       len(result.Report.Errors),
		CreatedAt:        core.Now(),
	}
}
