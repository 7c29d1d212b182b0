package ports

import (
	"context"

	"marketpulse/domain/core"
	"marketpulse/models"
)

// RunRepository stores pipeline run summaries
type RunRepository interface {
	Create(ctx context.Context, r *models.AnalysisRun) error
	ListByCampaign(ctx context.Context, id core.CampaignID, limit int) ([]models.AnalysisRun, error)
	Latest(ctx context.Context, campaign core.CampaignID, integration core.IntegrationID) (*models.AnalysisRun, error)
}
