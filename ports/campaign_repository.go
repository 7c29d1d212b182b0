package ports

import (
	"context"

	"marketpulse/domain/core"
	"marketpulse/models"
)

// CampaignRepository stores campaign records
type CampaignRepository interface {
	Create(ctx context.Context, c *models.Campaign) error
	GetByID(ctx context.Context, id core.CampaignID) (*models.Campaign, error)
	List(ctx context.Context) ([]models.Campaign, error)
	Update(ctx context.Context, c *models.Campaign) error
	Delete(ctx context.Context, id core.CampaignID) error
}
