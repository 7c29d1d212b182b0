package ports

import (
	"context"

	"marketpulse/domain/core"
	"marketpulse/models"
)

// IntegrationRepository stores platform connection records
type IntegrationRepository interface {
	Create(ctx context.Context, i *models.Integration) error
	GetByID(ctx context.Context, id core.IntegrationID) (*models.Integration, error)
	List(ctx context.Context) ([]models.Integration, error)
	ListConnected(ctx context.Context) ([]models.Integration, error)
	Update(ctx context.Context, i *models.Integration) error
	Delete(ctx context.Context, id core.IntegrationID) error
}
