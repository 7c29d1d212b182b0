package app

import (
	"context"

	"marketpulse/domain/core"
	"marketpulse/domain/normalize"
	"marketpulse/internal"
	"marketpulse/models"
	"marketpulse/ports"
)

// IntegrationService owns platform connection records. Platform names are
// canonicalized on the way in so "FB Ads" and "facebook" land as the same
// source.
type IntegrationService struct {
	repo   ports.IntegrationRepository
	logger *internal.Logger
}

// NewIntegrationService creates an integration service
func NewIntegrationService(repo ports.IntegrationRepository, logger *internal.Logger) *IntegrationService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &IntegrationService{repo: repo, logger: logger}
}

// Create validates and stores a new integration
func (s *IntegrationService) Create(ctx context.Context, i *models.Integration) error {
	if i.Status == "" {
		i.Status = models.IntegrationDisconnected
	}
	i.Platform = normalize.PlatformName(i.Platform)
	if err := i.Validate(); err != nil {
		return err
	}
	i.ID = core.IntegrationID(core.NewID())
	now := core.Now()
	i.CreatedAt = now
	i.UpdatedAt = now

	if err := s.repo.Create(ctx, i); err != nil {
		return err
	}
	s.logger.Info("created integration %s (%s)", i.ID, i.Platform)
	return nil
}

// Get returns one integration by id
func (s *IntegrationService) Get(ctx context.Context, id core.IntegrationID) (*models.Integration, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all integrations
func (s *IntegrationService) List(ctx context.Context) ([]models.Integration, error) {
	return s.repo.List(ctx)
}

// Update validates and stores an existing integration
func (s *IntegrationService) Update(ctx context.Context, id core.IntegrationID, i *models.Integration) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	i.ID = existing.ID
	i.CreatedAt = existing.CreatedAt
	i.LastSync = existing.LastSync
	i.UpdatedAt = core.Now()
	i.Platform = normalize.PlatformName(i.Platform)
	if i.Status == "" {
		i.Status = existing.Status
	}
	if err := i.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, i)
}

// Delete removes an integration
func (s *IntegrationService) Delete(ctx context.Context, id core.IntegrationID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted integration %s", id)
	return nil
}
