package app

import (
	"context"

	"marketpulse/domain/core"
	"marketpulse/internal"
	"marketpulse/models"
	"marketpulse/ports"
)

// CampaignService owns campaign lifecycle: validation, identity and
// timestamps live here so adapters stay dumb.
type CampaignService struct {
	repo   ports.CampaignRepository
	logger *internal.Logger
}

// NewCampaignService creates a campaign service
func NewCampaignService(repo ports.CampaignRepository, logger *internal.Logger) *CampaignService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &CampaignService{repo: repo, logger: logger}
}

// Create validates and stores a new campaign
func (s *CampaignService) Create(ctx context.Context, c *models.Campaign) error {
	if c.Status == "" {
		c.Status = CampaignDefaultStatus
	}
	if err := c.Validate(); err != nil {
		return err
	}
	c.ID = core.CampaignID(core.NewID())
	now := core.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	s.logger.Info("created campaign %s (%s)", c.ID, c.Name)
	return nil
}

// Get returns one campaign by id
func (s *CampaignService) Get(ctx context.Context, id core.CampaignID) (*models.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all campaigns
func (s *CampaignService) List(ctx context.Context) ([]models.Campaign, error) {
	return s.repo.List(ctx)
}

// Update validates and stores an existing campaign. The id and creation
// time of the stored record win over whatever the caller sent.
func (s *CampaignService) Update(ctx context.Context, id core.CampaignID, c *models.Campaign) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = core.Now()
	if c.Status == "" {
		c.Status = existing.Status
	}
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes a campaign and, through the schema, its run history
func (s *CampaignService) Delete(ctx context.Context, id core.CampaignID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted campaign %s", id)
	return nil
}

// CampaignDefaultStatus is applied when a create request omits status
const CampaignDefaultStatus = models.CampaignDraft
