package models

import (
	"strings"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
)

// CampaignStatus enumerates campaign lifecycle states
type CampaignStatus string

const (
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignDraft     CampaignStatus = "draft"
)

// Campaign is a stored marketing campaign record
type Campaign struct {
	ID          core.CampaignID `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Type        string          `json:"type" db:"type"`
	Platform    string          `json:"platform" db:"platform"`
	Impressions int64           `json:"impressions" db:"impressions"`
	Clicks      int64           `json:"clicks" db:"clicks"`
	Spend       table.Decimal   `json:"spend" db:"spend_cents"`
	Status      CampaignStatus  `json:"status" db:"status"`
	CreatedAt   core.Timestamp  `json:"created_at" db:"created_at"`
	UpdatedAt   core.Timestamp  `json:"updated_at" db:"updated_at"`
}

// Validate checks the record is storable
func (c Campaign) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return core.NewValidationError("name", "must not be empty")
	}
	if len(c.Name) > 200 {
		return core.NewValidationError("name", "must be at most 200 characters")
	}
	if strings.TrimSpace(c.Platform) == "" {
		return core.NewValidationError("platform", "must not be empty")
	}
	switch c.Status {
	case CampaignActive, CampaignPaused, CampaignCompleted, CampaignDraft:
	default:
		return core.NewValidationError("status", "unknown status "+string(c.Status))
	}
	if c.Impressions < 0 || c.Clicks < 0 {
		return core.NewValidationError("counters", "must be non-negative")
	}
	return nil
}

// Context builds the campaign context the pipeline consumes. The external
// conversion count, when known, is attached by the caller from the
// platform integration.
func (c Campaign) Context(externalConversions *int64) table.CampaignContext {
	return table.CampaignContext{
		Name:                    c.Name,
		Platform:                c.Platform,
		ExternalConversionCount: externalConversions,
	}
}
