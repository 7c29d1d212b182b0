package models

import (
	"strings"

	"marketpulse/domain/core"
)

// IntegrationStatus enumerates platform connection states
type IntegrationStatus string

const (
	IntegrationConnected    IntegrationStatus = "connected"
	IntegrationDisconnected IntegrationStatus = "disconnected"
	IntegrationError        IntegrationStatus = "error"
)

// Integration is a stored platform data-source connection. Credentials are
// opaque here; token refresh belongs to the service that owns the
// integration.
type Integration struct {
	ID        core.IntegrationID `json:"id" db:"id"`
	Platform  string             `json:"platform" db:"platform"`
	Status    IntegrationStatus  `json:"status" db:"status"`
	APIKey    string             `json:"api_key,omitempty" db:"api_key"`
	AccountID string             `json:"account_id,omitempty" db:"account_id"`
	LastSync  *core.Timestamp    `json:"last_sync,omitempty" db:"last_sync"`
	CreatedAt core.Timestamp     `json:"created_at" db:"created_at"`
	UpdatedAt core.Timestamp     `json:"updated_at" db:"updated_at"`
}

// Validate checks the record is storable
func (i Integration) Validate() error {
	if strings.TrimSpace(i.Platform) == "" {
		return core.NewValidationError("platform", "must not be empty")
	}
	switch i.Status {
	case IntegrationConnected, IntegrationDisconnected, IntegrationError:
	default:
		return core.NewValidationError("status", "unknown status "+string(i.Status))
	}
	return nil
}

// SourceKey identifies this integration as a data source for refresh
// scheduling.
func (i Integration) SourceKey() core.SourceKey {
	return core.SourceKey(i.ID)
}
