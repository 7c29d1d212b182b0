package models

import (
	"time"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
)

// AnalysisRun is the persisted summary of one pipeline invocation for one
// campaign and data source. The full row set is request-scoped and never
// stored; only the aggregates and diagnostics counts survive the run.
type AnalysisRun struct {
	ID               core.RunID         `json:"id" db:"id"`
	CampaignID       core.CampaignID    `json:"campaign_id" db:"campaign_id"`
	IntegrationID    core.IntegrationID `json:"integration_id" db:"integration_id"`
	RegistryVersion  string             `json:"registry_version" db:"registry_version"`
	TotalRevenue     table.Decimal      `json:"total_revenue" db:"total_revenue_cents"`
	TotalConversions int64              `json:"total_conversions" db:"total_conversions"`
	ConversionValue  *table.Decimal     `json:"conversion_value,omitempty" db:"conversion_value_cents"`
	RowCount         int                `json:"row_count" db:"row_count"`
	MatchedRows      int                `json:"matched_rows" db:"matched_rows"`
	DateStart        *time.Time         `json:"date_start,omitempty" db:"date_start"`
	DateEnd          *time.Time         `json:"date_end,omitempty" db:"date_end"`
	WarningCount     int                `json:"warning_count" db:"warning_count"`
	ErrorCount       int                `json:"error_count" db:"error_count"`
	CreatedAt        core.Timestamp     `json:"created_at" db:"created_at"`
}
