package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
	"marketpulse/models"
	"marketpulse/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new analysis-run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// Create inserts a run summary
func (r *runRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	query := `INSERT INTO analysis_runs (
		id, campaign_id, integration_id, registry_version,
		total_revenue_cents, total_conversions, conversion_value_cents,
		row_count, matched_rows, date_start, date_end,
		warning_count, error_count, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	var conversionValue interface{}
	if run.ConversionValue != nil {
		conversionValue = run.ConversionValue.Cents()
	}
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.CampaignID, run.IntegrationID, run.RegistryVersion,
		run.TotalRevenue.Cents(), run.TotalConversions, conversionValue,
		run.RowCount, run.MatchedRows, run.DateStart, run.DateEnd,
		run.WarningCount, run.ErrorCount, run.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}
	return nil
}

// ListByCampaign returns recent run summaries for a campaign
func (r *runRepository) ListByCampaign(ctx context.Context, id core.CampaignID, limit int) ([]models.AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, selectRun+` WHERE campaign_id = $1 ORDER BY created_at DESC LIMIT $2`, id, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	var out []models.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

// Latest returns the most recent run for a (campaign, integration) pair
func (r *runRepository) Latest(ctx context.Context, campaign core.CampaignID, integration core.IntegrationID) (*models.AnalysisRun, error) {
	row := r.db.QueryRowContext(ctx,
		selectRun+` WHERE campaign_id = $1 AND integration_id = $2 ORDER BY created_at DESC LIMIT 1`,
		campaign, integration)
	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("analysis run", campaign.String())
		}
		return nil, fmt.Errorf("failed to get latest analysis run: %w", err)
	}
	return run, nil
}

const selectRun = `SELECT id, campaign_id, integration_id, registry_version,
	total_revenue_cents, total_conversions, conversion_value_cents,
	row_count, matched_rows, date_start, date_end,
	warning_count, error_count, created_at
FROM analysis_runs`

func scanRun(row rowScanner) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	var revenueCents int64
	var conversionValue sql.NullInt64
	var dateStart, dateEnd, createdAt sql.NullTime

	err := row.Scan(&run.ID, &run.CampaignID, &run.IntegrationID, &run.RegistryVersion,
		&revenueCents, &run.TotalConversions, &conversionValue,
		&run.RowCount, &run.MatchedRows, &dateStart, &dateEnd,
		&run.WarningCount, &run.ErrorCount, &createdAt)
	if err != nil {
		return nil, err
	}
	run.TotalRevenue = table.Decimal(revenueCents)
	if conversionValue.Valid {
		cv := table.Decimal(conversionValue.Int64)
		run.ConversionValue = &cv
	}
	if dateStart.Valid {
		run.DateStart = &dateStart.Time
	}
	if dateEnd.Valid {
		run.DateEnd = &dateEnd.Time
	}
	if createdAt.Valid {
		run.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	return &run, nil
}
