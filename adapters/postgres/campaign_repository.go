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

// campaignRepository implements the CampaignRepository interface
type campaignRepository struct {
	db *sqlx.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sqlx.DB) ports.CampaignRepository {
	return &campaignRepository{db: db}
}

// Create inserts a new campaign
func (r *campaignRepository) Create(ctx context.Context, c *models.Campaign) error {
	if err := c.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO campaigns (
		id, name, type, platform, impressions, clicks, spend_cents, status, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Type, c.Platform, c.Impressions, c.Clicks,
		c.Spend.Cents(), c.Status, c.CreatedAt.Time(), c.UpdatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

// GetByID retrieves a campaign by its ID
func (r *campaignRepository) GetByID(ctx context.Context, id core.CampaignID) (*models.Campaign, error) {
	query := `SELECT id, name, COALESCE(type, '') as type, platform,
		COALESCE(impressions, 0) as impressions, COALESCE(clicks, 0) as clicks,
		COALESCE(spend_cents, 0) as spend_cents, status, created_at, updated_at
	FROM campaigns WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	c, err := scanCampaign(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("campaign", id.String())
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

// List returns all campaigns, newest first
func (r *campaignRepository) List(ctx context.Context) ([]models.Campaign, error) {
	query := `SELECT id, name, COALESCE(type, '') as type, platform,
		COALESCE(impressions, 0) as impressions, COALESCE(clicks, 0) as clicks,
		COALESCE(spend_cents, 0) as spend_cents, status, created_at, updated_at
	FROM campaigns ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	var out []models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Update persists a modified campaign
func (r *campaignRepository) Update(ctx context.Context, c *models.Campaign) error {
	if err := c.Validate(); err != nil {
		return err
	}
	query := `UPDATE campaigns SET
		name = $2, type = $3, platform = $4, impressions = $5, clicks = $6,
		spend_cents = $7, status = $8, updated_at = $9
	WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Type, c.Platform, c.Impressions, c.Clicks,
		c.Spend.Cents(), c.Status, c.UpdatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NewNotFoundError("campaign", c.ID.String())
	}
	return nil
}

// Delete removes a campaign
func (r *campaignRepository) Delete(ctx context.Context, id core.CampaignID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NewNotFoundError("campaign", id.String())
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCampaign(row rowScanner) (*models.Campaign, error) {
	var c models.Campaign
	var spendCents int64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Platform, &c.Impressions, &c.Clicks,
		&spendCents, &c.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Spend = table.Decimal(spendCents)
	if createdAt.Valid {
		c.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	if updatedAt.Valid {
		c.UpdatedAt = core.NewTimestamp(updatedAt.Time)
	}
	return &c, nil
}
