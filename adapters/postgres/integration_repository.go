package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"marketpulse/domain/core"
	"marketpulse/models"
	"marketpulse/ports"
)

// integrationRepository implements the IntegrationRepository interface
type integrationRepository struct {
	db *sqlx.DB
}

// NewIntegrationRepository creates a new integration repository
func NewIntegrationRepository(db *sqlx.DB) ports.IntegrationRepository {
	return &integrationRepository{db: db}
}

// Create inserts a new integration
func (r *integrationRepository) Create(ctx context.Context, i *models.Integration) error {
	if err := i.Validate(); err != nil {
		return err
	}
	query := `INSERT INTO integrations (
		id, platform, status, api_key, account_id, last_sync, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var lastSync interface{}
	if i.LastSync != nil {
		lastSync = i.LastSync.Time()
	}
	_, err := r.db.ExecContext(ctx, query,
		i.ID, i.Platform, i.Status, i.APIKey, i.AccountID, lastSync,
		i.CreatedAt.Time(), i.UpdatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to create integration: %w", err)
	}
	return nil
}

// GetByID retrieves an integration by its ID
func (r *integrationRepository) GetByID(ctx context.Context, id core.IntegrationID) (*models.Integration, error) {
	row := r.db.QueryRowContext(ctx, selectIntegration+` WHERE id = $1`, id)
	i, err := scanIntegration(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.NewNotFoundError("integration", id.String())
		}
		return nil, fmt.Errorf("failed to get integration: %w", err)
	}
	return i, nil
}

// List returns all integrations
func (r *integrationRepository) List(ctx context.Context) ([]models.Integration, error) {
	return r.list(ctx, selectIntegration+` ORDER BY created_at DESC`)
}

// ListConnected returns integrations eligible for scheduled refresh
func (r *integrationRepository) ListConnected(ctx context.Context) ([]models.Integration, error) {
	return r.list(ctx, selectIntegration+` WHERE status = 'connected' ORDER BY created_at`)
}

func (r *integrationRepository) list(ctx context.Context, query string) ([]models.Integration, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer rows.Close()

	var out []models.Integration
	for rows.Next() {
		i, err := scanIntegration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}
		out = append(out, *i)
	}
	return out, rows.Err()
}

// Update persists a modified integration
func (r *integrationRepository) Update(ctx context.Context, i *models.Integration) error {
	if err := i.Validate(); err != nil {
		return err
	}
	query := `UPDATE integrations SET
		platform = $2, status = $3, api_key = $4, account_id = $5, last_sync = $6, updated_at = $7
	WHERE id = $1`

	var lastSync interface{}
	if i.LastSync != nil {
		lastSync = i.LastSync.Time()
	}
	res, err := r.db.ExecContext(ctx, query,
		i.ID, i.Platform, i.Status, i.APIKey, i.AccountID, lastSync, i.UpdatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to update integration: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NewNotFoundError("integration", i.ID.String())
	}
	return nil
}

// Delete removes an integration
func (r *integrationRepository) Delete(ctx context.Context, id core.IntegrationID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM integrations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete integration: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.NewNotFoundError("integration", id.String())
	}
	return nil
}

const selectIntegration = `SELECT id, platform, status,
	COALESCE(api_key, '') as api_key, COALESCE(account_id, '') as account_id,
	last_sync, created_at, updated_at
FROM integrations`

func scanIntegration(row rowScanner) (*models.Integration, error) {
	var i models.Integration
	var lastSync, createdAt, updatedAt sql.NullTime

	err := row.Scan(&i.ID, &i.Platform, &i.Status, &i.APIKey, &i.AccountID,
		&lastSync, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if lastSync.Valid {
		ts := core.NewTimestamp(lastSync.Time)
		i.LastSync = &ts
	}
	if createdAt.Valid {
		i.CreatedAt = core.NewTimestamp(createdAt.Time)
	}
	if updatedAt.Valid {
		i.UpdatedAt = core.NewTimestamp(updatedAt.Time)
	}
	return &i, nil
}
