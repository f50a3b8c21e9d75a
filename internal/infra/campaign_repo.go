package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

type PostgresCampaignRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCampaignRepo(pool *pgxpool.Pool) ports.CampaignRepository {
	return &PostgresCampaignRepo{pool: pool}
}

func (r *PostgresCampaignRepo) InsertCampaign(ctx context.Context, c *models.Campaign) (*models.Campaign, error) {
	query := `
		INSERT INTO campaigns (user_id, name, description, setting_notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	row := r.pool.QueryRow(ctx, query, c.UserID, c.Name, c.Description, c.SettingNotes)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return c, nil
}

func (r *PostgresCampaignRepo) GetCampaignByID(ctx context.Context, id int64) (*models.Campaign, error) {
	query := `
		SELECT id, user_id, name, description, setting_notes, created_at, updated_at
		FROM campaigns
		WHERE id = $1
	`
	var c models.Campaign
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.UserID, &c.Name, &c.Description, &c.SettingNotes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get campaign by id: %w", err)
	}
	return &c, nil
}

func (r *PostgresCampaignRepo) ListCampaigns(ctx context.Context, userID int64) ([]models.Campaign, error) {
	query := `
		SELECT id, user_id, name, description, setting_notes, created_at, updated_at
		FROM campaigns
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []models.Campaign
	for rows.Next() {
		var c models.Campaign
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description, &c.SettingNotes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresCampaignRepo) UpdateCampaign(ctx context.Context, c *models.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $1, description = $2, setting_notes = $3, updated_at = now()
		WHERE id = $4
	`
	_, err := r.pool.Exec(ctx, query, c.Name, c.Description, c.SettingNotes, c.ID)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	return nil
}

func (r *PostgresCampaignRepo) DeleteCampaign(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}
