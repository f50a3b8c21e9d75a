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

type PostgresSummaryRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSummaryRepo(pool *pgxpool.Pool) ports.SummaryRepository {
	return &PostgresSummaryRepo{pool: pool}
}

const summaryColumns = `id, session_id, summary_text, original_text, is_edited, edited_at, created_at, updated_at`

func scanSummary(row pgx.Row) (*models.Summary, error) {
	var s models.Summary
	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.SummaryText,
		&s.OriginalText,
		&s.IsEdited,
		&s.EditedAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSummary overwrites summary_text only. is_edited, original_text and
// edited_at belong to the manual-edit path and survive regeneration.
func (r *PostgresSummaryRepo) UpsertSummary(ctx context.Context, sessionID int64, text string) (*models.Summary, error) {
	query := `
		INSERT INTO summaries (session_id, summary_text)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO UPDATE
		SET summary_text = EXCLUDED.summary_text, updated_at = now()
		RETURNING ` + summaryColumns

	s, err := scanSummary(r.pool.QueryRow(ctx, query, sessionID, text))
	if err != nil {
		return nil, fmt.Errorf("upsert summary: %w", err)
	}
	return s, nil
}

// SaveEdit stores an edited text. original_text is written only when the
// caller supplies it (first edit); later edits leave it untouched.
func (r *PostgresSummaryRepo) SaveEdit(ctx context.Context, sessionID int64, text string, originalText *string) (*models.Summary, error) {
	query := `
		UPDATE summaries
		SET summary_text = $1,
		    original_text = COALESCE($2, original_text),
		    is_edited = true,
		    edited_at = now(),
		    updated_at = now()
		WHERE session_id = $3
		RETURNING ` + summaryColumns

	s, err := scanSummary(r.pool.QueryRow(ctx, query, text, originalText, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("save summary edit: %w", err)
	}
	return s, nil
}

func (r *PostgresSummaryRepo) GetSummary(ctx context.Context, sessionID int64) (*models.Summary, error) {
	query := `SELECT ` + summaryColumns + ` FROM summaries WHERE session_id = $1`

	s, err := scanSummary(r.pool.QueryRow(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return s, nil
}
