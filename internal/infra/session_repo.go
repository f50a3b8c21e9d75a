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

type PostgresSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionRepo(pool *pgxpool.Pool) ports.SessionRepository {
	return &PostgresSessionRepo{pool: pool}
}

const sessionColumns = `id, campaign_id, title, session_date, upload_id, audio_file_path,
	duration, status, error_step, error_message, created_at, updated_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.ID,
		&s.CampaignID,
		&s.Title,
		&s.SessionDate,
		&s.UploadID,
		&s.AudioFilePath,
		&s.Duration,
		&s.Status,
		&s.ErrorStep,
		&s.ErrorMessage,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSessionRepo) InsertSession(ctx context.Context, s *models.Session) (*models.Session, error) {
	if s.Status == "" {
		s.Status = models.SessionDraft
	}
	if !s.Status.Valid() {
		return nil, fmt.Errorf("invalid session status %q", s.Status)
	}

	query := `
		INSERT INTO sessions (campaign_id, title, session_date, upload_id, audio_file_path, duration, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	row := r.pool.QueryRow(ctx, query,
		s.CampaignID, s.Title, s.SessionDate, s.UploadID, s.AudioFilePath, s.Duration, s.Status)
	if err := row.Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	return s, nil
}

func (r *PostgresSessionRepo) GetSessionByID(ctx context.Context, id int64) (*models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}
	return s, nil
}

func (r *PostgresSessionRepo) ListSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT s.id, s.campaign_id, s.title, s.session_date, s.upload_id,
			s.audio_file_path, s.duration, s.status, s.error_step, s.error_message,
			s.created_at, s.updated_at
		FROM sessions s
		JOIN campaigns c ON c.id = s.campaign_id
		WHERE c.user_id = $1
		ORDER BY s.session_date DESC, s.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *PostgresSessionRepo) UpdateSession(ctx context.Context, id int64, upd models.SessionUpdate) error {
	query := `
		UPDATE sessions
		SET title = COALESCE($1, title),
		    session_date = COALESCE($2, session_date),
		    duration = COALESCE($3, duration),
		    updated_at = now()
		WHERE id = $4
	`
	_, err := r.pool.Exec(ctx, query, upd.Title, upd.SessionDate, upd.Duration, id)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepo) UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid session status %q", status)
	}
	query := `UPDATE sessions SET status = $1, updated_at = now() WHERE id = $2`
	_, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepo) SetError(ctx context.Context, id int64, step, message string) error {
	query := `
		UPDATE sessions
		SET status = $1, error_step = $2, error_message = $3, updated_at = now()
		WHERE id = $4
	`
	_, err := r.pool.Exec(ctx, query, models.SessionError, step, message, id)
	if err != nil {
		return fmt.Errorf("set session error: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepo) ClearError(ctx context.Context, id int64) error {
	query := `
		UPDATE sessions
		SET error_step = NULL, error_message = NULL, updated_at = now()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("clear session error: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepo) SetUpload(ctx context.Context, id int64, uploadID *int64) error {
	status := models.SessionUploaded
	if uploadID == nil {
		status = models.SessionDraft
	}
	query := `UPDATE sessions SET upload_id = $1, status = $2, updated_at = now() WHERE id = $3`
	_, err := r.pool.Exec(ctx, query, uploadID, status, id)
	if err != nil {
		return fmt.Errorf("set session upload: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepo) DeleteSession(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *PostgresSessionRepo) CountByCampaign(ctx context.Context, campaignID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE campaign_id = $1`, campaignID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sessions by campaign: %w", err)
	}
	return n, nil
}
