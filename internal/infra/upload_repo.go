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

type PostgresUploadRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUploadRepo(pool *pgxpool.Pool) ports.UploadRepository {
	return &PostgresUploadRepo{pool: pool}
}

func (r *PostgresUploadRepo) InsertUpload(ctx context.Context, u *models.Upload) (*models.Upload, error) {
	if u.Status == "" {
		u.Status = models.UploadUploaded
	}
	if !u.Status.Valid() {
		return nil, fmt.Errorf("invalid upload status %q", u.Status)
	}
	if u.ChunkPaths == nil {
		u.ChunkPaths = []string{}
	}

	query := `
		INSERT INTO uploads (user_id, filename, original_name, path, size, mime_type, duration, status, chunk_paths)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	row := r.pool.QueryRow(ctx, query,
		u.UserID, u.Filename, u.OriginalName, u.Path, u.Size, u.MimeType, u.Duration, u.Status, u.ChunkPaths)
	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert upload: %w", err)
	}
	return u, nil
}

func (r *PostgresUploadRepo) GetUploadByID(ctx context.Context, id int64) (*models.Upload, error) {
	query := `
		SELECT id, user_id, filename, original_name, path, size, mime_type, duration, status, chunk_paths, created_at
		FROM uploads
		WHERE id = $1
	`
	var u models.Upload
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.UserID, &u.Filename, &u.OriginalName, &u.Path, &u.Size,
		&u.MimeType, &u.Duration, &u.Status, &u.ChunkPaths, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get upload by id: %w", err)
	}
	return &u, nil
}

func (r *PostgresUploadRepo) ListUploads(ctx context.Context, userID int64) ([]models.Upload, error) {
	query := `
		SELECT id, user_id, filename, original_name, path, size, mime_type, duration, status, chunk_paths, created_at
		FROM uploads
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var out []models.Upload
	for rows.Next() {
		var u models.Upload
		if err := rows.Scan(&u.ID, &u.UserID, &u.Filename, &u.OriginalName, &u.Path, &u.Size,
			&u.MimeType, &u.Duration, &u.Status, &u.ChunkPaths, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresUploadRepo) UpdateUploadStatus(ctx context.Context, id int64, status models.UploadStatus, chunkPaths []string) error {
	if !status.Valid() {
		return fmt.Errorf("invalid upload status %q", status)
	}

	if chunkPaths == nil {
		_, err := r.pool.Exec(ctx, `UPDATE uploads SET status = $1 WHERE id = $2`, status, id)
		if err != nil {
			return fmt.Errorf("update upload status: %w", err)
		}
		return nil
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE uploads SET status = $1, chunk_paths = $2 WHERE id = $3`,
		status, chunkPaths, id)
	if err != nil {
		return fmt.Errorf("update upload status: %w", err)
	}
	return nil
}

func (r *PostgresUploadRepo) DeleteUpload(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

func (r *PostgresUploadRepo) CountSessionsUsingUpload(ctx context.Context, id int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions WHERE upload_id = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sessions using upload: %w", err)
	}
	return n, nil
}
