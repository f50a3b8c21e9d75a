package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"chronicle/internal/models"
	"chronicle/internal/ports"
)

type PostgresTranscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresTranscriptionRepo(pool *pgxpool.Pool) ports.TranscriptionRepository {
	return &PostgresTranscriptionRepo{pool: pool}
}

// ReplaceTranscriptions swaps the session's segment rows in one transaction,
// so a concurrent reader sees either the old set or the new set, never a mix.
func (r *PostgresTranscriptionRepo) ReplaceTranscriptions(ctx context.Context, sessionID int64, segments []models.TranscriptSegment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace transcriptions: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM transcriptions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete transcriptions: %w", err)
	}

	for _, seg := range segments {
		_, err := tx.Exec(ctx,
			`INSERT INTO transcriptions (session_id, start_time, end_time, text, confidence)
			 VALUES ($1, $2, $3, $4, $5)`,
			sessionID, seg.Start, seg.End, seg.Text, seg.Confidence)
		if err != nil {
			return fmt.Errorf("insert transcription: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace transcriptions: %w", err)
	}
	return nil
}

func (r *PostgresTranscriptionRepo) GetTranscriptions(ctx context.Context, sessionID int64) ([]models.Transcription, error) {
	query := `
		SELECT id, session_id, start_time, end_time, text, confidence
		FROM transcriptions
		WHERE session_id = $1
		ORDER BY start_time ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get transcriptions: %w", err)
	}
	defer rows.Close()

	var out []models.Transcription
	for rows.Next() {
		var t models.Transcription
		if err := rows.Scan(&t.ID, &t.SessionID, &t.StartTime, &t.EndTime, &t.Text, &t.Confidence); err != nil {
			return nil, fmt.Errorf("scan transcription: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresTranscriptionRepo) CountTranscriptions(ctx context.Context, sessionID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transcriptions WHERE session_id = $1`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transcriptions: %w", err)
	}
	return n, nil
}
