package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnix-os/notifysink/internal/capture"
)

// CaptureRepository persists captured requests in Postgres. It implements
// sink.Sink so the handler can fan out to it like any other sink.
type CaptureRepository struct {
	pool *pgxpool.Pool
}

// NewCaptureRepository returns a CaptureRepository using the given pool.
func NewCaptureRepository(pool *pgxpool.Pool) *CaptureRepository {
	return &CaptureRepository{pool: pool}
}

func (r *CaptureRepository) Name() string { return "archive" }

// Append inserts a captured entry.
func (r *CaptureRepository) Append(ctx context.Context, e *capture.Entry) error {
	headers, err := json.Marshal(e.Headers)
	if err != nil {
		return fmt.Errorf("encode headers: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO captures (id, received_at, method, path, headers, body)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID,
		e.ReceivedAt,
		e.Method,
		e.Path,
		headers,
		e.Body,
	)
	return err
}

// ListRecent returns the most recently captured entries, newest first.
func (r *CaptureRepository) ListRecent(ctx context.Context, limit int) ([]capture.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, received_at, method, path, headers, body
		FROM captures
		ORDER BY received_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []capture.Entry
	for rows.Next() {
		var e capture.Entry
		var headers []byte
		if err := rows.Scan(&e.ID, &e.ReceivedAt, &e.Method, &e.Path, &headers, &e.Body); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(headers, &e.Headers); err != nil {
			return nil, fmt.Errorf("decode headers: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Count returns the number of archived captures.
func (r *CaptureRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM captures`).Scan(&n)
	return n, err
}
