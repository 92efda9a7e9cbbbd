package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reliefCoordination/models"
)

// BaseRepository keeps the single base row.
type BaseRepository struct {
	db Querier
}

func NewBaseRepository(db Querier) *BaseRepository {
	return &BaseRepository{db: db}
}

// Get returns the base, or nil when it has not been placed yet.
func (r *BaseRepository) Get(ctx context.Context) (*models.Base, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var b models.Base
	err := r.db.QueryRowContext(ctx, `SELECT lat, lng, updated_at FROM base WHERE id = 1`).Scan(&b.Lat, &b.Lng, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Set places the base, creating the row on first use.
func (r *BaseRepository) Set(ctx context.Context, lat, lng float64) (*models.Base, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO base (id, lat, lng) VALUES (1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET lat = excluded.lat, lng = excluded.lng, updated_at = CURRENT_TIMESTAMP`, lat, lng)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx)
}
