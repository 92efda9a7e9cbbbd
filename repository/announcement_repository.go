package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reliefCoordination/models"
)

type AnnouncementRepository struct {
	db Querier
}

func NewAnnouncementRepository(db Querier) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// Create stores an announcement and the items it asks for.
func (r *AnnouncementRepository) Create(ctx context.Context, content string, itemIDs []int64) (*models.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO announcements (content) VALUES (?)`, content)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, itemID := range itemIDs {
		if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO announcement_items (announcement_id, item_id) VALUES (?, ?)`, id, itemID); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

func (r *AnnouncementRepository) GetByID(ctx context.Context, id int64) (*models.Announcement, error) {
	var a models.Announcement
	err := r.db.QueryRowContext(ctx, `SELECT id, content, created_at FROM announcements WHERE id = ?`, id).Scan(&a.ID, &a.Content, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	ids, err := r.itemIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	a.ItemIDs = ids
	return &a, nil
}

func (r *AnnouncementRepository) itemIDs(ctx context.Context, announcementID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id FROM announcement_items WHERE announcement_id = ? ORDER BY item_id`, announcementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// List returns announcements newest first.
func (r *AnnouncementRepository) List(ctx context.Context, limit int) ([]models.Announcement, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, content, created_at FROM announcements ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var out []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.Content, &a.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for i := range out {
		ids, err := r.itemIDs(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].ItemIDs = ids
	}
	return out, nil
}
