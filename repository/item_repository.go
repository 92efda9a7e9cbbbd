package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reliefCoordination/models"
)

// ItemRepository manages categories and items. Creating an item also opens
// its inventory row at quantity 0.
type ItemRepository struct {
	db Querier
}

func NewItemRepository(db Querier) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: id, Name: name}, nil
}

func (r *ItemRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts an item and its empty inventory row. Run inside a
// transaction when both rows must appear together.
func (r *ItemRepository) Create(ctx context.Context, name string, categoryID int64) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO items (name, category_id) VALUES (?, ?)`, name, categoryID)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO inventory (item_id, quantity) VALUES (?, 0)`, id); err != nil {
		return nil, err
	}
	return &models.Item{ID: id, Name: name, CategoryID: categoryID}, nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var it models.Item
	err := r.db.QueryRowContext(ctx, `SELECT id, name, category_id FROM items WHERE id = ?`, id).Scan(&it.ID, &it.Name, &it.CategoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

// Delete removes an item; its inventory, requests and offers cascade.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
