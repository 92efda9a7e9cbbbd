package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"reliefCoordination/models"
)

// InventoryRepository is the per-item stock ledger. Every adjustment is a
// relative UPDATE so concurrent completions touching the same item cannot
// lose updates.
type InventoryRepository struct {
	db Querier
}

func NewInventoryRepository(db Querier) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Quantity returns the stock of an item, or sql.ErrNoRows when the item has no ledger row.
func (r *InventoryRepository) Quantity(ctx context.Context, itemID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var q int64
	err := r.db.QueryRowContext(ctx, `SELECT quantity FROM inventory WHERE item_id = ?`, itemID).Scan(&q)
	if err != nil {
		return 0, err
	}
	return q, nil
}

// Increment adds amount to the item's stock.
func (r *InventoryRepository) Increment(ctx context.Context, itemID, amount int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE inventory SET quantity = quantity + ? WHERE item_id = ?`, amount, itemID)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// Decrement subtracts amount from the item's stock. With clamp set the
// result never drops below zero.
func (r *InventoryRepository) Decrement(ctx context.Context, itemID, amount int64, clamp bool) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	query := `UPDATE inventory SET quantity = quantity - ? WHERE item_id = ?`
	if clamp {
		query = `UPDATE inventory SET quantity = MAX(quantity - ?, 0) WHERE item_id = ?`
	}
	res, err := r.db.ExecContext(ctx, query, amount, itemID)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// Set overwrites the item's stock (admin edit).
func (r *InventoryRepository) Set(ctx context.Context, itemID, amount int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE inventory SET quantity = ? WHERE item_id = ?`, amount, itemID)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// ListInventoryParams filters the warehouse listing.
type ListInventoryParams struct {
	CategoryIDs []int64
	InStockOnly bool
}

// List returns stock joined with item and category names, ordered by category then item.
func (r *InventoryRepository) List(ctx context.Context, p ListInventoryParams) ([]models.InventoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT i.id, i.name, c.name, inv.quantity
FROM inventory inv
JOIN items i ON i.id = inv.item_id
JOIN categories c ON c.id = i.category_id`
	var where []string
	var args []any
	if len(p.CategoryIDs) > 0 {
		where = append(where, "c.id IN ("+placeholders(len(p.CategoryIDs))+")")
		for _, id := range p.CategoryIDs {
			args = append(args, id)
		}
	}
	if p.InStockOnly {
		where = append(where, "inv.quantity > 0")
	}
	if len(where) > 0 {
		query += " WHERE " + joinAnd(where)
	}
	query += " ORDER BY c.name, i.name"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.InventoryEntry
	for rows.Next() {
		var e models.InventoryEntry
		if err := rows.Scan(&e.ItemID, &e.ItemName, &e.CategoryName, &e.Quantity); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Exists reports whether an inventory row exists for the item.
func (r *InventoryRepository) Exists(ctx context.Context, itemID int64) (bool, error) {
	_, err := r.Quantity(ctx, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
