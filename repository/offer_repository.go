package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"reliefCoordination/models"
)

// OfferRepository persists citizen donation offers.
type OfferRepository struct {
	db Querier
}

func NewOfferRepository(db Querier) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `o.id, o.user_id, o.item_id, o.quantity, o.announcement_id, o.status, o.created_at, t.id, u.lat, u.lng`

const offerFrom = ` FROM offers o JOIN users u ON u.id = o.user_id LEFT JOIN tasks t ON t.offer_id = o.id`

func scanOffer(row rowScanner) (*models.Offer, error) {
	var o models.Offer
	var status string
	var announcementID, taskID sql.NullInt64
	var lat, lng sql.NullFloat64
	if err := row.Scan(&o.ID, &o.UserID, &o.ItemID, &o.Quantity, &announcementID, &status, &o.CreatedAt, &taskID, &lat, &lng); err != nil {
		return nil, err
	}
	o.Owner = models.PositionOf(nullableFloat(lat), nullableFloat(lng))
	o.Status = models.SupplyStatus(status)
	o.AnnouncementID = nullableInt(announcementID)
	o.TaskID = nullableInt(taskID)
	return &o, nil
}

// Create inserts an offer. Status defaults to 'pending'.
func (r *OfferRepository) Create(ctx context.Context, o *models.Offer) (*models.Offer, error) {
	if o == nil {
		return nil, errors.New("offer is nil")
	}
	if o.Status == "" {
		o.Status = models.SupplyStatusPending
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO offers (user_id, item_id, quantity, announcement_id, status) VALUES (?,?,?,?,?)`,
		o.UserID, o.ItemID, o.Quantity, o.AnnouncementID, string(o.Status))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	out, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("created offer not found: id=%d", id)
	}
	return out, nil
}

func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	o, err := scanOffer(r.db.QueryRowContext(ctx, `SELECT `+offerColumns+offerFrom+` WHERE o.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return o, err
}

// ListByUser returns a citizen's offers newest first.
func (r *OfferRepository) ListByUser(ctx context.Context, userID int64) ([]models.Offer, error) {
	return r.list(ctx, ` WHERE o.user_id = ? ORDER BY o.created_at DESC, o.id DESC`, userID)
}

// ListOpen returns offers still waiting for pickup: no attached task and not
// yet received. Oldest first.
func (r *OfferRepository) ListOpen(ctx context.Context) ([]models.Offer, error) {
	return r.list(ctx, ` WHERE t.id IS NULL AND o.status <> 'received' ORDER BY o.created_at ASC, o.id ASC`)
}

// List returns every offer, optionally with one status, newest first.
func (r *OfferRepository) List(ctx context.Context, status *models.SupplyStatus) ([]models.Offer, error) {
	if status != nil {
		return r.list(ctx, ` WHERE o.status = ? ORDER BY o.created_at DESC, o.id DESC`, string(*status))
	}
	return r.list(ctx, ` ORDER BY o.created_at DESC, o.id DESC`)
}

func (r *OfferRepository) list(ctx context.Context, tail string, args ...any) ([]models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+offerColumns+offerFrom+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OfferRepository) UpdateStatus(ctx context.Context, id int64, status models.SupplyStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE offers SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// Update writes the editable fields of an offer.
func (r *OfferRepository) Update(ctx context.Context, o *models.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE offers SET status = ?, quantity = ? WHERE id = ?`, string(o.Status), o.Quantity, o.ID)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
