package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"reliefCoordination/models"
)

// RequestRepository persists citizen requests. Read queries LEFT JOIN tasks
// so callers can tell open requests from claimed ones.
type RequestRepository struct {
	db Querier
}

func NewRequestRepository(db Querier) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `r.id, r.user_id, r.item_id, r.quantity, r.people_count, r.notes, r.status, r.created_at, t.id, u.lat, u.lng`

const requestFrom = ` FROM requests r JOIN users u ON u.id = r.user_id LEFT JOIN tasks t ON t.request_id = r.id`

func scanRequest(row rowScanner) (*models.Request, error) {
	var q models.Request
	var status string
	var taskID sql.NullInt64
	var lat, lng sql.NullFloat64
	if err := row.Scan(&q.ID, &q.UserID, &q.ItemID, &q.Quantity, &q.PeopleCount, &q.Notes, &status, &q.CreatedAt, &taskID, &lat, &lng); err != nil {
		return nil, err
	}
	q.Status = models.SupplyStatus(status)
	q.TaskID = nullableInt(taskID)
	q.Owner = models.PositionOf(nullableFloat(lat), nullableFloat(lng))
	return &q, nil
}

// Create inserts a request. Status defaults to 'pending'.
func (r *RequestRepository) Create(ctx context.Context, q *models.Request) (*models.Request, error) {
	if q == nil {
		return nil, errors.New("request is nil")
	}
	if q.Status == "" {
		q.Status = models.SupplyStatusPending
	}
	if q.PeopleCount <= 0 {
		q.PeopleCount = 1
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO requests (user_id, item_id, quantity, people_count, notes, status) VALUES (?,?,?,?,?,?)`,
		q.UserID, q.ItemID, q.Quantity, q.PeopleCount, q.Notes, string(q.Status))
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
		return nil, fmt.Errorf("created request not found: id=%d", id)
	}
	return out, nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	q, err := scanRequest(r.db.QueryRowContext(ctx, `SELECT `+requestColumns+requestFrom+` WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// ListByUser returns a citizen's requests newest first.
func (r *RequestRepository) ListByUser(ctx context.Context, userID int64) ([]models.Request, error) {
	return r.list(ctx, ` WHERE r.user_id = ? ORDER BY r.created_at DESC, r.id DESC`, userID)
}

// ListOpen returns requests a rescuer can still claim: no attached task and
// not yet received. Oldest first.
func (r *RequestRepository) ListOpen(ctx context.Context) ([]models.Request, error) {
	return r.list(ctx, ` WHERE t.id IS NULL AND r.status <> 'received' ORDER BY r.created_at ASC, r.id ASC`)
}

// List returns every request, optionally with one status, newest first.
func (r *RequestRepository) List(ctx context.Context, status *models.SupplyStatus) ([]models.Request, error) {
	if status != nil {
		return r.list(ctx, ` WHERE r.status = ? ORDER BY r.created_at DESC, r.id DESC`, string(*status))
	}
	return r.list(ctx, ` ORDER BY r.created_at DESC, r.id DESC`)
}

func (r *RequestRepository) list(ctx context.Context, tail string, args ...any) ([]models.Request, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+requestColumns+requestFrom+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Request
	for rows.Next() {
		q, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.SupplyStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE requests SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

// Update writes the editable fields of a request.
func (r *RequestRepository) Update(ctx context.Context, q *models.Request) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE requests SET status = ?, quantity = ?, people_count = ? WHERE id = ?`,
		string(q.Status), q.Quantity, q.PeopleCount, q.ID)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}

func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
