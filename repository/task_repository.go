package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"reliefCoordination/models"
)

// TaskRepository persists tasks. The UNIQUE request_id/offer_id columns are
// the final arbiter of "one task per target"; Create surfaces a violation as
// ErrTargetTaken.
type TaskRepository struct {
	db Querier
}

// ErrTargetTaken is returned by Create when the request or offer already has a task.
var ErrTargetTaken = errors.New("target already has a task")

func NewTaskRepository(db Querier) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, rescuer_id, request_id, offer_id, status, description, created_at, updated_at`

func scanTask(row rowScanner) (*models.Task, error) {
	var t models.Task
	var requestID, offerID sql.NullInt64
	var status string
	if err := row.Scan(&t.ID, &t.RescuerID, &requestID, &offerID, &status, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.RequestID, t.OfferID = nullableInt(requestID), nullableInt(offerID)
	t.Status = models.TaskStatus(status)
	return &t, nil
}

// Create inserts a task. Status defaults to 'pending'.
func (r *TaskRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t == nil {
		return nil, errors.New("task is nil")
	}
	if (t.RequestID == nil) == (t.OfferID == nil) {
		return nil, errors.New("task must reference exactly one of request or offer")
	}
	if t.Status == "" {
		t.Status = models.TaskStatusPending
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `INSERT INTO tasks (rescuer_id, request_id, offer_id, status, description) VALUES (?,?,?,?,?)`,
		t.RescuerID, t.RequestID, t.OfferID, string(t.Status), t.Description)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrTargetTaken, err)
		}
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
		return nil, fmt.Errorf("created task not found: id=%d", id)
	}
	return out, nil
}

func (r *TaskRepository) get(ctx context.Context, where string, arg any) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	return r.get(ctx, "id = ?", id)
}

// GetByRequestID returns the task attached to a request, or nil when the request is open.
func (r *TaskRepository) GetByRequestID(ctx context.Context, requestID int64) (*models.Task, error) {
	return r.get(ctx, "request_id = ?", requestID)
}

// GetByOfferID returns the task attached to an offer, or nil when the offer is open.
func (r *TaskRepository) GetByOfferID(ctx context.Context, offerID int64) (*models.Task, error) {
	return r.get(ctx, "offer_id = ?", offerID)
}

// CountActive counts a rescuer's pending and in-progress tasks.
func (r *TaskRepository) CountActive(ctx context.Context, rescuerID int64) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE rescuer_id = ? AND status IN (?, ?)`,
		rescuerID, string(models.TaskStatusPending), string(models.TaskStatusInProgress)).Scan(&n)
	return n, err
}

// ListTasksParams filters task listings.
type ListTasksParams struct {
	RescuerID *int64
	Statuses  []models.TaskStatus
	PageSize  int
	AfterID   int64
}

// List returns tasks ordered by id desc with keyset pagination (AfterID is exclusive).
func (r *TaskRepository) List(ctx context.Context, p ListTasksParams) ([]models.Task, error) {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var where []string
	var args []any
	if p.RescuerID != nil {
		where = append(where, "rescuer_id = ?")
		args = append(args, *p.RescuerID)
	}
	if len(p.Statuses) > 0 {
		where = append(where, "status IN ("+placeholders(len(p.Statuses))+")")
		for _, s := range p.Statuses {
			args = append(args, string(s))
		}
	}
	if p.AfterID > 0 {
		where = append(where, "id < ?")
		args = append(args, p.AfterID)
	}
	query := "SELECT " + taskColumns + " FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + joinAnd(where)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, p.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update writes status and description. The status column only moves when
// the stored status is not already 'completed', so a completed task stays
// completed; the returned bool reports whether a row changed.
func (r *TaskRepository) Update(ctx context.Context, id int64, status models.TaskStatus, description string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `
UPDATE tasks SET
  status = CASE WHEN status = 'completed' THEN status ELSE ? END,
  description = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?`, string(status), description, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
