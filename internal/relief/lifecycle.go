package relief

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// TaskUpdate is an edit submitted by the owning rescuer. An empty Status keeps
// the current status; a nil Description keeps the current description.
type TaskUpdate struct {
	Status      models.TaskStatus
	Description *string
}

// CheckTransition validates moving a task from cur to next: statuses only move
// forward in pending < in_progress < completed, jumps are allowed, and
// completed is terminal.
func CheckTransition(cur, next models.TaskStatus) error {
	if next.Rank() < 0 {
		return invalid("status", "unknown status %q", next)
	}
	if next.Rank() < cur.Rank() {
		return invalid("status", "cannot move task from %s back to %s", cur, next)
	}
	return nil
}

// adjustment is the stock change one completed task applies.
type adjustment struct {
	itemID int64
	delta  int64
}

// UpdateTask applies an owner's edit. The inventory side effect runs exactly
// once, on the edge into completed, inside the same transaction as the status
// write: an offer adds its quantity to stock, a request removes its quantity.
// When proximity enforcement is on, that edge also requires the rescuer's
// vehicle to be within the completion radius of the target's owner.
func (s *Service) UpdateTask(ctx context.Context, rescuerID, taskID int64, upd TaskUpdate) (*models.Task, error) {
	var (
		before, after models.TaskStatus
		adj           *adjustment
		updated       *models.Task
	)
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		if task == nil {
			return notFound("task", taskID)
		}
		if task.RescuerID != rescuerID {
			return fmt.Errorf("%w: task %d belongs to another rescuer", ErrUnauthorized, taskID)
		}

		next := upd.Status
		if next == "" {
			next = task.Status
		}
		if err := CheckTransition(task.Status, next); err != nil {
			return err
		}
		description := task.Description
		if upd.Description != nil {
			description = *upd.Description
		}

		completing := task.Status != models.TaskStatusCompleted && next == models.TaskStatusCompleted
		if completing && s.opts.EnforceProximity {
			dist, err := s.taskDistance(ctx, tx, task)
			if err != nil {
				return err
			}
			if !(dist < s.opts.CompletionRadiusMeters) {
				s.metrics.ProximityRefused()
				return &ValidationError{
					Field:  "status",
					Reason: fmt.Sprintf("rescuer is %s from the target; completion needs less than %.0f m", formatMeters(dist), s.opts.CompletionRadiusMeters),
					Err:    ErrOutOfRange,
				}
			}
		}

		if _, err := tx.Tasks.Update(ctx, task.ID, next, description); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if completing {
			a, err := s.applyCompletion(ctx, tx, task)
			if err != nil {
				return err
			}
			adj = a
		}

		updated, err = tx.Tasks.GetByID(ctx, task.ID)
		if err != nil {
			return fmt.Errorf("reload task: %w", err)
		}
		before, after = task.Status, updated.Status
		return nil
	})
	if err != nil {
		s.log.Info("task update rejected",
			zap.Int64("task_id", taskID),
			zap.Int64("rescuer_id", rescuerID),
			zap.String("status", string(upd.Status)),
			zap.Error(err))
		return nil, err
	}

	if before != after {
		s.metrics.TaskTransitioned(string(before), string(after))
		s.log.Info("task transitioned",
			zap.Int64("task_id", taskID),
			zap.String("from", string(before)),
			zap.String("to", string(after)))
	}
	if adj != nil {
		s.metrics.InventoryAdjusted(adj.delta)
		s.log.Info("inventory adjusted",
			zap.Int64("task_id", taskID),
			zap.Int64("item_id", adj.itemID),
			zap.Int64("delta", adj.delta))
	}
	return updated, nil
}

// applyCompletion adjusts stock for a task entering completed and marks its
// target received.
func (s *Service) applyCompletion(ctx context.Context, tx *repository.Store, task *models.Task) (*adjustment, error) {
	if task.OfferID != nil {
		off, err := tx.Offers.GetByID(ctx, *task.OfferID)
		if err != nil {
			return nil, fmt.Errorf("get offer: %w", err)
		}
		if off == nil {
			return nil, notFound("offer", *task.OfferID)
		}
		if err := tx.Inventory.Increment(ctx, off.ItemID, off.Quantity); err != nil {
			return nil, inventoryErr(off.ItemID, err)
		}
		if err := tx.Offers.UpdateStatus(ctx, off.ID, models.SupplyStatusReceived); err != nil {
			return nil, storeErr("mark offer received", err)
		}
		return &adjustment{itemID: off.ItemID, delta: off.Quantity}, nil
	}

	if task.RequestID == nil {
		return nil, fmt.Errorf("task %d has no request or offer", task.ID)
	}
	req, err := tx.Requests.GetByID(ctx, *task.RequestID)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return nil, notFound("request", *task.RequestID)
	}
	if err := tx.Inventory.Decrement(ctx, req.ItemID, req.Quantity, s.opts.ClampNegativeStock); err != nil {
		return nil, inventoryErr(req.ItemID, err)
	}
	if err := tx.Requests.UpdateStatus(ctx, req.ID, models.SupplyStatusReceived); err != nil {
		return nil, storeErr("mark request received", err)
	}
	return &adjustment{itemID: req.ItemID, delta: -req.Quantity}, nil
}

// reverseCompletion undoes applyCompletion for a deleted task: the stock change
// is reverted and the target reopens as pending.
func (s *Service) reverseCompletion(ctx context.Context, tx *repository.Store, task *models.Task) (*adjustment, error) {
	if task.OfferID != nil {
		off, err := tx.Offers.GetByID(ctx, *task.OfferID)
		if err != nil || off == nil {
			return nil, err
		}
		if err := tx.Inventory.Decrement(ctx, off.ItemID, off.Quantity, s.opts.ClampNegativeStock); err != nil {
			return nil, inventoryErr(off.ItemID, err)
		}
		if err := tx.Offers.UpdateStatus(ctx, off.ID, models.SupplyStatusPending); err != nil {
			return nil, storeErr("reopen offer", err)
		}
		return &adjustment{itemID: off.ItemID, delta: -off.Quantity}, nil
	}
	if task.RequestID == nil {
		return nil, nil
	}
	req, err := tx.Requests.GetByID(ctx, *task.RequestID)
	if err != nil || req == nil {
		return nil, err
	}
	if err := tx.Inventory.Increment(ctx, req.ItemID, req.Quantity); err != nil {
		return nil, inventoryErr(req.ItemID, err)
	}
	if err := tx.Requests.UpdateStatus(ctx, req.ID, models.SupplyStatusPending); err != nil {
		return nil, storeErr("reopen request", err)
	}
	return &adjustment{itemID: req.ItemID, delta: req.Quantity}, nil
}

func inventoryErr(itemID int64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: inventory for item %d", ErrNotFound, itemID)
	}
	return fmt.Errorf("adjust inventory: %w", err)
}

// DeleteTask removes a task owned by rescuerID, freeing its request or offer
// for another claim. A released offer that was not yet delivered goes back to
// pending. Stock is only touched when ReverseInventoryOnDelete is set and the
// task had been completed; otherwise a delivered target stays received and can
// never be claimed again.
func (s *Service) DeleteTask(ctx context.Context, rescuerID, taskID int64) error {
	var adj *adjustment
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.GetByID(ctx, taskID)
		if err != nil {
			return fmt.Errorf("get task: %w", err)
		}
		if task == nil {
			return notFound("task", taskID)
		}
		if task.RescuerID != rescuerID {
			return fmt.Errorf("%w: task %d belongs to another rescuer", ErrUnauthorized, taskID)
		}

		completed := task.Status == models.TaskStatusCompleted
		if completed && s.opts.ReverseInventoryOnDelete {
			if adj, err = s.reverseCompletion(ctx, tx, task); err != nil {
				return err
			}
		}
		if !completed && task.OfferID != nil {
			if err := tx.Offers.UpdateStatus(ctx, *task.OfferID, models.SupplyStatusPending); err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("release offer: %w", err)
			}
		}
		return storeErr("delete task", tx.Tasks.Delete(ctx, task.ID))
	})
	if err != nil {
		return err
	}
	s.log.Info("task deleted", zap.Int64("task_id", taskID), zap.Int64("rescuer_id", rescuerID))
	if adj != nil {
		s.metrics.InventoryAdjusted(adj.delta)
		s.log.Info("inventory reversed",
			zap.Int64("task_id", taskID),
			zap.Int64("item_id", adj.itemID),
			zap.Int64("delta", adj.delta))
	}
	return nil
}

// GetTask returns a task to its owner.
func (s *Service) GetTask(ctx context.Context, rescuerID, taskID int64) (*models.Task, error) {
	task, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, notFound("task", taskID)
	}
	if task.RescuerID != rescuerID {
		return nil, fmt.Errorf("%w: task %d belongs to another rescuer", ErrUnauthorized, taskID)
	}
	return task, nil
}

// ListTasks pages through a rescuer's tasks, newest first.
func (s *Service) ListTasks(ctx context.Context, rescuerID int64, statuses []models.TaskStatus, pageSize int, afterID int64) ([]models.Task, error) {
	for _, st := range statuses {
		if st.Rank() < 0 {
			return nil, invalid("status", "unknown status %q", st)
		}
	}
	return s.store.Tasks.List(ctx, repository.ListTasksParams{
		RescuerID: &rescuerID,
		Statuses:  statuses,
		PageSize:  pageSize,
		AfterID:   afterID,
	})
}
