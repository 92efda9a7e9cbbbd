package relief

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// Target names the request or offer a rescuer claims. Exactly one field is set.
type Target struct {
	RequestID int64
	OfferID   int64
}

func (t Target) kind() string {
	if t.OfferID != 0 {
		return "offer"
	}
	return "request"
}

// ClaimTask binds rescuerID to an open request or offer, creating a pending task.
// Claiming an offer also marks the offer approved in the same transaction.
//
// Fails with ErrUnauthorized when the caller is not a rescuer, ErrCapacityExceeded
// when the rescuer already holds the maximum number of active tasks, ErrNotFound
// for a missing target, and ErrConflict when the target is already claimed or
// was already delivered.
func (s *Service) ClaimTask(ctx context.Context, rescuerID int64, target Target) (*models.Task, error) {
	if (target.RequestID == 0) == (target.OfferID == 0) {
		return nil, invalid("target", "exactly one of request_id or offer_id is required")
	}
	if err := s.requireRole(ctx, rescuerID, models.RoleRescuer); err != nil {
		s.metrics.ClaimRejected("unauthorized")
		return nil, err
	}

	var task *models.Task
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		active, err := tx.Tasks.CountActive(ctx, rescuerID)
		if err != nil {
			return fmt.Errorf("count active tasks: %w", err)
		}
		if active >= s.opts.MaxActiveTasks {
			return fmt.Errorf("%w: rescuer %d has %d active tasks (max %d)", ErrCapacityExceeded, rescuerID, active, s.opts.MaxActiveTasks)
		}

		t := &models.Task{RescuerID: rescuerID, Status: models.TaskStatusPending}
		if target.RequestID != 0 {
			req, err := tx.Requests.GetByID(ctx, target.RequestID)
			if err != nil {
				return fmt.Errorf("get request: %w", err)
			}
			if req == nil {
				return notFound("request", target.RequestID)
			}
			if req.TaskID != nil {
				return fmt.Errorf("%w: request %d is already claimed by task %d", ErrConflict, req.ID, *req.TaskID)
			}
			if req.Status == models.SupplyStatusReceived {
				return fmt.Errorf("%w: request %d was already delivered", ErrConflict, req.ID)
			}
			t.RequestID = &req.ID
		} else {
			off, err := tx.Offers.GetByID(ctx, target.OfferID)
			if err != nil {
				return fmt.Errorf("get offer: %w", err)
			}
			if off == nil {
				return notFound("offer", target.OfferID)
			}
			if off.TaskID != nil {
				return fmt.Errorf("%w: offer %d is already claimed by task %d", ErrConflict, off.ID, *off.TaskID)
			}
			if off.Status == models.SupplyStatusReceived {
				return fmt.Errorf("%w: offer %d was already received", ErrConflict, off.ID)
			}
			t.OfferID = &off.ID
		}

		created, err := tx.Tasks.Create(ctx, t)
		if err != nil {
			return storeErr("create task", err)
		}
		if created.OfferID != nil {
			if err := tx.Offers.UpdateStatus(ctx, *created.OfferID, models.SupplyStatusApproved); err != nil {
				return storeErr("approve offer", err)
			}
		}
		task = created
		return nil
	})
	if err != nil {
		s.metrics.ClaimRejected(rejectReason(err))
		s.log.Info("claim rejected",
			zap.Int64("rescuer_id", rescuerID),
			zap.String("target", target.kind()),
			zap.Int64("request_id", target.RequestID),
			zap.Int64("offer_id", target.OfferID),
			zap.Error(err))
		return nil, err
	}

	s.metrics.TaskClaimed(target.kind())
	s.log.Info("task claimed",
		zap.Int64("task_id", task.ID),
		zap.Int64("rescuer_id", rescuerID),
		zap.String("target", target.kind()))
	return task, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	}
	return "error"
}

// ActiveTaskCount returns how many pending or in-progress tasks a rescuer holds.
func (s *Service) ActiveTaskCount(ctx context.Context, rescuerID int64) (int, error) {
	return s.store.Tasks.CountActive(ctx, rescuerID)
}

// OpenRequests lists requests nobody has claimed or received yet, with the
// owner's position. Rescuers only.
func (s *Service) OpenRequests(ctx context.Context, rescuerID int64) ([]models.Request, error) {
	if err := s.requireRole(ctx, rescuerID, models.RoleRescuer); err != nil {
		return nil, err
	}
	return s.store.Requests.ListOpen(ctx)
}

// OpenOffers lists offers nobody has claimed or received yet, with the
// owner's position. Rescuers only.
func (s *Service) OpenOffers(ctx context.Context, rescuerID int64) ([]models.Offer, error) {
	if err := s.requireRole(ctx, rescuerID, models.RoleRescuer); err != nil {
		return nil, err
	}
	return s.store.Offers.ListOpen(ctx)
}
