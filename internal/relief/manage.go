package relief

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// RequestEdit is an admin correction to a request. Nil fields are left as they are.
type RequestEdit struct {
	Status      *models.SupplyStatus
	Quantity    *int64
	PeopleCount *int64
}

// OfferEdit is an admin correction to an offer. Nil fields are left as they are.
type OfferEdit struct {
	Status   *models.SupplyStatus
	Quantity *int64
}

func checkSupplyStatus(st models.SupplyStatus) error {
	switch st {
	case models.SupplyStatusPending, models.SupplyStatusApproved, models.SupplyStatusReceived:
		return nil
	}
	return invalid("status", "unknown status %q", st)
}

// lockedQuantity refuses a quantity change once the attached task has
// completed, so a later reversal undoes exactly what was applied.
func lockedQuantity(ctx context.Context, tx *repository.Store, taskID *int64, what string, id int64) error {
	if taskID == nil {
		return nil
	}
	task, err := tx.Tasks.GetByID(ctx, *taskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if task != nil && task.Status == models.TaskStatusCompleted {
		return fmt.Errorf("%w: %s %d was delivered by task %d; its quantity is fixed", ErrConflict, what, id, task.ID)
	}
	return nil
}

// AllRequests lists every request, optionally with one status. Admins only.
func (s *Service) AllRequests(ctx context.Context, adminID int64, status *models.SupplyStatus) ([]models.Request, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if status != nil {
		if err := checkSupplyStatus(*status); err != nil {
			return nil, err
		}
	}
	return s.store.Requests.List(ctx, status)
}

// EditRequest corrects a request's status, quantity or people count. Admins only.
func (s *Service) EditRequest(ctx context.Context, adminID, requestID int64, e RequestEdit) (*models.Request, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	var out *models.Request
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		req, err := tx.Requests.GetByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if req == nil {
			return notFound("request", requestID)
		}
		if e.Status != nil {
			if err := checkSupplyStatus(*e.Status); err != nil {
				return err
			}
			req.Status = *e.Status
		}
		if e.Quantity != nil && *e.Quantity != req.Quantity {
			if *e.Quantity <= 0 {
				return invalid("quantity", "must be positive")
			}
			if err := lockedQuantity(ctx, tx, req.TaskID, "request", req.ID); err != nil {
				return err
			}
			req.Quantity = *e.Quantity
		}
		if e.PeopleCount != nil {
			if *e.PeopleCount <= 0 {
				return invalid("people_count", "must be positive")
			}
			req.PeopleCount = *e.PeopleCount
		}
		if err := tx.Requests.Update(ctx, req); err != nil {
			return storeErr("update request", err)
		}
		out, err = tx.Requests.GetByID(ctx, req.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("request edited", zap.Int64("admin_id", adminID), zap.Int64("request_id", requestID), zap.String("status", string(out.Status)))
	return out, nil
}

// DeleteRequest removes a request and any task attached to it. Stock is not
// touched. Admins only.
func (s *Service) DeleteRequest(ctx context.Context, adminID, requestID int64) error {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.store.Requests.Delete(ctx, requestID); err != nil {
		return storeErr(fmt.Sprintf("delete request %d", requestID), err)
	}
	s.log.Info("request deleted", zap.Int64("admin_id", adminID), zap.Int64("request_id", requestID))
	return nil
}

// AllOffers lists every offer, optionally with one status. Admins only.
func (s *Service) AllOffers(ctx context.Context, adminID int64, status *models.SupplyStatus) ([]models.Offer, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if status != nil {
		if err := checkSupplyStatus(*status); err != nil {
			return nil, err
		}
	}
	return s.store.Offers.List(ctx, status)
}

// EditOffer corrects an offer's status or quantity. Admins only.
func (s *Service) EditOffer(ctx context.Context, adminID, offerID int64, e OfferEdit) (*models.Offer, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	var out *models.Offer
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		off, err := tx.Offers.GetByID(ctx, offerID)
		if err != nil {
			return fmt.Errorf("get offer: %w", err)
		}
		if off == nil {
			return notFound("offer", offerID)
		}
		if e.Status != nil {
			if err := checkSupplyStatus(*e.Status); err != nil {
				return err
			}
			off.Status = *e.Status
		}
		if e.Quantity != nil && *e.Quantity != off.Quantity {
			if *e.Quantity <= 0 {
				return invalid("quantity", "must be positive")
			}
			if err := lockedQuantity(ctx, tx, off.TaskID, "offer", off.ID); err != nil {
				return err
			}
			off.Quantity = *e.Quantity
		}
		if err := tx.Offers.Update(ctx, off); err != nil {
			return storeErr("update offer", err)
		}
		out, err = tx.Offers.GetByID(ctx, off.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("offer edited", zap.Int64("admin_id", adminID), zap.Int64("offer_id", offerID), zap.String("status", string(out.Status)))
	return out, nil
}

// DeleteOffer removes an offer and any task attached to it. Stock is not
// touched. Admins only.
func (s *Service) DeleteOffer(ctx context.Context, adminID, offerID int64) error {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.store.Offers.Delete(ctx, offerID); err != nil {
		return storeErr(fmt.Sprintf("delete offer %d", offerID), err)
	}
	s.log.Info("offer deleted", zap.Int64("admin_id", adminID), zap.Int64("offer_id", offerID))
	return nil
}

// AllTasks pages through every rescuer's tasks, newest first. Admins only.
func (s *Service) AllTasks(ctx context.Context, adminID int64, statuses []models.TaskStatus, pageSize int, afterID int64) ([]models.Task, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	for _, st := range statuses {
		if st.Rank() < 0 {
			return nil, invalid("status", "unknown status %q", st)
		}
	}
	return s.store.Tasks.List(ctx, repository.ListTasksParams{
		Statuses: statuses,
		PageSize: pageSize,
		AfterID:  afterID,
	})
}

// Base returns the warehouse position.
func (s *Service) Base(ctx context.Context) (*models.Base, error) {
	b, err := s.store.Base.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get base: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: base has not been placed", ErrNotFound)
	}
	return b, nil
}

// MoveBase places the warehouse. Admins only.
func (s *Service) MoveBase(ctx context.Context, adminID int64, lat, lng float64) (*models.Base, error) {
	if err := s.requireRole(ctx, adminID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := checkPosition(&lat, &lng); err != nil {
		return nil, err
	}
	b, err := s.store.Base.Set(ctx, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("move base: %w", err)
	}
	s.log.Info("base moved", zap.Int64("admin_id", adminID), zap.Float64("lat", lat), zap.Float64("lng", lng))
	return b, nil
}
