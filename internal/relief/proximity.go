package relief

import (
	"context"
	"fmt"
	"math"

	"reliefCoordination/internal/geo"
	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// Proximity is the completion gate evaluated for one task.
type Proximity struct {
	// DistanceMeters is +Inf when either position is unknown.
	DistanceMeters float64
	RadiusMeters   float64
	CanComplete    bool
}

// TaskProximity reports how far the owning rescuer's vehicle is from the
// person behind the task's request or offer.
func (s *Service) TaskProximity(ctx context.Context, rescuerID, taskID int64) (*models.Task, Proximity, error) {
	task, err := s.GetTask(ctx, rescuerID, taskID)
	if err != nil {
		return nil, Proximity{}, err
	}
	dist, err := s.taskDistance(ctx, s.store, task)
	if err != nil {
		return nil, Proximity{}, err
	}
	return task, Proximity{
		DistanceMeters: dist,
		RadiusMeters:   s.opts.CompletionRadiusMeters,
		CanComplete:    dist < s.opts.CompletionRadiusMeters,
	}, nil
}

// taskDistance measures rescuer vehicle to target owner in meters.
func (s *Service) taskDistance(ctx context.Context, st *repository.Store, task *models.Task) (float64, error) {
	vehicle, err := st.Vehicles.GetByUserID(ctx, task.RescuerID)
	if err != nil {
		return 0, fmt.Errorf("get vehicle: %w", err)
	}
	ownerID, err := targetOwner(ctx, st, task)
	if err != nil {
		return 0, err
	}
	owner, err := st.Users.GetByID(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("get target owner: %w", err)
	}
	return geo.Distance(vehicle.Position(), owner.Position()), nil
}

func targetOwner(ctx context.Context, st *repository.Store, task *models.Task) (int64, error) {
	if task.OfferID != nil {
		off, err := st.Offers.GetByID(ctx, *task.OfferID)
		if err != nil {
			return 0, fmt.Errorf("get offer: %w", err)
		}
		if off == nil {
			return 0, notFound("offer", *task.OfferID)
		}
		return off.UserID, nil
	}
	if task.RequestID == nil {
		return 0, fmt.Errorf("task %d has no request or offer", task.ID)
	}
	req, err := st.Requests.GetByID(ctx, *task.RequestID)
	if err != nil {
		return 0, fmt.Errorf("get request: %w", err)
	}
	if req == nil {
		return 0, notFound("request", *task.RequestID)
	}
	return req.UserID, nil
}

func formatMeters(d float64) string {
	if math.IsInf(d, 1) {
		return "an unknown distance"
	}
	return fmt.Sprintf("%.0f m", d)
}
