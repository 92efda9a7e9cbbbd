package relief

import (
	"context"
	"fmt"
	"strings"

	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// NewRequest is a citizen's ask.
type NewRequest struct {
	ItemID      int64
	Quantity    int64
	PeopleCount int64
	Notes       string
}

// NewOffer is a citizen's pledge.
type NewOffer struct {
	ItemID         int64
	Quantity       int64
	AnnouncementID *int64
}

// CreateRequest records a citizen request. PeopleCount defaults to 1.
func (s *Service) CreateRequest(ctx context.Context, userID int64, in NewRequest) (*models.Request, error) {
	if in.Quantity <= 0 {
		return nil, invalid("quantity", "must be positive")
	}
	if in.PeopleCount < 0 {
		return nil, invalid("people_count", "must be positive")
	}
	if in.PeopleCount == 0 {
		in.PeopleCount = 1
	}
	if err := s.requireItem(ctx, in.ItemID); err != nil {
		return nil, err
	}
	req, err := s.store.Requests.Create(ctx, &models.Request{
		UserID:      userID,
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		PeopleCount: in.PeopleCount,
		Notes:       strings.TrimSpace(in.Notes),
	})
	if err != nil {
		return nil, storeErr("create request", err)
	}
	return req, nil
}

// CreateOffer records a citizen offer, optionally answering an announcement.
// The offered item must be one the announcement asks for.
func (s *Service) CreateOffer(ctx context.Context, userID int64, in NewOffer) (*models.Offer, error) {
	if in.Quantity <= 0 {
		return nil, invalid("quantity", "must be positive")
	}
	if err := s.requireItem(ctx, in.ItemID); err != nil {
		return nil, err
	}
	if in.AnnouncementID != nil {
		a, err := s.store.Announcements.GetByID(ctx, *in.AnnouncementID)
		if err != nil {
			return nil, fmt.Errorf("get announcement: %w", err)
		}
		if a == nil {
			return nil, notFound("announcement", *in.AnnouncementID)
		}
		listed := false
		for _, id := range a.ItemIDs {
			if id == in.ItemID {
				listed = true
				break
			}
		}
		if !listed {
			return nil, invalid("item_id", "item %d is not part of announcement %d", in.ItemID, a.ID)
		}
	}
	off, err := s.store.Offers.Create(ctx, &models.Offer{
		UserID:         userID,
		ItemID:         in.ItemID,
		Quantity:       in.Quantity,
		AnnouncementID: in.AnnouncementID,
	})
	if err != nil {
		return nil, storeErr("create offer", err)
	}
	return off, nil
}

func (s *Service) requireItem(ctx context.Context, itemID int64) error {
	it, err := s.store.Items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if it == nil {
		return notFound("item", itemID)
	}
	return nil
}

// MyRequests lists a citizen's own requests.
func (s *Service) MyRequests(ctx context.Context, userID int64) ([]models.Request, error) {
	return s.store.Requests.ListByUser(ctx, userID)
}

// MyOffers lists a citizen's own offers.
func (s *Service) MyOffers(ctx context.Context, userID int64) ([]models.Offer, error) {
	return s.store.Offers.ListByUser(ctx, userID)
}

// WithdrawRequest deletes a citizen's own request while no rescuer holds it.
func (s *Service) WithdrawRequest(ctx context.Context, userID, requestID int64) error {
	return s.store.InTx(ctx, func(tx *repository.Store) error {
		req, err := tx.Requests.GetByID(ctx, requestID)
		if err != nil {
			return fmt.Errorf("get request: %w", err)
		}
		if req == nil {
			return notFound("request", requestID)
		}
		if req.UserID != userID {
			return fmt.Errorf("%w: request %d belongs to another user", ErrUnauthorized, requestID)
		}
		if req.TaskID != nil {
			return fmt.Errorf("%w: request %d is claimed by task %d", ErrConflict, requestID, *req.TaskID)
		}
		return storeErr("delete request", tx.Requests.Delete(ctx, requestID))
	})
}

// WithdrawOffer deletes a citizen's own offer while no rescuer holds it.
func (s *Service) WithdrawOffer(ctx context.Context, userID, offerID int64) error {
	return s.store.InTx(ctx, func(tx *repository.Store) error {
		off, err := tx.Offers.GetByID(ctx, offerID)
		if err != nil {
			return fmt.Errorf("get offer: %w", err)
		}
		if off == nil {
			return notFound("offer", offerID)
		}
		if off.UserID != userID {
			return fmt.Errorf("%w: offer %d belongs to another user", ErrUnauthorized, offerID)
		}
		if off.TaskID != nil {
			return fmt.Errorf("%w: offer %d is claimed by task %d", ErrConflict, offerID, *off.TaskID)
		}
		return storeErr("delete offer", tx.Offers.Delete(ctx, offerID))
	})
}

// checkPosition accepts both coordinates or neither.
func checkPosition(lat, lng *float64) error {
	if (lat == nil) != (lng == nil) {
		return invalid("location", "latitude and longitude must be given together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return invalid("lat", "must be within [-90, 90]")
	}
	if *lng < -180 || *lng > 180 {
		return invalid("lng", "must be within [-180, 180]")
	}
	return nil
}

// SetLocation updates a user's last-known position. Nil for both clears it.
func (s *Service) SetLocation(ctx context.Context, userID int64, lat, lng *float64) error {
	if err := checkPosition(lat, lng); err != nil {
		return err
	}
	return storeErr("update location", s.store.Users.UpdateLocation(ctx, userID, lat, lng))
}

// RegisterVehicle gives a rescuer their single vehicle, initially inactive.
func (s *Service) RegisterVehicle(ctx context.Context, rescuerID int64, name string, capacity int64) (*models.Vehicle, error) {
	if err := s.requireRole(ctx, rescuerID, models.RoleRescuer); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if capacity < 0 {
		return nil, invalid("capacity", "must not be negative")
	}
	v, err := s.store.Vehicles.Create(ctx, &models.Vehicle{UserID: rescuerID, Name: name, Capacity: capacity})
	if err != nil {
		return nil, storeErr("create vehicle", err)
	}
	return v, nil
}

// MyVehicle returns the rescuer's vehicle.
func (s *Service) MyVehicle(ctx context.Context, rescuerID int64) (*models.Vehicle, error) {
	v, err := s.store.Vehicles.GetByUserID(ctx, rescuerID)
	if err != nil {
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: user %d has no vehicle", ErrNotFound, rescuerID)
	}
	return v, nil
}

// MoveVehicle repositions the rescuer's vehicle.
func (s *Service) MoveVehicle(ctx context.Context, rescuerID int64, lat, lng *float64) (*models.Vehicle, error) {
	if err := checkPosition(lat, lng); err != nil {
		return nil, err
	}
	v, err := s.MyVehicle(ctx, rescuerID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Vehicles.UpdateLocation(ctx, v.ID, lat, lng); err != nil {
		return nil, storeErr("move vehicle", err)
	}
	v.Lat, v.Lng = lat, lng
	return v, nil
}

// SetVehicleStatus changes the rescuer's vehicle availability.
func (s *Service) SetVehicleStatus(ctx context.Context, rescuerID int64, status models.VehicleStatus) (*models.Vehicle, error) {
	switch status {
	case models.VehicleStatusActive, models.VehicleStatusMaintenance, models.VehicleStatusInactive:
	default:
		return nil, invalid("status", "unknown vehicle status %q", status)
	}
	v, err := s.MyVehicle(ctx, rescuerID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Vehicles.UpdateStatus(ctx, v.ID, status); err != nil {
		return nil, storeErr("update vehicle status", err)
	}
	v.Status = status
	return v, nil
}
