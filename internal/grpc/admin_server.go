package grpcserver

import (
	"context"

	"reliefCoordination/internal/auth"
	"reliefCoordination/internal/relief"
	"reliefCoordination/models"
	"reliefCoordination/repository"
)

// AdminServer implements AdminService RPCs.
type AdminServer struct {
	Svc   *relief.Service
	Users auth.UserDirectory
}

func (s *AdminServer) admin(ctx context.Context) (*models.User, error) {
	return auth.RequireRole(ctx, s.Users, models.RoleAdmin)
}

func (s *AdminServer) CreateCategory(ctx context.Context, in *CreateCategoryRequest) (*CategoryResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.Svc.CreateCategory(ctx, u.ID, in.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CategoryResponse{Category: c}, nil
}

func (s *AdminServer) CreateItem(ctx context.Context, in *CreateItemRequest) (*ItemResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	it, err := s.Svc.CreateItem(ctx, u.ID, in.Name, in.CategoryID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ItemResponse{Item: it}, nil
}

func (s *AdminServer) DeleteItem(ctx context.Context, in *IDRequest) (*Empty, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.DeleteItem(ctx, u.ID, in.ID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *AdminServer) ListInventory(ctx context.Context, in *ListInventoryRequest) (*ListInventoryResponse, error) {
	if _, err := s.admin(ctx); err != nil {
		return nil, err
	}
	entries, err := s.Svc.ListInventory(ctx, repository.ListInventoryParams{CategoryIDs: in.CategoryIDs, InStockOnly: in.InStockOnly})
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListInventoryResponse{Entries: entries}, nil
}

// SetInventory overwrites one item's stock.
func (s *AdminServer) SetInventory(ctx context.Context, in *SetInventoryRequest) (*Empty, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.SetInventory(ctx, u.ID, in.ItemID, in.Quantity); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *AdminServer) CreateAnnouncement(ctx context.Context, in *CreateAnnouncementRequest) (*AnnouncementResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	a, err := s.Svc.CreateAnnouncement(ctx, u.ID, in.Content, in.ItemIDs)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AnnouncementResponse{Announcement: a}, nil
}

// ListAnnouncements is open to every authenticated caller so citizens can
// answer announcements with offers.
func (s *AdminServer) ListAnnouncements(ctx context.Context, in *ListAnnouncementsRequest) (*ListAnnouncementsResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	list, err := s.Svc.ListAnnouncements(ctx, in.Limit)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListAnnouncementsResponse{Announcements: list}, nil
}

func (s *AdminServer) GrantRole(ctx context.Context, in *GrantRoleRequest) (*Empty, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.GrantRole(ctx, u.ID, in.Username, models.Role(in.Role)); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *AdminServer) RevokeRole(ctx context.Context, in *GrantRoleRequest) (*Empty, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.RevokeRole(ctx, u.ID, in.Username, models.Role(in.Role)); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// ListVehicles returns the fleet, optionally filtered by status or name.
func (s *AdminServer) ListVehicles(ctx context.Context, in *ListVehiclesRequest) (*ListVehiclesResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	p := repository.ListVehiclesParams{PageSize: in.PageSize, AfterID: in.AfterID}
	if in.Status != "" {
		st := models.VehicleStatus(in.Status)
		p.Status = &st
	}
	if in.NameContains != "" {
		p.NameContains = &in.NameContains
	}
	vs, err := s.Svc.ListVehicles(ctx, u.ID, p)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListVehiclesResponse{Vehicles: vs}, nil
}

func supplyStatus(s string) *models.SupplyStatus {
	if s == "" {
		return nil
	}
	st := models.SupplyStatus(s)
	return &st
}

func supplyStatusPtr(s *string) *models.SupplyStatus {
	if s == nil {
		return nil
	}
	st := models.SupplyStatus(*s)
	return &st
}

func (s *AdminServer) ListRequests(ctx context.Context, in *ListSupplyRequest) (*ListRequestsResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.Svc.AllRequests(ctx, u.ID, supplyStatus(in.Status))
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListRequestsResponse{Requests: reqs}, nil
}

func (s *AdminServer) UpdateRequest(ctx context.Context, in *UpdateRequestRequest) (*RequestResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	req, err := s.Svc.EditRequest(ctx, u.ID, in.ID, relief.RequestEdit{
		Status:      supplyStatusPtr(in.Status),
		Quantity:    in.Quantity,
		PeopleCount: in.PeopleCount,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &RequestResponse{Request: req}, nil
}

func (s *AdminServer) DeleteRequest(ctx context.Context, in *IDRequest) (*Empty, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.DeleteRequest(ctx, u.ID, in.ID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *AdminServer) ListOffers(ctx context.Context, in *ListSupplyRequest) (*ListOffersResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	offs, err := s.Svc.AllOffers(ctx, u.ID, supplyStatus(in.Status))
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListOffersResponse{Offers: offs}, nil
}

func (s *AdminServer) UpdateOffer(ctx context.Context, in *UpdateOfferRequest) (*OfferResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	off, err := s.Svc.EditOffer(ctx, u.ID, in.ID, relief.OfferEdit{Status: supplyStatusPtr(in.Status), Quantity: in.Quantity})
	if err != nil {
		return nil, toStatus(err)
	}
	return &OfferResponse{Offer: off}, nil
}

func (s *AdminServer) DeleteOffer(ctx context.Context, in *IDRequest) (*Empty, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.DeleteOffer(ctx, u.ID, in.ID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// ListAllTasks pages through every rescuer's tasks.
func (s *AdminServer) ListAllTasks(ctx context.Context, in *ListTasksRequest) (*ListTasksResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Svc.AllTasks(ctx, u.ID, taskStatuses(in.Statuses), in.PageSize, in.AfterID)
	if err != nil {
		return nil, toStatus(err)
	}
	return taskPage(tasks, in.PageSize), nil
}

// GetBase is open to every authenticated caller; all maps show the base.
func (s *AdminServer) GetBase(ctx context.Context, _ *Empty) (*BaseResponse, error) {
	if _, err := auth.RequirePrincipal(ctx); err != nil {
		return nil, err
	}
	b, err := s.Svc.Base(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &BaseResponse{Base: b}, nil
}

func (s *AdminServer) MoveBase(ctx context.Context, in *MoveBaseRequest) (*BaseResponse, error) {
	u, err := s.admin(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.Svc.MoveBase(ctx, u.ID, in.Lat, in.Lng)
	if err != nil {
		return nil, toStatus(err)
	}
	return &BaseResponse{Base: b}, nil
}
