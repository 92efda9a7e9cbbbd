package grpcserver

import (
	"context"

	"reliefCoordination/internal/auth"
	"reliefCoordination/internal/relief"
	"reliefCoordination/models"
)

// CitizenServer implements CitizenService RPCs.
type CitizenServer struct {
	Svc   *relief.Service
	Users auth.UserDirectory
}

func (s *CitizenServer) citizen(ctx context.Context) (*models.User, error) {
	return auth.RequireRole(ctx, s.Users, models.RoleCitizen)
}

func (s *CitizenServer) CreateRequest(ctx context.Context, in *CreateRequestRequest) (*RequestResponse, error) {
	u, err := s.citizen(ctx)
	if err != nil {
		return nil, err
	}
	req, err := s.Svc.CreateRequest(ctx, u.ID, relief.NewRequest{
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		PeopleCount: in.PeopleCount,
		Notes:       in.Notes,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &RequestResponse{Request: req}, nil
}

func (s *CitizenServer) CreateOffer(ctx context.Context, in *CreateOfferRequest) (*OfferResponse, error) {
	u, err := s.citizen(ctx)
	if err != nil {
		return nil, err
	}
	off, err := s.Svc.CreateOffer(ctx, u.ID, relief.NewOffer{
		ItemID:         in.ItemID,
		Quantity:       in.Quantity,
		AnnouncementID: in.AnnouncementID,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &OfferResponse{Offer: off}, nil
}

func (s *CitizenServer) ListMyRequests(ctx context.Context, _ *Empty) (*ListRequestsResponse, error) {
	u, err := s.citizen(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.Svc.MyRequests(ctx, u.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListRequestsResponse{Requests: reqs}, nil
}

func (s *CitizenServer) ListMyOffers(ctx context.Context, _ *Empty) (*ListOffersResponse, error) {
	u, err := s.citizen(ctx)
	if err != nil {
		return nil, err
	}
	offs, err := s.Svc.MyOffers(ctx, u.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListOffersResponse{Offers: offs}, nil
}

// WithdrawRequest deletes one of the caller's unclaimed requests.
func (s *CitizenServer) WithdrawRequest(ctx context.Context, in *IDRequest) (*Empty, error) {
	u, err := s.citizen(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.WithdrawRequest(ctx, u.ID, in.ID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// WithdrawOffer deletes one of the caller's unclaimed offers.
func (s *CitizenServer) WithdrawOffer(ctx context.Context, in *IDRequest) (*Empty, error) {
	u, err := s.citizen(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.WithdrawOffer(ctx, u.ID, in.ID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *CitizenServer) SetLocation(ctx context.Context, in *SetLocationRequest) (*Empty, error) {
	u, err := s.citizen(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.SetLocation(ctx, u.ID, in.Lat, in.Lng); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}
