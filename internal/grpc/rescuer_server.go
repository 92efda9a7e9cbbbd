package grpcserver

import (
	"context"
	"math"

	"reliefCoordination/internal/auth"
	"reliefCoordination/internal/relief"
	"reliefCoordination/models"
)

// RescuerServer implements RescuerService RPCs.
type RescuerServer struct {
	Svc   *relief.Service
	Users auth.UserDirectory
}

func (s *RescuerServer) rescuer(ctx context.Context) (*models.User, error) {
	return auth.RequireRole(ctx, s.Users, models.RoleRescuer)
}

// ClaimTask binds the caller to an open request or offer.
func (s *RescuerServer) ClaimTask(ctx context.Context, in *ClaimTaskRequest) (*TaskResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.Svc.ClaimTask(ctx, u.ID, relief.Target{RequestID: in.RequestID, OfferID: in.OfferID})
	if err != nil {
		return nil, toStatus(err)
	}
	return &TaskResponse{Task: task}, nil
}

// UpdateTask moves a task forward and/or edits its description.
func (s *RescuerServer) UpdateTask(ctx context.Context, in *UpdateTaskRequest) (*TaskResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.Svc.UpdateTask(ctx, u.ID, in.TaskID, relief.TaskUpdate{
		Status:      models.TaskStatus(in.Status),
		Description: in.Description,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &TaskResponse{Task: task}, nil
}

func (s *RescuerServer) DeleteTask(ctx context.Context, in *TaskIDRequest) (*Empty, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Svc.DeleteTask(ctx, u.ID, in.TaskID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

// GetTask returns the task with its proximity gate.
func (s *RescuerServer) GetTask(ctx context.Context, in *TaskIDRequest) (*GetTaskResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	task, prox, err := s.Svc.TaskProximity(ctx, u.ID, in.TaskID)
	if err != nil {
		return nil, toStatus(err)
	}
	out := &GetTaskResponse{Task: task, RadiusMeters: prox.RadiusMeters, CanComplete: prox.CanComplete}
	if !math.IsInf(prox.DistanceMeters, 0) {
		d := prox.DistanceMeters
		out.DistanceMeters = &d
	}
	return out, nil
}

func (s *RescuerServer) ListTasks(ctx context.Context, in *ListTasksRequest) (*ListTasksResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.Svc.ListTasks(ctx, u.ID, taskStatuses(in.Statuses), in.PageSize, in.AfterID)
	if err != nil {
		return nil, toStatus(err)
	}
	return taskPage(tasks, in.PageSize), nil
}

func taskStatuses(in []string) []models.TaskStatus {
	out := make([]models.TaskStatus, 0, len(in))
	for _, st := range in {
		out = append(out, models.TaskStatus(st))
	}
	return out
}

// taskPage sets the cursor when the page came back full.
func taskPage(tasks []models.Task, pageSize int) *ListTasksResponse {
	out := &ListTasksResponse{Tasks: tasks}
	if pageSize > 0 && len(tasks) == pageSize {
		out.NextAfterID = tasks[len(tasks)-1].ID
	}
	return out
}

func (s *RescuerServer) ListOpenRequests(ctx context.Context, _ *Empty) (*ListRequestsResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := s.Svc.OpenRequests(ctx, u.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListRequestsResponse{Requests: reqs}, nil
}

func (s *RescuerServer) ListOpenOffers(ctx context.Context, _ *Empty) (*ListOffersResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	offs, err := s.Svc.OpenOffers(ctx, u.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListOffersResponse{Offers: offs}, nil
}

func (s *RescuerServer) RegisterVehicle(ctx context.Context, in *RegisterVehicleRequest) (*VehicleResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.Svc.RegisterVehicle(ctx, u.ID, in.Name, in.Capacity)
	if err != nil {
		return nil, toStatus(err)
	}
	return &VehicleResponse{Vehicle: v}, nil
}

// MoveVehicle sets the vehicle's last-known position.
func (s *RescuerServer) MoveVehicle(ctx context.Context, in *MoveVehicleRequest) (*VehicleResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.Svc.MoveVehicle(ctx, u.ID, in.Lat, in.Lng)
	if err != nil {
		return nil, toStatus(err)
	}
	return &VehicleResponse{Vehicle: v}, nil
}

func (s *RescuerServer) SetVehicleStatus(ctx context.Context, in *SetVehicleStatusRequest) (*VehicleResponse, error) {
	u, err := s.rescuer(ctx)
	if err != nil {
		return nil, err
	}
	v, err := s.Svc.SetVehicleStatus(ctx, u.ID, models.VehicleStatus(in.Status))
	if err != nil {
		return nil, toStatus(err)
	}
	return &VehicleResponse{Vehicle: v}, nil
}
