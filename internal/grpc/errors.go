package grpcserver

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"reliefCoordination/internal/relief"
)

// toStatus maps relief failures onto gRPC status codes. Errors that already
// carry a status pass through.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, relief.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, relief.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, relief.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, relief.ErrCapacityExceeded):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, relief.ErrOutOfRange):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, relief.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Errorf(codes.Internal, "internal error: %v", err)
}
