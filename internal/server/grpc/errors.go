package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error onto the gRPC code the client understands.
// Unknown errors are logged and hidden behind codes.Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, common.ErrNotFound.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ErrAlreadyExists.Error())
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, common.ErrForbidden.Error())
	case errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrInvalidAmount),
		errors.Is(err, common.ErrInvalidCategory),
		errors.Is(err, common.ErrInvalidPeriod),
		errors.Is(err, services.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	s.logger.Error(ctx, "internal error", "error", err)
	return status.Error(codes.Internal, common.ErrInternal.Error())
}
