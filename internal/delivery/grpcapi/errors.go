package grpcapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus maps domain errors onto gRPC codes. Storage failures hide their
// cause: callers only learn to try again.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotAuthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyEscalated), errors.Is(err, domain.ErrAlreadyAssigned):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.IsRetryable(err):
		return status.Error(codes.Unavailable, "temporarily unavailable, try again")
	case errors.Is(err, domain.ErrStorage):
		return status.Error(codes.Internal, "storage failure, try again")
	}
	return status.Error(codes.Internal, "internal error")
}

// UnaryErrorInterceptor converts handler errors with ToStatus and logs the
// ones that are not the caller's fault.
func UnaryErrorInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("panic in grpc handler", "method", info.FullMethod, "panic", p)
				err = status.Error(codes.Internal, "internal error")
			}
		}()

		resp, err = handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !domain.IsBusiness(err) {
			logger.Error("grpc call failed",
				"method", info.FullMethod,
				"error", err.Error(),
			)
		}
		return nil, ToStatus(err)
	}
}
