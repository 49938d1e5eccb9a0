package grpcapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"validation", fmt.Errorf("create: %w", domain.ErrValidation), codes.InvalidArgument},
		{"invalid decision", domain.ErrInvalidDecision, codes.InvalidArgument},
		{"wrong party", domain.ErrWrongParty, codes.PermissionDenied},
		{"not found", domain.ErrNotFound, codes.NotFound},
		{"already escalated", domain.ErrAlreadyEscalated, codes.AlreadyExists},
		{"already assigned", domain.ErrAlreadyAssigned, codes.AlreadyExists},
		{"deadline expired", domain.ErrDeadlineExpired, codes.FailedPrecondition},
		{"retryable", &domain.StorageError{Op: "update", Retryable: true, Err: errors.New("deadlock")}, codes.Unavailable},
		{"storage", &domain.StorageError{Op: "update", Err: errors.New("disk full")}, codes.Internal},
		{"canceled", context.Canceled, codes.Canceled},
		{"unknown", errors.New("boom"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(ToStatus(tt.err)))
		})
	}

	assert.NoError(t, ToStatus(nil))

	st := status.Error(codes.Aborted, "already a status")
	assert.Equal(t, st, ToStatus(st))

	// storage details stay on the server
	msg := status.Convert(ToStatus(&domain.StorageError{Op: "update", Err: errors.New("password=secret")})).Message()
	assert.NotContains(t, msg, "secret")
}

func TestUnaryErrorInterceptor(t *testing.T) {
	interceptor := UnaryErrorInterceptor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	info := &grpc.UnaryServerInfo{FullMethod: "/dispute.v1.Disputes/Escalate"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, domain.ErrAlreadyEscalated
	})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	_, err = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		panic("nil map")
	})
	assert.Equal(t, codes.Internal, status.Code(err))
}
