package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/and161185/travel-kanban/internal/errs"
)

// codeOf maps a domain error onto a gRPC status code.
func codeOf(err error) codes.Code {
	if st, ok := status.FromError(err); ok {
		return st.Code()
	}
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, errs.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, errs.ErrPermissionDenied):
		return codes.PermissionDenied
	case errors.Is(err, errs.ErrUnauthorized):
		return codes.Unauthenticated
	case errors.Is(err, errs.ErrRateLimited):
		return codes.ResourceExhausted
	case errors.Is(err, errs.ErrAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// toStatus converts err into a status error. Internal failures keep their detail out
// of the response.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := codeOf(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}
