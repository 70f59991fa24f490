package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage"
)

var errGroupMismatch = errors.New("token does not grant access to this group")

// toConnectError maps domain errors onto Connect codes. Errors that already
// carry a code pass through unchanged.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var validationErr *calculator.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrDuplicateID),
		errors.Is(err, calculator.ErrExactSplitMismatch):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}

// authorize checks that the caller's token is scoped to groupID.
func authorize(ctx context.Context, groupID string) error {
	if groupID == "" {
		return invalidArgument("group_id required")
	}
	if middleware.GetGroupID(ctx) != groupID {
		return connect.NewError(connect.CodePermissionDenied, errGroupMismatch)
	}
	return nil
}
