package handler

import (
	"context"
	"errors"

	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// externalKinds is the closed set of error codes allowed to cross the
// handler boundary. Anything else is an internal cause that must be
// folded into one of these before a caller sees it.
var externalKinds = map[string]bool{
	vrperrors.ErrInvalidInput.ErrorCode(): true,
	vrperrors.ErrNotFound.ErrorCode():     true,
	vrperrors.ErrMalformed.ErrorCode():    true,
	vrperrors.ErrInfeasible.ErrorCode():   true,
	vrperrors.ErrTimeout.ErrorCode():      true,
	vrperrors.ErrInternal.ErrorCode():     true,
}

// externalize maps err onto the external error taxonomy. Errors already
// carrying an external kind pass through unchanged; internal sentinels
// (NoDepot, EmptyGraph, UnsupportedFeature, ...) collapse into fallback
// with the richer internal cause preserved in details; context expiry
// becomes Timeout.
func externalize(err error, fallback *vrperrors.BaseError) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return vrperrors.ErrTimeout.WithDetails(err.Error())
	}

	var appErr vrperrors.AppError
	if !errors.As(err, &appErr) {
		return vrperrors.ErrInternal.WithDetails(err.Error())
	}

	if externalKinds[appErr.ErrorCode()] {
		return err
	}

	detail := appErr.ErrorCode() + ": " + appErr.Message()
	if appErr.Details() != "" {
		detail += " (" + appErr.Details() + ")"
	}

	return fallback.WithDetails(detail)
}
