// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package identity

import (
	"fmt"

	"github.com/lureyes/altura/internal/platform/apperr"
)

// # Remote Rejections
//
// The identity collaborator rejects a validation with one of a small set of
// stable codes. Each category triggers a different local compensation, so the
// client translates them into distinct types before the service sees them.
// All of them carry the collaborator's code, message and status verbatim.

// AttemptsExceededError means the applicant burned every validation attempt.
type AttemptsExceededError struct {
	*apperr.AppError
}

// BannedNotified reports whether a support ticket was already raised
// upstream, which decides between BANNED and BANNED_NOTIFIED locally.
func (e *AttemptsExceededError) BannedNotified() bool {
	return e.Code == apperr.CodeAttemptsExceededNotified
}

func (e *AttemptsExceededError) Unwrap() error { return e.AppError }

// IdentityDataError means the collaborator could not trust the identity data.
type IdentityDataError struct {
	*apperr.AppError
}

// BannedNotified reports whether a support ticket was already raised upstream.
func (e *IdentityDataError) BannedNotified() bool {
	return e.Code == apperr.CodeIdentityDataNotified
}

func (e *IdentityDataError) Unwrap() error { return e.AppError }

// MinorError means the applicant is a minor and may not open an account.
type MinorError struct {
	*apperr.AppError
}

func (e *MinorError) Unwrap() error { return e.AppError }

// TeenPartialError means the applicant is a teenager: the validation itself
// passed but the account needs an adult's authorization. It is an internal
// control-flow signal; the operation still succeeds for the caller.
type TeenPartialError struct {
	UserID string
}

func (e *TeenPartialError) Error() string {
	return fmt.Sprintf("identity validation partial for teen user %s", e.UserID)
}
