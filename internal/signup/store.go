// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package signup

import (
	"context"
	"time"
)

// # Repository Contracts

// SignUpRepository persists sign-up workflow state.
type SignUpRepository interface {
	// Get retrieves a sign-up by its own id.
	//
	// # Returns
	//   - The sign-up, or apperr.NotFound when absent.
	Get(ctx context.Context, signUpID string) (*SignUp, error)

	// GetByUserID retrieves the sign-up owned by a user.
	//
	// # Returns
	//   - The sign-up, or apperr.NotFound when the user has none.
	GetByUserID(ctx context.Context, userID string) (*SignUp, error)

	// Save inserts or updates a sign-up. Saving twice with the same id is
	// idempotent.
	Save(ctx context.Context, signUp *SignUp) error
}

// OTPThrottle limits how often a fresh one-time code may be issued to the
// same user. The throttle is advisory state, not workflow state, so it lives
// in the volatile store.
type OTPThrottle interface {
	// Acquire reports whether the user may be sent a new code right now.
	// A successful acquire starts the cool-down window.
	//
	// # Returns
	//   - true when issuance is permitted, false while the window is active.
	Acquire(ctx context.Context, userID string, window time.Duration) (bool, error)
}
