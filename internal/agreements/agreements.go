// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package agreements exposes the service agreement catalogue.

A service agreement names the commercial product a sign-up belongs to and
pins it to one business model. The catalogue is small, seeded by migration,
and read-only at runtime.
*/
package agreements

import (
	"context"

	"github.com/lureyes/altura/internal/users"
)

// ServiceAgreement is one row of the agreement catalogue.
type ServiceAgreement struct {
	ID            int                 `json:"id"`
	BusinessModel users.BusinessModel `json:"business_model"`
}

// Repository reads the agreement catalogue.
type Repository interface {
	// Get retrieves an agreement by id.
	//
	// # Returns
	//   - The agreement, or apperr.NotFound when absent.
	Get(ctx context.Context, id int) (*ServiceAgreement, error)
}
