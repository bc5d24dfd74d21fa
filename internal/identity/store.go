// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package identity

import (
	"context"

	"github.com/lureyes/altura/internal/users"
)

// # Collaborator Contracts

// IdentityValidationRepository fronts the external identity validation
// collaborator.
type IdentityValidationRepository interface {
	// ValidateIdentity submits evidence for validation.
	//
	// # Returns
	//   - The validated user id on success, or "" while the validation is
	//     still pending upstream.
	//   - *AttemptsExceededError, *IdentityDataError, *MinorError, or
	//     *TeenPartialError on categorized rejections; other remote errors
	//     pass through.
	ValidateIdentity(ctx context.Context, request ValidationRequest) (string, error)

	// GetIdentityByUserID fetches the applicant's verified identity record.
	GetIdentityByUserID(ctx context.Context, userID string) (*Identity, error)

	// ConfirmIdentity marks the validated identity as confirmed upstream.
	//
	// # Returns
	//   - The confirmed user id.
	ConfirmIdentity(ctx context.Context, userID string) (string, error)
}

// CustomerRepository fronts the external customer collaborator.
type CustomerRepository interface {
	// GetByID fetches a customer by id.
	GetByID(ctx context.Context, customerID string) (*users.Customer, error)

	// ListByDNI lists customers holding the given national document.
	// An empty list is a valid result.
	ListByDNI(ctx context.Context, dni string) ([]*users.Customer, error)

	// ListByCUIL lists customers holding the given tax id.
	// An empty list is a valid result.
	ListByCUIL(ctx context.Context, cuil string) ([]*users.Customer, error)

	// Create registers a new customer from a verified identity.
	//
	// # Returns
	//   - The created customer id.
	Create(ctx context.Context, identity *Identity) (string, error)

	// UpdateLegalValidation forwards the applicant's legal declarations.
	UpdateLegalValidation(ctx context.Context, action LegalValidation) error
}

// AddressRepository fronts the external address collaborator.
type AddressRepository interface {
	// List retrieves the user's captured addresses.
	//
	// # Returns
	//   - The addresses, or apperr.MissingAddress when the collaborator
	//     explicitly reports the user has none.
	List(ctx context.Context, userID string) ([]Address, error)
}
