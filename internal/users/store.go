// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package users

import "context"

// # Repository Contracts
//
// Repositories never apply business rules. They are storage or HTTP
// pass-throughs whose only domain-relevant behavior is translating
// transport-level failures into the application error taxonomy.

// UserRepository defines the persistence contract for the User aggregate.
type UserRepository interface {
	/*
		Save upserts the user together with its owned contact methods and
		address links. Idempotent; safe to call again with the same state.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated aggregate)

		Returns:
		  - error: Storage failures
	*/
	Save(context context.Context, user *User) error

	/*
		GetByID retrieves a user aggregate by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded aggregate with contact methods and address links
		  - error: apperr.NotFound or storage failures
	*/
	GetByID(context context.Context, id string) (*User, error)

	/*
		GetByServiceAgreementAndEmail looks a user up by the pair that uniquely
		identifies a sign-up attempt.

		Returns:
		  - *User: The match, or nil when no user exists (not an error)
		  - error: Storage failures only
	*/
	GetByServiceAgreementAndEmail(context context.Context, serviceAgreementID int, email string) (*User, error)

	/*
		GetByCustomerAndServiceAgreement resolves a user from its linked
		customer within one service agreement.

		Returns:
		  - *User: The match, or nil when no user exists (not an error)
		  - error: Storage failures only
	*/
	GetByCustomerAndServiceAgreement(context context.Context, customerID string, serviceAgreementID int) (*User, error)

	/*
		GetByCustomerAndBusinessModel resolves a user from its linked customer
		across every agreement of one business model.

		Returns:
		  - *User: The match, or nil when no user exists (not an error)
		  - error: Storage failures only
	*/
	GetByCustomerAndBusinessModel(context context.Context, customerID string, model BusinessModel) (*User, error)
}

// ContactMethodRepository defines direct access to contact methods outside
// the User aggregate, used by the email token validation flow.
type ContactMethodRepository interface {
	/*
		Save persists a single contact method and its embedded confirmation.

		Returns:
		  - error: Storage failures
	*/
	Save(context context.Context, method *ContactMethod) error

	/*
		GetByConfirmationValue resolves a contact method from the opaque
		confirmation secret (the emailed token). The token is a lookup key;
		it is never decoded.

		Returns:
		  - *ContactMethod: The match, or nil when the token is unknown
		  - error: Storage failures only
	*/
	GetByConfirmationValue(context context.Context, value string) (*ContactMethod, error)
}

// ContactMethodTypeRepository exposes the contact method type catalogue.
type ContactMethodTypeRepository interface {
	/*
		Get resolves a catalogue row by description ("EMAIL", "PHONE").

		Returns:
		  - *ContactMethodType: The row, or nil when the description is unknown
		  - error: Storage failures only
	*/
	Get(context context.Context, description string) (*ContactMethodType, error)
}

// CustomerDirectory is the read-side contract against the external customer
// registry, sufficient for user lookups. The identity workflow consumes a
// wider contract defined in its own package.
type CustomerDirectory interface {
	/*
		GetByID fetches one customer record.

		Returns:
		  - *Customer: The record
		  - error: apperr.NotFound or collaborator failures
	*/
	GetByID(context context.Context, customerID string) (*Customer, error)

	/*
		ListByDocument fetches every customer holding the given document.
		An empty list is a valid result, not an error.

		Returns:
		  - []*Customer: Possibly empty list of matches
		  - error: Collaborator failures
	*/
	ListByDocument(context context.Context, documentType DocumentType, documentValue string) ([]*Customer, error)
}
