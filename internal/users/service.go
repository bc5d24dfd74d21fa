// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package users

import (
	"context"
	"fmt"

	"github.com/lureyes/altura/internal/command"
	"github.com/lureyes/altura/internal/platform/apperr"
)

// # Commands

// GetUserByID requests one user aggregate, optionally enriched with its
// linked customer record.
type GetUserByID struct {
	UserID        string
	FetchCustomer bool
}

// GetUserByDocument resolves a user from a national document, scoped either
// to one service agreement or to a whole business model. Exactly one of the
// two scopes must be set.
type GetUserByDocument struct {
	DocumentType       DocumentType
	DocumentValue      string
	ServiceAgreementID *int
	BusinessModel      *BusinessModel
}

// GetUserContactMethods requests every contact method of one user.
type GetUserContactMethods struct {
	UserID string
}

// Service implements the user read use cases.
type Service struct {
	userRepository UserRepository
	customers      CustomerDirectory
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(userRepo UserRepository, customers CustomerDirectory) *Service {
	return &Service{
		userRepository: userRepo,
		customers:      customers,
	}
}

// RegisterHandlers wires every user read command into the dispatcher.
func RegisterHandlers(dispatcher *command.Dispatcher, service *Service) {
	command.Register(dispatcher, service.GetByID)
	command.Register(dispatcher, service.GetByDocument)
	command.Register(dispatcher, service.GetContactMethods)
}

/*
GetByID loads a user aggregate by id.

Description: Primary-key resolution; when FetchCustomer is set, the linked
customer record is fetched from the registry and attached.

Parameters:
  - context: context.Context
  - action: GetUserByID

Returns:
  - *User: Hydrated aggregate
  - error: apperr.NotFound or collaborator failures
*/
func (service *Service) GetByID(context context.Context, action GetUserByID) (*User, error) {
	user, err := service.userRepository.GetByID(context, action.UserID)
	if err != nil {
		return nil, err
	}

	if action.FetchCustomer && user.CustomerID != nil {
		customer, err := service.customers.GetByID(context, *user.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("users_service_fetch_customer_failed: %w", err)
		}
		user.Customer = customer
	}

	return user, nil
}

/*
GetByDocument resolves a user from a national document.

Description: Looks the document up in the customer registry first, then maps
the customer back to a local user within the requested scope.

Parameters:
  - context: context.Context
  - action: GetUserByDocument

Returns:
  - *User: The resolved user with its customer attached, or nil when no user
    in the requested scope holds the document
  - error: apperr.NotFound when the document is unknown to the registry,
    apperr.Validation when neither scope is supplied
*/
func (service *Service) GetByDocument(context context.Context, action GetUserByDocument) (*User, error) {
	if action.ServiceAgreementID == nil && action.BusinessModel == nil {
		return nil, apperr.Validation("Either service_agreement_id or business_model is required")
	}

	customers, err := service.customers.ListByDocument(context, action.DocumentType, action.DocumentValue)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, apperr.NotFound("Customer")
	}

	var user *User
	if action.ServiceAgreementID != nil {
		user, err = service.userRepository.GetByCustomerAndServiceAgreement(
			context, customers[0].ID, *action.ServiceAgreementID)
	} else {
		user, err = service.userRepository.GetByCustomerAndBusinessModel(
			context, customers[0].ID, *action.BusinessModel)
	}
	if err != nil {
		return nil, err
	}

	// A customer without a user in the requested scope is not an error
	if user == nil {
		return nil, nil
	}

	user.Customer = customers[0]
	return user, nil
}

/*
GetContactMethods lists every contact method of one user.

Parameters:
  - context: context.Context
  - action: GetUserContactMethods

Returns:
  - []*ContactMethod: The user's contact methods, possibly empty
  - error: apperr.NotFound when the user is unknown
*/
func (service *Service) GetContactMethods(context context.Context, action GetUserContactMethods) ([]*ContactMethod, error) {
	user, err := service.userRepository.GetByID(context, action.UserID)
	if err != nil {
		return nil, err
	}
	return user.ContactMethods, nil
}
