// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lureyes/altura/internal/command"
	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/signup"
	"github.com/lureyes/altura/internal/users"
)

// # Commands

// ValidateUserIdentity submits the applicant's evidence for validation.
type ValidateUserIdentity struct {
	UserID   string
	Evidence Evidence
}

// GetIdentityValidation reads the applicant's verified identity record.
type GetIdentityValidation struct {
	UserID string
}

// ConfirmIdentity confirms the validated identity against a chosen address.
type ConfirmIdentity struct {
	UserID    string
	AddressID string
}

// UpdateLegalValidation forwards the applicant's legal declarations.
type UpdateLegalValidation struct {
	UserID     string
	PEP        bool
	SO         bool
	FACTA      bool
	Occupation string
	Relation   string
	PEPData    map[string]any
}

// ValidationOutcome is the result of a validation submission. UserID is empty
// while the collaborator is still processing the evidence.
type ValidationOutcome struct {
	UserID  string `json:"user_id,omitempty"`
	Pending bool   `json:"pending"`
}

// IdentityResult couples an identity record with the non-fatal errors
// gathered while enriching it. When Errors is non-empty the HTTP layer
// serves the record as partial content.
type IdentityResult struct {
	Identity *Identity
	Errors   []*apperr.AppError
}

// # Service

// Service implements the identity and legal validation use cases.
type Service struct {
	userRepository   users.UserRepository
	signUpRepository signup.SignUpRepository
	identityRepo     IdentityValidationRepository
	customerRepo     CustomerRepository
	addressRepo      AddressRepository
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo users.UserRepository,
	signUpRepo signup.SignUpRepository,
	identityRepo IdentityValidationRepository,
	customerRepo CustomerRepository,
	addressRepo AddressRepository,
) *Service {
	return &Service{
		userRepository:   userRepo,
		signUpRepository: signUpRepo,
		identityRepo:     identityRepo,
		customerRepo:     customerRepo,
		addressRepo:      addressRepo,
	}
}

// RegisterHandlers wires every identity command into the dispatcher.
func RegisterHandlers(dispatcher *command.Dispatcher, service *Service) {
	command.Register(dispatcher, service.Validate)
	command.Register(dispatcher, service.GetValidation)
	command.Register(dispatcher, service.Confirm)
	command.Register(dispatcher, service.UpdateLegal)
}

// # Identity Validation

/*
Validate submits the applicant's evidence to the identity collaborator and
reconciles the outcome with local state.

Description: The user must be PENDING_VALIDATION and the sign-up at
IDENTITY_VALIDATION. A successful validation marks the user VALIDATED. A
rejection compensates locally before propagating: exceeded attempts or
corrupt identity data ban the user (BANNED_NOTIFIED when a support ticket was
already raised upstream), a minor blocks the whole sign-up. A teenage
applicant is not an error: the user parks at PENDING_AUTHORIZATION and the
validated id is still returned.

Parameters:
  - context: context.Context
  - validation: ValidateUserIdentity

Returns:
  - ValidationOutcome: Validated user id, or pending
  - error: Precondition violations, remote rejections, storage errors
*/
func (service *Service) Validate(context context.Context, validation ValidateUserIdentity) (ValidationOutcome, error) {

	user, err := service.userRepository.GetByID(context, validation.UserID)
	if err != nil {
		return ValidationOutcome{}, fmt.Errorf("identity_service_user_fetch_failed: %w", err)
	}

	// Both preconditions gate the expensive remote call
	if user.Status != users.StatusPendingValidation {
		return ValidationOutcome{}, apperr.Validation(fmt.Sprintf(
			"User status is not PENDING_VALIDATION. (Current status: %s)", user.Status,
		))
	}

	signUp, err := service.signUpRepository.GetByUserID(context, validation.UserID)
	if err != nil {
		return ValidationOutcome{}, fmt.Errorf("identity_service_signup_fetch_failed: %w", err)
	}
	if signUp.Stage != signup.StageIdentityValidation {
		return ValidationOutcome{}, apperr.Validation(fmt.Sprintf(
			"Sign up stage is not IDENTITY_VALIDATION. (Current sign up stage: %s).", signUp.Stage,
		))
	}

	validatedID, err := service.identityRepo.ValidateIdentity(context, ValidationRequest{
		UserID:             validation.UserID,
		ServiceAgreementID: user.ServiceAgreementID,
		Evidence:           validation.Evidence,
	})
	if err != nil {
		return service.compensate(context, user, signUp, err)
	}

	// An empty id means the collaborator is still processing the evidence
	if validatedID == "" {
		return ValidationOutcome{Pending: true}, nil
	}

	user.Status = users.StatusValidated
	if err := service.userRepository.Save(context, user); err != nil {
		return ValidationOutcome{}, fmt.Errorf("identity_service_user_save_failed: %w", err)
	}

	return ValidationOutcome{UserID: validatedID}, nil
}

// compensate applies the local state change each remote rejection category
// demands, then re-raises. The teen-partial signal is consumed here and turns
// into a successful outcome.
func (service *Service) compensate(
	context context.Context,
	user *users.User,
	signUp *signup.SignUp,
	cause error,
) (ValidationOutcome, error) {

	var attempts *AttemptsExceededError
	var identityData *IdentityDataError
	var minor *MinorError
	var teen *TeenPartialError

	switch {
	case errors.As(cause, &attempts):
		return ValidationOutcome{}, service.banUser(context, user, attempts.BannedNotified(), cause)

	case errors.As(cause, &identityData):
		return ValidationOutcome{}, service.banUser(context, user, identityData.BannedNotified(), cause)

	case errors.As(cause, &minor):
		signUp.Stage = signup.StageBlocked
		if err := service.signUpRepository.Save(context, signUp); err != nil {
			return ValidationOutcome{}, fmt.Errorf("identity_service_block_save_failed: %w", err)
		}
		return ValidationOutcome{}, cause

	case errors.As(cause, &teen):
		user.Status = users.StatusPendingAuthorization
		if err := service.userRepository.Save(context, user); err != nil {
			return ValidationOutcome{}, fmt.Errorf("identity_service_teen_save_failed: %w", err)
		}
		return ValidationOutcome{UserID: teen.UserID}, nil

	default:
		return ValidationOutcome{}, cause
	}
}

// banUser flips the user to a banned status and re-raises the rejection.
func (service *Service) banUser(context context.Context, user *users.User, notified bool, cause error) error {
	if notified {
		user.Status = users.StatusBannedNotified
	} else {
		user.Status = users.StatusBanned
	}
	if err := service.userRepository.Save(context, user); err != nil {
		return fmt.Errorf("identity_service_ban_save_failed: %w", err)
	}
	return cause
}

/*
GetValidation reads the applicant's verified identity record.

Description: The record exists only while the sign-up sits at the identity
validation stage; any other stage is rejected with the stage in the message.
The record is enriched with the applicant's addresses. A user without
addresses is not fatal: the record is still returned, with the missing
address error accumulated for the HTTP layer to surface as partial content.

Parameters:
  - context: context.Context
  - read: GetIdentityValidation

Returns:
  - IdentityResult: The record plus any non-fatal enrichment errors
  - error: Stage violations, remote or storage errors
*/
func (service *Service) GetValidation(context context.Context, read GetIdentityValidation) (IdentityResult, error) {

	user, err := service.userRepository.GetByID(context, read.UserID)
	if err != nil {
		return IdentityResult{}, fmt.Errorf("identity_service_user_fetch_failed: %w", err)
	}

	signUp, err := service.signUpRepository.GetByUserID(context, user.ID)
	if err != nil {
		return IdentityResult{}, fmt.Errorf("identity_service_signup_fetch_failed: %w", err)
	}

	identity, err := service.identityRepo.GetIdentityByUserID(context, user.ID)
	if err != nil {
		return IdentityResult{}, fmt.Errorf("identity_service_identity_fetch_failed: %w", err)
	}

	// Checked after the fetches so a stale record still reports its stage
	if signUp.Stage != signup.StageIdentityValidation {
		return IdentityResult{}, apperr.IdentityValidation(string(signUp.Stage))
	}

	result := IdentityResult{Identity: identity}

	addresses, err := service.addressRepo.List(context, read.UserID)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeMissingAddress) {
			return IdentityResult{}, fmt.Errorf("identity_service_address_fetch_failed: %w", err)
		}
		result.Errors = append(result.Errors, apperr.As(err))
	} else {
		identity.Addresses = addresses
	}

	return result, nil
}

/*
Confirm confirms the validated identity against an address chosen by the
applicant, and binds the user to a customer.

Description: Preconditions mirror Validate. The chosen address must belong to
the applicant's captured addresses. The customer is deduplicated by national
document: more than one match is a conflict, one match is reused, none is
created from the verified identity. On success the sign-up advances to
LEGAL_VALIDATION.

Parameters:
  - context: context.Context
  - confirm: ConfirmIdentity

Returns:
  - string: Confirmed user id
  - error: Precondition violations, conflicts, remote or storage errors
*/
func (service *Service) Confirm(context context.Context, confirm ConfirmIdentity) (string, error) {

	user, err := service.userRepository.GetByID(context, confirm.UserID)
	if err != nil {
		return "", fmt.Errorf("identity_service_user_fetch_failed: %w", err)
	}
	if user.Status != users.StatusPendingValidation {
		return "", apperr.Validation(fmt.Sprintf(
			"User status is not PENDING_VALIDATION. (Current status: %s).", user.Status,
		))
	}

	signUp, err := service.signUpRepository.GetByUserID(context, confirm.UserID)
	if err != nil {
		return "", fmt.Errorf("identity_service_signup_fetch_failed: %w", err)
	}
	if signUp.Stage != signup.StageIdentityValidation {
		return "", apperr.Validation(fmt.Sprintf(
			"Sign up stage is not IDENTITY_VALIDATION. (Current sign up stage: %s).", signUp.Stage,
		))
	}

	confirmedID, err := service.identityRepo.ConfirmIdentity(context, confirm.UserID)
	if err != nil {
		return "", fmt.Errorf("identity_service_confirm_failed: %w", err)
	}

	identity, err := service.identityRepo.GetIdentityByUserID(context, confirm.UserID)
	if err != nil {
		return "", fmt.Errorf("identity_service_identity_fetch_failed: %w", err)
	}

	if err := service.associateAddress(context, user, confirm.AddressID); err != nil {
		return "", err
	}
	if err := service.associateCustomer(context, user, identity); err != nil {
		return "", err
	}

	if err := service.userRepository.Save(context, user); err != nil {
		return "", fmt.Errorf("identity_service_user_save_failed: %w", err)
	}

	signUp.Stage = signup.StageLegalValidation
	if err := service.signUpRepository.Save(context, signUp); err != nil {
		return "", fmt.Errorf("identity_service_stage_save_failed: %w", err)
	}

	return confirmedID, nil
}

// associateAddress links the chosen address after checking it really belongs
// to the applicant.
func (service *Service) associateAddress(context context.Context, user *users.User, addressID string) error {
	addresses, err := service.addressRepo.List(context, user.ID)
	if err != nil {
		return fmt.Errorf("identity_service_address_fetch_failed: %w", err)
	}

	for _, address := range addresses {
		if address.AddressID == addressID {
			user.AppendAddress(addressID, time.Now().UTC())
			return nil
		}
	}

	return apperr.NotFound("Address")
}

// associateCustomer binds the user to the customer holding the verified
// document, creating one when none exists.
func (service *Service) associateCustomer(context context.Context, user *users.User, identity *Identity) error {
	customers, err := service.customerRepo.ListByDNI(context, identity.DNI)
	if err != nil {
		return fmt.Errorf("identity_service_customer_list_failed: %w", err)
	}

	if len(customers) > 1 {
		return apperr.Duplicated("Customer")
	}

	var customerID string
	if len(customers) == 1 {
		customerID = customers[0].ID
	} else {
		customerID, err = service.customerRepo.Create(context, identity)
		if err != nil {
			return fmt.Errorf("identity_service_customer_create_failed: %w", err)
		}
	}

	user.CustomerID = &customerID
	return nil
}

// # Legal Validation

/*
UpdateLegal forwards the applicant's legal declarations to the customer
collaborator and advances the sign-up.

Description: The customer id always comes from the stored user, never from
the request. The remote update runs first: when it fails the sign-up is left
untouched and the collaborator's error propagates verbatim.

Parameters:
  - context: context.Context
  - action: UpdateLegalValidation

Returns:
  - *users.User: The user the declarations were filed for
  - error: Remote or storage errors
*/
func (service *Service) UpdateLegal(context context.Context, action UpdateLegalValidation) (*users.User, error) {

	user, err := service.userRepository.GetByID(context, action.UserID)
	if err != nil {
		return nil, fmt.Errorf("identity_service_user_fetch_failed: %w", err)
	}

	legal := LegalValidation{
		UserID:     action.UserID,
		PEP:        action.PEP,
		SO:         action.SO,
		FACTA:      action.FACTA,
		Occupation: action.Occupation,
		Relation:   action.Relation,
		PEPData:    action.PEPData,
	}
	if user.CustomerID != nil {
		legal.CustomerID = *user.CustomerID
	}

	// Remote update first. On failure the workflow stage must not move.
	if err := service.customerRepo.UpdateLegalValidation(context, legal); err != nil {
		return nil, fmt.Errorf("identity_service_legal_update_failed: %w", err)
	}

	signUp, err := service.signUpRepository.GetByUserID(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("identity_service_signup_fetch_failed: %w", err)
	}

	signUp.Stage = signup.StageLegalValidation
	if err := service.signUpRepository.Save(context, signUp); err != nil {
		return nil, fmt.Errorf("identity_service_stage_save_failed: %w", err)
	}

	return user, nil
}
