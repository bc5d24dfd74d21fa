// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package signup

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/lureyes/altura/internal/command"
	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/platform/constants"
	"github.com/lureyes/altura/internal/platform/events"
	"github.com/lureyes/altura/internal/users"
)

// # Commands

// CreateSignUp starts (or reissues) a sign-up for an email address under a
// service agreement.
type CreateSignUp struct {
	ServiceAgreementID int
	Email              string
}

// ValidateEmailConfirmationToken confirms the email behind a confirmation
// link token.
type ValidateEmailConfirmationToken struct {
	Token string
}

// CreatePhoneConfirmation issues a one-time code to verify a phone number.
type CreatePhoneConfirmation struct {
	UserID      string
	PhoneNumber string
}

// ConfirmPhoneNumber confirms a phone number with a previously issued code.
type ConfirmPhoneNumber struct {
	UserID string
	OTP    string
}

// GetSignUpStageByUserID reads the current workflow stage of a user.
type GetSignUpStageByUserID struct {
	UserID string
}

// # Service

// Service implements the email and phone confirmation workflow.
type Service struct {
	signUpRepository      SignUpRepository
	userRepository        users.UserRepository
	contactMethodRepo     users.ContactMethodRepository
	contactMethodTypeRepo users.ContactMethodTypeRepository
	tokenSigner           *TokenSigner
	throttle              OTPThrottle
	publisher             events.Publisher
	confirmationTTL       time.Duration
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	signUpRepo SignUpRepository,
	userRepo users.UserRepository,
	contactMethodRepo users.ContactMethodRepository,
	contactMethodTypeRepo users.ContactMethodTypeRepository,
	tokenSigner *TokenSigner,
	throttle OTPThrottle,
	publisher events.Publisher,
	confirmationTTL time.Duration,
) *Service {
	return &Service{
		signUpRepository:      signUpRepo,
		userRepository:        userRepo,
		contactMethodRepo:     contactMethodRepo,
		contactMethodTypeRepo: contactMethodTypeRepo,
		tokenSigner:           tokenSigner,
		throttle:              throttle,
		publisher:             publisher,
		confirmationTTL:       confirmationTTL,
	}
}

// RegisterHandlers wires every signup command into the dispatcher.
func RegisterHandlers(dispatcher *command.Dispatcher, service *Service) {
	command.Register(dispatcher, service.Create)
	command.Register(dispatcher, service.ValidateEmailToken)
	command.Register(dispatcher, service.CreatePhoneConfirmation)
	command.Register(dispatcher, service.ConfirmPhoneNumber)
	command.Register(dispatcher, service.GetStageByUserID)
}

// # Email Confirmation Flow

/*
Create starts a sign-up for the submitted email, or reissues the confirmation
when an earlier attempt expired unanswered.

Description: Exactly one of three things happens. No user exists for the
(service agreement, email) pair: a new user, email contact method, signed
token and EMAIL_CONFIRMATION sign-up are created. A user exists with an
expired confirmation: the expiry is extended, the token value is kept, and
the existing sign-up is re-announced. A user exists with a pending or
confirmed email: a validation error.

Parameters:
  - context: context.Context
  - create: CreateSignUp

Returns:
  - *SignUp: Created or reissued sign-up
  - error: Validation, storage or signing errors
*/
func (service *Service) Create(context context.Context, create CreateSignUp) (*SignUp, error) {

	// Look for an earlier attempt with the same email under this agreement
	user, err := service.userRepository.GetByServiceAgreementAndEmail(
		context, create.ServiceAgreementID, create.Email,
	)
	if err != nil {
		return nil, fmt.Errorf("signup_service_lookup_failed: %w", err)
	}

	// A fresh email starts the workflow from scratch
	if user == nil {
		return service.performSignUp(context, create)
	}

	// Locate the contact method holding this email. The lookup query
	// guarantees it exists.
	var method *users.ContactMethod
	for _, candidate := range user.ContactMethods {
		if candidate.Value == create.Email {
			method = candidate
			break
		}
	}
	if method == nil {
		return nil, apperr.Internal(fmt.Errorf("signup_service_contact_method_missing: user %s", user.ID))
	}

	now := time.Now().UTC()

	switch {
	case method.Confirmation.IsExpired(now):
		return service.renewConfirmation(context, user, method, now)

	case method.Confirmation.IsStillPending(now):
		return nil, apperr.Validation(
			"Contact confirmation for the submitted email is still active and pending.",
		)

	default:
		return nil, apperr.Validation("Email already taken.")
	}
}

// renewConfirmation extends an expired confirmation window. The token value
// is kept so the link already sitting in the user's inbox stays valid.
func (service *Service) renewConfirmation(
	context context.Context,
	user *users.User,
	method *users.ContactMethod,
	now time.Time,
) (*SignUp, error) {

	// Extend the expiry only
	expireAt := now.Add(service.confirmationTTL)
	method.Confirmation = method.Confirmation.Recreate(users.ConfirmationPatch{
		ExpireAt: &expireAt,
	})

	// Persist the contact method alone; the user is otherwise untouched
	if err := service.contactMethodRepo.Save(context, method); err != nil {
		return nil, fmt.Errorf("signup_service_renew_save_failed: %w", err)
	}

	// Re-announce the existing sign-up so the confirmation email is resent
	signUp, err := service.signUpRepository.GetByUserID(context, user.ID)
	if err != nil {
		return nil, fmt.Errorf("signup_service_renew_fetch_failed: %w", err)
	}

	service.publisher.Publish(context, savedSignUpEvent(signUp, user, method))

	return signUp, nil
}

// performSignUp builds the user, the tokenized email contact method and the
// sign-up, and announces them.
func (service *Service) performSignUp(context context.Context, create CreateSignUp) (*SignUp, error) {

	now := time.Now().UTC()
	user := users.NewUser(create.ServiceAgreementID, now)

	// Resolve the EMAIL type from the catalogue
	methodType, err := service.contactMethodTypeRepo.Get(context, users.ContactMethodEmail)
	if err != nil {
		return nil, fmt.Errorf("signup_service_type_lookup_failed: %w", err)
	}
	if methodType == nil {
		return nil, apperr.NotFound("ContactMethodType")
	}

	// Sign the confirmation token over the contact method id
	methodID := users.NewID()
	token, err := service.tokenSigner.Sign(methodID)
	if err != nil {
		return nil, err
	}

	method := &users.ContactMethod{
		ID:    methodID,
		Type:  *methodType,
		Value: create.Email,
		Confirmation: users.ContactConfirmation{
			Type:      users.ConfirmationToken,
			Value:     token,
			CreatedAt: now,
			ExpireAt:  now.Add(service.confirmationTTL),
		},
		UserID: user.ID,
		Audit:  users.NewAuditFields(now, user.ID),
	}
	user.ContactMethods = append(user.ContactMethods, method)

	signUp := &SignUp{
		ID:     users.NewID(),
		Stage:  StageEmailConfirmation,
		UserID: user.ID,
	}

	// Persist user then sign-up
	if err := service.userRepository.Save(context, user); err != nil {
		return nil, fmt.Errorf("signup_service_user_save_failed: %w", err)
	}
	if err := service.signUpRepository.Save(context, signUp); err != nil {
		return nil, fmt.Errorf("signup_service_save_failed: %w", err)
	}

	service.publisher.Publish(context, savedSignUpEvent(signUp, user, method))

	return signUp, nil
}

/*
ValidateEmailToken confirms the email behind a confirmation link.

Description: The token is resolved by value against the stored confirmation,
never decoded. A missing, already confirmed, or lapsed token is rejected with
one uniform message. On success the confirmation timestamp is set and the
workflow advances straight to IDENTITY_VALIDATION; the phone confirmation
stage is optional and only entered by the SMS flow.

Parameters:
  - context: context.Context
  - validation: ValidateEmailConfirmationToken

Returns:
  - *SignUp: Sign-up at its new stage
  - error: Validation or storage errors
*/
func (service *Service) ValidateEmailToken(context context.Context, validation ValidateEmailConfirmationToken) (*SignUp, error) {

	// Resolve the token by stored value
	method, err := service.contactMethodRepo.GetByConfirmationValue(context, validation.Token)
	if err != nil {
		return nil, fmt.Errorf("signup_service_token_lookup_failed: %w", err)
	}

	// One uniform rejection. The caller learns nothing about which check failed.
	now := time.Now().UTC()
	if method == nil || method.Confirmation.IsConfirmed() || method.Confirmation.ExpireAt.Before(now) {
		return nil, apperr.Validation("Invalid confirmation token")
	}

	// Load the owner's sign-up
	signUp, err := service.signUpRepository.GetByUserID(context, method.UserID)
	if err != nil {
		return nil, fmt.Errorf("signup_service_fetch_failed: %w", err)
	}

	// Stamp the confirmation and advance the stage
	signUp.Stage = StageIdentityValidation
	method.Confirmation = method.Confirmation.Recreate(users.ConfirmationPatch{
		ConfirmedAt: &now,
	})

	if err := service.contactMethodRepo.Save(context, method); err != nil {
		return nil, fmt.Errorf("signup_service_confirm_save_failed: %w", err)
	}
	if err := service.signUpRepository.Save(context, signUp); err != nil {
		return nil, fmt.Errorf("signup_service_stage_save_failed: %w", err)
	}

	return signUp, nil
}

// # Phone Confirmation Flow

/*
CreatePhoneConfirmation issues a four digit one-time code for a phone number.

Description: An unconfirmed phone contact method is overwritten in place with
the new number and a fresh code; when the user has none, one is created. An
already confirmed phone is rejected. Issuance is throttled per user so a
retry-happy client cannot flood the SMS gateway.

Parameters:
  - context: context.Context
  - action: CreatePhoneConfirmation

Returns:
  - string: The issued code
  - error: Validation, throttle or storage errors
*/
func (service *Service) CreatePhoneConfirmation(context context.Context, action CreatePhoneConfirmation) (string, error) {

	user, err := service.userRepository.GetByID(context, action.UserID)
	if err != nil {
		return "", fmt.Errorf("signup_service_user_fetch_failed: %w", err)
	}

	// One code per cool-down window
	allowed, err := service.throttle.Acquire(context, user.ID, constants.SMSResendWindow)
	if err != nil {
		return "", fmt.Errorf("signup_service_throttle_failed: %w", err)
	}
	if !allowed {
		return "", apperr.Validation("A confirmation code was sent recently. Wait before requesting another.")
	}

	// Locate an unconfirmed phone contact method, if any
	phone, err := pendingPhoneMethod(user, func(m *users.ContactMethod) bool {
		return !m.IsConfirmed()
	})
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	confirmation := users.ContactConfirmation{
		Type:      users.ConfirmationOTP,
		Value:     generateOTP(),
		CreatedAt: now,
		ExpireAt:  now.Add(constants.SMSCodeTTL),
	}

	if phone == nil {
		// First phone for this user. The type must exist in the catalogue.
		methodType, err := service.contactMethodTypeRepo.Get(context, users.ContactMethodPhone)
		if err != nil {
			return "", fmt.Errorf("signup_service_type_lookup_failed: %w", err)
		}
		if methodType == nil {
			return "", apperr.NotFound("ContactMethod")
		}

		phone = &users.ContactMethod{
			ID:           users.NewID(),
			Type:         *methodType,
			Value:        action.PhoneNumber,
			Confirmation: confirmation,
			UserID:       user.ID,
			Audit:        users.NewAuditFields(now, user.ID),
		}
		user.ContactMethods = append(user.ContactMethods, phone)
	} else {
		// Overwrite the pending method with the new number and code
		phone.Confirmation = confirmation
		phone.Value = action.PhoneNumber
		phone.Audit = phone.Audit.Touched(now, user.ID)
	}

	if err := service.userRepository.Save(context, user); err != nil {
		return "", fmt.Errorf("signup_service_phone_save_failed: %w", err)
	}

	service.publisher.Publish(context, savedContactMethodEvent(action.PhoneNumber, confirmation.Value))

	return confirmation.Value, nil
}

/*
ConfirmPhoneNumber confirms a phone number with the code issued earlier.

Description: The code is checked before any state mutates. On a match the
confirmation timestamp is set, the stage moves to PHONE_CONFIRMATION, and both
user and sign-up persist. On a mismatch nothing is written.

Parameters:
  - context: context.Context
  - action: ConfirmPhoneNumber

Returns:
  - *SignUp: Sign-up at its new stage
  - error: Validation or storage errors
*/
func (service *Service) ConfirmPhoneNumber(context context.Context, action ConfirmPhoneNumber) (*SignUp, error) {

	user, err := service.userRepository.GetByID(context, action.UserID)
	if err != nil {
		return nil, fmt.Errorf("signup_service_user_fetch_failed: %w", err)
	}

	signUp, err := service.signUpRepository.GetByUserID(context, action.UserID)
	if err != nil {
		return nil, fmt.Errorf("signup_service_fetch_failed: %w", err)
	}

	// Only a still-pending code is confirmable
	now := time.Now().UTC()
	phone, err := pendingPhoneMethod(user, func(m *users.ContactMethod) bool {
		return m.Confirmation.IsStillPending(now)
	})
	if err != nil {
		return nil, err
	}
	if phone == nil {
		return nil, apperr.NotFound("ContactMethod")
	}

	// Validate the code before touching any state
	if phone.Confirmation.Value != action.OTP {
		return nil, apperr.Validation("OTP code is invalid.")
	}

	phone.Confirmation = phone.Confirmation.Recreate(users.ConfirmationPatch{
		ConfirmedAt: &now,
	})
	signUp.Stage = StagePhoneConfirmation

	if err := service.userRepository.Save(context, user); err != nil {
		return nil, fmt.Errorf("signup_service_confirm_save_failed: %w", err)
	}
	if err := service.signUpRepository.Save(context, signUp); err != nil {
		return nil, fmt.Errorf("signup_service_stage_save_failed: %w", err)
	}

	return signUp, nil
}

// # Reads

/*
GetStageByUserID reads the sign-up owned by a user.

Parameters:
  - context: context.Context
  - read: GetSignUpStageByUserID

Returns:
  - *SignUp: The user's sign-up
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetStageByUserID(context context.Context, read GetSignUpStageByUserID) (*SignUp, error) {
	return service.signUpRepository.GetByUserID(context, read.UserID)
}

// # Helpers

// pendingPhoneMethod scans the user's phone contact methods. The first one
// matching the predicate is returned; a confirmed phone aborts the scan since
// a verified number must never be reissued or overwritten.
func pendingPhoneMethod(user *users.User, matches func(*users.ContactMethod) bool) (*users.ContactMethod, error) {
	for _, method := range user.ContactMethodsOf(users.ContactMethodPhone) {
		if method.IsConfirmed() {
			return nil, apperr.Validation("The phone number has been confirmed.")
		}
		if matches(method) {
			return method, nil
		}
	}
	return nil, nil
}

// generateOTP returns a random four digit confirmation code.
func generateOTP() string {
	return strconv.Itoa(constants.SMSCodeMin + rand.IntN(constants.SMSCodeMax-constants.SMSCodeMin))
}
