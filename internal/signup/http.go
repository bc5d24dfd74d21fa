// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

// HTTP delivery layer for the sign-up workflow endpoints.

package signup

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lureyes/altura/internal/command"
	requestutil "github.com/lureyes/altura/internal/platform/request"
	"github.com/lureyes/altura/internal/platform/respond"
	"github.com/lureyes/altura/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the sign-up workflow HTTP endpoints.
type Handler struct {
	dispatcher *command.Dispatcher
}

// NewHandler constructs a new [Handler] over the command dispatcher.
func NewHandler(dispatcher *command.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Register adds the sign-up workflow routes to the router. The identity
// validation endpoints share the same /signup prefix and are registered by
// the identity package.
//
// # Endpoints
//   - POST  /email_confirmation               : Start or reissue a sign-up.
//   - GET   /email_confirmation/{token}       : Confirm an email token.
//   - POST  /{user_id}/phone_confirmation     : Issue a phone one-time code.
//   - PATCH /{user_id}/phone_confirmation     : Confirm the phone code.
//   - GET   /{user_id}                        : Read the workflow stage.
func (handler *Handler) Register(router chi.Router) {
	router.Post("/email_confirmation", handler.create)
	router.Get("/email_confirmation/{token}", handler.validateEmailToken)
	router.Post("/{user_id}/phone_confirmation", handler.createPhoneConfirmation)
	router.Patch("/{user_id}/phone_confirmation", handler.confirmPhoneNumber)
	router.Get("/{user_id}", handler.getStage)
}

// # Request Schemas

type createSignUpRequest struct {
	ServiceAgreementID int    `json:"service_agr_id"`
	Email              string `json:"email"`
}

type phoneConfirmationRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type confirmPhoneRequest struct {
	OTP string `json:"otp"`
}

// # Handlers

/*
create starts a sign-up for an email under a service agreement.

POST /api/v2/users/signup/email_confirmation

Response:
  - 200: SignUp: Created or reissued sign-up
  - 400: Validation: Bad payload, pending confirmation, or taken email
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var payload createSignUpRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("email", payload.Email).
		Email("email", payload.Email).
		Custom("service_agr_id", payload.ServiceAgreementID <= 0, "Must be a positive integer")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	signUp, err := command.Dispatch[CreateSignUp, *SignUp](request.Context(), handler.dispatcher, CreateSignUp{
		ServiceAgreementID: payload.ServiceAgreementID,
		Email:              payload.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signUp)
}

/*
validateEmailToken confirms the email behind a confirmation link.

GET /api/v2/users/signup/email_confirmation/{token}

Response:
  - 200: SignUp: Sign-up advanced to identity validation
  - 400: Validation: Missing, lapsed, or already used token
*/
func (handler *Handler) validateEmailToken(writer http.ResponseWriter, request *http.Request) {
	token := requestutil.Param(request, "token")
	if token == "" {
		respond.Error(writer, request, validate.RequiredError("token", "is required"))
		return
	}

	signUp, err := command.Dispatch[ValidateEmailConfirmationToken, *SignUp](
		request.Context(), handler.dispatcher, ValidateEmailConfirmationToken{Token: token})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signUp)
}

/*
createPhoneConfirmation issues a one-time code to verify a phone number.

POST /api/v2/users/signup/{user_id}/phone_confirmation

Response:
  - 201: Resource reference for the pending confirmation
  - 400: Validation: Bad phone, confirmed phone, or throttled
  - 404: EntityNotFound: Unknown user
*/
func (handler *Handler) createPhoneConfirmation(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload phoneConfirmationRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("phone_number", payload.PhoneNumber).
		Phone("phone_number", payload.PhoneNumber)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The code itself travels over SMS only, never in the HTTP response
	_, err = command.Dispatch[CreatePhoneConfirmation, string](request.Context(), handler.dispatcher, CreatePhoneConfirmation{
		UserID:      userID,
		PhoneNumber: payload.PhoneNumber,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]string{"id": userID})
}

/*
confirmPhoneNumber confirms a phone number with the code issued earlier.

PATCH /api/v2/users/signup/{user_id}/phone_confirmation

Response:
  - 200: SignUp: Sign-up at the phone confirmation stage
  - 400: Validation: Invalid code or already confirmed phone
  - 404: EntityNotFound: Unknown user or sign-up
*/
func (handler *Handler) confirmPhoneNumber(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload confirmPhoneRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Required("otp", payload.OTP).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	signUp, err := command.Dispatch[ConfirmPhoneNumber, *SignUp](request.Context(), handler.dispatcher, ConfirmPhoneNumber{
		UserID: userID,
		OTP:    payload.OTP,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signUp)
}

/*
getStage reads the current workflow stage of a user.

GET /api/v2/users/signup/{user_id}

Response:
  - 200: SignUp
  - 404: EntityNotFound: The user has no sign-up
*/
func (handler *Handler) getStage(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	signUp, err := command.Dispatch[GetSignUpStageByUserID, *SignUp](
		request.Context(), handler.dispatcher, GetSignUpStageByUserID{UserID: userID})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, signUp)
}
