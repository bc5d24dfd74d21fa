// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

// HTTP delivery layer for the identity and legal validation endpoints.

package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lureyes/altura/internal/command"
	requestutil "github.com/lureyes/altura/internal/platform/request"
	"github.com/lureyes/altura/internal/platform/respond"
	"github.com/lureyes/altura/internal/platform/validate"
	"github.com/lureyes/altura/internal/users"
)

// # Definitions & Constructors

// Handler implements the identity validation HTTP endpoints.
type Handler struct {
	dispatcher *command.Dispatcher
}

// NewHandler constructs a new [Handler] over the command dispatcher.
func NewHandler(dispatcher *command.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Register adds the identity validation routes to the router. They share the
// /signup prefix with the signup package.
//
// # Endpoints
//   - POST  /{user_id}/identity_validation : Submit evidence for validation.
//   - GET   /{user_id}/identity_validation : Read the verified identity.
//   - PATCH /{user_id}/identity_validation : Confirm identity and address.
//   - PATCH /{user_id}/legal_validation    : File the legal declarations.
func (handler *Handler) Register(router chi.Router) {
	router.Post("/{user_id}/identity_validation", handler.validate)
	router.Get("/{user_id}/identity_validation", handler.getValidation)
	router.Patch("/{user_id}/identity_validation", handler.confirm)
	router.Patch("/{user_id}/legal_validation", handler.updateLegal)
}

// # Request Schemas

type confirmIdentityRequest struct {
	AddressID string `json:"address_id"`
}

type legalValidationRequest struct {
	PEP        bool           `json:"pep"`
	SO         bool           `json:"so"`
	FACTA      bool           `json:"facta"`
	Occupation string         `json:"occupation_id"`
	Relation   string         `json:"relationship"`
	PEPData    map[string]any `json:"pep_data"`
}

// # Handlers

/*
validate submits the applicant's evidence for identity validation.

POST /api/v2/users/signup/{user_id}/identity_validation

Response:
  - 200: ValidationOutcome: Validated user id
  - 206: The collaborator is still processing the evidence
  - 400: Validation: Status or stage precondition violated
  - Remote rejection codes pass through with their original status
*/
func (handler *Handler) validate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload Evidence
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	outcome, err := command.Dispatch[ValidateUserIdentity, ValidationOutcome](
		request.Context(), handler.dispatcher, ValidateUserIdentity{
			UserID:   userID,
			Evidence: payload,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if outcome.Pending {
		respond.Partial(writer, outcome, nil)
		return
	}

	respond.OK(writer, outcome)
}

/*
getValidation reads the applicant's verified identity record.

GET /api/v2/users/signup/{user_id}/identity_validation

Response:
  - 200: Identity: The record with its addresses
  - 206: Identity without addresses, misses listed under errors
  - 409: IdentityValidation: Sign-up is not at the identity stage
*/
func (handler *Handler) getValidation(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := command.Dispatch[GetIdentityValidation, IdentityResult](
		request.Context(), handler.dispatcher, GetIdentityValidation{UserID: userID})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if len(result.Errors) > 0 {
		respond.Partial(writer, result.Identity, result.Errors)
		return
	}

	respond.OK(writer, result.Identity)
}

/*
confirm confirms the validated identity against a chosen address.

PATCH /api/v2/users/signup/{user_id}/identity_validation

Response:
  - 200: Confirmed user id
  - 400: Validation: Status or stage precondition violated
  - 404: EntityNotFound: The address does not belong to the applicant
  - 409: DuplicatedResource: More than one customer holds the document
*/
func (handler *Handler) confirm(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload confirmIdentityRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("address_id", payload.AddressID).
		UUID("address_id", payload.AddressID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	confirmedID, err := command.Dispatch[ConfirmIdentity, string](
		request.Context(), handler.dispatcher, ConfirmIdentity{
			UserID:    userID,
			AddressID: payload.AddressID,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"user_id": confirmedID})
}

/*
updateLegal files the applicant's legal declarations.

PATCH /api/v2/users/signup/{user_id}/legal_validation

Response:
  - 200: User: The user the declarations were filed for
  - 404: EntityNotFound: Unknown user
  - Remote failures pass through with their original code and status
*/
func (handler *Handler) updateLegal(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload legalValidationRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := command.Dispatch[UpdateLegalValidation, *users.User](
		request.Context(), handler.dispatcher, UpdateLegalValidation{
			UserID:     userID,
			PEP:        payload.PEP,
			SO:         payload.SO,
			FACTA:      payload.FACTA,
			Occupation: payload.Occupation,
			Relation:   payload.Relation,
			PEPData:    payload.PEPData,
		})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
