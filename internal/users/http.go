// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

// HTTP delivery layer for the user read endpoints.
//
// # Architecture
//
// The handler acts as a thin mediation layer between the web and the command
// dispatcher:
//   - Protocol: Standard RESTful JSON interface.
//   - Verification: Enforces strict input validation before dispatching.
//
// This layer is strictly responsible for transport concerns (status codes,
// headers, JSON).

package users

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lureyes/altura/internal/command"
	requestutil "github.com/lureyes/altura/internal/platform/request"
	"github.com/lureyes/altura/internal/platform/respond"
	"github.com/lureyes/altura/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the user read HTTP endpoints.
type Handler struct {
	dispatcher *command.Dispatcher
}

// NewHandler constructs a new [Handler] over the command dispatcher.
func NewHandler(dispatcher *command.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Routes returns a [chi.Router] configured with the user read routes.
//
// # Endpoints
//   - GET /byId/{user_id}                : Fetch a user by id.
//   - GET /{user_id}                     : Alias of byId, kept for older clients.
//   - GET /{user_id}/contact_methods     : List a user's contact methods.
//   - GET /byDocument/...                : Resolve a user from a national document.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/byId/{user_id}", handler.getByID)
	router.Get("/{user_id}", handler.getByID)
	router.Get("/{user_id}/contact_methods", handler.getContactMethods)
	router.Get("/byDocument/{document_type}/{document_value}/{service_agreement_id}", handler.getByDocumentAndAgreement)
	router.Get("/byDocument/{document_type}/{document_value}/businessModel/{business_model}", handler.getByDocumentAndBusinessModel)

	return router
}

/*
getByID fetches a user aggregate by id.

GET /api/v2/users/byId/{user_id}?fetch_customer=

Response:
  - 200: User: Hydrated user, with customer unless fetch_customer=false
  - 404: EntityNotFound: Unknown user id
*/
func (handler *Handler) getByID(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	fetchCustomer := request.URL.Query().Get("fetch_customer") != "false"

	user, err := command.Dispatch[GetUserByID, *User](request.Context(), handler.dispatcher, GetUserByID{
		UserID:        userID,
		FetchCustomer: fetchCustomer,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
getContactMethods lists every contact method of a user.

GET /api/v2/users/{user_id}/contact_methods

Response:
  - 200: []ContactMethod
  - 404: EntityNotFound: Unknown user id
*/
func (handler *Handler) getContactMethods(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.UUIDParam(request, "user_id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	methods, err := command.Dispatch[GetUserContactMethods, []*ContactMethod](
		request.Context(), handler.dispatcher, GetUserContactMethods{UserID: userID})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, methods)
}

/*
getByDocumentAndAgreement resolves a user from a document within one agreement.

GET /api/v2/users/byDocument/{document_type}/{document_value}/{service_agreement_id}

Response:
  - 200: User: The resolved user, or an empty object when no user in the
    agreement holds the document
  - 404: EntityNotFound: Document unknown to the customer registry
*/
func (handler *Handler) getByDocumentAndAgreement(writer http.ResponseWriter, request *http.Request) {
	documentType, err := ParseDocumentType(requestutil.Param(request, "document_type"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	serviceAgreementID, err := strconv.Atoi(requestutil.Param(request, "service_agreement_id"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("service_agreement_id", "must be an integer"))
		return
	}

	user, err := command.Dispatch[GetUserByDocument, *User](request.Context(), handler.dispatcher, GetUserByDocument{
		DocumentType:       documentType,
		DocumentValue:      requestutil.Param(request, "document_value"),
		ServiceAgreementID: &serviceAgreementID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if user == nil {
		respond.OK(writer, struct{}{})
		return
	}

	respond.OK(writer, user)
}

/*
getByDocumentAndBusinessModel resolves a user from a document across a
business model.

GET /api/v2/users/byDocument/{document_type}/{document_value}/businessModel/{business_model}

Response:
  - 200: User: The resolved user, or an empty object when no user in the
    model holds the document
  - 404: EntityNotFound: Document unknown to the customer registry
*/
func (handler *Handler) getByDocumentAndBusinessModel(writer http.ResponseWriter, request *http.Request) {
	documentType, err := ParseDocumentType(requestutil.Param(request, "document_type"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	businessModel, err := ParseBusinessModel(requestutil.Param(request, "business_model"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := command.Dispatch[GetUserByDocument, *User](request.Context(), handler.dispatcher, GetUserByDocument{
		DocumentType:  documentType,
		DocumentValue: requestutil.Param(request, "document_value"),
		BusinessModel: &businessModel,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if user == nil {
		respond.OK(writer, struct{}{})
		return
	}

	respond.OK(writer, user)
}
