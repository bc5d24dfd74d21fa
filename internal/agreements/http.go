// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

// HTTP delivery layer for the service agreement catalogue.

package agreements

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lureyes/altura/internal/command"
	requestutil "github.com/lureyes/altura/internal/platform/request"
	"github.com/lureyes/altura/internal/platform/respond"
	"github.com/lureyes/altura/internal/platform/validate"
)

// Handler implements the service agreement HTTP endpoints.
type Handler struct {
	dispatcher *command.Dispatcher
}

// NewHandler constructs a new [Handler] over the command dispatcher.
func NewHandler(dispatcher *command.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// Routes returns a [chi.Router] configured with the catalogue routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/{service_agreement_id}", handler.get)
	return router
}

/*
get reads a service agreement by id.

GET /api/v2/service-agreements/{service_agreement_id}

Response:
  - 200: ServiceAgreement
  - 404: EntityNotFound: Unknown agreement id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := strconv.Atoi(requestutil.Param(request, "service_agreement_id"))
	if err != nil {
		respond.Error(writer, request, validate.RequiredError("service_agreement_id", "must be an integer"))
		return
	}

	agreement, err := command.Dispatch[GetServiceAgreement, *ServiceAgreement](
		request.Context(), handler.dispatcher, GetServiceAgreement{ServiceAgreementID: id})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, agreement)
}
