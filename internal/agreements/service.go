// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package agreements

import (
	"context"

	"github.com/lureyes/altura/internal/command"
)

// GetServiceAgreement reads one agreement from the catalogue.
type GetServiceAgreement struct {
	ServiceAgreementID int
}

// Service implements the agreement catalogue reads.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] over the catalogue repository.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// RegisterHandlers wires the agreement commands into the dispatcher.
func RegisterHandlers(dispatcher *command.Dispatcher, service *Service) {
	command.Register(dispatcher, service.Get)
}

// Get reads an agreement by id. Absent ids surface as apperr.NotFound.
func (service *Service) Get(context context.Context, read GetServiceAgreement) (*ServiceAgreement, error) {
	return service.repository.Get(context, read.ServiceAgreementID)
}
