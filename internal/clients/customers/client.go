// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package customers is the HTTP client for the external customer registry.

It serves two narrower contracts: the read-only directory the users package
resolves documents through, and the fuller repository the identity package
creates and updates customers with.
*/
package customers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lureyes/altura/internal/clients/rest"
	"github.com/lureyes/altura/internal/identity"
	"github.com/lureyes/altura/internal/users"
)

// Client calls the customer registry over HTTP.
type Client struct {
	rest *rest.Client
}

// New creates a customer registry client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{rest: rest.New(baseURL, timeout)}
}

// customerDoc is the registry's wire representation of a customer.
type customerDoc struct {
	ID              string                 `json:"id"`
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	Gender          string                 `json:"gender"`
	BirthDate       string                 `json:"birth_date"`
	Identifications []users.Identification `json:"identifications"`
	NationalityID   string                 `json:"nationality_id"`
	Status          string                 `json:"status"`
}

// toCustomer lifts the wire document into the domain entity, indexing the
// identifications by type.
func (doc customerDoc) toCustomer() *users.Customer {
	customer := &users.Customer{
		ID:              doc.ID,
		FirstName:       doc.FirstName,
		LastName:        doc.LastName,
		Gender:          doc.Gender,
		BirthDate:       doc.BirthDate,
		Identifications: make(map[users.DocumentType]users.Identification, len(doc.Identifications)),
		NationalityID:   doc.NationalityID,
		Status:          doc.Status,
	}
	for _, identification := range doc.Identifications {
		customer.Identifications[identification.Type] = identification
	}
	return customer
}

/*
GetByID fetches a customer by id.

Parameters:
  - context: context.Context
  - customerID: string

Returns:
  - *users.Customer: The registry record
  - error: Pass-through registry errors or transport failures
*/
func (client *Client) GetByID(context context.Context, customerID string) (*users.Customer, error) {
	response, err := client.rest.Do(context, http.MethodGet, "/v1/customers/"+customerID, nil, nil)
	if err != nil {
		return nil, err
	}
	if !response.IsSuccess() {
		return nil, response.RemoteError()
	}

	var doc customerDoc
	if err := response.DecodeData(&doc); err != nil {
		return nil, err
	}
	return doc.toCustomer(), nil
}

/*
ListByDocument lists customers holding the given document.

Description: The registry indexes DNI and CUIL under separate query
parameters. An empty list is a valid result.

Parameters:
  - context: context.Context
  - documentType: users.DocumentType
  - documentValue: string

Returns:
  - []*users.Customer: Matching records, possibly empty
  - error: Pass-through registry errors or transport failures
*/
func (client *Client) ListByDocument(context context.Context, documentType users.DocumentType, documentValue string) ([]*users.Customer, error) {
	var parameter string
	switch documentType {
	case users.DocumentDNI:
		parameter = "identity_dni"
	case users.DocumentCUIL:
		parameter = "identity_cuil"
	default:
		return nil, fmt.Errorf("customers_client_unknown_document_type: %s", documentType)
	}

	query := url.Values{parameter: []string{documentValue}}
	response, err := client.rest.Do(context, http.MethodGet, "/v1/customers", query, nil)
	if err != nil {
		return nil, err
	}
	if !response.IsSuccess() {
		return nil, response.RemoteError()
	}

	var docs []customerDoc
	if err := response.DecodeData(&docs); err != nil {
		return nil, err
	}

	customers := make([]*users.Customer, 0, len(docs))
	for _, doc := range docs {
		customers = append(customers, doc.toCustomer())
	}
	return customers, nil
}

// ListByDNI lists customers holding the given national document.
func (client *Client) ListByDNI(context context.Context, dni string) ([]*users.Customer, error) {
	return client.ListByDocument(context, users.DocumentDNI, dni)
}

// ListByCUIL lists customers holding the given tax id.
func (client *Client) ListByCUIL(context context.Context, cuil string) ([]*users.Customer, error) {
	return client.ListByDocument(context, users.DocumentCUIL, cuil)
}

// createCustomerRequest is the payload the registry expects for creation.
type createCustomerRequest struct {
	FirstName       string                 `json:"first_name"`
	LastName        string                 `json:"last_name"`
	Gender          string                 `json:"gender"`
	BirthDate       string                 `json:"birth_date"`
	Nationality     string                 `json:"nationality"`
	Identifications []users.Identification `json:"identifications"`
}

/*
Create registers a new customer from a verified identity.

Parameters:
  - context: context.Context
  - identity: *identity.Identity

Returns:
  - string: Created customer id
  - error: Pass-through registry errors or transport failures
*/
func (client *Client) Create(context context.Context, record *identity.Identity) (string, error) {
	payload := createCustomerRequest{
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		Gender:      record.Gender,
		BirthDate:   record.BirthDate,
		Nationality: record.Nationality,
		Identifications: []users.Identification{
			{Type: users.DocumentDNI, Number: record.DNI},
			{Type: users.DocumentCUIL, Number: record.CUIL},
		},
	}

	response, err := client.rest.Do(context, http.MethodPost, "/v1/customers", nil, payload)
	if err != nil {
		return "", err
	}
	if !response.IsSuccess() {
		return "", response.RemoteError()
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := response.DecodeData(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

/*
UpdateLegalValidation forwards the applicant's legal declarations.

Description: The registry's failure body uses the nested error shape; it is
passed through verbatim so the workflow layer can decide what survives.

Parameters:
  - context: context.Context
  - action: identity.LegalValidation

Returns:
  - error: Pass-through registry errors or transport failures
*/
func (client *Client) UpdateLegalValidation(context context.Context, action identity.LegalValidation) error {
	path := "/v1/customers/" + action.CustomerID + "/legal_validation"
	response, err := client.rest.Do(context, http.MethodPatch, path, nil, action)
	if err != nil {
		return err
	}
	if !response.IsSuccess() {
		return response.RemoteError()
	}
	return nil
}
