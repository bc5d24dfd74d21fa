// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package addresses is the HTTP client for the external address collaborator.

The collaborator answers with a bare JSON array rather than the usual data
envelope, and reports "this user has no addresses" as a specific not-found
code, which this client promotes to the missing-address error the workflow
treats as non-fatal.
*/
package addresses

import (
	"context"
	"net/http"
	"time"

	"github.com/lureyes/altura/internal/clients/rest"
	"github.com/lureyes/altura/internal/identity"
	"github.com/lureyes/altura/internal/platform/apperr"
)

// Client calls the address collaborator over HTTP.
type Client struct {
	rest *rest.Client
}

// New creates an address client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{rest: rest.New(baseURL, timeout)}
}

/*
List retrieves the user's captured addresses.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []identity.Address: The captured addresses
  - error: apperr.MissingAddress when the collaborator reports none,
    pass-through errors or transport failures otherwise
*/
func (client *Client) List(context context.Context, userID string) ([]identity.Address, error) {
	response, err := client.rest.Do(context, http.MethodGet, "/v1.5/address/user/"+userID, nil, nil)
	if err != nil {
		return nil, err
	}

	if !response.IsSuccess() {
		remote := response.RemoteError()
		if response.StatusCode == http.StatusNotFound && remote.Code == apperr.CodeEntityNotFound {
			return nil, apperr.MissingAddress()
		}
		return nil, remote
	}

	var addresses []identity.Address
	if err := response.Decode(&addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}
