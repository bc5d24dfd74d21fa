// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package identityval is the HTTP client for the external identity validation
collaborator.

Its main job beyond transport is triage: the collaborator rejects validations
with stable codes, and each category maps to a distinct local compensation.
The client surfaces them as typed errors so the workflow layer can switch on
type instead of code strings.
*/
package identityval

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/lureyes/altura/internal/clients/rest"
	"github.com/lureyes/altura/internal/identity"
	"github.com/lureyes/altura/internal/platform/apperr"
)

// Client calls the identity validation collaborator over HTTP.
type Client struct {
	rest *rest.Client
}

// New creates an identity validation client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{rest: rest.New(baseURL, timeout)}
}

// classify turns a pass-through rejection into the typed error its code
// demands. Unrecognized codes stay as plain remote errors.
func classify(remote *apperr.AppError) error {
	switch remote.Code {
	case apperr.CodeAttemptsExceeded, apperr.CodeAttemptsExceededNotified:
		return &identity.AttemptsExceededError{AppError: remote}

	case apperr.CodeIdentityData, apperr.CodeIdentityDataNotified:
		return &identity.IdentityDataError{AppError: remote}

	case apperr.CodeIdentityMinor:
		if strings.Contains(remote.Message, "minor") {
			return &identity.MinorError{AppError: remote}
		}
	}
	return remote
}

/*
ValidateIdentity submits evidence for validation.

Description: A 206 with no error documents means the collaborator is still
processing; the empty id tells the workflow to report pending. A success body
listing the teen-partial code is surfaced as [identity.TeenPartialError] so
the workflow can park the account while keeping the validated id.

Parameters:
  - context: context.Context
  - request: identity.ValidationRequest

Returns:
  - string: Validated user id, or "" while pending
  - error: Typed rejections, pass-through errors, transport failures
*/
func (client *Client) ValidateIdentity(context context.Context, request identity.ValidationRequest) (string, error) {
	response, err := client.rest.Do(context, http.MethodPost, "/v1/identity-validations", nil, request)
	if err != nil {
		return "", err
	}
	if !response.IsSuccess() {
		return "", classify(response.RemoteError())
	}

	// Still processing upstream
	errorCodes := response.ErrorCodes()
	if response.StatusCode == http.StatusPartialContent && len(errorCodes) == 0 {
		return "", nil
	}

	var outcome struct {
		UserID string `json:"user_id"`
	}
	if err := response.DecodeData(&outcome); err != nil {
		return "", err
	}

	for _, code := range errorCodes {
		if code == apperr.CodeIdentityTeenPartial {
			return "", &identity.TeenPartialError{UserID: outcome.UserID}
		}
	}

	return outcome.UserID, nil
}

/*
GetIdentityByUserID fetches the applicant's verified identity record.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *identity.Identity: The verified record
  - error: Pass-through errors or transport failures
*/
func (client *Client) GetIdentityByUserID(context context.Context, userID string) (*identity.Identity, error) {
	response, err := client.rest.Do(context, http.MethodGet, "/v1/identity-validations/"+userID, nil, nil)
	if err != nil {
		return nil, err
	}
	if !response.IsSuccess() {
		return nil, classify(response.RemoteError())
	}

	record := &identity.Identity{}
	if err := response.DecodeData(record); err != nil {
		return nil, err
	}
	return record, nil
}

/*
ConfirmIdentity marks the validated identity as confirmed upstream.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Confirmed user id
  - error: Pass-through errors or transport failures
*/
func (client *Client) ConfirmIdentity(context context.Context, userID string) (string, error) {
	response, err := client.rest.Do(context, http.MethodPatch, "/v1/identity-validations/"+userID, nil, nil)
	if err != nil {
		return "", err
	}
	if !response.IsSuccess() {
		return "", classify(response.RemoteError())
	}

	var confirmed struct {
		UserID string `json:"user_id"`
	}
	if err := response.DecodeData(&confirmed); err != nil {
		return "", err
	}
	return confirmed.UserID, nil
}
