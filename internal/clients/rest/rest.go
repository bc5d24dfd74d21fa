// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package rest provides the shared HTTP plumbing for collaborator clients.

Every outbound request carries the correlation headers (X-CCID, X-Request-ID)
taken from the calling context, so a workflow operation can be traced across
the whole service fleet. Responses keep their raw body so each client can
apply its collaborator's envelope and error conventions.
*/
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/platform/constants"
	"github.com/lureyes/altura/internal/platform/ctxutil"
)

// Client issues JSON requests against one collaborator base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL. A zero timeout falls back to
// the default client timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultClientTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Response is a fully read collaborator response.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// dataEnvelope is the success envelope every collaborator wraps payloads in.
type dataEnvelope struct {
	Data   json.RawMessage  `json:"data"`
	Errors []remoteErrorDoc `json:"errors"`
}

// remoteErrorDoc is one error document as collaborators serialize it.
type remoteErrorDoc struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

/*
Do issues a JSON request and reads the full response.

Description: Correlation headers are attached from the context. Non-2xx
statuses are NOT turned into errors here; clients inspect the response and
apply their collaborator's error conventions.

Parameters:
  - ctx: context.Context
  - method: string
  - path: string
  - query: url.Values
  - body: any (nil for no body)

Returns:
  - *Response: Status and raw body
  - error: Transport failures only
*/
func (client *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Response, error) {

	// Serialize the body when present
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("rest_client_encode_failed: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	// Build the full URL
	fullURL := client.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("rest_client_build_failed: %w", err)
	}

	// Correlation headers travel on every outbound call
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	if ccid := ctxutil.GetCCID(ctx); ccid != "" {
		request.Header.Set(constants.HeaderCCID, ccid)
	}
	if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
		request.Header.Set(constants.HeaderXRequestID, requestID)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("rest_client_request_failed: %w", err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("rest_client_read_failed: %w", err)
	}

	return &Response{StatusCode: response.StatusCode, Body: raw}, nil
}

// DecodeData unmarshals the "data" member of the standard success envelope
// into target.
func (r *Response) DecodeData(target any) error {
	var envelope dataEnvelope
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return fmt.Errorf("rest_client_decode_failed: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, target); err != nil {
		return fmt.Errorf("rest_client_decode_failed: %w", err)
	}
	return nil
}

// Decode unmarshals the whole body into target, for collaborators that do
// not use the data envelope.
func (r *Response) Decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("rest_client_decode_failed: %w", err)
	}
	return nil
}

// ErrorCodes lists the codes of the "errors" member, when present.
func (r *Response) ErrorCodes() []string {
	var envelope dataEnvelope
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		return nil
	}
	codes := make([]string, 0, len(envelope.Errors))
	for _, doc := range envelope.Errors {
		codes = append(codes, doc.Code)
	}
	return codes
}

// RemoteError translates a non-2xx response into a pass-through [apperr.AppError].
//
// Collaborators serialize failures either nested, {"error": {code, message}},
// or flat, {code, message}. Both shapes are accepted; anything else becomes
// an internal error carrying the raw body.
func (r *Response) RemoteError() *apperr.AppError {
	var nested struct {
		Error *remoteErrorDoc `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &nested); err == nil && nested.Error != nil && nested.Error.Code != "" {
		return apperr.Remote(nested.Error.Code, nested.Error.Message, r.StatusCode)
	}

	var flat remoteErrorDoc
	if err := json.Unmarshal(r.Body, &flat); err == nil && flat.Code != "" {
		return apperr.Remote(flat.Code, flat.Message, r.StatusCode)
	}

	return apperr.Internal(fmt.Errorf("rest_client_unexpected_status: %d %s", r.StatusCode, string(r.Body)))
}
