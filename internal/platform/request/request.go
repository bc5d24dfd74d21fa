// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
UUIDParam retrieves a named URL parameter and validates it as a UUID.

Returns:
  - string: The canonical UUID string
  - error: apperr.Validation if the parameter is not a valid UUID
*/
func UUIDParam(request *http.Request, name string) (string, error) {
	raw := chi.URLParam(request, name)

	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", apperr.Validation("Invalid "+name, apperr.FieldError{
			Field:   name,
			Message: "must be a valid UUID",
		})
	}

	return parsed.String(), nil
}
