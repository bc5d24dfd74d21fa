// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package customers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lureyes/altura/internal/identity"
	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/users"
)

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 2*time.Second)
}

func TestGetByID_IndexesIdentificationsByType(t *testing.T) {
	client := serve(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/customers/cus-1", request.URL.Path)
		_, _ = writer.Write([]byte(`{"data": {
			"id": "cus-1",
			"first_name": "Rita",
			"last_name": "Paz",
			"identifications": [
				{"type": "DNI", "number": "30111222"},
				{"type": "CUIL", "number": "27301112223"}
			]
		}}`))
	})

	customer, err := client.GetByID(context.Background(), "cus-1")
	require.NoError(t, err)

	assert.Equal(t, "Rita", customer.FirstName)
	assert.Equal(t, "30111222", customer.Identifications[users.DocumentDNI].Number)
	assert.Equal(t, "27301112223", customer.Identifications[users.DocumentCUIL].Number)
}

func TestListByDocument_QueryParameters(t *testing.T) {
	tests := []struct {
		name      string
		list      func(*Client) ([]*users.Customer, error)
		wantParam string
	}{
		{
			name:      "dni",
			list:      func(c *Client) ([]*users.Customer, error) { return c.ListByDNI(context.Background(), "30111222") },
			wantParam: "identity_dni",
		},
		{
			name:      "cuil",
			list:      func(c *Client) ([]*users.Customer, error) { return c.ListByCUIL(context.Background(), "30111222") },
			wantParam: "identity_cuil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery string
			client := serve(t, func(writer http.ResponseWriter, request *http.Request) {
				gotQuery = request.URL.Query().Get(tt.wantParam)
				_, _ = writer.Write([]byte(`{"data": [{"id": "cus-1"}]}`))
			})

			listed, err := tt.list(client)
			require.NoError(t, err)

			assert.Equal(t, "30111222", gotQuery)
			require.Len(t, listed, 1)
			assert.Equal(t, "cus-1", listed[0].ID)
		})
	}
}

func TestCreate_SubmitsBothIdentifications(t *testing.T) {
	var got createCustomerRequest
	client := serve(t, func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, json.NewDecoder(request.Body).Decode(&got))
		writer.WriteHeader(http.StatusCreated)
		_, _ = writer.Write([]byte(`{"data": {"id": "cus-9"}}`))
	})

	createdID, err := client.Create(context.Background(), &identity.Identity{
		FirstName:   "Rita",
		LastName:    "Paz",
		Nationality: "ARG",
		DNI:         "30111222",
		CUIL:        "27301112223",
	})
	require.NoError(t, err)

	assert.Equal(t, "cus-9", createdID)
	require.Len(t, got.Identifications, 2)
	assert.Equal(t, users.DocumentDNI, got.Identifications[0].Type)
	assert.Equal(t, "27301112223", got.Identifications[1].Number)
}

func TestUpdateLegalValidation_NestedErrorShape(t *testing.T) {
	client := serve(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPatch, request.Method)
		assert.Equal(t, "/v1/customers/cus-1/legal_validation", request.URL.Path)
		writer.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = writer.Write([]byte(`{"error": {"code": "ALT-ERROR-00777", "message": "occupation unknown"}}`))
	})

	err := client.UpdateLegalValidation(context.Background(), identity.LegalValidation{CustomerID: "cus-1"})

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "ALT-ERROR-00777"))
	assert.Equal(t, "occupation unknown", apperr.As(err).Message)
}
