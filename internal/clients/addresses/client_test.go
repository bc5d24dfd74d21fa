// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package addresses

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lureyes/altura/internal/platform/apperr"
)

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 2*time.Second)
}

func TestList_DecodesBareArray(t *testing.T) {
	client := serve(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1.5/address/user/user-1", request.URL.Path)
		_, _ = writer.Write([]byte(`[
			{"address_id": "addr-1", "street_name": "Lavalle", "street_no": "1234"},
			{"address_id": "addr-2", "street_name": "Corrientes", "street_no": "800"}
		]`))
	})

	listed, err := client.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "addr-1", listed[0].AddressID)
	assert.Equal(t, "Corrientes", listed[1].StreetName)
}

func TestList_NoAddressesOnFile(t *testing.T) {
	client := serve(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"code": "ALT-ERROR-00401", "message": "Entity Address not found."}`))
	})

	_, err := client.List(context.Background(), "user-1")

	assert.True(t, apperr.HasCode(err, apperr.CodeMissingAddress))
}

func TestList_OtherFailuresPassThrough(t *testing.T) {
	client := serve(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		_, _ = writer.Write([]byte(`{"code": "ALT-ERROR-00503", "message": "upstream unavailable"}`))
	})

	_, err := client.List(context.Background(), "user-1")

	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, "ALT-ERROR-00503"))
	assert.False(t, apperr.HasCode(err, apperr.CodeMissingAddress))
}
