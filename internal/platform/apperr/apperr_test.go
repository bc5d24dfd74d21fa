// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_CodesAndStatuses(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantCode    string
		wantStatus  int
		wantMessage string
	}{
		{
			name: "not_found", err: NotFound("User"),
			wantCode: CodeEntityNotFound, wantStatus: http.StatusNotFound,
			wantMessage: "Entity Not Found <User>",
		},
		{
			name: "validation", err: Validation("Email already taken."),
			wantCode: CodeValidation, wantStatus: http.StatusBadRequest,
			wantMessage: "Email already taken.",
		},
		{
			name: "resolution", err: Resolution("EMAIL", "user-1"),
			wantCode: CodeResolution, wantStatus: http.StatusInternalServerError,
			wantMessage: "Too many contact methods with type=EMAIL and user_id=user-1",
		},
		{
			name: "duplicated", err: Duplicated("Customer"),
			wantCode: CodeDuplicatedResource, wantStatus: http.StatusConflict,
			wantMessage: "Multiple results for entity Customer found.",
		},
		{
			name: "wrong_ccid", err: WrongCCID("nope"),
			wantCode: CodeWrongCCID, wantStatus: http.StatusBadRequest,
			wantMessage: `It was not possible to cast "nope" as UUID.`,
		},
		{
			name: "identity_validation_with_stage", err: IdentityValidation("LEGAL_VALIDATION"),
			wantCode: CodeIdentityValidation, wantStatus: http.StatusConflict,
			wantMessage: "Current signup stage is LEGAL_VALIDATION",
		},
		{
			name: "identity_validation_without_stage", err: IdentityValidation(""),
			wantCode: CodeIdentityValidation, wantStatus: http.StatusConflict,
			wantMessage: "User did not perform identity validation yet.",
		},
		{
			name: "missing_address", err: MissingAddress(),
			wantCode: CodeMissingAddress, wantStatus: http.StatusNotFound,
			wantMessage: "Missing addresses. Must add a new address.",
		},
		{
			name: "remote_pass_through", err: Remote("ALT-ERROR-00850", "Attempts exceeded", http.StatusConflict),
			wantCode: "ALT-ERROR-00850", wantStatus: http.StatusConflict,
			wantMessage: "Attempts exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantMessage, tt.err.Error())
		})
	}
}

func TestInternal_CauseHiddenFromClient(t *testing.T) {
	cause := errors.New("pool exhausted")
	err := Internal(cause)

	assert.Equal(t, "An unexpected error occurred", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestHelpers_TraverseWrapChains(t *testing.T) {
	wrapped := fmt.Errorf("signup_service_lookup_failed: %w", NotFound("SignUp"))

	require.True(t, IsAppError(wrapped))
	assert.True(t, HasCode(wrapped, CodeEntityNotFound))
	assert.False(t, HasCode(wrapped, CodeValidation))

	extracted := As(wrapped)
	require.NotNil(t, extracted)
	assert.Equal(t, http.StatusNotFound, extracted.HTTPStatus)

	assert.False(t, IsAppError(errors.New("plain")))
	assert.Nil(t, As(errors.New("plain")))
}
