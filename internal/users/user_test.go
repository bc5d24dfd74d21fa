// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package users_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/users"
)

func confirmationAt(expireAt time.Time, confirmedAt *time.Time) users.ContactConfirmation {
	return users.ContactConfirmation{
		Type:        users.ConfirmationToken,
		Value:       "token-value",
		CreatedAt:   expireAt.Add(-24 * time.Hour),
		ExpireAt:    expireAt,
		ConfirmedAt: confirmedAt,
	}
}

/*
TestContactConfirmation_PredicateExclusivity verifies that exactly one of
expired, pending, confirmed holds at any instant.
*/
func TestContactConfirmation_PredicateExclusivity(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	confirmedAt := now.Add(-1 * time.Hour)

	tests := []struct {
		name      string
		conf      users.ContactConfirmation
		expired   bool
		pending   bool
		confirmed bool
	}{
		{"future_expiry_unconfirmed", confirmationAt(now.Add(time.Hour), nil), false, true, false},
		{"past_expiry_unconfirmed", confirmationAt(now.Add(-time.Hour), nil), true, false, false},
		{"confirmed_before_expiry", confirmationAt(now.Add(time.Hour), &confirmedAt), false, false, true},
		{"confirmed_after_expiry", confirmationAt(now.Add(-time.Hour), &confirmedAt), false, false, true},
		{"expiry_exactly_now", confirmationAt(now, nil), false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.conf.IsExpired(now))
			assert.Equal(t, tt.pending, tt.conf.IsStillPending(now))
			assert.Equal(t, tt.confirmed, tt.conf.IsConfirmed())

			// Exactly one predicate may hold.
			count := 0
			for _, held := range []bool{tt.conf.IsExpired(now), tt.conf.IsStillPending(now), tt.conf.IsConfirmed()} {
				if held {
					count++
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}

/*
TestContactConfirmation_Recreate verifies copy-with-overrides semantics:
the original value object is never mutated.
*/
func TestContactConfirmation_Recreate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	original := confirmationAt(now.Add(time.Hour), nil)

	newExpiry := now.Add(48 * time.Hour)
	confirmedAt := now

	recreated := original.Recreate(users.ConfirmationPatch{
		ExpireAt:    &newExpiry,
		ConfirmedAt: &confirmedAt,
	})

	// Overridden fields
	assert.Equal(t, newExpiry, recreated.ExpireAt)
	require.NotNil(t, recreated.ConfirmedAt)
	assert.Equal(t, confirmedAt, *recreated.ConfirmedAt)

	// Copied fields
	assert.Equal(t, original.Type, recreated.Type)
	assert.Equal(t, original.Value, recreated.Value)
	assert.Equal(t, original.CreatedAt, recreated.CreatedAt)

	// Original untouched
	assert.Nil(t, original.ConfirmedAt)
	assert.Equal(t, now.Add(time.Hour), original.ExpireAt)
}

func contactMethod(typeDescription, value string, confirmed bool) *users.ContactMethod {
	conf := users.ContactConfirmation{
		Type:     users.ConfirmationToken,
		Value:    "secret",
		ExpireAt: time.Now().Add(time.Hour),
	}
	if confirmed {
		at := time.Now()
		conf.ConfirmedAt = &at
	}
	return &users.ContactMethod{
		ID:           users.NewID(),
		Type:         users.ContactMethodType{ID: users.NewID(), Description: typeDescription},
		Value:        value,
		Confirmation: conf,
	}
}

/*
TestUser_Email_Resolution verifies the at-most-one-confirmed invariant on
contact method resolution.
*/
func TestUser_Email_Resolution(t *testing.T) {
	t.Run("single_confirmed", func(t *testing.T) {
		user := users.NewUser(0, time.Now())
		user.ContactMethods = []*users.ContactMethod{
			contactMethod(users.ContactMethodEmail, "a@b.com", true),
			contactMethod(users.ContactMethodPhone, "+5491155550001", true),
		}

		email, err := user.Email()
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", email)
	})

	t.Run("none_confirmed", func(t *testing.T) {
		user := users.NewUser(0, time.Now())
		user.ContactMethods = []*users.ContactMethod{
			contactMethod(users.ContactMethodEmail, "a@b.com", false),
		}

		_, err := user.Email()
		assert.True(t, apperr.HasCode(err, apperr.CodeEntityNotFound))
	})

	t.Run("two_confirmed_is_resolution_error", func(t *testing.T) {
		user := users.NewUser(0, time.Now())
		user.ContactMethods = []*users.ContactMethod{
			contactMethod(users.ContactMethodEmail, "a@b.com", true),
			contactMethod(users.ContactMethodEmail, "other@b.com", true),
		}

		_, err := user.Email()
		assert.True(t, apperr.HasCode(err, apperr.CodeResolution))
	})
}

/*
TestCustomer_Document verifies CUIL is preferred over DNI when both exist.
*/
func TestCustomer_Document(t *testing.T) {
	customer := &users.Customer{
		ID: users.NewID(),
		Identifications: map[users.DocumentType]users.Identification{
			users.DocumentDNI:  {Type: users.DocumentDNI, Number: "30123456"},
			users.DocumentCUIL: {Type: users.DocumentCUIL, Number: "20301234563"},
		},
	}

	docType, number, ok := customer.Document()
	require.True(t, ok)
	assert.Equal(t, users.DocumentCUIL, docType)
	assert.Equal(t, "20301234563", number)

	delete(customer.Identifications, users.DocumentCUIL)
	docType, number, ok = customer.Document()
	require.True(t, ok)
	assert.Equal(t, users.DocumentDNI, docType)
	assert.Equal(t, "30123456", number)

	delete(customer.Identifications, users.DocumentDNI)
	_, _, ok = customer.Document()
	assert.False(t, ok)
}

/*
TestParseBusinessModel covers both wire encodings of the model enum.
*/
func TestParseBusinessModel(t *testing.T) {
	tests := []struct {
		input   string
		want    users.BusinessModel
		wantErr bool
	}{
		{"0", users.BusinessModelAltura, false},
		{"1", users.BusinessModelAlturaZ, false},
		{"ALTURA", users.BusinessModelAltura, false},
		{"ALTURAZ", users.BusinessModelAlturaZ, false},
		{"2", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			got, err := users.ParseBusinessModel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
