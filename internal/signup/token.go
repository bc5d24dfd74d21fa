// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package signup

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner mints the signed token embedded in email confirmation links.
//
// # Why the token is never decoded
//
// Validation resolves the token by looking it up as the stored confirmation
// value, so the signature is only ever produced, never verified here. Signing
// still matters: it makes tokens unforgeable and visibly ours in transit.
type TokenSigner struct {
	secret []byte
}

// NewTokenSigner creates a TokenSigner with the given HS256 secret.
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

/*
Sign produces the email confirmation token for a contact method.

Parameters:
  - contactMethodID: string

Returns:
  - string: Signed compact JWT
  - error: Signing failures
*/
func (signer *TokenSigner) Sign(contactMethodID string) (string, error) {

	// The single claim binds the token to one contact method
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"contact_method_id": contactMethodID,
	})

	// Sign with the shared secret
	signedToken, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("signup_token_sign_failed: %w", err)
	}

	return signedToken, nil
}
