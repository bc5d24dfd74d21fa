// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package signup implements the onboarding workflow from email capture through
phone verification.

It owns the SignUp entity, a per-user state machine that tracks how far a
prospective account holder has progressed. The email confirmation link carries
a signed token; the phone confirmation carries a four digit one-time code sent
over SMS.

Architecture:

  - Service: Orchestrates the workflow transitions (create, confirm, reissue).
  - Repository: Abstracted interfaces for Postgres (SignUp) and Redis (OTP throttle).
  - TokenSigner: HS256 tokens binding a confirmation link to one contact method.

The deeper stages of the workflow (identity checks, legal validation) live in
the identity package; this package hands off once the email is confirmed.
*/
package signup

// SignUpStage enumerates the steps of the onboarding state machine.
//
// # Transitions
//
// EMAIL_CONFIRMATION advances directly to IDENTITY_VALIDATION when the email
// token is confirmed. PHONE_CONFIRMATION is entered only by the SMS flow.
// SIGN_UP_BLOCKED is absorbing.
type SignUpStage string

const (
	StageEmailConfirmation   SignUpStage = "EMAIL_CONFIRMATION"
	StagePhoneConfirmation   SignUpStage = "PHONE_CONFIRMATION"
	StageIdentityValidation  SignUpStage = "IDENTITY_VALIDATION"
	StageLegalValidation     SignUpStage = "LEGAL_VALIDATION"
	StageGenerateCredentials SignUpStage = "GENERATE_CREDENTIALS"
	StageBlocked             SignUpStage = "SIGN_UP_BLOCKED"
)

// SignUp tracks one user's progress through the onboarding workflow.
// There is at most one per user.
type SignUp struct {
	ID     string      `json:"id"`
	Stage  SignUpStage `json:"stage"`
	UserID string      `json:"user_id"`
}
