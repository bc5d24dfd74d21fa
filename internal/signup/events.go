// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package signup

import (
	"github.com/lureyes/altura/internal/platform/events"
	"github.com/lureyes/altura/internal/users"
)

// # Emitted Events

// savedSignUpPayload is the body of the signup.saved event. Downstream
// notification services use it to send the confirmation email.
type savedSignUpPayload struct {
	SignUpID           string `json:"sign_up_id"`
	ServiceAgreementID int    `json:"service_agr_id"`
	Email              string `json:"email"`
	ConfirmationToken  string `json:"confirmation_token"`
}

// savedContactMethodPayload is the body of the users.contact_method_saved
// event. Downstream notification services use it to send the SMS code.
type savedContactMethodPayload struct {
	Recipients []string `json:"recipients"`
	Body       string   `json:"body"`
}

// savedSignUpEvent builds the event announcing a created or reissued sign-up.
func savedSignUpEvent(signUp *SignUp, user *users.User, method *users.ContactMethod) events.Event {
	return events.Event{
		Source: "signup",
		Name:   "saved",
		Payload: savedSignUpPayload{
			SignUpID:           signUp.ID,
			ServiceAgreementID: user.ServiceAgreementID,
			Email:              method.Value,
			ConfirmationToken:  method.Confirmation.Value,
		},
	}
}

// savedContactMethodEvent builds the event carrying a freshly issued
// one-time code.
func savedContactMethodEvent(phoneNumber, otp string) events.Event {
	return events.Event{
		Source: "users",
		Name:   "contact_method_saved",
		Payload: savedContactMethodPayload{
			Recipients: []string{phoneNumber},
			Body:       otp,
		},
	}
}
