// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package users defines the core onboarding domain model and its read operations.

It owns the User aggregate (contact methods, confirmations, address links) and
the invariants every workflow handler relies on.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
Workflow packages (signup, identity) build on top of it.
*/
package users

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lureyes/altura/internal/platform/apperr"
)

// # Closed Enumerations

// UserStatus is the lifecycle status of a User. Closed set; handlers never
// construct values outside it.
type UserStatus string

const (
	StatusPendingValidation    UserStatus = "PENDING_VALIDATION"
	StatusValidationRejected   UserStatus = "VALIDATION_REJECTED"
	StatusBanned               UserStatus = "BANNED"
	StatusBannedNotified       UserStatus = "BANNED_NOTIFIED"
	StatusValidated            UserStatus = "VALIDATED"
	StatusActive               UserStatus = "ACTIVE"
	StatusBlocked              UserStatus = "BLOCKED"
	StatusPendingAuthorization UserStatus = "PENDING_AUTHORIZATION"
)

// ContactConfirmationType discriminates the challenge kind of a confirmation.
type ContactConfirmationType string

const (
	// ConfirmationToken is a signed link token delivered by email.
	ConfirmationToken ContactConfirmationType = "TOKEN"
	// ConfirmationOTP is a four digit one-time code delivered by SMS.
	ConfirmationOTP ContactConfirmationType = "OTP"
)

// Contact method type descriptions.
const (
	ContactMethodEmail = "EMAIL"
	ContactMethodPhone = "PHONE"
)

// DocumentType identifies a national document kind.
type DocumentType string

const (
	DocumentDNI  DocumentType = "DNI"
	DocumentCUIL DocumentType = "CUIL"
)

// BusinessModel identifies which Altura product line a service agreement
// belongs to.
type BusinessModel int

const (
	BusinessModelAltura  BusinessModel = 0
	BusinessModelAlturaZ BusinessModel = 1
)

// ParseBusinessModel converts the wire representation of a business model.
func ParseBusinessModel(value string) (BusinessModel, error) {
	switch value {
	case "0", "ALTURA":
		return BusinessModelAltura, nil
	case "1", "ALTURAZ":
		return BusinessModelAlturaZ, nil
	}
	return 0, apperr.Validation(fmt.Sprintf("Unknown business model %q", value))
}

// ParseDocumentType converts the wire representation of a document type.
func ParseDocumentType(value string) (DocumentType, error) {
	switch DocumentType(value) {
	case DocumentDNI:
		return DocumentDNI, nil
	case DocumentCUIL:
		return DocumentCUIL, nil
	}
	return "", apperr.Validation(fmt.Sprintf("Unknown document type %q", value))
}

// # Value Objects

// AuditFields tracks row provenance. It is treated as an immutable value;
// mutations go through [AuditFields.Touched].
type AuditFields struct {
	CreatedBy    string     `json:"created_by,omitempty"`
	CreatedDate  time.Time  `json:"created_date"`
	ModifiedBy   string     `json:"modified_by,omitempty"`
	ModifiedDate time.Time  `json:"modified_date"`
	DeletedBy    string     `json:"deleted_by,omitempty"`
	DeletedDate  *time.Time `json:"deleted_date,omitempty"`
}

// NewAuditFields initializes audit metadata for a freshly created entity.
func NewAuditFields(now time.Time, actor string) AuditFields {
	return AuditFields{
		CreatedBy:    actor,
		CreatedDate:  now,
		ModifiedBy:   actor,
		ModifiedDate: now,
	}
}

// Touched returns a copy with refreshed modification metadata.
func (a AuditFields) Touched(now time.Time, actor string) AuditFields {
	a.ModifiedBy = actor
	a.ModifiedDate = now
	return a
}

// ContactConfirmation is one challenge proving control of a contact channel.
//
// It is an immutable value object: replacing a confirmation always goes
// through [ContactConfirmation.Recreate], never in-place mutation, so the
// same value can be read safely by concurrent handlers.
type ContactConfirmation struct {
	Type        ContactConfirmationType `json:"type"`
	Value       string                  `json:"-"`
	CreatedAt   time.Time               `json:"created_at"`
	ExpireAt    time.Time               `json:"expire_at"`
	ConfirmedAt *time.Time              `json:"confirmed_at,omitempty"`
}

// IsExpired reports whether the confirmation lapsed without being confirmed.
// Computed against the supplied clock on every read, never stored.
func (c ContactConfirmation) IsExpired(now time.Time) bool {
	return c.ExpireAt.Before(now) && c.ConfirmedAt == nil
}

// IsStillPending reports whether the confirmation can still be answered.
func (c ContactConfirmation) IsStillPending(now time.Time) bool {
	return !c.ExpireAt.Before(now) && c.ConfirmedAt == nil
}

// IsConfirmed reports whether the challenge was answered successfully.
// A confirmation that is neither pending nor expired is confirmed.
func (c ContactConfirmation) IsConfirmed() bool {
	return c.ConfirmedAt != nil
}

// ConfirmationPatch selects the fields [ContactConfirmation.Recreate] overrides.
// Nil fields keep the original value.
type ConfirmationPatch struct {
	Value       *string
	CreatedAt   *time.Time
	ExpireAt    *time.Time
	ConfirmedAt *time.Time
}

// Recreate returns a new confirmation copying every field the patch leaves nil.
func (c ContactConfirmation) Recreate(patch ConfirmationPatch) ContactConfirmation {
	next := c
	if patch.Value != nil {
		next.Value = *patch.Value
	}
	if patch.CreatedAt != nil {
		next.CreatedAt = *patch.CreatedAt
	}
	if patch.ExpireAt != nil {
		next.ExpireAt = *patch.ExpireAt
	}
	if patch.ConfirmedAt != nil {
		next.ConfirmedAt = patch.ConfirmedAt
	}
	return next
}

// # Domain Entities

// ContactMethodType is a row of the contact method type catalogue.
type ContactMethodType struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ContactMethod binds one channel (an email address or a phone number) to a
// User. Its confirmation is replaced wholesale whenever reissued.
type ContactMethod struct {
	ID           string              `json:"id"`
	Type         ContactMethodType   `json:"type"`
	Value        string              `json:"value"`
	Confirmation ContactConfirmation `json:"contact_confirmation"`
	UserID       string              `json:"user_id"`
	Audit        AuditFields         `json:"audit_fields"`
}

// IsConfirmed reports whether this channel has ever been confirmed.
func (m *ContactMethod) IsConfirmed() bool {
	return m.Confirmation.IsConfirmed()
}

// UserAddress links a User to an externally-sourced address id.
// Append-only; the service never edits or removes links.
type UserAddress struct {
	UserID    string      `json:"user_id"`
	AddressID string      `json:"address_id"`
	Type      string      `json:"type"`
	Priority  *int        `json:"priority,omitempty"`
	Audit     AuditFields `json:"audit_fields"`
}

// DefaultAddressType is the discriminator assigned to addresses captured
// during onboarding.
const DefaultAddressType = "ONBOARDING"

// User is the identity anchor of the onboarding workflow.
type User struct {
	ID                 string           `json:"id"`
	ServiceAgreementID int              `json:"service_agr_id"`
	Status             UserStatus       `json:"status"`
	CustomerID         *string          `json:"customer_id,omitempty"`
	ContactMethods     []*ContactMethod `json:"contact_methods"`
	Addresses          []UserAddress    `json:"user_addresses,omitempty"`
	Customer           *Customer        `json:"customer,omitempty"`
	Audit              AuditFields      `json:"audit_fields"`
}

/*
Email resolves the single confirmed EMAIL contact method value.

Returns:
  - string: The confirmed email address
  - error: apperr.Resolution if more than one confirmed email exists,
    apperr.NotFound if none does
*/
func (u *User) Email() (string, error) {
	return u.confirmedContactValue(ContactMethodEmail)
}

/*
PhoneNumber resolves the single confirmed PHONE contact method value.

Returns:
  - string: The confirmed phone number
  - error: apperr.Resolution if more than one confirmed phone exists,
    apperr.NotFound if none does
*/
func (u *User) PhoneNumber() (string, error) {
	return u.confirmedContactValue(ContactMethodPhone)
}

// confirmedContactValue enforces the at-most-one-confirmed-per-type invariant.
func (u *User) confirmedContactValue(typeDescription string) (string, error) {
	var matches []*ContactMethod
	for _, method := range u.ContactMethods {
		if method.Type.Description == typeDescription && method.IsConfirmed() {
			matches = append(matches, method)
		}
	}

	if len(matches) > 1 {
		return "", apperr.Resolution(typeDescription, u.ID)
	}
	if len(matches) == 0 {
		return "", apperr.NotFound("ContactMethod")
	}

	return matches[0].Value, nil
}

// ContactMethodsOf returns every contact method of the given type, in order.
func (u *User) ContactMethodsOf(typeDescription string) []*ContactMethod {
	var matches []*ContactMethod
	for _, method := range u.ContactMethods {
		if method.Type.Description == typeDescription {
			matches = append(matches, method)
		}
	}
	return matches
}

// AppendAddress links an address to the user.
func (u *User) AppendAddress(addressID string, now time.Time) {
	u.Addresses = append(u.Addresses, UserAddress{
		UserID:    u.ID,
		AddressID: addressID,
		Type:      DefaultAddressType,
		Audit:     NewAuditFields(now, u.ID),
	})
}

// # External Entities

// Identification is one document record attached to a Customer.
type Identification struct {
	Type   DocumentType `json:"type"`
	Number string       `json:"number"`
}

// Customer is the external customer-registry entity, referenced by id once
// linked to a User. The service never mutates customers directly.
type Customer struct {
	ID              string                          `json:"id"`
	FirstName       string                          `json:"first_name"`
	LastName        string                          `json:"last_name"`
	Gender          string                          `json:"gender"`
	BirthDate       string                          `json:"birth_date"`
	Identifications map[DocumentType]Identification `json:"identifications"`
	NationalityID   string                          `json:"nationality_id"`
	Status          string                          `json:"status,omitempty"`
}

// Document returns the highest-priority identification on record.
// CUIL wins over DNI when both exist; ok is false when neither does.
func (c *Customer) Document() (docType DocumentType, number string, ok bool) {
	if id, found := c.Identifications[DocumentCUIL]; found {
		return DocumentCUIL, id.Number, true
	}
	if id, found := c.Identifications[DocumentDNI]; found {
		return DocumentDNI, id.Number, true
	}
	return "", "", false
}

// # Identity Helpers

// NewID generates a time-sortable entity id, falling back to v4 when the
// system clock misbehaves.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewUser constructs a fully valid pending user for the given agreement.
func NewUser(serviceAgreementID int, now time.Time) *User {
	id := NewID()
	return &User{
		ID:                 id,
		ServiceAgreementID: serviceAgreementID,
		Status:             StatusPendingValidation,
		Audit:              NewAuditFields(now, id),
	}
}
