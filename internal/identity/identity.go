// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

/*
Package identity implements the identity and legal validation steps of the
onboarding workflow.

The service never judges documents itself. It forwards the captured evidence
(document scans, selfie) to the external identity validation collaborator and
reconciles the outcome with local user and sign-up state: approvals advance
the workflow, rejections ban or block, and a teenage applicant is parked for
authorization.

Architecture:

  - Service: Orchestrates validation, confirmation and legal validation.
  - Repositories: HTTP-backed contracts for the identity, customer and
    address collaborators.
  - Compensation: Remote rejections mutate local state before propagating.
*/
package identity

// Identity is the applicant's verified personal record as the identity
// collaborator reports it.
type Identity struct {
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Nationality string    `json:"nationality"`
	Gender      string    `json:"gender"`
	DNI         string    `json:"dni"`
	CUIL        string    `json:"cuil"`
	BirthDate   string    `json:"birth_date"`
	Addresses   []Address `json:"addresses,omitempty"`
}

// Address is one of the applicant's addresses as the address collaborator
// reports it.
type Address struct {
	AddressID          string `json:"address_id"`
	UserID             string `json:"user_id"`
	Status             string `json:"status"`
	Source             string `json:"source"`
	StreetName         string `json:"street_name"`
	StreetNo           string `json:"street_no"`
	StreetIntersection string `json:"street_intersection"`
	FloorNo            string `json:"floor_no"`
	ApartmentNo        string `json:"apartment_no"`
	City               string `json:"city"`
	ZipCode            string `json:"zip_code"`
	ExtendedZipCode    string `json:"exteded_zip_code"`
	ProvinceID         string `json:"province_id"`
	CountryID          string `json:"country_id"`
}

// Evidence carries the captured identity proof submitted by the client.
type Evidence struct {
	OCR          string `json:"ocr"`
	Selfie       string `json:"selfie"`
	FaceID       string `json:"face_id"`
	Base64Front  string `json:"base64_front"`
	Base64Selfie string `json:"base64_selfie"`
	Base64Back   string `json:"base64_back"`
}

// ValidationRequest is the outbound payload the identity collaborator
// expects: the evidence plus the identifiers it is scoped to.
type ValidationRequest struct {
	UserID             string `json:"user_id"`
	ServiceAgreementID int    `json:"service_agreement_id"`
	Evidence
}

// LegalValidation carries the applicant's legal declarations forwarded to
// the customer collaborator.
type LegalValidation struct {
	UserID     string         `json:"user_id"`
	CustomerID string         `json:"customer_id"`
	PEP        bool           `json:"pep"`
	SO         bool           `json:"so"`
	FACTA      bool           `json:"facta"`
	Occupation string         `json:"occupation_id"`
	Relation   string         `json:"relationship"`
	PEPData    map[string]any `json:"pep_data,omitempty"`
}
