// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package identity

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/signup"
	"github.com/lureyes/altura/internal/users"
)

// # In-Memory Fakes

type fakeUserRepository struct {
	byID  map[string]*users.User
	saves int
}

func (repo *fakeUserRepository) Save(_ context.Context, user *users.User) error {
	repo.byID[user.ID] = user
	repo.saves++
	return nil
}

func (repo *fakeUserRepository) GetByID(_ context.Context, id string) (*users.User, error) {
	user, found := repo.byID[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *fakeUserRepository) GetByServiceAgreementAndEmail(_ context.Context, _ int, _ string) (*users.User, error) {
	return nil, nil
}

func (repo *fakeUserRepository) GetByCustomerAndServiceAgreement(_ context.Context, _ string, _ int) (*users.User, error) {
	return nil, nil
}

func (repo *fakeUserRepository) GetByCustomerAndBusinessModel(_ context.Context, _ string, _ users.BusinessModel) (*users.User, error) {
	return nil, nil
}

type fakeSignUpRepository struct {
	byUserID map[string]*signup.SignUp
	saves    int
}

func (repo *fakeSignUpRepository) Get(_ context.Context, _ string) (*signup.SignUp, error) {
	return nil, apperr.NotFound("SignUp")
}

func (repo *fakeSignUpRepository) GetByUserID(_ context.Context, userID string) (*signup.SignUp, error) {
	signUp, found := repo.byUserID[userID]
	if !found {
		return nil, apperr.NotFound("SignUp")
	}
	return signUp, nil
}

func (repo *fakeSignUpRepository) Save(_ context.Context, signUp *signup.SignUp) error {
	repo.byUserID[signUp.UserID] = signUp
	repo.saves++
	return nil
}

type fakeIdentityRepository struct {
	validateID  string
	validateErr error
	identity    *Identity
	confirmID   string
	confirmErr  error
}

func (repo *fakeIdentityRepository) ValidateIdentity(_ context.Context, _ ValidationRequest) (string, error) {
	return repo.validateID, repo.validateErr
}

func (repo *fakeIdentityRepository) GetIdentityByUserID(_ context.Context, _ string) (*Identity, error) {
	return repo.identity, nil
}

func (repo *fakeIdentityRepository) ConfirmIdentity(_ context.Context, _ string) (string, error) {
	return repo.confirmID, repo.confirmErr
}

type fakeCustomerRepository struct {
	listed       []*users.Customer
	createdID    string
	createCalls  int
	legalErr     error
	legalActions []LegalValidation
}

func (repo *fakeCustomerRepository) GetByID(_ context.Context, _ string) (*users.Customer, error) {
	return nil, apperr.NotFound("Customer")
}

func (repo *fakeCustomerRepository) ListByDNI(_ context.Context, _ string) ([]*users.Customer, error) {
	return repo.listed, nil
}

func (repo *fakeCustomerRepository) ListByCUIL(_ context.Context, _ string) ([]*users.Customer, error) {
	return repo.listed, nil
}

func (repo *fakeCustomerRepository) Create(_ context.Context, _ *Identity) (string, error) {
	repo.createCalls++
	return repo.createdID, nil
}

func (repo *fakeCustomerRepository) UpdateLegalValidation(_ context.Context, action LegalValidation) error {
	repo.legalActions = append(repo.legalActions, action)
	return repo.legalErr
}

type fakeAddressRepository struct {
	addresses []Address
	err       error
}

func (repo *fakeAddressRepository) List(_ context.Context, _ string) ([]Address, error) {
	return repo.addresses, repo.err
}

// # Harness

type testHarness struct {
	service      *Service
	userRepo     *fakeUserRepository
	signUpRepo   *fakeSignUpRepository
	identityRepo *fakeIdentityRepository
	customerRepo *fakeCustomerRepository
	addressRepo  *fakeAddressRepository
}

func newHarness() *testHarness {
	harness := &testHarness{
		userRepo:     &fakeUserRepository{byID: make(map[string]*users.User)},
		signUpRepo:   &fakeSignUpRepository{byUserID: make(map[string]*signup.SignUp)},
		identityRepo: &fakeIdentityRepository{},
		customerRepo: &fakeCustomerRepository{},
		addressRepo:  &fakeAddressRepository{},
	}
	harness.service = NewService(
		harness.userRepo,
		harness.signUpRepo,
		harness.identityRepo,
		harness.customerRepo,
		harness.addressRepo,
	)
	return harness
}

// seedApplicant installs a user ready for identity validation.
func (harness *testHarness) seedApplicant(t *testing.T) *users.User {
	t.Helper()

	user := users.NewUser(7, time.Now().UTC())
	harness.userRepo.byID[user.ID] = user
	harness.signUpRepo.byUserID[user.ID] = &signup.SignUp{
		ID:     users.NewID(),
		Stage:  signup.StageIdentityValidation,
		UserID: user.ID,
	}
	harness.userRepo.saves = 0
	harness.signUpRepo.saves = 0
	return user
}

func sampleIdentity() *Identity {
	return &Identity{
		FirstName:   "Ana",
		LastName:    "Gomez",
		Nationality: "AR",
		Gender:      "F",
		DNI:         "30123456",
		CUIL:        "27301234561",
		BirthDate:   "1992-04-11",
	}
}

// # Identity Validation

func TestValidate_SuccessMarksUserValidated(t *testing.T) {
	harness := newHarness()
	user := harness.seedApplicant(t)
	harness.identityRepo.validateID = user.ID

	outcome, err := harness.service.Validate(context.Background(), ValidateUserIdentity{UserID: user.ID})
	require.NoError(t, err)

	assert.Equal(t, user.ID, outcome.UserID)
	assert.False(t, outcome.Pending)
	assert.Equal(t, users.StatusValidated, user.Status)
	assert.Equal(t, 1, harness.userRepo.saves)
}

func TestValidate_PendingLeavesUserUntouched(t *testing.T) {
	harness := newHarness()
	user := harness.seedApplicant(t)
	harness.identityRepo.validateID = ""

	outcome, err := harness.service.Validate(context.Background(), ValidateUserIdentity{UserID: user.ID})
	require.NoError(t, err)

	assert.True(t, outcome.Pending)
	assert.Equal(t, users.StatusPendingValidation, user.Status)
	assert.Zero(t, harness.userRepo.saves)
}

func TestValidate_Preconditions(t *testing.T) {
	t.Run("wrong_user_status", func(t *testing.T) {
		harness := newHarness()
		user := harness.seedApplicant(t)
		user.Status = users.StatusBanned

		_, err := harness.service.Validate(context.Background(), ValidateUserIdentity{UserID: user.ID})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "User status is not PENDING_VALIDATION. (Current status: BANNED)")
	})

	t.Run("wrong_stage", func(t *testing.T) {
		harness := newHarness()
		user := harness.seedApplicant(t)
		harness.signUpRepo.byUserID[user.ID].Stage = signup.StageEmailConfirmation

		_, err := harness.service.Validate(context.Background(), ValidateUserIdentity{UserID: user.ID})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Sign up stage is not IDENTITY_VALIDATION. (Current sign up stage: EMAIL_CONFIRMATION).")
	})
}

func TestValidate_RejectionCompensations(t *testing.T) {
	tests := []struct {
		name       string
		remoteErr  error
		wantStatus users.UserStatus
	}{
		{
			name: "attempts_exceeded_bans",
			remoteErr: &AttemptsExceededError{
				AppError: apperr.Remote(apperr.CodeAttemptsExceeded, "Attempts exceeded", http.StatusConflict),
			},
			wantStatus: users.StatusBanned,
		},
		{
			name: "attempts_exceeded_with_ticket_bans_notified",
			remoteErr: &AttemptsExceededError{
				AppError: apperr.Remote(apperr.CodeAttemptsExceededNotified, "Attempts exceeded", http.StatusConflict),
			},
			wantStatus: users.StatusBannedNotified,
		},
		{
			name: "identity_data_bans",
			remoteErr: &IdentityDataError{
				AppError: apperr.Remote(apperr.CodeIdentityData, "Identity data corrupt", http.StatusConflict),
			},
			wantStatus: users.StatusBanned,
		},
		{
			name: "identity_data_with_ticket_bans_notified",
			remoteErr: &IdentityDataError{
				AppError: apperr.Remote(apperr.CodeIdentityDataNotified, "Identity data corrupt", http.StatusConflict),
			},
			wantStatus: users.StatusBannedNotified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			harness := newHarness()
			user := harness.seedApplicant(t)
			harness.identityRepo.validateErr = tt.remoteErr

			_, err := harness.service.Validate(context.Background(), ValidateUserIdentity{UserID: user.ID})

			// The rejection propagates after the local compensation
			require.ErrorIs(t, err, tt.remoteErr)
			assert.Equal(t, tt.wantStatus, user.Status)
			assert.Equal(t, 1, harness.userRepo.saves)
		})
	}
}

func TestValidate_MinorBlocksSignUp(t *testing.T) {
	harness := newHarness()
	user := harness.seedApplicant(t)
	remoteErr := &MinorError{
		AppError: apperr.Remote(apperr.CodeIdentityMinor, "User is a minor", http.StatusConflict),
	}
	harness.identityRepo.validateErr = remoteErr

	_, err := harness.service.Validate(context.Background(), ValidateUserIdentity{UserID: user.ID})

	require.ErrorIs(t, err, remoteErr)
	assert.Equal(t, signup.StageBlocked, harness.signUpRepo.byUserID[user.ID].Stage)
	// The user status is untouched; only the workflow is blocked
	assert.Equal(t, users.StatusPendingValidation, user.Status)
}

func TestValidate_TeenPartialParksForAuthorization(t *testing.T) {
	harness := newHarness()
	user := harness.seedApplicant(t)
	harness.identityRepo.validateErr = &TeenPartialError{UserID: user.ID}

	outcome, err := harness.service.Validate(context.Background(), ValidateUserIdentity{UserID: user.ID})

	// A teen is a success with a parked account, not a failure
	require.NoError(t, err)
	assert.Equal(t, user.ID, outcome.UserID)
	assert.Equal(t, users.StatusPendingAuthorization, user.Status)
}

// # Identity Read

func TestGetValidation(t *testing.T) {
	t.Run("attaches_addresses", func(t *testing.T) {
		harness := newHarness()
		user := harness.seedApplicant(t)
		harness.identityRepo.identity = sampleIdentity()
		harness.addressRepo.addresses = []Address{{AddressID: users.NewID(), UserID: user.ID}}

		result, err := harness.service.GetValidation(context.Background(), GetIdentityValidation{UserID: user.ID})
		require.NoError(t, err)

		assert.Empty(t, result.Errors)
		require.Len(t, result.Identity.Addresses, 1)
	})

	t.Run("missing_addresses_is_partial_not_fatal", func(t *testing.T) {
		harness := newHarness()
		user := harness.seedApplicant(t)
		harness.identityRepo.identity = sampleIdentity()
		harness.addressRepo.err = apperr.MissingAddress()

		result, err := harness.service.GetValidation(context.Background(), GetIdentityValidation{UserID: user.ID})
		require.NoError(t, err)

		require.NotNil(t, result.Identity)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, apperr.CodeMissingAddress, result.Errors[0].Code)
	})

	t.Run("wrong_stage_reports_current_stage", func(t *testing.T) {
		harness := newHarness()
		user := harness.seedApplicant(t)
		harness.identityRepo.identity = sampleIdentity()
		harness.signUpRepo.byUserID[user.ID].Stage = signup.StageLegalValidation

		_, err := harness.service.GetValidation(context.Background(), GetIdentityValidation{UserID: user.ID})

		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeIdentityValidation))
		assert.Contains(t, err.Error(), "Current signup stage is LEGAL_VALIDATION")
	})
}

// # Identity Confirmation

func TestConfirm(t *testing.T) {
	addressID := users.NewID()

	seed := func(harness *testHarness) *users.User {
		user := harness.seedApplicant(t)
		harness.identityRepo.confirmID = user.ID
		harness.identityRepo.identity = sampleIdentity()
		harness.addressRepo.addresses = []Address{{AddressID: addressID, UserID: user.ID}}
		return user
	}

	t.Run("reuses_matching_customer", func(t *testing.T) {
		harness := newHarness()
		user := seed(harness)
		existing := &users.Customer{ID: users.NewID()}
		harness.customerRepo.listed = []*users.Customer{existing}

		confirmedID, err := harness.service.Confirm(context.Background(), ConfirmIdentity{
			UserID:    user.ID,
			AddressID: addressID,
		})
		require.NoError(t, err)

		assert.Equal(t, user.ID, confirmedID)
		require.NotNil(t, user.CustomerID)
		assert.Equal(t, existing.ID, *user.CustomerID)
		assert.Zero(t, harness.customerRepo.createCalls)
		require.Len(t, user.Addresses, 1)
		assert.Equal(t, addressID, user.Addresses[0].AddressID)
		assert.Equal(t, signup.StageLegalValidation, harness.signUpRepo.byUserID[user.ID].Stage)
	})

	t.Run("creates_customer_when_none_exists", func(t *testing.T) {
		harness := newHarness()
		user := seed(harness)
		harness.customerRepo.createdID = users.NewID()

		_, err := harness.service.Confirm(context.Background(), ConfirmIdentity{
			UserID:    user.ID,
			AddressID: addressID,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, harness.customerRepo.createCalls)
		require.NotNil(t, user.CustomerID)
		assert.Equal(t, harness.customerRepo.createdID, *user.CustomerID)
	})

	t.Run("duplicate_customers_conflict", func(t *testing.T) {
		harness := newHarness()
		user := seed(harness)
		harness.customerRepo.listed = []*users.Customer{
			{ID: users.NewID()},
			{ID: users.NewID()},
		}

		_, err := harness.service.Confirm(context.Background(), ConfirmIdentity{
			UserID:    user.ID,
			AddressID: addressID,
		})

		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeDuplicatedResource))
		assert.Zero(t, harness.userRepo.saves)
	})

	t.Run("foreign_address_rejected", func(t *testing.T) {
		harness := newHarness()
		user := seed(harness)

		_, err := harness.service.Confirm(context.Background(), ConfirmIdentity{
			UserID:    user.ID,
			AddressID: users.NewID(),
		})

		require.Error(t, err)
		assert.True(t, apperr.HasCode(err, apperr.CodeEntityNotFound))
		assert.Empty(t, user.Addresses)
	})
}

// # Legal Validation

func TestUpdateLegal(t *testing.T) {
	t.Run("success_forwards_stored_customer_and_advances", func(t *testing.T) {
		harness := newHarness()
		user := harness.seedApplicant(t)
		customerID := users.NewID()
		user.CustomerID = &customerID

		_, err := harness.service.UpdateLegal(context.Background(), UpdateLegalValidation{
			UserID:     user.ID,
			PEP:        true,
			Occupation: users.NewID(),
			Relation:   "SINGLE",
		})
		require.NoError(t, err)

		// The customer id comes from the stored user, never the request
		require.Len(t, harness.customerRepo.legalActions, 1)
		assert.Equal(t, customerID, harness.customerRepo.legalActions[0].CustomerID)
		assert.Equal(t, signup.StageLegalValidation, harness.signUpRepo.byUserID[user.ID].Stage)
	})

	t.Run("remote_failure_leaves_stage_untouched", func(t *testing.T) {
		harness := newHarness()
		user := harness.seedApplicant(t)
		harness.customerRepo.legalErr = apperr.Remote("ALT-ERROR-00999", "customer service down", http.StatusBadGateway)

		_, err := harness.service.UpdateLegal(context.Background(), UpdateLegalValidation{UserID: user.ID})

		require.Error(t, err)
		assert.Equal(t, signup.StageIdentityValidation, harness.signUpRepo.byUserID[user.ID].Stage)
		assert.Zero(t, harness.signUpRepo.saves)
	})
}
