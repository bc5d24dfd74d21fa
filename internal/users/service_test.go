// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package users_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lureyes/altura/internal/platform/apperr"
	"github.com/lureyes/altura/internal/users"
)

// # In-Memory Fakes

type fakeUserRepository struct {
	byID       map[string]*users.User
	byCustomer map[string]*users.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:       make(map[string]*users.User),
		byCustomer: make(map[string]*users.User),
	}
}

func (repo *fakeUserRepository) add(user *users.User) {
	repo.byID[user.ID] = user
	if user.CustomerID != nil {
		repo.byCustomer[*user.CustomerID] = user
	}
}

func (repo *fakeUserRepository) Save(_ context.Context, user *users.User) error {
	repo.add(user)
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

func (repo *fakeUserRepository) GetByCustomerAndServiceAgreement(_ context.Context, customerID string, serviceAgreementID int) (*users.User, error) {
	user, found := repo.byCustomer[customerID]
	if !found || user.ServiceAgreementID != serviceAgreementID {
		return nil, nil
	}
	return user, nil
}

func (repo *fakeUserRepository) GetByCustomerAndBusinessModel(_ context.Context, customerID string, _ users.BusinessModel) (*users.User, error) {
	user, found := repo.byCustomer[customerID]
	if !found {
		return nil, nil
	}
	return user, nil
}

type fakeCustomerDirectory struct {
	customers map[string]*users.Customer
	listed    []*users.Customer
}

func (directory *fakeCustomerDirectory) GetByID(_ context.Context, customerID string) (*users.Customer, error) {
	customer, found := directory.customers[customerID]
	if !found {
		return nil, apperr.NotFound("Customer")
	}
	return customer, nil
}

func (directory *fakeCustomerDirectory) ListByDocument(_ context.Context, _ users.DocumentType, _ string) ([]*users.Customer, error) {
	return directory.listed, nil
}

// # Helpers

func registeredUser(customerID string) *users.User {
	user := users.NewUser(1, time.Now().UTC())
	if customerID != "" {
		user.CustomerID = &customerID
	}
	return user
}

func intPointer(value int) *int { return &value }

func modelPointer(model users.BusinessModel) *users.BusinessModel { return &model }

// # Tests

func TestGetByID_AttachesCustomerOnDemand(t *testing.T) {
	customer := &users.Customer{ID: "cus-1", FirstName: "Rita"}
	directory := &fakeCustomerDirectory{customers: map[string]*users.Customer{"cus-1": customer}}

	repo := newFakeUserRepository()
	user := registeredUser("cus-1")
	repo.add(user)

	service := users.NewService(repo, directory)

	t.Run("fetches the linked customer", func(t *testing.T) {
		got, err := service.GetByID(context.Background(), users.GetUserByID{UserID: user.ID, FetchCustomer: true})
		require.NoError(t, err)
		assert.Equal(t, customer, got.Customer)
	})

	t.Run("skips the registry when not requested", func(t *testing.T) {
		user.Customer = nil
		got, err := service.GetByID(context.Background(), users.GetUserByID{UserID: user.ID, FetchCustomer: false})
		require.NoError(t, err)
		assert.Nil(t, got.Customer)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := service.GetByID(context.Background(), users.GetUserByID{UserID: users.NewID(), FetchCustomer: true})
		assert.True(t, apperr.HasCode(err, apperr.CodeEntityNotFound))
	})
}

func TestGetByID_UnlinkedUserSkipsRegistry(t *testing.T) {
	repo := newFakeUserRepository()
	user := registeredUser("")
	repo.add(user)

	service := users.NewService(repo, &fakeCustomerDirectory{})

	got, err := service.GetByID(context.Background(), users.GetUserByID{UserID: user.ID, FetchCustomer: true})
	require.NoError(t, err)
	assert.Nil(t, got.Customer)
}

func TestGetByDocument(t *testing.T) {
	customer := &users.Customer{ID: "cus-1"}

	t.Run("resolves within the service agreement", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := registeredUser("cus-1")
		repo.add(user)
		service := users.NewService(repo, &fakeCustomerDirectory{listed: []*users.Customer{customer}})

		got, err := service.GetByDocument(context.Background(), users.GetUserByDocument{
			DocumentType:       users.DocumentDNI,
			DocumentValue:      "30111222",
			ServiceAgreementID: intPointer(1),
		})

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, customer, got.Customer)
	})

	t.Run("resolves across the business model", func(t *testing.T) {
		repo := newFakeUserRepository()
		user := registeredUser("cus-1")
		repo.add(user)
		service := users.NewService(repo, &fakeCustomerDirectory{listed: []*users.Customer{customer}})

		got, err := service.GetByDocument(context.Background(), users.GetUserByDocument{
			DocumentType:  users.DocumentDNI,
			DocumentValue: "30111222",
			BusinessModel: modelPointer(users.BusinessModelAltura),
		})

		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("unknown document", func(t *testing.T) {
		service := users.NewService(newFakeUserRepository(), &fakeCustomerDirectory{})

		_, err := service.GetByDocument(context.Background(), users.GetUserByDocument{
			DocumentType:       users.DocumentDNI,
			DocumentValue:      "30111222",
			ServiceAgreementID: intPointer(1),
		})

		assert.True(t, apperr.HasCode(err, apperr.CodeEntityNotFound))
		assert.Equal(t, "Entity Not Found <Customer>", err.Error())
	})

	t.Run("customer with no user in scope resolves to none", func(t *testing.T) {
		// The registry knows the document, but no local user of agreement 2
		// links to that customer. That is a valid empty result.
		repo := newFakeUserRepository()
		repo.add(registeredUser("cus-1"))
		service := users.NewService(repo, &fakeCustomerDirectory{listed: []*users.Customer{customer}})

		got, err := service.GetByDocument(context.Background(), users.GetUserByDocument{
			DocumentType:       users.DocumentDNI,
			DocumentValue:      "30111222",
			ServiceAgreementID: intPointer(2),
		})

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("neither scope supplied", func(t *testing.T) {
		service := users.NewService(newFakeUserRepository(), &fakeCustomerDirectory{})

		_, err := service.GetByDocument(context.Background(), users.GetUserByDocument{
			DocumentType:  users.DocumentDNI,
			DocumentValue: "30111222",
		})

		assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	})
}

func TestGetContactMethods(t *testing.T) {
	repo := newFakeUserRepository()
	user := registeredUser("")
	user.ContactMethods = append(user.ContactMethods,
		contactMethod(users.ContactMethodEmail, "rita@example.com", true),
		contactMethod(users.ContactMethodPhone, "+5491122334455", false),
	)
	repo.add(user)

	service := users.NewService(repo, &fakeCustomerDirectory{})

	methods, err := service.GetContactMethods(context.Background(), users.GetUserContactMethods{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.Equal(t, "rita@example.com", methods[0].Value)

	_, err = service.GetContactMethods(context.Background(), users.GetUserContactMethods{UserID: users.NewID()})
	assert.True(t, apperr.HasCode(err, apperr.CodeEntityNotFound))
}
