// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

// PostgreSQL implementations of the users repositories.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement the contracts in store.go using the [pgxpool.Pool] connection
// manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types through dberr to avoid leaking storage details.

package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lureyes/altura/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `
	id, serviceagrid, status, customerid,
	createdby, createddate, modifiedby, modifieddate, deletedby, deleteddate`

const contactMethodColumns = `
	cm.id, cmt.id, cmt.description, cm.value,
	cm.confirmationtype, cm.confirmationvalue, cm.confirmationcreatedat,
	cm.confirmationexpireat, cm.confirmationconfirmedat,
	cm.userid, cm.createdby, cm.createddate, cm.modifiedby, cm.modifieddate`

/*
Save upserts the user aggregate inside a single transaction.

Description: The user row and each contact method are upserted by primary
key; address links are append-only (conflicting links are ignored). Calling
Save twice with the same state is a no-op.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Storage failures
*/
func (repository *PostgresUserRepository) Save(context context.Context, user *User) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	now := time.Now()
	user.Audit = user.Audit.Touched(now, user.ID)

	const upsertUser = `
		INSERT INTO users.user_account (
			id, serviceagrid, status, customerid,
			createdby, createddate, modifiedby, modifieddate, deletedby, deleteddate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			customerid = EXCLUDED.customerid,
			modifiedby = EXCLUDED.modifiedby,
			modifieddate = EXCLUDED.modifieddate`

	if _, err := transaction.Exec(context, upsertUser,
		user.ID,
		user.ServiceAgreementID,
		user.Status,
		user.CustomerID,
		user.Audit.CreatedBy,
		user.Audit.CreatedDate,
		user.Audit.ModifiedBy,
		user.Audit.ModifiedDate,
		user.Audit.DeletedBy,
		user.Audit.DeletedDate,
	); err != nil {
		return dberr.Wrap(err, "User")
	}

	const upsertMethod = `
		INSERT INTO users.contact_method (
			id, typeid, value,
			confirmationtype, confirmationvalue, confirmationcreatedat,
			confirmationexpireat, confirmationconfirmedat,
			userid, createdby, createddate, modifiedby, modifieddate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			value = EXCLUDED.value,
			confirmationtype = EXCLUDED.confirmationtype,
			confirmationvalue = EXCLUDED.confirmationvalue,
			confirmationcreatedat = EXCLUDED.confirmationcreatedat,
			confirmationexpireat = EXCLUDED.confirmationexpireat,
			confirmationconfirmedat = EXCLUDED.confirmationconfirmedat,
			modifiedby = EXCLUDED.modifiedby,
			modifieddate = EXCLUDED.modifieddate`

	for _, method := range user.ContactMethods {
		method.UserID = user.ID
		method.Audit = method.Audit.Touched(now, user.ID)

		if _, err := transaction.Exec(context, upsertMethod,
			method.ID,
			method.Type.ID,
			method.Value,
			method.Confirmation.Type,
			method.Confirmation.Value,
			method.Confirmation.CreatedAt,
			method.Confirmation.ExpireAt,
			method.Confirmation.ConfirmedAt,
			method.UserID,
			method.Audit.CreatedBy,
			method.Audit.CreatedDate,
			method.Audit.ModifiedBy,
			method.Audit.ModifiedDate,
		); err != nil {
			return dberr.Wrap(err, "ContactMethod")
		}
	}

	const insertAddress = `
		INSERT INTO users.user_address (
			userid, addressid, type, priority, createdby, createddate, modifiedby, modifieddate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (userid, addressid) DO NOTHING`

	for _, address := range user.Addresses {
		if _, err := transaction.Exec(context, insertAddress,
			user.ID,
			address.AddressID,
			address.Type,
			address.Priority,
			address.Audit.CreatedBy,
			address.Audit.CreatedDate,
			address.Audit.ModifiedBy,
			address.Audit.ModifiedDate,
		); err != nil {
			return dberr.Wrap(err, "UserAddress")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

/*
GetByID retrieves a user aggregate by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated aggregate with contact methods and address links
  - error: apperr.NotFound or storage failures
*/
func (repository *PostgresUserRepository) GetByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.user_account
		WHERE id = $1 AND deleteddate IS NULL`

	user, err := repository.scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	if err := repository.loadChildren(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
GetByServiceAgreementAndEmail looks a user up by agreement and email value.

Description: Joins through the EMAIL contact method; a missing match returns
nil without error, since absence is a normal sign-up precondition.
*/
func (repository *PostgresUserRepository) GetByServiceAgreementAndEmail(context context.Context, serviceAgreementID int, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.user_account
		WHERE serviceagrid = $1 AND deleteddate IS NULL AND id IN (
			SELECT cm.userid
			FROM users.contact_method cm
			JOIN users.contact_method_type cmt ON cmt.id = cm.typeid
			WHERE cm.value = $2 AND cmt.description = 'EMAIL'
		)`

	return repository.optionalUser(context, query, serviceAgreementID, email)
}

/*
GetByCustomerAndServiceAgreement resolves a user from its linked customer
within one service agreement. A missing match returns nil without error.
*/
func (repository *PostgresUserRepository) GetByCustomerAndServiceAgreement(context context.Context, customerID string, serviceAgreementID int) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.user_account
		WHERE customerid = $1 AND serviceagrid = $2 AND deleteddate IS NULL`

	return repository.optionalUser(context, query, customerID, serviceAgreementID)
}

/*
GetByCustomerAndBusinessModel resolves a user from its linked customer across
every agreement of one business model. A missing match returns nil without error.
*/
func (repository *PostgresUserRepository) GetByCustomerAndBusinessModel(context context.Context, customerID string, model BusinessModel) (*User, error) {
	const query = `
		SELECT u.id, u.serviceagrid, u.status, u.customerid,
			u.createdby, u.createddate, u.modifiedby, u.modifieddate, u.deletedby, u.deleteddate
		FROM users.user_account u
		JOIN users.service_agreement sa ON sa.id = u.serviceagrid
		WHERE u.customerid = $1 AND sa.businessmodel = $2 AND u.deleteddate IS NULL`

	return repository.optionalUser(context, query, customerID, int(model))
}

// optionalUser runs a single-row user query where no-match is not an error.
func (repository *PostgresUserRepository) optionalUser(context context.Context, query string, args ...any) (*User, error) {
	user, err := repository.scanUser(repository.pool.QueryRow(context, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "User")
	}

	if err := repository.loadChildren(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// scanUser hydrates the base user row.
func (repository *PostgresUserRepository) scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.ServiceAgreementID,
		&user.Status,
		&user.CustomerID,
		&user.Audit.CreatedBy,
		&user.Audit.CreatedDate,
		&user.Audit.ModifiedBy,
		&user.Audit.ModifiedDate,
		&user.Audit.DeletedBy,
		&user.Audit.DeletedDate,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// loadChildren fills in the owned contact methods and address links.
func (repository *PostgresUserRepository) loadChildren(context context.Context, user *User) error {
	const methodQuery = `
		SELECT ` + contactMethodColumns + `
		FROM users.contact_method cm
		JOIN users.contact_method_type cmt ON cmt.id = cm.typeid
		WHERE cm.userid = $1
		ORDER BY cm.createddate`

	rows, err := repository.pool.Query(context, methodQuery, user.ID)
	if err != nil {
		return dberr.Wrap(err, "ContactMethod")
	}
	defer rows.Close()

	for rows.Next() {
		method, err := scanContactMethod(rows)
		if err != nil {
			return dberr.Wrap(err, "ContactMethod")
		}
		user.ContactMethods = append(user.ContactMethods, method)
	}
	if err := rows.Err(); err != nil {
		return dberr.Wrap(err, "ContactMethod")
	}

	const addressQuery = `
		SELECT userid, addressid, type, priority,
			createdby, createddate, modifiedby, modifieddate
		FROM users.user_address
		WHERE userid = $1
		ORDER BY priority NULLS LAST, createddate`

	addressRows, err := repository.pool.Query(context, addressQuery, user.ID)
	if err != nil {
		return dberr.Wrap(err, "UserAddress")
	}
	defer addressRows.Close()

	for addressRows.Next() {
		var address UserAddress
		if err := addressRows.Scan(
			&address.UserID,
			&address.AddressID,
			&address.Type,
			&address.Priority,
			&address.Audit.CreatedBy,
			&address.Audit.CreatedDate,
			&address.Audit.ModifiedBy,
			&address.Audit.ModifiedDate,
		); err != nil {
			return dberr.Wrap(err, "UserAddress")
		}
		user.Addresses = append(user.Addresses, address)
	}
	if err := addressRows.Err(); err != nil {
		return dberr.Wrap(err, "UserAddress")
	}

	return nil
}

// scanContactMethod hydrates one contact method row with its embedded confirmation.
func scanContactMethod(row pgx.Row) (*ContactMethod, error) {
	method := &ContactMethod{}
	err := row.Scan(
		&method.ID,
		&method.Type.ID,
		&method.Type.Description,
		&method.Value,
		&method.Confirmation.Type,
		&method.Confirmation.Value,
		&method.Confirmation.CreatedAt,
		&method.Confirmation.ExpireAt,
		&method.Confirmation.ConfirmedAt,
		&method.UserID,
		&method.Audit.CreatedBy,
		&method.Audit.CreatedDate,
		&method.Audit.ModifiedBy,
		&method.Audit.ModifiedDate,
	)
	if err != nil {
		return nil, err
	}
	return method, nil
}

// # Contact Method Repository

// PostgresContactMethodRepository implements ContactMethodRepository using pgx.
type PostgresContactMethodRepository struct {
	pool *pgxpool.Pool
}

// NewContactMethodRepository creates a new PostgreSQL implementation of
// the ContactMethodRepository.
func NewContactMethodRepository(pool *pgxpool.Pool) *PostgresContactMethodRepository {
	return &PostgresContactMethodRepository{pool: pool}
}

/*
Save persists one contact method and its embedded confirmation.

Parameters:
  - context: context.Context
  - method: *ContactMethod

Returns:
  - error: Storage failures
*/
func (repository *PostgresContactMethodRepository) Save(context context.Context, method *ContactMethod) error {
	const query = `
		UPDATE users.contact_method SET
			value = $2,
			confirmationtype = $3,
			confirmationvalue = $4,
			confirmationcreatedat = $5,
			confirmationexpireat = $6,
			confirmationconfirmedat = $7,
			modifiedby = $8,
			modifieddate = $9
		WHERE id = $1`

	method.Audit = method.Audit.Touched(time.Now(), method.UserID)

	_, err := repository.pool.Exec(context, query,
		method.ID,
		method.Value,
		method.Confirmation.Type,
		method.Confirmation.Value,
		method.Confirmation.CreatedAt,
		method.Confirmation.ExpireAt,
		method.Confirmation.ConfirmedAt,
		method.Audit.ModifiedBy,
		method.Audit.ModifiedDate,
	)
	if err != nil {
		return dberr.Wrap(err, "ContactMethod")
	}

	return nil
}

/*
GetByConfirmationValue resolves a contact method from its confirmation secret.

Description: The emailed token is used purely as a lookup key; no claims are
decoded. A missing match returns nil without error.
*/
func (repository *PostgresContactMethodRepository) GetByConfirmationValue(context context.Context, value string) (*ContactMethod, error) {
	const query = `
		SELECT ` + contactMethodColumns + `
		FROM users.contact_method cm
		JOIN users.contact_method_type cmt ON cmt.id = cm.typeid
		WHERE cm.confirmationvalue = $1`

	method, err := scanContactMethod(repository.pool.QueryRow(context, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "ContactMethod")
	}

	return method, nil
}

// # Contact Method Type Repository

// PostgresContactMethodTypeRepository implements ContactMethodTypeRepository
// over the catalogue table.
type PostgresContactMethodTypeRepository struct {
	pool *pgxpool.Pool
}

// NewContactMethodTypeRepository creates a new PostgreSQL implementation of
// the ContactMethodTypeRepository.
func NewContactMethodTypeRepository(pool *pgxpool.Pool) *PostgresContactMethodTypeRepository {
	return &PostgresContactMethodTypeRepository{pool: pool}
}

/*
Get resolves a catalogue row by description. A missing description returns
nil without error.
*/
func (repository *PostgresContactMethodTypeRepository) Get(context context.Context, description string) (*ContactMethodType, error) {
	const query = `
		SELECT id, description
		FROM users.contact_method_type
		WHERE description = $1`

	methodType := &ContactMethodType{}
	err := repository.pool.QueryRow(context, query, description).Scan(
		&methodType.ID,
		&methodType.Description,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, dberr.Wrap(err, "ContactMethodType")
	}

	return methodType, nil
}
