// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package signup

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lureyes/altura/internal/platform/dberr"
)

// signUpColumns is the canonical column list for scanning sign-up rows.
const signUpColumns = `id, stage, userid`

// PostgresSignUpRepository implements SignUpRepository using pgx.
type PostgresSignUpRepository struct {
	pool *pgxpool.Pool
}

// NewSignUpRepository creates a new Postgres-backed SignUpRepository.
func NewSignUpRepository(pool *pgxpool.Pool) *PostgresSignUpRepository {
	return &PostgresSignUpRepository{pool: pool}
}

/*
Get retrieves a sign-up by its primary key.

Parameters:
  - context: context.Context
  - signUpID: string

Returns:
  - *SignUp: Matching entity
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresSignUpRepository) Get(context context.Context, signUpID string) (*SignUp, error) {

	// Query the sign-up row
	query := fmt.Sprintf(`SELECT %s FROM users.sign_up WHERE id = $1`, signUpColumns)
	row := repository.pool.QueryRow(context, query, signUpID)

	// Scan into the entity
	signUp := &SignUp{}
	if err := row.Scan(&signUp.ID, &signUp.Stage, &signUp.UserID); err != nil {
		return nil, dberr.Wrap(err, "SignUp")
	}

	// Return the entity
	return signUp, nil
}

/*
GetByUserID retrieves the sign-up owned by the given user.

Description: A user has at most one sign-up; the userid column carries a
unique constraint.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *SignUp: Matching entity
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresSignUpRepository) GetByUserID(context context.Context, userID string) (*SignUp, error) {

	// Query by owner
	query := fmt.Sprintf(`SELECT %s FROM users.sign_up WHERE userid = $1`, signUpColumns)
	row := repository.pool.QueryRow(context, query, userID)

	// Scan into the entity
	signUp := &SignUp{}
	if err := row.Scan(&signUp.ID, &signUp.Stage, &signUp.UserID); err != nil {
		return nil, dberr.Wrap(err, "SignUp")
	}

	// Return the entity
	return signUp, nil
}

/*
Save inserts or updates a sign-up.

Description: Upsert keyed on the primary key so stage transitions and initial
creation share one statement.

Parameters:
  - context: context.Context
  - signUp: *SignUp

Returns:
  - error: Storage errors
*/
func (repository *PostgresSignUpRepository) Save(context context.Context, signUp *SignUp) error {

	// Upsert the row. The stage is the only mutable column.
	query := `
		INSERT INTO users.sign_up (id, stage, userid)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET stage = EXCLUDED.stage`

	if _, err := repository.pool.Exec(context, query, signUp.ID, signUp.Stage, signUp.UserID); err != nil {
		return dberr.Wrap(err, "SignUp")
	}

	// Return nil on success
	return nil
}
