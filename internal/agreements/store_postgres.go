// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

package agreements

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lureyes/altura/internal/platform/dberr"
)

// PostgresRepository implements Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Postgres-backed Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Get retrieves a service agreement by id.

Parameters:
  - context: context.Context
  - id: int

Returns:
  - *ServiceAgreement: Matching row
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) Get(context context.Context, id int) (*ServiceAgreement, error) {

	// Query the catalogue row
	query := `SELECT id, businessmodel FROM users.service_agreement WHERE id = $1`
	row := repository.pool.QueryRow(context, query, id)

	// Scan into the entity
	agreement := &ServiceAgreement{}
	if err := row.Scan(&agreement.ID, &agreement.BusinessModel); err != nil {
		return nil, dberr.Wrap(err, "ServiceAgreement")
	}

	// Return the entity
	return agreement, nil
}
