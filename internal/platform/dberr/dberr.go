// Copyright (c) 2026 Altura. All rights reserved.
// Author: luciano.reyes.ar@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/lureyes/altura/internal/platform/apperr"
)

// Postgres SQLSTATE codes of interest.
const (
	codeUniqueViolation = "23505"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - err: The raw driver error.
//   - entity: The domain entity involved, used in Not Found messages.
func Wrap(err error, entity string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity)
	}

	// 2. Unique constraint violations surface as duplicated resources
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
		return apperr.Duplicated(entity)
	}

	// 3. Everything else is a storage failure
	return apperr.StorageRead(fmt.Errorf("%s: %w", entity, err))
}
