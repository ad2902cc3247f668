package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// WrapError turns a driver error into a domain error. Unique violations become
// common.ErrorConflict, everything else common.ErrorFatal. The cause stays in
// the chain.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("db error: %w: %w", common.ErrorConflict, err)
	}
	return fmt.Errorf("db error: %w: %w", common.ErrorFatal, err)
}
