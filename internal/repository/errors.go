package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ColinusM/Piano-Jazz-Concept/internal/model"
)

// SQLSTATEs that mean "a concurrent writer got in the way, try again":
// lock_not_available, serialization_failure, deadlock_detected.
var busySQLStates = map[string]bool{
	"55P03": true,
	"40001": true,
	"40P01": true,
}

// errNoRowsAffected flags an UPDATE that matched no row, which at this
// layer always means the id does not exist.
var errNoRowsAffected = errors.New("no rows affected")

// mapError translates driver errors into the shared taxonomy so callers
// never have to import pgx to classify a failure.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, errNoRowsAffected) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && busySQLStates[pgErr.Code] {
		return fmt.Errorf("%s: %w: %s", op, model.ErrStorageBusy, pgErr.Message)
	}

	return fmt.Errorf("%s: %w", op, err)
}
