package partydata

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	partydataerrors "github.com/rthunborg/Masterdata-sub001/internal/partydata/errors"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, errUnsupportedRole) {
		return partydataerrors.ErrUnsupportedRole
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return partydataerrors.ErrEmployeeNotFound
	}

	// FK violation: the party store references employees(id), so writing a
	// document for an unknown employee surfaces as 23503.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23503" {
			return partydataerrors.ErrEmployeeNotFound
		}
	}
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "violates foreign key constraint") {
		return partydataerrors.ErrEmployeeNotFound
	}

	return err
}
