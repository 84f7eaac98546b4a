package column

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	columnerrors "github.com/rthunborg/Masterdata-sub001/internal/column/errors"
	"github.com/rthunborg/Masterdata-sub001/internal/domain"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return columnerrors.ErrColumnNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_columns_name_key" {
			return columnerrors.ErrColumnNameExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_columns_name_key") {
		return columnerrors.ErrColumnNameExists
	}

	return err
}

func mapPermissionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEditRequiresView):
		return columnerrors.ErrEditRequiresView
	case errors.Is(err, domain.ErrAdminRowImmutable):
		return columnerrors.ErrAdminRowImmutable
	default:
		return err
	}
}
