package importererrors

import (
	"net/http"

	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
)

var (
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only HR admin may import employees",
		http.StatusForbidden,
	)
	ErrEmptyFile = apperror.New(
		apperror.CodeValidationError,
		"Import file is empty",
		http.StatusBadRequest,
	)
	ErrUnmappedHeader = apperror.New(
		apperror.CodeValidationError,
		"No header in the file maps to a known employee field",
		http.StatusBadRequest,
	)
	ErrMissingRequired = apperror.New(
		apperror.CodeValidationError,
		"Mapping must cover first_name, last_name, ssn and hire_date",
		http.StatusBadRequest,
	)
)
