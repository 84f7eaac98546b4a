package partydataerrors

import (
	"net/http"

	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
)

var (
	ErrUnsupportedRole = apperror.New(
		apperror.CodeForbidden,
		"This role has no party data store",
		http.StatusForbidden,
	)
	ErrUnknownColumn = apperror.New(
		apperror.CodeValidationError,
		"Unknown column in update",
		http.StatusBadRequest,
	)
	ErrMasterdataKey = apperror.New(
		apperror.CodeValidationError,
		"Masterdata fields cannot be written through party data",
		http.StatusBadRequest,
	)
	ErrValueType = apperror.New(
		apperror.CodeValidationError,
		"Value does not match the column type",
		http.StatusBadRequest,
	)
	ErrWriteForbidden = apperror.New(
		apperror.CodeForbidden,
		"You do not have edit permission on this column",
		http.StatusForbidden,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
)
