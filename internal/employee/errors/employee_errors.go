package employeeerrors

import (
	"net/http"

	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrDuplicateSSN = apperror.New(
		apperror.CodeConflict,
		"An employee with the same SSN already exists",
		http.StatusConflict,
	)
	ErrDuplicateEmployeeNumber = apperror.New(
		apperror.CodeConflict,
		"Employee number already exists",
		http.StatusConflict,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only HR admin may manage employee masterdata",
		http.StatusForbidden,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeValidationError,
		"Invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrUnknownField = apperror.New(
		apperror.CodeValidationError,
		"Unknown masterdata column in update",
		http.StatusBadRequest,
	)
	ErrCustomFieldPath = apperror.New(
		apperror.CodeValidationError,
		"Custom columns are written through the party data endpoint",
		http.StatusBadRequest,
	)
	ErrFieldNotWritable = apperror.New(
		apperror.CodeValidationError,
		"This field is managed through its own lifecycle operation",
		http.StatusBadRequest,
	)
	ErrFieldValueType = apperror.New(
		apperror.CodeValidationError,
		"Value does not match the column type",
		http.StatusBadRequest,
	)
)
