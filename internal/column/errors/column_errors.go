package columnerrors

import (
	"net/http"

	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
)

var (
	ErrColumnNotFound = apperror.New(
		apperror.CodeNotFound,
		"Column not found",
		http.StatusNotFound,
	)
	ErrColumnNameExists = apperror.New(
		apperror.CodeConflict,
		"Column name already exists",
		http.StatusConflict,
	)
	ErrInvalidColumnName = apperror.New(
		apperror.CodeValidationError,
		"Column name must be 1-100 characters of letters, numbers, spaces or - _ ( ) / . ,",
		http.StatusBadRequest,
	)
	ErrInvalidColumnType = apperror.New(
		apperror.CodeValidationError,
		"Column type must be one of text, number, date, boolean",
		http.StatusBadRequest,
	)
	ErrMasterdataUndeletable = apperror.New(
		apperror.CodeForbidden,
		"Masterdata columns cannot be deleted",
		http.StatusForbidden,
	)
	ErrMasterdataCategoryFixed = apperror.New(
		apperror.CodeValidationError,
		"Masterdata columns cannot be recategorized",
		http.StatusBadRequest,
	)
	ErrNoEditPermission = apperror.New(
		apperror.CodeForbidden,
		"You do not have edit permission on this column",
		http.StatusForbidden,
	)
	ErrEditRequiresView = apperror.New(
		apperror.CodeValidationError,
		"A column cannot be editable without also being viewable",
		http.StatusBadRequest,
	)
	ErrAdminRowImmutable = apperror.New(
		apperror.CodeValidationError,
		"HR admin permissions are fixed and cannot be changed",
		http.StatusBadRequest,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only HR admin may perform this operation",
		http.StatusForbidden,
	)
	ErrPartyRoleRequired = apperror.New(
		apperror.CodeForbidden,
		"Custom columns can only be created by an external party role",
		http.StatusForbidden,
	)
	ErrUnknownRole = apperror.New(
		apperror.CodeValidationError,
		"Unknown role in permission matrix",
		http.StatusBadRequest,
	)
)
