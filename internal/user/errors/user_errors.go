package usererrors

import (
	"net/http"

	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeValidationError,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrUnknownRole = apperror.New(
		apperror.CodeValidationError,
		"Unknown role",
		http.StatusBadRequest,
	)
	ErrAdminOnly = apperror.New(
		apperror.CodeForbidden,
		"Only HR admin may manage accounts",
		http.StatusForbidden,
	)
	ErrWrongPassword = apperror.New(
		apperror.CodeUnauthorized,
		"Current password is incorrect",
		http.StatusUnauthorized,
	)
	ErrLastAdmin = apperror.New(
		apperror.CodeConflict,
		"Cannot deactivate the last active HR admin account",
		http.StatusConflict,
	)
)
