package projectionerrors

import (
	"net/http"

	"github.com/rthunborg/Masterdata-sub001/internal/shared/apperror"
)

var ErrWriteForbidden = apperror.New(
	apperror.CodeForbidden,
	"You do not have edit permission on this column",
	http.StatusForbidden,
)
