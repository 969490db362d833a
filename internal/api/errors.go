package api

import (
	"errors"
	"net/http"

	authservice "github.com/AlibekovAA/crudik/internal/auth/service"
	commonerrors "github.com/AlibekovAA/crudik/internal/common/errors"
	commonhttp "github.com/AlibekovAA/crudik/internal/common/http"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
)

// ResolveStatus is the fixed mapping from application errors to HTTP status
// codes. Everything else, coded or not, is reported as 500.
func ResolveStatus(err error) (int, commonerrors.AppError, bool) {
	var (
		unauthorized  authservice.UnauthorizedError
		alreadyExists authservice.AuthUserAlreadyExistsError
		notFound      userdomain.UserNotFoundError
		denied        commonerrors.AccessDeniedError
	)

	switch {
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized, unauthorized, true
	case errors.As(err, &alreadyExists):
		return http.StatusConflict, alreadyExists, true
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound, true
	case errors.As(err, &denied):
		return http.StatusForbidden, denied, true
	default:
		return 0, nil, false
	}
}

func NewErrorHandler(log *logger.Logger) *commonhttp.ErrorHandler {
	return commonhttp.NewErrorHandler(log, ResolveStatus)
}
