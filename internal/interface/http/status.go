package handlers

import (
	"errors"
	"net/http"

	"github.com/widyatama/go-account-api/internal/application"
)

// statusFor maps lifecycle failures to HTTP statuses. Anything
// unrecognized is an internal error and its detail stays off the wire.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrDuplicateAccount):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, application.ErrEmailNotVerified):
		return http.StatusForbidden, "email not verified"
	case errors.Is(err, application.ErrAccountNotActive):
		return http.StatusForbidden, "account not active"
	case errors.Is(err, application.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, application.ErrInvalidToken):
		return http.StatusBadRequest, "invalid or unknown token"
	case errors.Is(err, application.ErrTokenExpired):
		return http.StatusBadRequest, "token expired"
	case errors.Is(err, application.ErrAlreadyVerified):
		return http.StatusConflict, "email already verified"
	case errors.Is(err, application.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, application.ErrDeliveryFailed):
		return http.StatusBadGateway, "could not send notification"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
