package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/widyatama/go-account-api/internal/application"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{application.ErrDuplicateAccount, http.StatusConflict},
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrEmailNotVerified, http.StatusForbidden},
		{application.ErrAccountNotActive, http.StatusForbidden},
		{application.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{application.ErrInvalidToken, http.StatusBadRequest},
		{application.ErrTokenExpired, http.StatusBadRequest},
		{application.ErrAlreadyVerified, http.StatusConflict},
		{application.ErrAccountNotFound, http.StatusNotFound},
		{application.ErrDeliveryFailed, http.StatusBadGateway},
		{errors.New("pgx: broken pipe"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got, msg := statusFor(tc.err)
		assert.Equal(t, tc.want, got, tc.err.Error())
		assert.NotEmpty(t, msg)
	}

	// Wrapped sentinels still map.
	got, _ := statusFor(fmt.Errorf("%w: broker unavailable", application.ErrDeliveryFailed))
	assert.Equal(t, http.StatusBadGateway, got)

	// Internal failures never leak detail.
	_, msg := statusFor(errors.New("connection refused to 10.0.0.5"))
	assert.Equal(t, "internal error", msg)
}
