package apperrors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLockTimeoutError(t *testing.T) {
	err := apperrors.NewLockTimeoutError("SAV10001", context.DeadlineExceeded)

	assert.ErrorIs(t, err, apperrors.ErrLockTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.Contains(t, err.Error(), "SAV10001")

	var appErr *apperrors.AppError
	require.True(t, errors.As(fmt.Errorf("transfer failed: %w", err), &appErr))
	assert.Equal(t, "account is busy, please retry", appErr.Message)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.NewAppError(http.StatusForbidden, "nope", nil), http.StatusForbidden},
		{apperrors.NewLockTimeoutError("CHK10002", context.Canceled), http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", apperrors.ErrInvalidAmount), http.StatusBadRequest},
		{apperrors.ErrWrongAccountKind, http.StatusBadRequest},
		{apperrors.ErrInvalidAccount, http.StatusNotFound},
		{apperrors.ErrAccountBlocked, http.StatusLocked},
		{apperrors.ErrOverdraftExceeded, http.StatusUnprocessableEntity},
		{apperrors.ErrSameAccount, http.StatusConflict},
		{apperrors.ErrLockTimeout, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, apperrors.StatusCode(tt.err), tt.err.Error())
	}
}

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "busy", apperrors.NewAppError(http.StatusServiceUnavailable, "busy", nil).Error())
	assert.Equal(t, "busy: cause", apperrors.NewAppError(http.StatusServiceUnavailable, "busy", errors.New("cause")).Error())
}
