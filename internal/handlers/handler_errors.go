package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. An AppError is reported by
// its client-facing message. When the rejection left a record in the account
// history, the record is returned with the error.
func respondError(c *gin.Context, err error, msg string, txn *domain.Transaction) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.StatusCode(err)

	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, dto.ErrorResponse{Error: msg})
		return
	}

	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	res := dto.ErrorResponse{Error: err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		res.Error = appErr.Message
	}
	if txn != nil && txn.TransactionID != "" {
		recorded := dto.ToTransactionResponse(*txn)
		res.Transaction = &recorded
	}
	c.JSON(status, res)
}

func badRequest(c *gin.Context, msg string, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg + ": " + err.Error()})
}
