package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferFunds moves amount from source to destination. Both accounts are held for
// the whole operation so no observer sees the debit without the matching credit.
// When a rejected transfer leaves a record on the source, the result is returned
// with the error and Out holds that record.
func (s *ledgerService) TransferFunds(ctx context.Context, sourceAccount, destinationAccount string, amount decimal.Decimal) (*domain.TransferResult, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("source_account", sourceAccount),
		slog.String("destination_account", destinationAccount),
		slog.String("amount", amount.StringFixed(2)),
	)

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrInvalidAmount)
	}

	src, err := s.lookup(sourceAccount)
	if err != nil {
		logger.Warn("Transfer rejected, unknown source account")
		return nil, err
	}
	if sourceAccount == destinationAccount {
		return nil, fmt.Errorf("%w: cannot transfer to the same account %s", apperrors.ErrSameAccount, sourceAccount)
	}

	dst, err := s.lookup(destinationAccount)
	if err != nil {
		return s.recordUnknownDestination(ctx, src, destinationAccount, amount, err)
	}

	release, err := s.acquire(ctx, src, dst)
	if err != nil {
		logger.Error("Transfer could not lock accounts", slog.String("error", err.Error()))
		return nil, err
	}
	defer release()

	if dst.account.Status != domain.AccountActive {
		err := fmt.Errorf("%w: destination account %s is %s", apperrors.ErrAccountBlocked, destinationAccount, dst.account.Status)
		logger.Warn("Transfer rejected", slog.String("error", err.Error()))
		return nil, err
	}

	checkpoint := src.account.Checkpoint()

	out, err := src.account.Debit(s.seq, domain.Leg{Type: domain.TransferOut, Amount: amount, Counterparty: destinationAccount})
	if err != nil {
		// The source already recorded the failed attempt.
		logger.Warn("Transfer rejected by source account",
			slog.String("error", err.Error()),
			slog.String("transaction_id", out.TransactionID))
		return &domain.TransferResult{Out: out}, fmt.Errorf("transfer failed: %w", err)
	}

	in, err := dst.account.Credit(s.seq, domain.Leg{Type: domain.TransferIn, Amount: amount, Counterparty: sourceAccount})
	if err != nil {
		reversal := src.account.Rollback(s.seq, checkpoint,
			domain.Leg{Type: domain.TransferIn, Amount: amount, Counterparty: destinationAccount})
		logger.Error("Transfer credit failed, source restored",
			slog.String("error", err.Error()),
			slog.String("out_transaction_id", out.TransactionID),
			slog.String("reversal_transaction_id", reversal.TransactionID))
		return &domain.TransferResult{Out: reversal}, fmt.Errorf("transfer failed, source restored: %w", err)
	}

	logger.Info("Transfer completed",
		slog.String("out_transaction_id", out.TransactionID),
		slog.String("in_transaction_id", in.TransactionID))
	return &domain.TransferResult{Out: out, In: in}, nil
}

// recordUnknownDestination appends the single FAILED_INVALID_ACCOUNT record an
// unknown destination leaves on the source account.
func (s *ledgerService) recordUnknownDestination(ctx context.Context, src *accountEntry, destinationAccount string, amount decimal.Decimal, cause error) (*domain.TransferResult, error) {
	release, err := s.acquire(ctx, src)
	if err != nil {
		return nil, err
	}
	defer release()

	failed := src.account.RecordFailedAttempt(s.seq,
		domain.Leg{Type: domain.TransferOut, Amount: amount, Counterparty: destinationAccount},
		domain.StatusFailedInvalidAccount)
	s.LogWarn(ctx, cause, "Transfer rejected, unknown destination account",
		slog.String("source_account", src.account.Number),
		slog.String("destination_account", destinationAccount),
		slog.String("transaction_id", failed.TransactionID))
	return &domain.TransferResult{Out: failed}, fmt.Errorf("transfer failed: %w", cause)
}
