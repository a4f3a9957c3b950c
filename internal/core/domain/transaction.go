package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType identifies the kind of ledger event a record describes.
type TransactionType string

const (
	Deposit     TransactionType = "DEPOSIT"
	Withdrawal  TransactionType = "WITHDRAWAL"
	TransferOut TransactionType = "TRANSFER_OUT"
	TransferIn  TransactionType = "TRANSFER_IN"
)

// TransactionStatus is the outcome of the attempt a record describes.
type TransactionStatus string

const (
	StatusSuccess                       TransactionStatus = "SUCCESS"
	StatusFailedAccountBlocked          TransactionStatus = "FAILED_ACCOUNT_BLOCKED"
	StatusFailedInsufficientFunds       TransactionStatus = "FAILED_INSUFFICIENT_FUNDS"
	StatusFailedMinimumBalanceViolation TransactionStatus = "FAILED_MINIMUM_BALANCE_VIOLATION"
	StatusFailedOverdraftExceeded       TransactionStatus = "FAILED_OVERDRAFT_EXCEEDED"
	StatusFailedInvalidAccount          TransactionStatus = "FAILED_INVALID_ACCOUNT"
)

const displayTimeFormat = "2006-01-02 15:04:05"

// Transaction is an immutable audit entry for one attempted operation on an account.
// BalanceAfter is only meaningful when Status is StatusSuccess.
type Transaction struct {
	TransactionID      string            `json:"transactionID"`
	Type               TransactionType   `json:"type"`
	Amount             decimal.Decimal   `json:"amount"`
	Timestamp          time.Time         `json:"timestamp"`
	SourceAccount      string            `json:"sourceAccount"`
	DestinationAccount string            `json:"destinationAccount,omitempty"`
	Status             TransactionStatus `json:"status"`
	BalanceAfter       decimal.Decimal   `json:"balanceAfter"`
}

// IsTransfer reports whether the record is one leg of a transfer.
func (t Transaction) IsTransfer() bool {
	return t.DestinationAccount != ""
}

// Succeeded reports whether the recorded attempt succeeded.
func (t Transaction) Succeeded() bool {
	return t.Status == StatusSuccess
}

// String renders the full audit view of the record.
func (t Transaction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Transaction ID: %s\n", t.TransactionID)
	fmt.Fprintf(&sb, "Type: %s\n", t.Type)
	fmt.Fprintf(&sb, "Amount: $%s\n", t.Amount.StringFixed(2))
	fmt.Fprintf(&sb, "Date/Time: %s\n", t.Timestamp.Format(displayTimeFormat))
	if t.IsTransfer() {
		fmt.Fprintf(&sb, "From Account: %s\n", t.SourceAccount)
		fmt.Fprintf(&sb, "To Account: %s\n", t.DestinationAccount)
	} else {
		fmt.Fprintf(&sb, "Account: %s\n", t.SourceAccount)
	}
	fmt.Fprintf(&sb, "Status: %s\n", t.Status)
	if t.Succeeded() {
		fmt.Fprintf(&sb, "Balance After: $%s\n", t.BalanceAfter.StringFixed(2))
	}
	return sb.String()
}

// Receipt renders the short customer-facing view of the record.
func (t Transaction) Receipt() string {
	var sb strings.Builder
	sb.WriteString("\n========== RECEIPT ==========\n")
	fmt.Fprintf(&sb, "Transaction ID: %s\n", t.TransactionID)
	fmt.Fprintf(&sb, "Type: %s\n", t.Type)
	fmt.Fprintf(&sb, "Amount: $%s\n", t.Amount.StringFixed(2))
	fmt.Fprintf(&sb, "Date/Time: %s\n", t.Timestamp.Format(displayTimeFormat))
	if t.IsTransfer() {
		fmt.Fprintf(&sb, "To Account: %s\n", t.DestinationAccount)
	}
	fmt.Fprintf(&sb, "Status: %s\n", t.Status)
	if t.Succeeded() {
		fmt.Fprintf(&sb, "New Balance: $%s\n", t.BalanceAfter.StringFixed(2))
	}
	sb.WriteString("=============================\n")
	return sb.String()
}

// StatusForError maps a rule violation to the failure status it is recorded with.
func StatusForError(err error) TransactionStatus {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, apperrors.ErrAccountBlocked):
		return StatusFailedAccountBlocked
	case errors.Is(err, apperrors.ErrMinimumBalanceViolation):
		return StatusFailedMinimumBalanceViolation
	case errors.Is(err, apperrors.ErrOverdraftExceeded):
		return StatusFailedOverdraftExceeded
	case errors.Is(err, apperrors.ErrInvalidAccount):
		return StatusFailedInvalidAccount
	default:
		return StatusFailedInsufficientFunds
	}
}
