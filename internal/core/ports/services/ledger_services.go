package services

import (
	"context"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CustomerReaderSvc defines read operations for customer data
type CustomerReaderSvc interface {
	// GetCustomer returns a snapshot of a customer.
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers returns snapshots of every registered customer.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customer data
type CustomerWriterSvc interface {
	// RegisterCustomer adds a new customer with an active login.
	RegisterCustomer(ctx context.Context, customerID, name, pin string) (*domain.Customer, error)
}

// CustomerAuthSvc defines login operations
type CustomerAuthSvc interface {
	// AuthenticateCustomer validates a PIN. A locked-out customer gets ErrAccountBlocked.
	AuthenticateCustomer(ctx context.Context, customerID, pin string) (*domain.Customer, error)
}

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccount returns a snapshot of an account, history included.
	GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts returns snapshots of every account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// ListCustomerAccounts returns snapshots of the accounts owned by a customer.
	ListCustomerAccounts(ctx context.Context, customerID string) ([]domain.Account, error)

	// GetTransactionHistory returns a copy of an account's history, oldest first.
	GetTransactionHistory(ctx context.Context, accountNumber string) ([]domain.Transaction, error)
}

// AccountWriterSvc defines account creation and single-account balance changes
type AccountWriterSvc interface {
	// CreateSavingsAccount opens a savings account for a customer.
	CreateSavingsAccount(ctx context.Context, customerID string, initialBalance decimal.Decimal) (*domain.Account, error)

	// CreateCheckingAccount opens a checking account for a customer.
	CreateCheckingAccount(ctx context.Context, customerID string, initialBalance decimal.Decimal) (*domain.Account, error)

	// Deposit credits an account. The returned record is set for failed attempts too.
	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (domain.Transaction, error)

	// Withdraw debits an account. The returned record is set for failed attempts too.
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (domain.Transaction, error)
}

// TransferSvc defines cross-account operations
type TransferSvc interface {
	// TransferFunds moves amount between two accounts as one atomic unit. A rejection
	// that left a record on the source returns it in the result alongside the error.
	TransferFunds(ctx context.Context, sourceAccount, destinationAccount string, amount decimal.Decimal) (*domain.TransferResult, error)
}

// LedgerAdminSvc defines administrative overrides and reports
type LedgerAdminSvc interface {
	// UnblockCustomer clears a customer's login lockout.
	UnblockCustomer(ctx context.Context, customerID string) error

	// SetAccountStatus blocks, closes or reactivates an account.
	SetAccountStatus(ctx context.Context, accountNumber string, status domain.AccountStatus) (*domain.Account, error)

	// ResetFeePeriod zeroes a checking account's free-transaction counter.
	ResetFeePeriod(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ApplyInterest credits one period of interest to a savings account.
	ApplyInterest(ctx context.Context, accountNumber string) (domain.Transaction, error)

	// Stats summarises the ledger.
	Stats(ctx context.Context) (*domain.BankStats, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
// This is a facade for clients that need access to all operations
type LedgerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
	CustomerAuthSvc
	AccountReaderSvc
	AccountWriterSvc
	TransferSvc
	LedgerAdminSvc
}
