package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/semaphore"
)

const defaultLockTimeout = 2 * time.Second

// accountEntry pairs a registered account with the lock serialising its mutations.
type accountEntry struct {
	account *domain.Account
	lock    *semaphore.Weighted
}

// ledgerService is the authoritative registry of customers and accounts and the
// only component that moves money between accounts.
type ledgerService struct {
	BaseService

	bankName    string
	lockTimeout time.Duration
	seq         *Sequence

	customersMu sync.Mutex
	customers   map[string]*domain.Customer

	accountsMu sync.RWMutex
	accounts   map[string]*accountEntry
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithBankName sets the name reported in statistics
func WithBankName(name string) LedgerOption {
	return func(s *ledgerService) {
		s.bankName = name
	}
}

// WithLockTimeout bounds how long an operation waits for an account lock
func WithLockTimeout(d time.Duration) LedgerOption {
	return func(s *ledgerService) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// WithSequence replaces the identifier generator
func WithSequence(seq *Sequence) LedgerOption {
	return func(s *ledgerService) {
		if seq != nil {
			s.seq = seq
		}
	}
}

// NewLedgerService creates an empty ledger with the provided options
func NewLedgerService(options ...LedgerOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		bankName:    "Global Trust Bank",
		lockTimeout: defaultLockTimeout,
		seq:         NewSequence(),
		customers:   make(map[string]*domain.Customer),
		accounts:    make(map[string]*accountEntry),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// --- Customers ---

func (s *ledgerService) RegisterCustomer(ctx context.Context, customerID, name, pin string) (*domain.Customer, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" || strings.TrimSpace(name) == "" || pin == "" {
		return nil, fmt.Errorf("%w: customer ID, name and PIN are required", apperrors.ErrValidation)
	}

	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	if _, exists := s.customers[customerID]; exists {
		err := fmt.Errorf("%w: customer with ID %s", apperrors.ErrDuplicate, customerID)
		s.LogWarn(ctx, err, "Customer registration rejected", slog.String("customer_id", customerID))
		return nil, err
	}

	customer := domain.NewCustomer(customerID, name, pin)
	s.customers[customerID] = customer

	s.LogInfo(ctx, "Customer registered", slog.String("customer_id", customerID))
	return customer.Clone(), nil
}

func (s *ledgerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	customer, ok := s.customers[customerID]
	if !ok {
		return nil, fmt.Errorf("%w: customer not found: %s", apperrors.ErrInvalidAccount, customerID)
	}
	return customer.Clone(), nil
}

func (s *ledgerService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	out := make([]domain.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		out = append(out, *customer.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })
	return out, nil
}

func (s *ledgerService) AuthenticateCustomer(ctx context.Context, customerID, pin string) (*domain.Customer, error) {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	customer, ok := s.customers[customerID]
	if !ok {
		s.LogDebug(ctx, "Login for unknown customer", slog.String("customer_id", customerID))
		return nil, fmt.Errorf("%w: invalid customer ID or PIN", apperrors.ErrNotFound)
	}

	if customer.IsBlocked() {
		err := fmt.Errorf("%w: login blocked after %d failed attempts, contact the bank administrator",
			apperrors.ErrAccountBlocked, domain.MaxFailedAttempts)
		s.LogWarn(ctx, err, "Login attempted while locked out", slog.String("customer_id", customerID))
		return nil, err
	}

	if !customer.ValidatePin(pin) {
		if customer.IsBlocked() {
			s.LogInfo(ctx, "Customer locked out after consecutive failed logins",
				slog.String("customer_id", customerID),
				slog.Int("failed_attempts", customer.FailedAttempts))
		}
		return nil, fmt.Errorf("%w: invalid customer ID or PIN", apperrors.ErrNotFound)
	}

	s.LogInfo(ctx, "Customer authenticated", slog.String("customer_id", customerID))
	return customer.Clone(), nil
}

// --- Accounts ---

func (s *ledgerService) CreateSavingsAccount(ctx context.Context, customerID string, initialBalance decimal.Decimal) (*domain.Account, error) {
	return s.createAccount(ctx, customerID, domain.Savings, initialBalance)
}

func (s *ledgerService) CreateCheckingAccount(ctx context.Context, customerID string, initialBalance decimal.Decimal) (*domain.Account, error) {
	return s.createAccount(ctx, customerID, domain.Checking, initialBalance)
}

func (s *ledgerService) createAccount(ctx context.Context, customerID string, kind domain.AccountKind, initial decimal.Decimal) (*domain.Account, error) {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	customer, ok := s.customers[customerID]
	if !ok {
		err := fmt.Errorf("%w: customer not found: %s", apperrors.ErrInvalidAccount, customerID)
		s.LogWarn(ctx, err, "Account creation rejected", slog.String("customer_id", customerID))
		return nil, err
	}

	// Validate before allocating so rejected requests do not consume a number.
	if initial.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrInvalidAmount)
	}
	if kind == domain.Savings && initial.LessThan(domain.DefaultMinimumBalance) {
		err := fmt.Errorf("%w: initial deposit must be at least $%s for a savings account",
			apperrors.ErrMinimumBalanceViolation, domain.DefaultMinimumBalance.StringFixed(2))
		s.LogWarn(ctx, err, "Account creation rejected", slog.String("customer_id", customerID))
		return nil, err
	}

	var (
		account *domain.Account
		err     error
	)
	number := s.seq.NextAccountNumber(kind)
	switch kind {
	case domain.Savings:
		account, err = domain.NewSavingsAccount(number, customerID, initial, s.seq)
	case domain.Checking:
		account, err = domain.NewCheckingAccount(number, customerID, initial, s.seq)
	default:
		err = fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, kind)
	}
	if err != nil {
		s.LogWarn(ctx, err, "Account creation rejected", slog.String("customer_id", customerID))
		return nil, err
	}

	s.accountsMu.Lock()
	s.accounts[number] = &accountEntry{account: account, lock: semaphore.NewWeighted(1)}
	s.accountsMu.Unlock()
	customer.AddAccount(number)

	s.LogInfo(ctx, "Account created",
		slog.String("account_number", number),
		slog.String("kind", string(kind)),
		slog.String("customer_id", customerID),
		slog.String("initial_balance", initial.StringFixed(2)))
	return account.Clone(), nil
}

func (s *ledgerService) GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	entry, err := s.lookup(accountNumber)
	if err != nil {
		return nil, err
	}
	release, err := s.acquire(ctx, entry)
	if err != nil {
		return nil, err
	}
	defer release()
	return entry.account.Clone(), nil
}

func (s *ledgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	entries := s.allEntries()
	release, err := s.acquire(ctx, entries...)
	if err != nil {
		return nil, err
	}
	defer release()

	out := make([]domain.Account, 0, len(entries))
	for _, entry := range entries {
		out = append(out, *entry.account.Clone())
	}
	return out, nil
}

func (s *ledgerService) ListCustomerAccounts(ctx context.Context, customerID string) ([]domain.Account, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Account, 0, len(customer.Accounts))
	for _, number := range customer.Accounts {
		account, err := s.GetAccount(ctx, number)
		if err != nil {
			return nil, err
		}
		out = append(out, *account)
	}
	return out, nil
}

func (s *ledgerService) GetTransactionHistory(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	account, err := s.GetAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	return account.History, nil
}

func (s *ledgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (domain.Transaction, error) {
	return s.mutate(ctx, accountNumber, "Deposit", func(a *domain.Account) (domain.Transaction, error) {
		return a.Deposit(s.seq, amount)
	})
}

func (s *ledgerService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) (domain.Transaction, error) {
	return s.mutate(ctx, accountNumber, "Withdrawal", func(a *domain.Account) (domain.Transaction, error) {
		return a.Withdraw(s.seq, amount)
	})
}

// mutate runs op against a single account while holding its lock. Errors from the
// account are returned unchanged so callers can match them with errors.Is.
func (s *ledgerService) mutate(ctx context.Context, accountNumber, opName string, op func(*domain.Account) (domain.Transaction, error)) (domain.Transaction, error) {
	entry, err := s.lookup(accountNumber)
	if err != nil {
		return domain.Transaction{}, err
	}
	release, err := s.acquire(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, opName+" could not lock account", slog.String("account_number", accountNumber))
		return domain.Transaction{}, err
	}
	defer release()

	txn, err := op(entry.account)
	if err != nil {
		s.LogWarn(ctx, err, opName+" rejected",
			slog.String("account_number", accountNumber),
			slog.String("transaction_id", txn.TransactionID))
		return txn, err
	}

	s.LogInfo(ctx, opName+" completed",
		slog.String("account_number", accountNumber),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount", txn.Amount.StringFixed(2)),
		slog.String("balance_after", txn.BalanceAfter.StringFixed(2)))
	return txn, nil
}

// --- Registry and locking helpers ---

func (s *ledgerService) lookup(accountNumber string) (*accountEntry, error) {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()

	entry, ok := s.accounts[accountNumber]
	if !ok {
		return nil, fmt.Errorf("%w: account not found: %s", apperrors.ErrInvalidAccount, accountNumber)
	}
	return entry, nil
}

func (s *ledgerService) allEntries() []*accountEntry {
	s.accountsMu.RLock()
	defer s.accountsMu.RUnlock()

	entries := make([]*accountEntry, 0, len(s.accounts))
	for _, entry := range s.accounts {
		entries = append(entries, entry)
	}
	return entries
}

// acquire locks every entry in ascending account-number order. The wait is bounded
// by ctx and the configured lock timeout.
func (s *ledgerService) acquire(ctx context.Context, entries ...*accountEntry) (func(), error) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].account.Number < entries[j].account.Number
	})

	waitCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	held := make([]*accountEntry, 0, len(entries))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].lock.Release(1)
		}
	}

	for i, entry := range entries {
		if i > 0 && entry == entries[i-1] {
			continue
		}
		if err := entry.lock.Acquire(waitCtx, 1); err != nil {
			release()
			return nil, apperrors.NewLockTimeoutError(entry.account.Number, err)
		}
		held = append(held, entry)
	}
	return release, nil
}
