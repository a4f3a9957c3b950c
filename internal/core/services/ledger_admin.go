package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *ledgerService) UnblockCustomer(ctx context.Context, customerID string) error {
	s.customersMu.Lock()
	defer s.customersMu.Unlock()

	customer, ok := s.customers[customerID]
	if !ok {
		return fmt.Errorf("%w: customer not found: %s", apperrors.ErrInvalidAccount, customerID)
	}
	customer.ResetFailedAttempts()

	s.LogInfo(ctx, "Customer login unblocked", slog.String("customer_id", customerID))
	return nil
}

func (s *ledgerService) SetAccountStatus(ctx context.Context, accountNumber string, status domain.AccountStatus) (*domain.Account, error) {
	return s.adjust(ctx, accountNumber, "Account status changed", func(a *domain.Account) error {
		return a.SetStatus(status)
	})
}

func (s *ledgerService) ResetFeePeriod(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.adjust(ctx, accountNumber, "Fee period reset", func(a *domain.Account) error {
		return a.ResetTransactionCount()
	})
}

func (s *ledgerService) ApplyInterest(ctx context.Context, accountNumber string) (domain.Transaction, error) {
	return s.mutate(ctx, accountNumber, "Interest", func(a *domain.Account) (domain.Transaction, error) {
		return a.ApplyInterest(s.seq)
	})
}

func (s *ledgerService) Stats(ctx context.Context) (*domain.BankStats, error) {
	stats := &domain.BankStats{BankName: s.bankName, TotalBalance: decimal.Zero}

	s.customersMu.Lock()
	stats.Customers = len(s.customers)
	for _, customer := range s.customers {
		if customer.IsBlocked() {
			stats.BlockedCustomers++
		}
	}
	s.customersMu.Unlock()

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.Accounts = len(accounts)
	for _, account := range accounts {
		switch account.Kind {
		case domain.Savings:
			stats.SavingsAccounts++
		case domain.Checking:
			stats.CheckingAccounts++
		}
		stats.TotalBalance = stats.TotalBalance.Add(account.Balance)
	}
	return stats, nil
}

// adjust applies a non-monetary change to one account under its lock.
func (s *ledgerService) adjust(ctx context.Context, accountNumber, msg string, op func(*domain.Account) error) (*domain.Account, error) {
	entry, err := s.lookup(accountNumber)
	if err != nil {
		return nil, err
	}
	release, err := s.acquire(ctx, entry)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := op(entry.account); err != nil {
		s.LogWarn(ctx, err, msg+" rejected", slog.String("account_number", accountNumber))
		return nil, err
	}
	s.LogInfo(ctx, msg,
		slog.String("account_number", accountNumber),
		slog.String("status", string(entry.account.Status)))
	return entry.account.Clone(), nil
}
