package services

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type sampleAccount struct {
	savings bool
	initial int64
}

type sampleCustomer struct {
	id, name, pin string
	accounts      []sampleAccount
}

var sampleCustomers = []sampleCustomer{
	{id: "C001", name: "Alice Johnson", pin: "1234", accounts: []sampleAccount{{true, 5000}, {false, 2000}}},
	{id: "C002", name: "Bob Smith", pin: "5678", accounts: []sampleAccount{{true, 10000}, {false, 1500}}},
	{id: "C003", name: "Charlie Brown", pin: "9012", accounts: []sampleAccount{{true, 3000}}},
}

// SeedSampleData registers the demo customers and their opening accounts.
func SeedSampleData(ctx context.Context, ledger portssvc.LedgerSvcFacade) error {
	for _, sc := range sampleCustomers {
		if _, err := ledger.RegisterCustomer(ctx, sc.id, sc.name, sc.pin); err != nil {
			return fmt.Errorf("seed customer %s: %w", sc.id, err)
		}
		for _, sa := range sc.accounts {
			var err error
			if sa.savings {
				_, err = ledger.CreateSavingsAccount(ctx, sc.id, decimal.NewFromInt(sa.initial))
			} else {
				_, err = ledger.CreateCheckingAccount(ctx, sc.id, decimal.NewFromInt(sa.initial))
			}
			if err != nil {
				return fmt.Errorf("seed account for %s: %w", sc.id, err)
			}
		}
	}
	return nil
}
