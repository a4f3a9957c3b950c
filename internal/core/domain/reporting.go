package domain

import (
	"github.com/shopspring/decimal"
)

// BankStats is the administrator's summary of the ledger.
type BankStats struct {
	BankName         string          `json:"bankName"`
	Customers        int             `json:"customers"`
	BlockedCustomers int             `json:"blockedCustomers"`
	Accounts         int             `json:"accounts"`
	SavingsAccounts  int             `json:"savingsAccounts"`
	CheckingAccounts int             `json:"checkingAccounts"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
}

// TransferResult pairs the two legs recorded for a completed transfer. For a
// rejected transfer only Out is set, holding the record left on the source.
type TransferResult struct {
	Out Transaction `json:"transferOut"`
	In  Transaction `json:"transferIn"`
}
