package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open an account.
type CreateAccountRequest struct {
	Kind           domain.AccountKind `json:"kind" binding:"required,account_kind"`
	InitialBalance decimal.Decimal    `json:"initialBalance" binding:"non_negative_amount"`
}

// AmountRequest carries the amount of a deposit or withdrawal.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"positive_amount"`
}

// UpdateAccountStatusRequest carries an administrative status change.
type UpdateAccountStatusRequest struct {
	Status domain.AccountStatus `json:"status" binding:"required,oneof=ACTIVE BLOCKED CLOSED"`
}

// AccountResponse defines the data returned for an account. History is served
// separately through the paginated transactions endpoint.
type AccountResponse struct {
	AccountNumber    string               `json:"accountNumber"`
	CustomerID       string               `json:"customerID"`
	Kind             domain.AccountKind   `json:"kind"`
	AccountType      string               `json:"accountType"`
	Balance          decimal.Decimal      `json:"balance"`
	Status           domain.AccountStatus `json:"status"`
	CreatedAt        time.Time            `json:"createdAt"`
	TransactionCount int                  `json:"transactionCount"`

	MinimumBalance   *decimal.Decimal `json:"minimumBalance,omitempty"`
	InterestRate     *decimal.Decimal `json:"interestRate,omitempty"`
	OverdraftLimit   *decimal.Decimal `json:"overdraftLimit,omitempty"`
	TransactionFee   *decimal.Decimal `json:"transactionFee,omitempty"`
	FreeTransactions *int             `json:"freeTransactions,omitempty"`
	FeePeriodCount   *int             `json:"feePeriodCount,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	res := AccountResponse{
		AccountNumber:    acc.Number,
		CustomerID:       acc.OwnerID,
		Kind:             acc.Kind,
		AccountType:      acc.AccountType(),
		Balance:          acc.Balance,
		Status:           acc.Status,
		CreatedAt:        acc.CreatedAt,
		TransactionCount: len(acc.History),
	}
	switch acc.Kind {
	case domain.Savings:
		terms := *acc.Savings
		res.MinimumBalance = &terms.MinimumBalance
		res.InterestRate = &terms.InterestRate
	case domain.Checking:
		terms := *acc.Checking
		res.OverdraftLimit = &terms.OverdraftLimit
		res.TransactionFee = &terms.TransactionFee
		res.FreeTransactions = &terms.FreeTransactions
		res.FeePeriodCount = &terms.TransactionCount
	}
	return res
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// StatementParams defines query parameters for a statement download.
type StatementParams struct {
	Format string `form:"format,default=pdf" binding:"oneof=pdf xlsx text receipt"`
}
