package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountKind is the closed set of account variants.
type AccountKind string

const (
	Savings  AccountKind = "SAVINGS"
	Checking AccountKind = "CHECKING"
)

// Prefix returns the account-number prefix used for the kind.
func (k AccountKind) Prefix() string {
	switch k {
	case Savings:
		return "SAV"
	case Checking:
		return "CHK"
	default:
		return ""
	}
}

// AccountStatus governs whether an account accepts deposits and withdrawals.
type AccountStatus string

const (
	AccountActive  AccountStatus = "ACTIVE"
	AccountBlocked AccountStatus = "BLOCKED"
	AccountClosed  AccountStatus = "CLOSED"
)

// Valid reports whether s is a known status.
func (s AccountStatus) Valid() bool {
	return s == AccountActive || s == AccountBlocked || s == AccountClosed
}

var (
	DefaultMinimumBalance   = decimal.NewFromInt(500)
	DefaultInterestRate     = decimal.NewFromFloat(0.03)
	DefaultOverdraftLimit   = decimal.NewFromInt(1000)
	DefaultTransactionFee   = decimal.NewFromFloat(1.50)
	DefaultFreeTransactions = 10
)

// SavingsTerms holds the savings-only rules.
type SavingsTerms struct {
	MinimumBalance decimal.Decimal `json:"minimumBalance"`
	InterestRate   decimal.Decimal `json:"interestRate"`
}

// CheckingTerms holds the checking-only rules and the fee-period counter.
// TransactionCount is reset only by ResetTransactionCount.
type CheckingTerms struct {
	OverdraftLimit   decimal.Decimal `json:"overdraftLimit"`
	TransactionFee   decimal.Decimal `json:"transactionFee"`
	FreeTransactions int             `json:"freeTransactions"`
	TransactionCount int             `json:"transactionCount"`
}

// Stamper hands out ledger-wide transaction identifiers together with a
// non-decreasing timestamp.
type Stamper interface {
	Stamp() (id string, at time.Time)
}

// Leg describes one side of a balance change. The transaction type is chosen by
// the caller so a transfer leg is recorded as such from the start.
type Leg struct {
	Type         TransactionType
	Amount       decimal.Decimal
	Counterparty string
}

// Account is the shared record for both variants. Exactly one of Savings or
// Checking is set, matching Kind.
type Account struct {
	Number    string          `json:"accountNumber"`
	OwnerID   string          `json:"customerID"`
	Kind      AccountKind     `json:"kind"`
	Balance   decimal.Decimal `json:"balance"`
	Status    AccountStatus   `json:"status"`
	History   []Transaction   `json:"history"`
	CreatedAt time.Time       `json:"createdAt"`

	Savings  *SavingsTerms  `json:"savings,omitempty"`
	Checking *CheckingTerms `json:"checking,omitempty"`
}

// Checkpoint captures the mutable state of an account so a leg can be undone.
type Checkpoint struct {
	balance  decimal.Decimal
	txnCount int
}

// NewSavingsAccount opens a savings account. The initial balance must already
// satisfy the minimum balance floor.
func NewSavingsAccount(number, ownerID string, initial decimal.Decimal, s Stamper) (*Account, error) {
	terms := &SavingsTerms{MinimumBalance: DefaultMinimumBalance, InterestRate: DefaultInterestRate}
	if initial.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrInvalidAmount)
	}
	if initial.LessThan(terms.MinimumBalance) {
		return nil, fmt.Errorf("%w: initial deposit must be at least $%s for a savings account",
			apperrors.ErrMinimumBalanceViolation, terms.MinimumBalance.StringFixed(2))
	}
	a := newAccount(number, ownerID, Savings, initial, s)
	a.Savings = terms
	return a, nil
}

// NewCheckingAccount opens a checking account.
func NewCheckingAccount(number, ownerID string, initial decimal.Decimal, s Stamper) (*Account, error) {
	if initial.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrInvalidAmount)
	}
	a := newAccount(number, ownerID, Checking, initial, s)
	a.Checking = &CheckingTerms{
		OverdraftLimit:   DefaultOverdraftLimit,
		TransactionFee:   DefaultTransactionFee,
		FreeTransactions: DefaultFreeTransactions,
	}
	return a, nil
}

func newAccount(number, ownerID string, kind AccountKind, initial decimal.Decimal, s Stamper) *Account {
	a := &Account{
		Number:    number,
		OwnerID:   ownerID,
		Kind:      kind,
		Balance:   initial,
		Status:    AccountActive,
		History:   []Transaction{},
		CreatedAt: time.Now().UTC(),
	}
	if initial.IsPositive() {
		a.record(s, Leg{Type: Deposit, Amount: initial}, StatusSuccess)
	}
	return a
}

// AccountType returns the display label of the account's variant.
func (a *Account) AccountType() string {
	switch a.Kind {
	case Savings:
		return "Savings"
	case Checking:
		return "Checking"
	default:
		return "Unknown"
	}
}

// Deposit credits amount as a plain deposit.
func (a *Account) Deposit(s Stamper, amount decimal.Decimal) (Transaction, error) {
	return a.Credit(s, Leg{Type: Deposit, Amount: amount})
}

// Withdraw debits amount as a plain withdrawal.
func (a *Account) Withdraw(s Stamper, amount decimal.Decimal) (Transaction, error) {
	return a.Debit(s, Leg{Type: Withdrawal, Amount: amount})
}

// Credit increases the balance by leg.Amount. A rejected attempt is appended to the
// history before the error is returned; a non-positive amount is rejected without a record.
func (a *Account) Credit(s Stamper, leg Leg) (Transaction, error) {
	if !leg.Amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrInvalidAmount)
	}
	if a.Status != AccountActive {
		return a.reject(s, leg, fmt.Errorf("%w: account %s is %s, cannot deposit", apperrors.ErrAccountBlocked, a.Number, a.Status))
	}

	switch a.Kind {
	case Savings:
		a.Balance = a.Balance.Add(leg.Amount)
	case Checking:
		a.Balance = a.Balance.Add(leg.Amount)
		a.Checking.TransactionCount++
	default:
		return Transaction{}, a.unknownKind()
	}
	return a.record(s, leg, StatusSuccess), nil
}

// Debit decreases the balance by leg.Amount after applying the variant's limit check.
// A rejected attempt is appended to the history before the error is returned and the
// balance is left unchanged.
func (a *Account) Debit(s Stamper, leg Leg) (Transaction, error) {
	if !leg.Amount.IsPositive() {
		return Transaction{}, fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrInvalidAmount)
	}
	if a.Status != AccountActive {
		return a.reject(s, leg, fmt.Errorf("%w: account %s is %s, cannot withdraw", apperrors.ErrAccountBlocked, a.Number, a.Status))
	}

	switch a.Kind {
	case Savings:
		return a.debitSavings(s, leg)
	case Checking:
		return a.debitChecking(s, leg)
	default:
		return Transaction{}, a.unknownKind()
	}
}

func (a *Account) debitSavings(s Stamper, leg Leg) (Transaction, error) {
	terms := a.Savings
	if a.Balance.Sub(leg.Amount).LessThan(terms.MinimumBalance) {
		return a.reject(s, leg, fmt.Errorf(
			"%w: minimum balance of $%s must be maintained (current balance $%s, requested $%s)",
			apperrors.ErrMinimumBalanceViolation, terms.MinimumBalance.StringFixed(2),
			a.Balance.StringFixed(2), leg.Amount.StringFixed(2)))
	}
	// Unreachable while the floor is positive.
	if leg.Amount.GreaterThan(a.Balance) {
		return a.reject(s, leg, fmt.Errorf("%w: available balance $%s",
			apperrors.ErrInsufficientFunds, a.Balance.StringFixed(2)))
	}

	a.Balance = a.Balance.Sub(leg.Amount)
	return a.record(s, leg, StatusSuccess), nil
}

// debitChecking charges the transaction fee once the fee-period count exceeds the
// free allowance, unless the fee would take the balance below -OverdraftLimit.
func (a *Account) debitChecking(s Stamper, leg Leg) (Transaction, error) {
	terms := a.Checking
	floor := terms.OverdraftLimit.Neg()
	if a.Balance.Sub(leg.Amount).LessThan(floor) {
		return a.reject(s, leg, fmt.Errorf(
			"%w: overdraft limit of $%s would be exceeded (current balance $%s, requested $%s, available $%s)",
			apperrors.ErrOverdraftExceeded, terms.OverdraftLimit.StringFixed(2), a.Balance.StringFixed(2),
			leg.Amount.StringFixed(2), a.Balance.Add(terms.OverdraftLimit).StringFixed(2)))
	}

	a.Balance = a.Balance.Sub(leg.Amount)
	terms.TransactionCount++

	// The fee has no record of its own; it shows in this record's BalanceAfter.
	if terms.TransactionCount > terms.FreeTransactions {
		if afterFee := a.Balance.Sub(terms.TransactionFee); !afterFee.LessThan(floor) {
			a.Balance = afterFee
		}
	}
	return a.record(s, leg, StatusSuccess), nil
}

// ApplyInterest credits one period of interest to a savings account.
func (a *Account) ApplyInterest(s Stamper) (Transaction, error) {
	if a.Kind != Savings {
		return Transaction{}, fmt.Errorf("%w: interest applies to savings accounts only", apperrors.ErrWrongAccountKind)
	}
	interest := a.Balance.Mul(a.Savings.InterestRate).Round(2)
	return a.Credit(s, Leg{Type: Deposit, Amount: interest})
}

// ResetTransactionCount starts a new fee period on a checking account.
func (a *Account) ResetTransactionCount() error {
	if a.Kind != Checking {
		return fmt.Errorf("%w: fee periods apply to checking accounts only", apperrors.ErrWrongAccountKind)
	}
	a.Checking.TransactionCount = 0
	return nil
}

// SetStatus changes the account status.
func (a *Account) SetStatus(status AccountStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown account status %q", apperrors.ErrValidation, status)
	}
	a.Status = status
	return nil
}

// RecordFailedAttempt appends a failed record for leg without touching the balance.
func (a *Account) RecordFailedAttempt(s Stamper, leg Leg, status TransactionStatus) Transaction {
	return a.record(s, leg, status)
}

// Checkpoint captures the state needed to undo subsequent legs.
func (a *Account) Checkpoint() Checkpoint {
	cp := Checkpoint{balance: a.Balance}
	if a.Checking != nil {
		cp.txnCount = a.Checking.TransactionCount
	}
	return cp
}

// Rollback restores the balance and fee-period counter captured by cp and appends
// a successful compensating record for leg. Earlier records are kept.
func (a *Account) Rollback(s Stamper, cp Checkpoint, leg Leg) Transaction {
	a.Balance = cp.balance
	if a.Checking != nil {
		a.Checking.TransactionCount = cp.txnCount
	}
	return a.record(s, leg, StatusSuccess)
}

// LastTransaction returns the most recent record, if any.
func (a *Account) LastTransaction() (Transaction, bool) {
	if len(a.History) == 0 {
		return Transaction{}, false
	}
	return a.History[len(a.History)-1], true
}

// Clone returns a deep copy that shares no mutable state with a.
func (a *Account) Clone() *Account {
	cp := *a
	cp.History = make([]Transaction, len(a.History))
	copy(cp.History, a.History)
	if a.Savings != nil {
		terms := *a.Savings
		cp.Savings = &terms
	}
	if a.Checking != nil {
		terms := *a.Checking
		cp.Checking = &terms
	}
	return &cp
}

func (a *Account) String() string {
	base := fmt.Sprintf("%s Account - Number: %s, Balance: $%s, Status: %s",
		a.AccountType(), a.Number, a.Balance.StringFixed(2), a.Status)
	switch a.Kind {
	case Savings:
		return base + fmt.Sprintf(", Min Balance: $%s", a.Savings.MinimumBalance.StringFixed(2))
	case Checking:
		return base + fmt.Sprintf(", Overdraft Limit: $%s", a.Checking.OverdraftLimit.StringFixed(2))
	default:
		return base
	}
}

func (a *Account) reject(s Stamper, leg Leg, err error) (Transaction, error) {
	return a.record(s, leg, StatusForError(err)), err
}

func (a *Account) record(s Stamper, leg Leg, status TransactionStatus) Transaction {
	id, at := s.Stamp()
	txn := Transaction{
		TransactionID: id,
		Type:          leg.Type,
		Amount:        leg.Amount,
		Timestamp:     at,
		SourceAccount: a.Number,
		Status:        status,
		BalanceAfter:  a.Balance,
	}
	switch leg.Type {
	case TransferOut:
		txn.DestinationAccount = leg.Counterparty
	case TransferIn:
		txn.SourceAccount = leg.Counterparty
		txn.DestinationAccount = a.Number
	}
	a.History = append(a.History, txn)
	return txn
}

func (a *Account) unknownKind() error {
	return fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, a.Kind)
}
