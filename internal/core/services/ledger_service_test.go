package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// --- Test Suite Setup ---

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	ledger portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ledger = services.NewLedgerService(services.WithBankName("Test Bank"))
	_, err := suite.ledger.RegisterCustomer(suite.ctx, "C001", "Alice Johnson", "1234")
	suite.Require().NoError(err)
	_, err = suite.ledger.RegisterCustomer(suite.ctx, "C002", "Bob Smith", "5678")
	suite.Require().NoError(err)
}

func (suite *LedgerServiceTestSuite) savings(owner, initial string) *domain.Account {
	acct, err := suite.ledger.CreateSavingsAccount(suite.ctx, owner, dec(initial))
	suite.Require().NoError(err)
	return acct
}

func (suite *LedgerServiceTestSuite) checking(owner, initial string) *domain.Account {
	acct, err := suite.ledger.CreateCheckingAccount(suite.ctx, owner, dec(initial))
	suite.Require().NoError(err)
	return acct
}

func (suite *LedgerServiceTestSuite) account(number string) *domain.Account {
	acct, err := suite.ledger.GetAccount(suite.ctx, number)
	suite.Require().NoError(err)
	return acct
}

// --- Customers ---

func (suite *LedgerServiceTestSuite) TestRegisterCustomer_Duplicate() {
	_, err := suite.ledger.RegisterCustomer(suite.ctx, "C001", "Someone Else", "0000")
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *LedgerServiceTestSuite) TestRegisterCustomer_MissingFields() {
	_, err := suite.ledger.RegisterCustomer(suite.ctx, "C009", "", "0000")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestAuthenticateCustomer_Success() {
	customer, err := suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "1234")
	suite.Require().NoError(err)
	suite.Equal("Alice Johnson", customer.Name)
	suite.Equal(0, customer.FailedAttempts)
}

func (suite *LedgerServiceTestSuite) TestAuthenticateCustomer_UnknownCustomer() {
	_, err := suite.ledger.AuthenticateCustomer(suite.ctx, "C404", "1234")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestAuthenticateCustomer_LockoutAndUnblock() {
	for i := 0; i < domain.MaxFailedAttempts; i++ {
		_, err := suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "9999")
		suite.ErrorIs(err, apperrors.ErrNotFound)
	}

	// Correct PIN is refused once locked out.
	_, err := suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "1234")
	suite.ErrorIs(err, apperrors.ErrAccountBlocked)

	customer, err := suite.ledger.GetCustomer(suite.ctx, "C001")
	suite.Require().NoError(err)
	suite.Equal(domain.LoginBlocked, customer.LoginStatus)
	suite.Equal(domain.MaxFailedAttempts, customer.FailedAttempts)

	suite.Require().NoError(suite.ledger.UnblockCustomer(suite.ctx, "C001"))

	customer, err = suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "1234")
	suite.Require().NoError(err)
	suite.Equal(domain.LoginActive, customer.LoginStatus)
}

func (suite *LedgerServiceTestSuite) TestAuthenticateCustomer_SuccessResetsCounter() {
	_, _ = suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "0000")
	_, _ = suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "0000")
	_, err := suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "1234")
	suite.Require().NoError(err)

	_, _ = suite.ledger.AuthenticateCustomer(suite.ctx, "C001", "0000")
	customer, err := suite.ledger.GetCustomer(suite.ctx, "C001")
	suite.Require().NoError(err)
	suite.Equal(1, customer.FailedAttempts)
	suite.False(customer.IsBlocked())
}

func (suite *LedgerServiceTestSuite) TestUnblockCustomer_Unknown() {
	err := suite.ledger.UnblockCustomer(suite.ctx, "C404")
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

// --- Account creation ---

func (suite *LedgerServiceTestSuite) TestCreateAccounts_NumbersShareCounter() {
	sav := suite.savings("C001", "5000")
	chk := suite.checking("C001", "2000")

	suite.Equal("SAV10001", sav.Number)
	suite.Equal("CHK10002", chk.Number)

	require.Len(suite.T(), sav.History, 1)
	suite.Equal("TXN1001", sav.History[0].TransactionID)
	suite.Equal(domain.Deposit, sav.History[0].Type)
	suite.Equal("TXN1002", chk.History[0].TransactionID)

	customer, err := suite.ledger.GetCustomer(suite.ctx, "C001")
	suite.Require().NoError(err)
	suite.Equal([]string{"SAV10001", "CHK10002"}, customer.Accounts)
}

func (suite *LedgerServiceTestSuite) TestCreateSavingsAccount_BelowMinimum() {
	_, err := suite.ledger.CreateSavingsAccount(suite.ctx, "C001", dec("499.99"))
	suite.ErrorIs(err, apperrors.ErrMinimumBalanceViolation)

	// The rejected request did not consume an account number.
	sav := suite.savings("C001", "500")
	suite.Equal("SAV10001", sav.Number)
}

func (suite *LedgerServiceTestSuite) TestCreateAccount_UnknownCustomer() {
	_, err := suite.ledger.CreateCheckingAccount(suite.ctx, "C404", dec("10"))
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (suite *LedgerServiceTestSuite) TestCreateCheckingAccount_ZeroBalanceHasNoHistory() {
	chk := suite.checking("C001", "0")
	suite.Empty(chk.History)
	suite.True(chk.Balance.IsZero())
	suite.Equal(0, chk.Checking.TransactionCount)
}

// --- Single-account operations ---

func (suite *LedgerServiceTestSuite) TestWithdraw_SavingsMinimumBalance() {
	sav := suite.savings("C001", "5000")

	txn, err := suite.ledger.Withdraw(suite.ctx, sav.Number, dec("4600"))
	suite.ErrorIs(err, apperrors.ErrMinimumBalanceViolation)
	suite.Equal(domain.StatusFailedMinimumBalanceViolation, txn.Status)
	suite.True(suite.account(sav.Number).Balance.Equal(dec("5000")))

	txn, err = suite.ledger.Withdraw(suite.ctx, sav.Number, dec("4500"))
	suite.Require().NoError(err)
	suite.Equal(domain.StatusSuccess, txn.Status)
	suite.True(txn.BalanceAfter.Equal(dec("500")))

	history := suite.account(sav.Number).History
	suite.Len(history, 3)
	suite.Equal(domain.StatusFailedMinimumBalanceViolation, history[1].Status)
}

func (suite *LedgerServiceTestSuite) TestWithdraw_CheckingOverdraft() {
	chk := suite.checking("C001", "0")

	txn, err := suite.ledger.Withdraw(suite.ctx, chk.Number, dec("900"))
	suite.Require().NoError(err)
	suite.True(txn.BalanceAfter.Equal(dec("-900")))

	txn, err = suite.ledger.Withdraw(suite.ctx, chk.Number, dec("200"))
	suite.ErrorIs(err, apperrors.ErrOverdraftExceeded)
	suite.Equal(domain.StatusFailedOverdraftExceeded, txn.Status)
	suite.True(suite.account(chk.Number).Balance.Equal(dec("-900")))
}

func (suite *LedgerServiceTestSuite) TestDeposit_InvalidAmountLeavesNoRecord() {
	chk := suite.checking("C001", "100")

	_, err := suite.ledger.Deposit(suite.ctx, chk.Number, dec("0"))
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	_, err = suite.ledger.Withdraw(suite.ctx, chk.Number, dec("-5"))
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)

	suite.Len(suite.account(chk.Number).History, 1)
}

func (suite *LedgerServiceTestSuite) TestDeposit_UnknownAccount() {
	_, err := suite.ledger.Deposit(suite.ctx, "CHK99999", dec("10"))
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
}

func (suite *LedgerServiceTestSuite) TestDeposit_BlockedAccountRecordsFailure() {
	chk := suite.checking("C001", "100")
	_, err := suite.ledger.SetAccountStatus(suite.ctx, chk.Number, domain.AccountBlocked)
	suite.Require().NoError(err)

	txn, err := suite.ledger.Deposit(suite.ctx, chk.Number, dec("50"))
	suite.ErrorIs(err, apperrors.ErrAccountBlocked)
	suite.Equal(domain.StatusFailedAccountBlocked, txn.Status)

	acct := suite.account(chk.Number)
	suite.True(acct.Balance.Equal(dec("100")))
	suite.Len(acct.History, 2)
}

func (suite *LedgerServiceTestSuite) TestWithdraw_CheckingFeeAfterFreeTransactions() {
	chk := suite.checking("C001", "1000")

	for i := 0; i < domain.DefaultFreeTransactions; i++ {
		_, err := suite.ledger.Withdraw(suite.ctx, chk.Number, dec("10"))
		suite.Require().NoError(err)
	}
	suite.True(suite.account(chk.Number).Balance.Equal(dec("900")))

	txn, err := suite.ledger.Withdraw(suite.ctx, chk.Number, dec("10"))
	suite.Require().NoError(err)
	suite.True(txn.Amount.Equal(dec("10")))
	suite.True(txn.BalanceAfter.Equal(dec("888.50")))

	acct, err := suite.ledger.ResetFeePeriod(suite.ctx, chk.Number)
	suite.Require().NoError(err)
	suite.Equal(0, acct.Checking.TransactionCount)

	txn, err = suite.ledger.Withdraw(suite.ctx, chk.Number, dec("10"))
	suite.Require().NoError(err)
	suite.True(txn.BalanceAfter.Equal(dec("878.50")))
}

func (suite *LedgerServiceTestSuite) TestBalanceMatchesLastSuccessfulRecord() {
	chk := suite.checking("C001", "50")
	ops := []struct {
		deposit bool
		amount  string
	}{
		{true, "25"}, {false, "500"}, {false, "700"}, {true, "1.25"}, {false, "0.75"},
	}
	for _, op := range ops {
		if op.deposit {
			_, _ = suite.ledger.Deposit(suite.ctx, chk.Number, dec(op.amount))
		} else {
			_, _ = suite.ledger.Withdraw(suite.ctx, chk.Number, dec(op.amount))
		}
	}

	acct := suite.account(chk.Number)
	var last domain.Transaction
	for _, txn := range acct.History {
		if txn.Succeeded() {
			last = txn
		}
	}
	suite.True(acct.Balance.Equal(last.BalanceAfter), "balance %s, last %s", acct.Balance, last.BalanceAfter)
}

// --- Transfers ---

func (suite *LedgerServiceTestSuite) TestTransferFunds_Success() {
	sav := suite.savings("C001", "5000")
	chk := suite.checking("C002", "100")

	result, err := suite.ledger.TransferFunds(suite.ctx, sav.Number, chk.Number, dec("1000"))
	suite.Require().NoError(err)

	suite.Equal(domain.TransferOut, result.Out.Type)
	suite.Equal(sav.Number, result.Out.SourceAccount)
	suite.Equal(chk.Number, result.Out.DestinationAccount)
	suite.True(result.Out.BalanceAfter.Equal(dec("4000")))

	suite.Equal(domain.TransferIn, result.In.Type)
	suite.Equal(sav.Number, result.In.SourceAccount)
	suite.Equal(chk.Number, result.In.DestinationAccount)
	suite.True(result.In.BalanceAfter.Equal(dec("1100")))
	suite.True(result.Out.Amount.Equal(result.In.Amount))

	srcLast, _ := suite.account(sav.Number).LastTransaction()
	dstLast, _ := suite.account(chk.Number).LastTransaction()
	suite.Equal(result.Out, srcLast)
	suite.Equal(result.In, dstLast)
}

func (suite *LedgerServiceTestSuite) TestTransferFunds_SourceRuleViolation() {
	sav := suite.savings("C001", "1000")
	chk := suite.checking("C002", "0")

	result, err := suite.ledger.TransferFunds(suite.ctx, sav.Number, chk.Number, dec("600"))
	suite.ErrorIs(err, apperrors.ErrMinimumBalanceViolation)

	src := suite.account(sav.Number)
	suite.True(src.Balance.Equal(dec("1000")))
	last, _ := src.LastTransaction()
	suite.Equal(domain.TransferOut, last.Type)
	suite.Equal(domain.StatusFailedMinimumBalanceViolation, last.Status)

	// The failed leg is handed back to the caller.
	suite.Require().NotNil(result)
	suite.Equal(last, result.Out)
	suite.Empty(result.In.TransactionID)

	// Nothing reached the destination.
	suite.Empty(suite.account(chk.Number).History)
}

func (suite *LedgerServiceTestSuite) TestTransferFunds_UnknownDestination() {
	sav := suite.savings("C001", "5000")

	result, err := suite.ledger.TransferFunds(suite.ctx, sav.Number, "CHK99999", dec("100"))
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)

	src := suite.account(sav.Number)
	suite.True(src.Balance.Equal(dec("5000")))
	suite.Require().Len(src.History, 2)
	failed := src.History[1]
	suite.Equal(domain.StatusFailedInvalidAccount, failed.Status)
	suite.Equal(domain.TransferOut, failed.Type)
	suite.Equal("CHK99999", failed.DestinationAccount)
	suite.Require().NotNil(result)
	suite.Equal(failed, result.Out)
}

func (suite *LedgerServiceTestSuite) TestTransferFunds_UnknownSource() {
	chk := suite.checking("C002", "10")

	_, err := suite.ledger.TransferFunds(suite.ctx, "SAV99999", chk.Number, dec("5"))
	suite.ErrorIs(err, apperrors.ErrInvalidAccount)
	suite.Len(suite.account(chk.Number).History, 1)
}

func (suite *LedgerServiceTestSuite) TestTransferFunds_InvalidAmount() {
	sav := suite.savings("C001", "5000")
	chk := suite.checking("C002", "0")

	_, err := suite.ledger.TransferFunds(suite.ctx, sav.Number, chk.Number, dec("0"))
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.Len(suite.account(sav.Number).History, 1)
	suite.Empty(suite.account(chk.Number).History)
}

func (suite *LedgerServiceTestSuite) TestTransferFunds_SameAccount() {
	chk := suite.checking("C001", "100")

	_, err := suite.ledger.TransferFunds(suite.ctx, chk.Number, chk.Number, dec("10"))
	suite.ErrorIs(err, apperrors.ErrSameAccount)
	suite.Len(suite.account(chk.Number).History, 1)
}

func (suite *LedgerServiceTestSuite) TestTransferFunds_BlockedDestination() {
	sav := suite.savings("C001", "5000")
	chk := suite.checking("C002", "0")
	_, err := suite.ledger.SetAccountStatus(suite.ctx, chk.Number, domain.AccountClosed)
	suite.Require().NoError(err)

	_, err = suite.ledger.TransferFunds(suite.ctx, sav.Number, chk.Number, dec("100"))
	suite.ErrorIs(err, apperrors.ErrAccountBlocked)

	suite.True(suite.account(sav.Number).Balance.Equal(dec("5000")))
	suite.Len(suite.account(sav.Number).History, 1)
	suite.Empty(suite.account(chk.Number).History)
}

func (suite *LedgerServiceTestSuite) TestTransferFunds_ConcurrentOppositeDirections() {
	a := suite.checking("C001", "1000")
	b := suite.checking("C002", "1000")
	for _, number := range []string{a.Number, b.Number} {
		// Keep the fee out of the arithmetic.
		_, err := suite.ledger.ResetFeePeriod(suite.ctx, number)
		suite.Require().NoError(err)
	}

	const rounds = 5
	var wg sync.WaitGroup
	errs := make(chan error, rounds*2)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := suite.ledger.TransferFunds(suite.ctx, a.Number, b.Number, dec("10"))
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := suite.ledger.TransferFunds(suite.ctx, b.Number, a.Number, dec("10"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		suite.NoError(err)
	}

	total := suite.account(a.Number).Balance.Add(suite.account(b.Number).Balance)
	suite.True(total.Equal(dec("2000")), "total %s", total)
	suite.True(suite.account(a.Number).Balance.Equal(dec("1000")))
}

func (suite *LedgerServiceTestSuite) TestTransactionIDsAreUniqueAcrossAccounts() {
	sav := suite.savings("C001", "5000")
	chk := suite.checking("C002", "100")
	_, _ = suite.ledger.TransferFunds(suite.ctx, sav.Number, chk.Number, dec("10"))
	_, _ = suite.ledger.Withdraw(suite.ctx, chk.Number, dec("5000"))
	_, _ = suite.ledger.Deposit(suite.ctx, sav.Number, dec("1"))

	seen := map[string]bool{}
	accounts, err := suite.ledger.ListAccounts(suite.ctx)
	suite.Require().NoError(err)
	for _, acct := range accounts {
		for _, txn := range acct.History {
			suite.False(seen[txn.TransactionID], "duplicate %s", txn.TransactionID)
			seen[txn.TransactionID] = true
		}
	}
	suite.Len(seen, 6)
}

// --- Snapshots and admin ---

func (suite *LedgerServiceTestSuite) TestGetAccount_ReturnsSnapshot() {
	chk := suite.checking("C001", "100")
	snapshot := suite.account(chk.Number)
	snapshot.Balance = dec("1000000")
	snapshot.History = append(snapshot.History, domain.Transaction{TransactionID: "TXN0"})

	fresh := suite.account(chk.Number)
	suite.True(fresh.Balance.Equal(dec("100")))
	suite.Len(fresh.History, 1)
}

func (suite *LedgerServiceTestSuite) TestSetAccountStatus_Invalid() {
	chk := suite.checking("C001", "100")
	_, err := suite.ledger.SetAccountStatus(suite.ctx, chk.Number, domain.AccountStatus("FROZEN"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestApplyInterest() {
	sav := suite.savings("C001", "1000")
	txn, err := suite.ledger.ApplyInterest(suite.ctx, sav.Number)
	suite.Require().NoError(err)
	suite.True(txn.Amount.Equal(dec("30")))
	suite.True(txn.BalanceAfter.Equal(dec("1030")))

	chk := suite.checking("C001", "1000")
	_, err = suite.ledger.ApplyInterest(suite.ctx, chk.Number)
	suite.ErrorIs(err, apperrors.ErrWrongAccountKind)
}

func (suite *LedgerServiceTestSuite) TestResetFeePeriod_Savings() {
	sav := suite.savings("C001", "1000")
	_, err := suite.ledger.ResetFeePeriod(suite.ctx, sav.Number)
	suite.ErrorIs(err, apperrors.ErrWrongAccountKind)
}

func (suite *LedgerServiceTestSuite) TestStats() {
	suite.savings("C001", "5000")
	suite.checking("C001", "2000")
	suite.checking("C002", "0")
	for i := 0; i < domain.MaxFailedAttempts; i++ {
		_, _ = suite.ledger.AuthenticateCustomer(suite.ctx, "C002", "0000")
	}

	stats, err := suite.ledger.Stats(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal("Test Bank", stats.BankName)
	suite.Equal(2, stats.Customers)
	suite.Equal(1, stats.BlockedCustomers)
	suite.Equal(3, stats.Accounts)
	suite.Equal(1, stats.SavingsAccounts)
	suite.Equal(2, stats.CheckingAccounts)
	suite.True(stats.TotalBalance.Equal(dec("7000")))
}

func (suite *LedgerServiceTestSuite) TestListCustomerAccounts() {
	suite.savings("C001", "5000")
	suite.checking("C002", "1")

	accounts, err := suite.ledger.ListCustomerAccounts(suite.ctx, "C001")
	suite.Require().NoError(err)
	suite.Require().Len(accounts, 1)
	suite.Equal(domain.Savings, accounts[0].Kind)
}

// --- Run Test Suite ---

func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

func TestSeedSampleData(t *testing.T) {
	ctx := context.Background()
	ledger := services.NewLedgerService()
	require.NoError(t, services.SeedSampleData(ctx, ledger))

	customers, err := ledger.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 3)

	accounts, err := ledger.ListCustomerAccounts(ctx, "C002")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "SAV10003", accounts[0].Number)
	assert.True(t, accounts[0].Balance.Equal(decimal.NewFromInt(10000)))

	err = services.SeedSampleData(ctx, ledger)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicate))
}
