package dto

import (
	"testing"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerValidations(v))
	return v
}

func TestAmountRequestValidation(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		amount string
		valid  bool
	}{
		{"0.01", true},
		{"100", true},
		{"0", false},
		{"-5", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			err := v.Struct(AmountRequest{Amount: decimal.RequireFromString(tt.amount)})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateAccountRequestValidation(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(CreateAccountRequest{Kind: domain.Savings, InitialBalance: decimal.NewFromInt(500)}))
	assert.NoError(t, v.Struct(CreateAccountRequest{Kind: domain.Checking}))
	assert.Error(t, v.Struct(CreateAccountRequest{Kind: "BROKERAGE"}))
	assert.Error(t, v.Struct(CreateAccountRequest{Kind: domain.Checking, InitialBalance: decimal.NewFromInt(-1)}))
}

func TestToTransactionResponse_HidesBalanceOnFailure(t *testing.T) {
	failed := ToTransactionResponse(domain.Transaction{
		Status:       domain.StatusFailedOverdraftExceeded,
		BalanceAfter: decimal.NewFromInt(10),
	})
	assert.Nil(t, failed.BalanceAfter)

	ok := ToTransactionResponse(domain.Transaction{
		Status:       domain.StatusSuccess,
		BalanceAfter: decimal.NewFromInt(10),
	})
	require.NotNil(t, ok.BalanceAfter)
	assert.True(t, ok.BalanceAfter.Equal(decimal.NewFromInt(10)))
}
