package statement_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils/statement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStamper struct{ n int }

func (s *fixedStamper) Stamp() (string, time.Time) {
	s.n++
	return fmt.Sprintf("TXN%d", 1000+s.n), time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func sampleAccount(t *testing.T) *domain.Account {
	t.Helper()
	s := &fixedStamper{}
	acct, err := domain.NewCheckingAccount("CHK10002", "C001", decimal.NewFromInt(100), s)
	require.NoError(t, err)
	_, err = acct.Withdraw(s, decimal.NewFromInt(40))
	require.NoError(t, err)
	_, err = acct.Withdraw(s, decimal.NewFromInt(5000))
	require.Error(t, err)
	return acct
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	err := statement.Write(&buf, statement.FormatText, "Test Bank", sampleAccount(t), time.Now())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Test Bank - Account Statement")
	assert.Contains(t, out, "Checking Account - Number: CHK10002")
	assert.Contains(t, out, "Transactions: 3")
	assert.Contains(t, out, "FAILED_OVERDRAFT_EXCEEDED")
	assert.Contains(t, out, "Balance After: $60.00")
}

func TestWrite_Receipt(t *testing.T) {
	var buf bytes.Buffer
	err := statement.Write(&buf, statement.FormatReceipt, "Test Bank", sampleAccount(t), time.Now())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "RECEIPT")
	assert.Contains(t, out, "Transaction ID: TXN1003")
	assert.Contains(t, out, "Status: FAILED_OVERDRAFT_EXCEEDED")
	assert.NotContains(t, out, "New Balance")
	assert.NotContains(t, out, "TXN1002")
}

func TestWrite_ReceiptWithoutHistory(t *testing.T) {
	acct, err := domain.NewCheckingAccount("CHK10004", "C001", decimal.Zero, &fixedStamper{})
	require.NoError(t, err)

	var buf bytes.Buffer
	err = statement.Write(&buf, statement.FormatReceipt, "Test Bank", acct, time.Now())
	assert.ErrorIs(t, err, statement.ErrNoTransactions)
	assert.Zero(t, buf.Len())
}

func TestWrite_PDF(t *testing.T) {
	var buf bytes.Buffer
	err := statement.Write(&buf, statement.FormatPDF, "Test Bank", sampleAccount(t), time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	err := statement.Write(&buf, statement.FormatXLSX, "Test Bank", sampleAccount(t), time.Now())
	require.NoError(t, err)
	// XLSX is a zip container.
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")))
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := statement.Write(&buf, statement.Format("csv"), "Test Bank", sampleAccount(t), time.Now())
	assert.Error(t, err)
}

func TestFormat_Filename(t *testing.T) {
	assert.Equal(t, "statement_SAV10001.txt", statement.FormatText.Filename("SAV10001"))
	assert.Equal(t, "statement_SAV10001.pdf", statement.FormatPDF.Filename("SAV10001"))
	assert.Equal(t, "receipt_SAV10001.txt", statement.FormatReceipt.Filename("SAV10001"))
	assert.Equal(t, "application/pdf", statement.FormatPDF.ContentType())
}
