// Package statement renders an account's history as a downloadable statement.
package statement

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/jung-kurt/gofpdf"
	"github.com/tealeg/xlsx"
)

// Format is a supported statement encoding.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatText Format = "text"
	// FormatReceipt renders only the short receipt of the latest record.
	FormatReceipt Format = "receipt"
)

// ErrNoTransactions is returned for a receipt on an account with an empty history.
var ErrNoTransactions = errors.New("account has no transactions")

const dateLayout = "2006-01-02 15:04:05"

var columns = []string{"Transaction ID", "Date/Time", "Type", "From", "To", "Amount", "Status", "Balance After"}

// ContentType returns the MIME type a statement of format f is served with.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns the attachment name for an account's statement.
func (f Format) Filename(accountNumber string) string {
	switch f {
	case FormatText:
		return fmt.Sprintf("statement_%s.txt", accountNumber)
	case FormatReceipt:
		return fmt.Sprintf("receipt_%s.txt", accountNumber)
	default:
		return fmt.Sprintf("statement_%s.%s", accountNumber, f)
	}
}

// Write renders the statement for account in the requested format.
func Write(w io.Writer, f Format, bankName string, account *domain.Account, generatedAt time.Time) error {
	switch f {
	case FormatPDF:
		return writePDF(w, bankName, account, generatedAt)
	case FormatXLSX:
		return writeXLSX(w, account)
	case FormatText:
		return writeText(w, bankName, account, generatedAt)
	case FormatReceipt:
		return writeReceipt(w, bankName, account)
	default:
		return fmt.Errorf("unsupported statement format %q", f)
	}
}

func row(txn domain.Transaction) []string {
	balance := ""
	if txn.Succeeded() {
		balance = utils.FormatMoney(txn.BalanceAfter)
	}
	return []string{
		txn.TransactionID,
		txn.Timestamp.Format(dateLayout),
		string(txn.Type),
		txn.SourceAccount,
		txn.DestinationAccount,
		utils.FormatMoney(txn.Amount),
		string(txn.Status),
		balance,
	}
}

func writePDF(w io.Writer, bankName string, account *domain.Account, generatedAt time.Time) error {
	widths := []float64{24, 36, 28, 24, 24, 22, 52, 26}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, bankName+" - Account Statement")
	pdf.Ln(10)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(40, 6, fmt.Sprintf("%s Account %s", account.AccountType(), account.Number))
	pdf.Ln(6)
	pdf.Cell(40, 6, fmt.Sprintf("Customer: %s   Status: %s   Balance: %s",
		account.OwnerID, account.Status, utils.FormatMoney(account.Balance)))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Generated: "+generatedAt.Format(dateLayout))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	for i, col := range columns {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "", false, 0, "")
	}
	pdf.Ln(7)

	pdf.SetFont("Arial", "", 9)
	for _, txn := range account.History {
		for i, value := range row(txn) {
			pdf.CellFormat(widths[i], 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(7)
	}

	return pdf.Output(w)
}

func writeXLSX(w io.Writer, account *domain.Account) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(account.Number)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, col := range columns {
		header.AddCell().SetValue(col)
	}
	for _, txn := range account.History {
		r := sheet.AddRow()
		for _, value := range row(txn) {
			r.AddCell().SetValue(value)
		}
	}

	return file.Write(w)
}

func writeText(w io.Writer, bankName string, account *domain.Account, generatedAt time.Time) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s - Account Statement\n", bankName)
	fmt.Fprintf(&sb, "%s\n", account)
	fmt.Fprintf(&sb, "Generated: %s\n", generatedAt.Format(dateLayout))
	fmt.Fprintf(&sb, "Transactions: %d\n", len(account.History))
	for _, txn := range account.History {
		sb.WriteString("----------------------------------------\n")
		sb.WriteString(txn.String())
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeReceipt(w io.Writer, bankName string, account *domain.Account) error {
	last, ok := account.LastTransaction()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTransactions, account.Number)
	}
	_, err := io.WriteString(w, bankName+last.Receipt())
	return err
}
