package dto

import (
	"time"

	"github.com/SscSPs/bank_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for one ledger record.
type TransactionResponse struct {
	TransactionID      string                   `json:"transactionID"`
	Type               domain.TransactionType   `json:"type"`
	Amount             decimal.Decimal          `json:"amount"`
	Timestamp          time.Time                `json:"timestamp"`
	SourceAccount      string                   `json:"sourceAccount"`
	DestinationAccount string                   `json:"destinationAccount,omitempty"`
	Status             domain.TransactionStatus `json:"status"`
	BalanceAfter       *decimal.Decimal         `json:"balanceAfter,omitempty"`
	Receipt            string                   `json:"receipt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
// BalanceAfter is only reported for successful records.
func ToTransactionResponse(txn domain.Transaction) TransactionResponse {
	res := TransactionResponse{
		TransactionID:      txn.TransactionID,
		Type:               txn.Type,
		Amount:             txn.Amount,
		Timestamp:          txn.Timestamp,
		SourceAccount:      txn.SourceAccount,
		DestinationAccount: txn.DestinationAccount,
		Status:             txn.Status,
		Receipt:            txn.Receipt(),
	}
	if txn.Succeeded() {
		balance := txn.BalanceAfter
		res.BalanceAfter = &balance
	}
	return res
}

// ToListTransactionResponse converts records to TransactionResponse DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(txn)
	}
	return res
}

// ListTransactionsParams defines query parameters for paging through a history.
type ListTransactionsParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListTransactionsResponse is one page of an account's history, oldest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    string                `json:"nextToken,omitempty"`
}

// TransferRequest defines the data needed to move funds between accounts.
type TransferRequest struct {
	SourceAccount      string          `json:"sourceAccount" binding:"required"`
	DestinationAccount string          `json:"destinationAccount" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"positive_amount"`
}

// TransferResponse reports both legs of a completed transfer.
type TransferResponse struct {
	TransferOut TransactionResponse `json:"transferOut"`
	TransferIn  TransactionResponse `json:"transferIn"`
}

// ToTransferResponse converts a domain.TransferResult to TransferResponse DTO
func ToTransferResponse(r *domain.TransferResult) TransferResponse {
	return TransferResponse{
		TransferOut: ToTransactionResponse(r.Out),
		TransferIn:  ToTransactionResponse(r.In),
	}
}

// ErrorResponse is returned for rejected requests. Transaction is set when the
// rejection left a failed record in the account history.
type ErrorResponse struct {
	Error       string               `json:"error"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}
