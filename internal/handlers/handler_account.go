package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/SscSPs/bank_ledger/internal/utils/pagination"
	"github.com/SscSPs/bank_ledger/internal/utils/statement"
	"github.com/gin-gonic/gin"
)

// accountHandler handles a logged-in customer's own accounts.
type accountHandler struct {
	ledger   portssvc.LedgerSvcFacade
	bankName string
}

func newAccountHandler(ledger portssvc.LedgerSvcFacade, bankName string) *accountHandler {
	return &accountHandler{ledger: ledger, bankName: bankName}
}

// registerAccountRoutes registers the customer-facing account routes.
func registerAccountRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade, bankName string) {
	h := newAccountHandler(ledger, bankName)

	rg.GET("/me", h.getMe)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:number", h.requireOwnership, h.getAccount)
		accounts.POST("/:number/deposit", h.requireOwnership, h.deposit)
		accounts.POST("/:number/withdraw", h.requireOwnership, h.withdraw)
		accounts.GET("/:number/transactions", h.requireOwnership, h.listTransactions)
		accounts.GET("/:number/statement", h.requireOwnership, h.getStatement)
	}

	rg.POST("/transfers", h.transfer)
}

// ownsAccount reports whether the authenticated customer holds accountNumber.
// It writes the error response itself when it returns false.
func (h *accountHandler) ownsAccount(c *gin.Context, accountNumber string) bool {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		logger.Error("Customer ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return false
	}

	customer, err := h.ledger.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		logger.Warn("Session customer no longer registered", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return false
	}

	if !customer.OwnsAccount(accountNumber) {
		logger.Warn("Access to another customer's account denied", slog.String("account_number", accountNumber))
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Forbidden"})
		return false
	}
	return true
}

func (h *accountHandler) requireOwnership(c *gin.Context) {
	if !h.ownsAccount(c, c.Param("number")) {
		c.Abort()
		return
	}
	c.Next()
}

// getMe godoc
// @Summary Get the logged-in customer
// @Tags customers
// @Produce json
// @Success 200 {object} dto.CustomerResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *accountHandler) getMe(c *gin.Context) {
	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	customer, err := h.ledger.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// listAccounts godoc
// @Summary List the logged-in customer's accounts
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	customerID, ok := middleware.GetCustomerIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	accounts, err := h.ledger.ListCustomerAccounts(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err, "Failed to list accounts", nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// getAccount godoc
// @Summary Get an account by number
// @Tags accounts
// @Produce json
// @Param number path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 403 {object} dto.ErrorResponse "Forbidden (accessing another customer's account)"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{number} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	account, err := h.ledger.GetAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account", nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// deposit godoc
// @Summary Deposit into an account
// @Tags accounts
// @Accept json
// @Produce json
// @Param number path string true "Account number"
// @Param request body dto.AmountRequest true "Amount"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 423 {object} dto.ErrorResponse "Account not active"
// @Security BearerAuth
// @Router /accounts/{number}/deposit [post]
func (h *accountHandler) deposit(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	txn, err := h.ledger.Deposit(c.Request.Context(), c.Param("number"), req.Amount)
	if err != nil {
		respondError(c, err, "Deposit failed", &txn)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description Savings accounts keep a minimum balance; checking accounts may overdraw up to their limit and pay a fee past the free allowance.
// @Tags accounts
// @Accept json
// @Produce json
// @Param number path string true "Account number"
// @Param request body dto.AmountRequest true "Amount"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Rule violation, failed record attached"
// @Failure 423 {object} dto.ErrorResponse "Account not active"
// @Security BearerAuth
// @Router /accounts/{number}/withdraw [post]
func (h *accountHandler) withdraw(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	txn, err := h.ledger.Withdraw(c.Request.Context(), c.Param("number"), req.Amount)
	if err != nil {
		respondError(c, err, "Withdrawal failed", &txn)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary Page through an account's history
// @Description Returns records oldest first. Pass nextToken from the previous page to continue.
// @Tags accounts
// @Produce json
// @Param number path string true "Account number"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /accounts/{number}/transactions [get]
func (h *accountHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	history, err := h.ledger.GetTransactionHistory(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transactions", nil)
		return
	}

	start := 0
	if params.NextToken != "" {
		position, lastID, err := pagination.DecodeHistoryToken(params.NextToken)
		if err != nil {
			badRequest(c, "Invalid nextToken", err)
			return
		}
		if position == 0 || position > len(history) || history[position-1].TransactionID != lastID {
			badRequest(c, "Invalid nextToken", fmt.Errorf("cursor does not match account history"))
			return
		}
		start = position
	}

	end := start + params.Limit
	if end > len(history) {
		end = len(history)
	}
	page := history[start:end]

	res := dto.ListTransactionsResponse{Transactions: dto.ToListTransactionResponse(page)}
	if end < len(history) && len(page) > 0 {
		res.NextToken = pagination.EncodeHistoryToken(end, page[len(page)-1].TransactionID)
	}
	c.JSON(http.StatusOK, res)
}

// getStatement godoc
// @Summary Download an account statement
// @Tags accounts
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce plain
// @Param number path string true "Account number"
// @Param format query string false "pdf, xlsx, text or receipt (latest record only)" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "No transactions for a receipt"
// @Security BearerAuth
// @Router /accounts/{number}/statement [get]
func (h *accountHandler) getStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.StatementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "Invalid query parameters", err)
		return
	}

	account, err := h.ledger.GetAccount(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to retrieve account", nil)
		return
	}

	format := statement.Format(params.Format)
	var buf bytes.Buffer
	if err := statement.Write(&buf, format, h.bankName, account, time.Now().UTC()); err != nil {
		if errors.Is(err, statement.ErrNoTransactions) {
			respondError(c, fmt.Errorf("%w: %w", apperrors.ErrNotFound, err), "No transactions to show", nil)
			return
		}
		respondError(c, err, "Failed to render statement", nil)
		return
	}

	logger.Info("Statement generated", slog.String("account_number", account.Number), slog.String("format", params.Format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", format.Filename(account.Number)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// transfer godoc
// @Summary Transfer funds between accounts
// @Description Moves funds from one of the customer's accounts to any account. Both legs commit together or not at all.
// @Tags transfers
// @Accept json
// @Produce json
// @Param request body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown account"
// @Failure 409 {object} dto.ErrorResponse "Same source and destination"
// @Failure 422 {object} dto.ErrorResponse "Rule violation on the source, failed record attached"
// @Failure 423 {object} dto.ErrorResponse "Account not active"
// @Failure 503 {object} dto.ErrorResponse "Accounts busy"
// @Security BearerAuth
// @Router /transfers [post]
func (h *accountHandler) transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}
	if !h.ownsAccount(c, req.SourceAccount) {
		return
	}

	result, err := h.ledger.TransferFunds(c.Request.Context(), req.SourceAccount, req.DestinationAccount, req.Amount)
	if err != nil {
		var recorded *domain.Transaction
		if result != nil {
			recorded = &result.Out
		}
		respondError(c, err, "Transfer failed", recorded)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}
