package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler exposes customer registration and administrative overrides.
type adminHandler struct {
	ledger portssvc.LedgerSvcFacade
}

func newAdminHandler(ledger portssvc.LedgerSvcFacade) *adminHandler {
	return &adminHandler{ledger: ledger}
}

// registerAdminRoutes registers the routes guarded by the admin API key.
func registerAdminRoutes(rg *gin.RouterGroup, ledger portssvc.LedgerSvcFacade) {
	h := newAdminHandler(ledger)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("", h.listCustomers)
		customers.POST("/:id/accounts", h.createAccount)
		customers.POST("/:id/unblock", h.unblockCustomer)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.PUT("/:number/status", h.updateAccountStatus)
		accounts.POST("/:number/reset-fee-period", h.resetFeePeriod)
		accounts.POST("/:number/apply-interest", h.applyInterest)
	}

	rg.GET("/stats", h.getStats)
}

// createCustomer godoc
// @Summary Register a customer
// @Tags admin
// @Accept json
// @Produce json
// @Param customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Customer ID already registered"
// @Security ApiKeyAuth
// @Router /admin/customers [post]
func (h *adminHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	customer, err := h.ledger.RegisterCustomer(c.Request.Context(), req.CustomerID, req.Name, req.PIN)
	if err != nil {
		respondError(c, err, "Failed to register customer", nil)
		return
	}

	logger.Info("Customer registered by admin", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// listCustomers godoc
// @Summary List customers
// @Tags admin
// @Produce json
// @Success 200 {array} dto.CustomerResponse
// @Security ApiKeyAuth
// @Router /admin/customers [get]
func (h *adminHandler) listCustomers(c *gin.Context) {
	customers, err := h.ledger.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list customers", nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToListCustomerResponse(customers))
}

// createAccount godoc
// @Summary Open an account for a customer
// @Description Savings accounts need an initial balance of at least the minimum balance.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param account body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown customer"
// @Failure 422 {object} dto.ErrorResponse "Initial balance below minimum"
// @Security ApiKeyAuth
// @Router /admin/customers/{id}/accounts [post]
func (h *adminHandler) createAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	var (
		account *domain.Account
		err     error
	)
	customerID := c.Param("id")
	switch req.Kind {
	case domain.Savings:
		account, err = h.ledger.CreateSavingsAccount(c.Request.Context(), customerID, req.InitialBalance)
	case domain.Checking:
		account, err = h.ledger.CreateCheckingAccount(c.Request.Context(), customerID, req.InitialBalance)
	default:
		err = fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, req.Kind)
	}
	if err != nil {
		respondError(c, err, "Failed to create account", nil)
		return
	}
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// unblockCustomer godoc
// @Summary Clear a customer's login lockout
// @Tags admin
// @Param id path string true "Customer ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/customers/{id}/unblock [post]
func (h *adminHandler) unblockCustomer(c *gin.Context) {
	if err := h.ledger.UnblockCustomer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to unblock customer", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// listAccounts godoc
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Security ApiKeyAuth
// @Router /admin/accounts [get]
func (h *adminHandler) listAccounts(c *gin.Context) {
	accounts, err := h.ledger.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list accounts", nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// updateAccountStatus godoc
// @Summary Block, close or reactivate an account
// @Tags admin
// @Accept json
// @Produce json
// @Param number path string true "Account number"
// @Param request body dto.UpdateAccountStatusRequest true "New status"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts/{number}/status [put]
func (h *adminHandler) updateAccountStatus(c *gin.Context) {
	var req dto.UpdateAccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format", err)
		return
	}

	account, err := h.ledger.SetAccountStatus(c.Request.Context(), c.Param("number"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update account status", nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// resetFeePeriod godoc
// @Summary Start a new fee period on a checking account
// @Tags admin
// @Produce json
// @Param number path string true "Account number"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} dto.ErrorResponse "Not a checking account"
// @Failure 404 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts/{number}/reset-fee-period [post]
func (h *adminHandler) resetFeePeriod(c *gin.Context) {
	account, err := h.ledger.ResetFeePeriod(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to reset fee period", nil)
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// applyInterest godoc
// @Summary Credit one period of interest to a savings account
// @Tags admin
// @Produce json
// @Param number path string true "Account number"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} dto.ErrorResponse "Not a savings account"
// @Failure 423 {object} dto.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/accounts/{number}/apply-interest [post]
func (h *adminHandler) applyInterest(c *gin.Context) {
	txn, err := h.ledger.ApplyInterest(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err, "Failed to apply interest", &txn)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getStats godoc
// @Summary Ledger summary
// @Tags admin
// @Produce json
// @Success 200 {object} domain.BankStats
// @Security ApiKeyAuth
// @Router /admin/stats [get]
func (h *adminHandler) getStats(c *gin.Context) {
	stats, err := h.ledger.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute stats", nil)
		return
	}
	c.JSON(http.StatusOK, stats)
}
