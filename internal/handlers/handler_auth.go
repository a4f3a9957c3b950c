package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/SscSPs/bank_ledger/internal/platform/config"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// authHandler handles customer login.
type authHandler struct {
	authService portssvc.CustomerAuthSvc
	jwtSecret   string
	jwtDuration time.Duration
	jwtIssuer   string
}

func newAuthHandler(as portssvc.CustomerAuthSvc, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: as,
		jwtSecret:   cfg.JWTSecret,
		jwtDuration: cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, authService portssvc.CustomerAuthSvc) error {
	h := newAuthHandler(authService, cfg)

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return err
	}

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", middleware.RateLimit(loginLimiter), h.login)
	}
	return nil
}

// login godoc
// @Summary Customer login
// @Description Validates a customer's PIN and returns a session token. Three consecutive failures lock the customer out.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid customer ID or PIN"
// @Failure 423 {object} dto.ErrorResponse "Customer locked out"
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	customer, err := h.authService.AuthenticateCustomer(c.Request.Context(), req.CustomerID, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Login failed", slog.String("customer_id", req.CustomerID))
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid customer ID or PIN"})
		default:
			respondError(c, err, "Login failed", nil)
		}
		return
	}

	token, err := utils.GenerateJWT(customer.CustomerID, h.jwtSecret, h.jwtDuration, h.jwtIssuer)
	if err != nil {
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Customer logged in", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusOK, dto.LoginResponse{Token: token, CustomerID: customer.CustomerID, Name: customer.Name})
}
