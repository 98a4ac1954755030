package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/vaultix_backend/internal/core/domain"
	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/dto"
	"github.com/SscSPs/vaultix_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler serves the logged-in customer's own application and account.
type customerHandler struct {
	identity   portssvc.IdentitySvcFacade
	operations portssvc.OperationsSvcFacade
}

func newCustomerHandler(is portssvc.IdentitySvcFacade, ops portssvc.OperationsSvcFacade) *customerHandler {
	return &customerHandler{identity: is, operations: ops}
}

// registerCustomerRoutes registers routes scoped to the caller's application.
func registerCustomerRoutes(rg *gin.RouterGroup, is portssvc.IdentitySvcFacade, ops portssvc.OperationsSvcFacade) {
	h := newCustomerHandler(is, ops)

	me := rg.Group("/me", middleware.RequireRole(false, domain.RoleCustomer))
	{
		me.GET("/application", h.getMyApplication)
		me.POST("/deposit", h.deposit)
		me.POST("/withdraw", h.withdraw)
		me.POST("/transfer", h.transfer)
	}
}

// getMyApplication godoc
// @Summary Get my application
// @Description Returns the application owned by the logged-in customer.
// @Tags customer
// @Produce json
// @Success 200 {object} dto.ApplicationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/application [get]
func (h *customerHandler) getMyApplication(c *gin.Context) {
	principal, _ := middleware.GetPrincipalFromContext(c)
	app := h.identity.GetApplicationByOwner(c.Request.Context(), principal.Subject)
	if app == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Application not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// deposit godoc
// @Summary Deposit funds
// @Tags customer
// @Accept json
// @Produce json
// @Param amount body dto.AmountRequest true "Amount"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account not open for operations"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/deposit [post]
func (h *customerHandler) deposit(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	principal, _ := middleware.GetPrincipalFromContext(c)
	app, err := h.operations.Deposit(c.Request.Context(), principal.Subject, req.Amount)
	h.respondBalance(c, app, err, "Deposit")
}

// withdraw godoc
// @Summary Withdraw funds
// @Tags customer
// @Accept json
// @Produce json
// @Param amount body dto.AmountRequest true "Amount"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or insufficient funds"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account not open for operations"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /me/withdraw [post]
func (h *customerHandler) withdraw(c *gin.Context) {
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	principal, _ := middleware.GetPrincipalFromContext(c)
	app, err := h.operations.Withdraw(c.Request.Context(), principal.Subject, req.Amount)
	h.respondBalance(c, app, err, "Withdrawal")
}

// transfer godoc
// @Summary Transfer funds
// @Description Moves funds from the caller's account to another open account.
// @Tags customer
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Recipient and amount"
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Recipient account not found"
// @Security BearerAuth
// @Router /me/transfer [post]
func (h *customerHandler) transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	principal, _ := middleware.GetPrincipalFromContext(c)
	app, err := h.operations.Transfer(c.Request.Context(), principal.Subject, req.ToAccountNumber, req.Amount)
	h.respondBalance(c, app, err, "Transfer")
}

func (h *customerHandler) respondBalance(c *gin.Context, app *domain.Application, err error, op string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, op+" failed")
		return
	}
	logger.Info(op+" completed", slog.String("account_number", app.AccountNumber), slog.String("balance", app.Balance.String()))
	c.JSON(http.StatusOK, dto.BalanceResponse{AccountNumber: app.AccountNumber, Balance: app.Balance})
}
