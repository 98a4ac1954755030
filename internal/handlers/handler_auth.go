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

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// authHandler serves customer login and the two-phase staff login.
type authHandler struct {
	identity    portssvc.IdentitySvcFacade
	employees   portssvc.EmployeeSvcFacade
	staffAuth   portssvc.StaffAuthSvcFacade
	tokens      portssvc.TokenSvcFacade
	exposeDebug bool
}

func newAuthHandler(services *portssvc.ServiceContainer, isProduction bool) *authHandler {
	return &authHandler{
		identity:    services.Identity,
		employees:   services.Employee,
		staffAuth:   services.StaffAuth,
		tokens:      services.Token,
		exposeDebug: !isProduction,
	}
}

// registerAuthRoutes sets up the routes for authentication.
// limit guards every credential-checking endpoint.
func registerAuthRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, isProduction bool, limit gin.HandlerFunc) {
	h := newAuthHandler(services, isProduction)

	auth := rg.Group("/auth")
	{
		auth.POST("/customer/login", limit, h.customerLogin)
		auth.POST("/staff/otp", limit, h.requestStaffOTP)
		auth.POST("/staff/verify", limit, h.verifyStaffLogin)
		auth.POST("/staff/register", h.registerStaff)
	}
}

// customerLogin godoc
// @Summary Customer login
// @Description Authenticates a customer by email and returns a session token with their application.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.CustomerLoginRequest true "Customer credentials"
// @Success 200 {object} dto.CustomerLoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/customer/login [post]
func (h *authHandler) customerLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CustomerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	customer := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if customer == nil {
		logger.Warn("Customer login failed")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}
	app := h.identity.GetApplicationByOwner(c.Request.Context(), customer.Email)
	if app == nil {
		logger.Error("Identity entry points at a missing application", slog.String("application_id", customer.ApplicationID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Application for this customer could not be loaded"})
		return
	}

	token, expiresAt, err := h.tokens.GenerateAccessToken(c.Request.Context(), customer.Email, domain.RoleCustomer)
	if err != nil {
		logger.Error("Failed to generate customer token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Customer logged in", slog.String("application_id", app.ID))
	c.JSON(http.StatusOK, dto.CustomerLoginResponse{
		Token:       token,
		ExpiresAt:   expiresAt,
		Application: dto.ToApplicationResponse(app),
	})
}

// requestStaffOTP godoc
// @Summary Staff login, phase one
// @Description Checks employee credentials and issues a one-time code.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.StaffCredentialsRequest true "Employee credentials"
// @Success 200 {object} dto.StaffOTPResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} dto.LoginFailureResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/staff/otp [post]
func (h *authHandler) requestStaffOTP(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StaffCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, issue := h.staffAuth.RequestOTP(c.Request.Context(), req.EmployeeID, req.Password, domain.EmployeeRole(req.Role))
	if !result.Success {
		respondLoginFailure(c, result)
		return
	}
	if h.exposeDebug {
		logger.Debug("Issued staff OTP", slog.String("employee_id", req.EmployeeID), slog.String("otp", issue.Code))
	}

	c.JSON(http.StatusOK, dto.StaffOTPResponse{
		Message:   result.Message,
		OTP:       issue.Code,
		ExpiresAt: issue.ExpiresAt,
	})
}

// verifyStaffLogin godoc
// @Summary Staff login, phase two
// @Description Re-checks credentials, consumes the one-time code and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param verify body dto.StaffVerifyRequest true "Credentials and one-time code"
// @Success 200 {object} dto.StaffLoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} dto.LoginFailureResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/staff/verify [post]
func (h *authHandler) verifyStaffLogin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.StaffVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result := h.staffAuth.VerifyLogin(c.Request.Context(), req.EmployeeID, req.Password, domain.EmployeeRole(req.Role), req.OTP)
	if !result.Success {
		respondLoginFailure(c, result)
		return
	}

	emp := result.Employee
	token, expiresAt, err := h.tokens.GenerateAccessToken(c.Request.Context(), emp.EmployeeID, string(emp.Role))
	if err != nil {
		logger.Error("Failed to generate staff token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.StaffLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Role:      string(emp.Role),
		Redirect:  result.Redirect,
		Employee:  dto.ToEmployeeResponse(emp),
	})
}

// registerStaff godoc
// @Summary Staff self-registration
// @Description Registers a clerk or manager. Admin accounts are created by an admin only.
// @Tags auth
// @Accept json
// @Produce json
// @Param employee body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Employee ID already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/staff/register [post]
func (h *authHandler) registerStaff(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	if domain.EmployeeRole(req.Role) == domain.RoleAdmin {
		logger.Warn("Rejected admin self-registration", slog.String("employee_id", req.EmployeeID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin accounts cannot be self-registered"})
		return
	}

	emp, err := h.employees.RegisterEmployee(c.Request.Context(), req.ToNewEmployee())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to register employee")
		return
	}

	logger.Info("Employee self-registered", slog.String("employee_id", emp.EmployeeID), slog.String("role", string(emp.Role)))
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(emp))
}

// respondLoginFailure writes a staff login failure. Store failures are 500, everything else 401.
func respondLoginFailure(c *gin.Context, result domain.LoginResult) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := http.StatusUnauthorized
	if result.Failure == domain.LoginFailureInternal {
		status = http.StatusInternalServerError
	}
	logger.Warn("Staff login refused", slog.String("reason", string(result.Failure)))
	c.JSON(status, dto.LoginFailureResponse{Error: result.Message, Reason: string(result.Failure)})
}
