package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/dto"
	"github.com/SscSPs/vaultix_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// employeeHandler serves admin management of the staff directory.
type employeeHandler struct {
	employees portssvc.EmployeeSvcFacade
}

func newEmployeeHandler(es portssvc.EmployeeSvcFacade) *employeeHandler {
	return &employeeHandler{employees: es}
}

// registerEmployeeRoutes registers the employee routes on an admin group.
func registerEmployeeRoutes(rg *gin.RouterGroup, es portssvc.EmployeeSvcFacade) {
	h := newEmployeeHandler(es)

	employees := rg.Group("/employees")
	{
		employees.GET("", h.listEmployees)
		employees.POST("", h.createEmployee)
		employees.GET("/:employeeId", h.getEmployee)
		employees.PUT("/:employeeId", h.updateEmployee)
		employees.POST("/:employeeId/deactivate", h.deactivateEmployee)
		employees.POST("/:employeeId/reactivate", h.reactivateEmployee)
		employees.POST("/:employeeId/reset-password", h.resetPassword)
	}
}

// listEmployees godoc
// @Summary List employees
// @Tags employees
// @Produce json
// @Success 200 {object} dto.ListEmployeesResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/employees [get]
func (h *employeeHandler) listEmployees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	emps, err := h.employees.ListEmployees(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list employees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeesResponse(emps))
}

// createEmployee godoc
// @Summary Create an employee
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body dto.CreateEmployeeRequest true "Employee details"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Employee ID already registered"
// @Security BearerAuth
// @Router /admin/employees [post]
func (h *employeeHandler) createEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEmployee", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	emp, err := h.employees.RegisterEmployee(c.Request.Context(), req.ToNewEmployee())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create employee")
		return
	}

	logger.Info("Employee created", slog.String("employee_id", emp.EmployeeID))
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(emp))
}

// getEmployee godoc
// @Summary Get an employee
// @Tags employees
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/employees/{employeeId} [get]
func (h *employeeHandler) getEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	emp, err := h.employees.GetEmployee(c.Request.Context(), c.Param("employeeId"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve employee")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(emp))
}

// updateEmployee godoc
// @Summary Update an employee
// @Description Updates the supplied fields only.
// @Tags employees
// @Accept json
// @Produce json
// @Param employeeId path string true "Employee ID"
// @Param employee body dto.UpdateEmployeeRequest true "Fields to update"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/employees/{employeeId} [put]
func (h *employeeHandler) updateEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	emp, err := h.employees.UpdateEmployee(c.Request.Context(), c.Param("employeeId"), req.ToEmployeeUpdate())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update employee")
		return
	}

	logger.Info("Employee updated", slog.String("employee_id", emp.EmployeeID))
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(emp))
}

// deactivateEmployee godoc
// @Summary Deactivate an employee
// @Tags employees
// @Param employeeId path string true "Employee ID"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/employees/{employeeId}/deactivate [post]
func (h *employeeHandler) deactivateEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("employeeId")
	principal, _ := middleware.GetPrincipalFromContext(c)
	if principal.Subject == id {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "You cannot deactivate your own account"})
		return
	}
	if err := h.employees.DeactivateEmployee(c.Request.Context(), id); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate employee")
		return
	}
	logger.Info("Employee deactivated", slog.String("employee_id", id))
	c.Status(http.StatusNoContent)
}

// reactivateEmployee godoc
// @Summary Reactivate an employee
// @Tags employees
// @Param employeeId path string true "Employee ID"
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/employees/{employeeId}/reactivate [post]
func (h *employeeHandler) reactivateEmployee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("employeeId")
	if err := h.employees.ReactivateEmployee(c.Request.Context(), id); err != nil {
		respondServiceError(c, logger, err, "Failed to reactivate employee")
		return
	}
	logger.Info("Employee reactivated", slog.String("employee_id", id))
	c.Status(http.StatusNoContent)
}

// resetPassword godoc
// @Summary Reset an employee's password
// @Tags employees
// @Accept json
// @Param employeeId path string true "Employee ID"
// @Param password body dto.ResetPasswordRequest true "New password"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/employees/{employeeId}/reset-password [post]
func (h *employeeHandler) resetPassword(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	id := c.Param("employeeId")
	if err := h.employees.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		respondServiceError(c, logger, err, "Failed to reset password")
		return
	}
	logger.Info("Employee password reset", slog.String("employee_id", id))
	c.Status(http.StatusNoContent)
}
