package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/vaultix_backend/internal/core/ports/services"
	"github.com/SscSPs/vaultix_backend/internal/dto"
	"github.com/SscSPs/vaultix_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler serves the admin dashboards.
type reportingHandler struct {
	reporting    portssvc.ReportingSvcFacade
	applications portssvc.ApplicationSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade, as portssvc.ApplicationSvcFacade) *reportingHandler {
	return &reportingHandler{reporting: rs, applications: as}
}

// registerReportingRoutes registers stats, audit log and application history on an admin group.
func registerReportingRoutes(rg *gin.RouterGroup, rs portssvc.ReportingSvcFacade, as portssvc.ApplicationSvcFacade) {
	h := newReportingHandler(rs, as)
	apps := newApplicationHandler(as)

	rg.GET("/stats", h.getStats)
	rg.GET("/audit-log", h.getAuditLog)
	rg.GET("/applications", apps.listApplications)
	rg.GET("/applications/:id", apps.getApplication)
	rg.GET("/applications/:id/history", h.getApplicationHistory)
}

// getStats godoc
// @Summary System statistics
// @Description Counts applications by state and sums balances of approved accounts.
// @Tags admin
// @Produce json
// @Success 200 {object} domain.SystemStats
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *reportingHandler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.reporting.SystemStats(c.Request.Context()))
}

// getAuditLog godoc
// @Summary Audit log
// @Description Returns the most recent workflow events, newest first.
// @Tags admin
// @Produce json
// @Param limit query int false "Maximum entries (0 for all)" default(50)
// @Success 200 {object} dto.AuditLogResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/audit-log [get]
func (h *reportingHandler) getAuditLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.AuditLogParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	entries, err := h.reporting.AuditLog(c.Request.Context(), params.Limit)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load audit log")
		return
	}
	c.JSON(http.StatusOK, dto.AuditLogResponse{Entries: entries})
}

// getApplicationHistory godoc
// @Summary Application history
// @Description Returns every recorded event for one application, oldest first.
// @Tags admin
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} dto.ApplicationHistoryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/applications/{id}/history [get]
func (h *reportingHandler) getApplicationHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")
	events, err := h.reporting.ApplicationHistory(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to load application history")
		return
	}
	c.JSON(http.StatusOK, dto.ApplicationHistoryResponse{ApplicationID: id, Events: events})
}
