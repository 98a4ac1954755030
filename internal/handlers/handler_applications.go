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

// applicationHandler serves registration and the staff-side workflow transitions.
type applicationHandler struct {
	applications portssvc.ApplicationSvcFacade
}

func newApplicationHandler(as portssvc.ApplicationSvcFacade) *applicationHandler {
	return &applicationHandler{applications: as}
}

// registerApplicationRoutes registers the public registration endpoint.
func registerApplicationRoutes(rg *gin.RouterGroup, as portssvc.ApplicationSvcFacade) {
	h := newApplicationHandler(as)
	rg.POST("/applications", h.createApplication)
}

// registerClerkRoutes registers the video-KYC endpoints.
func registerClerkRoutes(rg *gin.RouterGroup, as portssvc.ApplicationSvcFacade, staff ...gin.HandlerFunc) {
	h := newApplicationHandler(as)

	clerk := rg.Group("/clerk", append([]gin.HandlerFunc{middleware.RequireRole(true, string(domain.RoleClerk))}, staff...)...)
	{
		clerk.GET("/applications", h.listApplications)
		clerk.GET("/applications/:id", h.getApplication)
		clerk.POST("/applications/:id/kyc/start", h.startVideoKYC)
		clerk.POST("/applications/:id/kyc/complete", h.completeKYC)
	}
}

// registerManagerRoutes registers the review endpoints.
func registerManagerRoutes(rg *gin.RouterGroup, as portssvc.ApplicationSvcFacade, staff ...gin.HandlerFunc) {
	h := newApplicationHandler(as)

	manager := rg.Group("/manager", append([]gin.HandlerFunc{middleware.RequireRole(true, string(domain.RoleManager))}, staff...)...)
	{
		manager.GET("/applications", h.listApplications)
		manager.GET("/applications/:id", h.getApplication)
		manager.POST("/applications/:id/approve", h.approveApplication)
		manager.POST("/applications/:id/reject", h.rejectApplication)
	}
}

// createApplication godoc
// @Summary Submit an account-opening application
// @Description Registers a new application together with the customer's login entry.
// @Tags applications
// @Accept json
// @Produce json
// @Param application body dto.CreateApplicationRequest true "Application details"
// @Success 201 {object} dto.CreateApplicationResponse
// @Failure 400 {object} ErrorResponse "Invalid input format or missing required fields"
// @Failure 500 {object} ErrorResponse
// @Router /applications [post]
func (h *applicationHandler) createApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateApplication", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	id, err := h.applications.CreateApplication(c.Request.Context(), req.ToDraft())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to submit application")
		return
	}

	logger.Info("Application submitted", slog.String("application_id", id))
	c.JSON(http.StatusCreated, dto.CreateApplicationResponse{ApplicationID: id})
}

// listApplications godoc
// @Summary List applications
// @Description Lists applications, optionally filtered by status, KYC status or clerk.
// @Tags applications
// @Produce json
// @Param status query string false "Application status"
// @Param kycStatus query string false "KYC status"
// @Param clerkId query string false "Assigned clerk"
// @Success 200 {object} dto.ListApplicationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /clerk/applications [get]
// @Router /manager/applications [get]
// @Router /admin/applications [get]
func (h *applicationHandler) listApplications(c *gin.Context) {
	var params dto.ListApplicationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	apps := h.applications.ListApplications(c.Request.Context(), params.ToFilter())
	c.JSON(http.StatusOK, dto.ToListApplicationsResponse(apps))
}

// getApplication godoc
// @Summary Get an application by ID
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /clerk/applications/{id} [get]
// @Router /manager/applications/{id} [get]
func (h *applicationHandler) getApplication(c *gin.Context) {
	app, ok := h.mustGet(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// startVideoKYC godoc
// @Summary Start the video-KYC session
// @Description Assigns the calling clerk and moves the application to kyc_in_progress.
// @Tags kyc
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} dto.TransitionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "KYC already started"
// @Security BearerAuth
// @Router /clerk/applications/{id}/kyc/start [post]
func (h *applicationHandler) startVideoKYC(c *gin.Context) {
	principal, _ := middleware.GetPrincipalFromContext(c)
	if _, ok := h.mustGet(c); !ok {
		return
	}
	id := c.Param("id")
	h.respondTransition(c, h.applications.StartVideoKYC(c.Request.Context(), id, principal.Subject),
		"Video KYC started", "KYC can only be started on an application whose KYC is pending")
}

// completeKYC godoc
// @Summary Complete the video-KYC session
// @Description Records the clerk's notes and moves the application to kyc_completed.
// @Tags kyc
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param notes body dto.CompleteKYCRequest false "Session notes"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Session assigned to another clerk"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "KYC not in progress"
// @Security BearerAuth
// @Router /clerk/applications/{id}/kyc/complete [post]
func (h *applicationHandler) completeKYC(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CompleteKYCRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	app, ok := h.mustGet(c)
	if !ok {
		return
	}

	principal, _ := middleware.GetPrincipalFromContext(c)
	if principal.Role != middleware.RoleAdmin && app.ClerkID != "" && app.ClerkID != principal.Subject {
		logger.Warn("Clerk tried to complete another clerk's session", slog.String("assigned_clerk", app.ClerkID))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "This KYC session is assigned to another clerk"})
		return
	}

	h.respondTransition(c, h.applications.CompleteKYC(c.Request.Context(), app.ID, req.Notes),
		"Video KYC completed", "KYC can only be completed while it is in progress")
}

// approveApplication godoc
// @Summary Approve an application
// @Description Issues the account number and opens the account with the initial deposit.
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param notes body dto.ApproveApplicationRequest false "Manager notes"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Application not awaiting review"
// @Security BearerAuth
// @Router /manager/applications/{id}/approve [post]
func (h *applicationHandler) approveApplication(c *gin.Context) {
	var req dto.ApproveApplicationRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	app, ok := h.mustGet(c)
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipalFromContext(c)
	h.respondTransition(c, h.applications.ApproveApplication(c.Request.Context(), app.ID, principal.Subject, req.Notes),
		"Application approved", "Only applications with completed KYC can be approved")
}

// rejectApplication godoc
// @Summary Reject an application
// @Tags review
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param reason body dto.RejectApplicationRequest true "Rejection reason"
// @Success 200 {object} dto.TransitionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Application not awaiting review"
// @Security BearerAuth
// @Router /manager/applications/{id}/reject [post]
func (h *applicationHandler) rejectApplication(c *gin.Context) {
	var req dto.RejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	app, ok := h.mustGet(c)
	if !ok {
		return
	}
	principal, _ := middleware.GetPrincipalFromContext(c)
	h.respondTransition(c, h.applications.RejectApplication(c.Request.Context(), app.ID, principal.Subject, req.Reason),
		"Application rejected", "Only applications with completed KYC can be rejected")
}

// mustGet loads the :id application or writes 404.
func (h *applicationHandler) mustGet(c *gin.Context) (*domain.Application, bool) {
	id := c.Param("id")
	app := h.applications.GetApplication(c.Request.Context(), id)
	if app == nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Application not found", slog.String("application_id", id))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Application not found"})
		return nil, false
	}
	return app, true
}

// respondTransition writes the refreshed application on success and 409 otherwise.
func (h *applicationHandler) respondTransition(c *gin.Context, ok bool, success, refused string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")
	if !ok {
		logger.Warn("Transition refused", slog.String("application_id", id), slog.String("reason", refused))
		c.JSON(http.StatusConflict, ErrorResponse{Error: refused})
		return
	}
	app := h.applications.GetApplication(c.Request.Context(), id)
	if app == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Application not found"})
		return
	}
	logger.Info(success, slog.String("application_id", id), slog.String("status", string(app.Status)))
	c.JSON(http.StatusOK, dto.TransitionResponse{Message: success, Application: dto.ToApplicationResponse(app)})
}

// bindOptionalJSON binds the body when one was sent; notes are optional.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(obj)
}
