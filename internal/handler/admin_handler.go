package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/response"
	"github.com/NTAravind/Eustress/internal/service"
	"github.com/NTAravind/Eustress/internal/upload"
)

// AdminHandler handles back-office HTTP requests
type AdminHandler struct {
	adminService        service.AdminService
	registrationService service.RegistrationService
	notificationService service.NotificationService
	uploader            upload.Uploader
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	adminService service.AdminService,
	registrationService service.RegistrationService,
	notificationService service.NotificationService,
	uploader upload.Uploader,
) *AdminHandler {
	return &AdminHandler{
		adminService:        adminService,
		registrationService: registrationService,
		notificationService: notificationService,
		uploader:            uploader,
	}
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, &dto.UserResponse{
			ID:                u.ID,
			Email:             u.Email,
			Name:              u.Name,
			Phone:             u.Phone,
			Role:              u.Role,
			RegistrationCount: u.RegistrationCount,
		})
	}
	response.Success(c, out)
}

// GetUser handles GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.adminService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, &dto.UserResponse{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		Phone:             user.Phone,
		Role:              user.Role,
		RegistrationCount: user.RegistrationCount,
	})
}

// ListRegistrations handles GET /api/v1/admin/registrations
func (h *AdminHandler) ListRegistrations(c *gin.Context) {
	regs, err := h.registrationService.ListAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.RegistrationsFromDomain(regs))
}

// GetRegistration handles GET /api/v1/admin/registrations/:id
func (h *AdminHandler) GetRegistration(c *gin.Context) {
	reg, err := h.registrationService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.RegistrationFromDomain(reg))
}

// ListWorkshopRegistrations handles GET /api/v1/admin/workshops/:id/registrations
func (h *AdminHandler) ListWorkshopRegistrations(c *gin.Context) {
	regs, err := h.registrationService.ListByWorkshop(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.RegistrationsFromDomain(regs))
}

// UpdatePayment handles PATCH /api/v1/admin/registrations/:id/payment,
// e.g. marking a pay-at-venue registration as collected
func (h *AdminHandler) UpdatePayment(c *gin.Context) {
	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	reg, err := h.registrationService.UpdatePayment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.RegistrationFromDomain(reg))
}

// Stats handles GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, stats)
}

// SendReminders handles POST /api/v1/admin/notifications/reminder
func (h *AdminHandler) SendReminders(c *gin.Context) {
	var req dto.SendReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.notificationService.SendReminders(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}

// CancelWorkshop handles POST /api/v1/admin/notifications/cancel-workshop.
// The workshop and its registrations are deleted, then the paid
// registrants are emailed.
func (h *AdminHandler) CancelWorkshop(c *gin.Context) {
	var req dto.CancelWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.notificationService.CancelWorkshop(c.Request.Context(), req.WorkshopID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}

// DeleteWorkshop handles DELETE /api/v1/admin/workshops/:id, the same
// cancellation flow addressed by path
func (h *AdminHandler) DeleteWorkshop(c *gin.Context) {
	resp, err := h.notificationService.CancelWorkshop(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}

// Announce handles POST /api/v1/admin/notifications/announce
func (h *AdminHandler) Announce(c *gin.Context) {
	var req dto.AnnounceWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.notificationService.Announce(c.Request.Context(), req.WorkshopID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, resp)
}

// Upload handles POST /api/v1/admin/uploads
func (h *AdminHandler) Upload(c *gin.Context) {
	if h.uploader == nil {
		response.Error(c, http.StatusServiceUnavailable, "UPLOAD_DISABLED", "image uploads are not configured", "")
		return
	}

	var req dto.UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	url, err := h.uploader.Upload(c.Request.Context(), req.Filename, req.Content)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, &dto.UploadResponse{URL: url})
}
