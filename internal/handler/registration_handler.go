package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/middleware"
	"github.com/NTAravind/Eustress/internal/response"
	"github.com/NTAravind/Eustress/internal/service"
)

// RegistrationHandler handles booking HTTP requests
type RegistrationHandler struct {
	registrationService service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register handles POST /api/v1/workshops/:id/register, the pay-at-venue
// checkout path
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req dto.RegisterForWorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := c.GetString(middleware.ContextKeyUserID)
	reg, err := h.registrationService.Reserve(c.Request.Context(), userID, c.Param("id"), req.Quantity)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, dto.RegistrationFromDomain(reg))
}

// Get handles GET /api/v1/workshops/:id/registration
func (h *RegistrationHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	reg, err := h.registrationService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.RegistrationFromDomain(reg))
}

// Cancel handles DELETE /api/v1/workshops/:id/registration
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	userID := c.GetString(middleware.ContextKeyUserID)

	if err := h.registrationService.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "Registration cancelled"})
}
