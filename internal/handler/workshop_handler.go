package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/response"
	"github.com/NTAravind/Eustress/internal/service"
)

// WorkshopHandler handles catalog and back-office workshop requests
type WorkshopHandler struct {
	workshopService service.WorkshopService
}

// NewWorkshopHandler creates a new WorkshopHandler
func NewWorkshopHandler(workshopService service.WorkshopService) *WorkshopHandler {
	return &WorkshopHandler{workshopService: workshopService}
}

// Catalog handles GET /api/v1/workshops
func (h *WorkshopHandler) Catalog(c *gin.Context) {
	workshops, err := h.workshopService.Catalog(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.WorkshopsFromDomain(workshops))
}

// Get handles GET /api/v1/workshops/:id
func (h *WorkshopHandler) Get(c *gin.Context) {
	w, err := h.workshopService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.WorkshopFromDomain(w))
}

// ListAll handles GET /api/v1/admin/workshops
func (h *WorkshopHandler) ListAll(c *gin.Context) {
	workshops, err := h.workshopService.ListAll(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.WorkshopsFromDomain(workshops))
}

// Create handles POST /api/v1/admin/workshops
func (h *WorkshopHandler) Create(c *gin.Context) {
	var req dto.WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	w, err := h.workshopService.Create(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, dto.WorkshopFromDomain(w))
}

// Update handles PUT /api/v1/admin/workshops/:id
func (h *WorkshopHandler) Update(c *gin.Context) {
	var req dto.WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	w, err := h.workshopService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dto.WorkshopFromDomain(w))
}
