package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/middleware"
	"github.com/NTAravind/Eustress/internal/response"
	"github.com/NTAravind/Eustress/internal/service"
)

// PaymentHandler handles online checkout HTTP requests
type PaymentHandler struct {
	registrationService service.RegistrationService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(registrationService service.RegistrationService) *PaymentHandler {
	return &PaymentHandler{registrationService: registrationService}
}

// CreateOrder handles POST /api/v1/payments/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := c.GetString(middleware.ContextKeyUserID)
	resp, err := h.registrationService.CreateOrder(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, resp)
}

// Verify handles POST /api/v1/payments/verify. On a valid signature the
// seats are reserved as paid; on a bad one nothing changes.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := c.GetString(middleware.ContextKeyUserID)
	reg, err := h.registrationService.VerifyAndReserve(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, &dto.VerifyPaymentResponse{
		Registration: dto.RegistrationFromDomain(reg),
		Message:      "Payment verified and seats reserved",
	})
}
