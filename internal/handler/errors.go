package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/logger"
	"github.com/NTAravind/Eustress/internal/response"
)

// handleError maps domain errors onto the response envelope. Anything
// unrecognized is logged and reported as a 500.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrWorkshopNotFound):
		response.Error(c, http.StatusNotFound, "WORKSHOP_NOT_FOUND", "Workshop not found", "")
	case errors.Is(err, domain.ErrRegistrationNotFound):
		response.Error(c, http.StatusNotFound, "REGISTRATION_NOT_FOUND", "Registration not found", "")
	case errors.Is(err, domain.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found", "")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		response.Error(c, http.StatusConflict, "ALREADY_REGISTERED", "You are already registered for this workshop", "")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		response.Error(c, http.StatusConflict, "USER_EXISTS", "User with this email already exists", "")
	case errors.Is(err, domain.ErrInsufficientSeats):
		response.Error(c, http.StatusConflict, "INSUFFICIENT_SEATS", "Not enough seats available", "")
	case errors.Is(err, domain.ErrRegistrationClosed):
		response.Error(c, http.StatusConflict, "REGISTRATION_CLOSED", "Registration for this workshop is closed", "")
	case errors.Is(err, domain.ErrInvalidSignature):
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "Payment signature verification failed", "")
	case errors.Is(err, domain.ErrInvalidQuantity):
		response.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", "Seat quantity must be positive", "")
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", "")
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenExpired):
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token", "")
	default:
		logger.Get().Error("unhandled error", zap.Error(err), zap.String("path", c.FullPath()))
		response.InternalError(c, err)
	}
}
