package dto

import (
	"time"

	"github.com/NTAravind/Eustress/internal/domain"
)

// RegisterForWorkshopRequest represents a pay-at-venue registration
type RegisterForWorkshopRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=10"`
}

// RegistrationResponse represents a registration in API responses
type RegistrationResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	WorkshopID     string    `json:"workshop_id"`
	Seats          int       `json:"seats"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentStatus  string    `json:"payment_status"`
	Paid           bool      `json:"paid"`
	PricePaid      float64   `json:"price_paid"`
	PaymentID      string    `json:"payment_id,omitempty"`
	GatewayOrderID string    `json:"gateway_order_id,omitempty"`
	RegisteredAt   time.Time `json:"registered_at"`

	User     *UserResponse     `json:"user,omitempty"`
	Workshop *WorkshopResponse `json:"workshop,omitempty"`
}

// UpdatePaymentStatusRequest marks a pickup registration as collected,
// or corrects a payment record from the back office
type UpdatePaymentStatusRequest struct {
	Paid          *bool  `json:"paid,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty" binding:"omitempty,oneof=pending completed"`
	PaymentMethod string `json:"payment_method,omitempty" binding:"omitempty,oneof=razorpay pickup"`
}

// RegistrationFromDomain converts a domain Registration to a response
func RegistrationFromDomain(r *domain.Registration) *RegistrationResponse {
	resp := &RegistrationResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		WorkshopID:     r.WorkshopID,
		Seats:          r.Seats,
		PaymentMethod:  r.PaymentMethod,
		PaymentStatus:  r.PaymentStatus,
		Paid:           r.Paid,
		PricePaid:      r.PricePaid,
		PaymentID:      r.PaymentID,
		GatewayOrderID: r.GatewayOrderID,
		RegisteredAt:   r.RegisteredAt,
	}
	if r.User != nil {
		resp.User = &UserResponse{
			ID:    r.User.ID,
			Email: r.User.Email,
			Name:  r.User.Name,
			Phone: r.User.Phone,
			Role:  r.User.Role,
		}
	}
	if r.Workshop != nil {
		resp.Workshop = WorkshopFromDomain(r.Workshop)
	}
	return resp
}

// RegistrationsFromDomain converts a slice of registrations
func RegistrationsFromDomain(rs []*domain.Registration) []*RegistrationResponse {
	out := make([]*RegistrationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, RegistrationFromDomain(r))
	}
	return out
}
