package domain

import "time"

// Payment methods
const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodPickup   = "pickup" // pay at venue
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// Registration is a user's booking against a workshop, unique per
// (user, workshop) pair.
type Registration struct {
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

	// Populated on admin detail views
	User     *User     `json:"user,omitempty"`
	Workshop *Workshop `json:"workshop,omitempty"`
}

// IsCompleted reports whether the registration has a settled payment
func (r *Registration) IsCompleted() bool {
	return r.Paid && r.PaymentStatus == PaymentStatusCompleted
}
