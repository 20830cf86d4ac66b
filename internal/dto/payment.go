package dto

// CreateOrderRequest asks the gateway for a checkout order
type CreateOrderRequest struct {
	WorkshopID string `json:"workshop_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=10"`
}

// CreateOrderResponse carries what the checkout widget needs
type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"` // smallest currency unit
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// VerifyPaymentRequest is the gateway checkout callback payload
type VerifyPaymentRequest struct {
	OrderID    string `json:"razorpay_order_id" binding:"required"`
	PaymentID  string `json:"razorpay_payment_id" binding:"required"`
	Signature  string `json:"razorpay_signature" binding:"required"`
	WorkshopID string `json:"workshop_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=10"`
}

// VerifyPaymentResponse reports the completed registration
type VerifyPaymentResponse struct {
	Registration *RegistrationResponse `json:"registration"`
	Message      string                `json:"message"`
}
