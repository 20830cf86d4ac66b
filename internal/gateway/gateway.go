package gateway

import "context"

// OrderRequest asks the gateway to open an order for one checkout
type OrderRequest struct {
	// AmountPaise is the charge in the currency's smallest unit
	AmountPaise int64
	Currency    string
	Receipt     string
	Notes       map[string]string
}

// Order is the gateway's created order, handed to the client-side
// checkout widget
type Order struct {
	ID          string
	AmountPaise int64
	Currency    string
	Receipt     string
}

// PaymentGateway abstracts the payment provider. CreateOrder opens a
// server-side order; VerifySignature checks the callback the client
// posts after paying.
type PaymentGateway interface {
	Name() string
	CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
