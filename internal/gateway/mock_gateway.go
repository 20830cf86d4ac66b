package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"
)

// MockGateway implements PaymentGateway for tests and local development.
// It issues deterministic order IDs and signs callbacks with the same
// HMAC scheme the real gateway uses, so verification paths are exercised
// end to end.
type MockGateway struct {
	secret  string
	counter atomic.Int64

	mu     sync.Mutex
	orders map[string]*Order
}

// NewMockGateway creates a new mock gateway with the given signing secret
func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{
		secret: secret,
		orders: make(map[string]*Order),
	}
}

// Name returns the gateway identifier
func (g *MockGateway) Name() string {
	return "mock"
}

// CreateOrder records and returns a deterministic order
func (g *MockGateway) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	if req.AmountPaise <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	order := &Order{
		ID:          fmt.Sprintf("order_mock_%06d", g.counter.Add(1)),
		AmountPaise: req.AmountPaise,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
	}

	g.mu.Lock()
	g.orders[order.ID] = order
	g.mu.Unlock()

	return order, nil
}

// VerifySignature checks the signature with the mock's secret
func (g *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(g.secret, orderID, paymentID, signature)
}

// Sign produces a valid callback signature, for tests
func (g *MockGateway) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Order returns a previously created order, for tests
func (g *MockGateway) Order(id string) (*Order, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	order, ok := g.orders[id]
	return order, ok
}
