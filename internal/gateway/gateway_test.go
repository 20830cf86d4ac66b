package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyHMAC(t *testing.T) {
	const secret = "test-secret"

	g := NewMockGateway(secret)
	sig := g.Sign("order_abc", "pay_xyz")

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
		want      bool
	}{
		{
			name:      "valid signature",
			orderID:   "order_abc",
			paymentID: "pay_xyz",
			signature: sig,
			want:      true,
		},
		{
			name:      "wrong order id",
			orderID:   "order_other",
			paymentID: "pay_xyz",
			signature: sig,
			want:      false,
		},
		{
			name:      "wrong payment id",
			orderID:   "order_abc",
			paymentID: "pay_other",
			signature: sig,
			want:      false,
		},
		{
			name:      "tampered signature",
			orderID:   "order_abc",
			paymentID: "pay_xyz",
			signature: sig[:len(sig)-1] + "0",
			want:      false,
		},
		{
			name:      "empty signature",
			orderID:   "order_abc",
			paymentID: "pay_xyz",
			signature: "",
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := verifyHMAC(secret, tt.orderID, tt.paymentID, tt.signature)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyHMAC_WrongSecret(t *testing.T) {
	g := NewMockGateway("secret-a")
	sig := g.Sign("order_abc", "pay_xyz")

	other := NewMockGateway("secret-b")
	assert.False(t, other.VerifySignature("order_abc", "pay_xyz", sig))
}

func TestMockGateway_CreateOrder(t *testing.T) {
	g := NewMockGateway("test-secret")

	order, err := g.CreateOrder(context.Background(), &OrderRequest{
		AmountPaise: 180000,
		Currency:    "INR",
		Receipt:     "ws-1724800000000",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, int64(180000), order.AmountPaise)
	assert.Equal(t, "INR", order.Currency)

	stored, ok := g.Order(order.ID)
	require.True(t, ok)
	assert.Equal(t, order.Receipt, stored.Receipt)
}

func TestMockGateway_CreateOrder_InvalidAmount(t *testing.T) {
	g := NewMockGateway("test-secret")

	_, err := g.CreateOrder(context.Background(), &OrderRequest{
		AmountPaise: 0,
		Currency:    "INR",
	})
	assert.Error(t, err)
}
