package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkshopFinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 1000, 0, 1000},
		{"ten percent", 1000, 10, 900},
		{"half off", 500, 50, 250},
		{"free workshop", 0, 10, 0},
		{"full discount", 1200, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Workshop{Price: tt.price, Discount: tt.discount}
			assert.InDelta(t, tt.want, w.FinalPrice(), 0.001)
		})
	}
}

func TestWorkshopTotalFor(t *testing.T) {
	w := &Workshop{Price: 1000, Discount: 10}
	assert.InDelta(t, 1800, w.TotalFor(2), 0.001)
}

func TestWorkshopAmountInPaise(t *testing.T) {
	w := &Workshop{Price: 1000, Discount: 10}
	assert.Equal(t, int64(180000), w.AmountInPaise(2))

	// Rounding of fractional paise
	w = &Workshop{Price: 99.99, Discount: 0}
	assert.Equal(t, int64(9999), w.AmountInPaise(1))
}

func TestUserDisplayName(t *testing.T) {
	u := &User{Email: "a@b.c"}
	assert.Equal(t, "a@b.c", u.DisplayName())

	u.Name = "Asha"
	assert.Equal(t, "Asha", u.DisplayName())
}

func TestRegistrationIsCompleted(t *testing.T) {
	r := &Registration{Paid: true, PaymentStatus: PaymentStatusCompleted}
	assert.True(t, r.IsCompleted())

	r = &Registration{Paid: false, PaymentStatus: PaymentStatusPending}
	assert.False(t, r.IsCompleted())

	r = &Registration{Paid: true, PaymentStatus: PaymentStatusPending}
	assert.False(t, r.IsCompleted())
}
