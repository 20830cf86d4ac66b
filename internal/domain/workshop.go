package domain

import (
	"math"
	"time"
)

// Workshop is a bookable coaching event with finite seat capacity.
// AvailableSeats is a stored counter kept inside 0..TotalSeats by the
// registration transaction and a database CHECK constraint.
type Workshop struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"` // display time, e.g. "10:00 AM"
	Location       string    `json:"location"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Price          float64   `json:"price"`
	Discount       float64   `json:"discount"` // percentage, 0..100
	Thumbnail      string    `json:"thumbnail"`
	IsOpen         bool      `json:"is_open"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// RegistrationCount is populated on listings, not stored
	RegistrationCount int `json:"registration_count,omitempty"`
}

// FinalPrice returns the per-seat price after discount
func (w *Workshop) FinalPrice() float64 {
	return w.Price - (w.Price*w.Discount)/100
}

// TotalFor returns the amount due for the given seat quantity
func (w *Workshop) TotalFor(quantity int) float64 {
	return w.FinalPrice() * float64(quantity)
}

// AmountInPaise returns the gateway amount for the given quantity in the
// smallest currency unit
func (w *Workshop) AmountInPaise(quantity int) int64 {
	return int64(math.Round(w.TotalFor(quantity) * 100))
}
