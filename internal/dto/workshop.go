package dto

import (
	"time"

	"github.com/NTAravind/Eustress/internal/domain"
)

// WorkshopRequest represents admin create/update input.
// Mirrors the back-office form field rules.
type WorkshopRequest struct {
	Title       string    `json:"title" binding:"required,min=3"`
	Description string    `json:"description" binding:"required,min=10"`
	Date        time.Time `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
	Location    string    `json:"location" binding:"required,min=3"`
	TotalSeats  int       `json:"total_seats" binding:"required,min=1"`
	Price       float64   `json:"price" binding:"min=0"`
	Discount    float64   `json:"discount" binding:"min=0,max=100"`
	Thumbnail   string    `json:"thumbnail" binding:"omitempty,url"`
	IsOpen      *bool     `json:"is_open,omitempty"`
}

// WorkshopResponse represents a workshop in API responses
type WorkshopResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Date              time.Time `json:"date"`
	Time              string    `json:"time"`
	Location          string    `json:"location"`
	TotalSeats        int       `json:"total_seats"`
	AvailableSeats    int       `json:"available_seats"`
	Price             float64   `json:"price"`
	Discount          float64   `json:"discount"`
	FinalPrice        float64   `json:"final_price"`
	Thumbnail         string    `json:"thumbnail"`
	IsOpen            bool      `json:"is_open"`
	RegistrationCount int       `json:"registration_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// WorkshopFromDomain converts a domain Workshop to a WorkshopResponse
func WorkshopFromDomain(w *domain.Workshop) *WorkshopResponse {
	return &WorkshopResponse{
		ID:                w.ID,
		Title:             w.Title,
		Description:       w.Description,
		Date:              w.Date,
		Time:              w.Time,
		Location:          w.Location,
		TotalSeats:        w.TotalSeats,
		AvailableSeats:    w.AvailableSeats,
		Price:             w.Price,
		Discount:          w.Discount,
		FinalPrice:        w.FinalPrice(),
		Thumbnail:         w.Thumbnail,
		IsOpen:            w.IsOpen,
		RegistrationCount: w.RegistrationCount,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

// WorkshopsFromDomain converts a slice of workshops
func WorkshopsFromDomain(ws []*domain.Workshop) []*WorkshopResponse {
	out := make([]*WorkshopResponse, 0, len(ws))
	for _, w := range ws {
		out = append(out, WorkshopFromDomain(w))
	}
	return out
}
