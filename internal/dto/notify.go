package dto

// SendReminderRequest triggers reminder emails for a workshop.
// When RegistrationIDs is empty, all paid/completed registrations of the
// workshop are targeted.
type SendReminderRequest struct {
	WorkshopID      string   `json:"workshop_id" binding:"required"`
	RegistrationIDs []string `json:"registration_ids,omitempty"`
}

// CancelWorkshopRequest triggers workshop cancellation
type CancelWorkshopRequest struct {
	WorkshopID string `json:"workshop_id" binding:"required"`
}

// AnnounceWorkshopRequest triggers a new-workshop announcement
type AnnounceWorkshopRequest struct {
	WorkshopID string `json:"workshop_id" binding:"required"`
}

// FailedRecipient records one undeliverable address
type FailedRecipient struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// DispatchResponse reports the outcome of a bulk email dispatch
type DispatchResponse struct {
	Message       string            `json:"message"`
	Successful    int               `json:"successful"`
	Total         int               `json:"total"`
	WorkshopTitle string            `json:"workshop_title,omitempty"`
	Failed        []FailedRecipient `json:"failed,omitempty"`
}

// UploadRequest carries a base64 image to be published
type UploadRequest struct {
	Filename string `json:"filename" binding:"required"`
	Content  string `json:"content" binding:"required"` // base64-encoded bytes
}

// UploadResponse returns the public URL of the stored image
type UploadResponse struct {
	URL string `json:"url"`
}

// StatsResponse summarizes the back-office dashboard
type StatsResponse struct {
	Workshops     int     `json:"workshops"`
	OpenWorkshops int     `json:"open_workshops"`
	Users         int     `json:"users"`
	Registrations int     `json:"registrations"`
	SeatsBooked   int     `json:"seats_booked"`
	Revenue       float64 `json:"revenue"` // sum of completed price_paid
}
