package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/NTAravind/Eustress/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// longDate renders the workshop date the way it appears in emails,
// e.g. "Monday, 1 September 2025"
func longDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}

type reminderData struct {
	Name          string
	WorkshopTitle string
	Date          string
	Time          string
	Location      string
	Seats         int
}

type cancellationData struct {
	Name          string
	WorkshopTitle string
	Date          string
}

type announcementData struct {
	Name          string
	WorkshopTitle string
	Date          string
	Time          string
	Location      string
	Price         float64
	FinalPrice    float64
	Discount      float64
	CatalogURL    string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

// ReminderMessage builds the workshop reminder email for one registrant
func ReminderMessage(reg *domain.Registration, w *domain.Workshop) (*Message, error) {
	html, err := render("reminder.html", reminderData{
		Name:          reg.User.DisplayName(),
		WorkshopTitle: w.Title,
		Date:          longDate(w.Date),
		Time:          w.Time,
		Location:      w.Location,
		Seats:         reg.Seats,
	})
	if err != nil {
		return nil, err
	}

	return &Message{
		To:      reg.User.Email,
		Subject: fmt.Sprintf("Reminder: %s is coming up", w.Title),
		HTML:    html,
		Text: fmt.Sprintf(
			"Hi %s, a reminder that %s is on %s at %s, %s. You have %d seat(s) reserved.",
			reg.User.DisplayName(), w.Title, longDate(w.Date), w.Time, w.Location, reg.Seats,
		),
	}, nil
}

// CancellationMessage builds the workshop-cancelled email for one registrant
func CancellationMessage(reg *domain.Registration, w *domain.Workshop) (*Message, error) {
	html, err := render("cancellation.html", cancellationData{
		Name:          reg.User.DisplayName(),
		WorkshopTitle: w.Title,
		Date:          longDate(w.Date),
	})
	if err != nil {
		return nil, err
	}

	return &Message{
		To:      reg.User.Email,
		Subject: fmt.Sprintf("Cancelled: %s", w.Title),
		HTML:    html,
		Text: fmt.Sprintf(
			"Hi %s, we are sorry to let you know that %s (%s) has been cancelled. Paid amounts will be refunded.",
			reg.User.DisplayName(), w.Title, longDate(w.Date),
		),
	}, nil
}

// AnnouncementMessage builds the new-workshop announcement for one user
func AnnouncementMessage(user *domain.User, w *domain.Workshop, catalogURL string) (*Message, error) {
	html, err := render("announcement.html", announcementData{
		Name:          user.DisplayName(),
		WorkshopTitle: w.Title,
		Date:          longDate(w.Date),
		Time:          w.Time,
		Location:      w.Location,
		Price:         w.Price,
		FinalPrice:    w.FinalPrice(),
		Discount:      w.Discount,
		CatalogURL:    catalogURL,
	})
	if err != nil {
		return nil, err
	}

	return &Message{
		To:      user.Email,
		Subject: fmt.Sprintf("New workshop: %s", w.Title),
		HTML:    html,
		Text: fmt.Sprintf(
			"Hi %s, a new workshop %s is open for registration on %s at %s, %s. Book your seats at %s.",
			user.DisplayName(), w.Title, longDate(w.Date), w.Time, w.Location, catalogURL,
		),
	}, nil
}
