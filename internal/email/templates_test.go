package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTAravind/Eustress/internal/domain"
)

func testWorkshop() *domain.Workshop {
	return &domain.Workshop{
		ID:       "w1",
		Title:    "Wheel Throwing Basics",
		Date:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		Time:     "10:00 AM",
		Location: "Eustress Studio, Bengaluru",
		Price:    1000,
		Discount: 10,
	}
}

func testRegistration() *domain.Registration {
	return &domain.Registration{
		ID:    "r1",
		Seats: 2,
		User: &domain.User{
			Email: "asha@example.com",
			Name:  "Asha",
		},
	}
}

func TestReminderMessage(t *testing.T) {
	msg, err := ReminderMessage(testRegistration(), testWorkshop())
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Wheel Throwing Basics")
	assert.Contains(t, msg.HTML, "Asha")
	assert.Contains(t, msg.HTML, "Monday, 1 September 2025")
	assert.Contains(t, msg.HTML, "10:00 AM")
	assert.Contains(t, msg.Text, "2 seat(s)")
}

func TestCancellationMessage(t *testing.T) {
	msg, err := CancellationMessage(testRegistration(), testWorkshop())
	require.NoError(t, err)

	assert.Contains(t, msg.Subject, "Cancelled")
	assert.Contains(t, msg.HTML, "Wheel Throwing Basics")
	assert.Contains(t, msg.HTML, "refunded")
}

func TestAnnouncementMessage(t *testing.T) {
	user := &domain.User{Email: "ravi@example.com", Name: "Ravi"}

	msg, err := AnnouncementMessage(user, testWorkshop(), "https://eustress.in/workshops")
	require.NoError(t, err)

	assert.Equal(t, "ravi@example.com", msg.To)
	assert.Contains(t, msg.HTML, "https://eustress.in/workshops")
	assert.Contains(t, msg.HTML, "900")
	assert.Contains(t, msg.Text, "Ravi")
}

func TestAnnouncementMessage_NoDiscount(t *testing.T) {
	w := testWorkshop()
	w.Discount = 0

	msg, err := AnnouncementMessage(&domain.User{Email: "x@example.com"}, w, "https://eustress.in")
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "% off")
}
