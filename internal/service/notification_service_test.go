package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/email"
)

type notificationFixture struct {
	svc       NotificationService
	users     *MockUserRepository
	workshops *MockWorkshopRepository
	regs      *MockRegistrationRepository
	mailer    *email.MockMailer
	cache     *MockCatalogCache
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	users := NewMockUserRepository()
	workshops := NewMockWorkshopRepository()
	regs := NewMockRegistrationRepository(workshops)
	mailer := email.NewMockMailer()
	cache := NewMockCatalogCache()

	svc := NewNotificationService(regs, workshops, users, mailer, NewNoOpEventPublisher(), cache, &NotificationServiceConfig{
		CatalogURL: "https://eustress.in/workshops",
	})
	return &notificationFixture{svc: svc, users: users, workshops: workshops, regs: regs, mailer: mailer, cache: cache}
}

func (f *notificationFixture) addCompletedRegistration(t *testing.T, id, userID, email string, workshopID string) *domain.Registration {
	t.Helper()
	reg := &domain.Registration{
		ID:            id,
		UserID:        userID,
		WorkshopID:    workshopID,
		Seats:         1,
		PaymentMethod: domain.PaymentMethodRazorpay,
		PaymentStatus: domain.PaymentStatusCompleted,
		Paid:          true,
		User:          &domain.User{ID: userID, Email: email, Name: "User " + userID},
	}
	require.NoError(t, f.regs.Reserve(context.Background(), reg))
	return reg
}

func TestCancelWorkshop_NotifiesPaidRegistrants(t *testing.T) {
	f := newNotificationFixture(t)
	w := newTestWorkshop("w1", 10)
	require.NoError(t, f.workshops.Create(context.Background(), w))

	f.addCompletedRegistration(t, "r1", "u1", "a@example.com", "w1")
	f.addCompletedRegistration(t, "r2", "u2", "b@example.com", "w1")
	f.addCompletedRegistration(t, "r3", "u3", "c@example.com", "w1")

	// pending pickup registrant gets no email
	require.NoError(t, f.regs.Reserve(context.Background(), &domain.Registration{
		ID: "r4", UserID: "u4", WorkshopID: "w1", Seats: 1,
		PaymentMethod: domain.PaymentMethodPickup,
		PaymentStatus: domain.PaymentStatusPending,
		User:          &domain.User{ID: "u4", Email: "d@example.com"},
	}))

	resp, err := f.svc.CancelWorkshop(context.Background(), "w1")
	require.NoError(t, err)

	assert.Equal(t, "Workshop cancelled", resp.Message)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 3, resp.Successful)
	assert.Equal(t, "Wheel Throwing Basics", resp.WorkshopTitle)
	assert.Equal(t, 3, f.mailer.Count())
	assert.True(t, f.mailer.SentTo("a@example.com"))
	assert.False(t, f.mailer.SentTo("d@example.com"))

	// workshop and registrations are gone
	_, err = f.workshops.GetByID(context.Background(), "w1")
	assert.ErrorIs(t, err, domain.ErrWorkshopNotFound)
}

func TestCancelWorkshop_TalliesFailures(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.workshops.Create(context.Background(), newTestWorkshop("w1", 10)))

	f.addCompletedRegistration(t, "r1", "u1", "a@example.com", "w1")
	f.addCompletedRegistration(t, "r2", "u2", "b@example.com", "w1")
	f.mailer.FailFor["b@example.com"] = true

	resp, err := f.svc.CancelWorkshop(context.Background(), "w1")
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Successful)
	require.Len(t, resp.Failed, 1)
	assert.Equal(t, "b@example.com", resp.Failed[0].Email)
}

func TestCancelWorkshop_Unknown(t *testing.T) {
	f := newNotificationFixture(t)

	_, err := f.svc.CancelWorkshop(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrWorkshopNotFound)
}

func TestSendReminders_AllCompleted(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.workshops.Create(context.Background(), newTestWorkshop("w1", 10)))

	f.addCompletedRegistration(t, "r1", "u1", "a@example.com", "w1")
	f.addCompletedRegistration(t, "r2", "u2", "b@example.com", "w1")

	resp, err := f.svc.SendReminders(context.Background(), &dto.SendReminderRequest{WorkshopID: "w1"})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Successful)
	assert.Equal(t, 2, f.mailer.Count())
}

func TestSendReminders_SpecificRegistrations(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.workshops.Create(context.Background(), newTestWorkshop("w1", 10)))

	f.addCompletedRegistration(t, "r1", "u1", "a@example.com", "w1")
	f.addCompletedRegistration(t, "r2", "u2", "b@example.com", "w1")

	resp, err := f.svc.SendReminders(context.Background(), &dto.SendReminderRequest{
		WorkshopID:      "w1",
		RegistrationIDs: []string{"r2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total)
	assert.True(t, f.mailer.SentTo("b@example.com"))
	assert.False(t, f.mailer.SentTo("a@example.com"))
}

func TestAnnounce_EmailsEveryAccount(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.workshops.Create(context.Background(), newTestWorkshop("w1", 10)))

	for _, u := range []*domain.User{
		{ID: "u1", Email: "a@example.com", Name: "A"},
		{ID: "u2", Email: "b@example.com", Name: "B"},
	} {
		require.NoError(t, f.users.Create(context.Background(), u))
	}

	resp, err := f.svc.Announce(context.Background(), "w1")
	require.NoError(t, err)

	assert.Equal(t, "Announcement sent", resp.Message)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Successful)
}

func TestAnnounce_NoAccounts(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.workshops.Create(context.Background(), newTestWorkshop("w1", 10)))

	resp, err := f.svc.Announce(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 0, resp.Successful)
}
