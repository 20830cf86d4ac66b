package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/dto"
)

type mockWorkshopRepo struct {
	workshops []*domain.Workshop
}

func (m *mockWorkshopRepo) Create(ctx context.Context, w *domain.Workshop) error { return nil }
func (m *mockWorkshopRepo) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	return nil, domain.ErrWorkshopNotFound
}
func (m *mockWorkshopRepo) Update(ctx context.Context, w *domain.Workshop) error { return nil }
func (m *mockWorkshopRepo) ListOpen(ctx context.Context, after time.Time) ([]*domain.Workshop, error) {
	var out []*domain.Workshop
	for _, w := range m.workshops {
		if w.IsOpen && !w.Date.Before(after) {
			out = append(out, w)
		}
	}
	return out, nil
}
func (m *mockWorkshopRepo) ListAll(ctx context.Context) ([]*domain.Workshop, error) {
	return m.workshops, nil
}
func (m *mockWorkshopRepo) DeleteCascade(ctx context.Context, id string) error { return nil }
func (m *mockWorkshopRepo) Count(ctx context.Context) (int, int, error)       { return 0, 0, nil }

type mockNotifier struct {
	reminded []string
}

func (m *mockNotifier) SendReminders(ctx context.Context, req *dto.SendReminderRequest) (*dto.DispatchResponse, error) {
	m.reminded = append(m.reminded, req.WorkshopID)
	return &dto.DispatchResponse{Successful: 1, Total: 1}, nil
}

func (m *mockNotifier) CancelWorkshop(ctx context.Context, workshopID string) (*dto.DispatchResponse, error) {
	return &dto.DispatchResponse{}, nil
}

func (m *mockNotifier) Announce(ctx context.Context, workshopID string) (*dto.DispatchResponse, error) {
	return &dto.DispatchResponse{}, nil
}

func TestReminderRun_OnlyTomorrowsWorkshops(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Truncate(24 * time.Hour).Add(10 * time.Hour)
	repo := &mockWorkshopRepo{workshops: []*domain.Workshop{
		{ID: "w-tomorrow", Title: "Pottery", Date: tomorrow, IsOpen: true},
		{ID: "w-next-week", Title: "Weaving", Date: tomorrow.AddDate(0, 0, 6), IsOpen: true},
		{ID: "w-closed", Title: "Carving", Date: tomorrow, IsOpen: false},
	}}
	notifier := &mockNotifier{}

	w := NewReminderWorker(repo, notifier, ReminderWorkerConfig{})
	w.run()

	assert.Equal(t, []string{"w-tomorrow"}, notifier.reminded)
}

func TestReminderRun_NothingDue(t *testing.T) {
	repo := &mockWorkshopRepo{workshops: []*domain.Workshop{
		{ID: "w-past", Title: "Pottery", Date: time.Now().AddDate(0, 0, -2), IsOpen: true},
	}}
	notifier := &mockNotifier{}

	w := NewReminderWorker(repo, notifier, ReminderWorkerConfig{})
	w.run()

	assert.Empty(t, notifier.reminded)
}
