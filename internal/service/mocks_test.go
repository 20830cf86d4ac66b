package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/repository"
)

// MockUserRepository is an in-memory implementation of UserRepository
type MockUserRepository struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	createErr error
	listErr   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if domain.IsNotFoundError(err) {
		return false, nil
	}
	return false, err
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return m.ListAll(ctx)
}

func (m *MockUserRepository) ListAll(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	users := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

// MockWorkshopRepository is an in-memory implementation of WorkshopRepository
type MockWorkshopRepository struct {
	mu        sync.Mutex
	workshops map[string]*domain.Workshop
	createErr error
	updateErr error
	deleteErr error
}

func NewMockWorkshopRepository() *MockWorkshopRepository {
	return &MockWorkshopRepository{workshops: make(map[string]*domain.Workshop)}
}

func (m *MockWorkshopRepository) Create(ctx context.Context, w *domain.Workshop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.workshops[w.ID] = w
	return nil
}

func (m *MockWorkshopRepository) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workshops[id]
	if !ok {
		return nil, domain.ErrWorkshopNotFound
	}
	return w, nil
}

func (m *MockWorkshopRepository) Update(ctx context.Context, w *domain.Workshop) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.workshops[w.ID]; !ok {
		return domain.ErrWorkshopNotFound
	}
	m.workshops[w.ID] = w
	return nil
}

func (m *MockWorkshopRepository) ListOpen(ctx context.Context, after time.Time) ([]*domain.Workshop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Workshop
	for _, w := range m.workshops {
		if w.IsOpen && !w.Date.Before(after) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MockWorkshopRepository) ListAll(ctx context.Context) ([]*domain.Workshop, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Workshop, 0, len(m.workshops))
	for _, w := range m.workshops {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MockWorkshopRepository) DeleteCascade(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.workshops[id]; !ok {
		return domain.ErrWorkshopNotFound
	}
	delete(m.workshops, id)
	return nil
}

func (m *MockWorkshopRepository) Count(ctx context.Context) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	open := 0
	for _, w := range m.workshops {
		if w.IsOpen {
			open++
		}
	}
	return len(m.workshops), open, nil
}

// MockRegistrationRepository is an in-memory implementation of
// RegistrationRepository sharing seat state with a MockWorkshopRepository
type MockRegistrationRepository struct {
	mu            sync.Mutex
	registrations map[string]*domain.Registration
	workshops     *MockWorkshopRepository
	reserveErr    error
}

func NewMockRegistrationRepository(workshops *MockWorkshopRepository) *MockRegistrationRepository {
	return &MockRegistrationRepository{
		registrations: make(map[string]*domain.Registration),
		workshops:     workshops,
	}
}

func (m *MockRegistrationRepository) Reserve(ctx context.Context, reg *domain.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reserveErr != nil {
		return m.reserveErr
	}

	m.workshops.mu.Lock()
	defer m.workshops.mu.Unlock()
	w, ok := m.workshops.workshops[reg.WorkshopID]
	if !ok {
		return domain.ErrWorkshopNotFound
	}
	if !w.IsOpen {
		return domain.ErrRegistrationClosed
	}
	if w.AvailableSeats < reg.Seats {
		return domain.ErrInsufficientSeats
	}
	for _, r := range m.registrations {
		if r.UserID == reg.UserID && r.WorkshopID == reg.WorkshopID {
			return domain.ErrAlreadyRegistered
		}
	}

	w.AvailableSeats -= reg.Seats
	m.registrations[reg.ID] = reg
	return nil
}

func (m *MockRegistrationRepository) Cancel(ctx context.Context, userID, workshopID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.registrations {
		if r.UserID == userID && r.WorkshopID == workshopID {
			delete(m.registrations, id)
			m.workshops.mu.Lock()
			if w, ok := m.workshops.workshops[workshopID]; ok {
				w.AvailableSeats += r.Seats
				if w.AvailableSeats > w.TotalSeats {
					w.AvailableSeats = w.TotalSeats
				}
			}
			m.workshops.mu.Unlock()
			return nil
		}
	}
	return domain.ErrRegistrationNotFound
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.registrations[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	return r, nil
}

func (m *MockRegistrationRepository) GetByUserAndWorkshop(ctx context.Context, userID, workshopID string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.registrations {
		if r.UserID == userID && r.WorkshopID == workshopID {
			return r, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (m *MockRegistrationRepository) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Registration, 0, len(m.registrations))
	for _, r := range m.registrations {
		out = append(out, r)
	}
	return out, nil
}

func (m *MockRegistrationRepository) ListByWorkshop(ctx context.Context, workshopID string, onlyCompleted bool) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Registration
	for _, r := range m.registrations {
		if r.WorkshopID != workshopID {
			continue
		}
		if onlyCompleted && !r.IsCompleted() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *MockRegistrationRepository) ListByIDs(ctx context.Context, workshopID string, ids []string) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Registration
	for _, id := range ids {
		if r, ok := m.registrations[id]; ok && r.WorkshopID == workshopID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRegistrationRepository) UpdatePayment(ctx context.Context, id string, paid *bool, status, method string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.registrations[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	if paid != nil {
		r.Paid = *paid
	}
	if status != "" {
		r.PaymentStatus = status
	}
	if method != "" {
		r.PaymentMethod = method
	}
	return r, nil
}

func (m *MockRegistrationRepository) Stats(ctx context.Context) (*repository.RegistrationStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repository.RegistrationStats{}
	for _, r := range m.registrations {
		stats.Registrations++
		stats.SeatsBooked += r.Seats
		if r.IsCompleted() {
			stats.Revenue += r.PricePaid
		}
	}
	return stats, nil
}

// MockCatalogCache is an in-memory implementation of CatalogCache
type MockCatalogCache struct {
	mu           sync.Mutex
	cached       []*domain.Workshop
	has          bool
	Invalidation int
}

func NewMockCatalogCache() *MockCatalogCache {
	return &MockCatalogCache{}
}

func (c *MockCatalogCache) Get(ctx context.Context) ([]*domain.Workshop, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cached, c.has
}

func (c *MockCatalogCache) Set(ctx context.Context, workshops []*domain.Workshop) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = workshops
	c.has = true
	return nil
}

func (c *MockCatalogCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.has = false
	c.Invalidation++
	return nil
}
