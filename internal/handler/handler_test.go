package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTAravind/Eustress/internal/domain"
	"github.com/NTAravind/Eustress/internal/dto"
	"github.com/NTAravind/Eustress/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockRegistrationService is a mock implementation of RegistrationService
type MockRegistrationService struct {
	registrations map[string]*domain.Registration
	workshopSeats map[string]int
	reserveErr    error
}

func NewMockRegistrationService() *MockRegistrationService {
	return &MockRegistrationService{
		registrations: make(map[string]*domain.Registration),
		workshopSeats: map[string]int{"w1": 10},
	}
}

func (m *MockRegistrationService) key(userID, workshopID string) string {
	return userID + "/" + workshopID
}

func (m *MockRegistrationService) Reserve(ctx context.Context, userID, workshopID string, quantity int) (*domain.Registration, error) {
	if m.reserveErr != nil {
		return nil, m.reserveErr
	}
	seats, ok := m.workshopSeats[workshopID]
	if !ok {
		return nil, domain.ErrWorkshopNotFound
	}
	if seats < quantity {
		return nil, domain.ErrInsufficientSeats
	}
	if _, dup := m.registrations[m.key(userID, workshopID)]; dup {
		return nil, domain.ErrAlreadyRegistered
	}
	reg := &domain.Registration{
		ID:            "r1",
		UserID:        userID,
		WorkshopID:    workshopID,
		Seats:         quantity,
		PaymentMethod: domain.PaymentMethodPickup,
		PaymentStatus: domain.PaymentStatusPending,
		PricePaid:     900 * float64(quantity),
		RegisteredAt:  time.Now(),
	}
	m.workshopSeats[workshopID] -= quantity
	m.registrations[m.key(userID, workshopID)] = reg
	return reg, nil
}

func (m *MockRegistrationService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	if _, ok := m.workshopSeats[req.WorkshopID]; !ok {
		return nil, domain.ErrWorkshopNotFound
	}
	return &dto.CreateOrderResponse{
		OrderID:  "order_123",
		Amount:   int64(90000 * req.Quantity),
		Currency: "INR",
		KeyID:    "rzp_test_key",
	}, nil
}

func (m *MockRegistrationService) VerifyAndReserve(ctx context.Context, userID string, req *dto.VerifyPaymentRequest) (*domain.Registration, error) {
	if req.Signature != "valid" {
		return nil, domain.ErrInvalidSignature
	}
	reg, err := m.Reserve(ctx, userID, req.WorkshopID, req.Quantity)
	if err != nil {
		return nil, err
	}
	reg.PaymentMethod = domain.PaymentMethodRazorpay
	reg.PaymentStatus = domain.PaymentStatusCompleted
	reg.Paid = true
	reg.PaymentID = req.PaymentID
	reg.GatewayOrderID = req.OrderID
	return reg, nil
}

func (m *MockRegistrationService) Cancel(ctx context.Context, userID, workshopID string) error {
	if reg, ok := m.registrations[m.key(userID, workshopID)]; ok {
		m.workshopSeats[workshopID] += reg.Seats
		delete(m.registrations, m.key(userID, workshopID))
		return nil
	}
	return domain.ErrRegistrationNotFound
}

func (m *MockRegistrationService) Get(ctx context.Context, userID, workshopID string) (*domain.Registration, error) {
	if reg, ok := m.registrations[m.key(userID, workshopID)]; ok {
		return reg, nil
	}
	return nil, domain.ErrRegistrationNotFound
}

func (m *MockRegistrationService) ListAll(ctx context.Context) ([]*domain.Registration, error) {
	var out []*domain.Registration
	for _, r := range m.registrations {
		out = append(out, r)
	}
	return out, nil
}

func (m *MockRegistrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	for _, r := range m.registrations {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (m *MockRegistrationService) ListByWorkshop(ctx context.Context, workshopID string) ([]*domain.Registration, error) {
	var out []*domain.Registration
	for _, r := range m.registrations {
		if r.WorkshopID == workshopID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRegistrationService) UpdatePayment(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest) (*domain.Registration, error) {
	for _, r := range m.registrations {
		if r.ID == id {
			if req.Paid != nil {
				r.Paid = *req.Paid
			}
			if req.PaymentStatus != "" {
				r.PaymentStatus = req.PaymentStatus
			}
			return r, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

// fakeAuth injects an authenticated user without a real token
func fakeAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyRole, role)
		c.Next()
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	env := &envelope{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), env))
	return rec, env
}

func newBookingRouter(svc *MockRegistrationService) *gin.Engine {
	router := gin.New()
	rh := NewRegistrationHandler(svc)
	ph := NewPaymentHandler(svc)

	authed := router.Group("/api/v1", fakeAuth("u1", domain.RoleCustomer))
	authed.POST("/workshops/:id/register", rh.Register)
	authed.GET("/workshops/:id/registration", rh.Get)
	authed.DELETE("/workshops/:id/registration", rh.Cancel)
	authed.POST("/payments/orders", ph.CreateOrder)
	authed.POST("/payments/verify", ph.Verify)
	return router
}

func TestRegisterEndpoint(t *testing.T) {
	router := newBookingRouter(NewMockRegistrationService())

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/workshops/w1/register",
		dto.RegisterForWorkshopRequest{Quantity: 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var reg dto.RegistrationResponse
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, 2, reg.Seats)
	assert.Equal(t, domain.PaymentMethodPickup, reg.PaymentMethod)
	assert.Equal(t, domain.PaymentStatusPending, reg.PaymentStatus)
}

func TestRegisterEndpoint_Duplicate(t *testing.T) {
	svc := NewMockRegistrationService()
	router := newBookingRouter(svc)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/workshops/w1/register",
		dto.RegisterForWorkshopRequest{Quantity: 1})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/workshops/w1/register",
		dto.RegisterForWorkshopRequest{Quantity: 1})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_REGISTERED", env.Error.Code)
}

func TestRegisterEndpoint_UnknownWorkshop(t *testing.T) {
	router := newBookingRouter(NewMockRegistrationService())

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/workshops/missing/register",
		dto.RegisterForWorkshopRequest{Quantity: 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "WORKSHOP_NOT_FOUND", env.Error.Code)
}

func TestRegisterEndpoint_BadQuantity(t *testing.T) {
	router := newBookingRouter(NewMockRegistrationService())

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/workshops/w1/register",
		map[string]int{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderEndpoint(t *testing.T) {
	router := newBookingRouter(NewMockRegistrationService())

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/payments/orders",
		dto.CreateOrderRequest{WorkshopID: "w1", Quantity: 2})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.CreateOrderResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "order_123", resp.OrderID)
	assert.Equal(t, int64(180000), resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
}

func TestVerifyEndpoint(t *testing.T) {
	router := newBookingRouter(NewMockRegistrationService())

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/payments/verify", dto.VerifyPaymentRequest{
		OrderID:    "order_123",
		PaymentID:  "pay_456",
		Signature:  "valid",
		WorkshopID: "w1",
		Quantity:   1,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp dto.VerifyPaymentResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Registration.Paid)
	assert.Equal(t, domain.PaymentStatusCompleted, resp.Registration.PaymentStatus)
}

func TestVerifyEndpoint_BadSignature(t *testing.T) {
	svc := NewMockRegistrationService()
	router := newBookingRouter(svc)

	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/payments/verify", dto.VerifyPaymentRequest{
		OrderID:    "order_123",
		PaymentID:  "pay_456",
		Signature:  "forged",
		WorkshopID: "w1",
		Quantity:   1,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_SIGNATURE", env.Error.Code)
	assert.Empty(t, svc.registrations)
}

func TestCancelEndpoint(t *testing.T) {
	svc := NewMockRegistrationService()
	router := newBookingRouter(svc)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/workshops/w1/register",
		dto.RegisterForWorkshopRequest{Quantity: 3})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 7, svc.workshopSeats["w1"])

	rec, env := doJSON(t, router, http.MethodDelete, "/api/v1/workshops/w1/registration", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 10, svc.workshopSeats["w1"])
}

func TestCancelEndpoint_NotRegistered(t *testing.T) {
	router := newBookingRouter(NewMockRegistrationService())

	rec, env := doJSON(t, router, http.MethodDelete, "/api/v1/workshops/w1/registration", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "REGISTRATION_NOT_FOUND", env.Error.Code)
}

func TestRequireAdmin(t *testing.T) {
	router := gin.New()
	router.GET("/admin", fakeAuth("u1", domain.RoleCustomer), middleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	router := gin.New()
	router.GET("/admin", fakeAuth("u1", domain.RoleAdmin), middleware.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
