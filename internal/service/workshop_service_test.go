package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NTAravind/Eustress/internal/dto"
)

func workshopRequest() *dto.WorkshopRequest {
	return &dto.WorkshopRequest{
		Title:       "Wheel Throwing Basics",
		Description: "A hands-on introduction to the potter's wheel.",
		Date:        time.Now().Add(14 * 24 * time.Hour),
		Time:        "10:00 AM",
		Location:    "Eustress Studio, Bengaluru",
		TotalSeats:  12,
		Price:       1000,
		Discount:    10,
	}
}

func TestWorkshopCreate_SeatsStartFull(t *testing.T) {
	repo := NewMockWorkshopRepository()
	svc := NewWorkshopService(repo, NewMockCatalogCache())

	w, err := svc.Create(context.Background(), workshopRequest())
	require.NoError(t, err)

	assert.Equal(t, 12, w.TotalSeats)
	assert.Equal(t, 12, w.AvailableSeats)
	assert.True(t, w.IsOpen)
	assert.NotEmpty(t, w.ID)
}

func TestWorkshopUpdate_KeepsSeatCounter(t *testing.T) {
	repo := NewMockWorkshopRepository()
	svc := NewWorkshopService(repo, NewMockCatalogCache())

	w, err := svc.Create(context.Background(), workshopRequest())
	require.NoError(t, err)

	// some seats already sold
	w.AvailableSeats = 5

	req := workshopRequest()
	req.Title = "Wheel Throwing, Level 2"
	req.TotalSeats = 20

	updated, err := svc.Update(context.Background(), w.ID, req)
	require.NoError(t, err)

	assert.Equal(t, "Wheel Throwing, Level 2", updated.Title)
	assert.Equal(t, 20, updated.TotalSeats)
	assert.Equal(t, 5, updated.AvailableSeats)
}

func TestWorkshopUpdate_CanClose(t *testing.T) {
	repo := NewMockWorkshopRepository()
	svc := NewWorkshopService(repo, NewMockCatalogCache())

	w, err := svc.Create(context.Background(), workshopRequest())
	require.NoError(t, err)

	req := workshopRequest()
	closed := false
	req.IsOpen = &closed

	updated, err := svc.Update(context.Background(), w.ID, req)
	require.NoError(t, err)
	assert.False(t, updated.IsOpen)
}

func TestCatalog_CacheFirst(t *testing.T) {
	repo := NewMockWorkshopRepository()
	cache := NewMockCatalogCache()
	svc := NewWorkshopService(repo, cache)

	_, err := svc.Create(context.Background(), workshopRequest())
	require.NoError(t, err)

	// first read fills the cache
	first, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	cached, ok := cache.Get(context.Background())
	require.True(t, ok)
	assert.Len(t, cached, 1)

	// second read is served from the cache
	second, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestCatalog_ExcludesClosedAndPast(t *testing.T) {
	repo := NewMockWorkshopRepository()
	svc := NewWorkshopService(repo, nil)

	open, err := svc.Create(context.Background(), workshopRequest())
	require.NoError(t, err)

	closedReq := workshopRequest()
	closed := false
	closedReq.IsOpen = &closed
	_, err = svc.Create(context.Background(), closedReq)
	require.NoError(t, err)

	pastReq := workshopRequest()
	pastReq.Date = time.Now().Add(-48 * time.Hour)
	_, err = svc.Create(context.Background(), pastReq)
	require.NoError(t, err)

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, open.ID, catalog[0].ID)
}

func TestWorkshopWrite_InvalidatesCache(t *testing.T) {
	repo := NewMockWorkshopRepository()
	cache := NewMockCatalogCache()
	svc := NewWorkshopService(repo, cache)

	w, err := svc.Create(context.Background(), workshopRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Invalidation)

	_, err = svc.Update(context.Background(), w.ID, workshopRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Invalidation)
}
