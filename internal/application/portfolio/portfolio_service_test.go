package portfolio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLandlordRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*portfolio.Landlord
}

func newFakeLandlordRepo() *fakeLandlordRepo {
	return &fakeLandlordRepo{items: make(map[uuid.UUID]*portfolio.Landlord)}
}

func (f *fakeLandlordRepo) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Landlord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeLandlordRepo) FindAll(ctx context.Context, filter portfolio.LandlordFilter) (*shared.Paginated[portfolio.Landlord], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []portfolio.Landlord
	for _, l := range f.items {
		items = append(items, *l)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (f *fakeLandlordRepo) Save(ctx context.Context, landlord *portfolio.Landlord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *landlord
	f.items[landlord.ID] = &copied
	return nil
}

func (f *fakeLandlordRepo) SaveWithLock(ctx context.Context, landlord *portfolio.Landlord) error {
	return f.Save(ctx, landlord)
}

func (f *fakeLandlordRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.items[id]
	return ok, nil
}

type fakePropertyRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*portfolio.Property
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{items: make(map[uuid.UUID]*portfolio.Property)}
}

func (f *fakePropertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePropertyRepo) FindAll(ctx context.Context, filter portfolio.PropertyFilter) (*shared.Paginated[portfolio.Property], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []portfolio.Property
	for _, p := range f.items {
		items = append(items, *p)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (f *fakePropertyRepo) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]portfolio.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []portfolio.Property
	for _, p := range f.items {
		if p.LandlordID == landlordID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) CountByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.items {
		if p.LandlordID == landlordID && !p.Status.IsTerminal() {
			n++
		}
	}
	return n, nil
}

func (f *fakePropertyRepo) CountOccupiedByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.items {
		if p.LandlordID == landlordID && p.Status == portfolio.PropertyStatusOccupied {
			n++
		}
	}
	return n, nil
}

func (f *fakePropertyRepo) Save(ctx context.Context, property *portfolio.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *property
	f.items[property.ID] = &copied
	return nil
}

func (f *fakePropertyRepo) SaveWithLock(ctx context.Context, property *portfolio.Property) error {
	return f.Save(ctx, property)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error { return nil }

func newServiceUnderTest(t *testing.T) (*PortfolioService, *fakeLandlordRepo, *fakePropertyRepo) {
	t.Helper()
	landlordRepo := newFakeLandlordRepo()
	propertyRepo := newFakePropertyRepo()
	svc := NewPortfolioService(landlordRepo, propertyRepo, noopPublisher{}, zap.NewNop())
	return svc, landlordRepo, propertyRepo
}

func createLandlord(t *testing.T, svc *PortfolioService) *LandlordResponse {
	t.Helper()
	resp, err := svc.CreateLandlord(context.Background(), CreateLandlordInput{
		Name:  "J Whitfield",
		Email: "j.whitfield@example.com",
		Type:  "INDIVIDUAL",
	}, nil)
	require.NoError(t, err)
	return resp
}

func houseInput(line1 string) AddPropertyInput {
	return AddPropertyInput{
		AddressLine1: line1,
		City:         "Leeds",
		Postcode:     "LS6 2QT",
		Type:         "HOUSE",
		Bedrooms:     3,
	}
}

func TestPortfolioService_CreateLandlord(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)

	resp := createLandlord(t, svc)
	assert.Equal(t, "ACTIVE", resp.Status)
	assert.Equal(t, "NONE", resp.PortfolioBucket)
	assert.Zero(t, resp.TotalProperties)
}

func TestPortfolioService_CreateLandlord_BadType(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)

	_, err := svc.CreateLandlord(context.Background(), CreateLandlordInput{
		Name: "J Whitfield",
		Type: "CHARITY",
	}, nil)
	assert.Error(t, err)
}

func TestPortfolioService_AddProperty_UpdatesRollup(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)
	landlord := createLandlord(t, svc)

	prop, err := svc.AddProperty(context.Background(), landlord.ID, houseInput("12 Fenwick Road"), nil)
	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", prop.Status)

	summary, err := svc.GetLandlordSummary(context.Background(), landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalProperties)
	assert.Equal(t, int64(0), summary.OccupiedProperties)
	assert.Equal(t, "SMALL", summary.PortfolioBucket)
}

func TestPortfolioService_AddProperty_LandlordMissing(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)

	_, err := svc.AddProperty(context.Background(), uuid.New(), houseInput("12 Fenwick Road"), nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPortfolioService_BucketBoundaries(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)
	landlord := createLandlord(t, svc)

	addN := func(n int) {
		for range n {
			_, err := svc.AddProperty(context.Background(), landlord.ID, houseInput("1 Acacia Avenue"), nil)
			require.NoError(t, err)
		}
	}

	addN(3)
	summary, err := svc.GetLandlordSummary(context.Background(), landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, "SMALL", summary.PortfolioBucket)

	addN(1)
	summary, err = svc.GetLandlordSummary(context.Background(), landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, "MEDIUM", summary.PortfolioBucket)

	addN(7)
	summary, err = svc.GetLandlordSummary(context.Background(), landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, "LARGE", summary.PortfolioBucket)
}

func TestPortfolioService_OccupancyRate(t *testing.T) {
	svc, _, propertyRepo := newServiceUnderTest(t)
	landlord := createLandlord(t, svc)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		prop, err := svc.AddProperty(context.Background(), landlord.ID, houseInput("1 Acacia Avenue"), nil)
		require.NoError(t, err)
		ids = append(ids, prop.ID)
	}

	// occupy one of the three directly
	stored, err := propertyRepo.FindByID(context.Background(), ids[0])
	require.NoError(t, err)
	require.NoError(t, stored.MarkOccupied(uuid.New()))
	require.NoError(t, propertyRepo.Save(context.Background(), stored))

	summary, err := svc.GetLandlordSummary(context.Background(), landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.OccupiedProperties)
	assert.True(t, summary.OccupancyRate.Equal(decimal.NewFromFloat(33.33)),
		"got %s", summary.OccupancyRate)
}

func TestPortfolioService_UpdateProperty(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)
	landlord := createLandlord(t, svc)

	prop, err := svc.AddProperty(context.Background(), landlord.ID, houseInput("12 Fenwick Road"), nil)
	require.NoError(t, err)

	bedrooms := 4
	rent := 1100.0
	updated, err := svc.UpdateProperty(context.Background(), prop.ID, UpdatePropertyInput{
		Bedrooms:    &bedrooms,
		MonthlyRent: &rent,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, updated.Bedrooms)
	assert.Equal(t, 1100.0, updated.MonthlyRent.Float64())
	assert.Equal(t, "12 Fenwick Road", updated.AddressLine1, "untouched fields keep their values")
	assert.Greater(t, updated.Version, prop.Version)
	assert.WithinDuration(t, time.Now(), updated.UpdatedAt, time.Minute)
}

func TestPortfolioService_GetProperty_NotFound(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)

	_, err := svc.GetProperty(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
