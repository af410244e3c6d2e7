package tenancy

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/tenancy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// in-memory fakes keep the concurrency behaviour observable; mocks cannot
// express the read-then-write races these tests exercise

type fakeTenancyRepo struct {
	mu              sync.Mutex
	items           map[uuid.UUID]*tenancy.TenancyAgreement
	saveWithLockErr error
}

func newFakeTenancyRepo() *fakeTenancyRepo {
	return &fakeTenancyRepo{items: make(map[uuid.UUID]*tenancy.TenancyAgreement)}
}

func (f *fakeTenancyRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.TenancyAgreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ta, ok := f.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *ta
	return &copied, nil
}

func (f *fakeTenancyRepo) FindAll(ctx context.Context, filter tenancy.TenancyFilter) (*shared.Paginated[tenancy.TenancyAgreement], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []tenancy.TenancyAgreement
	for _, ta := range f.items {
		items = append(items, *ta)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (f *fakeTenancyRepo) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]tenancy.TenancyAgreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tenancy.TenancyAgreement
	for _, ta := range f.items {
		if ta.PropertyID == propertyID {
			out = append(out, *ta)
		}
	}
	return out, nil
}

func (f *fakeTenancyRepo) FindNonTerminalByProperty(ctx context.Context, propertyID uuid.UUID) (*tenancy.TenancyAgreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ta := range f.items {
		if ta.PropertyID == propertyID && ta.IsNonTerminal() {
			copied := *ta
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTenancyRepo) FindExpiredActive(ctx context.Context, before time.Time) ([]tenancy.TenancyAgreement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tenancy.TenancyAgreement
	for _, ta := range f.items {
		if ta.Status == tenancy.TenancyStatusActive && ta.EndDate.Before(before) {
			out = append(out, *ta)
		}
	}
	return out, nil
}

func (f *fakeTenancyRepo) Save(ctx context.Context, agreement *tenancy.TenancyAgreement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *agreement
	f.items[agreement.ID] = &copied
	return nil
}

func (f *fakeTenancyRepo) SaveWithLock(ctx context.Context, agreement *tenancy.TenancyAgreement) error {
	if f.saveWithLockErr != nil {
		return f.saveWithLockErr
	}
	return f.Save(ctx, agreement)
}

func (f *fakeTenancyRepo) snapshot() map[uuid.UUID]*tenancy.TenancyAgreement {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[uuid.UUID]*tenancy.TenancyAgreement, len(f.items))
	for id, ta := range f.items {
		copied := *ta
		snap[id] = &copied
	}
	return snap
}

func (f *fakeTenancyRepo) restore(snap map[uuid.UUID]*tenancy.TenancyAgreement) {
	f.mu.Lock()
	f.items = snap
	f.mu.Unlock()
}

type fakePropertyRepo struct {
	mu              sync.Mutex
	items           map[uuid.UUID]*portfolio.Property
	saveWithLockErr error
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
	return nil, nil
}

func (f *fakePropertyRepo) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]portfolio.Property, error) {
	return nil, nil
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
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveWithLockErr != nil {
		return f.saveWithLockErr
	}
	current, ok := f.items[property.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if current.Version != property.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	copied := *property
	f.items[property.ID] = &copied
	return nil
}

func (f *fakePropertyRepo) snapshot() map[uuid.UUID]*portfolio.Property {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[uuid.UUID]*portfolio.Property, len(f.items))
	for id, p := range f.items {
		copied := *p
		snap[id] = &copied
	}
	return snap
}

func (f *fakePropertyRepo) restore(snap map[uuid.UUID]*portfolio.Property) {
	f.mu.Lock()
	f.items = snap
	f.mu.Unlock()
}

// fakeTxScope mimics the rollback semantics of a database transaction over
// the in-memory fakes: a failing cascade restores both stores to their
// pre-transaction contents.
type fakeTxScope struct {
	tenancyRepo  *fakeTenancyRepo
	propertyRepo *fakePropertyRepo
}

func (f *fakeTxScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	tenancySnap := f.tenancyRepo.snapshot()
	propertySnap := f.propertyRepo.snapshot()
	if err := fn(f); err != nil {
		f.tenancyRepo.restore(tenancySnap)
		f.propertyRepo.restore(propertySnap)
		return err
	}
	return nil
}

func (f *fakeTxScope) TenancyRepo() tenancy.TenancyRepository { return f.tenancyRepo }

func (f *fakeTxScope) PropertyRepo() portfolio.PropertyRepository { return f.propertyRepo }

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error { return nil }

func newServiceUnderTest(t *testing.T) (*TenancyService, *fakeTenancyRepo, *fakePropertyRepo, *portfolio.Property) {
	t.Helper()
	tenancyRepo := newFakeTenancyRepo()
	propertyRepo := newFakePropertyRepo()

	property, err := portfolio.NewProperty(uuid.New(), "12 Fenwick Road", "Leeds", "LS6 2QT", portfolio.PropertyTypeHouse, 3)
	require.NoError(t, err)
	property.ClearDomainEvents()
	require.NoError(t, propertyRepo.Save(context.Background(), property))

	scope := &fakeTxScope{tenancyRepo: tenancyRepo, propertyRepo: propertyRepo}
	svc := NewTenancyService(tenancyRepo, propertyRepo, scope, noopPublisher{}, zap.NewNop())
	return svc, tenancyRepo, propertyRepo, property
}

func validInput() CreateTenancyInput {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return CreateTenancyInput{
		TenantName:    "R Patel",
		StartDate:     start,
		EndDate:       start.AddDate(1, 0, 0),
		RentAmount:    950,
		RentFrequency: "MONTHLY",
		RentDueDay:    1,
		DepositAmount: 1095,
		DepositScheme: "DPS",
	}
}

func TestTenancyService_Create(t *testing.T) {
	svc, _, propertyRepo, property := newServiceUnderTest(t)

	resp, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.NoError(t, err)

	assert.Equal(t, "ACTIVE", resp.Status)

	stored, err := propertyRepo.FindByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.PropertyStatusOccupied, stored.Status)
	require.NotNil(t, stored.CurrentTenantID)
	assert.Equal(t, resp.ID, *stored.CurrentTenantID)
}

func TestTenancyService_Create_PropertyMissing(t *testing.T) {
	svc, _, _, _ := newServiceUnderTest(t)

	_, err := svc.Create(context.Background(), uuid.New(), validInput(), nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTenancyService_Create_SecondTenancyConflicts(t *testing.T) {
	svc, _, propertyRepo, property := newServiceUnderTest(t)

	first, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), property.ID, validInput(), nil)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	// state unchanged: still occupied by the first tenancy
	stored, err := propertyRepo.FindByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.PropertyStatusOccupied, stored.Status)
	assert.Equal(t, first.ID, *stored.CurrentTenantID)
}

func TestTenancyService_Create_ConcurrentOnlyOneWins(t *testing.T) {
	svc, _, _, property := newServiceUnderTest(t)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), property.ID, validInput(), nil)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent create may win")
}

func TestTenancyService_Create_PropertySaveFailureRollsBackAgreement(t *testing.T) {
	svc, tenancyRepo, propertyRepo, property := newServiceUnderTest(t)
	propertyRepo.saveWithLockErr = shared.ErrConcurrencyConflict

	_, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.Error(t, err)

	// the cascade failed, so no agreement row may survive it
	leftover, err := tenancyRepo.FindNonTerminalByProperty(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Nil(t, leftover)

	stored, err := propertyRepo.FindByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.PropertyStatusAvailable, stored.Status)
	assert.Nil(t, stored.CurrentTenantID)

	// a retry on the recovered state succeeds
	propertyRepo.saveWithLockErr = nil
	_, err = svc.Create(context.Background(), property.ID, validInput(), nil)
	assert.NoError(t, err)
}

func TestTenancyService_End_PropertySaveFailureRollsBackAgreement(t *testing.T) {
	svc, tenancyRepo, propertyRepo, property := newServiceUnderTest(t)

	created, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.NoError(t, err)

	propertyRepo.saveWithLockErr = shared.ErrConcurrencyConflict
	_, err = svc.End(context.Background(), created.ID, EndTenancyInput{
		EndDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)

	// agreement and property are untouched together
	stored, err := tenancyRepo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, tenancy.TenancyStatusActive, stored.Status)

	occupied, err := propertyRepo.FindByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.PropertyStatusOccupied, occupied.Status)
	require.NotNil(t, occupied.CurrentTenantID)
	assert.Equal(t, created.ID, *occupied.CurrentTenantID)
}

func TestTenancyService_CreateEndRoundTrip(t *testing.T) {
	svc, _, propertyRepo, property := newServiceUnderTest(t)

	created, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.NoError(t, err)

	ended, err := svc.End(context.Background(), created.ID, EndTenancyInput{
		EndDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Reason:  "tenant relocating",
	})
	require.NoError(t, err)

	assert.Equal(t, "ENDED", ended.Status)
	require.NotNil(t, ended.ActualEndDate)
	assert.Equal(t, "tenant relocating", ended.TerminationReason)

	stored, err := propertyRepo.FindByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.PropertyStatusAvailable, stored.Status)
	assert.Nil(t, stored.CurrentTenantID)

	// property is lettable again
	_, err = svc.Create(context.Background(), property.ID, validInput(), nil)
	assert.NoError(t, err)
}

func TestTenancyService_End_NotFound(t *testing.T) {
	svc, _, _, _ := newServiceUnderTest(t)

	_, err := svc.End(context.Background(), uuid.New(), EndTenancyInput{EndDate: time.Now()})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTenancyService_End_AlreadyEnded(t *testing.T) {
	svc, _, _, property := newServiceUnderTest(t)

	created, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.NoError(t, err)

	input := EndTenancyInput{EndDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)}
	_, err = svc.End(context.Background(), created.ID, input)
	require.NoError(t, err)

	_, err = svc.End(context.Background(), created.ID, input)
	assert.Error(t, err)
}

func TestTenancyService_SignatureStep(t *testing.T) {
	tenancyRepo := newFakeTenancyRepo()
	propertyRepo := newFakePropertyRepo()
	property, err := portfolio.NewProperty(uuid.New(), "12 Fenwick Road", "Leeds", "LS6 2QT", portfolio.PropertyTypeHouse, 3)
	require.NoError(t, err)
	require.NoError(t, propertyRepo.Save(context.Background(), property))

	scope := &fakeTxScope{tenancyRepo: tenancyRepo, propertyRepo: propertyRepo}
	svc := NewTenancyService(tenancyRepo, propertyRepo, scope, noopPublisher{}, zap.NewNop(), WithSignatureStep())

	resp, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, "DRAFT", resp.Status)

	// the draft still holds the property
	stored, err := propertyRepo.FindByID(context.Background(), property.ID)
	require.NoError(t, err)
	assert.Equal(t, portfolio.PropertyStatusOccupied, stored.Status)

	activated, err := svc.Activate(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", activated.Status)
}

func TestTenancyService_MarkExpired(t *testing.T) {
	svc, tenancyRepo, _, property := newServiceUnderTest(t)

	created, err := svc.Create(context.Background(), property.ID, validInput(), nil)
	require.NoError(t, err)

	count, err := svc.MarkExpired(context.Background(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, count, "end date not yet passed")

	count, err = svc.MarkExpired(context.Background(), time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := tenancyRepo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, tenancy.TenancyStatusExpired, stored.Status)
}
