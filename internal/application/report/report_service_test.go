package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/maintenance"
	"github.com/lettings/backend/internal/domain/payment"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/report"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReportRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*report.FinancialReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{items: make(map[uuid.UUID]*report.FinancialReport)}
}

func (f *fakeReportRepo) FindByID(ctx context.Context, id uuid.UUID) (*report.FinancialReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReportRepo) FindByReference(ctx context.Context, reference string) (*report.FinancialReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.Reference == reference {
			copied := *r
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeReportRepo) FindAll(ctx context.Context, filter report.ReportFilter) (*shared.Paginated[report.FinancialReport], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []report.FinancialReport
	for _, r := range f.items {
		items = append(items, *r)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (f *fakeReportRepo) FindByLandlordAndPeriod(ctx context.Context, landlordID uuid.UUID, periodStart, periodEnd time.Time) (*report.FinancialReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.LandlordID == landlordID && r.PeriodStart.Equal(periodStart) && r.PeriodEnd.Equal(periodEnd) {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeReportRepo) FindStuckGenerating(ctx context.Context, createdBefore time.Time) ([]report.FinancialReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []report.FinancialReport
	for _, r := range f.items {
		if r.Status == report.ReportStatusGenerating && r.CreatedAt.Before(createdBefore) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReportRepo) Save(ctx context.Context, r *report.FinancialReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *r
	f.items[r.ID] = &copied
	return nil
}

func (f *fakeReportRepo) SaveWithLock(ctx context.Context, r *report.FinancialReport) error {
	return f.Save(ctx, r)
}

type fakePaymentSource struct {
	payments []payment.RentPayment
	err      error
}

func (f *fakePaymentSource) FindByID(ctx context.Context, id uuid.UUID) (*payment.RentPayment, error) {
	return nil, shared.ErrNotFound
}

func (f *fakePaymentSource) FindAll(ctx context.Context, filter payment.PaymentFilter) (*shared.Paginated[payment.RentPayment], error) {
	return nil, nil
}

func (f *fakePaymentSource) FindByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]payment.RentPayment, error) {
	return nil, nil
}

func (f *fakePaymentSource) NextSequenceNumber(ctx context.Context, tenancyID uuid.UUID) (int64, error) {
	return 1, nil
}

func (f *fakePaymentSource) FindCompletedForLandlordInPeriod(ctx context.Context, landlordID uuid.UUID, from, to time.Time) ([]payment.RentPayment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payments, nil
}

func (f *fakePaymentSource) FindOverduePending(ctx context.Context, before time.Time) ([]payment.RentPayment, error) {
	return nil, nil
}

func (f *fakePaymentSource) Save(ctx context.Context, p *payment.RentPayment) error { return nil }

func (f *fakePaymentSource) SaveWithLock(ctx context.Context, p *payment.RentPayment) error {
	return nil
}

type fakeMaintenanceSource struct {
	requests []maintenance.MaintenanceRequest
}

func (f *fakeMaintenanceSource) FindByID(ctx context.Context, id uuid.UUID) (*maintenance.MaintenanceRequest, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeMaintenanceSource) FindByReference(ctx context.Context, reference string) (*maintenance.MaintenanceRequest, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeMaintenanceSource) FindAll(ctx context.Context, filter maintenance.RequestFilter) (*shared.Paginated[maintenance.MaintenanceRequest], error) {
	return nil, nil
}

func (f *fakeMaintenanceSource) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]maintenance.MaintenanceRequest, error) {
	return nil, nil
}

func (f *fakeMaintenanceSource) FindCompletedForLandlordInPeriod(ctx context.Context, landlordID uuid.UUID, from, to time.Time) ([]maintenance.MaintenanceRequest, error) {
	return f.requests, nil
}

func (f *fakeMaintenanceSource) Save(ctx context.Context, r *maintenance.MaintenanceRequest) error {
	return nil
}

func (f *fakeMaintenanceSource) SaveWithLock(ctx context.Context, r *maintenance.MaintenanceRequest) error {
	return nil
}

type fakeLandlordRepo struct {
	known map[uuid.UUID]bool
}

func (f *fakeLandlordRepo) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Landlord, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeLandlordRepo) FindAll(ctx context.Context, filter portfolio.LandlordFilter) (*shared.Paginated[portfolio.Landlord], error) {
	return nil, nil
}

func (f *fakeLandlordRepo) Save(ctx context.Context, landlord *portfolio.Landlord) error { return nil }

func (f *fakeLandlordRepo) SaveWithLock(ctx context.Context, landlord *portfolio.Landlord) error {
	return nil
}

func (f *fakeLandlordRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

// fakeClaimStore mirrors the in-memory claim store without TTL handling
type fakeClaimStore struct {
	mu   sync.Mutex
	held map[string]bool
}

func newFakeClaimStore() *fakeClaimStore {
	return &fakeClaimStore{held: make(map[string]bool)}
}

func (f *fakeClaimStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeClaimStore) Release(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	return nil
}

func (f *fakeClaimStore) holding(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held[key]
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error { return nil }

func gbp(amount float64) valueobject.Money {
	return valueobject.NewMoneyGBPFromFloat(amount)
}

func completedPayment(t *testing.T, landlordID uuid.UUID, amount, rentDue, lateFee float64, paymentDate time.Time) payment.RentPayment {
	t.Helper()
	p, err := payment.NewRentPayment(
		uuid.New(), uuid.New(), landlordID,
		gbp(amount), payment.PaymentMethodCard,
		paymentDate, paymentDate.AddDate(0, 0, 7),
		paymentDate, paymentDate.AddDate(0, 1, 0),
		1,
	)
	require.NoError(t, err)
	require.NoError(t, p.Allocate(gbp(rentDue), gbp(0), gbp(lateFee)))
	require.NoError(t, p.MarkCompleted())
	return *p
}

func completedRequest(t *testing.T, landlordID uuid.UUID, actualCost float64, completedDate time.Time) maintenance.MaintenanceRequest {
	t.Helper()
	r, err := maintenance.NewMaintenanceRequest(
		uuid.New(), landlordID,
		"Boiler service", "Annual service visit",
		maintenance.CategoryHeating, maintenance.PriorityMedium,
	)
	require.NoError(t, err)
	require.NoError(t, r.Acknowledge())
	cost := gbp(actualCost)
	require.NoError(t, r.Assign("HeatSafe Ltd", &cost, nil))
	require.NoError(t, r.Start())
	require.NoError(t, r.Complete(&cost, completedDate, "serviced"))
	return *r
}

type reportHarness struct {
	svc         *ReportService
	reportRepo  *fakeReportRepo
	payments    *fakePaymentSource
	maintenance *fakeMaintenanceSource
	claims      *fakeClaimStore
	landlordID  uuid.UUID
}

func newReportHarness(t *testing.T) *reportHarness {
	t.Helper()
	h := &reportHarness{
		reportRepo:  newFakeReportRepo(),
		payments:    &fakePaymentSource{},
		maintenance: &fakeMaintenanceSource{},
		claims:      newFakeClaimStore(),
		landlordID:  uuid.New(),
	}
	landlords := &fakeLandlordRepo{known: map[uuid.UUID]bool{h.landlordID: true}}
	h.svc = NewReportService(h.reportRepo, h.payments, h.maintenance, landlords, h.claims, noopPublisher{}, zap.NewNop())
	return h
}

func (h *reportHarness) awaitTerminal(t *testing.T, id uuid.UUID) *ReportResponse {
	t.Helper()
	var resp *ReportResponse
	require.Eventually(t, func() bool {
		var err error
		resp, err = h.svc.Get(context.Background(), id)
		if err != nil {
			return false
		}
		return resp.Status != "GENERATING"
	}, 2*time.Second, 5*time.Millisecond)
	return resp
}

func reportPeriod() (time.Time, time.Time) {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
}

func TestReportService_Generate(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()

	h.payments.payments = []payment.RentPayment{
		completedPayment(t, h.landlordID, 975, 950, 25, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
		completedPayment(t, h.landlordID, 950, 950, 0, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
	}
	h.maintenance.requests = []maintenance.MaintenanceRequest{
		completedRequest(t, h.landlordID, 120, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)),
	}

	resp, err := h.svc.Generate(context.Background(), h.landlordID, GenerateReportInput{
		PeriodStart: from,
		PeriodEnd:   to,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "GENERATING", resp.Status)
	assert.Regexp(t, `^RPT-\d{13}-[A-Z0-9]{5}$`, resp.Reference)

	done := h.awaitTerminal(t, resp.ID)
	assert.Equal(t, "COMPLETED", done.Status)
	require.NotNil(t, done.GeneratedAt)

	assert.True(t, done.Totals.TotalRentalIncome.Equals(gbp(1900)))
	assert.True(t, done.Totals.TotalFeeIncome.Equals(gbp(25)))
	assert.True(t, done.Totals.TotalGrossIncome.Equals(gbp(1925)))
	assert.True(t, done.Totals.TotalMaintenanceCosts.Equals(gbp(120)))
	assert.True(t, done.Totals.TotalExpenses.Equals(gbp(120)))
	assert.True(t, done.Totals.NetRentalIncome.Equals(gbp(1805)))
	assert.Equal(t, 2, done.Totals.PaymentCount)
	assert.Equal(t, 1, done.Totals.MaintenanceCount)
}

func TestReportService_Generate_EmptyPeriod(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()

	resp, err := h.svc.Generate(context.Background(), h.landlordID, GenerateReportInput{
		PeriodStart: from,
		PeriodEnd:   to,
	}, nil)
	require.NoError(t, err)

	done := h.awaitTerminal(t, resp.ID)
	assert.Equal(t, "COMPLETED", done.Status)
	assert.True(t, done.Totals.NetRentalIncome.IsZero())
	assert.Equal(t, 0, done.Totals.PaymentCount)
}

func TestReportService_Generate_LandlordMissing(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()

	_, err := h.svc.Generate(context.Background(), uuid.New(), GenerateReportInput{
		PeriodStart: from,
		PeriodEnd:   to,
	}, nil)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestReportService_Generate_ConflictWhileInFlight(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()
	input := GenerateReportInput{PeriodStart: from, PeriodEnd: to}

	key := claimKey(h.landlordID, from, to)
	claimed, err := h.claims.Claim(context.Background(), key, time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = h.svc.Generate(context.Background(), h.landlordID, input, nil)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)

	// once the claim is gone the period can be generated again
	require.NoError(t, h.claims.Release(context.Background(), key))
	resp, err := h.svc.Generate(context.Background(), h.landlordID, input, nil)
	require.NoError(t, err)
	h.awaitTerminal(t, resp.ID)
}

func TestReportService_Generate_ClaimReleasedAfterCompletion(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()

	resp, err := h.svc.Generate(context.Background(), h.landlordID, GenerateReportInput{
		PeriodStart: from,
		PeriodEnd:   to,
	}, nil)
	require.NoError(t, err)
	h.awaitTerminal(t, resp.ID)

	key := claimKey(h.landlordID, from, to)
	assert.Eventually(t, func() bool {
		return !h.claims.holding(key)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestReportService_Generate_AggregationFailureRecorded(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()
	h.payments.err = errors.New("ledger unavailable")

	resp, err := h.svc.Generate(context.Background(), h.landlordID, GenerateReportInput{
		PeriodStart: from,
		PeriodEnd:   to,
	}, nil)
	require.NoError(t, err)

	done := h.awaitTerminal(t, resp.ID)
	assert.Equal(t, "FAILED", done.Status)
	assert.Contains(t, done.ErrorMessage, "ledger unavailable")
	require.NotNil(t, done.ErrorDate)

	key := claimKey(h.landlordID, from, to)
	assert.Eventually(t, func() bool {
		return !h.claims.holding(key)
	}, 2*time.Second, 5*time.Millisecond)
}

func TestReportService_SweepStuck(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()

	r, err := report.NewFinancialReport(h.landlordID, from, to)
	require.NoError(t, err)
	r.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, h.reportRepo.Save(context.Background(), r))

	count, err := h.svc.SweepStuck(context.Background(), time.Now(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := h.svc.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, "FAILED", stored.Status)
	assert.Equal(t, "generation timed out", stored.ErrorMessage)
}

func TestReportService_SweepStuck_FreshReportsUntouched(t *testing.T) {
	h := newReportHarness(t)
	from, to := reportPeriod()

	r, err := report.NewFinancialReport(h.landlordID, from, to)
	require.NoError(t, err)
	require.NoError(t, h.reportRepo.Save(context.Background(), r))

	count, err := h.svc.SweepStuck(context.Background(), time.Now(), 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
