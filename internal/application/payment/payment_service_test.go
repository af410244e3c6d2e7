package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/payment"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/lettings/backend/internal/domain/tenancy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePaymentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*payment.RentPayment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{items: make(map[uuid.UUID]*payment.RentPayment)}
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*payment.RentPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePaymentRepo) FindAll(ctx context.Context, filter payment.PaymentFilter) (*shared.Paginated[payment.RentPayment], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []payment.RentPayment
	for _, p := range f.items {
		items = append(items, *p)
	}
	page := shared.NewPaginated(items, int64(len(items)), 1, 20)
	return &page, nil
}

func (f *fakePaymentRepo) FindByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]payment.RentPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payment.RentPayment
	for _, p := range f.items {
		if p.TenancyID == tenancyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) NextSequenceNumber(ctx context.Context, tenancyID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max int64
	for _, p := range f.items {
		if p.TenancyID == tenancyID && p.SequenceNumber > max {
			max = p.SequenceNumber
		}
	}
	return max + 1, nil
}

func (f *fakePaymentRepo) FindCompletedForLandlordInPeriod(ctx context.Context, landlordID uuid.UUID, from, to time.Time) ([]payment.RentPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payment.RentPayment
	for _, p := range f.items {
		if p.LandlordID == landlordID && p.Status == payment.PaymentStatusCompleted &&
			!p.PaymentDate.Before(from) && !p.PaymentDate.After(to) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) FindOverduePending(ctx context.Context, before time.Time) ([]payment.RentPayment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payment.RentPayment
	for _, p := range f.items {
		if p.Status == payment.PaymentStatusPending && p.DueDate.Before(before) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) Save(ctx context.Context, p *payment.RentPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *p
	f.items[p.ID] = &copied
	return nil
}

func (f *fakePaymentRepo) SaveWithLock(ctx context.Context, p *payment.RentPayment) error {
	return f.Save(ctx, p)
}

type fakeTenancyRepo struct {
	agreement *tenancy.TenancyAgreement
}

func (f *fakeTenancyRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.TenancyAgreement, error) {
	if f.agreement == nil || f.agreement.ID != id {
		return nil, shared.ErrNotFound
	}
	copied := *f.agreement
	return &copied, nil
}

func (f *fakeTenancyRepo) FindAll(ctx context.Context, filter tenancy.TenancyFilter) (*shared.Paginated[tenancy.TenancyAgreement], error) {
	return nil, nil
}

func (f *fakeTenancyRepo) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]tenancy.TenancyAgreement, error) {
	return nil, nil
}

func (f *fakeTenancyRepo) FindNonTerminalByProperty(ctx context.Context, propertyID uuid.UUID) (*tenancy.TenancyAgreement, error) {
	return nil, nil
}

func (f *fakeTenancyRepo) FindExpiredActive(ctx context.Context, before time.Time) ([]tenancy.TenancyAgreement, error) {
	return nil, nil
}

func (f *fakeTenancyRepo) Save(ctx context.Context, agreement *tenancy.TenancyAgreement) error {
	return nil
}

func (f *fakeTenancyRepo) SaveWithLock(ctx context.Context, agreement *tenancy.TenancyAgreement) error {
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error { return nil }

func activeAgreement(t *testing.T) *tenancy.TenancyAgreement {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	agreement, err := tenancy.NewTenancyAgreement(
		uuid.New(), uuid.New(),
		"R Patel", "r.patel@example.com",
		start, start.AddDate(1, 0, 0),
		valueobject.NewMoneyGBPFromFloat(950),
		tenancy.RentFrequencyMonthly, 1,
		valueobject.NewMoneyGBPFromFloat(1095),
		tenancy.DepositSchemeDPS,
	)
	require.NoError(t, err)
	require.NoError(t, agreement.Activate())
	agreement.ClearDomainEvents()
	return agreement
}

func newServiceUnderTest(t *testing.T, opts ...PaymentServiceOption) (*PaymentService, *fakePaymentRepo, *tenancy.TenancyAgreement) {
	t.Helper()
	paymentRepo := newFakePaymentRepo()
	agreement := activeAgreement(t)
	svc := NewPaymentService(paymentRepo, &fakeTenancyRepo{agreement: agreement}, noopPublisher{}, zap.NewNop(), opts...)
	return svc, paymentRepo, agreement
}

func period(month time.Month) (time.Time, time.Time) {
	start := time.Date(2026, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-24 * time.Hour)
}

func gbp(amount float64) valueobject.Money {
	return valueobject.NewMoneyGBPFromFloat(amount)
}

func TestPaymentService_Record_FullOnTime(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	start, end := period(time.January)

	resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "CARD",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "COMPLETED", resp.Status, "card payments settle instantly")
	assert.Equal(t, int64(1), resp.SequenceNumber)
	assert.False(t, resp.IsLate)
	assert.False(t, resp.IsPartial)
	assert.True(t, resp.RentAllocation.Equals(gbp(950)))
	assert.True(t, resp.FeesAllocation.IsZero())
	assert.True(t, resp.ArrearsAllocation.IsZero())
	assert.True(t, resp.CreditBalance.IsZero())
}

func TestPaymentService_Record_TenancyMissing(t *testing.T) {
	svc, _, _ := newServiceUnderTest(t)
	start, end := period(time.January)

	_, err := svc.Record(context.Background(), uuid.New(), RecordPaymentInput{
		Amount:      950,
		Method:      "CARD",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPaymentService_Record_PartialThenCatchUp(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	janStart, janEnd := period(time.January)
	febStart, febEnd := period(time.February)

	partial, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      500,
		Method:      "CARD",
		PaymentDate: janStart,
		PeriodStart: janStart,
		PeriodEnd:   janEnd,
	}, nil)
	require.NoError(t, err)
	assert.True(t, partial.IsPartial)
	assert.True(t, partial.RentAllocation.Equals(gbp(500)))
	assert.True(t, partial.ArrearsAllocation.IsZero(), "partial payments never pay down arrears")

	catchUp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      1400,
		Method:      "CARD",
		PaymentDate: febStart,
		PeriodStart: febStart,
		PeriodEnd:   febEnd,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), catchUp.SequenceNumber)
	assert.False(t, catchUp.IsPartial)
	assert.True(t, catchUp.RentAllocation.Equals(gbp(950)))
	assert.True(t, catchUp.ArrearsAllocation.Equals(gbp(450)), "remainder pays down January's shortfall")
	assert.True(t, catchUp.CreditBalance.IsZero())
}

func TestPaymentService_Record_PartialSkipsArrears(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	janStart, janEnd := period(time.January)
	febStart, febEnd := period(time.February)

	_, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      500,
		Method:      "CARD",
		PaymentDate: janStart,
		PeriodStart: janStart,
		PeriodEnd:   janEnd,
	}, nil)
	require.NoError(t, err)

	second, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      600,
		Method:      "CARD",
		PaymentDate: febStart,
		PeriodStart: febStart,
		PeriodEnd:   febEnd,
	}, nil)
	require.NoError(t, err)

	assert.True(t, second.IsPartial)
	assert.True(t, second.RentAllocation.Equals(gbp(600)))
	assert.True(t, second.ArrearsAllocation.IsZero(), "arrears untouched while the current rent is short")
}

func TestPaymentService_Record_OverpaymentHeldAsCredit(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	start, end := period(time.January)

	resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      1000,
		Method:      "CASH",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	assert.True(t, resp.RentAllocation.Equals(gbp(950)))
	assert.True(t, resp.CreditBalance.Equals(gbp(50)), "no arrears exist, surplus becomes credit")
}

func TestPaymentService_Record_LateFeeAssessed(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t,
		WithLateFeePolicy(payment.NewFlatLateFeePolicy(gbp(25), 3)))
	start, end := period(time.January)

	resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      975,
		Method:      "CARD",
		PaymentDate: start.AddDate(0, 0, 10),
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	assert.True(t, resp.IsLate)
	assert.Equal(t, 10, resp.DaysLate)
	assert.True(t, resp.LateFee.Equals(gbp(25)))
	assert.True(t, resp.RentAllocation.Equals(gbp(950)))
	assert.True(t, resp.FeesAllocation.Equals(gbp(25)))
}

func TestPaymentService_Record_LateInsideGraceNoFee(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t,
		WithLateFeePolicy(payment.NewFlatLateFeePolicy(gbp(25), 3)))
	start, end := period(time.January)

	resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "CARD",
		PaymentDate: start.AddDate(0, 0, 2),
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	assert.True(t, resp.IsLate)
	assert.True(t, resp.LateFee.IsZero())
	assert.True(t, resp.FeesAllocation.IsZero())
}

func TestPaymentService_ClearingSettlement(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	start, end := period(time.January)

	resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "BANK_TRANSFER",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status, "bank transfers wait for clearing")

	settled, err := svc.ConfirmSettlement(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", settled.Status)
}

func TestPaymentService_FailedSettlementLeavesPeriodInArrears(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	janStart, janEnd := period(time.January)
	febStart, febEnd := period(time.February)

	pending, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "BANK_TRANSFER",
		PaymentDate: janStart,
		PeriodStart: janStart,
		PeriodEnd:   janEnd,
	}, nil)
	require.NoError(t, err)

	_, err = svc.FailSettlement(context.Background(), pending.ID, "insufficient funds")
	require.NoError(t, err)

	// the failed payment never settled, so January's rent is still owed
	next, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      1900,
		Method:      "CARD",
		PaymentDate: febStart,
		PeriodStart: febStart,
		PeriodEnd:   febEnd,
	}, nil)
	require.NoError(t, err)
	assert.True(t, next.RentAllocation.Equals(gbp(950)))
	assert.True(t, next.ArrearsAllocation.Equals(gbp(950)))
	assert.True(t, next.CreditBalance.IsZero())
}

func TestPaymentService_Record_SkippedPeriodAccruesArrears(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	febStart, febEnd := period(time.February)

	// no payment was ever recorded for January
	resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      1900,
		Method:      "CARD",
		PaymentDate: febStart,
		PeriodStart: febStart,
		PeriodEnd:   febEnd,
	}, nil)
	require.NoError(t, err)

	assert.True(t, resp.RentAllocation.Equals(gbp(950)))
	assert.True(t, resp.ArrearsAllocation.Equals(gbp(950)), "the skipped January is owed in full")
	assert.True(t, resp.CreditBalance.IsZero())
}

func TestPaymentService_Record_PeriodGroupingIgnoresLocation(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	janStart, janEnd := period(time.January)
	febStart, febEnd := period(time.February)

	// two January payments carry the same instant in different locations,
	// as a JSON body with a +00:00 offset does against a UTC-normalized row
	wall := time.FixedZone("", 0)
	_, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      500,
		Method:      "CARD",
		PaymentDate: janStart,
		PeriodStart: janStart,
		PeriodEnd:   janEnd,
	}, nil)
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      450,
		Method:      "CARD",
		PaymentDate: janStart.In(wall),
		PeriodStart: janStart.In(wall),
		PeriodEnd:   janEnd.In(wall),
	}, nil)
	require.NoError(t, err)

	// January is fully paid between the two, so February carries no arrears
	next, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      1000,
		Method:      "CARD",
		PaymentDate: febStart,
		PeriodStart: febStart,
		PeriodEnd:   febEnd,
	}, nil)
	require.NoError(t, err)
	assert.True(t, next.ArrearsAllocation.IsZero())
	assert.True(t, next.CreditBalance.Equals(gbp(50)))
}

func TestPaymentService_Refund(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	start, end := period(time.January)

	resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "CARD",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	refunded, err := svc.Refund(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "REFUNDED", refunded.Status)
	require.NotNil(t, refunded.RefundedAt)

	// refund cannot be repeated
	_, err = svc.Refund(context.Background(), resp.ID)
	assert.Error(t, err)
}

func TestPaymentService_CancelPendingOnly(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)
	start, end := period(time.January)

	pending, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "BANK_TRANSFER",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), pending.ID, "duplicate entry")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	completed, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "CARD",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), completed.ID, "too late")
	assert.Error(t, err, "completed payments cannot be cancelled")
}

func TestPaymentService_MarkOverdueSweep(t *testing.T) {
	svc, paymentRepo, agreement := newServiceUnderTest(t)
	start, end := period(time.January)

	pending, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
		Amount:      950,
		Method:      "BANK_TRANSFER",
		PaymentDate: start,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	count, err := svc.MarkOverdue(context.Background(), start.AddDate(0, 0, 14))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := paymentRepo.FindByID(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.PaymentStatusOverdue, stored.Status)

	// overdue payments can still settle
	settled, err := svc.ConfirmSettlement(context.Background(), pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", settled.Status)
}

func TestPaymentService_SequenceNumbersMonotonic(t *testing.T) {
	svc, _, agreement := newServiceUnderTest(t)

	for i, month := range []time.Month{time.January, time.February, time.March} {
		start, end := period(month)
		resp, err := svc.Record(context.Background(), agreement.ID, RecordPaymentInput{
			Amount:      950,
			Method:      "CARD",
			PaymentDate: start,
			PeriodStart: start,
			PeriodEnd:   end,
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), resp.SequenceNumber)
	}
}
