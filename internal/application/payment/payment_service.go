package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/application/lock"
	"github.com/lettings/backend/internal/domain/payment"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/lettings/backend/internal/domain/tenancy"
	"go.uber.org/zap"
)

// PaymentService owns the rent payment ledger. It is the only writer of
// RentPayment fields. Payments for the same tenancy are serialized by a
// per-tenancy mutex and stamped with a monotonic sequence number, so
// allocation always observes the arrears left by every prior payment.
type PaymentService struct {
	paymentRepo    payment.PaymentRepository
	tenancyRepo    tenancy.TenancyRepository
	eventPublisher shared.EventPublisher
	lateFeePolicy  payment.LateFeePolicy
	tenancyLocks   *lock.KeyedMutex
	logger         *zap.Logger
}

// PaymentServiceOption is a functional option for configuring PaymentService
type PaymentServiceOption func(*PaymentService)

// WithLateFeePolicy sets the late fee policy applied to late payments
func WithLateFeePolicy(policy payment.LateFeePolicy) PaymentServiceOption {
	return func(s *PaymentService) {
		s.lateFeePolicy = policy
	}
}

// NewPaymentService creates a new PaymentService. The default late fee
// policy charges nothing.
func NewPaymentService(
	paymentRepo payment.PaymentRepository,
	tenancyRepo tenancy.TenancyRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...PaymentServiceOption,
) *PaymentService {
	s := &PaymentService{
		paymentRepo:    paymentRepo,
		tenancyRepo:    tenancyRepo,
		eventPublisher: eventPublisher,
		lateFeePolicy:  payment.NewNoLateFeePolicy(),
		tenancyLocks:   lock.NewKeyedMutex(),
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PaymentResponse represents a rent payment in API responses
type PaymentResponse struct {
	ID                uuid.UUID         `json:"id"`
	TenancyID         uuid.UUID         `json:"tenancy_id"`
	PropertyID        uuid.UUID         `json:"property_id"`
	LandlordID        uuid.UUID         `json:"landlord_id"`
	ParentPaymentID   *uuid.UUID        `json:"parent_payment_id,omitempty"`
	SequenceNumber    int64             `json:"sequence_number"`
	Amount            valueobject.Money `json:"amount"`
	Method            string            `json:"method"`
	Status            string            `json:"status"`
	PaymentDate       time.Time         `json:"payment_date"`
	DueDate           time.Time         `json:"due_date"`
	PeriodStart       time.Time         `json:"period_start"`
	PeriodEnd         time.Time         `json:"period_end"`
	IsLate            bool              `json:"is_late"`
	DaysLate          int               `json:"days_late"`
	IsPartial         bool              `json:"is_partial"`
	LateFee           valueobject.Money `json:"late_fee"`
	RentAllocation    valueobject.Money `json:"rent_allocation"`
	FeesAllocation    valueobject.Money `json:"fees_allocation"`
	ArrearsAllocation valueobject.Money `json:"arrears_allocation"`
	CreditBalance     valueobject.Money `json:"credit_balance"`
	FailureReason     string            `json:"failure_reason,omitempty"`
	RefundedAt        *time.Time        `json:"refunded_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
	Version           int               `json:"version"`
}

// RecordPaymentInput carries the fields for recording a rent payment
type RecordPaymentInput struct {
	Amount          float64    `json:"amount" binding:"required,gt=0"`
	Method          string     `json:"method" binding:"required"`
	PaymentDate     time.Time  `json:"payment_date" binding:"required"`
	PeriodStart     time.Time  `json:"period_start" binding:"required"`
	PeriodEnd       time.Time  `json:"period_end" binding:"required"`
	ParentPaymentID *uuid.UUID `json:"parent_payment_id"`
}

// Record records a rent payment against a tenancy, derives lateness and the
// late fee, and allocates the amount rent → fees → arrears with any remainder
// held as credit. Instant methods settle immediately; clearing methods stay
// PENDING until settlement is confirmed out of band.
func (s *PaymentService) Record(ctx context.Context, tenancyID uuid.UUID, input RecordPaymentInput, actorID *uuid.UUID) (*PaymentResponse, error) {
	s.tenancyLocks.Lock(tenancyID.String())
	defer s.tenancyLocks.Unlock(tenancyID.String())

	agreement, err := s.tenancyRepo.FindByID(ctx, tenancyID)
	if err != nil {
		return nil, err
	}

	seq, err := s.paymentRepo.NextSequenceNumber(ctx, tenancyID)
	if err != nil {
		return nil, err
	}

	dueDate := agreement.RentDueDate(input.PeriodStart)
	p, err := payment.NewRentPayment(
		agreement.ID, agreement.PropertyID, agreement.LandlordID,
		valueobject.NewMoneyGBPFromFloat(input.Amount),
		payment.PaymentMethod(input.Method),
		input.PaymentDate, dueDate, input.PeriodStart, input.PeriodEnd,
		seq,
	)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		p.SetCreatedBy(*actorID)
	}
	if input.ParentPaymentID != nil {
		if err := p.ChainToParent(*input.ParentPaymentID); err != nil {
			return nil, err
		}
	}

	lateFee := valueobject.ZeroGBP()
	if p.IsLate {
		lateFee = s.lateFeePolicy.Assess(p.DaysLate, agreement.RentAmount)
	}

	arrears, err := s.outstandingArrears(ctx, agreement, input.PeriodStart)
	if err != nil {
		return nil, err
	}

	if err := p.Allocate(agreement.RentAmount, arrears, lateFee); err != nil {
		return nil, err
	}

	if p.Method.SettlesInstantly() {
		if err := p.MarkCompleted(); err != nil {
			return nil, err
		}
	}

	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)

	s.logger.Info("payment recorded",
		zap.String("payment_id", p.ID.String()),
		zap.String("tenancy_id", tenancyID.String()),
		zap.Int64("sequence", p.SequenceNumber),
		zap.String("status", p.Status.String()),
		zap.Bool("is_late", p.IsLate),
		zap.Bool("is_partial", p.IsPartial))

	return toPaymentResponse(p), nil
}

// outstandingArrears computes the arrears position over every billing
// period from the start of the tenancy up to, but not including, the period
// beginning at before: the shortfall between the rent due and the rent
// actually allocated, less everything already paid off through arrears
// allocations. A period with no payment rows at all is fully in arrears.
// Failed, cancelled and refunded payments do not count.
func (s *PaymentService) outstandingArrears(ctx context.Context, agreement *tenancy.TenancyAgreement, before time.Time) (valueobject.Money, error) {
	history, err := s.paymentRepo.FindByTenancy(ctx, agreement.ID)
	if err != nil {
		return valueobject.ZeroGBP(), err
	}

	rentPerPeriod := make(map[time.Time]valueobject.Money)
	arrearsPaid := valueobject.ZeroGBP()
	for i := range history {
		p := &history[i]
		if p.Status.IsTerminal() {
			continue
		}
		key := billingDate(p.PeriodStart)
		if existing, ok := rentPerPeriod[key]; ok {
			rentPerPeriod[key] = existing.MustAdd(p.RentAllocation)
		} else {
			rentPerPeriod[key] = p.RentAllocation
		}
		arrearsPaid = arrearsPaid.MustAdd(p.ArrearsAllocation)
	}

	shortfall := valueobject.ZeroGBP()
	limit := billingDate(before)
	for start := billingDate(agreement.StartDate); start.Before(limit); start = agreement.RentFrequency.Advance(start) {
		next := agreement.RentFrequency.Advance(start)
		allocated := valueobject.ZeroGBP()
		for key, amount := range rentPerPeriod {
			if !key.Before(start) && key.Before(next) {
				allocated = allocated.MustAdd(amount)
			}
		}
		if allocated.Amount().LessThan(agreement.RentAmount.Amount()) {
			shortfall = shortfall.MustAdd(agreement.RentAmount.MustSubtract(allocated))
		}
	}

	outstanding := shortfall.MustSubtract(arrearsPaid)
	if outstanding.IsNegative() {
		return valueobject.ZeroGBP(), nil
	}
	return outstanding, nil
}

// billingDate normalizes a period boundary to a UTC date so that the same
// instant carried in different locations lands in one billing period.
func billingDate(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// ConfirmSettlement marks a clearing payment as settled
func (s *PaymentService) ConfirmSettlement(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.MarkCompleted(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)
	return toPaymentResponse(p), nil
}

// FailSettlement records a settlement failure reported by the clearing system
func (s *PaymentService) FailSettlement(ctx context.Context, id uuid.UUID, reason string) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.MarkFailed(reason); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)
	return toPaymentResponse(p), nil
}

// Refund reverses a completed payment
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Refund(); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)

	s.logger.Info("payment refunded", zap.String("payment_id", p.ID.String()))
	return toPaymentResponse(p), nil
}

// Cancel voids a payment before it settles
func (s *PaymentService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)
	return toPaymentResponse(p), nil
}

// Get gets a rent payment by ID
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// List lists rent payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, filter payment.PaymentFilter) (*shared.Paginated[PaymentResponse], error) {
	page, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toPaymentResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// MarkOverdue flags pending payments whose due date has passed. Called by
// the scheduled sweep. Returns the number of payments flagged.
func (s *PaymentService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := s.paymentRepo.FindOverduePending(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range overdue {
		p := &overdue[i]
		if err := p.MarkOverdue(now); err != nil {
			continue
		}
		if err := s.paymentRepo.SaveWithLock(ctx, p); err != nil {
			s.logger.Warn("failed to persist overdue flag",
				zap.String("payment_id", p.ID.String()), zap.Error(err))
			continue
		}
		count++
	}

	if count > 0 {
		s.logger.Info("payments flagged overdue by sweep", zap.Int("count", count))
	}
	return count, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	for _, event := range aggregate.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	aggregate.ClearDomainEvents()
}

func toPaymentResponse(p *payment.RentPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:                p.ID,
		TenancyID:         p.TenancyID,
		PropertyID:        p.PropertyID,
		LandlordID:        p.LandlordID,
		ParentPaymentID:   p.ParentPaymentID,
		SequenceNumber:    p.SequenceNumber,
		Amount:            p.Amount,
		Method:            p.Method.String(),
		Status:            p.Status.String(),
		PaymentDate:       p.PaymentDate,
		DueDate:           p.DueDate,
		PeriodStart:       p.PeriodStart,
		PeriodEnd:         p.PeriodEnd,
		IsLate:            p.IsLate,
		DaysLate:          p.DaysLate,
		IsPartial:         p.IsPartial,
		LateFee:           p.LateFee,
		RentAllocation:    p.RentAllocation,
		FeesAllocation:    p.FeesAllocation,
		ArrearsAllocation: p.ArrearsAllocation,
		CreditBalance:     p.CreditBalance,
		FailureReason:     p.FailureReason,
		RefundedAt:        p.RefundedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		Version:           p.Version,
	}
}
