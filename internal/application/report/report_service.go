package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/maintenance"
	"github.com/lettings/backend/internal/domain/payment"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/report"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ClaimStore serializes report generation per (landlord, period) key.
// Claim returns false while another generation holds the key.
type ClaimStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// defaultClaimTTL bounds how long a crashed generation can hold its key
const defaultClaimTTL = 10 * time.Minute

// ReportService owns financial report generation. It is the only writer of
// FinancialReport rows. Generation is asynchronous: the caller gets the
// GENERATING row back immediately and polls by report ID.
type ReportService struct {
	reportRepo      report.ReportRepository
	paymentRepo     payment.PaymentRepository
	maintenanceRepo maintenance.RequestRepository
	landlordRepo    portfolio.LandlordRepository
	claims          ClaimStore
	claimTTL        time.Duration
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// ReportServiceOption is a functional option for configuring ReportService
type ReportServiceOption func(*ReportService)

// WithClaimTTL overrides how long a generation claim survives a crash
func WithClaimTTL(ttl time.Duration) ReportServiceOption {
	return func(s *ReportService) {
		if ttl > 0 {
			s.claimTTL = ttl
		}
	}
}

// NewReportService creates a new ReportService
func NewReportService(
	reportRepo report.ReportRepository,
	paymentRepo payment.PaymentRepository,
	maintenanceRepo maintenance.RequestRepository,
	landlordRepo portfolio.LandlordRepository,
	claims ClaimStore,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...ReportServiceOption,
) *ReportService {
	s := &ReportService{
		reportRepo:      reportRepo,
		paymentRepo:     paymentRepo,
		maintenanceRepo: maintenanceRepo,
		landlordRepo:    landlordRepo,
		claims:          claims,
		claimTTL:        defaultClaimTTL,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReportResponse represents a financial report in API responses
type ReportResponse struct {
	ID           uuid.UUID           `json:"id"`
	Reference    string              `json:"reference"`
	LandlordID   uuid.UUID           `json:"landlord_id"`
	PeriodStart  time.Time           `json:"period_start"`
	PeriodEnd    time.Time           `json:"period_end"`
	Status       string              `json:"status"`
	Totals       report.ReportTotals `json:"totals"`
	GeneratedAt  *time.Time          `json:"generated_at,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
	ErrorDate    *time.Time          `json:"error_date,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Version      int                 `json:"version"`
}

// GenerateReportInput carries the reporting period
type GenerateReportInput struct {
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}

// Generate claims the (landlord, period) key, persists a GENERATING report
// row and returns it immediately. Aggregation runs in the background and
// writes COMPLETED totals or FAILED with the captured error. A second
// request for the same key while generation is in flight gets Conflict.
func (s *ReportService) Generate(ctx context.Context, landlordID uuid.UUID, input GenerateReportInput, actorID *uuid.UUID) (*ReportResponse, error) {
	exists, err := s.landlordRepo.Exists(ctx, landlordID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("NOT_FOUND", "Landlord not found")
	}

	r, err := report.NewFinancialReport(landlordID, input.PeriodStart, input.PeriodEnd)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		r.SetCreatedBy(*actorID)
	}

	key := claimKey(landlordID, input.PeriodStart, input.PeriodEnd)
	claimed, err := s.claims.Claim(ctx, key, s.claimTTL)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, shared.NewDomainError("CONFLICT", "Report generation already in progress for this landlord and period")
	}

	if err := s.reportRepo.Save(ctx, r); err != nil {
		if releaseErr := s.claims.Release(ctx, key); releaseErr != nil {
			s.logger.Error("failed to release report claim", zap.String("key", key), zap.Error(releaseErr))
		}
		return nil, err
	}
	s.publishEvents(ctx, r)

	s.logger.Info("report generation started",
		zap.String("report_id", r.ID.String()),
		zap.String("reference", r.Reference),
		zap.String("landlord_id", landlordID.String()))

	// fire and forget; the caller polls by report ID. Detached from the
	// request context so a client disconnect cannot abort aggregation.
	go s.generate(context.WithoutCancel(ctx), r.ID, key)

	return toReportResponse(r), nil
}

// generate runs the aggregation and always leaves the report in a terminal
// status. Panics are captured into the report row.
func (s *ReportService) generate(ctx context.Context, reportID uuid.UUID, key string) {
	defer func() {
		if releaseErr := s.claims.Release(ctx, key); releaseErr != nil {
			s.logger.Error("failed to release report claim", zap.String("key", key), zap.Error(releaseErr))
		}
	}()
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("report generation panicked",
				zap.String("report_id", reportID.String()), zap.Any("panic", rec))
			s.failReport(ctx, reportID, fmt.Sprintf("generation panicked: %v", rec))
		}
	}()

	r, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		s.logger.Error("report row vanished before aggregation",
			zap.String("report_id", reportID.String()), zap.Error(err))
		return
	}

	totals, err := s.aggregate(ctx, r)
	if err != nil {
		s.failReport(ctx, reportID, err.Error())
		return
	}

	if err := r.MarkCompleted(totals); err != nil {
		s.failReport(ctx, reportID, err.Error())
		return
	}
	if err := s.reportRepo.SaveWithLock(ctx, r); err != nil {
		s.logger.Error("failed to persist completed report",
			zap.String("report_id", reportID.String()), zap.Error(err))
		return
	}
	s.publishEvents(ctx, r)

	s.logger.Info("report generation completed",
		zap.String("report_id", r.ID.String()),
		zap.String("net_rental_income", r.Totals.NetRentalIncome.String()))
}

// aggregate sums completed payments and completed maintenance costs for the
// landlord inside the report period
func (s *ReportService) aggregate(ctx context.Context, r *report.FinancialReport) (report.ReportTotals, error) {
	payments, err := s.paymentRepo.FindCompletedForLandlordInPeriod(ctx, r.LandlordID, r.PeriodStart, r.PeriodEnd)
	if err != nil {
		return report.ReportTotals{}, fmt.Errorf("fetching completed payments: %w", err)
	}

	rentalIncome := valueobject.ZeroGBP()
	feeIncome := valueobject.ZeroGBP()
	for i := range payments {
		p := &payments[i]
		feeIncome = feeIncome.MustAdd(p.FeesAllocation)
		rentalIncome = rentalIncome.MustAdd(p.Amount.MustSubtract(p.FeesAllocation))
	}

	requests, err := s.maintenanceRepo.FindCompletedForLandlordInPeriod(ctx, r.LandlordID, r.PeriodStart, r.PeriodEnd)
	if err != nil {
		return report.ReportTotals{}, fmt.Errorf("fetching completed maintenance: %w", err)
	}

	maintenanceCosts := valueobject.ZeroGBP()
	for i := range requests {
		if requests[i].ActualCost != nil {
			maintenanceCosts = maintenanceCosts.MustAdd(*requests[i].ActualCost)
		}
	}

	return report.BuildTotals(rentalIncome, feeIncome, maintenanceCosts, len(payments), len(requests)), nil
}

func (s *ReportService) failReport(ctx context.Context, reportID uuid.UUID, message string) {
	r, err := s.reportRepo.FindByID(ctx, reportID)
	if err != nil {
		s.logger.Error("cannot load report to record failure",
			zap.String("report_id", reportID.String()), zap.Error(err))
		return
	}
	if err := r.MarkFailed(message); err != nil {
		return
	}
	if err := s.reportRepo.SaveWithLock(ctx, r); err != nil {
		s.logger.Error("failed to persist report failure",
			zap.String("report_id", reportID.String()), zap.Error(err))
		return
	}
	s.publishEvents(ctx, r)

	s.logger.Warn("report generation failed",
		zap.String("report_id", reportID.String()),
		zap.String("error", message))
}

// Get gets a financial report by ID
func (s *ReportService) Get(ctx context.Context, id uuid.UUID) (*ReportResponse, error) {
	r, err := s.reportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReportResponse(r), nil
}

// List lists financial reports with filtering and pagination
func (s *ReportService) List(ctx context.Context, filter report.ReportFilter) (*shared.Paginated[ReportResponse], error) {
	page, err := s.reportRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReportResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toReportResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// SweepStuck fails reports left in GENERATING beyond the timeout. There is
// no cancel signal for generation; the sweep is the bound. Returns the
// number of reports failed.
func (s *ReportService) SweepStuck(ctx context.Context, now time.Time, timeout time.Duration) (int, error) {
	stuck, err := s.reportRepo.FindStuckGenerating(ctx, now.Add(-timeout))
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range stuck {
		r := &stuck[i]
		if err := r.MarkFailed("generation timed out"); err != nil {
			continue
		}
		if err := s.reportRepo.SaveWithLock(ctx, r); err != nil {
			s.logger.Warn("failed to persist stuck-report failure",
				zap.String("report_id", r.ID.String()), zap.Error(err))
			continue
		}
		s.publishEvents(ctx, r)

		key := claimKey(r.LandlordID, r.PeriodStart, r.PeriodEnd)
		if err := s.claims.Release(ctx, key); err != nil {
			s.logger.Warn("failed to release claim for stuck report",
				zap.String("key", key), zap.Error(err))
		}
		count++
	}

	if count > 0 {
		s.logger.Info("stuck reports failed by sweep", zap.Int("count", count))
	}
	return count, nil
}

func (s *ReportService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	for _, event := range aggregate.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	aggregate.ClearDomainEvents()
}

func claimKey(landlordID uuid.UUID, periodStart, periodEnd time.Time) string {
	return fmt.Sprintf("report:%s:%s:%s",
		landlordID, periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"))
}

func toReportResponse(r *report.FinancialReport) *ReportResponse {
	return &ReportResponse{
		ID:           r.ID,
		Reference:    r.Reference,
		LandlordID:   r.LandlordID,
		PeriodStart:  r.PeriodStart,
		PeriodEnd:    r.PeriodEnd,
		Status:       r.Status.String(),
		Totals:       r.Totals,
		GeneratedAt:  r.GeneratedAt,
		ErrorMessage: r.ErrorMessage,
		ErrorDate:    r.ErrorDate,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}
