package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// ReportFilter defines filtering options for financial report queries
type ReportFilter struct {
	shared.Filter
	LandlordID *uuid.UUID    // Filter by landlord
	Status     *ReportStatus // Filter by status
	FromDate   *time.Time    // Period start range
	ToDate     *time.Time    // Period end range
}

// ReportRepository defines the interface for financial report persistence
type ReportRepository interface {
	// FindByID finds a financial report by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialReport, error)

	// FindByReference finds a financial report by its RPT reference
	FindByReference(ctx context.Context, reference string) (*FinancialReport, error)

	// FindAll finds financial reports with filtering and pagination
	FindAll(ctx context.Context, filter ReportFilter) (*shared.Paginated[FinancialReport], error)

	// FindByLandlordAndPeriod finds a report for the exact landlord/period
	// pair, if one exists
	FindByLandlordAndPeriod(ctx context.Context, landlordID uuid.UUID, periodStart, periodEnd time.Time) (*FinancialReport, error)

	// FindStuckGenerating finds reports in GENERATING created before the
	// given cutoff. Used by the sweep.
	FindStuckGenerating(ctx context.Context, createdBefore time.Time) ([]FinancialReport, error)

	// Save creates or updates a financial report
	Save(ctx context.Context, report *FinancialReport) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, report *FinancialReport) error
}
