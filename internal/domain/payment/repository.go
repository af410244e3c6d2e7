package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// PaymentFilter defines filtering options for rent payment queries
type PaymentFilter struct {
	shared.Filter
	TenancyID  *uuid.UUID     // Filter by tenancy
	PropertyID *uuid.UUID     // Filter by property
	LandlordID *uuid.UUID     // Filter by landlord
	Status     *PaymentStatus // Filter by status
	Method     *PaymentMethod // Filter by payment method
	IsLate     *bool          // Filter late payments only
	FromDate   *time.Time     // Payment date range start
	ToDate     *time.Time     // Payment date range end
}

// PaymentRepository defines the interface for rent payment persistence
type PaymentRepository interface {
	// FindByID finds a rent payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*RentPayment, error)

	// FindAll finds rent payments with filtering and pagination
	FindAll(ctx context.Context, filter PaymentFilter) (*shared.Paginated[RentPayment], error)

	// FindByTenancy finds all payments for a tenancy ordered by sequence number
	FindByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]RentPayment, error)

	// NextSequenceNumber returns the next monotonic sequence number for a
	// tenancy. Callers must hold the per-tenancy lock.
	NextSequenceNumber(ctx context.Context, tenancyID uuid.UUID) (int64, error)

	// FindCompletedForLandlordInPeriod finds completed payments for a
	// landlord with a payment date inside [from, to]. Used by reconciliation.
	FindCompletedForLandlordInPeriod(ctx context.Context, landlordID uuid.UUID, from, to time.Time) ([]RentPayment, error)

	// FindOverduePending finds pending payments whose due date precedes the
	// given instant. Used by the overdue sweep.
	FindOverduePending(ctx context.Context, before time.Time) ([]RentPayment, error)

	// Save creates or updates a rent payment
	Save(ctx context.Context, payment *RentPayment) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, payment *RentPayment) error
}
