package tenancy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// TenancyFilter defines filtering options for tenancy queries
type TenancyFilter struct {
	shared.Filter
	PropertyID *uuid.UUID     // Filter by property
	LandlordID *uuid.UUID     // Filter by landlord
	Status     *TenancyStatus // Filter by status
	ActiveOn   *time.Time     // Tenancies whose term covers this date
}

// TenancyRepository defines the interface for tenancy agreement persistence
type TenancyRepository interface {
	// FindByID finds a tenancy agreement by ID
	FindByID(ctx context.Context, id uuid.UUID) (*TenancyAgreement, error)

	// FindAll finds tenancy agreements with filtering and pagination
	FindAll(ctx context.Context, filter TenancyFilter) (*shared.Paginated[TenancyAgreement], error)

	// FindByProperty finds all tenancy agreements for a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]TenancyAgreement, error)

	// FindNonTerminalByProperty finds the tenancy currently holding the
	// property, if any. At most one may exist.
	FindNonTerminalByProperty(ctx context.Context, propertyID uuid.UUID) (*TenancyAgreement, error)

	// FindExpiredActive finds active tenancies whose end date precedes the
	// given instant. Used by the expiry sweep.
	FindExpiredActive(ctx context.Context, before time.Time) ([]TenancyAgreement, error)

	// Save creates or updates a tenancy agreement
	Save(ctx context.Context, agreement *TenancyAgreement) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, agreement *TenancyAgreement) error
}
