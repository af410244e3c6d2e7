package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// RequestFilter defines filtering options for maintenance request queries
type RequestFilter struct {
	shared.Filter
	PropertyID *uuid.UUID     // Filter by property
	LandlordID *uuid.UUID     // Filter by landlord
	Status     *RequestStatus // Filter by status
	Priority   *Priority      // Filter by priority
	Category   *Category      // Filter by category
	Critical   *bool          // Filter urgent/emergency requests only
}

// RequestRepository defines the interface for maintenance request persistence
type RequestRepository interface {
	// FindByID finds a maintenance request by ID
	FindByID(ctx context.Context, id uuid.UUID) (*MaintenanceRequest, error)

	// FindByReference finds a maintenance request by its MNT reference
	FindByReference(ctx context.Context, reference string) (*MaintenanceRequest, error)

	// FindAll finds maintenance requests with filtering and pagination
	FindAll(ctx context.Context, filter RequestFilter) (*shared.Paginated[MaintenanceRequest], error)

	// FindByProperty finds all requests for a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]MaintenanceRequest, error)

	// FindCompletedForLandlordInPeriod finds completed requests for a
	// landlord whose completed date falls inside [from, to]. Used by
	// reconciliation.
	FindCompletedForLandlordInPeriod(ctx context.Context, landlordID uuid.UUID, from, to time.Time) ([]MaintenanceRequest, error)

	// Save creates or updates a maintenance request
	Save(ctx context.Context, request *MaintenanceRequest) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, request *MaintenanceRequest) error
}
