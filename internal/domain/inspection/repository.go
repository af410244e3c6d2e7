package inspection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// InspectionFilter defines filtering options for inspection queries
type InspectionFilter struct {
	shared.Filter
	PropertyID *uuid.UUID        // Filter by property
	LandlordID *uuid.UUID        // Filter by landlord
	Status     *InspectionStatus // Filter by status
	Type       *InspectionType   // Filter by inspection type
	FromDate   *time.Time        // Scheduled date range start
	ToDate     *time.Time        // Scheduled date range end
}

// InspectionRepository defines the interface for property inspection persistence
type InspectionRepository interface {
	// FindByID finds an inspection by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PropertyInspection, error)

	// FindByReference finds an inspection by its INS reference
	FindByReference(ctx context.Context, reference string) (*PropertyInspection, error)

	// FindAll finds inspections with filtering and pagination
	FindAll(ctx context.Context, filter InspectionFilter) (*shared.Paginated[PropertyInspection], error)

	// FindByProperty finds all inspections for a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]PropertyInspection, error)

	// Save creates or updates an inspection
	Save(ctx context.Context, inspection *PropertyInspection) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, inspection *PropertyInspection) error
}
