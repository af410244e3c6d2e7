package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
)

// LandlordFilter defines filtering options for landlord queries
type LandlordFilter struct {
	shared.Filter
	Status *LandlordStatus // Filter by status
	Type   *LandlordType   // Filter by legal form
}

// LandlordRepository defines the interface for landlord persistence
type LandlordRepository interface {
	// FindByID finds a landlord by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Landlord, error)

	// FindAll finds landlords with filtering and pagination
	FindAll(ctx context.Context, filter LandlordFilter) (*shared.Paginated[Landlord], error)

	// Save creates or updates a landlord
	Save(ctx context.Context, landlord *Landlord) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, landlord *Landlord) error

	// Exists checks whether a landlord with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PropertyFilter defines filtering options for property queries
type PropertyFilter struct {
	shared.Filter
	LandlordID *uuid.UUID      // Filter by owning landlord
	Status     *PropertyStatus // Filter by status
	Type       *PropertyType   // Filter by dwelling type
	City       string          // Filter by city
	Postcode   string          // Filter by postcode prefix
}

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	// FindByID finds a property by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)

	// FindAll finds properties with filtering and pagination
	FindAll(ctx context.Context, filter PropertyFilter) (*shared.Paginated[Property], error)

	// FindByLandlord finds all properties owned by a landlord
	FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]Property, error)

	// CountByLandlord counts all non-terminal properties owned by a landlord
	CountByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error)

	// CountOccupiedByLandlord counts a landlord's properties in OCCUPIED status
	CountOccupiedByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error)

	// Save creates or updates a property
	Save(ctx context.Context, property *Property) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, property *Property) error
}
