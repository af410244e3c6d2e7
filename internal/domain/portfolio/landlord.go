package portfolio

import (
	"time"

	"github.com/lettings/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LandlordType classifies the legal form of a landlord
type LandlordType string

const (
	LandlordTypeIndividual  LandlordType = "INDIVIDUAL"
	LandlordTypeCompany     LandlordType = "COMPANY"
	LandlordTypeTrust       LandlordType = "TRUST"
	LandlordTypePartnership LandlordType = "PARTNERSHIP"
)

// IsValid checks if the landlord type is valid
func (t LandlordType) IsValid() bool {
	switch t {
	case LandlordTypeIndividual, LandlordTypeCompany, LandlordTypeTrust, LandlordTypePartnership:
		return true
	}
	return false
}

// String returns the string representation of LandlordType
func (t LandlordType) String() string {
	return string(t)
}

// LandlordStatus represents the account status of a landlord
type LandlordStatus string

const (
	LandlordStatusActive              LandlordStatus = "ACTIVE"
	LandlordStatusInactive            LandlordStatus = "INACTIVE"
	LandlordStatusSuspended           LandlordStatus = "SUSPENDED"
	LandlordStatusPendingVerification LandlordStatus = "PENDING_VERIFICATION"
)

// IsValid checks if the status is a valid LandlordStatus
func (s LandlordStatus) IsValid() bool {
	switch s {
	case LandlordStatusActive, LandlordStatusInactive, LandlordStatusSuspended, LandlordStatusPendingVerification:
		return true
	}
	return false
}

// String returns the string representation of LandlordStatus
func (s LandlordStatus) String() string {
	return string(s)
}

// PortfolioBucket groups landlords by the size of their property portfolio
type PortfolioBucket string

const (
	PortfolioBucketNone   PortfolioBucket = "NONE"   // 0 properties
	PortfolioBucketSmall  PortfolioBucket = "SMALL"  // 1-3 properties
	PortfolioBucketMedium PortfolioBucket = "MEDIUM" // 4-10 properties
	PortfolioBucketLarge  PortfolioBucket = "LARGE"  // 11+ properties
)

// BucketForCount returns the portfolio bucket for a property count
func BucketForCount(count int64) PortfolioBucket {
	switch {
	case count <= 0:
		return PortfolioBucketNone
	case count <= 3:
		return PortfolioBucketSmall
	case count <= 10:
		return PortfolioBucketMedium
	default:
		return PortfolioBucketLarge
	}
}

// Landlord represents a landlord aggregate root. It owns properties,
// tenancies, payments, maintenance requests, inspections and financial
// reports by reference, not containment.
type Landlord struct {
	shared.AuditedAggregateRoot
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Type               LandlordType    `json:"type"`
	Status             LandlordStatus  `json:"status"`
	PortfolioBucket    PortfolioBucket `json:"portfolio_bucket"`
	TotalProperties    int64           `json:"total_properties"`
	OccupiedProperties int64           `json:"occupied_properties"`
	OccupancyRate      decimal.Decimal `json:"occupancy_rate"`
}

// NewLandlord creates a new landlord in PENDING_VERIFICATION status
func NewLandlord(name, email, phone string, landlordType LandlordType) (*Landlord, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Landlord name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Landlord name cannot exceed 200 characters")
	}
	if !landlordType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LANDLORD_TYPE", "Landlord type is not valid")
	}

	l := &Landlord{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		Name:                 name,
		Email:                email,
		Phone:                phone,
		Type:                 landlordType,
		Status:               LandlordStatusPendingVerification,
		PortfolioBucket:      PortfolioBucketNone,
		TotalProperties:      0,
		OccupiedProperties:   0,
		OccupancyRate:        decimal.Zero,
	}

	l.AddDomainEvent(NewLandlordCreatedEvent(l))

	return l, nil
}

// Activate transitions the landlord to ACTIVE
func (l *Landlord) Activate() error {
	if l.Status == LandlordStatusActive {
		return nil
	}
	l.Status = LandlordStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Suspend transitions the landlord to SUSPENDED
func (l *Landlord) Suspend() error {
	if l.Status == LandlordStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Cannot suspend an inactive landlord")
	}
	l.Status = LandlordStatusSuspended
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Deactivate transitions the landlord to INACTIVE
func (l *Landlord) Deactivate() error {
	l.Status = LandlordStatusInactive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// ApplyRollup replaces the derived portfolio counters with freshly computed
// values. Counters are always recomputed from the property repository, never
// incremented in place, so concurrent writes cannot make them drift.
func (l *Landlord) ApplyRollup(totalProperties, occupiedProperties int64) {
	l.TotalProperties = totalProperties
	l.OccupiedProperties = occupiedProperties
	if totalProperties > 0 {
		l.OccupancyRate = decimal.NewFromInt(occupiedProperties).
			Div(decimal.NewFromInt(totalProperties)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	} else {
		l.OccupancyRate = decimal.Zero
	}
	l.PortfolioBucket = BucketForCount(totalProperties)
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsActive returns true if the landlord is active
func (l *Landlord) IsActive() bool {
	return l.Status == LandlordStatusActive
}
