package portfolio

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// PropertyType classifies the kind of dwelling
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeFlat       PropertyType = "FLAT"
	PropertyTypeBungalow   PropertyType = "BUNGALOW"
	PropertyTypeMaisonette PropertyType = "MAISONETTE"
	PropertyTypeStudio     PropertyType = "STUDIO"
)

// IsValid checks if the property type is valid
func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeFlat, PropertyTypeBungalow, PropertyTypeMaisonette, PropertyTypeStudio:
		return true
	}
	return false
}

// String returns the string representation of PropertyType
func (t PropertyType) String() string {
	return string(t)
}

// PropertyStatus represents the occupancy and availability state of a property
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "AVAILABLE"
	PropertyStatusOccupied    PropertyStatus = "OCCUPIED"
	PropertyStatusMaintenance PropertyStatus = "MAINTENANCE"
	PropertyStatusRenovation  PropertyStatus = "RENOVATION"
	PropertyStatusSold        PropertyStatus = "SOLD"
	PropertyStatusWithdrawn   PropertyStatus = "WITHDRAWN"
)

// IsValid checks if the status is a valid PropertyStatus
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusOccupied, PropertyStatusMaintenance,
		PropertyStatusRenovation, PropertyStatusSold, PropertyStatusWithdrawn:
		return true
	}
	return false
}

// IsTerminal returns true if the property has left the lettable portfolio
func (s PropertyStatus) IsTerminal() bool {
	return s == PropertyStatusSold || s == PropertyStatusWithdrawn
}

// String returns the string representation of PropertyStatus
func (s PropertyStatus) String() string {
	return string(s)
}

// Property represents a lettable property aggregate root. It belongs to
// exactly one landlord and carries at most one current tenant reference.
// Status and CurrentTenantID are mutated only through the occupancy methods
// below; the tenancy service is the sole caller of MarkOccupied/MarkVacant.
type Property struct {
	shared.AuditedAggregateRoot
	LandlordID      uuid.UUID         `json:"landlord_id"`
	AddressLine1    string            `json:"address_line1"`
	AddressLine2    string            `json:"address_line2"`
	City            string            `json:"city"`
	Postcode        string            `json:"postcode"`
	Type            PropertyType      `json:"type"`
	Bedrooms        int               `json:"bedrooms"`
	Status          PropertyStatus    `json:"status"`
	CurrentTenantID *uuid.UUID        `json:"current_tenant_id,omitempty"`
	PurchasePrice   valueobject.Money `json:"purchase_price"`
	MonthlyRent     valueobject.Money `json:"monthly_rent"`
	MonthlyMortgage valueobject.Money `json:"monthly_mortgage"`
	Notes           string            `json:"notes"`
}

// NewProperty creates a new property in AVAILABLE status
func NewProperty(landlordID uuid.UUID, addressLine1, city, postcode string, propertyType PropertyType, bedrooms int) (*Property, error) {
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord ID is required")
	}
	if addressLine1 == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address line 1 cannot be empty")
	}
	if postcode == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Postcode cannot be empty")
	}
	if !propertyType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROPERTY_TYPE", "Property type is not valid")
	}
	if bedrooms < 0 {
		return nil, shared.NewDomainError("INVALID_BEDROOMS", "Bedrooms cannot be negative")
	}

	p := &Property{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		LandlordID:           landlordID,
		AddressLine1:         addressLine1,
		City:                 city,
		Postcode:             postcode,
		Type:                 propertyType,
		Bedrooms:             bedrooms,
		Status:               PropertyStatusAvailable,
		PurchasePrice:        valueobject.ZeroGBP(),
		MonthlyRent:          valueobject.ZeroGBP(),
		MonthlyMortgage:      valueobject.ZeroGBP(),
	}

	p.AddDomainEvent(NewPropertyAddedEvent(p))

	return p, nil
}

// PropertyPatch carries a partial descriptive update. Nil fields are left
// untouched. Status is deliberately absent: occupancy changes flow through
// the tenancy lifecycle, lettability changes through the Mark* methods.
type PropertyPatch struct {
	AddressLine1    *string
	AddressLine2    *string
	City            *string
	Postcode        *string
	Type            *PropertyType
	Bedrooms        *int
	PurchasePrice   *valueobject.Money
	MonthlyRent     *valueobject.Money
	MonthlyMortgage *valueobject.Money
	Notes           *string
}

// ApplyPatch applies a partial descriptive update without touching status
func (p *Property) ApplyPatch(patch PropertyPatch) error {
	if patch.AddressLine1 != nil {
		if *patch.AddressLine1 == "" {
			return shared.NewDomainError("INVALID_ADDRESS", "Address line 1 cannot be empty")
		}
		p.AddressLine1 = *patch.AddressLine1
	}
	if patch.AddressLine2 != nil {
		p.AddressLine2 = *patch.AddressLine2
	}
	if patch.City != nil {
		p.City = *patch.City
	}
	if patch.Postcode != nil {
		if *patch.Postcode == "" {
			return shared.NewDomainError("INVALID_ADDRESS", "Postcode cannot be empty")
		}
		p.Postcode = *patch.Postcode
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			return shared.NewDomainError("INVALID_PROPERTY_TYPE", "Property type is not valid")
		}
		p.Type = *patch.Type
	}
	if patch.Bedrooms != nil {
		if *patch.Bedrooms < 0 {
			return shared.NewDomainError("INVALID_BEDROOMS", "Bedrooms cannot be negative")
		}
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.PurchasePrice != nil {
		if patch.PurchasePrice.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Purchase price cannot be negative")
		}
		p.PurchasePrice = *patch.PurchasePrice
	}
	if patch.MonthlyRent != nil {
		if patch.MonthlyRent.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Monthly rent cannot be negative")
		}
		p.MonthlyRent = *patch.MonthlyRent
	}
	if patch.MonthlyMortgage != nil {
		if patch.MonthlyMortgage.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Monthly mortgage cannot be negative")
		}
		p.MonthlyMortgage = *patch.MonthlyMortgage
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}

	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPropertyUpdatedEvent(p))

	return nil
}

// MarkOccupied records the given tenant as the current occupant.
// Only the tenancy service may call this.
func (p *Property) MarkOccupied(tenantID uuid.UUID) error {
	if p.Status != PropertyStatusAvailable {
		return shared.NewDomainError("INVALID_STATE", "Only an available property can be occupied")
	}
	if tenantID == uuid.Nil {
		return shared.NewDomainError("INVALID_TENANT", "Tenant ID is required")
	}
	p.Status = PropertyStatusOccupied
	p.CurrentTenantID = &tenantID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPropertyOccupiedEvent(p, tenantID))
	return nil
}

// MarkVacant clears the current occupant and returns the property to AVAILABLE.
// Only the tenancy service may call this.
func (p *Property) MarkVacant() error {
	if p.Status != PropertyStatusOccupied {
		return shared.NewDomainError("INVALID_STATE", "Only an occupied property can be vacated")
	}
	vacatedTenant := p.CurrentTenantID
	p.Status = PropertyStatusAvailable
	p.CurrentTenantID = nil
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	p.AddDomainEvent(NewPropertyVacatedEvent(p, vacatedTenant))
	return nil
}

// MarkUnderMaintenance takes the property off the market for major works
func (p *Property) MarkUnderMaintenance() error {
	if p.Status != PropertyStatusAvailable {
		return shared.NewDomainError("INVALID_STATE", "Only an available property can be put under maintenance")
	}
	p.Status = PropertyStatusMaintenance
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkUnderRenovation takes the property off the market for renovation
func (p *Property) MarkUnderRenovation() error {
	if p.Status != PropertyStatusAvailable && p.Status != PropertyStatusMaintenance {
		return shared.NewDomainError("INVALID_STATE", "Only an available or maintenance property can enter renovation")
	}
	p.Status = PropertyStatusRenovation
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkAvailable returns a maintenance or renovation property to the market
func (p *Property) MarkAvailable() error {
	if p.Status != PropertyStatusMaintenance && p.Status != PropertyStatusRenovation {
		return shared.NewDomainError("INVALID_STATE", "Only a maintenance or renovation property can be made available")
	}
	p.Status = PropertyStatusAvailable
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkSold removes the property from the portfolio permanently
func (p *Property) MarkSold() error {
	if p.Status == PropertyStatusOccupied {
		return shared.NewDomainError("INVALID_STATE", "Cannot sell an occupied property")
	}
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Property has already left the portfolio")
	}
	p.Status = PropertyStatusSold
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkWithdrawn withdraws the property from letting
func (p *Property) MarkWithdrawn() error {
	if p.Status == PropertyStatusOccupied {
		return shared.NewDomainError("INVALID_STATE", "Cannot withdraw an occupied property")
	}
	if p.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Property has already left the portfolio")
	}
	p.Status = PropertyStatusWithdrawn
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsOccupied returns true if a tenant currently occupies the property
func (p *Property) IsOccupied() bool {
	return p.Status == PropertyStatusOccupied
}
