package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PortfolioService provides application-level landlord and property operations
type PortfolioService struct {
	landlordRepo   portfolio.LandlordRepository
	propertyRepo   portfolio.PropertyRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(
	landlordRepo portfolio.LandlordRepository,
	propertyRepo portfolio.PropertyRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *PortfolioService {
	return &PortfolioService{
		landlordRepo:   landlordRepo,
		propertyRepo:   propertyRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// LandlordResponse represents a landlord in API responses
type LandlordResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	Type               string          `json:"type"`
	Status             string          `json:"status"`
	PortfolioBucket    string          `json:"portfolio_bucket"`
	TotalProperties    int64           `json:"total_properties"`
	OccupiedProperties int64           `json:"occupied_properties"`
	OccupancyRate      decimal.Decimal `json:"occupancy_rate"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID              uuid.UUID         `json:"id"`
	LandlordID      uuid.UUID         `json:"landlord_id"`
	AddressLine1    string            `json:"address_line1"`
	AddressLine2    string            `json:"address_line2,omitempty"`
	City            string            `json:"city"`
	Postcode        string            `json:"postcode"`
	Type            string            `json:"type"`
	Bedrooms        int               `json:"bedrooms"`
	Status          string            `json:"status"`
	CurrentTenantID *uuid.UUID        `json:"current_tenant_id,omitempty"`
	PurchasePrice   valueobject.Money `json:"purchase_price"`
	MonthlyRent     valueobject.Money `json:"monthly_rent"`
	MonthlyMortgage valueobject.Money `json:"monthly_mortgage"`
	Notes           string            `json:"notes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Version         int               `json:"version"`
}

// CreateLandlordInput carries the fields for registering a landlord
type CreateLandlordInput struct {
	Name  string `json:"name" binding:"required,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
	Type  string `json:"type" binding:"required"`
}

// CreateLandlord registers a new landlord and activates the account
func (s *PortfolioService) CreateLandlord(ctx context.Context, input CreateLandlordInput, actorID *uuid.UUID) (*LandlordResponse, error) {
	landlord, err := portfolio.NewLandlord(input.Name, input.Email, input.Phone, portfolio.LandlordType(input.Type))
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		landlord.SetCreatedBy(*actorID)
	}
	if err := landlord.Activate(); err != nil {
		return nil, err
	}

	if err := s.landlordRepo.Save(ctx, landlord); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, landlord)

	s.logger.Info("landlord created",
		zap.String("landlord_id", landlord.ID.String()),
		zap.String("type", landlord.Type.String()))

	return toLandlordResponse(landlord), nil
}

// GetLandlord gets a landlord by ID
func (s *PortfolioService) GetLandlord(ctx context.Context, id uuid.UUID) (*LandlordResponse, error) {
	landlord, err := s.landlordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLandlordResponse(landlord), nil
}

// ListLandlords lists landlords with filtering and pagination
func (s *PortfolioService) ListLandlords(ctx context.Context, filter portfolio.LandlordFilter) (*shared.Paginated[LandlordResponse], error) {
	page, err := s.landlordRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]LandlordResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toLandlordResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// GetLandlordSummary recomputes the landlord's rollup from the property
// repository and returns the fresh figures. The stored counters are a cache;
// reads that matter recompute.
func (s *PortfolioService) GetLandlordSummary(ctx context.Context, id uuid.UUID) (*LandlordResponse, error) {
	landlord, err := s.landlordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.recomputeRollup(ctx, landlord); err != nil {
		return nil, err
	}
	return toLandlordResponse(landlord), nil
}

// AddPropertyInput carries the fields for adding a property to a portfolio
type AddPropertyInput struct {
	AddressLine1    string   `json:"address_line1" binding:"required,max=200"`
	AddressLine2    string   `json:"address_line2" binding:"omitempty,max=200"`
	City            string   `json:"city" binding:"omitempty,max=100"`
	Postcode        string   `json:"postcode" binding:"required,max=10"`
	Type            string   `json:"type" binding:"required"`
	Bedrooms        int      `json:"bedrooms" binding:"gte=0"`
	PurchasePrice   *float64 `json:"purchase_price" binding:"omitempty,gte=0"`
	MonthlyRent     *float64 `json:"monthly_rent" binding:"omitempty,gte=0"`
	MonthlyMortgage *float64 `json:"monthly_mortgage" binding:"omitempty,gte=0"`
}

// AddProperty creates a property in AVAILABLE status under the landlord and
// recomputes the rollup counters
func (s *PortfolioService) AddProperty(ctx context.Context, landlordID uuid.UUID, input AddPropertyInput, actorID *uuid.UUID) (*PropertyResponse, error) {
	landlord, err := s.landlordRepo.FindByID(ctx, landlordID)
	if err != nil {
		return nil, err
	}

	property, err := portfolio.NewProperty(landlord.ID, input.AddressLine1, input.City, input.Postcode, portfolio.PropertyType(input.Type), input.Bedrooms)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		property.SetCreatedBy(*actorID)
	}
	property.AddressLine2 = input.AddressLine2
	if input.PurchasePrice != nil {
		property.PurchasePrice = valueobject.NewMoneyGBPFromFloat(*input.PurchasePrice)
	}
	if input.MonthlyRent != nil {
		property.MonthlyRent = valueobject.NewMoneyGBPFromFloat(*input.MonthlyRent)
	}
	if input.MonthlyMortgage != nil {
		property.MonthlyMortgage = valueobject.NewMoneyGBPFromFloat(*input.MonthlyMortgage)
	}

	if err := s.propertyRepo.Save(ctx, property); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, property)

	if err := s.recomputeRollup(ctx, landlord); err != nil {
		s.logger.Warn("rollup recompute failed after property add",
			zap.String("landlord_id", landlord.ID.String()), zap.Error(err))
	}

	s.logger.Info("property added",
		zap.String("property_id", property.ID.String()),
		zap.String("landlord_id", landlord.ID.String()))

	return toPropertyResponse(property), nil
}

// UpdatePropertyInput carries a partial property update. Status is absent:
// occupancy changes flow only through the tenancy lifecycle.
type UpdatePropertyInput struct {
	AddressLine1    *string  `json:"address_line1" binding:"omitempty,max=200"`
	AddressLine2    *string  `json:"address_line2" binding:"omitempty,max=200"`
	City            *string  `json:"city" binding:"omitempty,max=100"`
	Postcode        *string  `json:"postcode" binding:"omitempty,max=10"`
	Type            *string  `json:"type"`
	Bedrooms        *int     `json:"bedrooms" binding:"omitempty,gte=0"`
	PurchasePrice   *float64 `json:"purchase_price" binding:"omitempty,gte=0"`
	MonthlyRent     *float64 `json:"monthly_rent" binding:"omitempty,gte=0"`
	MonthlyMortgage *float64 `json:"monthly_mortgage" binding:"omitempty,gte=0"`
	Notes           *string  `json:"notes"`
}

// UpdateProperty applies a partial descriptive update without touching status
func (s *PortfolioService) UpdateProperty(ctx context.Context, id uuid.UUID, input UpdatePropertyInput) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := portfolio.PropertyPatch{
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		Postcode:     input.Postcode,
		Bedrooms:     input.Bedrooms,
		Notes:        input.Notes,
	}
	if input.Type != nil {
		pt := portfolio.PropertyType(*input.Type)
		patch.Type = &pt
	}
	if input.PurchasePrice != nil {
		m := valueobject.NewMoneyGBPFromFloat(*input.PurchasePrice)
		patch.PurchasePrice = &m
	}
	if input.MonthlyRent != nil {
		m := valueobject.NewMoneyGBPFromFloat(*input.MonthlyRent)
		patch.MonthlyRent = &m
	}
	if input.MonthlyMortgage != nil {
		m := valueobject.NewMoneyGBPFromFloat(*input.MonthlyMortgage)
		patch.MonthlyMortgage = &m
	}

	if err := property.ApplyPatch(patch); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.SaveWithLock(ctx, property); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, property)

	return toPropertyResponse(property), nil
}

// GetProperty gets a property by ID
func (s *PortfolioService) GetProperty(ctx context.Context, id uuid.UUID) (*PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPropertyResponse(property), nil
}

// ListProperties lists properties with filtering and pagination
func (s *PortfolioService) ListProperties(ctx context.Context, filter portfolio.PropertyFilter) (*shared.Paginated[PropertyResponse], error) {
	page, err := s.propertyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PropertyResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, *toPropertyResponse(&page.Items[i]))
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// RecomputeRollup refreshes the landlord's derived counters from the
// property repository
func (s *PortfolioService) RecomputeRollup(ctx context.Context, landlordID uuid.UUID) error {
	landlord, err := s.landlordRepo.FindByID(ctx, landlordID)
	if err != nil {
		return err
	}
	return s.recomputeRollup(ctx, landlord)
}

func (s *PortfolioService) recomputeRollup(ctx context.Context, landlord *portfolio.Landlord) error {
	total, err := s.propertyRepo.CountByLandlord(ctx, landlord.ID)
	if err != nil {
		return err
	}
	occupied, err := s.propertyRepo.CountOccupiedByLandlord(ctx, landlord.ID)
	if err != nil {
		return err
	}
	landlord.ApplyRollup(total, occupied)
	return s.landlordRepo.Save(ctx, landlord)
}

func (s *PortfolioService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	for _, event := range aggregate.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish domain event",
				zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	aggregate.ClearDomainEvents()
}

func toLandlordResponse(l *portfolio.Landlord) *LandlordResponse {
	return &LandlordResponse{
		ID:                 l.ID,
		Name:               l.Name,
		Email:              l.Email,
		Phone:              l.Phone,
		Type:               l.Type.String(),
		Status:             l.Status.String(),
		PortfolioBucket:    string(l.PortfolioBucket),
		TotalProperties:    l.TotalProperties,
		OccupiedProperties: l.OccupiedProperties,
		OccupancyRate:      l.OccupancyRate,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
		Version:            l.Version,
	}
}

func toPropertyResponse(p *portfolio.Property) *PropertyResponse {
	return &PropertyResponse{
		ID:              p.ID,
		LandlordID:      p.LandlordID,
		AddressLine1:    p.AddressLine1,
		AddressLine2:    p.AddressLine2,
		City:            p.City,
		Postcode:        p.Postcode,
		Type:            p.Type.String(),
		Bedrooms:        p.Bedrooms,
		Status:          p.Status.String(),
		CurrentTenantID: p.CurrentTenantID,
		PurchasePrice:   p.PurchasePrice,
		MonthlyRent:     p.MonthlyRent,
		MonthlyMortgage: p.MonthlyMortgage,
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
		Version:         p.Version,
	}
}
