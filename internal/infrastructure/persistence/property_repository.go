package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByID finds a property by its ID
func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds properties with filtering and pagination
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter portfolio.PropertyFilter) (*shared.Paginated[portfolio.Property], error) {
	query := r.db.WithContext(ctx).Model(&models.PropertyModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	orderBy := ValidateSortField(filter.OrderBy, PropertySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var propertyModels []models.PropertyModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&propertyModels).Error; err != nil {
		return nil, err
	}

	properties := make([]portfolio.Property, len(propertyModels))
	for i, model := range propertyModels {
		properties[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(properties, total, page, pageSize)
	return &result, nil
}

// FindByLandlord finds all properties owned by a landlord
func (r *GormPropertyRepository) FindByLandlord(ctx context.Context, landlordID uuid.UUID) ([]portfolio.Property, error) {
	var propertyModels []models.PropertyModel
	if err := r.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("created_at ASC").
		Find(&propertyModels).Error; err != nil {
		return nil, err
	}
	properties := make([]portfolio.Property, len(propertyModels))
	for i, model := range propertyModels {
		properties[i] = *model.ToDomain()
	}
	return properties, nil
}

// CountByLandlord counts all non-terminal properties owned by a landlord
func (r *GormPropertyRepository) CountByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PropertyModel{}).
		Where("landlord_id = ? AND status NOT IN ?", landlordID,
			[]portfolio.PropertyStatus{portfolio.PropertyStatusSold, portfolio.PropertyStatusWithdrawn}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountOccupiedByLandlord counts a landlord's properties in OCCUPIED status
func (r *GormPropertyRepository) CountOccupiedByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PropertyModel{}).
		Where("landlord_id = ? AND status = ?", landlordID, portfolio.PropertyStatusOccupied).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, property *portfolio.Property) error {
	model := models.PropertyModelFromDomain(property)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking. The full column set is written
// so cleared fields (the tenant link on vacate) persist.
func (r *GormPropertyRepository) SaveWithLock(ctx context.Context, property *portfolio.Property) error {
	model := models.PropertyModelFromDomain(property)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", property.ID, property.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter portfolio.PropertyFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("address_line1 LIKE ? OR city LIKE ? OR postcode LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.LandlordID != nil {
		query = query.Where("landlord_id = ?", *filter.LandlordID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Postcode != "" {
		query = query.Where("postcode LIKE ?", filter.Postcode+"%")
	}
	return query
}

// Ensure GormPropertyRepository implements PropertyRepository
var _ portfolio.PropertyRepository = (*GormPropertyRepository)(nil)
