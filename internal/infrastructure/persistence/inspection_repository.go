package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/inspection"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInspectionRepository implements InspectionRepository using GORM
type GormInspectionRepository struct {
	db *gorm.DB
}

// NewGormInspectionRepository creates a new GormInspectionRepository
func NewGormInspectionRepository(db *gorm.DB) *GormInspectionRepository {
	return &GormInspectionRepository{db: db}
}

// FindByID finds an inspection by its ID
func (r *GormInspectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inspection.PropertyInspection, error) {
	var model models.PropertyInspectionModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds an inspection by its reference
func (r *GormInspectionRepository) FindByReference(ctx context.Context, reference string) (*inspection.PropertyInspection, error) {
	var model models.PropertyInspectionModel
	if err := r.db.WithContext(ctx).
		First(&model, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds inspections with filtering and pagination
func (r *GormInspectionRepository) FindAll(ctx context.Context, filter inspection.InspectionFilter) (*shared.Paginated[inspection.PropertyInspection], error) {
	query := r.db.WithContext(ctx).Model(&models.PropertyInspectionModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	orderBy := ValidateSortField(filter.OrderBy, InspectionSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var inspectionModels []models.PropertyInspectionModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&inspectionModels).Error; err != nil {
		return nil, err
	}

	inspections := make([]inspection.PropertyInspection, len(inspectionModels))
	for i, model := range inspectionModels {
		inspections[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(inspections, total, page, pageSize)
	return &result, nil
}

// FindByProperty finds all inspections for a property
func (r *GormInspectionRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]inspection.PropertyInspection, error) {
	var inspectionModels []models.PropertyInspectionModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("scheduled_date DESC").
		Find(&inspectionModels).Error; err != nil {
		return nil, err
	}
	inspections := make([]inspection.PropertyInspection, len(inspectionModels))
	for i, model := range inspectionModels {
		inspections[i] = *model.ToDomain()
	}
	return inspections, nil
}

// Save creates or updates an inspection
func (r *GormInspectionRepository) Save(ctx context.Context, propertyInspection *inspection.PropertyInspection) error {
	model := models.PropertyInspectionModelFromDomain(propertyInspection)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormInspectionRepository) SaveWithLock(ctx context.Context, propertyInspection *inspection.PropertyInspection) error {
	model := models.PropertyInspectionModelFromDomain(propertyInspection)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", propertyInspection.ID, propertyInspection.Version-1).
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
func (r *GormInspectionRepository) applyFilter(query *gorm.DB, filter inspection.InspectionFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference LIKE ? OR inspector_name LIKE ?", searchPattern, searchPattern)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
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
	if filter.FromDate != nil {
		query = query.Where("scheduled_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("scheduled_date <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormInspectionRepository implements InspectionRepository
var _ inspection.InspectionRepository = (*GormInspectionRepository)(nil)
