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

// GormLandlordRepository implements LandlordRepository using GORM
type GormLandlordRepository struct {
	db *gorm.DB
}

// NewGormLandlordRepository creates a new GormLandlordRepository
func NewGormLandlordRepository(db *gorm.DB) *GormLandlordRepository {
	return &GormLandlordRepository{db: db}
}

// FindByID finds a landlord by its ID
func (r *GormLandlordRepository) FindByID(ctx context.Context, id uuid.UUID) (*portfolio.Landlord, error) {
	var model models.LandlordModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds landlords with filtering and pagination
func (r *GormLandlordRepository) FindAll(ctx context.Context, filter portfolio.LandlordFilter) (*shared.Paginated[portfolio.Landlord], error) {
	query := r.db.WithContext(ctx).Model(&models.LandlordModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	orderBy := ValidateSortField(filter.OrderBy, LandlordSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var landlordModels []models.LandlordModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&landlordModels).Error; err != nil {
		return nil, err
	}

	landlords := make([]portfolio.Landlord, len(landlordModels))
	for i, model := range landlordModels {
		landlords[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(landlords, total, page, pageSize)
	return &result, nil
}

// Save creates or updates a landlord
func (r *GormLandlordRepository) Save(ctx context.Context, landlord *portfolio.Landlord) error {
	model := models.LandlordModelFromDomain(landlord)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormLandlordRepository) SaveWithLock(ctx context.Context, landlord *portfolio.Landlord) error {
	model := models.LandlordModelFromDomain(landlord)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", landlord.ID, landlord.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Exists checks whether a landlord with the given ID exists
func (r *GormLandlordRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LandlordModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormLandlordRepository) applyFilter(query *gorm.DB, filter portfolio.LandlordFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchPattern, searchPattern)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	return query
}

// Ensure GormLandlordRepository implements LandlordRepository
var _ portfolio.LandlordRepository = (*GormLandlordRepository)(nil)
