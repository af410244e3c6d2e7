package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/report"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByID finds a financial report by its ID
func (r *GormReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.FinancialReport, error) {
	var model models.FinancialReportModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds a financial report by its reference
func (r *GormReportRepository) FindByReference(ctx context.Context, reference string) (*report.FinancialReport, error) {
	var model models.FinancialReportModel
	if err := r.db.WithContext(ctx).
		First(&model, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds financial reports with filtering and pagination
func (r *GormReportRepository) FindAll(ctx context.Context, filter report.ReportFilter) (*shared.Paginated[report.FinancialReport], error) {
	query := r.db.WithContext(ctx).Model(&models.FinancialReportModel{})
	query = r.applyFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	orderBy := ValidateSortField(filter.OrderBy, ReportSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var reportModels []models.FinancialReportModel
	if err := query.
		Order(orderBy + " " + orderDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reportModels).Error; err != nil {
		return nil, err
	}

	reports := make([]report.FinancialReport, len(reportModels))
	for i, model := range reportModels {
		reports[i] = *model.ToDomain()
	}
	result := shared.NewPaginated(reports, total, page, pageSize)
	return &result, nil
}

// FindByLandlordAndPeriod finds a report for the exact landlord/period pair.
// Returns nil without error when no report exists for the period.
func (r *GormReportRepository) FindByLandlordAndPeriod(ctx context.Context, landlordID uuid.UUID, periodStart, periodEnd time.Time) (*report.FinancialReport, error) {
	var model models.FinancialReportModel
	err := r.db.WithContext(ctx).
		Where("landlord_id = ? AND period_start = ? AND period_end = ?", landlordID, periodStart, periodEnd).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindStuckGenerating finds reports still generating past the cutoff
func (r *GormReportRepository) FindStuckGenerating(ctx context.Context, createdBefore time.Time) ([]report.FinancialReport, error) {
	var reportModels []models.FinancialReportModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", report.ReportStatusGenerating, createdBefore).
		Find(&reportModels).Error; err != nil {
		return nil, err
	}
	reports := make([]report.FinancialReport, len(reportModels))
	for i, model := range reportModels {
		reports[i] = *model.ToDomain()
	}
	return reports, nil
}

// Save creates or updates a financial report
func (r *GormReportRepository) Save(ctx context.Context, financialReport *report.FinancialReport) error {
	model := models.FinancialReportModelFromDomain(financialReport)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves with optimistic locking
func (r *GormReportRepository) SaveWithLock(ctx context.Context, financialReport *report.FinancialReport) error {
	model := models.FinancialReportModelFromDomain(financialReport)
	result := r.db.WithContext(ctx).
		Model(model).
		Select("*").
		Where("id = ? AND version = ?", financialReport.ID, financialReport.Version-1).
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
func (r *GormReportRepository) applyFilter(query *gorm.DB, filter report.ReportFilter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("reference LIKE ?", "%"+filter.Search+"%")
	}
	if filter.LandlordID != nil {
		query = query.Where("landlord_id = ?", *filter.LandlordID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.FromDate != nil {
		query = query.Where("period_start >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("period_end <= ?", *filter.ToDate)
	}
	return query
}

// Ensure GormReportRepository implements ReportRepository
var _ report.ReportRepository = (*GormReportRepository)(nil)
