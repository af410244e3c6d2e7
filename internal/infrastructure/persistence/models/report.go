package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/report"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// FinancialReportModel is the persistence model for the FinancialReport
// aggregate root. Totals are flattened into columns so reports can be
// queried and sorted by figure.
type FinancialReportModel struct {
	AuditedAggregateModel
	Reference             string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	LandlordID            uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_report_landlord_period,priority:1"`
	PeriodStart           time.Time           `gorm:"not null;uniqueIndex:idx_report_landlord_period,priority:2"`
	PeriodEnd             time.Time           `gorm:"not null;uniqueIndex:idx_report_landlord_period,priority:3"`
	Status                report.ReportStatus `gorm:"type:varchar(20);not null;default:'GENERATING';index"`
	TotalRentalIncome     valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalFeeIncome        valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalGrossIncome      valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalMaintenanceCosts valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalExpenses         valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	NetRentalIncome       valueobject.Money   `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentCount          int                 `gorm:"not null;default:0"`
	MaintenanceCount      int                 `gorm:"not null;default:0"`
	GeneratedAt           *time.Time
	ErrorMessage          string `gorm:"type:text"`
	ErrorDate             *time.Time
}

// TableName returns the table name for GORM
func (FinancialReportModel) TableName() string {
	return "financial_reports"
}

// ToDomain converts the persistence model to a domain FinancialReport entity.
func (m *FinancialReportModel) ToDomain() *report.FinancialReport {
	return &report.FinancialReport{
		AuditedAggregateRoot: m.ToDomainAuditedAggregateRoot(),
		Reference:            m.Reference,
		LandlordID:           m.LandlordID,
		PeriodStart:          m.PeriodStart,
		PeriodEnd:            m.PeriodEnd,
		Status:               m.Status,
		Totals: report.ReportTotals{
			TotalRentalIncome:     m.TotalRentalIncome,
			TotalFeeIncome:        m.TotalFeeIncome,
			TotalGrossIncome:      m.TotalGrossIncome,
			TotalMaintenanceCosts: m.TotalMaintenanceCosts,
			TotalExpenses:         m.TotalExpenses,
			NetRentalIncome:       m.NetRentalIncome,
			PaymentCount:          m.PaymentCount,
			MaintenanceCount:      m.MaintenanceCount,
		},
		GeneratedAt:  m.GeneratedAt,
		ErrorMessage: m.ErrorMessage,
		ErrorDate:    m.ErrorDate,
	}
}

// FromDomain populates the persistence model from a domain FinancialReport entity.
func (m *FinancialReportModel) FromDomain(r *report.FinancialReport) {
	m.FromDomainAuditedAggregateRoot(r.AuditedAggregateRoot)
	m.Reference = r.Reference
	m.LandlordID = r.LandlordID
	m.PeriodStart = r.PeriodStart
	m.PeriodEnd = r.PeriodEnd
	m.Status = r.Status
	m.TotalRentalIncome = r.Totals.TotalRentalIncome
	m.TotalFeeIncome = r.Totals.TotalFeeIncome
	m.TotalGrossIncome = r.Totals.TotalGrossIncome
	m.TotalMaintenanceCosts = r.Totals.TotalMaintenanceCosts
	m.TotalExpenses = r.Totals.TotalExpenses
	m.NetRentalIncome = r.Totals.NetRentalIncome
	m.PaymentCount = r.Totals.PaymentCount
	m.MaintenanceCount = r.Totals.MaintenanceCount
	m.GeneratedAt = r.GeneratedAt
	m.ErrorMessage = r.ErrorMessage
	m.ErrorDate = r.ErrorDate
}

// FinancialReportModelFromDomain creates a new persistence model from a domain FinancialReport.
func FinancialReportModelFromDomain(r *report.FinancialReport) *FinancialReportModel {
	m := &FinancialReportModel{}
	m.FromDomain(r)
	return m
}
