package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// LandlordSortFields contains allowed sort fields for landlords
var LandlordSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"name":                true,
	"email":               true,
	"type":                true,
	"status":              true,
	"portfolio_bucket":    true,
	"total_properties":    true,
	"occupied_properties": true,
	"occupancy_rate":      true,
}

// PropertySortFields contains allowed sort fields for properties
var PropertySortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"address_line1": true,
	"city":          true,
	"postcode":      true,
	"type":          true,
	"bedrooms":      true,
	"status":        true,
	"monthly_rent":  true,
}

// TenancySortFields contains allowed sort fields for tenancy agreements
var TenancySortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"tenant_name": true,
	"status":      true,
	"start_date":  true,
	"end_date":    true,
	"rent_amount": true,
}

// PaymentSortFields contains allowed sort fields for rent payments
var PaymentSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"sequence_number": true,
	"amount":          true,
	"method":          true,
	"status":          true,
	"payment_date":    true,
	"due_date":        true,
	"period_start":    true,
}

// MaintenanceSortFields contains allowed sort fields for maintenance requests
var MaintenanceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"reference":      true,
	"priority":       true,
	"category":       true,
	"status":         true,
	"scheduled_date": true,
	"completed_date": true,
}

// InspectionSortFields contains allowed sort fields for property inspections
var InspectionSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"reference":      true,
	"type":           true,
	"status":         true,
	"scheduled_date": true,
	"actual_date":    true,
}

// ReportSortFields contains allowed sort fields for financial reports
var ReportSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"reference":         true,
	"status":            true,
	"period_start":      true,
	"period_end":        true,
	"net_rental_income": true,
	"generated_at":      true,
}

// normalizePage applies pagination defaults
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 20
	}
	return page, pageSize
}
