package tenancy

import (
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
)

// TenancyStatus represents the lifecycle state of a tenancy agreement
type TenancyStatus string

const (
	TenancyStatusDraft            TenancyStatus = "DRAFT"
	TenancyStatusPendingSignature TenancyStatus = "PENDING_SIGNATURE"
	TenancyStatusActive           TenancyStatus = "ACTIVE"
	TenancyStatusExpired          TenancyStatus = "EXPIRED"
	TenancyStatusTerminated       TenancyStatus = "TERMINATED"
	TenancyStatusRenewed          TenancyStatus = "RENEWED"
	TenancyStatusBreached         TenancyStatus = "BREACHED"
	TenancyStatusEnded            TenancyStatus = "ENDED"
)

// IsValid checks if the status is a valid TenancyStatus
func (s TenancyStatus) IsValid() bool {
	switch s {
	case TenancyStatusDraft, TenancyStatusPendingSignature, TenancyStatusActive,
		TenancyStatusExpired, TenancyStatusTerminated, TenancyStatusRenewed,
		TenancyStatusBreached, TenancyStatusEnded:
		return true
	}
	return false
}

// IsTerminal returns true once the tenancy can no longer hold the property.
// At most one tenancy per property may be in a non-terminal status.
func (s TenancyStatus) IsTerminal() bool {
	switch s {
	case TenancyStatusDraft, TenancyStatusPendingSignature, TenancyStatusActive:
		return false
	}
	return true
}

// String returns the string representation of TenancyStatus
func (s TenancyStatus) String() string {
	return string(s)
}

// RentFrequency represents how often rent falls due
type RentFrequency string

const (
	RentFrequencyWeekly      RentFrequency = "WEEKLY"
	RentFrequencyFortnightly RentFrequency = "FORTNIGHTLY"
	RentFrequencyMonthly     RentFrequency = "MONTHLY"
	RentFrequencyQuarterly   RentFrequency = "QUARTERLY"
)

// IsValid checks if the rent frequency is valid
func (f RentFrequency) IsValid() bool {
	switch f {
	case RentFrequencyWeekly, RentFrequencyFortnightly, RentFrequencyMonthly, RentFrequencyQuarterly:
		return true
	}
	return false
}

// String returns the string representation of RentFrequency
func (f RentFrequency) String() string {
	return string(f)
}

// Advance returns the start of the billing period following the one that
// begins at t.
func (f RentFrequency) Advance(t time.Time) time.Time {
	switch f {
	case RentFrequencyWeekly:
		return t.AddDate(0, 0, 7)
	case RentFrequencyFortnightly:
		return t.AddDate(0, 0, 14)
	case RentFrequencyQuarterly:
		return t.AddDate(0, 3, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

// DepositScheme identifies the government-approved deposit protection scheme
type DepositScheme string

const (
	DepositSchemeDPS        DepositScheme = "DPS"
	DepositSchemeMyDeposits DepositScheme = "MYDEPOSITS"
	DepositSchemeTDS        DepositScheme = "TDS"
	DepositSchemeNone       DepositScheme = "NONE"
)

// IsValid checks if the deposit scheme is valid
func (d DepositScheme) IsValid() bool {
	switch d {
	case DepositSchemeDPS, DepositSchemeMyDeposits, DepositSchemeTDS, DepositSchemeNone:
		return true
	}
	return false
}

// TenancyAgreement represents a tenancy aggregate root. It belongs to one
// property and one landlord. The tenancy service is the only writer of
// Status and of the owning property's occupancy fields.
type TenancyAgreement struct {
	shared.AuditedAggregateRoot
	PropertyID        uuid.UUID         `json:"property_id"`
	LandlordID        uuid.UUID         `json:"landlord_id"`
	TenantName        string            `json:"tenant_name"`
	TenantEmail       string            `json:"tenant_email"`
	Status            TenancyStatus     `json:"status"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	ActualEndDate     *time.Time        `json:"actual_end_date,omitempty"`
	RentAmount        valueobject.Money `json:"rent_amount"`
	RentFrequency     RentFrequency     `json:"rent_frequency"`
	RentDueDay        int               `json:"rent_due_day"`
	DepositAmount     valueobject.Money `json:"deposit_amount"`
	DepositScheme     DepositScheme     `json:"deposit_scheme"`
	TerminationReason string            `json:"termination_reason,omitempty"`
}

// NewTenancyAgreement creates a tenancy in DRAFT status. Activation (and the
// property occupancy cascade) is driven by the tenancy service.
func NewTenancyAgreement(
	propertyID, landlordID uuid.UUID,
	tenantName, tenantEmail string,
	startDate, endDate time.Time,
	rentAmount valueobject.Money,
	rentFrequency RentFrequency,
	rentDueDay int,
	depositAmount valueobject.Money,
	depositScheme DepositScheme,
) (*TenancyAgreement, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property ID is required")
	}
	if landlordID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LANDLORD", "Landlord ID is required")
	}
	if tenantName == "" {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant name cannot be empty")
	}
	if !endDate.After(startDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "End date must be after start date")
	}
	if !rentAmount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_RENT", "Rent amount must be positive")
	}
	if !rentFrequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "Rent frequency is not valid")
	}
	if rentDueDay < 1 || rentDueDay > 28 {
		return nil, shared.NewDomainError("INVALID_DUE_DAY", "Rent due day must be between 1 and 28")
	}
	if depositAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DEPOSIT", "Deposit amount cannot be negative")
	}
	if !depositScheme.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPOSIT_SCHEME", "Deposit scheme is not valid")
	}
	if depositAmount.IsPositive() && depositScheme == DepositSchemeNone {
		return nil, shared.NewDomainError("INVALID_DEPOSIT_SCHEME", "A deposit must be protected by a scheme")
	}

	ta := &TenancyAgreement{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		PropertyID:           propertyID,
		LandlordID:           landlordID,
		TenantName:           tenantName,
		TenantEmail:          tenantEmail,
		Status:               TenancyStatusDraft,
		StartDate:            startDate,
		EndDate:              endDate,
		RentAmount:           rentAmount,
		RentFrequency:        rentFrequency,
		RentDueDay:           rentDueDay,
		DepositAmount:        depositAmount,
		DepositScheme:        depositScheme,
	}

	ta.AddDomainEvent(NewTenancyCreatedEvent(ta))

	return ta, nil
}

// SendForSignature moves a draft tenancy to PENDING_SIGNATURE
func (ta *TenancyAgreement) SendForSignature() error {
	if ta.Status != TenancyStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only a draft tenancy can be sent for signature")
	}
	ta.Status = TenancyStatusPendingSignature
	ta.UpdatedAt = time.Now()
	ta.IncrementVersion()
	return nil
}

// Activate moves a draft or pending-signature tenancy to ACTIVE
func (ta *TenancyAgreement) Activate() error {
	if ta.Status != TenancyStatusDraft && ta.Status != TenancyStatusPendingSignature {
		return shared.NewDomainError("INVALID_STATE", "Only a draft or pending-signature tenancy can be activated")
	}
	ta.Status = TenancyStatusActive
	ta.UpdatedAt = time.Now()
	ta.IncrementVersion()
	ta.AddDomainEvent(NewTenancyActivatedEvent(ta))
	return nil
}

// End closes a non-terminal tenancy, recording when and why it ended
func (ta *TenancyAgreement) End(endDate time.Time, reason string) error {
	if ta.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Tenancy has already ended")
	}
	if endDate.Before(ta.StartDate) {
		return shared.NewDomainError("INVALID_DATES", "Actual end date cannot precede the start date")
	}
	ta.Status = TenancyStatusEnded
	ta.ActualEndDate = &endDate
	ta.TerminationReason = reason
	ta.UpdatedAt = time.Now()
	ta.IncrementVersion()
	ta.AddDomainEvent(NewTenancyEndedEvent(ta))
	return nil
}

// MarkExpired transitions an active tenancy whose end date has passed.
// Driven by the scheduled sweep, not by the API.
func (ta *TenancyAgreement) MarkExpired(now time.Time) error {
	if ta.Status != TenancyStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active tenancy can expire")
	}
	if now.Before(ta.EndDate) {
		return shared.NewDomainError("INVALID_STATE", "Tenancy end date has not passed")
	}
	ta.Status = TenancyStatusExpired
	ta.UpdatedAt = time.Now()
	ta.IncrementVersion()
	ta.AddDomainEvent(NewTenancyExpiredEvent(ta))
	return nil
}

// MarkRenewed closes this tenancy in favour of a successor agreement
func (ta *TenancyAgreement) MarkRenewed() error {
	if ta.Status != TenancyStatusActive && ta.Status != TenancyStatusExpired {
		return shared.NewDomainError("INVALID_STATE", "Only an active or expired tenancy can be renewed")
	}
	ta.Status = TenancyStatusRenewed
	ta.UpdatedAt = time.Now()
	ta.IncrementVersion()
	return nil
}

// MarkBreached records a breach of the agreement terms
func (ta *TenancyAgreement) MarkBreached(reason string) error {
	if ta.Status != TenancyStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active tenancy can be breached")
	}
	ta.Status = TenancyStatusBreached
	ta.TerminationReason = reason
	ta.UpdatedAt = time.Now()
	ta.IncrementVersion()
	return nil
}

// Terminate records an early termination distinct from a natural end
func (ta *TenancyAgreement) Terminate(endDate time.Time, reason string) error {
	if ta.Status != TenancyStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only an active tenancy can be terminated")
	}
	ta.Status = TenancyStatusTerminated
	ta.ActualEndDate = &endDate
	ta.TerminationReason = reason
	ta.UpdatedAt = time.Now()
	ta.IncrementVersion()
	ta.AddDomainEvent(NewTenancyEndedEvent(ta))
	return nil
}

// IsNonTerminal returns true while the tenancy still holds the property
func (ta *TenancyAgreement) IsNonTerminal() bool {
	return !ta.Status.IsTerminal()
}

// RentDueDate returns the rent due date for the billing period containing
// the given date, anchored to RentDueDay for monthly tenancies.
func (ta *TenancyAgreement) RentDueDate(periodStart time.Time) time.Time {
	if ta.RentFrequency == RentFrequencyMonthly || ta.RentFrequency == RentFrequencyQuarterly {
		return time.Date(periodStart.Year(), periodStart.Month(), ta.RentDueDay, 0, 0, 0, 0, periodStart.Location())
	}
	return periodStart
}
