package portfolio

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProperty(t *testing.T) *Property {
	t.Helper()
	p, err := NewProperty(uuid.New(), "12 Fenwick Road", "Leeds", "LS6 2QT", PropertyTypeHouse, 3)
	require.NoError(t, err)
	return p
}

func TestNewProperty(t *testing.T) {
	p := newTestProperty(t)

	assert.Equal(t, PropertyStatusAvailable, p.Status)
	assert.Nil(t, p.CurrentTenantID)
	assert.True(t, p.MonthlyRent.IsZero())
	assert.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, "PropertyAdded", p.GetDomainEvents()[0].EventType())
}

func TestNewProperty_Validation(t *testing.T) {
	tests := []struct {
		name         string
		landlordID   uuid.UUID
		address      string
		postcode     string
		propertyType PropertyType
		bedrooms     int
	}{
		{"nil landlord", uuid.Nil, "12 Fenwick Road", "LS6 2QT", PropertyTypeHouse, 3},
		{"empty address", uuid.New(), "", "LS6 2QT", PropertyTypeHouse, 3},
		{"empty postcode", uuid.New(), "12 Fenwick Road", "", PropertyTypeHouse, 3},
		{"invalid type", uuid.New(), "12 Fenwick Road", "LS6 2QT", PropertyType("CASTLE"), 3},
		{"negative bedrooms", uuid.New(), "12 Fenwick Road", "LS6 2QT", PropertyTypeHouse, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProperty(tt.landlordID, tt.address, "Leeds", tt.postcode, tt.propertyType, tt.bedrooms)
			assert.Error(t, err)
		})
	}
}

func TestProperty_ApplyPatch(t *testing.T) {
	p := newTestProperty(t)
	versionBefore := p.Version

	rent := valueobject.NewMoneyGBPFromFloat(1150)
	bedrooms := 4
	notes := "Loft conversion completed"
	err := p.ApplyPatch(PropertyPatch{
		MonthlyRent: &rent,
		Bedrooms:    &bedrooms,
		Notes:       &notes,
	})
	require.NoError(t, err)

	assert.True(t, p.MonthlyRent.Equals(rent))
	assert.Equal(t, 4, p.Bedrooms)
	assert.Equal(t, notes, p.Notes)
	assert.Equal(t, versionBefore+1, p.Version)
	// status never changes through a patch
	assert.Equal(t, PropertyStatusAvailable, p.Status)
}

func TestProperty_ApplyPatch_Invalid(t *testing.T) {
	p := newTestProperty(t)

	negative := valueobject.NewMoneyGBPFromFloat(-100)
	err := p.ApplyPatch(PropertyPatch{MonthlyRent: &negative})
	assert.Error(t, err)

	empty := ""
	err = p.ApplyPatch(PropertyPatch{AddressLine1: &empty})
	assert.Error(t, err)
}

func TestProperty_OccupancyCycle(t *testing.T) {
	p := newTestProperty(t)
	tenantID := uuid.New()

	require.NoError(t, p.MarkOccupied(tenantID))
	assert.Equal(t, PropertyStatusOccupied, p.Status)
	require.NotNil(t, p.CurrentTenantID)
	assert.Equal(t, tenantID, *p.CurrentTenantID)

	// double occupation is rejected
	err := p.MarkOccupied(uuid.New())
	assert.Error(t, err)

	require.NoError(t, p.MarkVacant())
	assert.Equal(t, PropertyStatusAvailable, p.Status)
	assert.Nil(t, p.CurrentTenantID)

	err = p.MarkVacant()
	assert.Error(t, err, "vacating an available property is rejected")
}

func TestProperty_MaintenanceAndRenovation(t *testing.T) {
	p := newTestProperty(t)

	require.NoError(t, p.MarkUnderMaintenance())
	assert.Equal(t, PropertyStatusMaintenance, p.Status)

	require.NoError(t, p.MarkUnderRenovation())
	assert.Equal(t, PropertyStatusRenovation, p.Status)

	require.NoError(t, p.MarkAvailable())
	assert.Equal(t, PropertyStatusAvailable, p.Status)
}

func TestProperty_TerminalTransitions(t *testing.T) {
	t.Run("sell available property", func(t *testing.T) {
		p := newTestProperty(t)
		require.NoError(t, p.MarkSold())
		assert.True(t, p.Status.IsTerminal())
		assert.Error(t, p.MarkWithdrawn())
	})

	t.Run("occupied property cannot be sold", func(t *testing.T) {
		p := newTestProperty(t)
		require.NoError(t, p.MarkOccupied(uuid.New()))
		assert.Error(t, p.MarkSold())
		assert.Error(t, p.MarkWithdrawn())
	})
}

func TestPropertyStatus_IsValid(t *testing.T) {
	valid := []PropertyStatus{
		PropertyStatusAvailable, PropertyStatusOccupied, PropertyStatusMaintenance,
		PropertyStatusRenovation, PropertyStatusSold, PropertyStatusWithdrawn,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, PropertyStatus("DEMOLISHED").IsValid())
}
