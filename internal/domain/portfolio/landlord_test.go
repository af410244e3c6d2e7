package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLandlord(t *testing.T) {
	l, err := NewLandlord("Aria Holdings Ltd", "lettings@aria.example", "020 7946 0000", LandlordTypeCompany)
	require.NoError(t, err)

	assert.Equal(t, LandlordStatusPendingVerification, l.Status)
	assert.Equal(t, PortfolioBucketNone, l.PortfolioBucket)
	assert.Equal(t, int64(0), l.TotalProperties)
	assert.True(t, l.OccupancyRate.IsZero())
	assert.Equal(t, 1, l.Version)
	assert.Len(t, l.GetDomainEvents(), 1)
	assert.Equal(t, "LandlordCreated", l.GetDomainEvents()[0].EventType())
}

func TestNewLandlord_Validation(t *testing.T) {
	tests := []struct {
		name         string
		landlordName string
		landlordType LandlordType
	}{
		{"empty name", "", LandlordTypeIndividual},
		{"invalid type", "J Smith", LandlordType("CHARITY")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLandlord(tt.landlordName, "", "", tt.landlordType)
			assert.Error(t, err)
		})
	}
}

func TestLandlord_StatusTransitions(t *testing.T) {
	l, err := NewLandlord("J Smith", "", "", LandlordTypeIndividual)
	require.NoError(t, err)

	require.NoError(t, l.Activate())
	assert.Equal(t, LandlordStatusActive, l.Status)
	assert.True(t, l.IsActive())

	require.NoError(t, l.Suspend())
	assert.Equal(t, LandlordStatusSuspended, l.Status)

	require.NoError(t, l.Deactivate())
	assert.Equal(t, LandlordStatusInactive, l.Status)

	err = l.Suspend()
	assert.Error(t, err, "inactive landlord cannot be suspended")
}

func TestLandlord_ApplyRollup(t *testing.T) {
	l, err := NewLandlord("J Smith", "", "", LandlordTypeIndividual)
	require.NoError(t, err)

	l.ApplyRollup(8, 6)

	assert.Equal(t, int64(8), l.TotalProperties)
	assert.Equal(t, int64(6), l.OccupiedProperties)
	assert.True(t, l.OccupancyRate.Equal(decimal.NewFromInt(75)), "expected 75, got %s", l.OccupancyRate)
	assert.Equal(t, PortfolioBucketMedium, l.PortfolioBucket)
}

func TestLandlord_ApplyRollup_Empty(t *testing.T) {
	l, err := NewLandlord("J Smith", "", "", LandlordTypeIndividual)
	require.NoError(t, err)

	l.ApplyRollup(0, 0)

	assert.True(t, l.OccupancyRate.IsZero())
	assert.Equal(t, PortfolioBucketNone, l.PortfolioBucket)
}

func TestBucketForCount(t *testing.T) {
	tests := []struct {
		count    int64
		expected PortfolioBucket
	}{
		{0, PortfolioBucketNone},
		{1, PortfolioBucketSmall},
		{3, PortfolioBucketSmall},
		{4, PortfolioBucketMedium},
		{10, PortfolioBucketMedium},
		{11, PortfolioBucketLarge},
		{150, PortfolioBucketLarge},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, BucketForCount(tt.count), "count %d", tt.count)
	}
}
