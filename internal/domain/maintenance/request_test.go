package maintenance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lettings/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T, priority Priority) *MaintenanceRequest {
	t.Helper()
	r, err := NewMaintenanceRequest(uuid.New(), uuid.New(), "Boiler not firing", "No hot water since Monday", CategoryHeating, priority)
	require.NoError(t, err)
	return r
}

func TestNewMaintenanceRequest(t *testing.T) {
	r := newTestRequest(t, PriorityUrgent)

	assert.Equal(t, RequestStatusSubmitted, r.Status)
	assert.Regexp(t, `^MNT-\d+-[A-Z0-9]{5}$`, r.Reference)
	assert.True(t, r.Priority.IsCritical())
	assert.Len(t, r.GetDomainEvents(), 1)
}

func TestNewMaintenanceRequest_Validation(t *testing.T) {
	tests := []struct {
		name     string
		property uuid.UUID
		title    string
		category Category
		priority Priority
	}{
		{"nil property", uuid.Nil, "Boiler", CategoryHeating, PriorityHigh},
		{"empty title", uuid.New(), "", CategoryHeating, PriorityHigh},
		{"bad category", uuid.New(), "Boiler", Category("ROOFING"), PriorityHigh},
		{"bad priority", uuid.New(), "Boiler", CategoryHeating, Priority("SEVERE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMaintenanceRequest(tt.property, uuid.New(), tt.title, "", tt.category, tt.priority)
			assert.Error(t, err)
		})
	}
}

func TestMaintenanceRequest_LinearProgression(t *testing.T) {
	r := newTestRequest(t, PriorityMedium)
	est := valueobject.NewMoneyGBPFromFloat(280)
	scheduled := time.Now().AddDate(0, 0, 3)

	require.NoError(t, r.Acknowledge())
	require.NoError(t, r.Assign("Hewitt Plumbing & Heating", &est, &scheduled))
	require.NoError(t, r.Start())

	actual := valueobject.NewMoneyGBPFromFloat(310.50)
	require.NoError(t, r.Complete(&actual, time.Now(), "Replaced diverter valve"))

	assert.Equal(t, RequestStatusCompleted, r.Status)
	assert.True(t, r.Status.IsTerminal())
	require.NotNil(t, r.ActualCost)
	assert.True(t, r.ActualCost.Equals(actual))
	// priority preserved verbatim through all transitions
	assert.Equal(t, PriorityMedium, r.Priority)
}

func TestMaintenanceRequest_SkippedStepsRejected(t *testing.T) {
	r := newTestRequest(t, PriorityLow)

	assert.Error(t, r.Start(), "cannot start before assignment")
	assert.Error(t, r.Complete(nil, time.Now(), ""), "cannot complete before starting")
}

func TestMaintenanceRequest_CompleteRequiresActualCostWhenEstimated(t *testing.T) {
	r := newTestRequest(t, PriorityHigh)
	est := valueobject.NewMoneyGBPFromFloat(200)

	require.NoError(t, r.Acknowledge())
	require.NoError(t, r.Assign("Hewitt Plumbing & Heating", &est, nil))
	require.NoError(t, r.Start())

	err := r.Complete(nil, time.Now(), "")
	assert.Error(t, err, "estimate recorded, actual cost mandatory")

	actual := valueobject.NewMoneyGBPFromFloat(195)
	require.NoError(t, r.Complete(&actual, time.Now(), ""))
}

func TestMaintenanceRequest_CompleteWithoutEstimate(t *testing.T) {
	r := newTestRequest(t, PriorityLow)

	require.NoError(t, r.Acknowledge())
	require.NoError(t, r.Assign("OddJobs Ltd", nil, nil))
	require.NoError(t, r.Start())
	require.NoError(t, r.Complete(nil, time.Now(), "tightened hinges"))

	assert.Nil(t, r.ActualCost)
}

func TestMaintenanceRequest_HoldAndResume(t *testing.T) {
	r := newTestRequest(t, PriorityMedium)
	require.NoError(t, r.Acknowledge())
	est := valueobject.NewMoneyGBPFromFloat(150)
	require.NoError(t, r.Assign("OddJobs Ltd", &est, nil))

	require.NoError(t, r.Hold("awaiting parts"))
	assert.Equal(t, RequestStatusOnHold, r.Status)
	assert.Equal(t, "awaiting parts", r.HoldReason)

	// cannot double-hold
	assert.Error(t, r.Hold("again"))

	require.NoError(t, r.Resume())
	assert.Equal(t, RequestStatusAssigned, r.Status, "resume returns to pre-hold state")
	assert.Empty(t, r.HoldReason)
}

func TestMaintenanceRequest_Cancel(t *testing.T) {
	r := newTestRequest(t, PriorityMedium)

	require.NoError(t, r.Cancel("tenant resolved it"))
	assert.Equal(t, RequestStatusCancelled, r.Status)

	assert.Error(t, r.Cancel("again"))
	assert.Error(t, r.Hold("too late"))
}

func TestPriority_IsCritical(t *testing.T) {
	assert.True(t, PriorityEmergency.IsCritical())
	assert.True(t, PriorityUrgent.IsCritical())
	assert.False(t, PriorityHigh.IsCritical())
	assert.False(t, PriorityMedium.IsCritical())
	assert.False(t, PriorityLow.IsCritical())
}
