package inspection

import (
	"context"
	"fmt"

	"github.com/lettings/backend/internal/domain/inspection"
	"github.com/lettings/backend/internal/domain/maintenance"
	"github.com/lettings/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// FollowUpHandler opens a maintenance request for each action-required issue
// on a completed inspection. The linkage is one-directional: inspections
// spawn maintenance, never the reverse.
type FollowUpHandler struct {
	requestRepo maintenance.RequestRepository
	logger      *zap.Logger
}

// NewFollowUpHandler creates a new FollowUpHandler
func NewFollowUpHandler(requestRepo maintenance.RequestRepository, logger *zap.Logger) *FollowUpHandler {
	return &FollowUpHandler{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *FollowUpHandler) EventTypes() []string {
	return []string{"InspectionCompleted"}
}

// Handle opens one maintenance request per action-required issue
func (h *FollowUpHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	completed, ok := event.(*inspection.InspectionCompletedEvent)
	if !ok {
		return nil
	}

	for _, issue := range completed.Issues {
		if !issue.ActionRequired {
			continue
		}

		request, err := maintenance.NewMaintenanceRequest(
			completed.PropertyID, completed.LandlordID,
			issue.Title,
			fmt.Sprintf("Raised from inspection %s: %s", completed.Reference, issue.Description),
			maintenance.CategoryGeneral,
			priorityForSeverity(issue.Severity),
		)
		if err != nil {
			h.logger.Error("failed to build follow-up maintenance request",
				zap.String("inspection_id", completed.InspectionID.String()),
				zap.String("issue", issue.Title),
				zap.Error(err))
			continue
		}
		request.LinkInspection(completed.InspectionID)

		if err := h.requestRepo.Save(ctx, request); err != nil {
			h.logger.Error("failed to save follow-up maintenance request",
				zap.String("inspection_id", completed.InspectionID.String()),
				zap.String("issue", issue.Title),
				zap.Error(err))
			continue
		}

		h.logger.Info("follow-up maintenance request opened",
			zap.String("request_id", request.ID.String()),
			zap.String("reference", request.Reference),
			zap.String("inspection_id", completed.InspectionID.String()))
	}

	return nil
}

// priorityForSeverity maps an inspection issue severity onto a maintenance
// priority. Unknown severities default to MEDIUM.
func priorityForSeverity(severity string) maintenance.Priority {
	switch severity {
	case "CRITICAL":
		return maintenance.PriorityEmergency
	case "MAJOR":
		return maintenance.PriorityUrgent
	case "MODERATE":
		return maintenance.PriorityMedium
	case "MINOR":
		return maintenance.PriorityLow
	default:
		return maintenance.PriorityMedium
	}
}

var _ shared.EventHandler = (*FollowUpHandler)(nil)
