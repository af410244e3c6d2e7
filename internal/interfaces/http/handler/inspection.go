package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	inspectionapp "github.com/lettings/backend/internal/application/inspection"
	"github.com/lettings/backend/internal/domain/inspection"
)

// InspectionHandler handles property inspection API endpoints. Scheduling
// happens on the property routes; this handler covers queries and the visit
// lifecycle.
type InspectionHandler struct {
	BaseHandler
	inspectionService *inspectionapp.InspectionService
}

// NewInspectionHandler creates a new InspectionHandler
func NewInspectionHandler(inspectionService *inspectionapp.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService}
}

// NoAccessRequest records a visit attempt where entry was refused
type NoAccessRequest struct {
	AttemptedDate time.Time `json:"attempted_date" binding:"required"`
	Notes         string    `json:"notes" binding:"omitempty,max=2000"`
}

// RebookRequest books a follow-up visit for a postponed inspection
type RebookRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" binding:"required"`
}

// RegisterRoutes registers inspection routes on the API group
func (h *InspectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inspections := rg.Group("/inspections")
	{
		inspections.GET("", h.List)
		inspections.GET("/:id", h.Get)
		inspections.POST("/:id/confirm", h.Confirm)
		inspections.POST("/:id/start", h.Start)
		inspections.POST("/:id/complete", h.Complete)
		inspections.POST("/:id/reschedule", h.Reschedule)
		inspections.POST("/:id/postpone", h.Postpone)
		inspections.POST("/:id/rebook", h.Rebook)
		inspections.POST("/:id/no-access", h.RecordNoAccess)
		inspections.POST("/:id/cancel", h.Cancel)
	}
}

// Get retrieves an inspection by ID
func (h *InspectionHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	insp, err := h.inspectionService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// List retrieves inspections with filtering and pagination
func (h *InspectionHandler) List(c *gin.Context) {
	base, err := baseFilter(c)
	if err != nil {
		h.HandleBindingError(c, err)
		return
	}

	filter := inspection.InspectionFilter{Filter: base}
	filter.PropertyID, err = queryUUID(c, "property_id")
	if err != nil {
		h.BadRequest(c, "Invalid property_id format")
		return
	}
	filter.LandlordID, err = queryUUID(c, "landlord_id")
	if err != nil {
		h.BadRequest(c, "Invalid landlord_id format")
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := inspection.InspectionStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		inspectionType := inspection.InspectionType(raw)
		filter.Type = &inspectionType
	}
	filter.FromDate, err = queryTime(c, "from_date")
	if err != nil {
		h.BadRequest(c, "Invalid from_date format")
		return
	}
	filter.ToDate, err = queryTime(c, "to_date")
	if err != nil {
		h.BadRequest(c, "Invalid to_date format")
		return
	}

	result, err := h.inspectionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginatedMeta(result))
}

// Confirm confirms the appointment with the occupier
func (h *InspectionHandler) Confirm(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	insp, err := h.inspectionService.Confirm(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// Start marks the visit as in progress
func (h *InspectionHandler) Start(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	insp, err := h.inspectionService.Start(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// Complete records the visit outcome and any issues found
func (h *InspectionHandler) Complete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	var input inspectionapp.CompleteInspectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	insp, err := h.inspectionService.Complete(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// Reschedule closes the inspection and books a successor visit
func (h *InspectionHandler) Reschedule(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	var input inspectionapp.RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	insp, err := h.inspectionService.Reschedule(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// Postpone defers the visit without a new date
func (h *InspectionHandler) Postpone(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	insp, err := h.inspectionService.Postpone(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// Rebook schedules a postponed inspection for a new date
func (h *InspectionHandler) Rebook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	var req RebookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	insp, err := h.inspectionService.Rebook(c.Request.Context(), id, req.ScheduledDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// RecordNoAccess records that entry to the property was refused
func (h *InspectionHandler) RecordNoAccess(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	var req NoAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	insp, err := h.inspectionService.RecordNoAccess(c.Request.Context(), id, req.AttemptedDate, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}

// Cancel cancels the inspection with a reason
func (h *InspectionHandler) Cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid inspection ID format")
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	insp, err := h.inspectionService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, insp)
}
