package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	maintenanceapp "github.com/lettings/backend/internal/application/maintenance"
	"github.com/lettings/backend/internal/domain/maintenance"
)

// MaintenanceHandler handles maintenance request API endpoints. Creation
// happens on the property routes; this handler covers queries and the
// request lifecycle.
type MaintenanceHandler struct {
	BaseHandler
	maintenanceService *maintenanceapp.MaintenanceService
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(maintenanceService *maintenanceapp.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenanceService: maintenanceService}
}

// RegisterRoutes registers maintenance request routes on the API group
func (h *MaintenanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/maintenance-requests")
	{
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.POST("/:id/acknowledge", h.Acknowledge)
		requests.POST("/:id/assign", h.Assign)
		requests.POST("/:id/start", h.Start)
		requests.POST("/:id/complete", h.Complete)
		requests.POST("/:id/hold", h.Hold)
		requests.POST("/:id/resume", h.Resume)
		requests.POST("/:id/cancel", h.Cancel)
	}
}

// Get retrieves a maintenance request by ID
func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	request, err := h.maintenanceService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// List retrieves maintenance requests with filtering and pagination
func (h *MaintenanceHandler) List(c *gin.Context) {
	base, err := baseFilter(c)
	if err != nil {
		h.HandleBindingError(c, err)
		return
	}

	filter := maintenance.RequestFilter{Filter: base}
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
		status := maintenance.RequestStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := maintenance.Priority(raw)
		filter.Priority = &priority
	}
	if raw := c.Query("category"); raw != "" {
		category := maintenance.Category(raw)
		filter.Category = &category
	}
	filter.Critical = queryBool(c, "critical")

	result, err := h.maintenanceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginatedMeta(result))
}

// Acknowledge confirms the request has been seen
func (h *MaintenanceHandler) Acknowledge(c *gin.Context) {
	h.transition(c, h.maintenanceService.Acknowledge)
}

// Assign allocates a contractor to the request
func (h *MaintenanceHandler) Assign(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var input maintenanceapp.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	request, err := h.maintenanceService.Assign(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Start marks work as underway
func (h *MaintenanceHandler) Start(c *gin.Context) {
	h.transition(c, h.maintenanceService.Start)
}

// Complete finishes the work
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var input maintenanceapp.CompleteRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	request, err := h.maintenanceService.Complete(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Hold pauses the request with a reason
func (h *MaintenanceHandler) Hold(c *gin.Context) {
	h.transitionWithReason(c, h.maintenanceService.Hold)
}

// Resume returns a held request to its prior state
func (h *MaintenanceHandler) Resume(c *gin.Context) {
	h.transition(c, h.maintenanceService.Resume)
}

// Cancel cancels the request with a reason
func (h *MaintenanceHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, h.maintenanceService.Cancel)
}

func (h *MaintenanceHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*maintenanceapp.RequestResponse, error)) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	request, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

func (h *MaintenanceHandler) transitionWithReason(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, reason string) (*maintenanceapp.RequestResponse, error)) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid request ID format")
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	request, err := fn(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}
