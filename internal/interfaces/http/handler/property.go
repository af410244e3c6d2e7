package handler

import (
	"github.com/gin-gonic/gin"

	inspectionapp "github.com/lettings/backend/internal/application/inspection"
	maintenanceapp "github.com/lettings/backend/internal/application/maintenance"
	portfolioapp "github.com/lettings/backend/internal/application/portfolio"
	tenancyapp "github.com/lettings/backend/internal/application/tenancy"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/interfaces/http/middleware"
)

// PropertyHandler handles property API endpoints, including the nested
// creation routes for tenancies, maintenance requests and inspections
type PropertyHandler struct {
	BaseHandler
	portfolioService   *portfolioapp.PortfolioService
	tenancyService     *tenancyapp.TenancyService
	maintenanceService *maintenanceapp.MaintenanceService
	inspectionService  *inspectionapp.InspectionService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(
	portfolioService *portfolioapp.PortfolioService,
	tenancyService *tenancyapp.TenancyService,
	maintenanceService *maintenanceapp.MaintenanceService,
	inspectionService *inspectionapp.InspectionService,
) *PropertyHandler {
	return &PropertyHandler{
		portfolioService:   portfolioService,
		tenancyService:     tenancyService,
		maintenanceService: maintenanceService,
		inspectionService:  inspectionService,
	}
}

// RegisterRoutes registers property routes on the API group
func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	properties := rg.Group("/properties")
	{
		properties.GET("", h.List)
		properties.GET("/:id", h.Get)
		properties.PUT("/:id", h.Update)
		properties.POST("/:id/tenancies", h.CreateTenancy)
		properties.POST("/:id/maintenance-requests", h.CreateMaintenanceRequest)
		properties.POST("/:id/inspections", h.ScheduleInspection)
	}
}

// Get retrieves a property by ID
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	property, err := h.portfolioService.GetProperty(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// Update applies a partial descriptive update to a property
func (h *PropertyHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var input portfolioapp.UpdatePropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	property, err := h.portfolioService.UpdateProperty(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// List retrieves properties with filtering and pagination
func (h *PropertyHandler) List(c *gin.Context) {
	base, err := baseFilter(c)
	if err != nil {
		h.HandleBindingError(c, err)
		return
	}

	filter := portfolio.PropertyFilter{Filter: base}
	filter.LandlordID, err = queryUUID(c, "landlord_id")
	if err != nil {
		h.BadRequest(c, "Invalid landlord_id format")
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := portfolio.PropertyStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		propertyType := portfolio.PropertyType(raw)
		filter.Type = &propertyType
	}
	filter.City = c.Query("city")
	filter.Postcode = c.Query("postcode")

	result, err := h.portfolioService.ListProperties(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginatedMeta(result))
}

// CreateTenancy creates a tenancy agreement on the property
func (h *PropertyHandler) CreateTenancy(c *gin.Context) {
	propertyID, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var input tenancyapp.CreateTenancyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	agreement, err := h.tenancyService.Create(c.Request.Context(), propertyID, input, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, agreement)
}

// CreateMaintenanceRequest submits a maintenance request for the property
func (h *PropertyHandler) CreateMaintenanceRequest(c *gin.Context) {
	propertyID, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var input maintenanceapp.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	request, err := h.maintenanceService.Create(c.Request.Context(), propertyID, input, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// ScheduleInspection books an inspection visit for the property
func (h *PropertyHandler) ScheduleInspection(c *gin.Context) {
	propertyID, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	var input inspectionapp.ScheduleInspectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	insp, err := h.inspectionService.Schedule(c.Request.Context(), propertyID, input, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, insp)
}
