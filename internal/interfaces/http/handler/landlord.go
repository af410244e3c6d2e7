package handler

import (
	"github.com/gin-gonic/gin"

	portfolioapp "github.com/lettings/backend/internal/application/portfolio"
	"github.com/lettings/backend/internal/domain/portfolio"
	"github.com/lettings/backend/internal/interfaces/http/middleware"
)

// LandlordHandler handles landlord API endpoints
type LandlordHandler struct {
	BaseHandler
	portfolioService *portfolioapp.PortfolioService
}

// NewLandlordHandler creates a new LandlordHandler
func NewLandlordHandler(portfolioService *portfolioapp.PortfolioService) *LandlordHandler {
	return &LandlordHandler{portfolioService: portfolioService}
}

// RegisterRoutes registers landlord routes on the API group
func (h *LandlordHandler) RegisterRoutes(rg *gin.RouterGroup) {
	landlords := rg.Group("/landlords")
	{
		landlords.POST("", h.Create)
		landlords.GET("", h.List)
		landlords.GET("/:id", h.Get)
		landlords.GET("/:id/summary", h.Summary)
		landlords.POST("/:id/properties", h.AddProperty)
		landlords.POST("/:id/recompute", h.Recompute)
	}
}

// Create registers a new landlord
func (h *LandlordHandler) Create(c *gin.Context) {
	var input portfolioapp.CreateLandlordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	landlord, err := h.portfolioService.CreateLandlord(c.Request.Context(), input, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, landlord)
}

// Get retrieves a landlord by ID
func (h *LandlordHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid landlord ID format")
		return
	}

	landlord, err := h.portfolioService.GetLandlord(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, landlord)
}

// Summary retrieves a landlord with live portfolio counters and aggregate
// financials
func (h *LandlordHandler) Summary(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid landlord ID format")
		return
	}

	summary, err := h.portfolioService.GetLandlordSummary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// List retrieves landlords with filtering and pagination
func (h *LandlordHandler) List(c *gin.Context) {
	base, err := baseFilter(c)
	if err != nil {
		h.HandleBindingError(c, err)
		return
	}

	filter := portfolio.LandlordFilter{Filter: base}
	if raw := c.Query("status"); raw != "" {
		status := portfolio.LandlordStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		landlordType := portfolio.LandlordType(raw)
		filter.Type = &landlordType
	}

	result, err := h.portfolioService.ListLandlords(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginatedMeta(result))
}

// AddProperty creates a property under the landlord
func (h *LandlordHandler) AddProperty(c *gin.Context) {
	landlordID, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid landlord ID format")
		return
	}

	var input portfolioapp.AddPropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	property, err := h.portfolioService.AddProperty(c.Request.Context(), landlordID, input, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, property)
}

// Recompute rebuilds the landlord's rollup counters from owned properties
func (h *LandlordHandler) Recompute(c *gin.Context) {
	landlordID, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid landlord ID format")
		return
	}

	if err := h.portfolioService.RecomputeRollup(c.Request.Context(), landlordID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
