package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/lettings/backend/internal/application/payment"
	tenancyapp "github.com/lettings/backend/internal/application/tenancy"
	"github.com/lettings/backend/internal/domain/tenancy"
	"github.com/lettings/backend/internal/interfaces/http/middleware"
)

// TenancyHandler handles tenancy agreement API endpoints
type TenancyHandler struct {
	BaseHandler
	tenancyService *tenancyapp.TenancyService
	paymentService *paymentapp.PaymentService
}

// NewTenancyHandler creates a new TenancyHandler
func NewTenancyHandler(tenancyService *tenancyapp.TenancyService, paymentService *paymentapp.PaymentService) *TenancyHandler {
	return &TenancyHandler{
		tenancyService: tenancyService,
		paymentService: paymentService,
	}
}

// RegisterRoutes registers tenancy routes on the API group
func (h *TenancyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenancies := rg.Group("/tenancies")
	{
		tenancies.GET("", h.List)
		tenancies.GET("/:id", h.Get)
		tenancies.POST("/:id/activate", h.Activate)
		tenancies.POST("/:id/end", h.End)
		tenancies.POST("/:id/payments", h.RecordPayment)
	}
}

// Get retrieves a tenancy agreement by ID
func (h *TenancyHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenancy ID format")
		return
	}

	agreement, err := h.tenancyService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agreement)
}

// List retrieves tenancy agreements with filtering and pagination
func (h *TenancyHandler) List(c *gin.Context) {
	base, err := baseFilter(c)
	if err != nil {
		h.HandleBindingError(c, err)
		return
	}

	filter := tenancy.TenancyFilter{Filter: base}
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
		status := tenancy.TenancyStatus(raw)
		filter.Status = &status
	}
	filter.ActiveOn, err = queryTime(c, "active_on")
	if err != nil {
		h.BadRequest(c, "Invalid active_on date format")
		return
	}

	result, err := h.tenancyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginatedMeta(result))
}

// Activate moves a drafted tenancy into ACTIVE
func (h *TenancyHandler) Activate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenancy ID format")
		return
	}

	agreement, err := h.tenancyService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agreement)
}

// End closes a tenancy and releases the property
func (h *TenancyHandler) End(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenancy ID format")
		return
	}

	var input tenancyapp.EndTenancyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	agreement, err := h.tenancyService.End(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agreement)
}

// RecordPayment records a rent payment against the tenancy
func (h *TenancyHandler) RecordPayment(c *gin.Context) {
	tenancyID, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenancy ID format")
		return
	}

	var input paymentapp.RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	recorded, err := h.paymentService.Record(c.Request.Context(), tenancyID, input, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, recorded)
}
