package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/lettings/backend/internal/application/payment"
	"github.com/lettings/backend/internal/domain/payment"
)

// PaymentHandler handles rent payment API endpoints. Recording happens on
// the tenancy routes; this handler covers queries and settlement
// transitions.
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ReasonRequest carries a free-text reason for a transition
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RegisterRoutes registers payment routes on the API group
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
		payments.POST("/:id/confirm", h.ConfirmSettlement)
		payments.POST("/:id/fail", h.FailSettlement)
		payments.POST("/:id/refund", h.Refund)
		payments.POST("/:id/cancel", h.Cancel)
	}
}

// Get retrieves a payment by ID
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	p, err := h.paymentService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// List retrieves payments with filtering and pagination
func (h *PaymentHandler) List(c *gin.Context) {
	base, err := baseFilter(c)
	if err != nil {
		h.HandleBindingError(c, err)
		return
	}

	filter := payment.PaymentFilter{Filter: base}
	filter.TenancyID, err = queryUUID(c, "tenancy_id")
	if err != nil {
		h.BadRequest(c, "Invalid tenancy_id format")
		return
	}
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
		status := payment.PaymentStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("method"); raw != "" {
		method := payment.PaymentMethod(raw)
		filter.Method = &method
	}
	filter.IsLate = queryBool(c, "is_late")
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

	result, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginatedMeta(result))
}

// ConfirmSettlement settles a pending clearing payment
func (h *PaymentHandler) ConfirmSettlement(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	p, err := h.paymentService.ConfirmSettlement(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// FailSettlement marks a pending payment as failed, reversing its allocation
func (h *PaymentHandler) FailSettlement(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	p, err := h.paymentService.FailSettlement(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// Refund refunds a completed payment
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	p, err := h.paymentService.Refund(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}

// Cancel cancels a pending payment before settlement
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	p, err := h.paymentService.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, p)
}
