package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/lettings/backend/internal/application/report"
	"github.com/lettings/backend/internal/domain/report"
	"github.com/lettings/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes on the API group
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/landlords/:id/reports", h.Generate)
	reports := rg.Group("/reports")
	{
		reports.GET("", h.List)
		reports.GET("/:id", h.Get)
	}
}

// Generate starts report generation for the landlord and period. The report
// row returns immediately in GENERATING; totals arrive asynchronously.
func (h *ReportHandler) Generate(c *gin.Context) {
	landlordID, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid landlord ID format")
		return
	}

	var input reportapp.GenerateReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.HandleBindingError(c, err)
		return
	}

	r, err := h.reportService.Generate(c.Request.Context(), landlordID, input, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, r)
}

// Get retrieves a report by ID
func (h *ReportHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	r, err := h.reportService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, r)
}

// List retrieves reports with filtering and pagination
func (h *ReportHandler) List(c *gin.Context) {
	base, err := baseFilter(c)
	if err != nil {
		h.HandleBindingError(c, err)
		return
	}

	filter := report.ReportFilter{Filter: base}
	filter.LandlordID, err = queryUUID(c, "landlord_id")
	if err != nil {
		h.BadRequest(c, "Invalid landlord_id format")
		return
	}
	if raw := c.Query("status"); raw != "" {
		status := report.ReportStatus(raw)
		filter.Status = &status
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

	result, err := h.reportService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, paginatedMeta(result))
}
