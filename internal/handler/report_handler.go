package handler

import (
	"net/http"
	"strings"

	"classifieds-core/internal/commands"
	"classifieds-core/internal/domain/report"
	"classifieds-core/internal/repository"
	"classifieds-core/internal/services"
	"classifieds-core/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service *services.ModerationService
}

func NewReportHandler(service *services.ModerationService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create handles POST /v1/reports.
func (h *ReportHandler) Create(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req httpdto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	res, err := h.service.CreateReport(c.Request.Context(), commands.CreateReportCommand{
		ListingID:    req.ListingID,
		ReporterID:   caller.ID,
		ReporterName: caller.Name,
		Reason:       report.Reason(strings.ToUpper(strings.TrimSpace(req.Reason))),
		Description:  req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromCreatedReport(res)))
}

// ListMine handles GET /v1/me/reports.
func (h *ReportHandler) ListMine(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	p, ok := pagination(c)
	if !ok {
		return
	}

	res, err := h.service.ListMyReports(c.Request.Context(), caller.ID, report.Status(strings.ToUpper(c.Query("status"))), p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromReportPage(res)))
}

// List handles GET /v1/admin/reports.
func (h *ReportHandler) List(c *gin.Context) {
	p, ok := pagination(c)
	if !ok {
		return
	}
	filter := repository.ReportFilter{
		Status:    report.Status(strings.ToUpper(c.Query("status"))),
		Reason:    report.Reason(strings.ToUpper(c.Query("reason"))),
		ListingID: c.Query("listingId"),
		Query:     c.Query("q"),
	}

	res, err := h.service.ListReports(c.Request.Context(), filter, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromReportPage(res)))
}

// Get handles GET /v1/admin/reports/:id.
func (h *ReportHandler) Get(c *gin.Context) {
	detail, err := h.service.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromReportDetail(detail)))
}

// Resolve handles PATCH /v1/admin/reports/:id.
func (h *ReportHandler) Resolve(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var req httpdto.ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	res, err := h.service.Resolve(c.Request.Context(), commands.ResolveReportCommand{
		ReportID:       c.Param("id"),
		ReviewerID:     caller.ID,
		TargetStatus:   report.Status(strings.ToUpper(strings.TrimSpace(req.Status))),
		ResolutionNote: req.ResolutionNote,
		RemoveListing:  req.RemoveListing,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromResolvedReport(res)))
}

func pagination(c *gin.Context) (services.Pagination, bool) {
	page, ok := queryInt(c, "page")
	if !ok {
		return services.Pagination{}, false
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return services.Pagination{}, false
	}
	return services.Pagination{Page: page, Limit: limit}, true
}
