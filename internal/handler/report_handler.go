package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HackGhosT04/sccs-library-db/internal/service"
	"github.com/HackGhosT04/sccs-library-db/pkg/response"
)

// ReportHandler exposes staff report exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// OverdueLoans godoc
// @Summary Export overdue loans
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Router /reports/overdue-loans [get]
func (h *ReportHandler) OverdueLoans(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))
	report, err := h.reports.OverdueLoans(c.Request.Context(), userFromContext(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName))
	c.Data(http.StatusOK, report.ContentType, report.Content)
}
