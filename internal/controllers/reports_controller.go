package controllers

import (
	"net/http"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/services"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// ReportsController serves the query engine: filtered listings, CSV
// export and the aggregated dashboard statistics.
type ReportsController struct {
	listingService *services.IssueListingService
	exportService  *services.IssueExportService
	statsService   *services.IssueStatsService
}

func NewReportsController(
	ls *services.IssueListingService,
	es *services.IssueExportService,
	ss *services.IssueStatsService,
) *ReportsController {
	return &ReportsController{
		listingService: ls,
		exportService:  es,
		statsService:   ss,
	}
}

// POST /api/v1/reports/issues
func (c *ReportsController) ListIssuesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.ReportListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.listingService.List(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/reports/issues/export
func (c *ReportsController) ExportIssuesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.ReportExportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.exportService.Export(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/reports/issues/export/csv
// Same projection as the JSON export, streamed as a CSV attachment.
func (c *ReportsController) ExportIssuesCSVHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.ReportExportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.exportService.Export(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="issues.csv"`)
	if err := services.WriteCSV(w, resp.Reports); err != nil {
		utils.Logger.WithError(err).Error("CSV export stream failed")
	}
}

// POST /api/v1/reports/stats
func (c *ReportsController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.StatsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.statsService.Stats(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}
