package controllers

import (
	"net/http"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/services"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

type InitiativesController struct {
	initiativeService *services.InitiativeService
	exportService     *services.InitiativeExportService
}

func NewInitiativesController(is *services.InitiativeService, es *services.InitiativeExportService) *InitiativesController {
	return &InitiativesController{initiativeService: is, exportService: es}
}

// POST /api/v1/initiatives
func (c *InitiativesController) CreateInitiativeHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.CreateInitiativeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ini, err := c.initiativeService.Create(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"success": true, "initiative": ini})
}

// PUT /api/v1/initiatives/{id}
func (c *InitiativesController) UpdateInitiativeHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.UpdateInitiativeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	ini, err := c.initiativeService.Update(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "initiative": ini})
}

// DELETE /api/v1/admin/initiatives/{id}
func (c *InitiativesController) DeleteInitiativeHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.initiativeService.Delete(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}

// POST /api/v1/reports/initiatives
func (c *InitiativesController) ListInitiativesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.InitiativeListRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.initiativeService.List(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/reports/initiatives/export
func (c *InitiativesController) ExportInitiativesHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.InitiativeExportRequest
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

// POST /api/v1/reports/initiatives/export/csv
// Same projection as the JSON export, streamed as a CSV attachment.
func (c *InitiativesController) ExportInitiativesCSVHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.InitiativeExportRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.exportService.Export(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="initiatives.csv"`)
	if err := services.WriteInitiativeCSV(w, resp.Initiatives); err != nil {
		utils.Logger.WithError(err).Error("CSV export stream failed")
	}
}
