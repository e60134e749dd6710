package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/services"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// IssuesController handles the full issue lifecycle: creation,
// role-gated edits, cancellation, deletion and evidence management.
type IssuesController struct {
	issueService     *services.IssueService
	lifecycleService *services.IssueLifecycleService
	evidenceService  *services.EvidenceService
}

func NewIssuesController(
	is *services.IssueService,
	ls *services.IssueLifecycleService,
	es *services.EvidenceService,
) *IssuesController {
	return &IssuesController{
		issueService:     is,
		lifecycleService: ls,
		evidenceService:  es,
	}
}

// POST /api/v1/issues
func (c *IssuesController) CreateIssueHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req dtos.CreateIssueRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	issue, err := c.issueService.Create(r.Context(), actor, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"success": true, "report": issue})
}

// GET /api/v1/issues/{id}
func (c *IssuesController) GetIssueHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	issue, err := c.issueService.GetByID(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "report": issue})
}

// PUT /api/v1/auditor/issues/{id}
func (c *IssuesController) AuditorUpdateHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.AuditorUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	issue, err := c.lifecycleService.AuditorUpdate(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "report": issue})
}

// PUT /api/v1/sm/issues/{id}
func (c *IssuesController) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.ResolveIssueRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	issue, err := c.lifecycleService.Resolve(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "report": issue})
}

// PUT /api/v1/admin/issues/{id}
func (c *IssuesController) AdminCorrectHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req dtos.AdminCorrectRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	issue, err := c.lifecycleService.AdminCorrect(r.Context(), actor, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "report": issue})
}

// PUT /api/v1/admin/issues/{id}/cancel
func (c *IssuesController) ToggleCancelHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	issue, err := c.lifecycleService.ToggleCancel(r.Context(), actor, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "report": issue})
}

// DELETE /api/v1/admin/issues/{id}
func (c *IssuesController) DeleteIssueHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := c.lifecycleService.Delete(r.Context(), actor, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}

// ----------------------------------------------------------------
// Evidence
// ----------------------------------------------------------------

const maxEvidenceUpload = 20 << 20 // 20 MiB

// POST /api/v1/evidence
// Multipart upload; returns the URL to attach to a record.
func (c *IssuesController) UploadEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	if err := r.ParseMultipartForm(maxEvidenceUpload); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid multipart payload", nil, err,
		)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Missing file field", nil, err,
		)
		return
	}
	defer file.Close()

	url, err := c.evidenceService.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"success": true, "url": url})
}

type attachEvidenceRequest struct {
	URLs []string `json:"urls" validate:"required,min=1"`
}

// POST /api/v1/issues/{id}/evidence/{phase}
func (c *IssuesController) AttachEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req attachEvidenceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	phase := models.EvidencePhase(mux.Vars(r)["phase"])
	issue, err := c.evidenceService.Attach(r.Context(), actor, id, phase, req.URLs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "report": issue})
}

type detachEvidenceRequest struct {
	URL string `json:"url" validate:"required"`
}

// DELETE /api/v1/issues/{id}/evidence/{phase}
func (c *IssuesController) DetachEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req detachEvidenceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	phase := models.EvidencePhase(mux.Vars(r)["phase"])
	issue, err := c.evidenceService.Detach(r.Context(), actor, id, phase, req.URL)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "report": issue})
}
