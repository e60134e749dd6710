package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/storage"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// InitiativeService manages proactive-work records. No status machine
// applies; auditors own their records, admins own all of them.
type InitiativeService struct {
	iniRepo repositories.InitiativeRepository
	blobs   storage.BlobStore
}

func NewInitiativeService(iniRepo repositories.InitiativeRepository, blobs storage.BlobStore) *InitiativeService {
	return &InitiativeService{iniRepo: iniRepo, blobs: blobs}
}

func (s *InitiativeService) Create(ctx context.Context, actor dtos.Actor, req dtos.CreateInitiativeRequest) (*models.Initiative, error) {
	if err := requirePermission(actor, ActionCreateInitiative); err != nil {
		return nil, err
	}
	region := models.RegionType(req.Region)
	if !region.Valid() {
		return nil, utils.NewFieldError("region", "unknown region "+req.Region)
	}
	iniType := models.IssueTypeType(req.Type)
	if !iniType.Valid() {
		return nil, utils.NewFieldError("type", "unknown type "+req.Type)
	}
	date, err := utils.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	ini := &models.Initiative{
		ID:              uuid.New(),
		Code:            utils.NewReportCode(),
		AuditorID:       actor.ID,
		Date:            date,
		Region:          region,
		Type:            iniType,
		Station:         req.Station,
		Details:         req.Details,
		EvidencesBefore: dedupe(req.EvidencesBefore),
		EvidencesAfter:  dedupe(req.EvidencesAfter),
	}
	if err := s.iniRepo.Create(ctx, ini); err != nil {
		return nil, err
	}
	utils.Logger.WithField("code", ini.Code).Info("Initiative created")
	return ini, nil
}

func (s *InitiativeService) Update(ctx context.Context, actor dtos.Actor, id uuid.UUID, req dtos.UpdateInitiativeRequest) (*models.Initiative, error) {
	if err := requirePermission(actor, ActionEditInitiative); err != nil {
		return nil, err
	}
	ini, err := s.iniRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin && ini.AuditorID != actor.ID {
		return nil, utils.ErrForbidden
	}

	if req.Date != nil {
		if ini.Date, err = utils.ParseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if req.Region != nil {
		region := models.RegionType(*req.Region)
		if !region.Valid() {
			return nil, utils.NewFieldError("region", "unknown region "+*req.Region)
		}
		ini.Region = region
	}
	if req.Type != nil {
		t := models.IssueTypeType(*req.Type)
		if !t.Valid() {
			return nil, utils.NewFieldError("type", "unknown type "+*req.Type)
		}
		ini.Type = t
	}
	if req.Station != nil {
		ini.Station = *req.Station
	}
	if req.Details != nil {
		ini.Details = *req.Details
	}
	if req.EvidencesBefore != nil {
		ini.EvidencesBefore = dedupe(req.EvidencesBefore)
	}
	if req.EvidencesAfter != nil {
		ini.EvidencesAfter = dedupe(req.EvidencesAfter)
	}

	if err := s.iniRepo.Update(ctx, ini); err != nil {
		return nil, err
	}
	return s.iniRepo.GetByID(ctx, id)
}

// Delete purges evidence blobs before removing the record, aborting if
// any blob cannot be deleted.
func (s *InitiativeService) Delete(ctx context.Context, actor dtos.Actor, id uuid.UUID) error {
	if err := requirePermission(actor, ActionDeleteInitiative); err != nil {
		return err
	}
	ini, err := s.iniRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	urls := append(append([]string{}, ini.EvidencesBefore...), ini.EvidencesAfter...)
	for _, u := range urls {
		if err := s.blobs.Delete(ctx, u); err != nil {
			utils.Logger.WithError(err).WithField("url", u).Error("Evidence purge failed, aborting delete")
			return utils.ErrDependency
		}
	}
	return s.iniRepo.Delete(ctx, id)
}

func (s *InitiativeService) List(ctx context.Context, actor dtos.Actor, req dtos.InitiativeListRequest) (*dtos.InitiativeListResponse, error) {
	if err := requirePermission(actor, ActionViewReports); err != nil {
		return nil, err
	}

	c, err := buildInitiativeCriteria(req)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.iniRepo.Search(ctx, *c)
	if err != nil {
		return nil, err
	}
	return &dtos.InitiativeListResponse{
		Success:          true,
		Initiatives:      rows,
		TotalInitiatives: total,
	}, nil
}

// buildInitiativeCriteria validates and parses the wire-level filter
// set into the repository-facing form.
func buildInitiativeCriteria(req dtos.InitiativeListRequest) (*dtos.InitiativeCriteria, error) {
	c := dtos.InitiativeCriteria{
		Code:     req.Params.ID,
		Auditor:  req.Params.Auditor,
		Station:  req.Params.Station,
		Type:     req.Params.Type,
		Region:   req.Params.Region,
		Page:     req.Params.Current,
		PageSize: req.Params.PageSize,
	}
	normalizePaging(&c.Page, &c.PageSize)

	var err error
	if c.Date, err = parseRange("date", req.Params.Date); err != nil {
		return nil, err
	}
	if c.TypeIn, err = validateSet("typeFilter", req.Filter.TypeFilter, func(v string) bool {
		return models.IssueTypeType(v).Valid()
	}); err != nil {
		return nil, err
	}
	if c.RegionIn, err = validateSet("regionFilter", req.Filter.RegionFilter, func(v string) bool {
		return models.RegionType(v).Valid()
	}); err != nil {
		return nil, err
	}
	switch req.Sorter.DateSorter {
	case "":
	case "ascend":
		c.Sort, c.Desc = dtos.SortByDate, false
	case "descend":
		c.Sort, c.Desc = dtos.SortByDate, true
	default:
		return nil, utils.NewFieldError("dateSorter", "unknown sort direction "+req.Sorter.DateSorter)
	}
	return &c, nil
}
