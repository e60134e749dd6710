package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/storage"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// EvidenceService manages the evidence registry on issues: uploading
// blobs, attaching their URLs to a record and detaching them again.
type EvidenceService struct {
	issueRepo repositories.IssueRepository
	blobs     storage.BlobStore

	now func() time.Time
}

func NewEvidenceService(issueRepo repositories.IssueRepository, blobs storage.BlobStore) *EvidenceService {
	return &EvidenceService{
		issueRepo: issueRepo,
		blobs:     blobs,
		now:       time.Now,
	}
}

// gate enforces per-phase ownership: auditors manage the before list
// on their own issues, station managers the after list on theirs,
// admins everything.
func (s *EvidenceService) gate(actor dtos.Actor, issue *models.Issue, phase models.EvidencePhase) error {
	if !phase.Valid() {
		return utils.NewFieldError("phase", "unknown evidence phase")
	}
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleAuditor:
		if issue.AuditorID == actor.ID && phase == models.EvidenceBefore {
			return nil
		}
	case models.RoleStationManager:
		if issue.StationManagerID == actor.ID && phase == models.EvidenceAfter {
			return nil
		}
	}
	return utils.ErrForbidden
}

// Upload stores the payload and returns the URL to attach. The key is
// date-partitioned so bucket listings stay navigable.
func (s *EvidenceService) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := path.Join(
		s.now().UTC().Format("2006/01/02"),
		uuid.NewString()+path.Ext(filename),
	)
	url, err := s.blobs.Put(ctx, key, contentType, body)
	if err != nil {
		return "", fmt.Errorf("store evidence: %w", utils.ErrDependency)
	}
	return url, nil
}

// Attach registers urls on the issue's phase list, skipping any it
// already holds.
func (s *EvidenceService) Attach(ctx context.Context, actor dtos.Actor, id uuid.UUID, phase models.EvidencePhase, urls []string) (*models.Issue, error) {
	if err := requirePermission(actor, ActionAttachEvidence); err != nil {
		return nil, err
	}
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate(actor, issue, phase); err != nil {
		return nil, err
	}
	clean := dedupe(urls)
	if len(clean) == 0 {
		return nil, utils.NewFieldError("urls", "no evidence urls supplied")
	}
	if err := s.issueRepo.AttachEvidence(ctx, id, phase, clean); err != nil {
		return nil, err
	}
	return s.issueRepo.GetByID(ctx, id)
}

// Detach removes one occurrence of url from the record, then deletes
// the blob. A blob failure is surfaced as a dependency error; the
// registry entry stays removed, a stranded blob is cheaper than a
// dangling URL.
func (s *EvidenceService) Detach(ctx context.Context, actor dtos.Actor, id uuid.UUID, phase models.EvidencePhase, url string) (*models.Issue, error) {
	if err := requirePermission(actor, ActionDetachEvidence); err != nil {
		return nil, err
	}
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate(actor, issue, phase); err != nil {
		return nil, err
	}
	if err := s.issueRepo.DetachEvidence(ctx, id, phase, url); err != nil {
		return nil, err
	}
	if err := s.blobs.Delete(ctx, url); err != nil {
		utils.Logger.WithError(err).WithField("url", url).Error("Detached evidence blob left behind")
		return nil, fmt.Errorf("delete evidence blob: %w", utils.ErrDependency)
	}
	return s.issueRepo.GetByID(ctx, id)
}
