package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/storage"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// IssueLifecycleService applies role-gated transitions to issues.
// Every mutation stamps an audit-trail entry; the repository appends
// it atomically with the content write.
type IssueLifecycleService struct {
	issueRepo repositories.IssueRepository
	blobs     storage.BlobStore

	now func() time.Time
}

func NewIssueLifecycleService(issueRepo repositories.IssueRepository, blobs storage.BlobStore) *IssueLifecycleService {
	return &IssueLifecycleService{
		issueRepo: issueRepo,
		blobs:     blobs,
		now:       time.Now,
	}
}

func (s *IssueLifecycleService) trailEntry(actor dtos.Actor) *models.TrailEntry {
	return &models.TrailEntry{
		Name:     actor.Name,
		EditorID: actor.ID,
		Time:     s.now(),
	}
}

// AuditorUpdate merges content edits from the reporting auditor. Only
// the issue's own auditor may edit, and never after resolution.
func (s *IssueLifecycleService) AuditorUpdate(ctx context.Context, actor dtos.Actor, id uuid.UUID, req dtos.AuditorUpdateRequest) (*models.Issue, error) {
	if err := requirePermission(actor, ActionAuditorEdit); err != nil {
		return nil, err
	}
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue.AuditorID != actor.ID {
		return nil, utils.ErrForbidden
	}
	if issue.Status == models.StatusResolved {
		return nil, fmt.Errorf("issue already resolved: %w", utils.ErrConflict)
	}

	if req.Date != nil {
		if issue.Date, err = utils.ParseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if req.DateIdentified != nil {
		if issue.DateIdentified, err = utils.ParseDate("dateIdentified", *req.DateIdentified); err != nil {
			return nil, err
		}
	}
	if req.Region != nil {
		region := models.RegionType(*req.Region)
		if !region.Valid() {
			return nil, utils.NewFieldError("region", "unknown region "+*req.Region)
		}
		issue.Region = region
	}
	if req.Type != nil {
		t := models.IssueTypeType(*req.Type)
		if !t.Valid() {
			return nil, utils.NewFieldError("type", "unknown type "+*req.Type)
		}
		issue.Type = t
	}
	if req.Station != nil {
		issue.Station = *req.Station
	}
	if req.Details != nil {
		issue.Details = *req.Details
	}
	if req.ActionTaken != nil {
		issue.ActionTaken = *req.ActionTaken
	}
	if req.Priority != nil {
		issue.IsPrioritized = *req.Priority == "Priority"
	}
	if req.EvidencesBefore != nil {
		issue.EvidencesBefore = mergeEvidence(issue.EvidencesBefore, req.EvidencesBefore)
	}

	if err := s.issueRepo.Update(ctx, issue, s.trailEntry(actor)); err != nil {
		return nil, err
	}
	return s.issueRepo.GetByID(ctx, id)
}

// Resolve applies the station manager's outcome. Moving to Resolved
// stamps the resolver and defaults the closure date to now.
func (s *IssueLifecycleService) Resolve(ctx context.Context, actor dtos.Actor, id uuid.UUID, req dtos.ResolveIssueRequest) (*models.Issue, error) {
	if err := requirePermission(actor, ActionResolveIssue); err != nil {
		return nil, err
	}
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleStationManager && issue.StationManagerID != actor.ID {
		return nil, utils.ErrForbidden
	}

	if req.Status != nil {
		status := models.IssueStatusType(*req.Status)
		if !status.Valid() {
			return nil, utils.NewFieldError("status", "unknown status "+*req.Status)
		}
		issue.Status = status
	}
	if req.Feedback != nil {
		issue.Feedback = *req.Feedback
	}
	if req.ActionTaken != nil {
		issue.ActionTaken = *req.ActionTaken
	}
	if req.MaintenanceComment != nil {
		issue.MaintenanceComment = *req.MaintenanceComment
	}
	if req.DateOfClosure != nil {
		closure, err := utils.ParseDate("dateOfClosure", *req.DateOfClosure)
		if err != nil {
			return nil, err
		}
		issue.DateOfClosure = &closure
	}
	if req.EvidencesAfter != nil {
		issue.EvidencesAfter = mergeEvidence(issue.EvidencesAfter, req.EvidencesAfter)
	}

	if issue.Status == models.StatusResolved {
		if issue.DateOfClosure == nil {
			now := s.now()
			issue.DateOfClosure = &now
		}
		actorID := actor.ID
		issue.ResolvedByID = &actorID
	}

	if err := s.issueRepo.Update(ctx, issue, s.trailEntry(actor)); err != nil {
		return nil, err
	}
	return s.issueRepo.GetByID(ctx, id)
}

// AdminCorrect lets an admin overwrite any field, including fields the
// auditor and station manager flows never touch.
func (s *IssueLifecycleService) AdminCorrect(ctx context.Context, actor dtos.Actor, id uuid.UUID, req dtos.AdminCorrectRequest) (*models.Issue, error) {
	if err := requirePermission(actor, ActionAdminCorrect); err != nil {
		return nil, err
	}
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		if issue.Date, err = utils.ParseDate("date", *req.Date); err != nil {
			return nil, err
		}
	}
	if req.DateIdentified != nil {
		if issue.DateIdentified, err = utils.ParseDate("dateIdentified", *req.DateIdentified); err != nil {
			return nil, err
		}
	}
	if req.Region != nil {
		region := models.RegionType(*req.Region)
		if !region.Valid() {
			return nil, utils.NewFieldError("region", "unknown region "+*req.Region)
		}
		issue.Region = region
	}
	if req.Type != nil {
		t := models.IssueTypeType(*req.Type)
		if !t.Valid() {
			return nil, utils.NewFieldError("type", "unknown type "+*req.Type)
		}
		issue.Type = t
	}
	if req.Station != nil {
		issue.Station = *req.Station
	}
	if req.Details != nil {
		issue.Details = *req.Details
	}
	if req.ActionTaken != nil {
		issue.ActionTaken = *req.ActionTaken
	}
	if req.Feedback != nil {
		issue.Feedback = *req.Feedback
	}
	if req.MaintenanceComment != nil {
		issue.MaintenanceComment = *req.MaintenanceComment
	}
	if req.IsPrioritized != nil {
		issue.IsPrioritized = *req.IsPrioritized
	}
	if req.StationManagerID != nil {
		smID, err := uuid.Parse(*req.StationManagerID)
		if err != nil {
			return nil, utils.NewFieldError("stationManager", "invalid id")
		}
		issue.StationManagerID = smID
	}
	if req.DateOfClosure != nil {
		closure, err := utils.ParseDate("dateOfClosure", *req.DateOfClosure)
		if err != nil {
			return nil, err
		}
		issue.DateOfClosure = &closure
	}
	if req.Status != nil {
		status := models.IssueStatusType(*req.Status)
		if !status.Valid() && status != models.StatusCancelled {
			return nil, utils.NewFieldError("status", "unknown status "+*req.Status)
		}
		issue.Status = status
		if status == models.StatusResolved {
			if issue.DateOfClosure == nil {
				now := s.now()
				issue.DateOfClosure = &now
			}
			if issue.ResolvedByID == nil {
				actorID := actor.ID
				issue.ResolvedByID = &actorID
			}
		}
	}

	if err := s.issueRepo.Update(ctx, issue, s.trailEntry(actor)); err != nil {
		return nil, err
	}
	return s.issueRepo.GetByID(ctx, id)
}

// ToggleCancel flips a legacy-cancelled issue back to Pending, or
// parks a live one as Cancelled.
func (s *IssueLifecycleService) ToggleCancel(ctx context.Context, actor dtos.Actor, id uuid.UUID) (*models.Issue, error) {
	if err := requirePermission(actor, ActionToggleCancel); err != nil {
		return nil, err
	}
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if issue.Status == models.StatusCancelled {
		issue.Status = models.StatusPending
	} else {
		issue.Status = models.StatusCancelled
	}
	if err := s.issueRepo.Update(ctx, issue, s.trailEntry(actor)); err != nil {
		return nil, err
	}
	return s.issueRepo.GetByID(ctx, id)
}

// Delete purges every evidence blob first and aborts if any removal
// fails, so the record never ends up pointing at missing blobs while
// claiming to be gone.
func (s *IssueLifecycleService) Delete(ctx context.Context, actor dtos.Actor, id uuid.UUID) error {
	if err := requirePermission(actor, ActionDeleteIssue); err != nil {
		return err
	}
	issue, err := s.issueRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	urls := append(append([]string{}, issue.EvidencesBefore...), issue.EvidencesAfter...)
	for _, u := range urls {
		if err := s.blobs.Delete(ctx, u); err != nil {
			utils.Logger.WithError(err).WithField("url", u).Error("Evidence purge failed, aborting delete")
			return fmt.Errorf("purge evidence %s: %w", u, utils.ErrDependency)
		}
	}

	if err := s.issueRepo.Delete(ctx, id); err != nil {
		return err
	}
	utils.Logger.WithField("code", issue.Code).Info("Issue deleted")
	return nil
}
