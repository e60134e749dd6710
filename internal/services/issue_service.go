package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// IssueService owns issue creation and lookup. Lifecycle transitions
// live in IssueLifecycleService.
type IssueService struct {
	issueRepo repositories.IssueRepository
	userRepo  repositories.UserRepository
}

func NewIssueService(issueRepo repositories.IssueRepository, userRepo repositories.UserRepository) *IssueService {
	return &IssueService{issueRepo: issueRepo, userRepo: userRepo}
}

func (s *IssueService) Create(ctx context.Context, actor dtos.Actor, req dtos.CreateIssueRequest) (*models.Issue, error) {
	if err := requirePermission(actor, ActionCreateIssue); err != nil {
		return nil, err
	}

	region := models.RegionType(req.Region)
	if !region.Valid() {
		return nil, utils.NewFieldError("region", "unknown region "+req.Region)
	}
	issueType := models.IssueTypeType(req.Type)
	if !issueType.Valid() {
		return nil, utils.NewFieldError("type", "unknown type "+req.Type)
	}

	date, err := utils.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	dateIdentified, err := utils.ParseDate("dateIdentified", req.DateIdentified)
	if err != nil {
		return nil, err
	}

	smID, err := uuid.Parse(req.StationManagerID)
	if err != nil {
		return nil, utils.NewFieldError("stationManager", "invalid id")
	}
	sm, err := s.userRepo.GetByID(ctx, smID)
	if err != nil {
		return nil, utils.NewFieldError("stationManager", "no such user")
	}
	if sm.Role != models.RoleStationManager {
		return nil, utils.NewFieldError("stationManager", "user is not a station manager")
	}

	issue := &models.Issue{
		ID:               uuid.New(),
		Code:             utils.NewReportCode(),
		AuditorID:        actor.ID,
		StationManagerID: smID,
		Date:             date,
		DateIdentified:   dateIdentified,
		Region:           region,
		Type:             issueType,
		Station:          req.Station,
		Details:          req.Details,
		EvidencesBefore:  dedupe(req.EvidencesBefore),
		EvidencesAfter:   []string{},
		Status:           models.StatusPending,
		IsPrioritized:    req.Priority == "Priority",
		UpdatedBy:        []models.TrailEntry{},
	}

	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	utils.Logger.WithField("code", issue.Code).Info("Issue created")
	return issue, nil
}

func (s *IssueService) GetByID(ctx context.Context, id uuid.UUID) (*models.Issue, error) {
	return s.issueRepo.GetByID(ctx, id)
}

// dedupe removes empty strings and repeats, keeping first-seen order.
func dedupe(urls []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// mergeEvidence appends incoming urls the stored list does not already
// hold. Existing entries are never dropped; edits grow the registry.
func mergeEvidence(stored, incoming []string) []string {
	out := append([]string{}, stored...)
	seen := map[string]bool{}
	for _, u := range stored {
		seen[u] = true
	}
	for _, u := range incoming {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
