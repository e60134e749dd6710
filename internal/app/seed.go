package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// SeedTestData loads a small fixture set for local development: one
// user per role plus a pair of issues. Re-running against a seeded
// database is a no-op.
func SeedTestData(
	ctx context.Context,
	userRepo repositories.UserRepository,
	issueRepo repositories.IssueRepository,
) error {
	hash, err := utils.HashPassword("password123")
	if err != nil {
		return err
	}

	seedUsers := []models.User{
		{ID: uuid.New(), Name: "Seed Admin", Email: "admin@example.com", Role: models.RoleAdmin},
		{ID: uuid.New(), Name: "Seed Auditor", Email: "auditor@example.com", Role: models.RoleAuditor},
		{ID: uuid.New(), Name: "Seed Manager", Email: "sm@example.com", Role: models.RoleStationManager},
		{ID: uuid.New(), Name: "Seed Viewer", Email: "viewer@example.com", Role: models.RoleViewer},
	}
	byEmail := map[string]uuid.UUID{}
	for i := range seedUsers {
		seedUsers[i].PasswordHash = hash
		err := userRepo.Create(ctx, &seedUsers[i])
		if errors.Is(err, utils.ErrEmailExists) {
			existing, gErr := userRepo.GetByEmail(ctx, seedUsers[i].Email)
			if gErr != nil {
				return gErr
			}
			byEmail[existing.Email] = existing.ID
			continue
		}
		if err != nil {
			return err
		}
		byEmail[seedUsers[i].Email] = seedUsers[i].ID
	}

	existing, _, err := issueRepo.Search(ctx, seedProbe())
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		utils.Logger.Info("Seed issues already present, skipping")
		return nil
	}

	now := time.Now()
	issues := []models.Issue{
		{
			ID:               uuid.New(),
			Code:             utils.NewReportCode(),
			AuditorID:        byEmail["auditor@example.com"],
			StationManagerID: byEmail["sm@example.com"],
			Date:             now.AddDate(0, 0, -2),
			DateIdentified:   now.AddDate(0, 0, -4),
			Region:           models.RegionWRNorth,
			Type:             models.TypeHousekeeping,
			Station:          "Seed Station North",
			Details:          "Seed issue raised for local development",
			EvidencesBefore:  []string{},
			EvidencesAfter:   []string{},
			Status:           models.StatusPending,
			UpdatedBy:        []models.TrailEntry{},
		},
		{
			ID:               uuid.New(),
			Code:             utils.NewReportCode(),
			AuditorID:        byEmail["auditor@example.com"],
			StationManagerID: byEmail["sm@example.com"],
			Date:             now.AddDate(0, 0, -10),
			DateIdentified:   now.AddDate(0, 0, -12),
			Region:           models.RegionSouthern,
			Type:             models.TypeSafety,
			Station:          "Seed Station South",
			Details:          "Aged seed issue, picked up by the escalation sweep",
			EvidencesBefore:  []string{},
			EvidencesAfter:   []string{},
			Status:           models.StatusMaintenance,
			UpdatedBy:        []models.TrailEntry{},
		},
	}
	for i := range issues {
		if err := issueRepo.Create(ctx, &issues[i]); err != nil {
			return err
		}
	}
	utils.Logger.Infof("Seeded %d users and %d issues", len(seedUsers), len(issues))
	return nil
}

func seedProbe() dtos.IssueCriteria {
	return dtos.IssueCriteria{
		Station:  "Seed Station",
		Page:     1,
		PageSize: 1,
	}
}
