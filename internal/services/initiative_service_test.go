package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

func newInitiativeService(env *testEnv) *InitiativeService {
	return NewInitiativeService(env.inis, env.blobs)
}

func TestCreateInitiative(t *testing.T) {
	env := newTestEnv(t)
	svc := newInitiativeService(env)

	ini, err := svc.Create(context.Background(), env.auditor, dtos.CreateInitiativeRequest{
		Date:            "2024-05-10",
		Region:          string(models.RegionWRNorth),
		Type:            string(models.TypeHousekeeping),
		Station:         "Station B",
		Details:         "repainted signage",
		EvidencesBefore: []string{"b1", "b1", "b2"},
	})
	require.NoError(t, err)
	require.Len(t, ini.Code, 8)
	require.Equal(t, env.auditor.ID, ini.AuditorID)
	require.Equal(t, []string{"b1", "b2"}, ini.EvidencesBefore, "duplicate urls collapse")

	_, err = svc.Create(context.Background(), env.sm, dtos.CreateInitiativeRequest{
		Date:    "2024-05-10",
		Region:  string(models.RegionWRNorth),
		Type:    string(models.TypeHousekeeping),
		Station: "Station B",
		Details: "x",
	})
	require.ErrorIs(t, err, utils.ErrForbidden, "station managers do not log initiatives")

	_, err = svc.Create(context.Background(), env.auditor, dtos.CreateInitiativeRequest{
		Date:    "2024-05-10",
		Region:  "Atlantis",
		Type:    string(models.TypeHousekeeping),
		Station: "Station B",
		Details: "x",
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestUpdateInitiativeOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := newInitiativeService(env)
	ctx := context.Background()

	ini, err := svc.Create(ctx, env.auditor, dtos.CreateInitiativeRequest{
		Date:    "2024-05-10",
		Region:  string(models.RegionWRNorth),
		Type:    string(models.TypeHousekeeping),
		Station: "Station B",
		Details: "original",
	})
	require.NoError(t, err)

	other := env.addUser(t, "Omar Auditor", "omar@example.com", models.RoleAuditor)
	details := "tampered"
	_, err = svc.Update(ctx, other, ini.ID, dtos.UpdateInitiativeRequest{Details: &details})
	require.ErrorIs(t, err, utils.ErrForbidden, "another auditor cannot edit the record")

	details = "fixed wording"
	updated, err := svc.Update(ctx, env.auditor, ini.ID, dtos.UpdateInitiativeRequest{Details: &details})
	require.NoError(t, err)
	require.Equal(t, "fixed wording", updated.Details)

	details = "admin override"
	updated, err = svc.Update(ctx, env.admin, ini.ID, dtos.UpdateInitiativeRequest{Details: &details})
	require.NoError(t, err)
	require.Equal(t, "admin override", updated.Details)
}

func TestDeleteInitiativePurgesBlobs(t *testing.T) {
	env := newTestEnv(t)
	svc := newInitiativeService(env)
	ctx := context.Background()

	before, err := env.blobs.Put(ctx, "ini/b1.jpg", "image/jpeg", bytesReader("x"))
	require.NoError(t, err)
	after, err := env.blobs.Put(ctx, "ini/a1.jpg", "image/jpeg", bytesReader("y"))
	require.NoError(t, err)

	ini, err := svc.Create(ctx, env.auditor, dtos.CreateInitiativeRequest{
		Date:            "2024-05-10",
		Region:          string(models.RegionWRNorth),
		Type:            string(models.TypeHousekeeping),
		Station:         "Station B",
		Details:         "to be removed",
		EvidencesBefore: []string{before},
		EvidencesAfter:  []string{after},
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, env.auditor, ini.ID), utils.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, env.admin, ini.ID))
	require.False(t, env.blobs.Has(before))
	require.False(t, env.blobs.Has(after))

	_, err = env.inis.GetByID(ctx, ini.ID)
	require.ErrorIs(t, err, utils.ErrNotFound)
}

func TestDeleteInitiativeAbortsOnBlobFailure(t *testing.T) {
	env := newTestEnv(t)
	svc := newInitiativeService(env)
	ctx := context.Background()

	stuck, err := env.blobs.Put(ctx, "ini/stuck.jpg", "image/jpeg", bytesReader("x"))
	require.NoError(t, err)
	ini, err := svc.Create(ctx, env.auditor, dtos.CreateInitiativeRequest{
		Date:            "2024-05-10",
		Region:          string(models.RegionWRNorth),
		Type:            string(models.TypeHousekeeping),
		Station:         "Station B",
		Details:         "sticky",
		EvidencesBefore: []string{stuck},
	})
	require.NoError(t, err)

	env.blobs.DeleteErr = errors.New("bucket offline")
	require.ErrorIs(t, svc.Delete(ctx, env.admin, ini.ID), utils.ErrDependency)

	env.blobs.DeleteErr = nil
	_, err = env.inis.GetByID(ctx, ini.ID)
	require.NoError(t, err, "record survives an aborted purge")
}

func TestListInitiatives(t *testing.T) {
	env := newTestEnv(t)
	svc := newInitiativeService(env)
	ctx := context.Background()

	for _, station := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := svc.Create(ctx, env.auditor, dtos.CreateInitiativeRequest{
			Date:    "2024-05-10",
			Region:  string(models.RegionWRNorth),
			Type:    string(models.TypeHousekeeping),
			Station: station,
			Details: "work at " + station,
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, env.viewer, dtos.InitiativeListRequest{})
	require.NoError(t, err)
	require.Equal(t, 3, resp.TotalInitiatives)
	require.Equal(t, "Asha Auditor", resp.Initiatives[0].AuditorName)

	resp, err = svc.List(ctx, env.viewer, dtos.InitiativeListRequest{
		Params: dtos.InitiativeListParams{Station: "bet"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalInitiatives)
	require.Equal(t, "Beta", resp.Initiatives[0].Station)

	_, err = svc.List(ctx, env.viewer, dtos.InitiativeListRequest{
		Filter: dtos.ReportListFilter{RegionFilter: []string{"Atlantis"}},
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}
