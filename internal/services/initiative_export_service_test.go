package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

func TestExportInitiatives(t *testing.T) {
	env := newTestEnv(t)
	svc := NewInitiativeExportService(env.inis)
	ctx := context.Background()

	addIni := func(code string, created time.Time, mutate func(*models.Initiative)) {
		ini := &models.Initiative{
			ID:              uuid.New(),
			Code:            code,
			AuditorID:       env.auditor.ID,
			Date:            time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Region:          models.RegionWRNorth,
			Type:            models.TypeHousekeeping,
			Station:         "Station A",
			Details:         "repainted signage",
			EvidencesBefore: []string{},
			EvidencesAfter:  []string{},
			CreatedAt:       created,
		}
		if mutate != nil {
			mutate(ini)
		}
		require.NoError(t, env.inis.Create(ctx, ini))
	}

	addIni("newerini", time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), func(i *models.Initiative) {
		i.Date = time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
		i.Details = `fence "gap" closed`
	})
	addIni("olderini", time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), nil)

	resp, err := svc.Export(ctx, env.viewer, dtos.InitiativeExportRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Initiatives, 2)

	// Oldest first.
	require.Equal(t, "olderini", resp.Initiatives[0].ID)
	require.Equal(t, "newerini", resp.Initiatives[1].ID)

	newer := resp.Initiatives[1]
	require.Equal(t, "11-May-24", newer.Date)
	require.Equal(t, "Asha Auditor", newer.Auditor)
	require.Equal(t, string(models.TypeHousekeeping), newer.Type)
	require.Equal(t, string(models.RegionWRNorth), newer.Region)
	require.Equal(t, "Station A", newer.Station)
	require.Equal(t, "fence gap closed", newer.Details, "double quotes are stripped")
}

func TestExportInitiativesAppliesFilters(t *testing.T) {
	env := newTestEnv(t)
	listSvc := newInitiativeService(env)
	svc := NewInitiativeExportService(env.inis)
	ctx := context.Background()

	for _, station := range []string{"Alpha", "Beta"} {
		_, err := listSvc.Create(ctx, env.auditor, dtos.CreateInitiativeRequest{
			Date:    "2024-05-10",
			Region:  string(models.RegionWRNorth),
			Type:    string(models.TypeHousekeeping),
			Station: station,
			Details: "work at " + station,
		})
		require.NoError(t, err)
	}

	resp, err := svc.Export(ctx, env.viewer, dtos.InitiativeExportRequest{
		Filters: dtos.InitiativeListParams{Station: "bet"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Initiatives, 1)
	require.Equal(t, "Beta", resp.Initiatives[0].Station)

	_, err = svc.Export(ctx, env.viewer, dtos.InitiativeExportRequest{
		Filters: dtos.InitiativeListParams{Date: []string{"not-a-date", "also-bad"}},
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestWriteInitiativeCSV(t *testing.T) {
	rows := []dtos.InitiativeExportRow{
		{
			ID: "abc12345", Date: "10-May-24", Auditor: "Asha",
			Type: "Housekeeping", Region: "WR-North", Station: "A",
			Details: "has, a comma",
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteInitiativeCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "ID,Date,Auditor"))
	require.Contains(t, lines[1], `"has, a comma"`)
}
