package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
)

func TestExportRowFormatting(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueExportService(env.issues)
	ctx := context.Background()

	smID := env.sm.ID
	closure := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	identified := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	env.addIssue(t, func(i *models.Issue) {
		i.Code = "resolved"
		i.Date = time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
		i.DateIdentified = identified
		i.DateOfClosure = &closure
		i.ResolvedByID = &smID
		i.Status = models.StatusResolved
		i.Details = `platform "wet" again`
		i.CreatedAt = time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	})
	env.addIssue(t, func(i *models.Issue) {
		i.Code = "openiss1"
		i.DateIdentified = time.Now().Add(-3*24*time.Hour - time.Hour)
		i.CreatedAt = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	})

	resp, err := svc.Export(ctx, env.viewer, dtos.ReportExportRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Reports, 2)

	// Oldest first.
	require.Equal(t, "openiss1", resp.Reports[0].ID)
	require.Equal(t, "resolved", resp.Reports[1].ID)

	openRow, resolvedRow := resp.Reports[0], resp.Reports[1]

	require.Equal(t, "3", openRow.DaysOpen)
	require.Equal(t, "-", openRow.DaysResolved)
	require.Equal(t, "-", openRow.ResolvedByName)
	require.Equal(t, "-", openRow.DateOfClosure)

	require.Equal(t, "-", resolvedRow.DaysOpen)
	require.Equal(t, "5", resolvedRow.DaysResolved)
	require.Equal(t, env.sm.Name, resolvedRow.ResolvedByName)
	require.Equal(t, "20-Mar-24", resolvedRow.DateOfClosure)
	require.Equal(t, "16-Mar-24", resolvedRow.Date)
	require.Equal(t, "15-Mar-24", resolvedRow.DateIdentified)
	require.Equal(t, "platform wet again", resolvedRow.Details, "double quotes are stripped")
}

func TestWriteCSV(t *testing.T) {
	rows := []dtos.IssueExportRow{
		{
			ID: "abc12345", Date: "16-Mar-24", Auditor: "Asha", StationManager: "Sami",
			Status: "Pending", Type: "Housekeeping", Region: "WR-North",
			Details: "has, a comma", DateIdentified: "15-Mar-24", Station: "A",
			DaysOpen: "3", DaysResolved: "-", ResolvedByName: "-", DateOfClosure: "-",
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "ID,Date,Auditor"))
	require.Contains(t, lines[1], `"has, a comma"`)
}
