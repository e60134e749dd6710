package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

func TestStatsMergesTypeCounts(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueStatsService(env.issues)

	add := func(region models.RegionType, status models.IssueStatusType, typ models.IssueTypeType) {
		env.addIssue(t, func(i *models.Issue) {
			i.Region = region
			i.Status = status
			i.Type = typ
		})
	}
	add(models.RegionSouthern, models.StatusPending, models.TypeSafety)
	add(models.RegionSouthern, models.StatusPending, models.TypeSafety)
	add(models.RegionSouthern, models.StatusPending, models.TypeHousekeeping)
	add(models.RegionSouthern, models.StatusResolved, models.TypeSafety)
	add(models.RegionWRNorth, models.StatusPending, models.TypeITIssues)

	resp, err := svc.Stats(context.Background(), env.viewer, dtos.StatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 5, resp.Total)

	var southernPending *dtos.RegionStatusStat
	for i := range resp.RegionStats {
		if resp.RegionStats[i].Region == string(models.RegionSouthern) &&
			resp.RegionStats[i].Status == string(models.StatusPending) {
			southernPending = &resp.RegionStats[i]
		}
	}
	require.NotNil(t, southernPending)
	require.Equal(t, 3, southernPending.Count)
	require.Equal(t, 2, southernPending.TypeCounts[string(models.TypeSafety)])
	require.Equal(t, 1, southernPending.TypeCounts[string(models.TypeHousekeeping)])

	statusTotals := map[string]int{}
	for _, s := range resp.OverallStats {
		statusTotals[s.Status] = s.Count
	}
	require.Equal(t, 4, statusTotals[string(models.StatusPending)])
	require.Equal(t, 1, statusTotals[string(models.StatusResolved)])
}

func TestStatsMonthFilter(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueStatsService(env.issues)

	env.addIssue(t, func(i *models.Issue) {
		i.Date = time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)
	})
	env.addIssue(t, func(i *models.Issue) {
		i.Date = time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	})

	resp, err := svc.Stats(context.Background(), env.viewer, dtos.StatsRequest{Month: "2024-04"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)

	_, err = svc.Stats(context.Background(), env.viewer, dtos.StatsRequest{Month: "April"})
	require.ErrorIs(t, err, utils.ErrValidation)
}
