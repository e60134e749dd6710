package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

func TestListPagination(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueListingService(env.issues)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		i := i
		env.addIssue(t, func(iss *models.Issue) {
			iss.Code = fmt.Sprintf("code%03d", i)
			iss.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		})
	}

	// Default page size is 10.
	resp, err := svc.List(ctx, env.viewer, dtos.ReportListRequest{})
	require.NoError(t, err)
	require.Equal(t, 25, resp.TotalReports)
	require.Len(t, resp.Reports, 10)
	// Default order is newest first.
	require.Equal(t, "code024", resp.Reports[0].Code)

	resp, err = svc.List(ctx, env.viewer, dtos.ReportListRequest{
		Params: dtos.ReportListParams{Current: 3, PageSize: 10},
	})
	require.NoError(t, err)
	require.Equal(t, 25, resp.TotalReports)
	require.Len(t, resp.Reports, 5)
	require.Equal(t, "code004", resp.Reports[0].Code)

	resp, err = svc.List(ctx, env.viewer, dtos.ReportListRequest{
		Params: dtos.ReportListParams{Current: 4, PageSize: 10},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Reports)
	require.Equal(t, 25, resp.TotalReports, "count ignores pagination")
}

func TestListExactCodeMatch(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueListingService(env.issues)

	env.addIssue(t, func(i *models.Issue) { i.Code = "abc12345" })
	env.addIssue(t, func(i *models.Issue) { i.Code = "abc12346" })

	resp, err := svc.List(context.Background(), env.viewer, dtos.ReportListRequest{
		Params: dtos.ReportListParams{ID: "abc12345"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalReports)
	require.Equal(t, "abc12345", resp.Reports[0].Code)
}

func TestListDaysOpenComputation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueListingService(env.issues)
	now := time.Now()

	open := env.addIssue(t, func(i *models.Issue) {
		i.Code = "openiss1"
		i.DateIdentified = now.Add(-10*24*time.Hour - time.Hour)
	})
	closedAt := now.Add(-24 * time.Hour)
	identified := closedAt.Add(-5*24*time.Hour - time.Hour)
	smID := env.sm.ID
	resolved := env.addIssue(t, func(i *models.Issue) {
		i.Code = "resolved"
		i.DateIdentified = identified
		i.DateOfClosure = &closedAt
		i.ResolvedByID = &smID
		i.Status = models.StatusResolved
	})

	resp, err := svc.List(context.Background(), env.viewer, dtos.ReportListRequest{})
	require.NoError(t, err)
	byCode := map[string]dtos.IssueRow{}
	for _, r := range resp.Reports {
		byCode[r.Code] = r
	}
	require.Equal(t, 10, byCode[open.Code].DaysOpen, "open issues age against now")
	require.Equal(t, 5, byCode[resolved.Code].DaysOpen, "resolved issues age against closure")
	require.Equal(t, env.sm.Name, *byCode[resolved.Code].ResolvedByName)
}

func TestListSortByDaysOpen(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueListingService(env.issues)
	now := time.Now()

	for i, days := range []int{3, 9, 1} {
		i, days := i, days
		env.addIssue(t, func(iss *models.Issue) {
			iss.Code = fmt.Sprintf("sort%d", i)
			iss.DateIdentified = now.Add(-time.Duration(days)*24*time.Hour - time.Hour)
		})
	}

	resp, err := svc.List(context.Background(), env.viewer, dtos.ReportListRequest{
		Sorter: dtos.ReportListSorter{DaysOpenSorter: "descend"},
	})
	require.NoError(t, err)
	require.Equal(t, []int{9, 3, 1}, []int{
		resp.Reports[0].DaysOpen, resp.Reports[1].DaysOpen, resp.Reports[2].DaysOpen,
	})

	resp, err = svc.List(context.Background(), env.viewer, dtos.ReportListRequest{
		Sorter: dtos.ReportListSorter{DaysOpenSorter: "ascend"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Reports[0].DaysOpen)
}

func TestListFiltersCombine(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueListingService(env.issues)

	env.addIssue(t, func(i *models.Issue) {
		i.Region = models.RegionSouthern
		i.Status = models.StatusResolved
	})
	env.addIssue(t, func(i *models.Issue) {
		i.Region = models.RegionSouthern
	})
	env.addIssue(t, nil) // WR-North, Pending

	resp, err := svc.List(context.Background(), env.viewer, dtos.ReportListRequest{
		Filter: dtos.ReportListFilter{
			RegionFilter: []string{string(models.RegionSouthern)},
			StatusFilter: []string{string(models.StatusPending)},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalReports)
}

func TestListValidationFailures(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueListingService(env.issues)
	ctx := context.Background()

	_, err := svc.List(ctx, env.viewer, dtos.ReportListRequest{
		Params: dtos.ReportListParams{Date: []string{"2024-13-99", "2024-01-01"}},
	})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.List(ctx, env.viewer, dtos.ReportListRequest{
		Params: dtos.ReportListParams{Date: []string{"2024-01-01"}},
	})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.List(ctx, env.viewer, dtos.ReportListRequest{
		Filter: dtos.ReportListFilter{RegionFilter: []string{"Atlantis"}},
	})
	require.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.List(ctx, env.viewer, dtos.ReportListRequest{
		Sorter: dtos.ReportListSorter{DateSorter: "sideways"},
	})
	require.ErrorIs(t, err, utils.ErrValidation)
}

func TestListDateRangeFilter(t *testing.T) {
	env := newTestEnv(t)
	svc := NewIssueListingService(env.issues)

	env.addIssue(t, func(i *models.Issue) {
		i.Code = "january1"
		i.Date = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	})
	env.addIssue(t, func(i *models.Issue) {
		i.Code = "february"
		i.Date = time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)
	})

	resp, err := svc.List(context.Background(), env.viewer, dtos.ReportListRequest{
		Params: dtos.ReportListParams{Date: []string{"2024-01-01", "2024-01-31"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalReports)
	require.Equal(t, "january1", resp.Reports[0].Code)
}
