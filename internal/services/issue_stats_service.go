package services

import (
	"context"
	"time"

	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// IssueStatsService aggregates issue counts by region, status and
// type, optionally narrowed to one calendar month.
type IssueStatsService struct {
	issueRepo repositories.IssueRepository
}

func NewIssueStatsService(issueRepo repositories.IssueRepository) *IssueStatsService {
	return &IssueStatsService{issueRepo: issueRepo}
}

func (s *IssueStatsService) Stats(ctx context.Context, actor dtos.Actor, req dtos.StatsRequest) (*dtos.StatsResponse, error) {
	if err := requirePermission(actor, ActionViewReports); err != nil {
		return nil, err
	}

	var month *dtos.TimeRange
	if req.Month != "" {
		start, err := time.Parse("2006-01", req.Month)
		if err != nil {
			return nil, utils.NewFieldError("month", "expected YYYY-MM")
		}
		month = &dtos.TimeRange{
			From: start,
			To:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
		}
	}

	regionStats, typeStats, overall, err := s.issueRepo.Stats(ctx, month)
	if err != nil {
		return nil, err
	}

	// Fold the finer-grained type buckets onto their region+status row.
	for i := range regionStats {
		for _, t := range typeStats {
			if t.Region != regionStats[i].Region || t.Status != regionStats[i].Status {
				continue
			}
			if regionStats[i].TypeCounts == nil {
				regionStats[i].TypeCounts = map[string]int{}
			}
			regionStats[i].TypeCounts[t.Type] = t.Count
		}
	}

	total := 0
	for _, o := range overall {
		total += o.Count
	}

	return &dtos.StatsResponse{
		Success:      true,
		RegionStats:  regionStats,
		OverallStats: overall,
		Total:        total,
	}, nil
}
