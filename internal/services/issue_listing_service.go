package services

import (
	"context"

	"github.com/iAmmar7/api-audit-rail/internal/constants"
	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

// IssueListingService turns raw listing requests into validated
// criteria and runs them. Every filter value is checked before any
// query executes; unknown enum members and malformed dates never reach
// the store.
type IssueListingService struct {
	issueRepo repositories.IssueRepository
}

func NewIssueListingService(issueRepo repositories.IssueRepository) *IssueListingService {
	return &IssueListingService{issueRepo: issueRepo}
}

func (s *IssueListingService) List(ctx context.Context, actor dtos.Actor, req dtos.ReportListRequest) (*dtos.ReportListResponse, error) {
	if err := requirePermission(actor, ActionViewReports); err != nil {
		return nil, err
	}
	criteria, err := buildCriteria(req)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.issueRepo.Search(ctx, *criteria)
	if err != nil {
		return nil, err
	}
	return &dtos.ReportListResponse{
		Success:      true,
		Reports:      rows,
		TotalReports: total,
	}, nil
}

func buildCriteria(req dtos.ReportListRequest) (*dtos.IssueCriteria, error) {
	c := dtos.IssueCriteria{
		Code:           req.Params.ID,
		Auditor:        req.Params.Auditor,
		StationManager: req.Params.StationManager,
		Station:        req.Params.Station,
		Status:         req.Params.Status,
		Type:           req.Params.Type,
		Region:         req.Params.Region,
		Page:           req.Params.Current,
		PageSize:       req.Params.PageSize,
	}
	normalizePaging(&c.Page, &c.PageSize)

	var err error
	if c.Date, err = parseRange("date", req.Params.Date); err != nil {
		return nil, err
	}
	if c.DateIdentified, err = parseRange("dateIdentified", req.Params.DateIdentified); err != nil {
		return nil, err
	}

	if c.StatusIn, err = validateSet("statusFilter", req.Filter.StatusFilter, func(v string) bool {
		status := models.IssueStatusType(v)
		return status.Valid() || status == models.StatusCancelled
	}); err != nil {
		return nil, err
	}
	if c.TypeIn, err = validateSet("typeFilter", req.Filter.TypeFilter, func(v string) bool {
		return models.IssueTypeType(v).Valid()
	}); err != nil {
		return nil, err
	}
	if c.RegionIn, err = validateSet("regionFilter", req.Filter.RegionFilter, func(v string) bool {
		return models.RegionType(v).Valid()
	}); err != nil {
		return nil, err
	}

	if err := applySorter(&c, req.Sorter); err != nil {
		return nil, err
	}
	return &c, nil
}

func normalizePaging(page, pageSize *int) {
	if *page < 1 {
		*page = 1
	}
	if *pageSize <= 0 {
		*pageSize = constants.DefaultPageSize
	}
	if *pageSize > constants.MaxPageSize {
		*pageSize = constants.MaxPageSize
	}
}

// parseRange expects a [from, to] pair; anything else is rejected.
func parseRange(field string, values []string) (*dtos.TimeRange, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != 2 {
		return nil, utils.NewFieldError(field, "expected [from, to]")
	}
	from, err := utils.ParseDate(field, values[0])
	if err != nil {
		return nil, err
	}
	to, err := utils.ParseDate(field, values[1])
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, utils.NewFieldError(field, "range end precedes start")
	}
	return &dtos.TimeRange{From: from, To: utils.EndOfDay(to)}, nil
}

func validateSet(field string, values []string, valid func(string) bool) ([]string, error) {
	for _, v := range values {
		if !valid(v) {
			return nil, utils.NewFieldError(field, "unknown value "+v)
		}
	}
	return values, nil
}

// applySorter maps the UI sorter triple onto a single sort key. At
// most one may be set at a time.
func applySorter(c *dtos.IssueCriteria, sorter dtos.ReportListSorter) error {
	set := 0
	pick := func(field, dir string, key dtos.SortKey) error {
		if dir == "" {
			return nil
		}
		switch dir {
		case "ascend":
			c.Sort, c.Desc = key, false
		case "descend":
			c.Sort, c.Desc = key, true
		default:
			return utils.NewFieldError(field, "unknown sort direction "+dir)
		}
		set++
		return nil
	}

	if err := pick("dateSorter", sorter.DateSorter, dtos.SortByDate); err != nil {
		return err
	}
	if err := pick("dateIdentifiedSorter", sorter.DateIdentifiedSorter, dtos.SortByDateIdentified); err != nil {
		return err
	}
	if err := pick("daysOpenSorter", sorter.DaysOpenSorter, dtos.SortByDaysOpen); err != nil {
		return err
	}
	if set > 1 {
		return utils.NewFieldError("sorter", "at most one sorter may be set")
	}
	return nil
}
