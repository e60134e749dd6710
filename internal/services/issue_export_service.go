package services

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/iAmmar7/api-audit-rail/internal/constants"
	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/models"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
)

// IssueExportService produces the flat CSV-ready projection of issues
// matching a filter set: oldest first, unpaginated, dates humanized.
type IssueExportService struct {
	issueRepo repositories.IssueRepository
}

func NewIssueExportService(issueRepo repositories.IssueRepository) *IssueExportService {
	return &IssueExportService{issueRepo: issueRepo}
}

func (s *IssueExportService) Export(ctx context.Context, actor dtos.Actor, req dtos.ReportExportRequest) (*dtos.ReportExportResponse, error) {
	if err := requirePermission(actor, ActionViewReports); err != nil {
		return nil, err
	}
	criteria, err := buildCriteria(dtos.ReportListRequest{Params: req.Filters})
	if err != nil {
		return nil, err
	}

	rows, err := s.issueRepo.Export(ctx, *criteria)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.IssueExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, exportRow(r))
	}
	return &dtos.ReportExportResponse{Success: true, Reports: out}, nil
}

// exportRow flattens one issue. Open issues report daysOpen, resolved
// ones report daysResolved; the other column gets the placeholder so
// spreadsheet sums stay honest.
func exportRow(r dtos.IssueRow) dtos.IssueExportRow {
	row := dtos.IssueExportRow{
		ID:             r.Code,
		Date:           r.Date.Format(constants.ExportDateFormat),
		Auditor:        r.AuditorName,
		StationManager: r.StationManagerName,
		Status:         string(r.Status),
		Type:           string(r.Type),
		Region:         string(r.Region),
		Details:        strings.ReplaceAll(r.Details, `"`, ""),
		DateIdentified: r.DateIdentified.Format(constants.ExportDateFormat),
		Station:        r.Station,
		DaysOpen:       "-",
		DaysResolved:   "-",
		ResolvedByName: "-",
		DateOfClosure:  "-",
	}
	if r.Status == models.StatusResolved {
		row.DaysResolved = strconv.Itoa(r.DaysOpen)
	} else {
		row.DaysOpen = strconv.Itoa(r.DaysOpen)
	}
	if r.ResolvedByName != nil {
		row.ResolvedByName = *r.ResolvedByName
	}
	if r.DateOfClosure != nil {
		row.DateOfClosure = r.DateOfClosure.Format(constants.ExportDateFormat)
	}
	return row
}

var exportHeader = []string{
	"ID", "Date", "Auditor", "Station Manager", "Status", "Type", "Region",
	"Details", "Date Identified", "Station", "Days Open", "Days Resolved",
	"Resolved By", "Date Of Closure",
}

// WriteCSV streams rows as CSV, header first.
func WriteCSV(w io.Writer, rows []dtos.IssueExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ID, r.Date, r.Auditor, r.StationManager, r.Status, r.Type,
			r.Region, r.Details, r.DateIdentified, r.Station, r.DaysOpen,
			r.DaysResolved, r.ResolvedByName, r.DateOfClosure,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
