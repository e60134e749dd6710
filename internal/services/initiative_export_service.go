package services

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/iAmmar7/api-audit-rail/internal/constants"
	"github.com/iAmmar7/api-audit-rail/internal/dtos"
	"github.com/iAmmar7/api-audit-rail/internal/repositories"
)

// InitiativeExportService produces the flat CSV-ready projection of
// initiatives matching a filter set: oldest first, unpaginated.
type InitiativeExportService struct {
	iniRepo repositories.InitiativeRepository
}

func NewInitiativeExportService(iniRepo repositories.InitiativeRepository) *InitiativeExportService {
	return &InitiativeExportService{iniRepo: iniRepo}
}

func (s *InitiativeExportService) Export(ctx context.Context, actor dtos.Actor, req dtos.InitiativeExportRequest) (*dtos.InitiativeExportResponse, error) {
	if err := requirePermission(actor, ActionViewReports); err != nil {
		return nil, err
	}
	criteria, err := buildInitiativeCriteria(dtos.InitiativeListRequest{Params: req.Filters})
	if err != nil {
		return nil, err
	}

	rows, err := s.iniRepo.Export(ctx, *criteria)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.InitiativeExportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, initiativeExportRow(r))
	}
	return &dtos.InitiativeExportResponse{Success: true, Initiatives: out}, nil
}

func initiativeExportRow(r dtos.InitiativeRow) dtos.InitiativeExportRow {
	return dtos.InitiativeExportRow{
		ID:      r.Code,
		Date:    r.Date.Format(constants.ExportDateFormat),
		Auditor: r.AuditorName,
		Type:    string(r.Type),
		Region:  string(r.Region),
		Station: r.Station,
		Details: strings.ReplaceAll(r.Details, `"`, ""),
	}
}

var initiativeExportHeader = []string{
	"ID", "Date", "Auditor", "Type", "Region", "Station", "Details",
}

// WriteInitiativeCSV streams rows as CSV, header first.
func WriteInitiativeCSV(w io.Writer, rows []dtos.InitiativeExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(initiativeExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ID, r.Date, r.Auditor, r.Type, r.Region, r.Station, r.Details,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
