package dtos

import "github.com/iAmmar7/api-audit-rail/internal/models"

// CreateInitiativeRequest is the auditor's proactive-work submission.
type CreateInitiativeRequest struct {
	Date            string   `json:"date" validate:"required"`
	Region          string   `json:"region" validate:"required"`
	Type            string   `json:"type" validate:"required"`
	Station         string   `json:"station" validate:"required"`
	Details         string   `json:"details" validate:"required"`
	EvidencesBefore []string `json:"evidencesBefore"`
	EvidencesAfter  []string `json:"evidencesAfter"`
}

type UpdateInitiativeRequest struct {
	Date            *string  `json:"date,omitempty"`
	Region          *string  `json:"region,omitempty"`
	Type            *string  `json:"type,omitempty"`
	Station         *string  `json:"station,omitempty"`
	Details         *string  `json:"details,omitempty"`
	EvidencesBefore []string `json:"evidencesBefore,omitempty"`
	EvidencesAfter  []string `json:"evidencesAfter,omitempty"`
}

type InitiativeListParams struct {
	Current  int      `json:"current"`
	PageSize int      `json:"pageSize"`
	ID       string   `json:"id"`
	Date     []string `json:"date"`
	Auditor  string   `json:"auditor"`
	Station  string   `json:"station"`
	Type     string   `json:"type"`
	Region   string   `json:"region"`
}

type InitiativeListRequest struct {
	Params InitiativeListParams `json:"params"`
	Sorter ReportListSorter     `json:"sorter"`
	Filter ReportListFilter     `json:"filter"`
}

// InitiativeExportRequest is the CSV-export variant: same filters, no
// pagination or sorter.
type InitiativeExportRequest struct {
	Filters InitiativeListParams `json:"filters"`
}

// InitiativeCriteria is the parsed repository-facing form.
type InitiativeCriteria struct {
	Code    string
	Date    *TimeRange
	Auditor string
	Station string
	Type    string
	Region  string

	TypeIn   []string
	RegionIn []string

	Sort     SortKey
	Desc     bool
	Page     int
	PageSize int
}

type InitiativeRow struct {
	models.Initiative

	AuditorName string `json:"auditorName"`
}

type InitiativeListResponse struct {
	Success          bool            `json:"success"`
	Initiatives      []InitiativeRow `json:"initiatives"`
	TotalInitiatives int             `json:"totalInitiatives"`
}

// InitiativeExportRow is the denormalized CSV-ready projection with
// human-formatted dates.
type InitiativeExportRow struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Auditor string `json:"auditor"`
	Type    string `json:"type"`
	Region  string `json:"region"`
	Station string `json:"station"`
	Details string `json:"details"`
}

type InitiativeExportResponse struct {
	Success     bool                  `json:"success"`
	Initiatives []InitiativeExportRow `json:"initiatives"`
}
