package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/models"
)

// ----------------------------------------------------------------
// Mutating requests
// ----------------------------------------------------------------

// CreateIssueRequest is the auditor's "submit report" payload.
type CreateIssueRequest struct {
	Date             string   `json:"date" validate:"required"`
	DateIdentified   string   `json:"dateIdentified" validate:"required"`
	Region           string   `json:"region" validate:"required"`
	Type             string   `json:"type" validate:"required"`
	Station          string   `json:"station" validate:"required"`
	Details          string   `json:"details" validate:"required"`
	StationManagerID string   `json:"stationManager" validate:"required,uuid4"`
	Priority         string   `json:"priority"` // "Priority" marks the issue prioritized at creation
	EvidencesBefore  []string `json:"evidencesBefore"`
}

// AuditorUpdateRequest merges content fields on an open issue owned by
// the calling auditor. Nil pointers leave the stored value untouched.
type AuditorUpdateRequest struct {
	Date            *string  `json:"date,omitempty"`
	DateIdentified  *string  `json:"dateIdentified,omitempty"`
	Region          *string  `json:"region,omitempty"`
	Type            *string  `json:"type,omitempty"`
	Station         *string  `json:"station,omitempty"`
	Details         *string  `json:"details,omitempty"`
	ActionTaken     *string  `json:"actionTaken,omitempty"`
	Priority        *string  `json:"priority,omitempty"`
	EvidencesBefore []string `json:"evidencesBefore,omitempty"`
}

// ResolveIssueRequest is the station manager's resolution payload.
type ResolveIssueRequest struct {
	Status             *string  `json:"status,omitempty"`
	Feedback           *string  `json:"feedback,omitempty"`
	ActionTaken        *string  `json:"actionTaken,omitempty"`
	MaintenanceComment *string  `json:"maintenanceComment,omitempty"`
	DateOfClosure      *string  `json:"dateOfClosure,omitempty"`
	EvidencesAfter     []string `json:"evidencesAfter,omitempty"`
}

// AdminCorrectRequest lets an admin overwrite any field for corrective
// edits. Same pointer-merge semantics as the auditor update.
type AdminCorrectRequest struct {
	Date               *string `json:"date,omitempty"`
	DateIdentified     *string `json:"dateIdentified,omitempty"`
	Region             *string `json:"region,omitempty"`
	Type               *string `json:"type,omitempty"`
	Station            *string `json:"station,omitempty"`
	Details            *string `json:"details,omitempty"`
	ActionTaken        *string `json:"actionTaken,omitempty"`
	Feedback           *string `json:"feedback,omitempty"`
	MaintenanceComment *string `json:"maintenanceComment,omitempty"`
	Status             *string `json:"status,omitempty"`
	IsPrioritized      *bool   `json:"isPrioritized,omitempty"`
	DateOfClosure      *string `json:"dateOfClosure,omitempty"`
	StationManagerID   *string `json:"stationManager,omitempty"`
}

// ----------------------------------------------------------------
// Listing requests (UI shape, raw strings)
// ----------------------------------------------------------------

type ReportListParams struct {
	Current        int      `json:"current"`
	PageSize       int      `json:"pageSize"`
	ID             string   `json:"id"` // human-facing report code, exact match
	Date           []string `json:"date"`
	DateIdentified []string `json:"dateIdentified"`
	Auditor        string   `json:"auditor"`
	StationManager string   `json:"stationManager"`
	Station        string   `json:"station"`
	Status         string   `json:"status"`
	Type           string   `json:"type"`
	Region         string   `json:"region"`
}

type ReportListSorter struct {
	DateSorter           string `json:"dateSorter"`
	DateIdentifiedSorter string `json:"dateIdentifiedSorter"`
	DaysOpenSorter       string `json:"daysOpenSorter"`
}

type ReportListFilter struct {
	StatusFilter []string `json:"statusFilter"`
	TypeFilter   []string `json:"typeFilter"`
	RegionFilter []string `json:"regionFilter"`
}

type ReportListRequest struct {
	Params ReportListParams `json:"params"`
	Sorter ReportListSorter `json:"sorter"`
	Filter ReportListFilter `json:"filter"`
}

// ReportExportRequest is the CSV-export variant: same filters, no
// pagination or sorter.
type ReportExportRequest struct {
	Filters ReportListParams `json:"filters"`
}

// ----------------------------------------------------------------
// Parsed criteria (service -> repository)
// ----------------------------------------------------------------

type SortKey int

const (
	SortByCreatedAt SortKey = iota // default, descending
	SortByDate
	SortByDateIdentified
	SortByDaysOpen
)

// TimeRange is an inclusive [From, To] window, already normalized to
// start-of-day / end-of-day.
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IssueCriteria enumerates every recognized filter/sort/page option.
// Substring fields and set filters on the same logical field are both
// applied when both are supplied.
type IssueCriteria struct {
	Code           string
	Date           *TimeRange
	DateIdentified *TimeRange

	Auditor        string
	StationManager string
	Station        string
	Status         string
	Type           string
	Region         string

	StatusIn []string
	TypeIn   []string
	RegionIn []string

	Sort     SortKey
	Desc     bool
	Page     int
	PageSize int
}

// ----------------------------------------------------------------
// Responses
// ----------------------------------------------------------------

// IssueRow is an issue enriched with joined user names and the
// query-time daysOpen computation.
type IssueRow struct {
	models.Issue

	AuditorName        string     `json:"auditorName"`
	StationManagerName string     `json:"stationManagerName"`
	ResolvedByName     *string    `json:"resolvedByName"`
	ResolvedBy         *uuid.UUID `json:"resolvedById"`

	DaysOpen int `json:"daysOpen"`
}

type ReportListResponse struct {
	Success      bool       `json:"success"`
	Reports      []IssueRow `json:"reports"`
	TotalReports int        `json:"totalReports"`
}

// IssueExportRow is the denormalized CSV-ready projection: dates are
// human formatted and daysOpen is split by resolution status.
type IssueExportRow struct {
	ID             string `json:"id"`
	Date           string `json:"date"`
	Auditor        string `json:"auditor"`
	StationManager string `json:"stationManager"`
	Status         string `json:"status"`
	Type           string `json:"type"`
	Region         string `json:"region"`
	Details        string `json:"details"`
	DateIdentified string `json:"dateIdentified"`
	Station        string `json:"station"`
	DaysOpen       string `json:"daysOpen"`
	DaysResolved   string `json:"daysResolved"`
	ResolvedByName string `json:"resolvedByName"`
	DateOfClosure  string `json:"dateOfClosure"`
}

type ReportExportResponse struct {
	Success bool             `json:"success"`
	Reports []IssueExportRow `json:"reports"`
}
