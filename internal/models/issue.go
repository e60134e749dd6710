package models

import (
	"time"

	"github.com/google/uuid"
)

// TrailEntry is one append-only audit-trail record stamped on every
// content mutation of an issue. Entries are never rewritten.
type TrailEntry struct {
	Name     string    `json:"name"`
	EditorID uuid.UUID `json:"id"`
	Time     time.Time `json:"time"`
}

// Issue is a reported audit finding tracked through
// Pending/Maintenance/Resolved.
type Issue struct {
	ID   uuid.UUID `json:"_id"`
	Code string    `json:"id"` // short human-facing code, unique and immutable

	AuditorID        uuid.UUID  `json:"auditor"`
	StationManagerID uuid.UUID  `json:"stationManager"`
	ResolvedByID     *uuid.UUID `json:"resolvedBy,omitempty"`

	Date           time.Time  `json:"date"`           // date the issue was raised
	DateIdentified time.Time  `json:"dateIdentified"` // date the condition was first identified
	DateOfClosure  *time.Time `json:"dateOfClosure,omitempty"`

	Region  RegionType    `json:"region"`
	Type    IssueTypeType `json:"type"`
	Station string        `json:"station"`
	Details string        `json:"details"`

	EvidencesBefore []string `json:"evidencesBefore"`
	EvidencesAfter  []string `json:"evidencesAfter"`

	ActionTaken        string `json:"actionTaken,omitempty"`
	Feedback           string `json:"feedback,omitempty"`
	MaintenanceComment string `json:"maintenanceComment,omitempty"`

	Status        IssueStatusType `json:"status"`
	IsPrioritized bool            `json:"isPrioritized"`

	UpdatedBy []TrailEntry `json:"updatedBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Issue) GetID() string {
	return i.ID.String()
}

// Resolved reports whether the issue satisfies the closed-issue
// invariant: status Resolved with both closure date and resolver set.
func (i *Issue) Resolved() bool {
	return i.Status == StatusResolved && i.DateOfClosure != nil && i.ResolvedByID != nil
}
