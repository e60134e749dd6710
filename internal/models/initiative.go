package models

import (
	"time"

	"github.com/google/uuid"
)

// Initiative is a proactive observation. It shares the issue's shape
// minus the station-manager/resolution fields, and has no status
// machine: create, update and delete only.
type Initiative struct {
	ID   uuid.UUID `json:"_id"`
	Code string    `json:"id"`

	AuditorID uuid.UUID `json:"auditor"`

	Date time.Time `json:"date"`

	Region  RegionType    `json:"region"`
	Type    IssueTypeType `json:"type"`
	Station string        `json:"station"`
	Details string        `json:"details"`

	EvidencesBefore []string `json:"evidencesBefore"`
	EvidencesAfter  []string `json:"evidencesAfter"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *Initiative) GetID() string {
	return i.ID.String()
}
