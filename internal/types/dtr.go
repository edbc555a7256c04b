package types

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRejectRemarks is stored when an adviser rejects a DTR without remarks.
const DefaultRejectRemarks = "Rejected by adviser."

// ReviewDecision is an adviser's verdict on a DTR.
type ReviewDecision string

// Review decisions
const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// DTR is a weekly time record submitted by a student to their adviser.
type DTR struct {
	ID            uuid.UUID  `json:"id"`
	StudentID     uuid.UUID  `json:"student_id"`
	AdviserID     uuid.UUID  `json:"adviser_id"`
	WeekStart     time.Time  `json:"week_start"`
	WeekEnd       time.Time  `json:"week_end"`
	File          string     `json:"file"`
	HoursRendered int        `json:"hours_rendered"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	Approved      bool       `json:"approved"`
	HoursCredited bool       `json:"hours_credited"`
	Remarks       string     `json:"remarks,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}
