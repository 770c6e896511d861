package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the state of a creator's application to a campaign.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// CanTransition reports whether the state machine allows moving from s to
// next. Only pending applications move; every other state is terminal.
func (s ApplicationStatus) CanTransition(next ApplicationStatus) bool {
	if s != ApplicationStatusPending {
		return false
	}
	switch next {
	case ApplicationStatusApproved, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// Application is a creator's request to take part in a campaign. Version is
// bumped on every write and used for optimistic concurrency.
type Application struct {
	ID           uuid.UUID
	CampaignID   uuid.UUID
	CreatorID    uuid.UUID
	Message      string
	ProposedRate *float64
	Deliverables *string
	Status       ApplicationStatus
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
	WithdrawnAt  *time.Time
}
