package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Platform is the social network a content link points at.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// ParsePlatform normalises a user supplied platform name.
func ParsePlatform(s string) (Platform, bool) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformInstagram, PlatformTikTok:
		return p, true
	}
	return "", false
}

// SelectionStatus records the brand's decision about a single link.
type SelectionStatus string

const (
	SelectionPending     SelectionStatus = "pending"
	SelectionSelected    SelectionStatus = "selected"
	SelectionNotSelected SelectionStatus = "not_selected"
)

// ContentLink is one piece of submitted content attached to an application.
// IsSelected is true exactly when SelectionStatus is SelectionSelected.
type ContentLink struct {
	ID              uuid.UUID
	ApplicationID   uuid.UUID
	Platform        Platform
	URL             string
	IsSelected      bool
	SelectionStatus SelectionStatus
	ViewsTracked    int64
	LastCheckedAt   *time.Time
	SelectedAt      *time.Time
	CreatedAt       time.Time
}

// NewContentLink returns a link in its initial (unselected, pending, zero
// views) state.
func NewContentLink(applicationID uuid.UUID, platform Platform, url string, now time.Time) ContentLink {
	return ContentLink{
		ID:              uuid.New(),
		ApplicationID:   applicationID,
		Platform:        platform,
		URL:             url,
		SelectionStatus: SelectionPending,
		CreatedAt:       now,
	}
}

// Consistent reports whether the selection flag and status agree.
func (l ContentLink) Consistent() bool {
	switch l.SelectionStatus {
	case SelectionSelected:
		return l.IsSelected
	case SelectionNotSelected, SelectionPending:
		return !l.IsSelected
	}
	return false
}
