// Package prospect provides the prospect domain model, its activity log,
// and the store that owns both.
package prospect

import (
	"database/sql"
	"time"
)

// Status represents where a prospect is in the sales workflow.
// Any status may move to any other; the order below is only the usual path.
type Status string

const (
	StatusNotContacted     Status = "not_contacted"
	StatusEmailSent        Status = "email_sent"
	StatusCalled           Status = "called"
	StatusMeetingScheduled Status = "meeting_scheduled"
	StatusProposalSent     Status = "proposal_sent"
	StatusWon              Status = "won"
	StatusLost             Status = "lost"
	StatusNotInterested    Status = "not_interested"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusNotContacted,
	StatusEmailSent,
	StatusCalled,
	StatusMeetingScheduled,
	StatusProposalSent,
	StatusWon,
	StatusLost,
	StatusNotInterested,
}

// IsValid checks if a status is recognized.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label returns a human-readable label for the status.
func (s Status) Label() string {
	switch s {
	case StatusNotContacted:
		return "Not Contacted"
	case StatusEmailSent:
		return "Email Sent"
	case StatusCalled:
		return "Called"
	case StatusMeetingScheduled:
		return "Meeting Scheduled"
	case StatusProposalSent:
		return "Proposal Sent"
	case StatusWon:
		return "Won"
	case StatusLost:
		return "Lost"
	case StatusNotInterested:
		return "Not Interested"
	default:
		return string(s)
	}
}

// WebPresenceOptions are the suggested values for CurrentWebPresence.
// Other text is accepted.
var WebPresenceOptions = []string{
	"No website",
	"Facebook only",
	"Placeholder only",
	"Outdated website",
	"Basic website",
	"Other",
}

// Activity log actions written by the store.
const (
	ActionCreated       = "created"
	ActionStatusChanged = "status_changed"
	ActionContactLogged = "contact_logged"
)

// Prospect represents a business being pitched.
type Prospect struct {
	ID                 int64     `json:"id"`
	BusinessName       string    `json:"business_name"`
	BusinessType       string    `json:"business_type"`
	Location           string    `json:"location"`
	Phone              *string   `json:"phone"`
	Email              *string   `json:"email"`
	CurrentWebPresence string    `json:"current_web_presence"`
	ListingURL         *string   `json:"listing_url"`
	YearsInBusiness    *int64    `json:"years_in_business"`
	Status             Status    `json:"status"`
	Notes              *string   `json:"notes"`
	LastContacted      *string   `json:"last_contacted"` // YYYY-MM-DD
	NextFollowup       *string   `json:"next_followup"`  // YYYY-MM-DD
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewProspect holds the fields accepted when creating a prospect.
type NewProspect struct {
	BusinessName       string  `json:"business_name" yaml:"business_name" validate:"required"`
	BusinessType       string  `json:"business_type" yaml:"business_type" validate:"required"`
	Location           string  `json:"location" yaml:"location" validate:"required"`
	Phone              *string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Email              *string `json:"email,omitempty" yaml:"email,omitempty"`
	CurrentWebPresence string  `json:"current_web_presence" yaml:"current_web_presence" validate:"required"`
	ListingURL         *string `json:"listing_url,omitempty" yaml:"listing_url,omitempty"`
	YearsInBusiness    *int64  `json:"years_in_business,omitempty" yaml:"years_in_business,omitempty" validate:"omitempty,gte=0"`
	Status             Status  `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,prospect_status"`
	Notes              *string `json:"notes,omitempty" yaml:"notes,omitempty"`
	LastContacted      *string `json:"last_contacted,omitempty" yaml:"last_contacted,omitempty"`
	NextFollowup       *string `json:"next_followup,omitempty" yaml:"next_followup,omitempty"`
}

// ActivityLogEntry is an immutable audit record attached to a prospect.
type ActivityLogEntry struct {
	ID         int64     `json:"id"`
	ProspectID int64     `json:"prospect_id"`
	Action     string    `json:"action"`
	Details    *string   `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

// Stats summarizes the pipeline.
type Stats struct {
	Total        int `json:"total"`
	NotContacted int `json:"not_contacted"`
	InProgress   int `json:"in_progress"`
	Won          int `json:"won"`
	Lost         int `json:"lost"`
}

// FilterOptions lists the distinct values currently in use, for filter controls.
type FilterOptions struct {
	BusinessTypes []string `json:"business_types"`
	Locations     []string `json:"locations"`
	Statuses      []string `json:"statuses"`
}

// scanProspect scans a prospect from a database row.
func scanProspect(row interface{ Scan(...interface{}) error }) (*Prospect, error) {
	var p Prospect
	var phone, email, listingURL, notes, lastContacted, nextFollowup sql.NullString
	var years sql.NullInt64
	var status string

	err := row.Scan(
		&p.ID, &p.BusinessName, &p.BusinessType, &p.Location,
		&phone, &email, &p.CurrentWebPresence, &listingURL, &years,
		&status, &notes, &lastContacted, &nextFollowup,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Phone = nullString(phone)
	p.Email = nullString(email)
	p.ListingURL = nullString(listingURL)
	p.Notes = nullString(notes)
	p.LastContacted = nullString(lastContacted)
	p.NextFollowup = nullString(nextFollowup)
	if years.Valid {
		p.YearsInBusiness = &years.Int64
	}
	p.Status = Status(status)

	return &p, nil
}

// scanActivity scans an activity log entry from a database row.
func scanActivity(row interface{ Scan(...interface{}) error }) (*ActivityLogEntry, error) {
	var e ActivityLogEntry
	var details sql.NullString
	if err := row.Scan(&e.ID, &e.ProspectID, &e.Action, &details, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Details = nullString(details)
	return &e, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
