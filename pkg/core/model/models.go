package model

import "time"

// Role is the role a user occupies on the team and on a shift seat
type Role string

const (
	RoleTechnician    Role = "technician"
	RoleHelper        Role = "helper"
	RoleAdministrator Role = "administrator"
)

// ShiftType distinguishes ordinary work shifts from on-call cover shifts
type ShiftType string

const (
	ShiftOrdinary ShiftType = "ordinary"
	ShiftOnCall   ShiftType = "oncall"
)

// PostingStatus is the lifecycle state of a board posting.
// Available can only move to Assigned; a withdrawn posting is deleted, never reverted.
type PostingStatus string

const (
	PostingAvailable PostingStatus = "available"
	PostingAssigned  PostingStatus = "assigned"
)

// User is a provisioned team member, keyed by employee code
type User struct {
	ID   string
	Name string
	Role Role
}

// Shift is a bookable work slot on a calendar date with per-role capacity
type Shift struct {
	ID              string
	Description     string
	Date            time.Time
	Start           string // "HH:MM" time of day
	End             string // "HH:MM" time of day
	SeatsTechnician int
	SeatsHelper     int
	Type            ShiftType
}

// SeatsFor returns the seat count for the given role.
// Administrators book as technicians and count against technician seats.
func (s Shift) SeatsFor(role Role) int {
	if role == RoleHelper {
		return s.SeatsHelper
	}
	return s.SeatsTechnician
}

// Booking is one occupied seat on a shift
type Booking struct {
	ID        string
	ShiftID   string
	UserID    string
	Role      Role
	CreatedAt time.Time
}

// BoardPosting is a seat offered on the open board ("bacheca").
// It carries the role of the original holder; only a user of the same role may claim it.
type BoardPosting struct {
	ID           string
	ShiftID      string
	OriginalUser string
	OriginalRole Role
	PublishedAt  time.Time
	Status       PostingStatus
	Claimant     string
	AssignedAt   *time.Time
}

// SubstitutionRequest is a targeted handoff from one holder to a named colleague.
// It is deleted once resolved; the outcome lives in the change log only.
type SubstitutionRequest struct {
	ID        string
	ShiftID   string
	Requester string
	Recipient string
	CreatedAt time.Time
}

// Activity is one field job extracted from a daily sheet, grouped by work order (PdL).
// Activities are ephemeral: the importer builds them per request and nothing persists them.
type Activity struct {
	PdL         string
	Description string
	Start       string   // "HH:MM"
	End         string   // "HH:MM"
	Slots       []string // every contributing "HH:MM-HH:MM" range, one per sheet row
	Team        []User
}

// HasMember reports whether the given user is part of the activity's team
func (a Activity) HasMember(userID string) bool {
	for _, u := range a.Team {
		if u.ID == userID {
			return true
		}
	}
	return false
}
