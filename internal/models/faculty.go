package models

import "time"

// Faculty status values.
const (
	FacultyStatusActive   = "active"
	FacultyStatusInactive = "inactive"
	FacultyStatusOnLeave  = "on-leave"
)

// Faculty represents an instructor record.
type Faculty struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Department     string    `db:"department" json:"department"`
	Specialization string    `db:"specialization" json:"specialization"`
	MaxLoadPerWeek int       `db:"max_load_per_week" json:"max_load_per_week"`
	Status         string    `db:"status" json:"status"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FacultyFilter captures filtering options for listing faculty.
type FacultyFilter struct {
	Department string
	Status     string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
