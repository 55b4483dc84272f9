package models

import "time"

// Subject type values.
const (
	SubjectTypeCore     = "core"
	SubjectTypeElective = "elective"
)

// Subject represents an academic subject.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Department  string    `db:"department" json:"department"`
	WeeklyHours int       `db:"weekly_hours" json:"weekly_hours"`
	Type        string    `db:"subject_type" json:"type"`
	Credits     *int      `db:"credits" json:"credits,omitempty"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Department string
	Type       string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
