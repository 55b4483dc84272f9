package models

import (
	"time"

	"github.com/lib/pq"
)

// Batch status values.
const (
	BatchStatusActive    = "active"
	BatchStatusInactive  = "inactive"
	BatchStatusGraduated = "graduated"
)

// Batch represents a student cohort scheduled as a unit.
type Batch struct {
	ID               string         `db:"id" json:"id"`
	Label            string         `db:"label" json:"label"`
	Department       string         `db:"department" json:"department"`
	Year             int            `db:"year" json:"year"`
	Size             int            `db:"size" json:"size"`
	AssignedSubjects pq.StringArray `db:"assigned_subjects" json:"assigned_subjects"`
	Status           string         `db:"status" json:"status"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// BatchFilter captures filtering options for listing batches.
type BatchFilter struct {
	Department string
	Status     string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
