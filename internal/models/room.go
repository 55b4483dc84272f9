package models

import (
	"time"

	"github.com/lib/pq"
)

// Room type values understood by the solver.
const (
	RoomTypeClassroom = "classroom"
	RoomTypeLab       = "lab"
)

// Room status values.
const (
	RoomStatusAvailable   = "available"
	RoomStatusMaintenance = "maintenance"
	RoomStatusUnavailable = "unavailable"
)

// Room represents a physical teaching room.
type Room struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Type      string         `db:"room_type" json:"type"`
	Capacity  int            `db:"capacity" json:"capacity"`
	Building  *string        `db:"building" json:"building,omitempty"`
	Floor     *int           `db:"floor" json:"floor,omitempty"`
	Equipment pq.StringArray `db:"equipment" json:"equipment"`
	Status    string         `db:"status" json:"status"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// RoomFilter captures filtering options for listing rooms.
type RoomFilter struct {
	Type      string
	Status    string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
