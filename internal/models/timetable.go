package models

import "time"

// TimetableSlot is one scheduled session placed in a grid cell.
type TimetableSlot struct {
	EventID  int    `json:"event_id"`
	Batch    string `json:"batch"`
	Subject  string `json:"subject"`
	Teacher  string `json:"teacher"`
	RoomID   string `json:"room_id"`
	RoomName string `json:"room_name,omitempty"`
	RoomType string `json:"room_type"`
	Day      int    `json:"day"`
	Period   int    `json:"period"`
}

// RoomUtilization summarises how heavily a room is booked across the week.
type RoomUtilization struct {
	RoomID     string  `json:"room_id"`
	RoomName   string  `json:"room_name,omitempty"`
	RoomType   string  `json:"room_type"`
	UsedSlots  int     `json:"used_slots"`
	TotalSlots int     `json:"total_slots"`
	Percentage float64 `json:"percentage"`
}

// UnassignedEvent describes a session the solver could not place.
type UnassignedEvent struct {
	EventID  int    `json:"event_id"`
	Batch    string `json:"batch"`
	Subject  string `json:"subject"`
	Teacher  string `json:"teacher"`
	RoomType string `json:"room_type_required"`
}

// TimetableSnapshot is the display-ready result of one generation run.
// Each successful generation overwrites the previous snapshot.
type TimetableSnapshot struct {
	Grid               [][][]TimetableSlot `json:"grid"`
	Unassigned         []UnassignedEvent   `json:"unassigned"`
	Utilization        []RoomUtilization   `json:"utilization"`
	NumDays            int                 `json:"num_days"`
	PeriodsPerDay      int                 `json:"periods_per_day"`
	Success            bool                `json:"success"`
	Message            string              `json:"message"`
	DroppedAssignments int                 `json:"dropped_assignments"`
	GeneratedAt        time.Time           `json:"generated_at"`
}
