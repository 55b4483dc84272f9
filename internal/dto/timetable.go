package dto

import "github.com/Ninjax26/Classroom-scheduler/internal/models"

// GenerateTimetableRequest tunes one generation run. Every field is optional;
// unset fields fall back to configured defaults. A nil RngSeed yields a
// time-derived seed so successive runs differ.
type GenerateTimetableRequest struct {
	NumDays            *int   `json:"num_days" validate:"omitempty,min=1,max=7"`
	PeriodsPerDay      *int   `json:"periods_per_day" validate:"omitempty,min=1,max=16"`
	MaxDailyPerBatch   *int   `json:"max_daily_per_batch" validate:"omitempty,min=1"`
	OneSubjectPerDay   *bool  `json:"one_subject_per_day"`
	RotateStart        *bool  `json:"rotate_start"`
	RandomizeWithinDay *bool  `json:"randomize_within_day"`
	RngSeed            *int64 `json:"rng_seed"`
}

// GenerateTimetableResponse wraps the materialized snapshot with run metadata.
type GenerateTimetableResponse struct {
	Snapshot   *models.TimetableSnapshot `json:"snapshot"`
	EventCount int                       `json:"event_count"`
	RoomCount  int                       `json:"room_count"`
	RngSeed    int64                     `json:"rng_seed"`
	Partial    bool                      `json:"partial"`
}

// SolverHealth reports the external solver's liveness as seen by this service.
type SolverHealth struct {
	Status    string `json:"status"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}
