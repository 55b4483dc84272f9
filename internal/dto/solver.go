package dto

// Wire contract of the external timetable solver. Field names follow the
// solver's snake_case JSON schema.

// SolverRoom is a schedulable room in the solver's vocabulary.
type SolverRoom struct {
	ID       string `json:"id"`
	RoomType string `json:"room_type"`
	Capacity int    `json:"capacity"`
}

// SolverEvent is one atomic schedulable session.
type SolverEvent struct {
	ID               int    `json:"id"`
	Batch            string `json:"batch"`
	Subject          string `json:"subject"`
	Teacher          string `json:"teacher"`
	RoomTypeRequired string `json:"room_type_required,omitempty"`
	MinCapacity      int    `json:"min_capacity,omitempty"`
	SpanSlots        int    `json:"span_slots,omitempty"`
}

// SolverRequest is the generation payload submitted to the solver.
type SolverRequest struct {
	Events             []SolverEvent  `json:"events"`
	Rooms              []SolverRoom   `json:"rooms"`
	NumDays            int            `json:"num_days"`
	PeriodsPerDay      int            `json:"periods_per_day"`
	MaxClassesPerDay   map[string]int `json:"max_classes_per_day_per_batch,omitempty"`
	OneSubjectPerDay   bool           `json:"one_subject_per_day"`
	RotateStart        bool           `json:"rotate_start"`
	RandomizeWithinDay bool           `json:"randomize_within_day"`
	RngSeed            int64          `json:"rng_seed"`
}

// SolverResponse is the solver's sparse assignment result. Assignment maps are
// keyed by event id; JSON object keys arrive as strings and are decoded into
// integer keys by encoding/json.
type SolverResponse struct {
	TimeAssignment map[int]int    `json:"time_assignment"`
	RoomAssignment map[int]string `json:"room_assignment"`
	Unassigned     []int          `json:"unassigned"`
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
}
