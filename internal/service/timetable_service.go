package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Ninjax26/Classroom-scheduler/internal/dto"
	"github.com/Ninjax26/Classroom-scheduler/internal/models"
	"github.com/Ninjax26/Classroom-scheduler/pkg/config"
	appErrors "github.com/Ninjax26/Classroom-scheduler/pkg/errors"
	"github.com/Ninjax26/Classroom-scheduler/pkg/export"
)

const snapshotCacheKey = "timetable:latest"

type timetableRoomSource interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type timetableFacultySource interface {
	ListAll(ctx context.Context) ([]models.Faculty, error)
}

type timetableSubjectSource interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type timetableBatchSource interface {
	ListAll(ctx context.Context) ([]models.Batch, error)
}

type solverGateway interface {
	Health(ctx context.Context) error
	Generate(ctx context.Context, req dto.SolverRequest) (*dto.SolverResponse, error)
}

type snapshotCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Generation run states. A new run can only start from idle.
type generationState int

const (
	stateIdle generationState = iota
	stateSubmitting
	stateMaterializing
)

// TimetableService orchestrates timetable generation: it synthesizes solver
// events from roster snapshots, gates submission behind a liveness probe,
// and materializes the solver's sparse response into a display-ready grid.
type TimetableService struct {
	rooms    timetableRoomSource
	faculty  timetableFacultySource
	subjects timetableSubjectSource
	batches  timetableBatchSource
	solver   solverGateway
	cache    snapshotCache
	metrics  *MetricsService

	cfg       config.TimetableConfig
	validator *validator.Validate
	logger    *zap.Logger

	mu     sync.Mutex
	state  generationState
	latest *models.TimetableSnapshot

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewTimetableService wires the orchestration dependencies.
func NewTimetableService(
	rooms timetableRoomSource,
	faculty timetableFacultySource,
	subjects timetableSubjectSource,
	batches timetableBatchSource,
	solverClient solverGateway,
	cache snapshotCache,
	metrics *MetricsService,
	cfg config.TimetableConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NumDays <= 0 {
		cfg.NumDays = 5
	}
	if cfg.PeriodsPerDay <= 0 {
		cfg.PeriodsPerDay = 6
	}
	if cfg.MaxDailyPerBatch <= 0 {
		cfg.MaxDailyPerBatch = 3
	}
	return &TimetableService{
		rooms:     rooms,
		faculty:   faculty,
		subjects:  subjects,
		batches:   batches,
		solver:    solverClient,
		cache:     cache,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		state:     stateIdle,
		now:       time.Now,
	}
}

// Generate runs one full generation pipeline. Only one run may be in flight
// at a time; concurrent callers get a conflict instead of a queued run.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation payload")
	}

	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.finish()

	start := s.now()

	roomRecords, facultyRecords, subjectRecords, batchRecords, err := s.loadRoster(ctx)
	if err != nil {
		s.observe("error", 0, start)
		return nil, err
	}

	solverRooms := BuildSolverRooms(roomRecords)
	if len(solverRooms) == 0 {
		s.observe("rejected", 0, start)
		return nil, appErrors.Clone(appErrors.ErrValidation, "no rooms available for scheduling; add rooms or clear maintenance status")
	}

	events := SynthesizeEvents(batchRecords, subjectRecords, facultyRecords, roomRecords)
	if len(events) == 0 {
		s.observe("rejected", 0, start)
		return nil, appErrors.Clone(appErrors.ErrValidation, "no schedulable events; ensure batches and subjects are configured")
	}

	// Probe before submitting so an unreachable solver never receives a
	// half-committed generation request.
	if err := s.solver.Health(ctx); err != nil {
		s.metrics.RecordSolverProbe(false)
		s.observe("unreachable", 0, start)
		return nil, appErrors.Wrap(err, appErrors.ErrSolverUnavailable.Code, appErrors.ErrSolverUnavailable.Status, appErrors.ErrSolverUnavailable.Message)
	}
	s.metrics.RecordSolverProbe(true)

	seed := s.now().UnixMilli()
	if req.RngSeed != nil {
		seed = *req.RngSeed
	}

	solverReq := s.buildSolverRequest(req, events, solverRooms, batchRecords, seed)

	resp, err := s.solver.Generate(ctx, solverReq)
	if err != nil {
		s.observe("error", 0, start)
		return nil, appErrors.Wrap(err, appErrors.ErrSolverFailed.Code, appErrors.ErrSolverFailed.Status, appErrors.ErrSolverFailed.Message)
	}

	s.advance(stateMaterializing)

	roomNames := make(map[string]string, len(roomRecords))
	for _, r := range roomRecords {
		roomNames[r.ID] = r.Name
	}

	snapshot := Materialize(resp, events, solverRooms, roomNames, solverReq.NumDays, solverReq.PeriodsPerDay, s.logger)
	snapshot.GeneratedAt = s.now().UTC()

	s.storeSnapshot(ctx, snapshot)

	outcome := "success"
	if len(snapshot.Unassigned) > 0 {
		outcome = "partial"
	}
	s.observe(outcome, len(snapshot.Unassigned), start)

	s.logger.Info("timetable generated",
		zap.Int("events", len(events)),
		zap.Int("rooms", len(solverRooms)),
		zap.Int("unassigned", len(snapshot.Unassigned)),
		zap.Int("dropped_assignments", snapshot.DroppedAssignments),
		zap.Int64("rng_seed", seed),
		zap.Bool("success", snapshot.Success),
	)

	return &dto.GenerateTimetableResponse{
		Snapshot:   snapshot,
		EventCount: len(events),
		RoomCount:  len(solverRooms),
		RngSeed:    seed,
		Partial:    len(snapshot.Unassigned) > 0,
	}, nil
}

// Latest returns the most recent snapshot, falling back to the cache after a
// restart. No snapshot yet is a not-found condition, not an error state.
func (s *TimetableService) Latest(ctx context.Context) (*models.TimetableSnapshot, error) {
	s.mu.Lock()
	snapshot := s.latest
	s.mu.Unlock()
	if snapshot != nil {
		return snapshot, nil
	}

	if s.cache != nil {
		var cached models.TimetableSnapshot
		lookup := s.now()
		err := s.cache.Get(ctx, snapshotCacheKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, s.now().Sub(lookup))
		if err == nil {
			s.mu.Lock()
			s.latest = &cached
			s.mu.Unlock()
			return &cached, nil
		}
	}

	return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable has been generated yet")
}

// SolverHealth reports the solver's liveness for operator visibility.
func (s *TimetableService) SolverHealth(ctx context.Context) dto.SolverHealth {
	if err := s.solver.Health(ctx); err != nil {
		s.metrics.RecordSolverProbe(false)
		return dto.SolverHealth{Status: "unreachable", Reachable: false, Error: err.Error()}
	}
	s.metrics.RecordSolverProbe(true)
	return dto.SolverHealth{Status: "healthy", Reachable: true}
}

// ExportDataset flattens the latest snapshot into tabular form for the
// CSV/PDF exporters.
func (s *TimetableService) ExportDataset(ctx context.Context) (export.Dataset, error) {
	snapshot, err := s.Latest(ctx)
	if err != nil {
		return export.Dataset{}, err
	}

	dataset := export.Dataset{
		Headers: []string{"Day", "Period", "Batch", "Subject", "Teacher", "Room", "Room Type"},
	}
	for day := range snapshot.Grid {
		for period := range snapshot.Grid[day] {
			for _, slot := range snapshot.Grid[day][period] {
				roomLabel := slot.RoomName
				if roomLabel == "" {
					roomLabel = slot.RoomID
				}
				dataset.Rows = append(dataset.Rows, map[string]string{
					"Day":       strconv.Itoa(day + 1),
					"Period":    strconv.Itoa(period + 1),
					"Batch":     slot.Batch,
					"Subject":   slot.Subject,
					"Teacher":   slot.Teacher,
					"Room":      roomLabel,
					"Room Type": slot.RoomType,
				})
			}
		}
	}
	return dataset, nil
}

func (s *TimetableService) loadRoster(ctx context.Context) ([]models.Room, []models.Faculty, []models.Subject, []models.Batch, error) {
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	faculty, err := s.faculty.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	subjects, err := s.subjects.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subjects")
	}
	batches, err := s.batches.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load batches")
	}
	return rooms, faculty, subjects, batches, nil
}

func (s *TimetableService) buildSolverRequest(
	req dto.GenerateTimetableRequest,
	events []dto.SolverEvent,
	rooms []dto.SolverRoom,
	batches []models.Batch,
	seed int64,
) dto.SolverRequest {
	numDays := s.cfg.NumDays
	if req.NumDays != nil {
		numDays = *req.NumDays
	}
	periodsPerDay := s.cfg.PeriodsPerDay
	if req.PeriodsPerDay != nil {
		periodsPerDay = *req.PeriodsPerDay
	}
	dailyCap := s.cfg.MaxDailyPerBatch
	if req.MaxDailyPerBatch != nil {
		dailyCap = *req.MaxDailyPerBatch
	}

	perBatchCap := make(map[string]int, len(batches))
	for _, b := range batches {
		perBatchCap[b.Label] = dailyCap
	}

	oneSubjectPerDay := s.cfg.OneSubjectPerDay
	if req.OneSubjectPerDay != nil {
		oneSubjectPerDay = *req.OneSubjectPerDay
	}
	rotateStart := s.cfg.RotateStart
	if req.RotateStart != nil {
		rotateStart = *req.RotateStart
	}
	randomizeWithinDay := s.cfg.RandomizeWithinDay
	if req.RandomizeWithinDay != nil {
		randomizeWithinDay = *req.RandomizeWithinDay
	}

	return dto.SolverRequest{
		Events:             events,
		Rooms:              rooms,
		NumDays:            numDays,
		PeriodsPerDay:      periodsPerDay,
		MaxClassesPerDay:   perBatchCap,
		OneSubjectPerDay:   oneSubjectPerDay,
		RotateStart:        rotateStart,
		RandomizeWithinDay: randomizeWithinDay,
		RngSeed:            seed,
	}
}

func (s *TimetableService) storeSnapshot(ctx context.Context, snapshot *models.TimetableSnapshot) {
	s.mu.Lock()
	s.latest = snapshot
	s.mu.Unlock()

	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, snapshotCacheKey, snapshot, s.cfg.SnapshotTTL); err != nil {
		s.logger.Warn("failed to cache timetable snapshot", zap.Error(err))
	}
}

func (s *TimetableService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return appErrors.Clone(appErrors.ErrGenerationInFlight, "")
	}
	s.state = stateSubmitting
	return nil
}

func (s *TimetableService) advance(next generationState) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

func (s *TimetableService) finish() {
	s.mu.Lock()
	s.state = stateIdle
	s.mu.Unlock()
}

func (s *TimetableService) observe(outcome string, unassigned int, start time.Time) {
	s.metrics.ObserveGeneration(outcome, unassigned, s.now().Sub(start))
}

// State exposes the current generation phase as a string for diagnostics.
func (s *TimetableService) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case stateSubmitting:
		return "submitting"
	case stateMaterializing:
		return "materializing"
	default:
		return "idle"
	}
}
