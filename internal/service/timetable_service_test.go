package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ninjax26/Classroom-scheduler/internal/dto"
	"github.com/Ninjax26/Classroom-scheduler/internal/models"
	"github.com/Ninjax26/Classroom-scheduler/pkg/config"
	appErrors "github.com/Ninjax26/Classroom-scheduler/pkg/errors"
)

type stubRoster struct {
	rooms    []models.Room
	faculty  []models.Faculty
	subjects []models.Subject
	batches  []models.Batch
}

type stubRoomSource struct{ roster *stubRoster }

func (s stubRoomSource) ListAll(ctx context.Context) ([]models.Room, error) {
	return s.roster.rooms, nil
}

type stubFacultySource struct{ roster *stubRoster }

func (s stubFacultySource) ListAll(ctx context.Context) ([]models.Faculty, error) {
	return s.roster.faculty, nil
}

type stubSubjectSource struct{ roster *stubRoster }

func (s stubSubjectSource) ListAll(ctx context.Context) ([]models.Subject, error) {
	return s.roster.subjects, nil
}

type stubBatchSource struct{ roster *stubRoster }

func (s stubBatchSource) ListAll(ctx context.Context) ([]models.Batch, error) {
	return s.roster.batches, nil
}

type stubSolver struct {
	mu          sync.Mutex
	healthErr   error
	generateErr error
	response    *dto.SolverResponse
	requests    []dto.SolverRequest
	blockCh     chan struct{}
}

func (s *stubSolver) Health(ctx context.Context) error {
	return s.healthErr
}

func (s *stubSolver) Generate(ctx context.Context, req dto.SolverRequest) (*dto.SolverResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.blockCh != nil {
		<-s.blockCh
	}
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return s.response, nil
}

func (s *stubSolver) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type stubCache struct {
	store map[string][]byte
	sets  int
}

func (s *stubCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.sets++
	return nil
}

func defaultRoster() *stubRoster {
	return &stubRoster{
		rooms: []models.Room{
			{ID: "r1", Name: "Room 101", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
			{ID: "r2", Name: "Physics Lab", Type: models.RoomTypeLab, Capacity: 24, Status: models.RoomStatusAvailable},
		},
		faculty: []models.Faculty{
			{ID: "f1", Name: "Dr. A", Department: "Math"},
			{ID: "f2", Name: "Dr. B", Department: "Math"},
		},
		subjects: []models.Subject{
			{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 2},
		},
		batches: []models.Batch{
			{ID: "b1", Label: "B1", Department: "Math", Size: 30, AssignedSubjects: []string{"s1"}},
		},
	}
}

func newTestTimetableService(roster *stubRoster, solver *stubSolver, cache snapshotCache) *TimetableService {
	return NewTimetableService(
		stubRoomSource{roster}, stubFacultySource{roster}, stubSubjectSource{roster}, stubBatchSource{roster},
		solver, cache, nil, config.TimetableConfig{}, nil, nil,
	)
}

func successResponse() *dto.SolverResponse {
	return &dto.SolverResponse{
		TimeAssignment: map[int]int{1: 0, 2: 7},
		RoomAssignment: map[int]string{1: "r1", 2: "r1"},
		Success:        true,
		Message:        "scheduled",
	}
}

func TestGenerateHappyPath(t *testing.T) {
	solver := &stubSolver{response: successResponse()}
	cache := &stubCache{}
	svc := newTestTimetableService(defaultRoster(), solver, cache)

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})

	require.NoError(t, err)
	assert.Equal(t, 2, result.EventCount)
	assert.Equal(t, 2, result.RoomCount)
	assert.False(t, result.Partial)
	require.NotNil(t, result.Snapshot)
	assert.Equal(t, 5, result.Snapshot.NumDays)
	assert.Equal(t, 6, result.Snapshot.PeriodsPerDay)
	assert.False(t, result.Snapshot.GeneratedAt.IsZero())
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, "idle", svc.State())
}

func TestGenerateRejectsEmptyRoomSetBeforeSolverCall(t *testing.T) {
	roster := defaultRoster()
	roster.rooms = []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusMaintenance},
	}
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(roster, solver, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, solver.requestCount())
}

func TestGenerateRejectsEmptyEventSet(t *testing.T) {
	roster := defaultRoster()
	roster.batches = nil
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(roster, solver, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, solver.requestCount())
}

func TestGenerateHealthGateBlocksSubmission(t *testing.T) {
	solver := &stubSolver{
		healthErr: errors.New("connection refused"),
		response:  successResponse(),
	}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSolverUnavailable.Code, appErrors.FromError(err).Code)
	assert.Zero(t, solver.requestCount())
	assert.Equal(t, "idle", svc.State())
}

func TestGenerateSolverFailureMapsToBadGateway(t *testing.T) {
	solver := &stubSolver{generateErr: errors.New("boom")}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSolverFailed.Code, appErrors.FromError(err).Code)
	assert.Equal(t, "idle", svc.State())
}

func TestGenerateConflictsWhileInFlight(t *testing.T) {
	solver := &stubSolver{
		response: successResponse(),
		blockCh:  make(chan struct{}),
	}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
		firstDone <- err
	}()

	// Wait for the first run to reach the solver before racing it.
	require.Eventually(t, func() bool {
		return solver.requestCount() == 1
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGenerationInFlight.Code, appErrors.FromError(err).Code)

	close(solver.blockCh)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, solver.requestCount())
}

func TestGeneratePartialResult(t *testing.T) {
	solver := &stubSolver{response: &dto.SolverResponse{
		TimeAssignment: map[int]int{1: 0},
		RoomAssignment: map[int]string{1: "r1"},
		Unassigned:     []int{2},
		Success:        false,
		Message:        "scheduled 1 of 2",
	}}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})

	require.NoError(t, err)
	assert.True(t, result.Partial)
	require.Len(t, result.Snapshot.Unassigned, 1)
	assert.False(t, result.Snapshot.Success)
}

func TestGenerateSeedHandling(t *testing.T) {
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), result.RngSeed)
	assert.Equal(t, fixed.UnixMilli(), solver.requests[0].RngSeed)

	seed := int64(42)
	result, err = svc.Generate(context.Background(), dto.GenerateTimetableRequest{RngSeed: &seed})
	require.NoError(t, err)
	assert.Equal(t, seed, result.RngSeed)
	assert.Equal(t, seed, solver.requests[1].RngSeed)
}

func TestGenerateRequestOverridesConfig(t *testing.T) {
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	numDays := 3
	periods := 4
	dailyCap := 2
	oneSubject := false
	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{
		NumDays:          &numDays,
		PeriodsPerDay:    &periods,
		MaxDailyPerBatch: &dailyCap,
		OneSubjectPerDay: &oneSubject,
	})

	require.NoError(t, err)
	req := solver.requests[0]
	assert.Equal(t, 3, req.NumDays)
	assert.Equal(t, 4, req.PeriodsPerDay)
	assert.Equal(t, map[string]int{"B1": 2}, req.MaxClassesPerDay)
	assert.False(t, req.OneSubjectPerDay)
}

func TestGenerateValidatesPayload(t *testing.T) {
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	numDays := 99
	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{NumDays: &numDays})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, solver.requestCount())
}

func TestLatestWithoutSnapshot(t *testing.T) {
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(defaultRoster(), solver, &stubCache{})

	_, err := svc.Latest(context.Background())

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestLatestReturnsGeneratedSnapshot(t *testing.T) {
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	result, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.NoError(t, err)

	snapshot, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Same(t, result.Snapshot, snapshot)
}

func TestSolverHealthReporting(t *testing.T) {
	solver := &stubSolver{}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	health := svc.SolverHealth(context.Background())
	assert.True(t, health.Reachable)
	assert.Equal(t, "healthy", health.Status)

	solver.healthErr = errors.New("dial tcp: refused")
	health = svc.SolverHealth(context.Background())
	assert.False(t, health.Reachable)
	assert.Equal(t, "unreachable", health.Status)
	assert.Contains(t, health.Error, "refused")
}

func TestExportDatasetFlattensGrid(t *testing.T) {
	solver := &stubSolver{response: successResponse()}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{})
	require.NoError(t, err)

	dataset, err := svc.ExportDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Day", "Period", "Batch", "Subject", "Teacher", "Room", "Room Type"}, dataset.Headers)
	require.Len(t, dataset.Rows, 2)
	assert.Equal(t, "1", dataset.Rows[0]["Day"])
	assert.Equal(t, "1", dataset.Rows[0]["Period"])
	assert.Equal(t, "B1", dataset.Rows[0]["Batch"])
	assert.Equal(t, "Room 101", dataset.Rows[0]["Room"])
	assert.Equal(t, "2", dataset.Rows[1]["Day"])
	assert.Equal(t, "2", dataset.Rows[1]["Period"])
}

func TestExportDatasetWithoutSnapshot(t *testing.T) {
	solver := &stubSolver{}
	svc := newTestTimetableService(defaultRoster(), solver, nil)

	_, err := svc.ExportDataset(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
