package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ninjax26/Classroom-scheduler/internal/models"
)

func strPtr(s string) *string {
	return &s
}

func TestBuildSolverRoomsSkipsMaintenance(t *testing.T) {
	rooms := []models.Room{
		{ID: "r1", Name: "Room 101", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
		{ID: "r2", Name: "Physics Lab", Type: models.RoomTypeLab, Capacity: 25, Status: models.RoomStatusMaintenance},
		{ID: "r3", Name: "Chem Lab", Type: "LAB", Capacity: 30, Status: models.RoomStatusAvailable},
	}

	solverRooms := BuildSolverRooms(rooms)

	require.Len(t, solverRooms, 2)
	assert.Equal(t, "r1", solverRooms[0].ID)
	assert.Equal(t, models.RoomTypeClassroom, solverRooms[0].RoomType)
	assert.Equal(t, "r3", solverRooms[1].ID)
	assert.Equal(t, models.RoomTypeLab, solverRooms[1].RoomType)
}

func TestTeacherRotationAlternatesWithinDepartment(t *testing.T) {
	byDept := map[string][]string{
		"Math":    {"Dr. A", "Dr. B"},
		"Physics": {"Dr. C"},
	}

	rotation := teacherRotation{}

	first, rotation := rotation.pick("Math", byDept, "")
	second, rotation := rotation.pick("Math", byDept, "")
	third, rotation := rotation.pick("Math", byDept, "")

	assert.Equal(t, "Dr. A", first)
	assert.Equal(t, "Dr. B", second)
	assert.Equal(t, "Dr. A", third)

	// Picks in one department never move another department's cursor.
	phys, rotation := rotation.pick("Physics", byDept, "")
	assert.Equal(t, "Dr. C", phys)
	next, _ := rotation.pick("Math", byDept, "")
	assert.Equal(t, "Dr. B", next)
}

func TestTeacherRotationDoesNotMutateReceiver(t *testing.T) {
	byDept := map[string][]string{"Math": {"Dr. A", "Dr. B"}}
	original := teacherRotation{}

	_, advanced := original.pick("Math", byDept, "")

	assert.Empty(t, original)
	assert.Equal(t, 1, advanced["Math"])
}

func TestTeacherRotationFallbacks(t *testing.T) {
	rotation := teacherRotation{}

	teacher, _ := rotation.pick("History", map[string][]string{}, "Dr. Default")
	assert.Equal(t, "Dr. Default", teacher)

	teacher, _ = rotation.pick("History", map[string][]string{}, "")
	assert.Equal(t, placeholderTeacher, teacher)
}

func TestSynthesizeEventsExpandsWeeklyHoursWithSequentialIDs(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 30, AssignedSubjects: []string{"s1"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 3},
	}
	faculty := []models.Faculty{
		{ID: "f1", Name: "Dr. A", Department: "Math"},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, faculty, rooms)

	require.Len(t, events, 3)
	for i, event := range events {
		assert.Equal(t, i+1, event.ID)
		assert.Equal(t, "B1", event.Batch)
		assert.Equal(t, "Algebra", event.Subject)
		assert.Equal(t, "Dr. A", event.Teacher)
		assert.Equal(t, models.RoomTypeClassroom, event.RoomTypeRequired)
		assert.Equal(t, 30, event.MinCapacity)
		assert.Equal(t, 1, event.SpanSlots)
	}
}

func TestSynthesizeEventsRotatesTeacherAcrossWeeklyOccurrences(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 30, AssignedSubjects: []string{"s1"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 2},
	}
	faculty := []models.Faculty{
		{ID: "f1", Name: "Dr. A", Department: "Math"},
		{ID: "f2", Name: "Dr. B", Department: "Math"},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, faculty, rooms)

	require.Len(t, events, 2)
	assert.Equal(t, "Dr. A", events[0].Teacher)
	assert.Equal(t, "Dr. B", events[1].Teacher)
}

func TestSynthesizeEventsRoundRobinAcrossSubjects(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 25, AssignedSubjects: []string{"s1", "s2"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 1},
		{ID: "s2", Code: "MTH102", Name: "Calculus", Department: "Math", WeeklyHours: 1},
	}
	faculty := []models.Faculty{
		{ID: "f1", Name: "Dr. A", Department: "Math"},
		{ID: "f2", Name: "Dr. B", Department: "Math"},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, faculty, rooms)

	require.Len(t, events, 2)
	assert.Equal(t, "Dr. A", events[0].Teacher)
	assert.Equal(t, "Dr. B", events[1].Teacher)
}

func TestSynthesizeEventsCapsMinCapacityToLargestRoom(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 100, AssignedSubjects: []string{"s1"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 1},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 60, Status: models.RoomStatusAvailable},
		{ID: "r2", Type: models.RoomTypeClassroom, Capacity: 45, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, nil, rooms)

	require.Len(t, events, 1)
	assert.Equal(t, 60, events[0].MinCapacity)
	assert.Equal(t, placeholderTeacher, events[0].Teacher)
}

func TestSynthesizeEventsLabDetection(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Physics", Size: 20, AssignedSubjects: []string{"s1", "s2", "s3"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "PHY101", Name: "Physics Lab", Department: "Physics", WeeklyHours: 1},
		{ID: "s2", Code: "CHMLAB", Name: "Chemistry Practical", Department: "Physics", WeeklyHours: 1},
		{ID: "s3", Code: "PHY102", Name: "Mechanics", Department: "Physics", WeeklyHours: 1,
			Description: strPtr("Laboratory-driven problem sessions")},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 60, Status: models.RoomStatusAvailable},
		{ID: "r2", Type: models.RoomTypeLab, Capacity: 24, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, nil, rooms)

	require.Len(t, events, 3)
	for _, event := range events {
		assert.Equal(t, models.RoomTypeLab, event.RoomTypeRequired, event.Subject)
	}
	// Lab capacity cap applies, not the classroom one.
	assert.Equal(t, 20, events[0].MinCapacity)
}

func TestSynthesizeEventsFallsBackToFullCatalog(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 30},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 1},
		{ID: "s2", Code: "PHY101", Name: "Mechanics", Department: "Physics", WeeklyHours: 2},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, nil, rooms)

	assert.Len(t, events, 3)
}

func TestSynthesizeEventsResolvesByCodeAndNameAndSkipsUnknown(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 30,
			AssignedSubjects: []string{"MTH101", "Calculus", "does-not-exist"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 1},
		{ID: "s2", Code: "MTH102", Name: "Calculus", Department: "Math", WeeklyHours: 1},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, nil, rooms)

	require.Len(t, events, 2)
	assert.Equal(t, "Algebra", events[0].Subject)
	assert.Equal(t, "Calculus", events[1].Subject)
	// ID sequence has no gap for the skipped reference.
	assert.Equal(t, 1, events[0].ID)
	assert.Equal(t, 2, events[1].ID)
}

func TestSynthesizeEventsCapacityIgnoresMaintenanceFilter(t *testing.T) {
	// Capacity caps consider every room on record, even ones the adapter
	// excludes from the schedulable set.
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 80, AssignedSubjects: []string{"s1"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 1},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 50, Status: models.RoomStatusAvailable},
		{ID: "r2", Type: models.RoomTypeClassroom, Capacity: 90, Status: models.RoomStatusMaintenance},
	}

	events := SynthesizeEvents(batches, subjects, nil, rooms)

	require.Len(t, events, 1)
	assert.Equal(t, 80, events[0].MinCapacity)
}

func TestSynthesizeEventsDefaultsBatchSizeAndWeeklyHours(t *testing.T) {
	batches := []models.Batch{
		{ID: "b1", Label: "B1", Department: "Math", Size: 0, AssignedSubjects: []string{"s1"}},
	}
	subjects := []models.Subject{
		{ID: "s1", Code: "MTH101", Name: "Algebra", Department: "Math", WeeklyHours: 0},
	}
	rooms := []models.Room{
		{ID: "r1", Type: models.RoomTypeClassroom, Capacity: 60, Status: models.RoomStatusAvailable},
	}

	events := SynthesizeEvents(batches, subjects, nil, rooms)

	require.Len(t, events, 1)
	assert.Equal(t, defaultBatchSize, events[0].MinCapacity)
}
