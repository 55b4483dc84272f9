package service

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Ninjax26/Classroom-scheduler/internal/dto"
	"github.com/Ninjax26/Classroom-scheduler/internal/models"
)

const (
	placeholderTeacher = "TBD"
	defaultBatchSize   = 30
)

// BuildSolverRooms maps room records into the solver's vocabulary. Rooms under
// maintenance are not schedulable and are dropped; every other room normalizes
// to exactly "classroom" or "lab".
func BuildSolverRooms(rooms []models.Room) []dto.SolverRoom {
	solverRooms := make([]dto.SolverRoom, 0, len(rooms))
	for _, room := range rooms {
		if room.Status == models.RoomStatusMaintenance {
			continue
		}
		solverRooms = append(solverRooms, dto.SolverRoom{
			ID:       room.ID,
			RoomType: normalizeRoomType(room.Type),
			Capacity: room.Capacity,
		})
	}
	return solverRooms
}

// teacherRotation holds one round-robin cursor per department. Picks return a
// new rotation so synthesis stays free of shared mutable state.
type teacherRotation map[string]int

func (r teacherRotation) pick(department string, byDepartment map[string][]string, fallback string) (string, teacherRotation) {
	pool := byDepartment[department]
	if len(pool) == 0 {
		if fallback != "" {
			return fallback, r
		}
		return placeholderTeacher, r
	}

	idx := r[department]
	teacher := pool[idx%len(pool)]

	next := make(teacherRotation, len(r)+1)
	for k, v := range r {
		next[k] = v
	}
	next[department] = (idx + 1) % len(pool)

	return teacher, next
}

// SynthesizeEvents expands every (batch, assigned subject, weekly occurrence)
// into an atomic solver event. A batch with no assigned subjects is scheduled
// against the full catalog; subject references resolve by id, then code, then
// name, and unresolvable references are skipped. Event ids are sequential
// from 1 in emission order.
func SynthesizeEvents(batches []models.Batch, subjects []models.Subject, faculty []models.Faculty, rooms []models.Room) []dto.SolverEvent {
	subjectByID := lo.KeyBy(subjects, func(s models.Subject) string { return s.ID })
	subjectByCode := lo.KeyBy(subjects, func(s models.Subject) string { return s.Code })
	subjectByName := lo.KeyBy(subjects, func(s models.Subject) string { return s.Name })

	facultyByDept := make(map[string][]string)
	for _, f := range faculty {
		facultyByDept[f.Department] = append(facultyByDept[f.Department], f.Name)
	}

	var fallbackTeacher string
	if len(faculty) > 0 {
		fallbackTeacher = faculty[0].Name
	}

	// Capacity caps are computed over the full room set, matching how the
	// scheduler has always behaved: a batch larger than every room of the
	// required type is clamped so the solver still has candidates.
	classroomMax := maxCapacity(rooms, models.RoomTypeClassroom)
	labMax := maxCapacity(rooms, models.RoomTypeLab)

	rotation := teacherRotation{}
	events := make([]dto.SolverEvent, 0)
	nextID := 1

	for _, batch := range batches {
		subjectIDs := batch.AssignedSubjects
		if len(subjectIDs) == 0 {
			subjectIDs = lo.Map(subjects, func(s models.Subject, _ int) string { return s.ID })
		}

		for _, ref := range subjectIDs {
			subject, ok := resolveSubject(ref, subjectByID, subjectByCode, subjectByName)
			if !ok {
				continue
			}

			weekly := subject.WeeklyHours
			if weekly < 1 {
				weekly = 1
			}

			title := subjectTitle(subject)
			requiresLab := subjectRequiresLab(subject, title)

			maxCap := classroomMax
			if requiresLab {
				maxCap = labMax
			}
			desired := batch.Size
			if desired <= 0 {
				desired = defaultBatchSize
			}
			minCap := desired
			if maxCap > 0 && maxCap < desired {
				minCap = maxCap
			}

			roomType := models.RoomTypeClassroom
			if requiresLab {
				roomType = models.RoomTypeLab
			}

			// Rotation advances per occurrence, so repeated weekly
			// sessions of one subject spread across the department.
			for i := 0; i < weekly; i++ {
				var teacher string
				teacher, rotation = rotation.pick(subject.Department, facultyByDept, fallbackTeacher)
				events = append(events, dto.SolverEvent{
					ID:               nextID,
					Batch:            batch.Label,
					Subject:          title,
					Teacher:          teacher,
					RoomTypeRequired: roomType,
					MinCapacity:      minCap,
					SpanSlots:        1,
				})
				nextID++
			}
		}
	}

	return events
}

func resolveSubject(ref string, byID, byCode, byName map[string]models.Subject) (models.Subject, bool) {
	if s, ok := byID[ref]; ok {
		return s, true
	}
	if s, ok := byCode[ref]; ok {
		return s, true
	}
	if s, ok := byName[ref]; ok {
		return s, true
	}
	return models.Subject{}, false
}

func subjectTitle(subject models.Subject) string {
	if subject.Name != "" {
		return subject.Name
	}
	if subject.Code != "" {
		return subject.Code
	}
	return "Subject"
}

// subjectRequiresLab infers the lab requirement from a case-insensitive "lab"
// substring in the subject's title, description or code.
func subjectRequiresLab(subject models.Subject, title string) bool {
	candidates := []string{title, subject.Code}
	if subject.Description != nil {
		candidates = append(candidates, *subject.Description)
	}
	return lo.SomeBy(candidates, func(s string) bool {
		return strings.Contains(strings.ToLower(s), "lab")
	})
}

func maxCapacity(rooms []models.Room, roomType string) int {
	max := 0
	for _, room := range rooms {
		if normalizeRoomType(room.Type) != roomType {
			continue
		}
		if room.Capacity > max {
			max = room.Capacity
		}
	}
	return max
}

func normalizeRoomType(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), models.RoomTypeLab) {
		return models.RoomTypeLab
	}
	return models.RoomTypeClassroom
}
