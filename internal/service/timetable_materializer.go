package service

import (
	"go.uber.org/zap"

	"github.com/Ninjax26/Classroom-scheduler/internal/dto"
	"github.com/Ninjax26/Classroom-scheduler/internal/models"
)

// SlotToDayPeriod decodes a flat slot index into (day, period).
func SlotToDayPeriod(slot, periodsPerDay int) (int, int) {
	return slot / periodsPerDay, slot % periodsPerDay
}

// DayPeriodToSlot encodes (day, period) into a flat slot index.
func DayPeriodToSlot(day, period, periodsPerDay int) int {
	return day*periodsPerDay + period
}

// Materialize expands the solver's sparse assignment maps into a dense
// day-by-period grid plus unassigned events and per-room utilization. It is
// total: malformed entries (unknown event or room ids, out-of-range slots) are
// logged, counted and skipped, never fatal.
func Materialize(
	resp *dto.SolverResponse,
	events []dto.SolverEvent,
	rooms []dto.SolverRoom,
	roomNames map[string]string,
	numDays, periodsPerDay int,
	logger *zap.Logger,
) *models.TimetableSnapshot {
	if logger == nil {
		logger = zap.NewNop()
	}

	eventByID := make(map[int]dto.SolverEvent, len(events))
	for _, e := range events {
		eventByID[e.ID] = e
	}
	roomByID := make(map[string]dto.SolverRoom, len(rooms))
	for _, r := range rooms {
		roomByID[r.ID] = r
	}

	grid := make([][][]models.TimetableSlot, numDays)
	for d := range grid {
		grid[d] = make([][]models.TimetableSlot, periodsPerDay)
		for p := range grid[d] {
			grid[d][p] = []models.TimetableSlot{}
		}
	}

	totalSlots := numDays * periodsPerDay
	dropped := 0

	for eventID, slot := range resp.TimeAssignment {
		event, eventOK := eventByID[eventID]
		roomID, assigned := resp.RoomAssignment[eventID]
		room, roomOK := roomByID[roomID]

		if !eventOK || !assigned || !roomOK {
			dropped++
			logger.Warn("dropping dangling solver assignment",
				zap.Int("event_id", eventID),
				zap.String("room_id", roomID),
				zap.Bool("event_known", eventOK),
				zap.Bool("room_known", roomOK),
			)
			continue
		}
		if slot < 0 || slot >= totalSlots {
			dropped++
			logger.Warn("dropping out-of-range solver assignment",
				zap.Int("event_id", eventID),
				zap.Int("slot", slot),
				zap.Int("total_slots", totalSlots),
			)
			continue
		}

		day, period := SlotToDayPeriod(slot, periodsPerDay)
		grid[day][period] = append(grid[day][period], models.TimetableSlot{
			EventID:  eventID,
			Batch:    event.Batch,
			Subject:  event.Subject,
			Teacher:  event.Teacher,
			RoomID:   roomID,
			RoomName: roomNames[roomID],
			RoomType: room.RoomType,
			Day:      day,
			Period:   period,
		})
	}

	unassigned := make([]models.UnassignedEvent, 0, len(resp.Unassigned))
	for _, id := range resp.Unassigned {
		event, ok := eventByID[id]
		if !ok {
			logger.Warn("dropping unknown unassigned event id", zap.Int("event_id", id))
			continue
		}
		unassigned = append(unassigned, models.UnassignedEvent{
			EventID:  event.ID,
			Batch:    event.Batch,
			Subject:  event.Subject,
			Teacher:  event.Teacher,
			RoomType: event.RoomTypeRequired,
		})
	}

	usage := make(map[string]int, len(rooms))
	for _, roomID := range resp.RoomAssignment {
		usage[roomID]++
	}

	utilization := make([]models.RoomUtilization, 0, len(rooms))
	for _, room := range rooms {
		used := usage[room.ID]
		var pct float64
		if totalSlots > 0 {
			pct = float64(used) / float64(totalSlots) * 100
		}
		utilization = append(utilization, models.RoomUtilization{
			RoomID:     room.ID,
			RoomName:   roomNames[room.ID],
			RoomType:   room.RoomType,
			UsedSlots:  used,
			TotalSlots: totalSlots,
			Percentage: pct,
		})
	}

	return &models.TimetableSnapshot{
		Grid:               grid,
		Unassigned:         unassigned,
		Utilization:        utilization,
		NumDays:            numDays,
		PeriodsPerDay:      periodsPerDay,
		Success:            resp.Success,
		Message:            resp.Message,
		DroppedAssignments: dropped,
	}
}
