package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ninjax26/Classroom-scheduler/internal/models"
	appErrors "github.com/Ninjax26/Classroom-scheduler/pkg/errors"
)

type mockRoomRepo struct {
	rooms   map[string]models.Room
	names   map[string]bool
	created *models.Room
	updated *models.Room
	deleted []string
}

func (m *mockRoomRepo) List(ctx context.Context, filter models.RoomFilter) ([]models.Room, int, error) {
	var list []models.Room
	for _, room := range m.rooms {
		list = append(list, room)
	}
	return list, len(list), nil
}

func (m *mockRoomRepo) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if room, ok := m.rooms[id]; ok {
		return &room, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRoomRepo) ExistsByName(ctx context.Context, name string, excludeID string) (bool, error) {
	return m.names[name], nil
}

func (m *mockRoomRepo) Create(ctx context.Context, room *models.Room) error {
	if m.rooms == nil {
		m.rooms = make(map[string]models.Room)
	}
	if room.ID == "" {
		room.ID = "new-room"
	}
	m.rooms[room.ID] = *room
	m.created = room
	return nil
}

func (m *mockRoomRepo) Update(ctx context.Context, room *models.Room) error {
	m.rooms[room.ID] = *room
	m.updated = room
	return nil
}

func (m *mockRoomRepo) Delete(ctx context.Context, id string) error {
	delete(m.rooms, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func TestRoomServiceCreateDefaultsStatus(t *testing.T) {
	repo := &mockRoomRepo{}
	svc := NewRoomService(repo, nil, nil)

	room, err := svc.Create(context.Background(), CreateRoomRequest{
		Name:     "  Room 101  ",
		Type:     models.RoomTypeClassroom,
		Capacity: 40,
	})

	require.NoError(t, err)
	assert.Equal(t, "Room 101", room.Name)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)
	require.NotNil(t, repo.created)
}

func TestRoomServiceCreateRejectsDuplicateName(t *testing.T) {
	repo := &mockRoomRepo{names: map[string]bool{"Room 101": true}}
	svc := NewRoomService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateRoomRequest{
		Name:     "Room 101",
		Type:     models.RoomTypeClassroom,
		Capacity: 40,
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestRoomServiceCreateValidatesPayload(t *testing.T) {
	svc := NewRoomService(&mockRoomRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateRoomRequest{
		Name:     "Room 101",
		Type:     "auditorium",
		Capacity: 40,
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRoomServiceUpdateNotFound(t *testing.T) {
	svc := NewRoomService(&mockRoomRepo{}, nil, nil)

	_, err := svc.Update(context.Background(), "missing", UpdateRoomRequest{
		Name:     "Room 101",
		Type:     models.RoomTypeClassroom,
		Capacity: 40,
		Status:   models.RoomStatusAvailable,
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestRoomServiceUpdateAppliesFields(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", Name: "Room 101", Type: models.RoomTypeClassroom, Capacity: 40, Status: models.RoomStatusAvailable},
	}}
	svc := NewRoomService(repo, nil, nil)

	room, err := svc.Update(context.Background(), "r1", UpdateRoomRequest{
		Name:     "Room 101",
		Type:     models.RoomTypeLab,
		Capacity: 24,
		Status:   models.RoomStatusMaintenance,
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoomTypeLab, room.Type)
	assert.Equal(t, 24, room.Capacity)
	assert.Equal(t, models.RoomStatusMaintenance, room.Status)
}

func TestRoomServiceDelete(t *testing.T) {
	repo := &mockRoomRepo{rooms: map[string]models.Room{
		"r1": {ID: "r1", Name: "Room 101"},
	}}
	svc := NewRoomService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "r1"))
	assert.Equal(t, []string{"r1"}, repo.deleted)

	err := svc.Delete(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
