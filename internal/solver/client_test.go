package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ninjax26/Classroom-scheduler/internal/dto"
	"github.com/Ninjax26/Classroom-scheduler/pkg/config"
)

func newTestClient(baseURL string) *Client {
	return New(config.SolverConfig{BaseURL: baseURL}, nil)
}

func TestHealthSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.NoError(t, client.Health(context.Background()))
}

func TestHealthNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHealthUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := newTestClient(server.URL)
	assert.Error(t, client.Health(context.Background()))
}

func TestGenerateDecodesAssignments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-timetable", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.SolverRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Len(t, req.Events, 2)
		assert.Equal(t, 5, req.NumDays)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"time_assignment": {"1": 0, "2": 7},
			"room_assignment": {"1": "r1", "2": "r2"},
			"unassigned": [],
			"success": true,
			"message": "scheduled 2 events"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Generate(context.Background(), dto.SolverRequest{
		Events: []dto.SolverEvent{
			{ID: 1, Batch: "B1", Subject: "Algebra", Teacher: "Dr. A"},
			{ID: 2, Batch: "B1", Subject: "Physics Lab", Teacher: "Dr. B"},
		},
		Rooms:         []dto.SolverRoom{{ID: "r1", RoomType: "classroom", Capacity: 40}},
		NumDays:       5,
		PeriodsPerDay: 6,
	})

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, resp.TimeAssignment[1])
	assert.Equal(t, 7, resp.TimeAssignment[2])
	assert.Equal(t, "r2", resp.RoomAssignment[2])
	assert.Empty(t, resp.Unassigned)
}

func TestGenerateSurfacesErrorDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "events list is empty"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), dto.SolverRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
	assert.Contains(t, err.Error(), "events list is empty")
}

func TestGenerateNonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Generate(context.Background(), dto.SolverRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream exploded")
}
