// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers over a memory-backed session.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mapty/internal/app"
	"github.com/harperreed/mapty/internal/config"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
	"github.com/harperreed/mapty/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var london = models.Location{Lat: 51.5, Lng: -0.1}

func ptr(v float64) *float64 { return &v }

// setupTestServer creates a server over a started, memory-backed session.
func setupTestServer(t *testing.T, home *models.Location) *Server {
	t.Helper()
	return setupTestServerWithSlot(t, home, storage.NewMemorySlot())
}

func setupTestServerWithSlot(t *testing.T, home *models.Location, slot storage.Slot) *Server {
	t.Helper()

	a, err := app.New(app.Options{
		Config:   &config.Config{Home: home},
		Logger:   log.New(io.Discard),
		Slot:     slot,
		AlertOut: io.Discard,
	})
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	server, err := NewServer(a, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func addRun(t *testing.T, s *Server, distance, duration, cadence float64) workoutOutput {
	t.Helper()
	_, out, err := s.handleAddWorkout(context.Background(), &mcp.CallToolRequest{}, addWorkoutInput{
		Type:        "running",
		Lat:         london.Lat,
		Lng:         london.Lng,
		DistanceKm:  distance,
		DurationMin: duration,
		Cadence:     ptr(cadence),
	})
	if err != nil {
		t.Fatalf("handleAddWorkout failed: %v", err)
	}
	return out
}

func TestNewServer(t *testing.T) {
	server := setupTestServer(t, &london)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.app == nil {
		t.Error("Expected non-nil app")
	}
}

func TestNewServerRequiresApp(t *testing.T) {
	if _, err := NewServer(nil, nil); err == nil {
		t.Error("Expected error for nil app")
	}
}

func TestHandleAddWorkout(t *testing.T) {
	server := setupTestServer(t, &london)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   addWorkoutInput
		wantErr error
	}{
		{
			name:  "valid run",
			input: addWorkoutInput{Type: "running", Lat: 51.5, Lng: -0.1, DistanceKm: 5, DurationMin: 25, Cadence: ptr(178)},
		},
		{
			name:  "valid ride with zero elevation",
			input: addWorkoutInput{Type: "cycling", Lat: 51.5, Lng: -0.1, DistanceKm: 20, DurationMin: 60, ElevationGain: ptr(0)},
		},
		{
			name:    "run without cadence",
			input:   addWorkoutInput{Type: "running", Lat: 51.5, Lng: -0.1, DistanceKm: 5, DurationMin: 25},
			wantErr: session.ErrValidation,
		},
		{
			name:    "zero distance",
			input:   addWorkoutInput{Type: "cycling", Lat: 51.5, Lng: -0.1, DistanceKm: 0, DurationMin: 60, ElevationGain: ptr(10)},
			wantErr: session.ErrValidation,
		},
		{
			name:    "unknown type",
			input:   addWorkoutInput{Type: "swimming", Lat: 51.5, Lng: -0.1, DistanceKm: 1, DurationMin: 30},
			wantErr: session.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if out.ID == "" || !strings.Contains(out.Message, "Added") {
				t.Errorf("Unexpected output: %+v", out)
			}
		})
	}
}

func TestHandleAddWorkoutComputesMetric(t *testing.T) {
	server := setupTestServer(t, &london)

	out := addRun(t, server, 5, 25, 178)
	if out.Pace != 5.0 {
		t.Errorf("Pace = %v, want 5.0", out.Pace)
	}
	if out.Type != "running" {
		t.Errorf("Type = %q, want running", out.Type)
	}
}

func TestHandleAddWorkoutWithoutPosition(t *testing.T) {
	server := setupTestServer(t, nil)

	_, _, err := server.handleAddWorkout(context.Background(), &mcp.CallToolRequest{}, addWorkoutInput{
		Type: "running", Lat: 1, Lng: 1, DistanceKm: 5, DurationMin: 25, Cadence: ptr(170),
	})
	if !errors.Is(err, session.ErrMapNotReady) {
		t.Errorf("Expected ErrMapNotReady, got %v", err)
	}
}

// brokenSlot refuses every write.
type brokenSlot struct {
	*storage.MemorySlot
}

func (brokenSlot) Set(string, []byte) error {
	return errors.New("disk full")
}

func TestHandleAddWorkoutSaveFailure(t *testing.T) {
	server := setupTestServerWithSlot(t, &london, brokenSlot{storage.NewMemorySlot()})

	_, out, err := server.handleAddWorkout(context.Background(), &mcp.CallToolRequest{}, addWorkoutInput{
		Type: "running", Lat: 51.5, Lng: -0.1, DistanceKm: 5, DurationMin: 25, Cadence: ptr(178),
	})
	if err != nil {
		t.Fatalf("Expected workout with message, got error: %v", err)
	}
	if out.ID == "" || !strings.Contains(out.Message, "not saved") || !strings.Contains(out.Message, "disk full") {
		t.Errorf("Unexpected output: %+v", out)
	}

	_, edited, err := server.handleEditWorkout(context.Background(), &mcp.CallToolRequest{}, editWorkoutInput{
		ID: out.ID, DurationMin: ptr(20),
	})
	if err != nil {
		t.Fatalf("Expected edited workout with message, got error: %v", err)
	}
	if edited.Pace != 4.0 || !strings.Contains(edited.Message, "not saved") {
		t.Errorf("Unexpected edit output: %+v", edited)
	}
}

func TestConcurrentToolCalls(t *testing.T) {
	server := setupTestServer(t, &london)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			input := addWorkoutInput{
				Type: "cycling", Lat: float64(i), Lng: 1,
				DistanceKm: float64(i + 1), DurationMin: 60, ElevationGain: ptr(0),
			}
			_, out, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, input)
			if err != nil {
				t.Errorf("add %d failed: %v", i, err)
				return
			}
			if out.Lat != input.Lat || out.DistanceKm != input.DistanceKm {
				t.Errorf("add %d stored another call's values: %+v", i, out)
			}
		}(i)
		go func() {
			defer wg.Done()
			_, _, _ = server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{Limit: n})
			_, _ = server.handleMapResource(ctx, &mcp.ReadResourceRequest{})
		}()
	}
	wg.Wait()

	_, list, err := server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{Limit: n})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	if len(list.Workouts) != n {
		t.Errorf("Expected %d workouts, got %d", n, len(list.Workouts))
	}
}

func TestHandleListWorkouts(t *testing.T) {
	server := setupTestServer(t, &london)
	ctx := context.Background()

	first := addRun(t, server, 5, 25, 178)
	_, _, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, addWorkoutInput{
		Type: "cycling", Lat: 51.5, Lng: -0.1, DistanceKm: 20, DurationMin: 60, ElevationGain: ptr(300),
	})
	if err != nil {
		t.Fatalf("add cycling failed: %v", err)
	}

	_, out, err := server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	if len(out.Workouts) != 2 {
		t.Fatalf("Expected 2 workouts, got %d", len(out.Workouts))
	}
	if out.Workouts[1].ID != first.ID {
		t.Error("Expected newest workout first")
	}

	_, out, err = server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{Type: "running"})
	if err != nil {
		t.Fatalf("handleListWorkouts with filter failed: %v", err)
	}
	if len(out.Workouts) != 1 || out.Workouts[0].Type != "running" {
		t.Errorf("Unexpected filtered list: %+v", out.Workouts)
	}

	_, out, _ = server.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{Limit: 1})
	if len(out.Workouts) != 1 {
		t.Errorf("Expected limit of 1, got %d", len(out.Workouts))
	}
}

func TestHandleListWorkoutsEmpty(t *testing.T) {
	server := setupTestServer(t, &london)

	_, out, err := server.handleListWorkouts(context.Background(), &mcp.CallToolRequest{}, listWorkoutsInput{})
	if err != nil {
		t.Fatalf("handleListWorkouts failed: %v", err)
	}
	if out.Message != "No workouts found." {
		t.Errorf("Unexpected message: %q", out.Message)
	}
}

func TestHandleListWorkoutsWithInvalidType(t *testing.T) {
	server := setupTestServer(t, &london)

	_, _, err := server.handleListWorkouts(context.Background(), &mcp.CallToolRequest{}, listWorkoutsInput{Type: "rowing"})
	if !errors.Is(err, models.ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}

func TestHandleGetWorkout(t *testing.T) {
	server := setupTestServer(t, &london)
	added := addRun(t, server, 5, 25, 178)

	_, out, err := server.handleGetWorkout(context.Background(), &mcp.CallToolRequest{}, idInput{ID: added.ID[:8]})
	if err != nil {
		t.Fatalf("handleGetWorkout failed: %v", err)
	}
	if out.ID != added.ID {
		t.Errorf("ID = %q, want %q", out.ID, added.ID)
	}
	if !strings.Contains(out.Message, "5.0 min/km") {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestHandleGetWorkoutNotFound(t *testing.T) {
	server := setupTestServer(t, &london)

	_, _, err := server.handleGetWorkout(context.Background(), &mcp.CallToolRequest{}, idInput{ID: "deadbeef"})
	if !errors.Is(err, app.ErrWorkoutNotFound) {
		t.Errorf("Expected ErrWorkoutNotFound, got %v", err)
	}
}

func TestHandleEditWorkout(t *testing.T) {
	server := setupTestServer(t, &london)
	added := addRun(t, server, 5, 25, 178)

	_, out, err := server.handleEditWorkout(context.Background(), &mcp.CallToolRequest{}, editWorkoutInput{
		ID:          added.ID,
		DurationMin: ptr(20),
	})
	if err != nil {
		t.Fatalf("handleEditWorkout failed: %v", err)
	}
	if out.ID != added.ID || out.Pace != 4.0 || out.Cadence != 178 {
		t.Errorf("Unexpected edit result: %+v", out)
	}

	_, list, _ := server.handleListWorkouts(context.Background(), &mcp.CallToolRequest{}, listWorkoutsInput{})
	if len(list.Workouts) != 1 {
		t.Errorf("Edit should not duplicate, got %d workouts", len(list.Workouts))
	}
}

func TestHandleEditWorkoutInvalid(t *testing.T) {
	server := setupTestServer(t, &london)
	added := addRun(t, server, 5, 25, 178)

	_, _, err := server.handleEditWorkout(context.Background(), &mcp.CallToolRequest{}, editWorkoutInput{
		ID:      added.ID,
		Cadence: ptr(-1),
	})
	if !errors.Is(err, session.ErrValidation) {
		t.Errorf("Expected ErrValidation, got %v", err)
	}
}

func TestHandleDeleteWorkout(t *testing.T) {
	server := setupTestServer(t, &london)
	added := addRun(t, server, 5, 25, 178)

	_, out, err := server.handleDeleteWorkout(context.Background(), &mcp.CallToolRequest{}, idInput{ID: added.ID})
	if err != nil {
		t.Fatalf("handleDeleteWorkout failed: %v", err)
	}
	if !strings.Contains(out.Message, "Deleted") {
		t.Errorf("Unexpected message: %q", out.Message)
	}

	_, _, err = server.handleDeleteWorkout(context.Background(), &mcp.CallToolRequest{}, idInput{ID: added.ID})
	if !errors.Is(err, app.ErrWorkoutNotFound) {
		t.Errorf("Expected ErrWorkoutNotFound on second delete, got %v", err)
	}
}

func TestHandleSelectWorkout(t *testing.T) {
	server := setupTestServer(t, &london)
	_, added, err := server.handleAddWorkout(context.Background(), &mcp.CallToolRequest{}, addWorkoutInput{
		Type: "cycling", Lat: 48.85, Lng: 2.35, DistanceKm: 20, DurationMin: 60, ElevationGain: ptr(100),
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	_, out, err := server.handleSelectWorkout(context.Background(), &mcp.CallToolRequest{}, idInput{ID: added.ID})
	if err != nil {
		t.Fatalf("handleSelectWorkout failed: %v", err)
	}
	if !strings.Contains(out.Message, "48.85000,2.35000") {
		t.Errorf("Unexpected message: %q", out.Message)
	}
}

func TestHandleResetWorkouts(t *testing.T) {
	server := setupTestServer(t, &london)
	addRun(t, server, 5, 25, 178)

	if _, _, err := server.handleResetWorkouts(context.Background(), &mcp.CallToolRequest{}, resetInput{}); err == nil {
		t.Error("Expected error without confirm")
	}

	_, _, err := server.handleResetWorkouts(context.Background(), &mcp.CallToolRequest{}, resetInput{Confirm: true})
	if err != nil {
		t.Fatalf("handleResetWorkouts failed: %v", err)
	}

	_, list, _ := server.handleListWorkouts(context.Background(), &mcp.CallToolRequest{}, listWorkoutsInput{})
	if len(list.Workouts) != 0 {
		t.Errorf("Expected no workouts after reset, got %d", len(list.Workouts))
	}
	if server.app.Relaunches() != 1 {
		t.Errorf("Expected one relaunch, got %d", server.app.Relaunches())
	}
}

func TestHandleWorkoutsResource(t *testing.T) {
	server := setupTestServer(t, &london)
	addRun(t, server, 5, 25, 178)

	result, err := server.handleWorkoutsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleWorkoutsResource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != "mapty://workouts" {
		t.Fatalf("Unexpected contents: %+v", result.Contents)
	}

	var data struct {
		Count    int             `json:"count"`
		Workouts []workoutOutput `json:"workouts"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &data); err != nil {
		t.Fatalf("Failed to parse resource JSON: %v", err)
	}
	if data.Count != 1 || data.Workouts[0].Description == "" {
		t.Errorf("Unexpected resource data: %+v", data)
	}
}

func TestHandleMapResource(t *testing.T) {
	server := setupTestServer(t, &london)
	addRun(t, server, 5, 25, 178)

	result, err := server.handleMapResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleMapResource failed: %v", err)
	}

	var data struct {
		Ready   bool           `json:"ready"`
		Center  []float64      `json:"center"`
		Zoom    int            `json:"zoom"`
		Markers []markerOutput `json:"markers"`
	}
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &data); err != nil {
		t.Fatalf("Failed to parse resource JSON: %v", err)
	}
	if !data.Ready || data.Zoom != 13 || len(data.Center) != 2 {
		t.Errorf("Unexpected map view: %+v", data)
	}
	if len(data.Markers) != 1 || !strings.HasPrefix(data.Markers[0].Label, "🏃 Running on") {
		t.Errorf("Unexpected markers: %+v", data.Markers)
	}
}

func TestHandleMapResourceWithoutPosition(t *testing.T) {
	server := setupTestServer(t, nil)

	result, err := server.handleMapResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("handleMapResource failed: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, "could not get your position") {
		t.Errorf("Expected geolocation error in resource, got %s", result.Contents[0].Text)
	}
}
