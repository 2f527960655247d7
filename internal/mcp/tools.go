// ABOUTME: MCP tool implementations for mapty workouts.
// ABOUTME: Add, list, get, edit, delete, select and reset, all through the session controller.
package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
	"github.com/harperreed/mapty/internal/terminal"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Record a running or cycling workout at a map location",
	}, s.handleAddWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workouts, newest first, optionally filtered by type",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get one workout by ID or ID prefix",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "edit_workout",
		Description: "Change a workout's type, distance, duration, cadence or elevation; pace or speed is recomputed",
	}, s.handleEditWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout by ID or ID prefix",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "select_workout",
		Description: "Center the map on a workout",
	}, s.handleSelectWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "reset_workouts",
		Description: "Delete every stored workout and restart the session",
	}, s.handleResetWorkouts)
}

// Tool input/output types

type addWorkoutInput struct {
	Type          string   `json:"type" jsonschema:"Workout type: running or cycling"`
	Lat           float64  `json:"lat" jsonschema:"Latitude of the workout"`
	Lng           float64  `json:"lng" jsonschema:"Longitude of the workout"`
	DistanceKm    float64  `json:"distance_km" jsonschema:"Distance in kilometres, positive"`
	DurationMin   float64  `json:"duration_min" jsonschema:"Duration in minutes, positive"`
	Cadence       *float64 `json:"cadence,omitempty" jsonschema:"Steps per minute, positive (running)"`
	ElevationGain *float64 `json:"elevation_gain,omitempty" jsonschema:"Elevation gain in metres, zero or more (cycling)"`
}

type editWorkoutInput struct {
	ID            string   `json:"id" jsonschema:"Workout ID or prefix"`
	Type          string   `json:"type,omitempty" jsonschema:"New workout type: running or cycling"`
	DistanceKm    *float64 `json:"distance_km,omitempty" jsonschema:"New distance in kilometres"`
	DurationMin   *float64 `json:"duration_min,omitempty" jsonschema:"New duration in minutes"`
	Cadence       *float64 `json:"cadence,omitempty" jsonschema:"New cadence in steps per minute"`
	ElevationGain *float64 `json:"elevation_gain,omitempty" jsonschema:"New elevation gain in metres"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"Workout ID or prefix"`
}

type listWorkoutsInput struct {
	Type  string `json:"type,omitempty" jsonschema:"Filter by workout type"`
	Limit int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type resetInput struct {
	Confirm bool `json:"confirm" jsonschema:"Must be true to delete every workout"`
}

type workoutOutput struct {
	ID            string  `json:"id"`
	Type          string  `json:"type"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	Lat           float64 `json:"lat"`
	Lng           float64 `json:"lng"`
	DistanceKm    float64 `json:"distance_km"`
	DurationMin   float64 `json:"duration_min"`
	Cadence       float64 `json:"cadence,omitempty"`
	Pace          float64 `json:"pace,omitempty"`
	ElevationGain float64 `json:"elevation_gain,omitempty"`
	Speed         float64 `json:"speed,omitempty"`
	Message       string  `json:"message,omitempty"`
}

type listWorkoutsOutput struct {
	Workouts []workoutOutput `json:"workouts"`
	Message  string          `json:"message,omitempty"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	values := session.FormValues{
		Kind:      input.Type,
		Distance:  formatFloat(input.DistanceKm),
		Duration:  formatFloat(input.DurationMin),
		Cadence:   formatOptional(input.Cadence),
		Elevation: formatOptional(input.ElevationGain),
	}
	w, err := s.app.AddWorkout(models.Location{Lat: input.Lat, Lng: input.Lng}, values)
	if w == nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to add workout: %w", err)
	}

	out := toOutput(w)
	out.Message = fmt.Sprintf("Added %s (ID: %s)", w.Description, w.ShortID())
	if err != nil {
		s.logger.Error("workout added but not saved", "id", w.ShortID(), "err", err)
		out.Message += fmt.Sprintf(" but not saved: %v", err)
	}
	return nil, out, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	var kind models.Kind
	if input.Type != "" {
		k, err := models.ParseKind(input.Type)
		if err != nil {
			return nil, listWorkoutsOutput{}, err
		}
		kind = k
	}

	out := listWorkoutsOutput{Workouts: []workoutOutput{}}
	for _, w := range s.app.List().Entries() {
		if kind != "" && w.Kind != kind {
			continue
		}
		out.Workouts = append(out.Workouts, toOutput(w))
		if len(out.Workouts) == input.Limit {
			break
		}
	}
	if len(out.Workouts) == 0 {
		out.Message = "No workouts found."
	}
	return nil, out, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.app.Resolve(input.ID)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	out := toOutput(w)
	out.Message = terminal.Details(w)
	return nil, out, nil
}

func (s *Server) handleEditWorkout(ctx context.Context, req *mcp.CallToolRequest, input editWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	changes := session.FormValues{
		Kind:      input.Type,
		Distance:  formatOptional(input.DistanceKm),
		Duration:  formatOptional(input.DurationMin),
		Cadence:   formatOptional(input.Cadence),
		Elevation: formatOptional(input.ElevationGain),
	}
	w, err := s.app.EditWorkout(input.ID, changes)
	if w == nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to edit workout: %w", err)
	}

	out := toOutput(w)
	out.Message = fmt.Sprintf("Updated %s (ID: %s)", w.Description, w.ShortID())
	if err != nil {
		s.logger.Error("workout edited but not saved", "id", w.ShortID(), "err", err)
		out.Message += fmt.Sprintf(" but not saved: %v", err)
	}
	return nil, out, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	w, err := s.app.DeleteWorkout(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Deleted workout: %s (%s)", w.ShortID(), w.Description),
	}, nil
}

func (s *Server) handleSelectWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, workoutOutput, error) {
	w, err := s.app.SelectWorkout(input.ID)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	out := toOutput(w)
	out.Message = fmt.Sprintf("Map centered on %s", w.Location)
	return nil, out, nil
}

func (s *Server) handleResetWorkouts(ctx context.Context, req *mcp.CallToolRequest, input resetInput) (*mcp.CallToolResult, simpleOutput, error) {
	if !input.Confirm {
		return nil, simpleOutput{}, fmt.Errorf("reset not confirmed: pass confirm=true")
	}
	if err := s.app.Reset(); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to reset workouts: %w", err)
	}
	s.logger.Info("workouts reset via mcp")
	return nil, simpleOutput{Message: "All workouts deleted."}, nil
}

func toOutput(w *models.Workout) workoutOutput {
	return workoutOutput{
		ID:            w.ID,
		Type:          string(w.Kind),
		Description:   w.Description,
		Date:          w.CreatedAt.Format("2006-01-02 15:04"),
		Lat:           w.Location.Lat,
		Lng:           w.Location.Lng,
		DistanceKm:    w.DistanceKm,
		DurationMin:   w.DurationMin,
		Cadence:       w.Cadence,
		Pace:          w.Pace,
		ElevationGain: w.ElevationGain,
		Speed:         w.Speed,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
