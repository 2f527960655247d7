// ABOUTME: MCP resource implementations for mapty.
// ABOUTME: Provides mapty://workouts and mapty://map resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// mapty://workouts - every workout in creation order
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "mapty://workouts",
		Name:        "Workouts",
		Description: "All recorded workouts in creation order",
		MIMEType:    "application/json",
	}, s.handleWorkoutsResource)

	// mapty://map - map center and markers
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "mapty://map",
		Name:        "Workout Map",
		Description: "Map center, zoom and the marker placed for each workout",
		MIMEType:    "application/json",
	}, s.handleMapResource)
}

// Resource handlers

func (s *Server) handleWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	workouts := s.app.Session().Workouts()
	out := make([]workoutOutput, 0, len(workouts))
	for _, w := range workouts {
		out = append(out, toOutput(w))
	}
	return jsonResource("mapty://workouts", map[string]interface{}{
		"count":    len(out),
		"workouts": out,
	})
}

type markerOutput struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Type  string  `json:"type"`
	Label string  `json:"label"`
}

func (s *Server) handleMapResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{
		"ready": s.app.Session().MapReady(),
	}
	if err := s.app.LocateErr(); err != nil {
		result["error"] = err.Error()
	} else {
		center, zoom := s.app.Map().Center()
		result["center"] = []float64{center.Lat, center.Lng}
		result["zoom"] = zoom
	}

	markers := []markerOutput{}
	for _, m := range s.app.Map().Markers() {
		markers = append(markers, markerOutput{
			Lat:   m.Location.Lat,
			Lng:   m.Location.Lng,
			Type:  string(m.Kind),
			Label: m.Label,
		})
	}
	result["markers"] = markers

	return jsonResource("mapty://map", result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
