// ABOUTME: Export and import functionality for workout data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/mapty/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is the version of the export envelope.
const ExportVersion = "1.0"

// ExportData represents the full export format for workout data.
type ExportData struct {
	Version    string            `json:"version" yaml:"version"`
	ExportedAt time.Time         `json:"exported_at" yaml:"exported_at"`
	Tool       string            `json:"tool" yaml:"tool"`
	Workouts   []*models.Workout `json:"workouts" yaml:"workouts"`
}

// NewExportData wraps workouts in an export envelope.
func NewExportData(workouts []*models.Workout) *ExportData {
	if workouts == nil {
		workouts = []*models.Workout{}
	}
	return &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now(),
		Tool:       "mapty",
		Workouts:   workouts,
	}
}

// ExportJSON exports workouts as JSON.
func ExportJSON(workouts []*models.Workout) ([]byte, error) {
	return json.MarshalIndent(NewExportData(workouts), "", "  ")
}

// ImportJSON parses an export produced by ExportJSON. Workouts are rebuilt
// through their kind; unknown kinds are an error here, unlike Load.
func ImportJSON(data []byte) ([]*models.Workout, error) {
	var envelope struct {
		Version  string            `json:"version"`
		Workouts []json.RawMessage `json:"workouts"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal JSON: %w", err)
	}
	if envelope.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", envelope.Version)
	}

	workouts := make([]*models.Workout, 0, len(envelope.Workouts))
	for i, raw := range envelope.Workouts {
		var rec models.Workout
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("workout %d: %w", i, err)
		}
		w, err := models.Restore(rec)
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i, err)
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}

// ExportYAML exports workouts as YAML grouped by kind.
func ExportYAML(workouts []*models.Workout) ([]byte, error) {
	data := NewExportData(workouts)

	yamlData := struct {
		Version    string                   `yaml:"version"`
		ExportedAt string                   `yaml:"exported_at"`
		Tool       string                   `yaml:"tool"`
		Workouts   map[string][]yamlWorkout `yaml:"workouts"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Workouts:   make(map[string][]yamlWorkout),
	}

	for _, w := range data.Workouts {
		spec, err := w.Spec()
		if err != nil {
			return nil, err
		}
		yw := yamlWorkout{
			ID:          w.ShortID(),
			Description: w.Description,
			Date:        w.CreatedAt.Format(time.RFC3339),
			Lat:         w.Location.Lat,
			Lng:         w.Location.Lng,
			DistanceKm:  w.DistanceKm,
			DurationMin: w.DurationMin,
			Metrics: map[string]float64{
				spec.MetricName: round1(w.Metric()),
				spec.InputName:  w.Input(),
			},
		}
		yamlData.Workouts[string(w.Kind)] = append(yamlData.Workouts[string(w.Kind)], yw)
	}

	return yaml.Marshal(yamlData)
}

type yamlWorkout struct {
	ID          string             `yaml:"id"`
	Description string             `yaml:"description"`
	Date        string             `yaml:"date"`
	Lat         float64            `yaml:"lat"`
	Lng         float64            `yaml:"lng"`
	DistanceKm  float64            `yaml:"distance_km"`
	DurationMin float64            `yaml:"duration_min"`
	Metrics     map[string]float64 `yaml:"metrics"`
}

// ExportMarkdown exports workouts as Markdown tables, one per kind.
// kind and since are optional filters.
func ExportMarkdown(workouts []*models.Workout, kind *models.Kind, since *time.Time) (string, error) {
	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Workout Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	kinds := models.AllKinds
	if kind != nil {
		kinds = []models.Kind{*kind}
	}

	for _, k := range kinds {
		spec, err := models.SpecFor(k)
		if err != nil {
			return "", err
		}

		var rows []*models.Workout
		for _, w := range workouts {
			if w.Kind != k {
				continue
			}
			if since != nil && w.CreatedAt.Before(*since) {
				continue
			}
			rows = append(rows, w)
		}
		if len(rows) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("## %s %s\n\n", spec.Icon, k.Title()))
		sb.WriteString(fmt.Sprintf("| Date | Location | Distance | Duration | %s | %s |\n",
			models.Capitalize(spec.MetricName), models.Capitalize(spec.InputName)))
		sb.WriteString("|------|----------|----------|----------|------|------|\n")
		for _, w := range rows {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.2f km | %.0f min | %.1f %s | %.0f %s |\n",
				w.CreatedAt.Format("2006-01-02 15:04"),
				w.Location,
				w.DistanceKm, w.DurationMin,
				w.Metric(), spec.MetricUnit,
				w.Input(), spec.InputUnit))
		}
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
