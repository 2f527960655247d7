// ABOUTME: Form input parsing and validation for new and edited workouts.
// ABOUTME: Distance and duration must be finite and positive; the kind decides its own field's rule.
package session

import (
	"fmt"
	"math"

	"github.com/harperreed/mapty/internal/models"
)

// Input is a parsed form submission.
type Input struct {
	Kind        models.Kind
	DistanceKm  float64
	DurationMin float64
	// Value is the cadence for running, the elevation gain for cycling.
	Value float64
}

// ParseInput reads the form values for the selected kind and validates them.
func ParseInput(v FormValues) (Input, error) {
	kind, err := models.ParseKind(v.Kind)
	if err != nil {
		return Input{}, &ValidationError{Field: "type", Input: v.Kind, Rule: "running or cycling"}
	}
	spec, _ := models.SpecFor(kind)

	raw := v.Field(kind)
	in := Input{
		Kind:        kind,
		DistanceKm:  ParseNumber(v.Distance),
		DurationMin: ParseNumber(v.Duration),
		Value:       ParseNumber(raw),
	}

	if !positive(in.DistanceKm) {
		return Input{}, &ValidationError{Field: "distance", Input: v.Distance, Rule: "a positive number"}
	}
	if !positive(in.DurationMin) {
		return Input{}, &ValidationError{Field: "duration", Input: v.Duration, Rule: "a positive number"}
	}
	if !spec.InputValid(in.Value) {
		return Input{}, &ValidationError{Field: spec.InputName, Input: raw, Rule: spec.InputRule}
	}
	// Tiny but positive inputs can still overflow the derived metric.
	if m := spec.Metric(in.DistanceKm, in.DurationMin); math.IsNaN(m) || math.IsInf(m, 0) {
		field, input := "distance", v.Distance
		if kind == models.KindCycling {
			field, input = "duration", v.Duration
		}
		return Input{}, &ValidationError{
			Field: field,
			Input: input,
			Rule:  fmt.Sprintf("large enough to give a finite %s", spec.MetricName),
		}
	}
	return in, nil
}

func positive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
