// ABOUTME: Workout model: a recorded running or cycling session at a map location.
// ABOUTME: Derived metric and description are computed at construction and on edit only.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Location is a latitude/longitude pair. It serializes as [lat, lng].
type Location struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the location as a two-element array.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{l.Lat, l.Lng})
}

// UnmarshalJSON decodes a two-element [lat, lng] array.
func (l *Location) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decode coords: %w", err)
	}
	l.Lat, l.Lng = pair[0], pair[1]
	return nil
}

func (l Location) String() string {
	return fmt.Sprintf("%.5f,%.5f", l.Lat, l.Lng)
}

// Workout is a single exercise session. The Kind tag decides which of the
// kind-specific fields (Cadence/Pace or ElevationGain/Speed) are meaningful.
type Workout struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"type"`
	CreatedAt   time.Time `json:"date"`
	Location    Location  `json:"coords"`
	DistanceKm  float64   `json:"distance"`
	DurationMin float64   `json:"duration"`

	// Running
	Cadence float64 `json:"cadence,omitempty"`
	Pace    float64 `json:"pace,omitempty"`

	// Cycling
	ElevationGain float64 `json:"elevationGain,omitempty"`
	Speed         float64 `json:"speed,omitempty"`

	Description string `json:"description"`
}

// NewWorkout creates a workout of the given kind stamped with the current time.
func NewWorkout(kind Kind, loc Location, distanceKm, durationMin, input float64) (*Workout, error) {
	return NewWorkoutAt(kind, loc, distanceKm, durationMin, input, time.Now())
}

// NewWorkoutAt creates a workout with an explicit creation time.
// Numeric validity is the caller's responsibility.
func NewWorkoutAt(kind Kind, loc Location, distanceKm, durationMin, input float64, now time.Time) (*Workout, error) {
	spec, err := SpecFor(kind)
	if err != nil {
		return nil, err
	}
	w := &Workout{
		ID:        newID(),
		Kind:      kind,
		CreatedAt: now,
		Location:  loc,
	}
	w.apply(spec, distanceKm, durationMin, input)
	return w, nil
}

// NewRunning creates a running workout.
func NewRunning(loc Location, distanceKm, durationMin, cadence float64) *Workout {
	w, _ := NewWorkout(KindRunning, loc, distanceKm, durationMin, cadence)
	return w
}

// NewCycling creates a cycling workout.
func NewCycling(loc Location, distanceKm, durationMin, elevationGain float64) *Workout {
	w, _ := NewWorkout(KindCycling, loc, distanceKm, durationMin, elevationGain)
	return w
}

// Edit returns a copy of w with new inputs. ID, CreatedAt and Location are kept;
// the derived metric and description are recomputed, including on a kind change.
func (w *Workout) Edit(kind Kind, distanceKm, durationMin, input float64) (*Workout, error) {
	spec, err := SpecFor(kind)
	if err != nil {
		return nil, err
	}
	edited := &Workout{
		ID:        w.ID,
		Kind:      kind,
		CreatedAt: w.CreatedAt,
		Location:  w.Location,
	}
	edited.apply(spec, distanceKm, durationMin, input)
	return edited, nil
}

// Restore rebuilds a workout decoded from storage by re-associating it with
// its kind's capability set. Persisted derived values are kept as-is; missing
// ones are recomputed.
func Restore(rec Workout) (*Workout, error) {
	spec, err := SpecFor(rec.Kind)
	if err != nil {
		return nil, err
	}
	w := rec
	switch rec.Kind {
	case KindRunning:
		w.ElevationGain, w.Speed = 0, 0
		if w.Pace == 0 && w.DistanceKm != 0 {
			w.Pace = spec.Metric(w.DistanceKm, w.DurationMin)
		}
	case KindCycling:
		w.Cadence, w.Pace = 0, 0
		if w.Speed == 0 && w.DurationMin != 0 {
			w.Speed = spec.Metric(w.DistanceKm, w.DurationMin)
		}
	}
	if w.Description == "" {
		w.Description = Describe(rec.Kind, rec.CreatedAt)
	}
	if w.ID == "" {
		w.ID = newID()
	}
	return &w, nil
}

// Spec returns the workout's capability set.
func (w *Workout) Spec() (KindSpec, error) {
	return SpecFor(w.Kind)
}

// Metric returns the derived metric: pace for running, speed for cycling.
func (w *Workout) Metric() float64 {
	if w.Kind == KindCycling {
		return w.Speed
	}
	return w.Pace
}

// Input returns the kind-specific input: cadence for running, elevation gain for cycling.
func (w *Workout) Input() float64 {
	if w.Kind == KindCycling {
		return w.ElevationGain
	}
	return w.Cadence
}

// Icon returns the kind's marker icon.
func (w *Workout) Icon() string {
	spec, err := w.Spec()
	if err != nil {
		return "•"
	}
	return spec.Icon
}

// Label is the marker popup text.
func (w *Workout) Label() string {
	return w.Icon() + " " + w.Description
}

// ShortID returns the 8-character prefix shown in listings.
func (w *Workout) ShortID() string {
	if len(w.ID) <= 8 {
		return w.ID
	}
	return w.ID[:8]
}

// Describe formats "<Kind> on <Month> <day>".
func Describe(kind Kind, t time.Time) string {
	return fmt.Sprintf("%s on %s %d", kind.Title(), t.Month(), t.Day())
}

func (w *Workout) apply(spec KindSpec, distanceKm, durationMin, input float64) {
	w.DistanceKm = distanceKm
	w.DurationMin = durationMin
	metric := spec.Metric(distanceKm, durationMin)
	switch spec.Kind {
	case KindRunning:
		w.Cadence = input
		w.Pace = metric
	case KindCycling:
		w.ElevationGain = input
		w.Speed = metric
	}
	w.Description = Describe(spec.Kind, w.CreatedAt)
}

func newID() string {
	return uuid.New().String()
}
