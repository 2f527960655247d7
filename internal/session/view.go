// ABOUTME: Collaborator interfaces the session controller drives.
// ABOUTME: Form, map, list, notifier and locator are injected so any front end (or a test double) can serve.
package session

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/harperreed/mapty/internal/models"
)

// FormValues is the raw text of the workout form.
type FormValues struct {
	Kind      string
	Distance  string
	Duration  string
	Cadence   string
	Elevation string
}

// Field returns the raw text of the kind-specific field for k.
func (v FormValues) Field(k models.Kind) string {
	if k == models.KindCycling {
		return v.Elevation
	}
	return v.Cadence
}

// Form is the view handle for the workout entry form.
// RestoreLayout is called from a timer goroutine and must be safe for concurrent use.
type Form interface {
	// Show makes the form visible and focuses the distance field.
	Show()
	// Hide hides the form. Its layout is restored later by RestoreLayout.
	Hide()
	RestoreLayout()
	// Clear empties every numeric field.
	Clear()
	Values() FormValues
	// Fill sets the kind and field values, revealing the kind's own field.
	Fill(v FormValues)
	// ToggleKindFields swaps which kind-specific field is visible.
	ToggleKindFields()
}

// MapRenderer draws workouts on the map. Markers are never removed.
type MapRenderer interface {
	Init(center models.Location, zoom int)
	AddMarker(w *models.Workout)
	Recenter(loc models.Location, zoom int)
}

// ListRenderer draws the workout list. Entries are tagged with the workout ID.
type ListRenderer interface {
	Render(w *models.Workout)
	Update(w *models.Workout)
	Remove(id string)
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Alert(msg string)
}

// Locator resolves the user's position once.
type Locator interface {
	Locate(ctx context.Context) (models.Location, error)
}

// ValuesFor returns the form contents that describe w.
func ValuesFor(w *models.Workout) FormValues {
	v := FormValues{
		Kind:     string(w.Kind),
		Distance: formatNumber(w.DistanceKm),
		Duration: formatNumber(w.DurationMin),
	}
	switch w.Kind {
	case models.KindRunning:
		v.Cadence = formatNumber(w.Cadence)
	case models.KindCycling:
		v.Elevation = formatNumber(w.ElevationGain)
	}
	return v
}

// ParseNumber converts form text the way a numeric input coerces it:
// blank text is 0 and anything unparsable is NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
