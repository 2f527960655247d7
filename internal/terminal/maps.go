// ABOUTME: Terminal map: remembers its center, zoom and markers and prints them as text.
// ABOUTME: Each marker carries the kind icon and description as its popup label.
package terminal

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
)

// Marker is a placed map marker.
type Marker struct {
	Location models.Location
	Kind     models.Kind
	Label    string
}

// Map records what a map widget would display. It is safe for concurrent use.
type Map struct {
	mu      sync.Mutex
	ready   bool
	center  models.Location
	zoom    int
	markers []Marker
}

var _ session.MapRenderer = (*Map)(nil)

// NewMap returns an uninitialised map.
func NewMap() *Map {
	return &Map{}
}

func (m *Map) Init(center models.Location, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = true
	m.center = center
	m.zoom = zoom
}

// AddMarker drops a labelled marker at w's location.
func (m *Map) AddMarker(w *models.Workout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, Marker{Location: w.Location, Kind: w.Kind, Label: w.Label()})
}

func (m *Map) Recenter(loc models.Location, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = loc
	m.zoom = zoom
}

// Center returns the current view.
func (m *Map) Center() (models.Location, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center, m.zoom
}

// Markers returns the markers in placement order.
func (m *Map) Markers() []Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}

// Print writes the view and every marker.
func (m *Map) Print(out io.Writer) {
	m.mu.Lock()
	ready := m.ready
	m.mu.Unlock()
	if !ready {
		fmt.Fprintln(out, "Map unavailable: no position.")
		return
	}
	center, zoom := m.Center()
	markers := m.Markers()
	faint := color.New(color.Faint)
	fmt.Fprintf(out, "%s %s (zoom %d)\n", color.New(color.Bold).Sprint("Center"), center, zoom)
	if len(markers) == 0 {
		fmt.Fprintln(out, faint.Sprint("No markers."))
		return
	}
	for _, mk := range markers {
		fmt.Fprintf(out, "📍 %s  %s\n", faint.Sprint(mk.Location), mk.Label)
	}
}
