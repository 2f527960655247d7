// ABOUTME: Terminal workout list: newest entry first, one block per workout.
// ABOUTME: Shows distance, duration, the derived pace or speed, and cadence or elevation.
package terminal

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
)

// List keeps the rendered entries in display order. It is safe for concurrent use.
type List struct {
	mu      sync.Mutex
	entries []*models.Workout
}

var _ session.ListRenderer = (*List)(nil)

// NewList returns an empty list.
func NewList() *List {
	return &List{}
}

// Render inserts w at the top, directly under the form.
func (l *List) Render(w *models.Workout) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]*models.Workout{w}, l.entries...)
}

// Update redraws the entry sharing w's ID.
func (l *List) Update(w *models.Workout) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == w.ID {
			l.entries[i] = w
			return
		}
	}
}

// Remove drops the entry with the given ID.
func (l *List) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

// Entries returns the entries in display order.
func (l *List) Entries() []*models.Workout {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*models.Workout, len(l.entries))
	copy(out, l.entries)
	return out
}

// Print writes every entry, or a placeholder when the list is empty.
func (l *List) Print(out io.Writer) {
	entries := l.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No workouts yet. Pick a spot with: mapty add running --lat <lat> --lng <lng>")
		return
	}
	for _, w := range entries {
		PrintEntry(out, w)
	}
}

// PrintEntry writes one workout as a title line and a details line.
func PrintEntry(out io.Writer, w *models.Workout) {
	faint := color.New(color.Faint)
	title := color.New(color.Bold)
	if w.Kind == models.KindCycling {
		title.Add(color.FgYellow)
	} else {
		title.Add(color.FgGreen)
	}

	fmt.Fprintf(out, "%s %s\n", title.Sprint(w.Description), faint.Sprint(w.ShortID()))
	fmt.Fprintf(out, "  %s\n", Details(w))
}

// Details formats the workout's values on one line.
func Details(w *models.Workout) string {
	spec, err := w.Spec()
	if err != nil {
		return fmt.Sprintf("%s km  %s min", Number(w.DistanceKm), Number(w.DurationMin))
	}
	parts := []string{
		fmt.Sprintf("%s %s km", spec.Icon, Number(w.DistanceKm)),
		fmt.Sprintf("⏱ %s min", Number(w.DurationMin)),
		fmt.Sprintf("⚡️ %.1f %s", w.Metric(), spec.MetricUnit),
		fmt.Sprintf("%s %s %s", spec.InputIcon, Number(w.Input()), spec.InputUnit),
	}
	return strings.Join(parts, "  ")
}

// Number formats a value without trailing zeros.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
