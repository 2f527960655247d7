// ABOUTME: In-memory ordered collection of workouts for one session.
// ABOUTME: Insertion order is creation order; entries leave only by explicit removal.
package store

import (
	"strings"

	"github.com/harperreed/mapty/internal/models"
)

// Store holds the session's workouts in creation order.
// It is owned by a single session controller and is not safe for concurrent use.
type Store struct {
	workouts []*models.Workout
}

// New returns a store seeded with the given workouts, in order.
func New(workouts ...*models.Workout) *Store {
	s := &Store{}
	for _, w := range workouts {
		s.Add(w)
	}
	return s
}

// Add appends a workout. IDs are unique by construction, so duplicates are not checked.
func (s *Store) Add(w *models.Workout) {
	s.workouts = append(s.workouts, w)
}

// FindByID returns the first workout with the given ID.
func (s *Store) FindByID(id string) (*models.Workout, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return s.workouts[i], true
}

// FindByPrefix returns every workout whose ID starts with prefix, in store order.
func (s *Store) FindByPrefix(prefix string) []*models.Workout {
	if prefix == "" {
		return nil
	}
	var out []*models.Workout
	for _, w := range s.workouts {
		if strings.HasPrefix(w.ID, prefix) {
			out = append(out, w)
		}
	}
	return out
}

// RemoveByID removes exactly one matching workout. A missing ID leaves the store unchanged.
func (s *Store) RemoveByID(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.workouts = append(s.workouts[:i:i], s.workouts[i+1:]...)
	return true
}

// Replace swaps the workout sharing w's ID for w, keeping its position.
func (s *Store) Replace(w *models.Workout) bool {
	i := s.indexOf(w.ID)
	if i < 0 {
		return false
	}
	s.workouts[i] = w
	return true
}

// All returns a copy of the ordered workouts.
func (s *Store) All() []*models.Workout {
	out := make([]*models.Workout, len(s.workouts))
	copy(out, s.workouts)
	return out
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.workouts)
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}
