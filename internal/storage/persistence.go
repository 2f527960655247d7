// ABOUTME: Persistence adapter that saves and restores the workout store in one durable slot.
// ABOUTME: Unreadable or absent data loads as an empty store; reset clears the slot and relaunches.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/store"
)

// SlotKey is the fixed name of the slot holding the serialized workouts.
const SlotKey = "workouts"

// Persistence serializes the whole store into SlotKey.
type Persistence struct {
	slot    Slot
	logger  *log.Logger
	restart func()
}

// NewPersistence creates an adapter over slot. A nil logger uses log.Default().
func NewPersistence(slot Slot, logger *log.Logger) *Persistence {
	if logger == nil {
		logger = log.Default()
	}
	return &Persistence{slot: slot, logger: logger}
}

// OnReset sets the function Reset calls after clearing the slot.
func (p *Persistence) OnReset(restart func()) {
	p.restart = restart
}

// Save overwrites the slot with every workout in store order.
func (p *Persistence) Save(s *store.Store) error {
	workouts := s.All()
	if workouts == nil {
		workouts = []*models.Workout{}
	}
	data, err := json.Marshal(workouts)
	if err != nil {
		return fmt.Errorf("marshal workouts: %w", err)
	}
	if err := p.slot.Set(SlotKey, data); err != nil {
		return fmt.Errorf("save workouts: %w", err)
	}
	p.logger.Debug("saved workouts", "count", len(workouts), "bytes", len(data))
	return nil
}

// Load reads the slot. Absent or unparsable data yields an empty store.
func (p *Persistence) Load() *store.Store {
	data, err := p.slot.Get(SlotKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.logger.Warn("workouts unreadable, starting empty", "err", err)
		}
		return store.New()
	}

	workouts, err := DecodeWorkouts(data, p.logger)
	if err != nil {
		p.logger.Warn("workouts unparsable, starting empty", "err", err)
		return store.New()
	}
	p.logger.Debug("loaded workouts", "count", len(workouts))
	return store.New(workouts...)
}

// Reset clears the slot and relaunches the session from empty state.
// Calling it again is harmless: the slot is already clear.
func (p *Persistence) Reset() error {
	if err := p.slot.Delete(SlotKey); err != nil {
		return fmt.Errorf("reset workouts: %w", err)
	}
	p.logger.Info("workouts reset")
	if p.restart != nil {
		p.restart()
	}
	return nil
}

// DecodeWorkouts parses a serialized workout list and rebuilds each record
// through its kind. Records with an unknown kind are skipped and logged.
func DecodeWorkouts(data []byte, logger *log.Logger) ([]*models.Workout, error) {
	var records []models.Workout
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("unmarshal workouts: %w", err)
	}

	workouts := make([]*models.Workout, 0, len(records))
	for _, rec := range records {
		w, err := models.Restore(rec)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping stored workout", "id", rec.ID, "err", err)
			}
			continue
		}
		workouts = append(workouts, w)
	}
	return workouts, nil
}
