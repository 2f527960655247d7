// ABOUTME: One-call workout actions for the CLI and the MCP server.
// ABOUTME: Each action drives the session the way a user would: pick, fill, submit.
package app

import (
	"fmt"

	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
)

// AddWorkout picks loc on the map, fills the form and submits it.
// A rejected form stays open in the session; the error is returned.
// When the workout is added but the save fails, both are returned.
func (a *App) AddWorkout(loc models.Location, values session.FormValues) (*models.Workout, error) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	ctrl := a.Session()
	if err := ctrl.PickLocation(loc); err != nil {
		return nil, err
	}
	a.Form().Set(values)
	return ctrl.Submit()
}

// EditWorkout opens the workout for editing and submits the changes.
// Empty fields in changes keep the workout's current values. Changing the
// kind needs the new kind's own field. When the edit is applied but the save
// fails, both the edited workout and the error are returned.
func (a *App) EditWorkout(idOrPrefix string, changes session.FormValues) (*models.Workout, error) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	w, err := a.Resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := requireKindField(w.Kind, changes); err != nil {
		return nil, err
	}
	ctrl := a.Session()
	if !ctrl.BeginEdit(w.ID) {
		return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, idOrPrefix)
	}

	form := a.Form()
	form.Set(overlay(form.Values(), changes))
	edited, err := ctrl.Submit()
	if edited == nil {
		if err == nil {
			err = fmt.Errorf("%w: %s", ErrWorkoutNotFound, idOrPrefix)
		}
		return nil, err
	}
	return edited, err
}

// DeleteWorkout removes the workout matching idOrPrefix.
func (a *App) DeleteWorkout(idOrPrefix string) (*models.Workout, error) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	w, err := a.Resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}
	found, err := a.Session().Delete(w.ID)
	if err != nil {
		return w, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, idOrPrefix)
	}
	return w, nil
}

// SelectWorkout recenters the map on the workout matching idOrPrefix.
func (a *App) SelectWorkout(idOrPrefix string) (*models.Workout, error) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	w, err := a.Resolve(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if !a.Session().Select(w.ID) {
		return w, session.ErrMapNotReady
	}
	return w, nil
}

// Reset clears every stored workout and relaunches the session.
func (a *App) Reset() error {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()
	return a.Session().Reset()
}

// Import merges workouts into the slot, skipping ids already stored, then
// relaunches so the session shows them. It returns how many were added.
func (a *App) Import(workouts []*models.Workout) (int, error) {
	a.actionMu.Lock()
	defer a.actionMu.Unlock()

	current := a.persistence.Load()
	added := 0
	for _, w := range workouts {
		if _, exists := current.FindByID(w.ID); exists {
			continue
		}
		current.Add(w)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := a.persistence.Save(current); err != nil {
		return 0, err
	}
	a.relaunch()
	return added, nil
}

// requireKindField rejects a kind change that leaves the new kind's field empty.
// Unknown kinds are left for form validation to report.
func requireKindField(current models.Kind, changes session.FormValues) error {
	kind, err := models.ParseKind(changes.Kind)
	if err != nil || kind == current {
		return nil
	}
	if changes.Field(kind) != "" {
		return nil
	}
	spec, _ := models.SpecFor(kind)
	return &session.ValidationError{
		Field: spec.InputName,
		Rule:  fmt.Sprintf("given when changing the type to %s", kind),
	}
}

// overlay returns base with every non-empty field of changes applied.
// Switching kind drops the old kind's field.
func overlay(base, changes session.FormValues) session.FormValues {
	out := base
	if kind, err := models.ParseKind(changes.Kind); err == nil && string(kind) != base.Kind {
		out.Kind = string(kind)
		out.Cadence, out.Elevation = "", ""
	} else if err != nil && changes.Kind != "" {
		out.Kind = changes.Kind
	}
	if changes.Distance != "" {
		out.Distance = changes.Distance
	}
	if changes.Duration != "" {
		out.Duration = changes.Duration
	}
	if changes.Cadence != "" {
		out.Cadence = changes.Cadence
	}
	if changes.Elevation != "" {
		out.Elevation = changes.Elevation
	}
	return out
}
