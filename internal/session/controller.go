// ABOUTME: Session controller: the create/edit/delete/select lifecycle over one workout store.
// ABOUTME: Keeps the store, map markers, rendered list and durable slot in step with each user action.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/store"
)

// DefaultZoomLevel is the map zoom used for initialisation and recentering.
const DefaultZoomLevel = 13

// Mode is the form state.
type Mode int

const (
	// ModeIdle means the form is hidden.
	ModeIdle Mode = iota
	// ModeComposing means the form is open for a new workout at a picked location.
	ModeComposing
	// ModeEditing means the form is open and pre-filled with an existing workout.
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeComposing:
		return "composing"
	case ModeEditing:
		return "editing"
	default:
		return "idle"
	}
}

// Persister saves and restores the store.
type Persister interface {
	Save(s *store.Store) error
	Load() *store.Store
	Reset() error
}

// Deps holds the collaborators for a new Controller.
type Deps struct {
	Form        Form
	Map         MapRenderer
	List        ListRenderer
	Notifier    Notifier
	Locator     Locator
	Persistence Persister

	// Optional.
	Scheduler Scheduler
	Logger    *log.Logger
	ZoomLevel int
	Now       func() time.Time
}

// Controller owns the session's workout store. Every exported method is one
// discrete user interaction; calls are serialised.
type Controller struct {
	form        Form
	maps        MapRenderer
	list        ListRenderer
	notifier    Notifier
	locator     Locator
	persistence Persister
	scheduler   Scheduler
	logger      *log.Logger
	zoom        int
	now         func() time.Time

	mu        sync.Mutex
	store     *store.Store
	mode      Mode
	picked    models.Location
	editingID string
	mapReady  bool
}

// New creates a Controller with an empty store. Call Start to load and render.
func New(deps Deps) *Controller {
	if deps.Form == nil {
		panic("session: form cannot be nil")
	}
	if deps.Map == nil {
		panic("session: map renderer cannot be nil")
	}
	if deps.List == nil {
		panic("session: list renderer cannot be nil")
	}
	if deps.Notifier == nil {
		panic("session: notifier cannot be nil")
	}
	if deps.Locator == nil {
		panic("session: locator cannot be nil")
	}
	if deps.Persistence == nil {
		panic("session: persistence cannot be nil")
	}

	c := &Controller{
		form:        deps.Form,
		maps:        deps.Map,
		list:        deps.List,
		notifier:    deps.Notifier,
		locator:     deps.Locator,
		persistence: deps.Persistence,
		scheduler:   deps.Scheduler,
		logger:      deps.Logger,
		zoom:        deps.ZoomLevel,
		now:         deps.Now,
		store:       store.New(),
	}
	if c.scheduler == nil {
		c.scheduler = NewTimerScheduler(RestoreDelay)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.zoom <= 0 {
		c.zoom = DefaultZoomLevel
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Start loads the stored workouts, renders them into the list, then asks for
// the user's position. On success the map is initialised and every workout
// gets a marker. On failure the user is alerted and ErrGeolocationUnavailable
// is returned; the list stays usable.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = c.persistence.Load()
	for _, w := range c.store.All() {
		c.list.Render(w)
	}

	loc, err := c.locator.Locate(ctx)
	if err != nil {
		c.logger.Info("geolocation failed", "err", err)
		c.notifier.Alert(AlertNoPosition)
		if !errors.Is(err, ErrGeolocationUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGeolocationUnavailable, err)
		}
		return err
	}

	c.maps.Init(loc, c.zoom)
	c.mapReady = true
	for _, w := range c.store.All() {
		c.maps.AddMarker(w)
	}
	c.logger.Debug("session started", "workouts", c.store.Len(), "center", loc)
	return nil
}

// PickLocation opens the form for a new workout at loc.
func (c *Controller) PickLocation(loc models.Location) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mapReady {
		return ErrMapNotReady
	}
	c.picked = loc
	c.mode = ModeComposing
	c.editingID = ""
	c.showForm()
	return nil
}

// ToggleKind swaps the visible kind-specific form field.
func (c *Controller) ToggleKind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.ToggleKindFields()
}

// BeginEdit opens the form pre-filled with the workout id. It reports false,
// leaving everything unchanged, when id is not in the store.
func (c *Controller) BeginEdit(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.store.FindByID(id)
	if !ok {
		c.logger.Debug("edit of unknown workout ignored", "id", id)
		return false
	}
	c.mode = ModeEditing
	c.editingID = id
	c.showForm()
	c.form.Fill(ValuesFor(w))
	return true
}

// Submit validates the form and creates or updates a workout.
//
// Invalid input alerts the user and returns a *ValidationError; the store is
// untouched and the form stays open. On success the form is hidden and the
// workout is rendered before it is saved, so a save error is returned along
// with the workout.
func (c *Controller) Submit() (*models.Workout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode == ModeIdle {
		return nil, ErrNotComposing
	}

	in, err := ParseInput(c.form.Values())
	if err != nil {
		c.logger.Debug("workout rejected", "err", err)
		c.notifier.Alert(AlertInvalidInput)
		return nil, err
	}

	var w *models.Workout
	if c.mode == ModeEditing {
		w, err = c.applyEdit(in)
	} else {
		w, err = c.applyCreate(in)
	}
	if err != nil || w == nil {
		return nil, err
	}

	c.closeForm()
	if err := c.persistence.Save(c.store); err != nil {
		return w, err
	}
	return w, nil
}

func (c *Controller) applyCreate(in Input) (*models.Workout, error) {
	w, err := models.NewWorkoutAt(in.Kind, c.picked, in.DistanceKm, in.DurationMin, in.Value, c.now())
	if err != nil {
		return nil, err
	}
	c.store.Add(w)
	c.maps.AddMarker(w)
	c.list.Render(w)
	c.logger.Info("workout added", "id", w.ShortID(), "kind", w.Kind)
	return w, nil
}

func (c *Controller) applyEdit(in Input) (*models.Workout, error) {
	target, ok := c.store.FindByID(c.editingID)
	if !ok {
		c.logger.Debug("edited workout no longer exists", "id", c.editingID)
		c.closeForm()
		return nil, nil
	}
	edited, err := target.Edit(in.Kind, in.DistanceKm, in.DurationMin, in.Value)
	if err != nil {
		return nil, err
	}
	c.store.Replace(edited)
	if edited.Label() != target.Label() {
		c.maps.AddMarker(edited)
	}
	c.list.Update(edited)
	c.logger.Info("workout edited", "id", edited.ShortID(), "kind", edited.Kind)
	return edited, nil
}

// Delete removes the workout id, drops its list entry and re-saves the store.
// A missing id is a no-op and reports false.
func (c *Controller) Delete(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.RemoveByID(id) {
		c.logger.Debug("delete of unknown workout ignored", "id", id)
		return false, nil
	}
	c.list.Remove(id)
	if c.mode == ModeEditing && c.editingID == id {
		c.closeForm()
	}
	c.logger.Info("workout deleted", "id", id)
	return true, c.persistence.Save(c.store)
}

// Select recenters the map on the workout id. It reports false when id is
// empty, unknown, or the map is not initialised.
func (c *Controller) Select(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == "" || !c.mapReady {
		return false
	}
	w, ok := c.store.FindByID(id)
	if !ok {
		return false
	}
	c.maps.Recenter(w.Location, c.zoom)
	return true
}

// Cancel abandons the open form.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mode != ModeIdle {
		c.closeForm()
	}
}

// Reset clears the durable slot. The persistence layer then relaunches the
// session; this controller should not be used afterwards.
func (c *Controller) Reset() error {
	c.mu.Lock()
	c.scheduler.Cancel()
	c.mode = ModeIdle
	c.editingID = ""
	c.mu.Unlock()

	return c.persistence.Reset()
}

// Close cancels any pending form transition.
func (c *Controller) Close() {
	c.scheduler.Cancel()
}

// Workouts returns the workouts in creation order.
func (c *Controller) Workouts() []*models.Workout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.All()
}

// Find returns the workout with the given id.
func (c *Controller) Find(id string) (*models.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.FindByID(id)
}

// FindByPrefix returns the workouts whose id starts with prefix.
func (c *Controller) FindByPrefix(prefix string) []*models.Workout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.FindByPrefix(prefix)
}

// Mode returns the form state.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// MapReady reports whether the map was initialised.
func (c *Controller) MapReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mapReady
}

func (c *Controller) showForm() {
	if c.scheduler.Cancel() {
		c.form.RestoreLayout()
	}
	c.form.Show()
}

// closeForm clears and hides the form, schedules its layout restore and
// returns to Idle.
func (c *Controller) closeForm() {
	c.form.Clear()
	c.form.Hide()
	c.scheduler.Schedule(c.form.RestoreLayout)
	c.mode = ModeIdle
	c.editingID = ""
}
