// ABOUTME: Application assembly: config, logger, durable slot, persistence, renderers and session.
// ABOUTME: Relaunch rebuilds the session from the slot, which is what a persistence reset triggers.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mapty/internal/config"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/session"
	"github.com/harperreed/mapty/internal/storage"
	"github.com/harperreed/mapty/internal/terminal"
)

var (
	// ErrWorkoutNotFound is returned when an id or id prefix matches nothing.
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrAmbiguousID is returned when an id prefix matches several workouts.
	ErrAmbiguousID = errors.New("ambiguous workout id")
)

// Options configures a new App. Only Config is required.
type Options struct {
	Config *config.Config
	Logger *log.Logger
	// Slot overrides the configured backend.
	Slot storage.Slot
	// Locator overrides the configured home position.
	Locator session.Locator
	// AlertOut receives user alerts. Defaults to os.Stderr.
	AlertOut  io.Writer
	Scheduler session.Scheduler
}

// App owns one running session and the resources behind it.
type App struct {
	cfg         *config.Config
	logger      *log.Logger
	slot        storage.Slot
	persistence *storage.Persistence
	locator     session.Locator
	alertOut    io.Writer
	scheduler   session.Scheduler

	// actionMu serialises whole actions, such as pick, fill and submit.
	actionMu sync.Mutex

	mu         sync.Mutex
	ctx        context.Context
	ctrl       *session.Controller
	form       *terminal.Form
	maps       *terminal.Map
	list       *terminal.List
	notifier   *terminal.Notifier
	locateErr  error
	relaunches int
}

// New opens the durable slot and wires persistence. Call Start to load the session.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("app: config is required")
	}
	a := &App{
		cfg:       opts.Config,
		logger:    opts.Logger,
		slot:      opts.Slot,
		locator:   opts.Locator,
		alertOut:  opts.AlertOut,
		scheduler: opts.Scheduler,
		ctx:       context.Background(),
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	if a.alertOut == nil {
		a.alertOut = os.Stderr
	}
	if a.locator == nil {
		a.locator = terminal.StaticLocator{Home: a.cfg.Home}
	}
	if a.slot == nil {
		slot, err := a.cfg.OpenSlot()
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", a.cfg.GetBackend(), err)
		}
		a.slot = slot
	}

	a.persistence = storage.NewPersistence(a.slot, a.logger)
	a.persistence.OnReset(a.relaunch)
	return a, nil
}

// Start builds a fresh session and loads it from the slot. A missing
// position is not fatal: the list works, map operations report ErrMapNotReady.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ctx = ctx
	return a.launchLocked()
}

func (a *App) launchLocked() error {
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	a.form = terminal.NewForm()
	a.maps = terminal.NewMap()
	a.list = terminal.NewList()
	a.notifier = terminal.NewNotifier(a.alertOut)
	a.ctrl = session.New(session.Deps{
		Form:        a.form,
		Map:         a.maps,
		List:        a.list,
		Notifier:    a.notifier,
		Locator:     a.locator,
		Persistence: a.persistence,
		Scheduler:   a.scheduler,
		Logger:      a.logger,
		ZoomLevel:   a.cfg.GetZoomLevel(),
	})

	a.locateErr = a.ctrl.Start(a.ctx)
	if a.locateErr != nil {
		if !errors.Is(a.locateErr, session.ErrGeolocationUnavailable) {
			return a.locateErr
		}
		a.logger.Debug("session started without map", "err", a.locateErr)
	}
	return nil
}

// relaunch rebuilds the session from the slot.
func (a *App) relaunch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.relaunches++
	if err := a.launchLocked(); err != nil {
		a.logger.Error("relaunch failed", "err", err)
	}
}

// Session returns the current session controller.
func (a *App) Session() *session.Controller {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl
}

// Form returns the current session's form.
func (a *App) Form() *terminal.Form {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.form
}

// Map returns the current session's map.
func (a *App) Map() *terminal.Map {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maps
}

// List returns the current session's list.
func (a *App) List() *terminal.List {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list
}

// Notifier returns the current session's notifier.
func (a *App) Notifier() *terminal.Notifier {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.notifier
}

// LocateErr returns the geolocation failure of the current session, if any.
func (a *App) LocateErr() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locateErr
}

// Relaunches counts how many times the session was rebuilt after a reset.
func (a *App) Relaunches() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.relaunches
}

// Slot returns the durable slot.
func (a *App) Slot() storage.Slot {
	return a.slot
}

// Close stops the session and closes the slot.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ctrl != nil {
		a.ctrl.Close()
	}
	return a.slot.Close()
}

// Resolve finds a workout by full id or unique id prefix.
func (a *App) Resolve(idOrPrefix string) (*models.Workout, error) {
	ctrl := a.Session()
	if w, ok := ctrl.Find(idOrPrefix); ok {
		return w, nil
	}
	matches := ctrl.FindByPrefix(idOrPrefix)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrWorkoutNotFound, idOrPrefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s matches %d workouts", ErrAmbiguousID, idOrPrefix, len(matches))
	}
}
