// ABOUTME: Test doubles for the session collaborators.
// ABOUTME: Each fake records the calls it receives so tests can assert on rendering.
package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/storage"
	"github.com/stretchr/testify/require"
)

var london = models.Location{Lat: 51.5, Lng: -0.1}

type fakeForm struct {
	mu       sync.Mutex
	values   FormValues
	visible  bool
	restored int
	shown    int
	hidden   int
	cleared  int
	toggled  int
	filled   []FormValues
}

func (f *fakeForm) Show()          { f.mu.Lock(); f.visible = true; f.shown++; f.mu.Unlock() }
func (f *fakeForm) Hide()          { f.mu.Lock(); f.visible = false; f.hidden++; f.mu.Unlock() }
func (f *fakeForm) RestoreLayout() { f.mu.Lock(); f.restored++; f.mu.Unlock() }
func (f *fakeForm) ToggleKindFields() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggled++
	f.values.Kind = string(models.Kind(f.values.Kind).Other())
}

func (f *fakeForm) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.values = FormValues{Kind: f.values.Kind}
}

func (f *fakeForm) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *fakeForm) Fill(v FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
	f.filled = append(f.filled, v)
}

func (f *fakeForm) set(v FormValues) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = v
}

type fakeMap struct {
	center    *models.Location
	zoom      int
	markers   []*models.Workout
	recenters []models.Location
}

func (m *fakeMap) Init(center models.Location, zoom int) { m.center, m.zoom = &center, zoom }
func (m *fakeMap) AddMarker(w *models.Workout)          { m.markers = append(m.markers, w) }
func (m *fakeMap) Recenter(loc models.Location, zoom int) {
	m.recenters = append(m.recenters, loc)
	m.zoom = zoom
}

type fakeList struct {
	rendered []*models.Workout
	updated  []*models.Workout
	removed  []string
}

func (l *fakeList) Render(w *models.Workout) { l.rendered = append(l.rendered, w) }
func (l *fakeList) Update(w *models.Workout) { l.updated = append(l.updated, w) }
func (l *fakeList) Remove(id string)         { l.removed = append(l.removed, id) }

type fakeNotifier struct {
	alerts []string
}

func (n *fakeNotifier) Alert(msg string) { n.alerts = append(n.alerts, msg) }

type fakeLocator struct {
	loc   models.Location
	err   error
	calls int
}

func (l *fakeLocator) Locate(context.Context) (models.Location, error) {
	l.calls++
	return l.loc, l.err
}

// manualScheduler holds the pending callback until fire is called.
type manualScheduler struct {
	pending   func()
	scheduled int
}

func (s *manualScheduler) Schedule(fn func()) { s.pending = fn; s.scheduled++ }

func (s *manualScheduler) Cancel() bool {
	had := s.pending != nil
	s.pending = nil
	return had
}

func (s *manualScheduler) fire() {
	if fn := s.pending; fn != nil {
		s.pending = nil
		fn()
	}
}

type harness struct {
	ctrl      *Controller
	form      *fakeForm
	maps      *fakeMap
	list      *fakeList
	notifier  *fakeNotifier
	locator   *fakeLocator
	scheduler *manualScheduler
	slot      *storage.MemorySlot
	persist   *storage.Persistence
	now       time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithSlot(t, storage.NewMemorySlot())
}

func newHarnessWithSlot(t *testing.T, slot *storage.MemorySlot) *harness {
	t.Helper()
	logger := log.NewWithOptions(testWriter{t}, log.Options{Level: log.DebugLevel})
	h := &harness{
		form:      &fakeForm{values: FormValues{Kind: "running"}},
		maps:      &fakeMap{},
		list:      &fakeList{},
		notifier:  &fakeNotifier{},
		locator:   &fakeLocator{loc: london},
		scheduler: &manualScheduler{},
		slot:      slot,
		now:       time.Date(2024, time.April, 14, 7, 30, 0, 0, time.UTC),
	}
	h.persist = storage.NewPersistence(slot, logger)
	h.ctrl = New(Deps{
		Form:        h.form,
		Map:         h.maps,
		List:        h.list,
		Notifier:    h.notifier,
		Locator:     h.locator,
		Persistence: h.persist,
		Scheduler:   h.scheduler,
		Logger:      logger,
		Now:         func() time.Time { return h.now },
	})
	return h
}

// started returns a harness whose session has a ready map.
func started(t *testing.T) *harness {
	t.Helper()
	h := newHarness(t)
	require.NoError(t, h.ctrl.Start(context.Background()))
	return h
}

// add composes and submits one workout at loc.
func (h *harness) add(t *testing.T, loc models.Location, v FormValues) *models.Workout {
	t.Helper()
	require.NoError(t, h.ctrl.PickLocation(loc))
	h.form.set(v)
	w, err := h.ctrl.Submit()
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
