// ABOUTME: Tests for the persistence adapter.
// ABOUTME: Covers round trip, empty and corrupt slots, unknown kinds, and reset.
package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/harperreed/mapty/internal/models"
	"github.com/harperreed/mapty/internal/store"
)

var testLoc = models.Location{Lat: 51.5, Lng: -0.1}

func TestSaveLoadRoundTrip(t *testing.T) {
	for name, slot := range slotBackends(t) {
		t.Run(name, func(t *testing.T) {
			p := NewPersistence(slot, nil)
			original := store.New(
				models.NewRunning(testLoc, 5, 25, 178),
				models.NewCycling(models.Location{Lat: 48.85, Lng: 2.35}, 20, 60, 300),
				models.NewCycling(testLoc, 12, 45, 0),
			)

			if err := p.Save(original); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			loaded := p.Load()

			want := original.All()
			got := loaded.All()
			if len(got) != len(want) {
				t.Fatalf("loaded %d workouts, want %d", len(got), len(want))
			}
			for i := range want {
				w, g := want[i], got[i]
				if g.ID != w.ID || g.Kind != w.Kind || g.Location != w.Location {
					t.Errorf("workout %d identity mismatch: got %+v, want %+v", i, g, w)
				}
				if g.DistanceKm != w.DistanceKm || g.DurationMin != w.DurationMin || g.Input() != w.Input() {
					t.Errorf("workout %d raw fields mismatch: got %+v, want %+v", i, g, w)
				}
				if g.Metric() != w.Metric() || g.Description != w.Description {
					t.Errorf("workout %d derived fields mismatch: got %+v, want %+v", i, g, w)
				}
				if !g.CreatedAt.Equal(w.CreatedAt) {
					t.Errorf("workout %d CreatedAt = %v, want %v", i, g.CreatedAt, w.CreatedAt)
				}
			}
		})
	}
}

func TestLoadEmptySlot(t *testing.T) {
	p := NewPersistence(NewMemorySlot(), nil)
	if got := p.Load().Len(); got != 0 {
		t.Errorf("Load on empty slot returned %d workouts", got)
	}
}

func TestLoadCorruptSlot(t *testing.T) {
	slot := NewMemorySlot()
	_ = slot.Set(SlotKey, []byte("{not json"))

	p := NewPersistence(slot, nil)
	if got := p.Load().Len(); got != 0 {
		t.Errorf("Load on corrupt slot returned %d workouts", got)
	}
}

func TestLoadSkipsUnknownKind(t *testing.T) {
	slot := NewMemorySlot()
	payload := `[
		{"id":"a1","type":"running","date":"2024-03-07T09:30:00Z","coords":[51.5,-0.1],"distance":5,"duration":25,"cadence":178,"pace":5,"description":"Running on March 7"},
		{"id":"b2","type":"swimming","date":"2024-03-08T09:30:00Z","coords":[51.5,-0.1],"distance":1,"duration":30,"description":"Swimming on March 8"}
	]`
	_ = slot.Set(SlotKey, []byte(payload))

	loaded := NewPersistence(slot, nil).Load()
	if loaded.Len() != 1 {
		t.Fatalf("Load returned %d workouts, want 1", loaded.Len())
	}
	w, ok := loaded.FindByID("a1")
	if !ok {
		t.Fatal("expected running workout a1 to be restored")
	}
	if w.Pace != 5 || w.Description != "Running on March 7" {
		t.Errorf("restored workout mismatch: %+v", w)
	}
}

type failingSlot struct{ MemorySlot }

func (f *failingSlot) Get(string) ([]byte, error) { return nil, errors.New("disk on fire") }

func TestLoadUnreadableSlot(t *testing.T) {
	p := NewPersistence(&failingSlot{}, nil)
	if got := p.Load().Len(); got != 0 {
		t.Errorf("Load on failing slot returned %d workouts", got)
	}
}

func TestSaveEmptyStoreWritesEmptyList(t *testing.T) {
	slot := NewMemorySlot()
	if err := NewPersistence(slot, nil).Save(store.New()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, _ := slot.Get(SlotKey)
	if string(got) != "[]" {
		t.Errorf("slot = %q, want []", got)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	slot := NewMemorySlot()
	p := NewPersistence(slot, nil)
	restarts := 0
	p.OnReset(func() { restarts++ })

	_ = p.Save(store.New(models.NewRunning(testLoc, 5, 25, 178)))

	if err := p.Reset(); err != nil {
		t.Fatalf("first Reset failed: %v", err)
	}
	afterOne := p.Load().Len()

	if err := p.Reset(); err != nil {
		t.Fatalf("second Reset failed: %v", err)
	}
	afterTwo := p.Load().Len()

	if afterOne != 0 || afterTwo != 0 {
		t.Errorf("after reset: %d then %d workouts, want 0 and 0", afterOne, afterTwo)
	}
	if _, err := slot.Get(SlotKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("slot should be cleared, got %v", err)
	}
	if restarts != 2 {
		t.Errorf("restart called %d times, want 2", restarts)
	}
}

func TestMigrateData(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestBadger(t)

	s := store.New(
		models.NewRunning(testLoc, 5, 25, 178),
		models.NewCycling(testLoc, 20, 60, 300),
	)
	if err := NewPersistence(src, nil).Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	summary, err := MigrateData(src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Workouts != 2 {
		t.Errorf("migrated %d workouts, want 2", summary.Workouts)
	}

	loaded := NewPersistence(dst, nil).Load()
	if loaded.Len() != 2 {
		t.Errorf("destination holds %d workouts, want 2", loaded.Len())
	}
}

func TestMigrateDataEmptySource(t *testing.T) {
	summary, err := MigrateData(NewMemorySlot(), NewMemorySlot())
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Workouts != 0 {
		t.Errorf("migrated %d workouts, want 0", summary.Workouts)
	}
}

func TestMigrateDataRejectsCorruptSource(t *testing.T) {
	src := NewMemorySlot()
	_ = src.Set(SlotKey, []byte("garbage"))
	dst := NewMemorySlot()

	if _, err := MigrateData(src, dst); err == nil {
		t.Fatal("expected error for corrupt source")
	}
	if _, err := dst.Get(SlotKey); !errors.Is(err, ErrNotFound) {
		t.Error("destination should be untouched")
	}
}

func TestDecodeWorkoutsTimestamps(t *testing.T) {
	payload := `[{"id":"c3","type":"cycling","date":"2024-07-04T18:00:00Z","coords":[40.7,-74],"distance":30,"duration":90,"elevationGain":120,"speed":20,"description":"Cycling on July 4"}]`
	ws, err := DecodeWorkouts([]byte(payload), nil)
	if err != nil {
		t.Fatalf("DecodeWorkouts failed: %v", err)
	}
	if len(ws) != 1 {
		t.Fatalf("got %d workouts", len(ws))
	}
	want := time.Date(2024, time.July, 4, 18, 0, 0, 0, time.UTC)
	if !ws[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", ws[0].CreatedAt, want)
	}
	if ws[0].ElevationGain != 120 || ws[0].Speed != 20 {
		t.Errorf("cycling fields mismatch: %+v", ws[0])
	}
}
