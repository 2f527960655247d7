// ABOUTME: Data migration between durable slot backends.
// ABOUTME: Copies the workouts slot from a source backend to a destination backend.
package storage

import (
	"errors"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Workouts int
	Bytes    int
}

// MigrateData copies the workouts slot from src to dst, overwriting dst.
// The payload is decoded first so a corrupt source is never copied.
func MigrateData(src, dst Slot) (*MigrateSummary, error) {
	data, err := src.Get(SlotKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &MigrateSummary{}, nil
		}
		return nil, fmt.Errorf("read source: %w", err)
	}

	workouts, err := DecodeWorkouts(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decode source: %w", err)
	}

	if err := dst.Set(SlotKey, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{Workouts: len(workouts), Bytes: len(data)}, nil
}
