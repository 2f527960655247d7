// ABOUTME: Workout kinds and their dispatch table.
// ABOUTME: Each kind maps to its derived-metric formula, icons, labels, and input check.
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Kind is the persisted tag that selects a workout variant.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ErrUnknownKind is returned when a kind tag has no entry in the dispatch table.
var ErrUnknownKind = errors.New("unknown workout kind")

// KindSpec is the capability set of a workout variant.
type KindSpec struct {
	Kind Kind
	Icon string

	// Metric computes the derived metric from distance (km) and duration (min).
	Metric     func(distanceKm, durationMin float64) float64
	MetricName string
	MetricUnit string

	// Input describes the kind-specific form field.
	InputName string
	InputIcon string
	InputUnit string

	// InputValid reports whether a kind-specific value is acceptable.
	InputValid func(v float64) bool
	// InputRule is shown to the user when InputValid fails.
	InputRule string
}

var kindSpecs = map[Kind]KindSpec{
	KindRunning: {
		Kind: KindRunning,
		Icon: "🏃",
		Metric: func(distanceKm, durationMin float64) float64 {
			return durationMin / distanceKm
		},
		MetricName: "pace",
		MetricUnit: "min/km",
		InputName:  "cadence",
		InputIcon:  "👣",
		InputUnit:  "spm",
		InputValid: func(v float64) bool { return isFinite(v) && v > 0 },
		InputRule:  "a positive number",
	},
	KindCycling: {
		Kind: KindCycling,
		Icon: "🚴",
		Metric: func(distanceKm, durationMin float64) float64 {
			return distanceKm / (durationMin / 60)
		},
		MetricName: "speed",
		MetricUnit: "km/h",
		InputName:  "elevation",
		InputIcon:  "🗻",
		InputUnit:  "m",
		InputValid: func(v float64) bool { return isFinite(v) && v >= 0 },
		InputRule:  "zero or a positive number",
	},
}

// AllKinds lists the kinds in display order.
var AllKinds = []Kind{KindRunning, KindCycling}

// SpecFor returns the dispatch entry for a kind.
func SpecFor(k Kind) (KindSpec, error) {
	spec, ok := kindSpecs[k]
	if !ok {
		return KindSpec{}, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return spec, nil
}

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, err := SpecFor(k); err != nil {
		return "", err
	}
	return k, nil
}

// Title returns the kind name with its first letter capitalised.
func (k Kind) Title() string {
	return Capitalize(string(k))
}

// Capitalize upper-cases the first letter of an ASCII label.
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Other returns the kind the form toggles to.
func (k Kind) Other() Kind {
	if k == KindRunning {
		return KindCycling
	}
	return KindRunning
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
