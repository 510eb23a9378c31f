package battery

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidThreshold is returned for thresholds that are neither N% nor Nm.
var ErrInvalidThreshold = errors.New("threshold must be either a percentage (N%) or minutes (Nm)")

// ThresholdKind tells what a Threshold is compared against.
type ThresholdKind int

const (
	Percentage ThresholdKind = iota // state of charge, 0-100
	Minutes                         // estimated time to empty
)

// Threshold is a configured low or critical battery level.
type Threshold struct {
	Kind  ThresholdKind
	Value int
}

func (t Threshold) String() string {
	if t.Kind == Minutes {
		return strconv.Itoa(t.Value) + "m"
	}
	return strconv.Itoa(t.Value) + "%"
}

// ParseThreshold parses "15%" or "10m".
func ParseThreshold(s string) (Threshold, error) {
	if s == "" {
		return Threshold{}, fmt.Errorf("%w: empty value", ErrInvalidThreshold)
	}

	num, unit := s[:len(s)-1], s[len(s)-1]
	var kind ThresholdKind
	switch unit {
	case '%':
		kind = Percentage
	case 'm':
		kind = Minutes
	default:
		return Threshold{}, fmt.Errorf("%w: %q", ErrInvalidThreshold, s)
	}

	v, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return Threshold{}, fmt.Errorf("%w: %q", ErrInvalidThreshold, s)
	}
	if v < 0 || (kind == Percentage && v > 100) {
		return Threshold{}, fmt.Errorf("%w: %q is out of range", ErrInvalidThreshold, s)
	}
	return Threshold{Kind: kind, Value: v}, nil
}

// reached reports whether a discharging battery is at or below t.
// An unknown time to empty never reaches a Minutes threshold.
func (t Threshold) reached(r Reading) bool {
	if t.Kind == Percentage {
		return int(r.Percentage) <= t.Value
	}
	if r.TimeToEmpty <= 0 && r.State != StateEmpty {
		return false
	}
	return int(r.TimeToEmpty.Minutes()) <= t.Value
}
