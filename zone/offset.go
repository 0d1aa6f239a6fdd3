// Package zone implements the zone-rule primitives: ZoneOffset,
// ZoneOffsetTransition and ZoneOffsetTransitionRule, StandardZoneRules
// (the in-memory per-version zone representation), OffsetInfo, and the
// pluggable zone resolvers. The ZoneOffset shape follows the reference
// fixed-offset type in the wider corpus (total-seconds-based, validated
// against +-18:00), rebuilt against this module's own error taxonomy.
package zone

import (
	"fmt"

	"github.com/dimensia/tzcore/tzerr"
)

const (
	minTotalSeconds = -18 * 3600
	maxTotalSeconds = 18 * 3600
)

// ZoneOffset is a fixed offset from UTC, in [-18:00, +18:00].
type ZoneOffset struct {
	totalSeconds int32
}

// UTC is the zero offset.
var UTC = ZoneOffset{totalSeconds: 0}

// OfTotalSeconds builds a ZoneOffset from a total-seconds value.
func OfTotalSeconds(totalSeconds int32) (ZoneOffset, error) {
	if totalSeconds < minTotalSeconds || totalSeconds > maxTotalSeconds {
		return ZoneOffset{}, fmt.Errorf("%w: zone offset %d outside +-18:00", tzerr.ErrInvalidField, totalSeconds)
	}
	return ZoneOffset{totalSeconds: totalSeconds}, nil
}

// Of builds a ZoneOffset from hours, minutes and seconds, which must all
// share the same sign (or be zero).
func Of(hours, minutes, seconds int) (ZoneOffset, error) {
	signs := 0
	for _, v := range []int{hours, minutes, seconds} {
		switch {
		case v > 0:
			signs |= 1
		case v < 0:
			signs |= 2
		}
	}
	if signs == 3 {
		return ZoneOffset{}, fmt.Errorf("%w: zone offset fields must share a sign", tzerr.ErrInvalidField)
	}
	total := hours*3600 + minutes*60 + seconds
	return OfTotalSeconds(int32(total))
}

// TotalSeconds returns the offset's total seconds from UTC.
func (o ZoneOffset) TotalSeconds() int32 { return o.totalSeconds }

// IsZero reports whether o is UTC.
func (o ZoneOffset) IsZero() bool { return o.totalSeconds == 0 }

// Compare orders offsets by total seconds.
func (o ZoneOffset) Compare(other ZoneOffset) int {
	switch {
	case o.totalSeconds < other.totalSeconds:
		return -1
	case o.totalSeconds > other.totalSeconds:
		return 1
	default:
		return 0
	}
}

// String renders the canonical +-HH:MM or +-HH:MM:SS form ("Z" for UTC).
func (o ZoneOffset) String() string {
	if o.totalSeconds == 0 {
		return "Z"
	}
	sign := "+"
	total := o.totalSeconds
	if total < 0 {
		sign = "-"
		total = -total
	}
	h := total / 3600
	m := (total / 60) % 60
	s := total % 60
	if s == 0 {
		return fmt.Sprintf("%s%02d:%02d", sign, h, m)
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}
