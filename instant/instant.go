// Package instant implements Instant and Duration, the two-field
// (seconds, nanos) time values that sit beneath the UTC/TAI and zone
// layers. Every constructor normalises its inputs via floor-div/mod so
// that a nano adjustment of any sign and magnitude always settles into
// the canonical [0, 1e9) range, the same way brandondube's TAI
// constructor folds an attosecond adjustment back onto its seconds
// field.
package instant

import (
	"fmt"

	"github.com/dimensia/tzcore/internal/safemath"
	"github.com/dimensia/tzcore/tzerr"
)

const nanosPerSecond = 1_000_000_000

// Instant is a point on the nominal UTC-like time-line: epoch_seconds
// counts seconds from 1970-01-01T00:00:00Z, nano_of_second is always in
// [0, 1e9).
type Instant struct {
	epochSeconds int64
	nanoOfSecond uint32
}

// OfEpochSeconds builds an Instant from a second count plus an arbitrary
// (possibly negative, possibly out-of-range) nano adjustment, rebalancing
// via floor-div/mod so the result is always canonical.
func OfEpochSeconds(sec int64, nanoAdjustment int64) (Instant, error) {
	days, nanos := safemath.FloorDiv(nanoAdjustment, nanosPerSecond), safemath.FloorMod(nanoAdjustment, nanosPerSecond)
	total, err := safemath.AddInt64(sec, days)
	if err != nil {
		return Instant{}, err
	}
	return Instant{epochSeconds: total, nanoOfSecond: uint32(nanos)}, nil
}

// OfEpochMillis builds an Instant from a millisecond count.
func OfEpochMillis(millis int64) (Instant, error) {
	sec := safemath.FloorDiv(millis, 1000)
	millisOfSecond := safemath.FloorMod(millis, 1000)
	return OfEpochSeconds(sec, millisOfSecond*1_000_000)
}

// EpochSeconds returns the whole-seconds component.
func (i Instant) EpochSeconds() int64 { return i.epochSeconds }

// NanoOfSecond returns the nanosecond-of-second component, always in [0, 1e9).
func (i Instant) NanoOfSecond() uint32 { return i.nanoOfSecond }

// Compare orders two instants by (epoch_seconds, nano_of_second).
func (i Instant) Compare(o Instant) int {
	if c := safemath.Compare(i.epochSeconds, o.epochSeconds); c != 0 {
		return c
	}
	switch {
	case i.nanoOfSecond < o.nanoOfSecond:
		return -1
	case i.nanoOfSecond > o.nanoOfSecond:
		return 1
	default:
		return 0
	}
}

// Before reports whether i occurs strictly before o.
func (i Instant) Before(o Instant) bool { return i.Compare(o) < 0 }

// After reports whether i occurs strictly after o.
func (i Instant) After(o Instant) bool { return i.Compare(o) > 0 }

// Plus returns i+d.
func (i Instant) Plus(d Duration) (Instant, error) {
	sec, err := safemath.AddInt64(i.epochSeconds, d.seconds)
	if err != nil {
		return Instant{}, err
	}
	return OfEpochSeconds(sec, int64(i.nanoOfSecond)+int64(d.nanos))
}

// Minus returns i-d.
func (i Instant) Minus(d Duration) (Instant, error) {
	neg, err := d.Negated()
	if err != nil {
		return Instant{}, err
	}
	return i.Plus(neg)
}

// PlusSeconds returns i with secs added.
func (i Instant) PlusSeconds(secs int64) (Instant, error) {
	sec, err := safemath.AddInt64(i.epochSeconds, secs)
	if err != nil {
		return Instant{}, err
	}
	return Instant{epochSeconds: sec, nanoOfSecond: i.nanoOfSecond}, nil
}

// PlusMillis returns i with millis added.
func (i Instant) PlusMillis(millis int64) (Instant, error) {
	return i.plusSub(millis, 1_000_000)
}

// PlusNanos returns i with nanos added.
func (i Instant) PlusNanos(nanos int64) (Instant, error) {
	return i.plusSub(nanos, 1)
}

func (i Instant) plusSub(amount, nanosPerUnit int64) (Instant, error) {
	extraNanos, err := safemath.MulInt64(amount, nanosPerUnit)
	if err != nil {
		return Instant{}, err
	}
	return OfEpochSeconds(i.epochSeconds, int64(i.nanoOfSecond)+extraNanos)
}

// ToEpochMillisLong converts i to a millisecond epoch count, failing if
// the value does not fit in an int64 millisecond range.
func (i Instant) ToEpochMillisLong() (int64, error) {
	millisFromSeconds, err := safemath.MulInt64(i.epochSeconds, 1000)
	if err != nil {
		return 0, fmt.Errorf("%w: instant exceeds millisecond range", tzerr.ErrOverflow)
	}
	return safemath.AddInt64(millisFromSeconds, int64(i.nanoOfSecond)/1_000_000)
}

// Unit identifies a Duration conversion factor.
type Unit int

const (
	Nanoseconds Unit = iota
	Microseconds
	Milliseconds
	Seconds
	Minutes
	Hours
	Days
)

// nanosPerUnit mirrors the constant table a continuous-time type typically
// keeps for Add*/Of(amount, unit) conversions.
var nanosPerUnit = map[Unit]int64{
	Nanoseconds:  1,
	Microseconds: 1_000,
	Milliseconds: 1_000_000,
	Seconds:      nanosPerSecond,
	Minutes:      60 * nanosPerSecond,
	Hours:        3600 * nanosPerSecond,
	Days:         86400 * nanosPerSecond,
}

// Duration is a signed span of time, sign borne entirely by Seconds; Nanos
// is always non-negative and in [0, 1e9).
type Duration struct {
	seconds int64
	nanos   uint32
}

// OfSeconds builds a Duration from a second count plus an arbitrary nano
// adjustment, normalising the same way Instant's constructor does.
func OfSeconds(sec int64, nanoAdjustment int64) (Duration, error) {
	extraSec, nanos := safemath.FloorDiv(nanoAdjustment, nanosPerSecond), safemath.FloorMod(nanoAdjustment, nanosPerSecond)
	total, err := safemath.AddInt64(sec, extraSec)
	if err != nil {
		return Duration{}, err
	}
	return Duration{seconds: total, nanos: uint32(nanos)}, nil
}

// OfMillis builds a Duration from a millisecond count.
func OfMillis(millis int64) (Duration, error) {
	sec := safemath.FloorDiv(millis, 1000)
	millisOfSecond := safemath.FloorMod(millis, 1000)
	return OfSeconds(sec, millisOfSecond*1_000_000)
}

// OfNanos builds a Duration from a nanosecond count.
func OfNanos(nanos int64) (Duration, error) {
	sec := safemath.FloorDiv(nanos, nanosPerSecond)
	nanoOfSecond := safemath.FloorMod(nanos, nanosPerSecond)
	return OfSeconds(sec, nanoOfSecond)
}

// Of builds a Duration of amount units, applying the unit's conversion
// factor via checked multiplication.
func Of(amount int64, unit Unit) (Duration, error) {
	factor, ok := nanosPerUnit[unit]
	if !ok {
		return Duration{}, fmt.Errorf("%w: unknown duration unit %d", tzerr.ErrInvalidField, unit)
	}
	if unit == Seconds {
		return OfSeconds(amount, 0)
	}
	totalNanos, err := safemath.MulInt64(amount, factor)
	if err != nil {
		return Duration{}, err
	}
	return OfNanos(totalNanos)
}

// Seconds returns the signed whole-seconds component.
func (d Duration) Seconds() int64 { return d.seconds }

// Nanos returns the nanosecond-of-second component, always in [0, 1e9).
func (d Duration) Nanos() uint32 { return d.nanos }

// IsZero reports whether d is the zero duration.
func (d Duration) IsZero() bool { return d.seconds == 0 && d.nanos == 0 }

// IsNegative reports whether d is negative.
func (d Duration) IsNegative() bool { return d.seconds < 0 }

// Negated returns -d.
func (d Duration) Negated() (Duration, error) {
	sec, err := safemath.NegateInt64(d.seconds)
	if err != nil {
		return Duration{}, err
	}
	return OfSeconds(sec, -int64(d.nanos))
}

// Plus returns d+o.
func (d Duration) Plus(o Duration) (Duration, error) {
	sec, err := safemath.AddInt64(d.seconds, o.seconds)
	if err != nil {
		return Duration{}, err
	}
	return OfSeconds(sec, int64(d.nanos)+int64(o.nanos))
}

// Minus returns d-o.
func (d Duration) Minus(o Duration) (Duration, error) {
	neg, err := o.Negated()
	if err != nil {
		return Duration{}, err
	}
	return d.Plus(neg)
}

// MultipliedBy returns d*scalar.
func (d Duration) MultipliedBy(scalar int64) (Duration, error) {
	totalNanos, err := d.toNanos()
	if err != nil {
		return Duration{}, err
	}
	product, err := safemath.MulInt64(totalNanos, scalar)
	if err != nil {
		return Duration{}, err
	}
	return OfNanos(product)
}

// DividedBy returns d/scalar, truncating toward zero. Fails if scalar is
// zero.
func (d Duration) DividedBy(scalar int64) (Duration, error) {
	if scalar == 0 {
		return Duration{}, fmt.Errorf("%w: division by zero duration scalar", tzerr.ErrInvalidField)
	}
	totalNanos, err := d.toNanos()
	if err != nil {
		return Duration{}, err
	}
	return OfNanos(totalNanos / scalar)
}

// toNanos converts d to a total nanosecond count, failing on overflow.
func (d Duration) toNanos() (int64, error) {
	fromSeconds, err := safemath.MulInt64(d.seconds, nanosPerSecond)
	if err != nil {
		return 0, err
	}
	return safemath.AddInt64(fromSeconds, int64(d.nanos))
}

// Compare orders two durations by (seconds, nanos).
func (d Duration) Compare(o Duration) int {
	if c := safemath.Compare(d.seconds, o.seconds); c != 0 {
		return c
	}
	switch {
	case d.nanos < o.nanos:
		return -1
	case d.nanos > o.nanos:
		return 1
	default:
		return 0
	}
}
