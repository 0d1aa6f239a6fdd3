// Package utctime implements the leap-second-aware UTC representation
// (UTCInstant), the continuous TAI representation (TAIInstant), and the
// LeapSecondTable that bridges them. The conversion arithmetic mirrors
// brandondube's TAI type (two-field seconds+sub-second representation,
// a sorted leap table, linear-to-binary-search lookup), generalised to
// carry MJD/nano-of-day on the UTC side instead of a bare Unix second
// count so that the 86,401st second of a positive leap day has
// somewhere to live.
package utctime

import (
	"fmt"

	"github.com/dimensia/tzcore/instant"
	"github.com/dimensia/tzcore/internal/safemath"
	"github.com/dimensia/tzcore/tzerr"
)

const (
	nanosPerSecond = 1_000_000_000
	secondsPerDay  = 86400

	// mjdUnixEpoch is the Modified Julian Day of 1970-01-01, the Instant epoch.
	mjdUnixEpoch = 40587
	// mjdTAIEpoch is the Modified Julian Day of 1958-01-01, the TAI epoch.
	mjdTAIEpoch = 36204
	// baselineTAIMinusUTC is the TAI-UTC skew assumed for any date strictly
	// before the table's first entry (10s, the value fixed at the 1972
	// introduction of leap seconds).
	baselineTAIMinusUTC int64 = 10
)

// UTCInstant is (mjd, nano_of_day); nano_of_day is normally in
// [0, 86400e9) but may reach into the day's 86,401st second
// (nano_of_day in [86400e9, 86401e9)) during a positive leap.
type UTCInstant struct {
	mjd      int64
	nanoOfDay int64
}

// NewUTCInstant builds a UTCInstant from raw fields without validation
// against any leap table; callers that need validation should route
// through a LeapSecondTable's conversions instead.
func NewUTCInstant(mjd, nanoOfDay int64) UTCInstant {
	return UTCInstant{mjd: mjd, nanoOfDay: nanoOfDay}
}

// MJD returns the Modified Julian Day.
func (u UTCInstant) MJD() int64 { return u.mjd }

// NanoOfDay returns the nanosecond-of-day, which may exceed 86400e9
// during a positive leap second.
func (u UTCInstant) NanoOfDay() int64 { return u.nanoOfDay }

// ToInstant folds a UTCInstant onto the continuous nominal time-line,
// smoothing any leap-second excess forward into the start of the next
// day, so e.g. 1972-06-30's 86,401st second normalises to
// 1972-07-01T00:00:00Z.
func (u UTCInstant) ToInstant() (instant.Instant, error) {
	dayCarry := safemath.FloorDiv(u.nanoOfDay, secondsPerDay*nanosPerSecond)
	nanoOfDay := safemath.FloorMod(u.nanoOfDay, secondsPerDay*nanosPerSecond)
	mjd, err := safemath.AddInt64(u.mjd, dayCarry)
	if err != nil {
		return instant.Instant{}, err
	}
	daysSinceUnixEpoch, err := safemath.SubInt64(mjd, mjdUnixEpoch)
	if err != nil {
		return instant.Instant{}, err
	}
	epochSeconds, err := safemath.MulInt64(daysSinceUnixEpoch, secondsPerDay)
	if err != nil {
		return instant.Instant{}, err
	}
	secOfDay := nanoOfDay / nanosPerSecond
	epochSeconds, err = safemath.AddInt64(epochSeconds, secOfDay)
	if err != nil {
		return instant.Instant{}, err
	}
	return instant.OfEpochSeconds(epochSeconds, nanoOfDay%nanosPerSecond)
}

// UTCInstantFromInstant builds a leap-free UTCInstant from a nominal
// Instant. This is only valid for instants that do not fall inside a
// leap slot, which Instant cannot represent by construction, so the
// conversion is always exact and never errors.
func UTCInstantFromInstant(i instant.Instant) UTCInstant {
	daysSinceUnixEpoch := safemath.FloorDiv(i.EpochSeconds(), secondsPerDay)
	secOfDay := safemath.FloorMod(i.EpochSeconds(), secondsPerDay)
	mjd := daysSinceUnixEpoch + mjdUnixEpoch
	nod := secOfDay*nanosPerSecond + int64(i.NanoOfSecond())
	return UTCInstant{mjd: mjd, nanoOfDay: nod}
}

// TAIInstant is a continuous count of seconds since 1958-01-01T00:00:00
// TAI, plus a non-negative nanosecond-of-second; it never stops or
// repeats for leap seconds.
type TAIInstant struct {
	taiSeconds int64
	nanos      uint32
}

// NewTAIInstant builds a TAIInstant from raw fields.
func NewTAIInstant(taiSeconds int64, nanos uint32) TAIInstant {
	return TAIInstant{taiSeconds: taiSeconds, nanos: nanos}
}

// TAISeconds returns the whole-seconds count since the TAI epoch.
func (t TAIInstant) TAISeconds() int64 { return t.taiSeconds }

// Nanos returns the nanosecond-of-second component.
func (t TAIInstant) Nanos() uint32 { return t.nanos }

// LeapSecondTable holds the three parallel arrays described by the
// calendrical model: dates (MJD the leap occurs at end-of-day),
// offsets (TAI-UTC cumulative skew after that day; equivalently
// brandondube's "CumulativeSkew"), and the derived taiSeconds at which
// each new offset takes effect. All three slices are treated as
// immutable once a table is constructed; replacing one is always a
// whole-table swap.
type LeapSecondTable struct {
	dates      []int64
	offsets    []int64
	taiSeconds []int64
}

// NewLeapSecondTable validates and builds a LeapSecondTable from sorted
// (date, cumulative TAI-UTC offset) pairs. dates must be strictly
// increasing; each offset must differ from its predecessor (or the 10s
// baseline, for the first entry) by -1, 0 or +1.
func NewLeapSecondTable(dates []int64, offsets []int64) (*LeapSecondTable, error) {
	if len(dates) != len(offsets) {
		return nil, fmt.Errorf("%w: dates and offsets length mismatch", tzerr.ErrInvalidField)
	}
	prev := baselineTAIMinusUTC
	taiSeconds := make([]int64, len(dates))
	for i := range dates {
		if i > 0 && dates[i] <= dates[i-1] {
			return nil, fmt.Errorf("%w: leap dates must be strictly increasing", tzerr.ErrInvalidDate)
		}
		delta := offsets[i] - prev
		if delta != 0 && delta != 1 && delta != -1 {
			return nil, fmt.Errorf("%w: leap offset delta %d out of {-1,0,1}", tzerr.ErrInvalidField, delta)
		}
		daysSinceTAIEpoch, err := safemath.SubInt64(dates[i]+1, mjdTAIEpoch)
		if err != nil {
			return nil, err
		}
		tai, err := safemath.MulInt64(daysSinceTAIEpoch, secondsPerDay)
		if err != nil {
			return nil, err
		}
		tai, err = safemath.AddInt64(tai, offsets[i])
		if err != nil {
			return nil, err
		}
		taiSeconds[i] = tai
		prev = offsets[i]
	}
	return &LeapSecondTable{dates: dates, offsets: offsets, taiSeconds: taiSeconds}, nil
}

// Dates returns the table's leap dates (MJD), in ascending order.
func (t *LeapSecondTable) Dates() []int64 { return t.dates }

// searchBefore returns the index of the last entry whose key is <= x,
// or -1 if x precedes every entry.
func searchBefore(keys []int64, x int64) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if keys[mid] <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}

// offsetForTAISeconds returns the TAI-UTC skew in effect at the given
// TAI second.
func (t *LeapSecondTable) offsetForTAISeconds(taiSec int64) int64 {
	idx := searchBefore(t.taiSeconds, taiSec)
	if idx < 0 {
		return baselineTAIMinusUTC
	}
	return t.offsets[idx]
}

// ToUTC converts a TAIInstant to a UTCInstant under this table,
// restoring the 86,401st-second representation for a TAI second that
// falls inside a positive leap.
func (t *LeapSecondTable) ToUTC(tai TAIInstant) (UTCInstant, error) {
	offset := t.offsetForTAISeconds(tai.taiSeconds)
	adjusted, err := safemath.SubInt64(tai.taiSeconds, offset)
	if err != nil {
		return UTCInstant{}, err
	}
	mjd := safemath.FloorDiv(adjusted, secondsPerDay) + mjdTAIEpoch
	secOfDay := safemath.FloorMod(adjusted, secondsPerDay)
	nod := secOfDay*nanosPerSecond + int64(tai.nanos)

	if secOfDay == 0 {
		if idx := searchBefore(t.dates, mjd-1); idx >= 0 && t.dates[idx]+1 == mjd {
			prevOffset := baselineTAIMinusUTC
			if idx > 0 {
				prevOffset = t.offsets[idx-1]
			}
			if t.offsets[idx]-prevOffset == 1 && offset == prevOffset {
				mjd--
				nod = secondsPerDay*nanosPerSecond + int64(tai.nanos)
			}
		}
	}
	return UTCInstant{mjd: mjd, nanoOfDay: nod}, nil
}

// offsetForMJD returns the TAI-UTC skew applying to ordinary (non-leap
// slot) instants on the given day.
func (t *LeapSecondTable) offsetForMJD(mjd int64) int64 {
	idx := searchBefore(t.dates, mjd-1)
	if idx < 0 {
		return baselineTAIMinusUTC
	}
	return t.offsets[idx]
}

// offsetForLeapSlotMJD returns the TAI-UTC skew applying to the
// 86,401st second of the given leap day (the offset in effect just
// before the leap takes hold).
func (t *LeapSecondTable) offsetForLeapSlotMJD(mjd int64) (int64, bool) {
	idx := searchBefore(t.dates, mjd)
	if idx < 0 || t.dates[idx] != mjd {
		return 0, false
	}
	if idx == 0 {
		return baselineTAIMinusUTC, true
	}
	return t.offsets[idx-1], true
}

// ToTAI converts a UTCInstant to a TAIInstant under this table; the
// algebraic inverse of ToUTC.
func (t *LeapSecondTable) ToTAI(u UTCInstant) (TAIInstant, error) {
	secOfDay := u.nanoOfDay / nanosPerSecond
	nanos := u.nanoOfDay % nanosPerSecond

	var offset int64
	if secOfDay >= secondsPerDay {
		o, ok := t.offsetForLeapSlotMJD(u.mjd)
		if !ok {
			return TAIInstant{}, fmt.Errorf("%w: %d is not a leap day, cannot hold an 86401st second", tzerr.ErrInvalidDate, u.mjd)
		}
		offset = o
	} else {
		offset = t.offsetForMJD(u.mjd)
	}

	daysSinceTAIEpoch, err := safemath.SubInt64(u.mjd, mjdTAIEpoch)
	if err != nil {
		return TAIInstant{}, err
	}
	utcSec, err := safemath.MulInt64(daysSinceTAIEpoch, secondsPerDay)
	if err != nil {
		return TAIInstant{}, err
	}
	utcSec, err = safemath.AddInt64(utcSec, secOfDay)
	if err != nil {
		return TAIInstant{}, err
	}
	taiSec, err := safemath.AddInt64(utcSec, offset)
	if err != nil {
		return TAIInstant{}, err
	}
	return TAIInstant{taiSeconds: taiSec, nanos: uint32(nanos)}, nil
}
