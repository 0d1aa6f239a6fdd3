package zone

import (
	"fmt"

	"github.com/dimensia/tzcore/tzerr"
)

// ZoneOffsetTransition is a single discontinuity: the local date-time at
// which it happens (expressed in the before-offset), the offset before,
// and the offset after.
type ZoneOffsetTransition struct {
	localBefore  LocalDateTime
	offsetBefore ZoneOffset
	offsetAfter  ZoneOffset
}

// NewZoneOffsetTransition builds a transition. offsetBefore and
// offsetAfter must differ.
func NewZoneOffsetTransition(localBefore LocalDateTime, offsetBefore, offsetAfter ZoneOffset) (ZoneOffsetTransition, error) {
	if offsetBefore.Compare(offsetAfter) == 0 {
		return ZoneOffsetTransition{}, fmt.Errorf("%w: transition offsets must differ", tzerr.ErrInvalidField)
	}
	return ZoneOffsetTransition{localBefore: localBefore, offsetBefore: offsetBefore, offsetAfter: offsetAfter}, nil
}

// LocalBefore returns the local date-time of the transition, expressed
// in the before-offset.
func (t ZoneOffsetTransition) LocalBefore() LocalDateTime { return t.localBefore }

// LocalAfter derives the same instant expressed in the after-offset.
func (t ZoneOffsetTransition) LocalAfter() LocalDateTime {
	delta := int64(t.offsetAfter.TotalSeconds()) - int64(t.offsetBefore.TotalSeconds())
	return t.localBefore.PlusSeconds(delta)
}

// OffsetBefore returns the offset in effect immediately before the transition.
func (t ZoneOffsetTransition) OffsetBefore() ZoneOffset { return t.offsetBefore }

// OffsetAfter returns the offset in effect from the transition onward.
func (t ZoneOffsetTransition) OffsetAfter() ZoneOffset { return t.offsetAfter }

// IsGap reports whether the transition skips a range of local time.
func (t ZoneOffsetTransition) IsGap() bool {
	return t.offsetAfter.TotalSeconds() > t.offsetBefore.TotalSeconds()
}

// IsOverlap reports whether the transition repeats a range of local time.
func (t ZoneOffsetTransition) IsOverlap() bool {
	return t.offsetAfter.TotalSeconds() < t.offsetBefore.TotalSeconds()
}

// DurationSeconds returns the (signed) size of the discontinuity.
func (t ZoneOffsetTransition) DurationSeconds() int32 {
	return t.offsetAfter.TotalSeconds() - t.offsetBefore.TotalSeconds()
}

// InstantEpochSeconds returns the epoch second at which offsetAfter
// first applies.
func (t ZoneOffsetTransition) InstantEpochSeconds() int64 {
	return t.localBefore.ToEpochSeconds() - int64(t.offsetBefore.TotalSeconds())
}

// IsValidOffset reports whether o could plausibly be the offset applying
// at this transition's local date-time: never, for a gap; either
// boundary offset, for an overlap.
func (t ZoneOffsetTransition) IsValidOffset(o ZoneOffset) bool {
	if t.IsGap() {
		return false
	}
	return o.Compare(t.offsetBefore) == 0 || o.Compare(t.offsetAfter) == 0
}

// Compare orders transitions by instant.
func (t ZoneOffsetTransition) Compare(o ZoneOffsetTransition) int {
	a, b := t.InstantEpochSeconds(), o.InstantEpochSeconds()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports structural equality.
func (t ZoneOffsetTransition) Equal(o ZoneOffsetTransition) bool {
	return t.localBefore == o.localBefore && t.offsetBefore == o.offsetBefore && t.offsetAfter == o.offsetAfter
}

// TimeDefinition says how a ZoneOffsetTransitionRule's time_of_day field
// is to be interpreted when converting to an instant.
type TimeDefinition int

const (
	// TimeDefinitionUTC means the rule's time-of-day is already in UTC.
	TimeDefinitionUTC TimeDefinition = iota
	// TimeDefinitionStandard means the rule's time-of-day is in the
	// window's standard offset.
	TimeDefinitionStandard
	// TimeDefinitionWall means the rule's time-of-day is in wall
	// (standard + savings) offset.
	TimeDefinitionWall
)

// ZoneOffsetTransitionRule expresses a transition that recurs every
// calendar year, the way TZDB's "Rule" lines do.
type ZoneOffsetTransitionRule struct {
	Month               int
	DayOfMonthIndicator int // 1..31, or -1..-28 meaning "days from end"
	DayOfWeek           int // 0 means "no adjustment"; 1..7 = Sunday..Saturday
	TimeOfDaySeconds    int
	EndOfDay            bool
	TimeDefinition      TimeDefinition
	StandardOffset      ZoneOffset
	OffsetBefore        ZoneOffset
	OffsetAfter         ZoneOffset
}

// Validate checks the rule's structural invariants.
func (r ZoneOffsetTransitionRule) Validate() error {
	if r.OffsetBefore.Compare(r.OffsetAfter) == 0 {
		return fmt.Errorf("%w: transition rule offsets must differ", tzerr.ErrInvalidField)
	}
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("%w: invalid rule month %d", tzerr.ErrInvalidField, r.Month)
	}
	if r.DayOfMonthIndicator == 0 || r.DayOfMonthIndicator < -28 || r.DayOfMonthIndicator > 31 {
		return fmt.Errorf("%w: invalid day-of-month indicator %d", tzerr.ErrInvalidField, r.DayOfMonthIndicator)
	}
	return nil
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysInMonthTable = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysInMonth(year, month int) int {
	d := daysInMonthTable[month-1]
	if month == 2 && isLeapYear(year) {
		d++
	}
	return d
}

// zellerWeekday returns the day of week (1=Sunday..7=Saturday) for a
// proleptic-Gregorian date, via Zeller's congruence.
func zellerWeekday(year, month, day int) int {
	y, m := year, month
	if m < 3 {
		m += 12
		y--
	}
	k := y % 100
	j := y / 100
	h := (day + (13*(m+1))/5 + k + k/4 + j/4 + 5*j) % 7
	// h: 0=Saturday,1=Sunday,...,6=Friday. Remap to 1=Sunday..7=Saturday.
	return (h+6)%7 + 1
}

// CreateTransition materialises this rule's transition for the given
// year.
func (r ZoneOffsetTransitionRule) CreateTransition(year int) (ZoneOffsetTransition, error) {
	var day int
	if r.DayOfMonthIndicator < 0 {
		last := daysInMonth(year, r.Month)
		day = last + 1 + r.DayOfMonthIndicator
	} else {
		day = r.DayOfMonthIndicator
	}

	if r.DayOfWeek != 0 {
		if r.DayOfMonthIndicator < 0 {
			// Adjust backward-or-equal to the target weekday.
			for zellerWeekday(year, r.Month, day) != r.DayOfWeek {
				day--
			}
		} else {
			// Adjust forward-or-equal to the target weekday.
			last := daysInMonth(year, r.Month)
			for day <= last && zellerWeekday(year, r.Month, day) != r.DayOfWeek {
				day++
			}
		}
	}

	ldt := LocalDateTime{Year: year, Month: r.Month, Day: day}
	ldt = ldt.PlusSeconds(int64(r.TimeOfDaySeconds))
	if r.EndOfDay {
		ldt = ldt.PlusSeconds(86400)
	}

	localBeforeStandardOrWall := ldt
	var offsetBeforeWall ZoneOffset
	switch {
	case r.OffsetBefore.Compare(r.StandardOffset) != 0:
		offsetBeforeWall = r.OffsetBefore
	default:
		offsetBeforeWall = r.StandardOffset
	}

	var localBefore LocalDateTime
	switch r.TimeDefinition {
	case TimeDefinitionUTC:
		localBefore = localBeforeStandardOrWall.PlusSeconds(int64(offsetBeforeWall.TotalSeconds()))
	case TimeDefinitionStandard:
		delta := int64(offsetBeforeWall.TotalSeconds()) - int64(r.StandardOffset.TotalSeconds())
		localBefore = localBeforeStandardOrWall.PlusSeconds(delta)
	default: // TimeDefinitionWall
		localBefore = localBeforeStandardOrWall
	}

	return NewZoneOffsetTransition(localBefore, r.OffsetBefore, r.OffsetAfter)
}
