package zone

import "github.com/dimensia/tzcore/internal/unixtime"

// LocalDateTime is the minimal wall-clock value the zone engine needs to
// classify and resolve: a proleptic-Gregorian civil date plus a
// time-of-day, with no offset or zone attached. The richer calendrical
// value types (LocalDate, LocalDateTime, ZonedDateTime, ...) are an
// external collaborator layered on top of this package; this type only
// carries what offset_info_at_local and the transition-rule machinery
// need.
type LocalDateTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
}

// Compare orders two local date-times chronologically, ignoring any zone.
func (l LocalDateTime) Compare(o LocalDateTime) int {
	if l.Year != o.Year {
		return sign(l.Year - o.Year)
	}
	if l.Month != o.Month {
		return sign(l.Month - o.Month)
	}
	if l.Day != o.Day {
		return sign(l.Day - o.Day)
	}
	if l.Hour != o.Hour {
		return sign(l.Hour - o.Hour)
	}
	if l.Minute != o.Minute {
		return sign(l.Minute - o.Minute)
	}
	return sign(l.Second - o.Second)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// ToEpochSeconds converts l to epoch seconds, treating its fields as UTC
// (the caller is responsible for knowing which offset l is expressed in).
func (l LocalDateTime) ToEpochSeconds() int64 {
	return unixtime.FromDateTime(l.Year, l.Month, l.Day, l.Hour, l.Minute, l.Second)
}

// EpochSecondsToLocalDateTime converts epoch seconds (interpreted in
// whatever offset the caller has already applied) into civil fields.
func EpochSecondsToLocalDateTime(epochSeconds int64) LocalDateTime {
	y, mo, d, h, mi, s := unixtime.ToDateTime(epochSeconds)
	return LocalDateTime{Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s}
}

// PlusSeconds returns l shifted by the given number of seconds.
func (l LocalDateTime) PlusSeconds(secs int64) LocalDateTime {
	return EpochSecondsToLocalDateTime(l.ToEpochSeconds() + secs)
}
