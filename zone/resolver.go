package zone

import (
	"fmt"

	"github.com/dimensia/tzcore/tzerr"
)

// OffsetDateTime is a local date-time paired with the offset that
// applies to it. Like LocalDateTime, this is the minimal slice of the
// external calendrical-value-type layer that the zone resolvers need to
// produce.
type OffsetDateTime struct {
	Local  LocalDateTime
	Offset ZoneOffset
}

// Resolver maps a local date-time that may be invalid (inside a gap) or
// ambiguous (inside an overlap) under rules to a single OffsetDateTime.
// old, when non-nil, is the zoned date-time arithmetic was applied to
// before reprojection, giving retain_offset something to prefer.
type Resolver func(rules ZoneRules, ldt LocalDateTime, old *OffsetDateTime) (OffsetDateTime, error)

// StrictResolver fails whenever ldt falls in a gap or overlap.
func StrictResolver(rules ZoneRules, ldt LocalDateTime, _ *OffsetDateTime) (OffsetDateTime, error) {
	info, err := rules.OffsetInfoAtLocal(ldt)
	if err != nil {
		return OffsetDateTime{}, err
	}
	if info.IsTransition() {
		return OffsetDateTime{}, fmt.Errorf("%w: %v is in a gap or overlap", tzerr.ErrZoneResolution, ldt)
	}
	return OffsetDateTime{Local: ldt, Offset: info.EstimatedOffset()}, nil
}

// PreTransitionResolver picks the instant just before a gap, or the
// earlier offset in an overlap.
func PreTransitionResolver(rules ZoneRules, ldt LocalDateTime, _ *OffsetDateTime) (OffsetDateTime, error) {
	info, err := rules.OffsetInfoAtLocal(ldt)
	if err != nil {
		return OffsetDateTime{}, err
	}
	if !info.IsTransition() {
		return OffsetDateTime{Local: ldt, Offset: info.EstimatedOffset()}, nil
	}
	t := info.Transition()
	if t.IsGap() {
		before := t.OffsetBefore()
		adjusted := EpochSecondsToLocalDateTime(t.InstantEpochSeconds() - 1 + int64(before.TotalSeconds()))
		return OffsetDateTime{Local: adjusted, Offset: before}, nil
	}
	return OffsetDateTime{Local: ldt, Offset: earlierOffset(t)}, nil
}

// PostTransitionResolver picks the instant just after a gap, or the
// later offset in an overlap.
func PostTransitionResolver(rules ZoneRules, ldt LocalDateTime, _ *OffsetDateTime) (OffsetDateTime, error) {
	info, err := rules.OffsetInfoAtLocal(ldt)
	if err != nil {
		return OffsetDateTime{}, err
	}
	if !info.IsTransition() {
		return OffsetDateTime{Local: ldt, Offset: info.EstimatedOffset()}, nil
	}
	t := info.Transition()
	if t.IsGap() {
		after := t.OffsetAfter()
		adjusted := EpochSecondsToLocalDateTime(t.InstantEpochSeconds() + int64(after.TotalSeconds()))
		return OffsetDateTime{Local: adjusted, Offset: after}, nil
	}
	return OffsetDateTime{Local: ldt, Offset: laterOffset(t)}, nil
}

// RetainOffsetResolver keeps old's offset if it is still valid for ldt
// under rules; otherwise it falls back to PostTransitionResolver.
func RetainOffsetResolver(rules ZoneRules, ldt LocalDateTime, old *OffsetDateTime) (OffsetDateTime, error) {
	if old != nil {
		info, err := rules.OffsetInfoAtLocal(ldt)
		if err != nil {
			return OffsetDateTime{}, err
		}
		if info.IsValidOffset(old.Offset) {
			return OffsetDateTime{Local: ldt, Offset: old.Offset}, nil
		}
	}
	return PostTransitionResolver(rules, ldt, old)
}

// PushForwardResolver advances ldt to the first valid local time after a
// gap; it is a no-op outside a gap (overlaps already have a valid, if
// ambiguous, local time).
func PushForwardResolver(rules ZoneRules, ldt LocalDateTime, _ *OffsetDateTime) (OffsetDateTime, error) {
	info, err := rules.OffsetInfoAtLocal(ldt)
	if err != nil {
		return OffsetDateTime{}, err
	}
	if !info.IsTransition() {
		return OffsetDateTime{Local: ldt, Offset: info.EstimatedOffset()}, nil
	}
	t := info.Transition()
	if !t.IsGap() {
		return OffsetDateTime{Local: ldt, Offset: earlierOffset(t)}, nil
	}
	advanced := ldt.PlusSeconds(int64(t.DurationSeconds()))
	return OffsetDateTime{Local: advanced, Offset: t.OffsetAfter()}, nil
}

// earlierOffset is the offset in effect earlier on the time-line, i.e.
// before the transition.
func earlierOffset(t ZoneOffsetTransition) ZoneOffset {
	return t.OffsetBefore()
}

// laterOffset is the offset in effect from the transition onward.
func laterOffset(t ZoneOffsetTransition) ZoneOffset {
	return t.OffsetAfter()
}
