package zonebuild

import (
	"fmt"
	"sort"

	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

// untilEpochSeconds resolves the local date-time until (interpreted under
// timeDef, standardOffset and the wall offset in effect at that moment)
// to an epoch second.
func untilEpochSeconds(until zone.LocalDateTime, timeDef zone.TimeDefinition, standardOffset, wallOffset zone.ZoneOffset) int64 {
	var offset zone.ZoneOffset
	switch timeDef {
	case zone.TimeDefinitionUTC:
		offset, _ = zone.OfTotalSeconds(0)
	case zone.TimeDefinitionStandard:
		offset = standardOffset
	default:
		offset = wallOffset
	}
	return until.ToEpochSeconds() - int64(offset.TotalSeconds())
}

// expandedTransition is one concrete, dated transition produced while
// walking a window's rules.
type expandedTransition struct {
	epochSeconds int64
	offsetBefore zone.ZoneOffset
	offsetAfter  zone.ZoneOffset
}

// expandRule materialises one rule's transitions for each year in
// [StartYear, EndYear], given the running savings
// just before each transition and the window's standard offset. Rules
// with EndYear == MaxYear are not expanded here; the caller promotes
// them to last-rules instead.
func expandRule(r Rule, standardOffset zone.ZoneOffset, offsetBefore func(year int) zone.ZoneOffset) ([]expandedTransition, error) {
	var out []expandedTransition
	offsetAfter, err := zone.OfTotalSeconds(standardOffset.TotalSeconds() + r.SavingSeconds)
	if err != nil {
		return nil, err
	}
	for year := r.StartYear; year <= r.EndYear; year++ {
		rule := zone.ZoneOffsetTransitionRule{
			Month: r.Month, DayOfMonthIndicator: r.DayOfMonthIndicator, DayOfWeek: r.DayOfWeek,
			TimeOfDaySeconds: r.TimeOfDaySeconds, EndOfDay: r.EndOfDay, TimeDefinition: r.TimeDefinition,
			StandardOffset: standardOffset, OffsetBefore: offsetBefore(year), OffsetAfter: offsetAfter,
		}
		if rule.OffsetBefore.Compare(rule.OffsetAfter) == 0 {
			continue
		}
		t, err := rule.CreateTransition(year)
		if err != nil {
			return nil, err
		}
		out = append(out, expandedTransition{
			epochSeconds: t.InstantEpochSeconds(),
			offsetBefore: t.OffsetBefore(),
			offsetAfter:  t.OffsetAfter(),
		})
	}
	return out, nil
}

// ToRules normalises the accumulated windows into a
// zone.StandardZoneRules. zoneID is carried only for error messages.
func (b *Builder) ToRules(zoneID string) (*zone.StandardZoneRules, error) {
	if len(b.windows) == 0 {
		return nil, fmt.Errorf("%w: no windows added for zone %q", tzerr.ErrInvalidField, zoneID)
	}

	first := b.windows[0]
	runningStd := first.standardOffset
	runningSavings := int32(0)

	stdOffsets := []zone.ZoneOffset{runningStd}
	var stdTransitions []int64
	wallOffsets := []zone.ZoneOffset{runningStd}
	var wallTransitions []int64
	var lastRules []zone.ZoneOffsetTransitionRule

	runningWall := wallOffsets[0]

	for i, w := range b.windows {
		if i > 0 {
			// The previous window's Until boundary, resolved under the
			// offsets that were in effect just before the transition.
			boundary := untilEpochSeconds(b.windows[i-1].until, b.windows[i-1].untilTimeDefinition, runningStd, runningWall)

			if w.standardOffset.Compare(runningStd) != 0 {
				stdTransitions = append(stdTransitions, boundary)
				stdOffsets = append(stdOffsets, w.standardOffset)
				runningStd = w.standardOffset
			}

			// A window's savings (fixed or, absent a rule firing exactly
			// on the boundary, whatever was running) apply from its very
			// start, so the combined wall offset can change here even
			// when only the standard offset moved.
			startSavings := runningSavings
			if w.hasFixedSavings {
				startSavings = w.fixedSavings
			}
			startWall, err := zone.OfTotalSeconds(w.standardOffset.TotalSeconds() + startSavings)
			if err != nil {
				return nil, err
			}
			if startWall.Compare(runningWall) != 0 {
				wallTransitions = append(wallTransitions, boundary)
				wallOffsets = append(wallOffsets, startWall)
				runningWall = startWall
			}
		}

		switch {
		case w.hasFixedSavings:
			runningSavings = w.fixedSavings
		default:
			bounded, unbounded, err := splitRules(w.rules)
			if err != nil {
				return nil, err
			}
			sort.Slice(bounded, func(a, c int) bool { return bounded[a].StartYear < bounded[c].StartYear })
			var expanded []expandedTransition
			for _, r := range bounded {
				savingsAtYearStart := runningSavings
				ts, err := expandRule(r, w.standardOffset, func(int) zone.ZoneOffset {
					o, _ := zone.OfTotalSeconds(w.standardOffset.TotalSeconds() + savingsAtYearStart)
					return o
				})
				if err != nil {
					return nil, err
				}
				expanded = append(expanded, ts...)
			}
			sort.Slice(expanded, func(a, c int) bool { return expanded[a].epochSeconds < expanded[c].epochSeconds })
			for _, t := range expanded {
				wallTransitions = append(wallTransitions, t.epochSeconds)
				wallOffsets = append(wallOffsets, t.offsetAfter)
				runningSavings = t.offsetAfter.TotalSeconds() - w.standardOffset.TotalSeconds()
				runningWall = t.offsetAfter
			}

			if w.forever {
				if len(unbounded) > maxLastRules {
					return nil, fmt.Errorf("%w: zone %q has %d last-rules, limit is %d", tzerr.ErrInvalidField, zoneID, len(unbounded), maxLastRules)
				}
				sort.Slice(unbounded, func(a, c int) bool { return unbounded[a].Month < unbounded[c].Month })
				for k, r := range unbounded {
					offsetAfter, err := zone.OfTotalSeconds(w.standardOffset.TotalSeconds() + r.SavingSeconds)
					if err != nil {
						return nil, err
					}
					// Within the yearly cycle each tail rule takes over
					// from the rule that fires before it.
					savingsBefore := runningSavings
					if len(unbounded) > 1 {
						savingsBefore = unbounded[(k+len(unbounded)-1)%len(unbounded)].SavingSeconds
					}
					offsetBefore, err := zone.OfTotalSeconds(w.standardOffset.TotalSeconds() + savingsBefore)
					if err != nil {
						return nil, err
					}
					if offsetBefore.Compare(offsetAfter) == 0 {
						// A tail rule that leaves the savings unchanged
						// is skipped, since StandardZoneRules requires
						// offset_before != offset_after.
						continue
					}
					lastRules = append(lastRules, zone.ZoneOffsetTransitionRule{
						Month: r.Month, DayOfMonthIndicator: r.DayOfMonthIndicator, DayOfWeek: r.DayOfWeek,
						TimeOfDaySeconds: r.TimeOfDaySeconds, EndOfDay: r.EndOfDay, TimeDefinition: r.TimeDefinition,
						StandardOffset: w.standardOffset, OffsetBefore: offsetBefore, OffsetAfter: offsetAfter,
					})
				}
			}
		}
	}

	return zone.NewStandardZoneRules(stdTransitions, stdOffsets, wallTransitions, wallOffsets, lastRules)
}

// splitRules separates a window's rules into year-bounded ones (which
// get expanded one transition per year) and forever ones (EndYear ==
// MaxYear), which become last-rule templates instead.
func splitRules(rules []Rule) (bounded, unbounded []Rule, err error) {
	for _, r := range rules {
		if r.StartYear > r.EndYear && r.EndYear != MaxYear {
			return nil, nil, fmt.Errorf("%w: rule start year %d after end year %d", tzerr.ErrInvalidField, r.StartYear, r.EndYear)
		}
		if r.EndYear == MaxYear {
			unbounded = append(unbounded, r)
		} else {
			bounded = append(bounded, r)
		}
	}
	return bounded, unbounded, nil
}
