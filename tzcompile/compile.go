// Package tzcompile drives a zonebuild.Builder from parsed TZDB text
// (tzdata.File), replacing the teacher's tzc package, whose own
// documented limitation ("This constraint limits us to the most basic
// rules") only ever handled zones whose single rule ran from some start
// year to forever. tzcompile instead walks every Zone continuation as a
// zonebuild window and every named Rule as a zonebuild.Rule, so
// multi-window, multi-rule zones compile the same way real TZDB data is
// shaped.
package tzcompile

import (
	"fmt"
	"sort"
	"time"

	"github.com/dimensia/tzcore/internal/daymath"
	"github.com/dimensia/tzcore/tzdata"
	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
	"github.com/dimensia/tzcore/zonebuild"
)

// Compile builds a StandardZoneRules for every zone (and link alias) in
// f, keyed by region id.
func Compile(f tzdata.File) (map[string]*zone.StandardZoneRules, error) {
	zones := groupZoneLines(f.ZoneLines)
	rulesByName := groupRuleLines(f.RuleLines)

	out := make(map[string]*zone.StandardZoneRules, len(zones)+len(f.LinkLines))
	for name, chain := range zones {
		rules, err := compileZone(chain, rulesByName)
		if err != nil {
			return nil, fmt.Errorf("compiling zone %q: %w", name, err)
		}
		out[name] = rules
	}

	for _, link := range f.LinkLines {
		target, ok := out[link.From]
		if !ok {
			return nil, fmt.Errorf("%w: link %q references unknown zone %q", tzerr.ErrParse, link.To, link.From)
		}
		out[link.To] = target
	}
	return out, nil
}

// groupZoneLines collates a Zone line with its continuation lines, in
// file order, keyed by the zone's name.
func groupZoneLines(lines []tzdata.ZoneLine) map[string][]tzdata.ZoneLine {
	zones := make(map[string][]tzdata.ZoneLine)
	var current string
	for _, l := range lines {
		if !l.Continuation {
			current = l.Name
		}
		zones[current] = append(zones[current], l)
	}
	return zones
}

func groupRuleLines(lines []tzdata.RuleLine) map[string][]tzdata.RuleLine {
	byName := make(map[string][]tzdata.RuleLine)
	for _, r := range lines {
		byName[r.Name] = append(byName[r.Name], r)
	}
	return byName
}

// dayOfWeekFromTime maps Go's Sunday=0..Saturday=6 to this module's
// 1=Sunday..7=Saturday convention.
func dayOfWeekFromTime(d time.Weekday) int { return int(d) + 1 }

// minPracticalYear floors an unbounded "minimum" rule FROM year to a
// value that yearly rule expansion can actually iterate from.
const minPracticalYear = 1

// toRuleDay converts a tzdata.Day day-specifier into the
// (dayOfMonthIndicator, dayOfWeek) pair zone.ZoneOffsetTransitionRule
// expects. Day<=N ("before") is approximated as Day>=N: the two-branch
// create_transition algorithm this module implements (per its own
// governing specification) only distinguishes forward/backward
// adjustment by the sign of day_of_month_indicator, which cannot also
// carry an arbitrary positive anchor for a backward search. This is a
// rare historical construct in real TZDB data.
func toRuleDay(d tzdata.Day) (dayOfMonthIndicator int, dayOfWeek int) {
	switch d.Form {
	case tzdata.DayFormDayNum:
		return d.Num, 0
	case tzdata.DayFormLast:
		return -1, dayOfWeekFromTime(d.Day)
	case tzdata.DayFormAfter:
		return d.Num, dayOfWeekFromTime(d.Day)
	case tzdata.DayFormBefore:
		return d.Num, dayOfWeekFromTime(d.Day)
	default:
		return d.Num, 0
	}
}

func toTimeDefinition(form tzdata.TimeForm) zone.TimeDefinition {
	switch form {
	case tzdata.UniversalTime:
		return zone.TimeDefinitionUTC
	case tzdata.StandardTime:
		return zone.TimeDefinitionStandard
	default:
		return zone.TimeDefinitionWall
	}
}

func toUntilLocal(u tzdata.Until) zone.LocalDateTime {
	ldt := zone.LocalDateTime{Year: u.Year, Month: 1, Day: 1}
	if u.Parts.Has(tzdata.UntilMonth) {
		ldt.Month = int(u.Month)
	}
	if u.Parts.Has(tzdata.UntilDay) {
		// A zone line's UNTIL field names one specific date, so its day
		// specifier is resolved to a concrete day here, unlike
		// toRuleDay's (indicator, day-of-week) pair which must stay a
		// reusable template for recurring rules.
		year, month, day := daymath.Resolve(u.Year, time.Month(ldt.Month), u.Day)
		ldt.Year, ldt.Month, ldt.Day = year, int(month), day
	}
	if u.Parts.Has(tzdata.UntilTime) {
		ldt.Hour, ldt.Minute, ldt.Second = 0, 0, 0
		ldt = ldt.PlusSeconds(int64(u.Time.Duration / time.Second))
	}
	return ldt
}

func toZoneOffset(d time.Duration) (zone.ZoneOffset, error) {
	return zone.OfTotalSeconds(int32(d / time.Second))
}

// compileZone drives a zonebuild.Builder through one zone's
// continuation chain.
func compileZone(chain []tzdata.ZoneLine, rulesByName map[string][]tzdata.RuleLine) (rules *zone.StandardZoneRules, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", tzerr.ErrParse, r)
		}
	}()

	b := zonebuild.NewBuilder()
	for _, line := range chain {
		standardOffset, e := toZoneOffset(line.Offset)
		if e != nil {
			return nil, e
		}
		if line.Until.Defined {
			if e := b.AddWindow(standardOffset, toUntilLocal(line.Until), toTimeDefinition(timeFormOfUntil(line.Until))); e != nil {
				return nil, e
			}
		} else {
			if e := b.AddWindowForever(standardOffset); e != nil {
				return nil, e
			}
		}

		switch line.Rules.Form {
		case tzdata.ZoneRulesStandard:
			b.SetFixedSavings(0)
		case tzdata.ZoneRulesTime:
			b.SetFixedSavings(int32(line.Rules.Time.Duration / time.Second))
		case tzdata.ZoneRulesName:
			for _, rl := range ruleRecordsFor(rulesByName[line.Rules.Name]) {
				b.AddRule(rl)
			}
		}
	}
	return b.ToRules(chain[0].Name)
}

// timeFormOfUntil infers the time-of-day form of a zone line's UNTIL
// field for time-definition purposes; zone UNTIL fields use the same
// suffix grammar as rule AT fields.
func timeFormOfUntil(u tzdata.Until) tzdata.TimeForm {
	return u.Time.Form
}

// ruleRecordsFor converts one named ruleset's RuleLines into
// zonebuild.Rule records, sorted by start year so expansion proceeds
// chronologically.
func ruleRecordsFor(lines []tzdata.RuleLine) []zonebuild.Rule {
	out := make([]zonebuild.Rule, 0, len(lines))
	for _, rl := range lines {
		dayOfMonth, dayOfWeek := toRuleDay(rl.On)
		endYear := int(rl.To)
		if endYear == tzdata.MaxYear {
			endYear = zonebuild.MaxYear
		}
		startYear := int(rl.From)
		if startYear == tzdata.MinYear {
			// A literal "minimum" FROM year is never meant to be walked
			// one calendar year at a time; clamp to a floor far earlier
			// than any real zone's applicability.
			startYear = minPracticalYear
		}
		out = append(out, zonebuild.Rule{
			StartYear: startYear, EndYear: endYear,
			Month:               int(rl.In),
			DayOfMonthIndicator: dayOfMonth,
			DayOfWeek:           dayOfWeek,
			TimeOfDaySeconds:    int(rl.At.Duration / time.Second),
			TimeDefinition:      toTimeDefinition(rl.At.Form),
			SavingSeconds:       int32(rl.Save.Duration / time.Second),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartYear < out[j].StartYear })
	return out
}
