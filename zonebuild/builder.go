// Package zonebuild implements ZoneRulesBuilder: the windowed
// accumulator that the TZDB compiler drives to produce a
// zone.StandardZoneRules for one region. It supersedes the exploratory,
// unfinished internal/tzir.Process the teacher left behind (hardcoded
// debug output, a guard that errors out on year 2030, and a final
// "return zero value" dead end) with a complete window/rule state
// machine and a real to_rules normalisation pass.
package zonebuild

import (
	"fmt"

	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

// MaxYear marks a rule or window as extending forever; such rules
// become last-rules in the compiled StandardZoneRules rather than being
// expanded year by year.
const MaxYear = 1<<31 - 1

const maxRulesPerWindow = 2000
const maxLastRules = 15

// Rule is one (start-year, end-year, month, day-of-month indicator,
// optional day-of-week, time, end-of-day, time-definition,
// saving-amount) record, the shape of a TZDB Rule line.
type Rule struct {
	StartYear, EndYear  int
	Month               int
	DayOfMonthIndicator int
	DayOfWeek           int // 0 means none
	TimeOfDaySeconds    int
	EndOfDay            bool
	TimeDefinition      zone.TimeDefinition
	SavingSeconds       int32
}

// window is one accumulated window: a fixed standard offset for its
// span, plus either a fixed savings amount or an ordered rule list —
// never both.
type window struct {
	standardOffset zone.ZoneOffset

	until               zone.LocalDateTime
	untilTimeDefinition zone.TimeDefinition
	forever             bool

	hasFixedSavings bool
	fixedSavings    int32
	rules           []Rule
}

// Builder accumulates windows along the time-line and normalises them
// into a zone.StandardZoneRules via ToRules.
type Builder struct {
	windows []*window
	closed  bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) active() *window {
	if len(b.windows) == 0 {
		return nil
	}
	return b.windows[len(b.windows)-1]
}

// AddWindow appends a new bounded window, ending at untilLocal under
// untilTimeDefinition. Fails if the builder is already closed by a
// forever window.
func (b *Builder) AddWindow(standardOffset zone.ZoneOffset, untilLocal zone.LocalDateTime, untilTimeDefinition zone.TimeDefinition) error {
	if b.closed {
		return fmt.Errorf("%w: cannot add a window after add_window_forever", tzerr.ErrInvalidField)
	}
	b.windows = append(b.windows, &window{
		standardOffset:      standardOffset,
		until:               untilLocal,
		untilTimeDefinition: untilTimeDefinition,
	})
	return nil
}

// AddWindowForever appends the final, unbounded window and closes the
// builder to further AddWindow calls.
func (b *Builder) AddWindowForever(standardOffset zone.ZoneOffset) error {
	if b.closed {
		return fmt.Errorf("%w: add_window_forever already called", tzerr.ErrInvalidField)
	}
	b.windows = append(b.windows, &window{standardOffset: standardOffset, forever: true})
	b.closed = true
	return nil
}

// SetFixedSavings sets the active window's savings to a constant value
// for its whole span. Panics if the active window already has rules, or
// if there is no active window — both are programmer errors in the
// compiler driving this builder, not malformed input.
func (b *Builder) SetFixedSavings(seconds int32) {
	w := b.active()
	if w == nil {
		panic("zonebuild: SetFixedSavings with no active window")
	}
	if len(w.rules) > 0 {
		panic("zonebuild: SetFixedSavings and AddRule are mutually exclusive for a window")
	}
	w.hasFixedSavings = true
	w.fixedSavings = seconds
}

// AddRule appends a rule to the active window. Panics if the active
// window already has fixed savings set, has no active window, or would
// exceed 2000 rules.
func (b *Builder) AddRule(r Rule) {
	w := b.active()
	if w == nil {
		panic("zonebuild: AddRule with no active window")
	}
	if w.hasFixedSavings {
		panic("zonebuild: SetFixedSavings and AddRule are mutually exclusive for a window")
	}
	if len(w.rules) >= maxRulesPerWindow {
		panic("zonebuild: window rule limit (2000) exceeded")
	}
	w.rules = append(w.rules, r)
}
