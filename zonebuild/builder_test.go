package zonebuild

import (
	"testing"

	"github.com/dimensia/tzcore/zone"
)

func mustOffset(t *testing.T, seconds int32) zone.ZoneOffset {
	t.Helper()
	o, err := zone.OfTotalSeconds(seconds)
	if err != nil {
		t.Fatalf("OfTotalSeconds(%d): %v", seconds, err)
	}
	return o
}

// usLikeRules builds a single forever window with two recurring rules:
// spring forward on the second Sunday of March at 2:00 wall, fall back
// on the first Sunday of November at 2:00 wall, one hour of savings —
// the shape of the modern US DST rule.
func usLikeRules(t *testing.T) *zone.StandardZoneRules {
	t.Helper()
	std := mustOffset(t, -5*3600)

	b := NewBuilder()
	if err := b.AddWindowForever(std); err != nil {
		t.Fatalf("AddWindowForever: %v", err)
	}
	b.AddRule(Rule{
		StartYear: 2007, EndYear: MaxYear,
		Month: 3, DayOfMonthIndicator: 8, DayOfWeek: 1, // Sun>=8
		TimeOfDaySeconds: 2 * 3600,
		TimeDefinition:   zone.TimeDefinitionWall,
		SavingSeconds:    3600,
	})
	b.AddRule(Rule{
		StartYear: 2007, EndYear: MaxYear,
		Month: 11, DayOfMonthIndicator: 1, DayOfWeek: 1, // Sun>=1
		TimeOfDaySeconds: 2 * 3600,
		TimeDefinition:   zone.TimeDefinitionWall,
		SavingSeconds:    0,
	})

	rules, err := b.ToRules("America/Test")
	if err != nil {
		t.Fatalf("ToRules: %v", err)
	}
	return rules
}

func TestToRulesProducesLastRulesForUnboundedRules(t *testing.T) {
	rules := usLikeRules(t)

	// 2020-01-15 12:00 UTC -> winter, standard offset -5:00.
	winter := int64(1579089600)
	off, err := rules.OffsetAtInstant(winter)
	if err != nil {
		t.Fatalf("OffsetAtInstant: %v", err)
	}
	if off.TotalSeconds() != -5*3600 {
		t.Errorf("winter offset = %v; want -05:00", off)
	}

	// 2020-07-15 12:00 UTC -> summer, -4:00.
	summer := int64(1594814400)
	off, err = rules.OffsetAtInstant(summer)
	if err != nil {
		t.Fatalf("OffsetAtInstant: %v", err)
	}
	if off.TotalSeconds() != -4*3600 {
		t.Errorf("summer offset = %v; want -04:00", off)
	}
}

func TestToRulesRejectsWindowAfterForever(t *testing.T) {
	b := NewBuilder()
	std := mustOffset(t, 0)
	if err := b.AddWindowForever(std); err != nil {
		t.Fatalf("AddWindowForever: %v", err)
	}
	if err := b.AddWindow(std, zone.LocalDateTime{Year: 2000, Month: 1, Day: 1}, zone.TimeDefinitionUTC); err == nil {
		t.Error("expected error adding a window after add_window_forever")
	}
}

func TestSetFixedSavingsPanicsAfterAddRule(t *testing.T) {
	b := NewBuilder()
	std := mustOffset(t, 0)
	if err := b.AddWindowForever(std); err != nil {
		t.Fatalf("AddWindowForever: %v", err)
	}
	b.AddRule(Rule{StartYear: 2000, EndYear: MaxYear, Month: 3})

	defer func() {
		if recover() == nil {
			t.Error("expected panic setting fixed savings after a rule was added")
		}
	}()
	b.SetFixedSavings(3600)
}

func TestAddRulePanicsAfterFixedSavings(t *testing.T) {
	b := NewBuilder()
	std := mustOffset(t, 0)
	if err := b.AddWindowForever(std); err != nil {
		t.Fatalf("AddWindowForever: %v", err)
	}
	b.SetFixedSavings(0)

	defer func() {
		if recover() == nil {
			t.Error("expected panic adding a rule after fixed savings was set")
		}
	}()
	b.AddRule(Rule{StartYear: 2000, EndYear: MaxYear, Month: 3})
}

func TestToRulesWithFixedOffsetWindowThenForeverWindow(t *testing.T) {
	b := NewBuilder()
	first := mustOffset(t, 3*3600)
	b.AddWindow(first, zone.LocalDateTime{Year: 1991, Month: 1, Day: 1}, zone.TimeDefinitionUTC)
	b.SetFixedSavings(0)

	second := mustOffset(t, 2 * 3600)
	if err := b.AddWindowForever(second); err != nil {
		t.Fatalf("AddWindowForever: %v", err)
	}
	b.SetFixedSavings(0)

	rules, err := b.ToRules("Test/FixedChange")
	if err != nil {
		t.Fatalf("ToRules: %v", err)
	}

	before, err := rules.StandardOffsetAtInstant(int64(600000000))
	if err != nil {
		t.Fatalf("StandardOffsetAtInstant: %v", err)
	}
	if before.TotalSeconds() != 3*3600 {
		t.Errorf("pre-transition standard offset = %v; want +03:00", before)
	}

	after, err := rules.StandardOffsetAtInstant(int64(700000000))
	if err != nil {
		t.Fatalf("StandardOffsetAtInstant: %v", err)
	}
	if after.TotalSeconds() != 2*3600 {
		t.Errorf("post-transition standard offset = %v; want +02:00", after)
	}
}
