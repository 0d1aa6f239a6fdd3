package zone

import "testing"

// euLikeRules builds a StandardZoneRules with no historical transitions
// and a pair of last-rules mimicking the EU daylight-saving schedule:
// clocks forward on the last Sunday of March at 01:00 UTC, back on the
// last Sunday of October at 01:00 UTC.
func euLikeRules(t *testing.T) *StandardZoneRules {
	t.Helper()
	std, err := OfTotalSeconds(3600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summer, err := OfTotalSeconds(7200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	springForward := ZoneOffsetTransitionRule{
		Month: 3, DayOfMonthIndicator: -1, DayOfWeek: 1,
		TimeOfDaySeconds: 3600, TimeDefinition: TimeDefinitionUTC,
		StandardOffset: std, OffsetBefore: std, OffsetAfter: summer,
	}
	fallBack := ZoneOffsetTransitionRule{
		Month: 10, DayOfMonthIndicator: -1, DayOfWeek: 1,
		TimeOfDaySeconds: 3600, TimeDefinition: TimeDefinitionUTC,
		StandardOffset: std, OffsetBefore: summer, OffsetAfter: std,
	}
	rules, err := NewStandardZoneRules(nil, []ZoneOffset{std}, nil, []ZoneOffset{std}, []ZoneOffsetTransitionRule{springForward, fallBack})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return rules
}

func TestOffsetAtInstantWinterAndSummer(t *testing.T) {
	rules := euLikeRules(t)

	winter := LocalDateTime{Year: 2020, Month: 1, Day: 1}.ToEpochSeconds()
	got, err := rules.OffsetAtInstant(winter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalSeconds() != 3600 {
		t.Errorf("winter offset = %v; want +01:00", got)
	}

	summer := LocalDateTime{Year: 2020, Month: 7, Day: 1}.ToEpochSeconds()
	got, err = rules.OffsetAtInstant(summer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalSeconds() != 7200 {
		t.Errorf("summer offset = %v; want +02:00", got)
	}
}

func TestOffsetInfoAtLocalGap(t *testing.T) {
	rules := euLikeRules(t)
	// 2020-03-29 is the last Sunday of March 2020; 01:00 UTC = 02:00
	// standard local time, so 02:30 local does not exist.
	ldt := LocalDateTime{Year: 2020, Month: 3, Day: 29, Hour: 2, Minute: 30}
	info, err := rules.OffsetInfoAtLocal(ldt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.IsTransition() || !info.Transition().IsGap() {
		t.Errorf("expected a gap classification, got %+v", info)
	}
}

func TestOffsetInfoAtLocalOverlap(t *testing.T) {
	rules := euLikeRules(t)
	// 2020-10-25 is the last Sunday of October 2020; 01:00 UTC = 03:00
	// summer local time = 02:00 standard local time, so 02:30 local
	// occurs twice.
	ldt := LocalDateTime{Year: 2020, Month: 10, Day: 25, Hour: 2, Minute: 30}
	info, err := rules.OffsetInfoAtLocal(ldt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.IsTransition() || !info.Transition().IsOverlap() {
		t.Errorf("expected an overlap classification, got %+v", info)
	}
}

func TestOffsetInfoAtLocalNormal(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 6, Day: 15, Hour: 12}
	info, err := rules.OffsetInfoAtLocal(ldt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.IsTransition() {
		t.Errorf("expected normal classification, got %+v", info)
	}
	if info.EstimatedOffset().TotalSeconds() != 7200 {
		t.Errorf("got offset %v; want +02:00", info.EstimatedOffset())
	}
}

func TestFixedRules(t *testing.T) {
	offset, _ := OfTotalSeconds(-18000)
	f := FixedRules{Offset: offset}
	got, err := f.OffsetAtInstant(0)
	if err != nil || got.Compare(offset) != 0 {
		t.Errorf("FixedRules.OffsetAtInstant = %v, %v; want %v, nil", got, err, offset)
	}
	if _, found, _ := f.NextTransition(0); found {
		t.Errorf("FixedRules should never report a transition")
	}
}
