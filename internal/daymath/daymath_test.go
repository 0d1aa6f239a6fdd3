package daymath

import (
	"testing"
	"time"

	"github.com/dimensia/tzcore/tzdata"
)

func TestResolveDayNum(t *testing.T) {
	y, m, d := Resolve(2024, time.March, tzdata.Day{Form: tzdata.DayFormDayNum, Num: 15})
	if y != 2024 || m != time.March || d != 15 {
		t.Errorf("Resolve = %d-%s-%d; want 2024-March-15", y, m, d)
	}
}

func TestResolveLastSunday(t *testing.T) {
	// The EU rule: lastSun in March 2024 is the 31st.
	y, m, d := Resolve(2024, time.March, tzdata.Day{Form: tzdata.DayFormLast, Day: time.Sunday})
	if y != 2024 || m != time.March || d != 31 {
		t.Errorf("Resolve(lastSun, March 2024) = %d-%s-%d; want 2024-March-31", y, m, d)
	}
}

func TestResolveLastSundayShortMonth(t *testing.T) {
	// lastSun in February 2023 (28 days, starts Wednesday) is the 26th.
	y, m, d := Resolve(2023, time.February, tzdata.Day{Form: tzdata.DayFormLast, Day: time.Sunday})
	if y != 2023 || m != time.February || d != 26 {
		t.Errorf("Resolve(lastSun, February 2023) = %d-%s-%d; want 2023-February-26", y, m, d)
	}
}

func TestResolveSundayOnOrAfter(t *testing.T) {
	// Sun>=8 in March 2020 (the US "spring forward" rule) is the 8th itself.
	y, m, d := Resolve(2020, time.March, tzdata.Day{Form: tzdata.DayFormAfter, Num: 8, Day: time.Sunday})
	if y != 2020 || m != time.March || d != 8 {
		t.Errorf("Resolve(Sun>=8, March 2020) = %d-%s-%d; want 2020-March-8", y, m, d)
	}
}

func TestResolveSundayOnOrAfterRollsIntoNextMonth(t *testing.T) {
	// Sun>=29 in February 2021 (28 days) has no match in February, so it
	// rolls into March; Feb 28 2021 is a Sunday, so Sun>=29 lands on
	// March 7.
	y, m, d := Resolve(2021, time.February, tzdata.Day{Form: tzdata.DayFormAfter, Num: 29, Day: time.Sunday})
	if y != 2021 || m != time.March || d != 7 {
		t.Errorf("Resolve(Sun>=29, February 2021) = %d-%s-%d; want 2021-March-7", y, m, d)
	}
}

func TestResolveSundayOnOrBefore(t *testing.T) {
	// Sun<=25 in October 2020: October 25 2020 is itself a Sunday.
	y, m, d := Resolve(2020, time.October, tzdata.Day{Form: tzdata.DayFormBefore, Num: 25, Day: time.Sunday})
	if y != 2020 || m != time.October || d != 25 {
		t.Errorf("Resolve(Sun<=25, October 2020) = %d-%s-%d; want 2020-October-25", y, m, d)
	}
}

func TestResolveSundayOnOrBeforeOnFirstOfMonth(t *testing.T) {
	// Sun<=1 in May 2022: May 1 2022 is a Sunday, so no rollover; confirm
	// the boundary case lands exactly on the 1st rather than overshooting
	// into April.
	y, m, d := Resolve(2022, time.May, tzdata.Day{Form: tzdata.DayFormBefore, Num: 1, Day: time.Sunday})
	if y != 2022 || m != time.May || d != 1 {
		t.Errorf("Resolve(Sun<=1, May 2022) = %d-%s-%d; want 2022-May-1", y, m, d)
	}
}
