package utctime

import (
	"strings"
	"testing"

	"github.com/dimensia/tzcore/instant"
)

func TestUTCInstantFromInstantRoundTrip(t *testing.T) {
	i, _ := instant.OfEpochSeconds(1_600_000_000, 123_456_789)
	u := UTCInstantFromInstant(i)
	back, err := u.ToInstant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.EpochSeconds() != i.EpochSeconds() || back.NanoOfSecond() != i.NanoOfSecond() {
		t.Errorf("round trip failed: got %+v, want %+v", back, i)
	}
}

func TestLeapSecondTableRejectsBadDelta(t *testing.T) {
	_, err := NewLeapSecondTable([]int64{41316}, []int64{13})
	if err == nil {
		t.Fatalf("expected error for delta outside {-1,0,1}")
	}
}

func TestLeapSecondTableRejectsNonIncreasingDates(t *testing.T) {
	_, err := NewLeapSecondTable([]int64{41498, 41498}, []int64{10, 11})
	if err == nil {
		t.Fatalf("expected error for non-increasing dates")
	}
}

// leapTableThrough1972 models the table through the historical
// introduction of leap seconds: 1972-01-01 established a baseline
// TAI-UTC of 10s, and 1972-06-30/07-01 was the first positive leap.
func leapTableThrough1972(t *testing.T) *LeapSecondTable {
	t.Helper()
	table, err := NewLeapSecondTable([]int64{41316, 41498}, []int64{10, 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return table
}

func TestLeapSecondRoundTrip(t *testing.T) {
	table := leapTableThrough1972(t)

	// The TAI second immediately before the 1972-07-01 rollover is the
	// leap second itself: 1972-06-30T23:59:60Z.
	leapTAI := TAIInstant{taiSeconds: 457_488_010, nanos: 0}

	u, err := table.ToUTC(leapTAI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.MJD() != 41498 || u.NanoOfDay() != 86400*nanosPerSecond {
		t.Fatalf("ToUTC(%+v) = %+v; want mjd=41498, nanoOfDay=86400e9", leapTAI, u)
	}

	back, err := table.ToTAI(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != leapTAI {
		t.Errorf("ToTAI(ToUTC(x)) = %+v; want %+v", back, leapTAI)
	}

	instant, err := u.ToInstant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 1972-07-01T00:00:00Z
	wantEpochSeconds := int64(78_796_800)
	if instant.EpochSeconds() != wantEpochSeconds || instant.NanoOfSecond() != 0 {
		t.Errorf("leap instant = %+v; want epoch seconds %d", instant, wantEpochSeconds)
	}
}

func TestLeapSecondOrdinaryDayUnaffected(t *testing.T) {
	table := leapTableThrough1972(t)
	// 1972-01-01T00:00:00Z, the baseline-establishing day boundary, not a leap slot.
	u := NewUTCInstant(41317, 0)
	tai, err := table.ToTAI(u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tai.TAISeconds() != 441_763_210 {
		t.Errorf("ToTAI(%+v) = %d; want 441763210", u, tai.TAISeconds())
	}
	back, err := table.ToUTC(tai)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != u {
		t.Errorf("round trip failed: got %+v, want %+v", back, u)
	}
}

func TestRegisterLeapSecond(t *testing.T) {
	ref := NewTableRef(leapTableThrough1972(t))
	if err := ref.RegisterLeapSecond(41683, 1); err != nil { // 1973-01-01
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(ref.Load().Dates()); n != 3 {
		t.Errorf("got %d dates; want 3", n)
	}
	if err := ref.RegisterLeapSecond(41683, 1); err == nil {
		t.Errorf("expected error for non-strictly-later date")
	}
	if err := ref.RegisterLeapSecond(41700, 2); err == nil {
		t.Errorf("expected error for adjustment outside {-1,+1}")
	}
}

func TestParseLeapSecondFile(t *testing.T) {
	const data = `# comment
1972-01-01 10
1972-07-01 11

1973-01-01 12
`
	table, err := ParseLeapSecondFile(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Dates()) != 3 {
		t.Fatalf("got %d entries; want 3", len(table.Dates()))
	}
}

func TestParseLeapSecondFileRejectsBadOffset(t *testing.T) {
	const data = "1972-01-01 not-a-number\n"
	if _, err := ParseLeapSecondFile(strings.NewReader(data)); err == nil {
		t.Errorf("expected parse error")
	}
}
