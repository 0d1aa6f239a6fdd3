package zone

import (
	"errors"
	"testing"

	"github.com/dimensia/tzcore/tzerr"
)

func TestStrictResolverFailsInGap(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 3, Day: 29, Hour: 2, Minute: 30}
	if _, err := StrictResolver(rules, ldt, nil); !errors.Is(err, tzerr.ErrZoneResolution) {
		t.Errorf("got %v; want ErrZoneResolution", err)
	}
}

func TestStrictResolverSucceedsNormally(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 6, Day: 15, Hour: 12}
	odt, err := StrictResolver(rules, ldt, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if odt.Offset.TotalSeconds() != 7200 {
		t.Errorf("got offset %v; want +02:00", odt.Offset)
	}
}

func TestPreAndPostTransitionResolversInGap(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 3, Day: 29, Hour: 2, Minute: 30}

	pre, err := PreTransitionResolver(rules, ldt, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pre.Offset.TotalSeconds() != 3600 {
		t.Errorf("pre-transition offset = %v; want +01:00", pre.Offset)
	}

	post, err := PostTransitionResolver(rules, ldt, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Offset.TotalSeconds() != 7200 {
		t.Errorf("post-transition offset = %v; want +02:00", post.Offset)
	}
}

func TestPreAndPostTransitionResolversInOverlap(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 10, Day: 25, Hour: 2, Minute: 30}

	pre, err := PreTransitionResolver(rules, ldt, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pre.Offset.TotalSeconds() != 7200 {
		t.Errorf("pre-transition (earlier) offset = %v; want +02:00", pre.Offset)
	}

	post, err := PostTransitionResolver(rules, ldt, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if post.Offset.TotalSeconds() != 3600 {
		t.Errorf("post-transition (later) offset = %v; want +01:00", post.Offset)
	}
}

func TestPushForwardResolverAdvancesPastGap(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 3, Day: 29, Hour: 2, Minute: 30}
	odt, err := PushForwardResolver(rules, ldt, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := LocalDateTime{Year: 2020, Month: 3, Day: 29, Hour: 3, Minute: 30}
	if odt.Local != want {
		t.Errorf("got %+v; want %+v", odt.Local, want)
	}
	if odt.Offset.TotalSeconds() != 7200 {
		t.Errorf("got offset %v; want +02:00", odt.Offset)
	}
}

func TestRetainOffsetResolverKeepsValidOffset(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 10, Day: 25, Hour: 2, Minute: 30}
	summer, _ := OfTotalSeconds(7200)
	old := &OffsetDateTime{Offset: summer}

	odt, err := RetainOffsetResolver(rules, ldt, old)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if odt.Offset.TotalSeconds() != 7200 {
		t.Errorf("got offset %v; want retained +02:00", odt.Offset)
	}
}

func TestRetainOffsetResolverFallsBackWhenInvalid(t *testing.T) {
	rules := euLikeRules(t)
	ldt := LocalDateTime{Year: 2020, Month: 6, Day: 15, Hour: 12}
	std, _ := OfTotalSeconds(3600)
	old := &OffsetDateTime{Offset: std}

	odt, err := RetainOffsetResolver(rules, ldt, old)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if odt.Offset.TotalSeconds() != 7200 {
		t.Errorf("got offset %v; want fallback post-transition +02:00", odt.Offset)
	}
}
