package instant

import (
	"math"
	"testing"
)

func TestOfEpochSecondsNormalises(t *testing.T) {
	i, err := OfEpochSeconds(10, -1_500_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i.EpochSeconds() != 8 || i.NanoOfSecond() != 500_000_000 {
		t.Errorf("got (%d, %d); want (8, 500000000)", i.EpochSeconds(), i.NanoOfSecond())
	}
}

func TestOfEpochSecondsIdempotence(t *testing.T) {
	i, err := OfEpochSeconds(1234, 567)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j, err := OfEpochSeconds(i.EpochSeconds(), int64(i.NanoOfSecond()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i != j {
		t.Errorf("OfEpochSeconds not idempotent: %+v != %+v", i, j)
	}
}

func TestInstantCompare(t *testing.T) {
	a, _ := OfEpochSeconds(5, 100)
	b, _ := OfEpochSeconds(5, 200)
	c, _ := OfEpochSeconds(6, 0)
	if !a.Before(b) || !b.Before(c) || !c.After(a) {
		t.Errorf("ordering broken: a=%+v b=%+v c=%+v", a, b, c)
	}
}

func TestInstantPlusMinusRoundTrip(t *testing.T) {
	a, _ := OfEpochSeconds(100, 0)
	d, err := OfSeconds(50, 250_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := a.Plus(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := b.Minus(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != a {
		t.Errorf("round trip failed: got %+v, want %+v", back, a)
	}
}

func TestInstantPlusOverflow(t *testing.T) {
	a, _ := OfEpochSeconds(math.MaxInt64, 0)
	if _, err := a.PlusSeconds(1); err == nil {
		t.Errorf("expected overflow error")
	}
}

func TestToEpochMillisLongOverflow(t *testing.T) {
	a, _ := OfEpochSeconds(math.MaxInt64/1000+1, 0)
	if _, err := a.ToEpochMillisLong(); err == nil {
		t.Errorf("expected overflow error")
	}
}

func TestDurationSignCarriedBySeconds(t *testing.T) {
	d, err := OfSeconds(-1, 750_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Seconds() != -1 || d.Nanos() != 750_000_000 {
		t.Errorf("got (%d, %d); want (-1, 750000000)", d.Seconds(), d.Nanos())
	}
	if !d.IsNegative() {
		t.Errorf("expected negative duration")
	}
}

func TestDurationOfUnit(t *testing.T) {
	d, err := Of(2, Hours)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Seconds() != 7200 || d.Nanos() != 0 {
		t.Errorf("got (%d, %d); want (7200, 0)", d.Seconds(), d.Nanos())
	}
}

func TestDurationMultipliedAndDivided(t *testing.T) {
	d, _ := OfSeconds(3, 0)
	product, err := d.MultipliedBy(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Seconds() != 12 {
		t.Errorf("got %d; want 12", product.Seconds())
	}
	quotient, err := product.DividedBy(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quotient != d {
		t.Errorf("got %+v; want %+v", quotient, d)
	}
}

func TestDurationDivideByZero(t *testing.T) {
	d, _ := OfSeconds(10, 0)
	if _, err := d.DividedBy(0); err == nil {
		t.Errorf("expected error dividing by zero")
	}
}

func TestDurationCompare(t *testing.T) {
	a, _ := OfSeconds(1, 0)
	b, _ := OfSeconds(1, 500)
	if a.Compare(b) >= 0 {
		t.Errorf("expected a < b")
	}
}
