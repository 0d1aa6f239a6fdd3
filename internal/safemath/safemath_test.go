package safemath

import (
	"errors"
	"math"
	"testing"

	"github.com/dimensia/tzcore/tzerr"
)

func TestAddInt64(t *testing.T) {
	tests := []struct {
		name    string
		a, b    int64
		want    int64
		wantErr bool
	}{
		{"simple", 2, 3, 5, false},
		{"negative", -5, 3, -2, false},
		{"max plus one overflows", math.MaxInt64, 1, 0, true},
		{"min minus one via negative b overflows", math.MinInt64, -1, 0, true},
		{"max plus min ok", math.MaxInt64, math.MinInt64, -1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := AddInt64(tc.a, tc.b)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("AddInt64(%d, %d) = %d, nil; want error", tc.a, tc.b, got)
				}
				if !errors.Is(err, tzerr.ErrOverflow) {
					t.Errorf("error = %v; want wrapped ErrOverflow", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AddInt64(%d, %d) unexpected error: %v", tc.a, tc.b, err)
			}
			if got != tc.want {
				t.Errorf("AddInt64(%d, %d) = %d; want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestMulInt64Overflow(t *testing.T) {
	if _, err := MulInt64(math.MinInt64, -1); !errors.Is(err, tzerr.ErrOverflow) {
		t.Errorf("MulInt64(MinInt64, -1) = _, %v; want ErrOverflow", err)
	}
	if got, err := MulInt64(6, 7); err != nil || got != 42 {
		t.Errorf("MulInt64(6, 7) = %d, %v; want 42, nil", got, err)
	}
}

func TestNegateOverflow(t *testing.T) {
	if _, err := NegateInt64(math.MinInt64); !errors.Is(err, tzerr.ErrOverflow) {
		t.Errorf("NegateInt64(MinInt64) = _, %v; want ErrOverflow", err)
	}
}

func TestToInt32Overflow(t *testing.T) {
	if _, err := ToInt32(math.MaxInt64); !errors.Is(err, tzerr.ErrOverflow) {
		t.Errorf("ToInt32(MaxInt64) = _, %v; want ErrOverflow", err)
	}
	if got, err := ToInt32(42); err != nil || got != 42 {
		t.Errorf("ToInt32(42) = %d, %v; want 42, nil", got, err)
	}
}

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b     int64
		wantDiv  int64
		wantMod  int64
	}{
		{7, 2, 3, 1},
		{-7, 2, -4, 1},
		{7, -2, -4, -1},
		{-7, -2, 3, -1},
		{0, 5, 0, 0},
	}
	for _, tc := range tests {
		gotDiv := FloorDiv(tc.a, tc.b)
		gotMod := FloorMod(tc.a, tc.b)
		if gotDiv != tc.wantDiv || gotMod != tc.wantMod {
			t.Errorf("FloorDiv/Mod(%d, %d) = %d, %d; want %d, %d", tc.a, tc.b, gotDiv, gotMod, tc.wantDiv, tc.wantMod)
		}
		// Invariant: a == floorDiv*b + floorMod, and 0 <= floorMod < |b| for b>0.
		if got := gotDiv*tc.b + gotMod; got != tc.a {
			t.Errorf("identity failed for (%d, %d): floorDiv*b+floorMod = %d, want %d", tc.a, tc.b, got, tc.a)
		}
		if tc.b > 0 && (gotMod < 0 || gotMod >= tc.b) {
			t.Errorf("FloorMod(%d, %d) = %d out of [0, %d)", tc.a, tc.b, gotMod, tc.b)
		}
	}
}
