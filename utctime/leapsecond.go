package utctime

import (
	"fmt"
	"sync/atomic"

	"github.com/dimensia/tzcore/tzerr"
)

// TableRef is a leap-second table held behind an atomic pointer swap, as
// mandated for the table's concurrency model: readers call Load and
// operate on the snapshot they receive, never blocking and never seeing
// a torn mix of the three underlying arrays; writers build a new table
// and attempt a single compare-and-swap, surfacing a lost race as
// tzerr.ErrConcurrentUpdate rather than retrying silently.
type TableRef struct {
	ptr atomic.Pointer[LeapSecondTable]
}

// NewTableRef returns a TableRef initialised with the given table.
func NewTableRef(initial *LeapSecondTable) *TableRef {
	r := &TableRef{}
	r.ptr.Store(initial)
	return r
}

// Load returns the current snapshot of the table.
func (r *TableRef) Load() *LeapSecondTable {
	return r.ptr.Load()
}

// RegisterLeapSecond appends a new leap to the table: date must be
// strictly after the last known leap date, and adjustment must be
// exactly +1 or -1 (the table stores cumulative TAI-UTC skew, so the
// new cumulative offset is the prior last offset plus adjustment).
// Fails with tzerr.ErrConcurrentUpdate if another writer's swap wins
// the race first; the caller may retry by reloading and calling again.
func (r *TableRef) RegisterLeapSecond(date int64, adjustment int64) error {
	if adjustment != 1 && adjustment != -1 {
		return fmt.Errorf("%w: leap adjustment must be +-1, got %d", tzerr.ErrInvalidField, adjustment)
	}
	current := r.ptr.Load()
	lastDate := int64(-1 << 62)
	lastOffset := baselineTAIMinusUTC
	if n := len(current.dates); n > 0 {
		lastDate = current.dates[n-1]
		lastOffset = current.offsets[n-1]
	}
	if date <= lastDate {
		return fmt.Errorf("%w: leap date %d is not strictly after last known leap %d", tzerr.ErrInvalidDate, date, lastDate)
	}

	newDates := append(append([]int64{}, current.dates...), date)
	newOffsets := append(append([]int64{}, current.offsets...), lastOffset+adjustment)
	next, err := NewLeapSecondTable(newDates, newOffsets)
	if err != nil {
		return err
	}
	if !r.ptr.CompareAndSwap(current, next) {
		return fmt.Errorf("%w: leap-second table swap lost a race", tzerr.ErrConcurrentUpdate)
	}
	return nil
}

// EmptyLeapSecondTable returns a table with no recorded leaps, so every
// lookup falls back to the 10s baseline.
func EmptyLeapSecondTable() *LeapSecondTable {
	t, _ := NewLeapSecondTable(nil, nil)
	return t
}
