package zone

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dimensia/tzcore/tzerr"
)

const yearCacheHorizon = 2100

// ZoneRules is the contract any zone-rule representation must satisfy,
// so fixed-offset zones and the historical+rule-driven StandardZoneRules
// can sit behind one interface.
type ZoneRules interface {
	OffsetAtInstant(epochSeconds int64) (ZoneOffset, error)
	OffsetInfoAtLocal(ldt LocalDateTime) (OffsetInfo, error)
	StandardOffsetAtInstant(epochSeconds int64) (ZoneOffset, error)
	NextTransition(epochSeconds int64) (ZoneOffsetTransition, bool, error)
	PreviousTransition(epochSeconds int64) (ZoneOffsetTransition, bool, error)
	IsFixedOffset() bool
}

// StandardZoneRules is the in-memory representation of one time-zone
// version: historical standard-offset and wall-offset transition arrays,
// plus a tail of recurring rules that generate transitions for every
// year past the last historical one.
type StandardZoneRules struct {
	stdTransitionEpochSeconds []int64
	stdOffsets                []ZoneOffset

	wallTransitionEpochSeconds []int64
	wallOffsets                []ZoneOffset

	// savingsLocalTransitions pairs, per wall transition, the two
	// boundary local date-times either side of the discontinuity: for a
	// gap (local_before, local_after); for an overlap (local_after,
	// local_before). This makes gap/overlap classification structural
	// under a single binary search.
	savingsLocalTransitions []LocalDateTime

	lastRules []ZoneOffsetTransitionRule

	yearCache sync.Map // int year -> []ZoneOffsetTransition
}

// NewStandardZoneRules builds a StandardZoneRules from its parallel
// arrays. len(stdOffsets) must be len(stdTransitionEpochSeconds)+1, and
// likewise for the wall arrays; both transition arrays must be strictly
// ascending; lastRules must have at most 15 entries.
func NewStandardZoneRules(
	stdTransitionEpochSeconds []int64, stdOffsets []ZoneOffset,
	wallTransitionEpochSeconds []int64, wallOffsets []ZoneOffset,
	lastRules []ZoneOffsetTransitionRule,
) (*StandardZoneRules, error) {
	if len(stdOffsets) != len(stdTransitionEpochSeconds)+1 {
		return nil, fmt.Errorf("%w: standard offsets length must be transitions+1", tzerr.ErrInvalidField)
	}
	if len(wallOffsets) != len(wallTransitionEpochSeconds)+1 {
		return nil, fmt.Errorf("%w: wall offsets length must be transitions+1", tzerr.ErrInvalidField)
	}
	if len(lastRules) > 15 {
		return nil, fmt.Errorf("%w: at most 15 last-rules allowed, got %d", tzerr.ErrInvalidField, len(lastRules))
	}
	if !sort.SliceIsSorted(stdTransitionEpochSeconds, func(i, j int) bool { return stdTransitionEpochSeconds[i] <= stdTransitionEpochSeconds[j] }) {
		return nil, fmt.Errorf("%w: standard transitions must be strictly ascending", tzerr.ErrInvalidField)
	}
	if !sort.SliceIsSorted(wallTransitionEpochSeconds, func(i, j int) bool { return wallTransitionEpochSeconds[i] <= wallTransitionEpochSeconds[j] }) {
		return nil, fmt.Errorf("%w: wall transitions must be strictly ascending", tzerr.ErrInvalidField)
	}

	savingsLocal := make([]LocalDateTime, 0, 2*len(wallTransitionEpochSeconds))
	for i, epochSec := range wallTransitionEpochSeconds {
		before, after := wallOffsets[i], wallOffsets[i+1]
		localBefore := EpochSecondsToLocalDateTime(epochSec + int64(before.TotalSeconds()))
		localAfter := EpochSecondsToLocalDateTime(epochSec + int64(after.TotalSeconds()))
		if after.TotalSeconds() > before.TotalSeconds() {
			savingsLocal = append(savingsLocal, localBefore, localAfter)
		} else {
			savingsLocal = append(savingsLocal, localAfter, localBefore)
		}
	}

	return &StandardZoneRules{
		stdTransitionEpochSeconds:  stdTransitionEpochSeconds,
		stdOffsets:                 stdOffsets,
		wallTransitionEpochSeconds: wallTransitionEpochSeconds,
		wallOffsets:                wallOffsets,
		savingsLocalTransitions:    savingsLocal,
		lastRules:                  lastRules,
	}, nil
}

func (r *StandardZoneRules) IsFixedOffset() bool { return false }

// Components exposes the five parallel arrays backing r, in the exact
// shape NewStandardZoneRules accepts, so a codec package can serialise
// and reconstruct r without this package knowing anything about wire
// formats.
func (r *StandardZoneRules) Components() (
	stdTransitionEpochSeconds []int64, stdOffsets []ZoneOffset,
	wallTransitionEpochSeconds []int64, wallOffsets []ZoneOffset,
	lastRules []ZoneOffsetTransitionRule,
) {
	return r.stdTransitionEpochSeconds, r.stdOffsets,
		r.wallTransitionEpochSeconds, r.wallOffsets,
		r.lastRules
}

// searchLastLE returns the index of the last element <= x, or -1.
func searchLastLE(xs []int64, x int64) int {
	return sort.Search(len(xs), func(i int) bool { return xs[i] > x }) - 1
}

// StandardOffsetAtInstant returns the standard (non-DST) offset in
// effect at the given instant.
func (r *StandardZoneRules) StandardOffsetAtInstant(epochSeconds int64) (ZoneOffset, error) {
	idx := searchLastLE(r.stdTransitionEpochSeconds, epochSeconds)
	return r.stdOffsets[idx+1], nil
}

// OffsetAtInstant returns the wall offset in effect at the given
// instant, consulting the recurring rule tail once epochSeconds is past
// the last historical wall transition.
func (r *StandardZoneRules) OffsetAtInstant(epochSeconds int64) (ZoneOffset, error) {
	if len(r.wallTransitionEpochSeconds) > 0 && epochSeconds < r.wallTransitionEpochSeconds[len(r.wallTransitionEpochSeconds)-1] {
		idx := searchLastLE(r.wallTransitionEpochSeconds, epochSeconds)
		return r.wallOffsets[idx+1], nil
	}
	if len(r.lastRules) == 0 {
		return r.wallOffsets[len(r.wallOffsets)-1], nil
	}
	year := EpochSecondsToLocalDateTime(epochSeconds + int64(r.wallOffsets[len(r.wallOffsets)-1].TotalSeconds())).Year
	transitions, err := r.yearTransitions(year)
	if err != nil {
		return ZoneOffset{}, err
	}
	last := r.wallOffsets[len(r.wallOffsets)-1]
	for _, t := range transitions {
		if t.InstantEpochSeconds() <= epochSeconds {
			last = t.OffsetAfter()
		}
	}
	return last, nil
}

// yearTransitions returns, generating and caching on first use, the
// transitions produced by last_rules for the given year. Only years up
// to the 2100 horizon are retained in the cache; later years are still
// computed, just not memoised.
func (r *StandardZoneRules) yearTransitions(year int) ([]ZoneOffsetTransition, error) {
	if v, ok := r.yearCache.Load(year); ok {
		return v.([]ZoneOffsetTransition), nil
	}
	transitions := make([]ZoneOffsetTransition, 0, len(r.lastRules))
	for _, rule := range r.lastRules {
		t, err := rule.CreateTransition(year)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, t)
	}
	sort.Slice(transitions, func(i, j int) bool { return transitions[i].Compare(transitions[j]) < 0 })
	if year <= yearCacheHorizon {
		actual, _ := r.yearCache.LoadOrStore(year, transitions)
		return actual.([]ZoneOffsetTransition), nil
	}
	return transitions, nil
}

// NextTransition returns the first transition strictly after
// epochSeconds, if any.
func (r *StandardZoneRules) NextTransition(epochSeconds int64) (ZoneOffsetTransition, bool, error) {
	idx := sort.Search(len(r.wallTransitionEpochSeconds), func(i int) bool {
		return r.wallTransitionEpochSeconds[i] > epochSeconds
	})
	if idx < len(r.wallTransitionEpochSeconds) {
		return r.historicalTransition(idx), true, nil
	}
	if len(r.lastRules) == 0 {
		return ZoneOffsetTransition{}, false, nil
	}
	year := EpochSecondsToLocalDateTime(epochSeconds).Year
	for y := year; y <= year+2; y++ {
		transitions, err := r.yearTransitions(y)
		if err != nil {
			return ZoneOffsetTransition{}, false, err
		}
		for _, t := range transitions {
			if t.InstantEpochSeconds() > epochSeconds {
				return t, true, nil
			}
		}
	}
	return ZoneOffsetTransition{}, false, nil
}

// PreviousTransition returns the last transition strictly before
// epochSeconds, if any.
func (r *StandardZoneRules) PreviousTransition(epochSeconds int64) (ZoneOffsetTransition, bool, error) {
	n := len(r.wallTransitionEpochSeconds)
	year := EpochSecondsToLocalDateTime(epochSeconds).Year
	for y := year; y >= year-2; y-- {
		transitions, err := r.yearTransitions(y)
		if err != nil {
			return ZoneOffsetTransition{}, false, err
		}
		for i := len(transitions) - 1; i >= 0; i-- {
			// Rule-generated transitions only apply after the historical tail.
			at := transitions[i].InstantEpochSeconds()
			if at < epochSeconds && (n == 0 || at > r.wallTransitionEpochSeconds[n-1]) {
				return transitions[i], true, nil
			}
		}
	}
	idx := searchLastLE(r.wallTransitionEpochSeconds, epochSeconds-1)
	if idx < 0 {
		return ZoneOffsetTransition{}, false, nil
	}
	return r.historicalTransition(idx), true, nil
}

func (r *StandardZoneRules) historicalTransition(idx int) ZoneOffsetTransition {
	epochSec := r.wallTransitionEpochSeconds[idx]
	before, after := r.wallOffsets[idx], r.wallOffsets[idx+1]
	localBefore := EpochSecondsToLocalDateTime(epochSec + int64(before.TotalSeconds()))
	t, _ := NewZoneOffsetTransition(localBefore, before, after)
	return t
}

// OffsetInfoAtLocal classifies ldt as normal, in a gap, or in an
// overlap, per the paired savings_local_transitions array.
func (r *StandardZoneRules) OffsetInfoAtLocal(ldt LocalDateTime) (OffsetInfo, error) {
	if len(r.wallTransitionEpochSeconds) > 0 {
		lastWallEpoch := r.wallTransitionEpochSeconds[len(r.wallTransitionEpochSeconds)-1]
		lastOffset := r.wallOffsets[len(r.wallOffsets)-1]
		lastLocal := EpochSecondsToLocalDateTime(lastWallEpoch + int64(lastOffset.TotalSeconds()))
		if ldt.Compare(lastLocal) >= 0 {
			return r.offsetInfoFromRules(ldt)
		}
	} else {
		return r.offsetInfoFromRules(ldt)
	}

	idx := sort.Search(len(r.savingsLocalTransitions), func(i int) bool {
		return r.savingsLocalTransitions[i].Compare(ldt) > 0
	}) - 1
	if idx < 0 {
		return NormalOffsetInfo(r.wallOffsets[0]), nil
	}
	transitionIdx := idx / 2
	t := r.historicalTransition(transitionIdx)
	if idx%2 == 0 {
		// ldt falls between the pair's two boundary local date-times:
		// inside the gap or overlap.
		return TransitionOffsetInfo(t), nil
	}
	// Past the pair's later boundary but before the next transition's
	// pair: ldt is in ordinary wall time under the after-offset.
	return NormalOffsetInfo(t.OffsetAfter()), nil
}

func (r *StandardZoneRules) offsetInfoFromRules(ldt LocalDateTime) (OffsetInfo, error) {
	if len(r.lastRules) == 0 {
		offset := r.wallOffsets[len(r.wallOffsets)-1]
		return NormalOffsetInfo(offset), nil
	}
	for _, year := range []int{ldt.Year - 1, ldt.Year, ldt.Year + 1} {
		transitions, err := r.yearTransitions(year)
		if err != nil {
			return OffsetInfo{}, err
		}
		for _, t := range transitions {
			before, after := t.LocalBefore(), t.LocalAfter()
			lo, hi := before, after
			if after.Compare(before) < 0 {
				lo, hi = after, before
			}
			if ldt.Compare(lo) >= 0 && ldt.Compare(hi) < 0 {
				return TransitionOffsetInfo(t), nil
			}
		}
	}
	offset, err := r.OffsetAtInstant(ldt.ToEpochSeconds())
	if err != nil {
		return OffsetInfo{}, err
	}
	return NormalOffsetInfo(offset), nil
}

// FixedRules is the degenerate ZoneRules for a fixed-offset zone
// ("Z", "+HH:MM"): empty transitions, a single constant offset.
type FixedRules struct {
	Offset ZoneOffset
}

func (f FixedRules) IsFixedOffset() bool { return true }

func (f FixedRules) OffsetAtInstant(int64) (ZoneOffset, error) { return f.Offset, nil }

func (f FixedRules) StandardOffsetAtInstant(int64) (ZoneOffset, error) { return f.Offset, nil }

func (f FixedRules) OffsetInfoAtLocal(LocalDateTime) (OffsetInfo, error) {
	return NormalOffsetInfo(f.Offset), nil
}

func (f FixedRules) NextTransition(int64) (ZoneOffsetTransition, bool, error) {
	return ZoneOffsetTransition{}, false, nil
}

func (f FixedRules) PreviousTransition(int64) (ZoneOffsetTransition, bool, error) {
	return ZoneOffsetTransition{}, false, nil
}
