package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

// maxLastRules mirrors zone.NewStandardZoneRules' own limit; checked
// again here so a corrupt archive is rejected before it ever reaches
// that constructor.
const maxLastRules = 15

// encodeRule writes one zone's rules in the per-rule stream layout:
// a standard-offset transition array, a wall-offset transition array,
// then a tail of recurring transition-rule records.
func encodeRule(rules *zone.StandardZoneRules) ([]byte, error) {
	stdTransitions, stdOffsets, wallTransitions, wallOffsets, lastRules := rules.Components()

	var buf bytes.Buffer

	if err := binary.Write(&buf, order, int32(len(stdTransitions))); err != nil {
		return nil, err
	}
	if err := encodeEpochSecondsArray(&buf, stdTransitions); err != nil {
		return nil, err
	}
	for _, o := range stdOffsets {
		if err := encodeOffset(&buf, o); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(&buf, order, int32(len(wallTransitions))); err != nil {
		return nil, err
	}
	if err := encodeEpochSecondsArray(&buf, wallTransitions); err != nil {
		return nil, err
	}
	for _, o := range wallOffsets {
		if err := encodeOffset(&buf, o); err != nil {
			return nil, err
		}
	}

	if len(lastRules) > maxLastRules {
		return nil, fmt.Errorf("%w: %d last-rules exceeds the %d limit", tzerr.ErrInvalidField, len(lastRules), maxLastRules)
	}
	buf.WriteByte(byte(len(lastRules)))
	for _, lr := range lastRules {
		if err := encodeTransitionRule(&buf, lr); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodeRule(data []byte) (*zone.StandardZoneRules, error) {
	r := bytes.NewReader(data)

	var sCount int32
	if err := binary.Read(r, order, &sCount); err != nil {
		return nil, fmt.Errorf("%w: reading standard transition count: %v", tzerr.ErrParse, err)
	}
	stdTransitions, err := decodeEpochSecondsArray(r, int(sCount))
	if err != nil {
		return nil, err
	}
	stdOffsets := make([]zone.ZoneOffset, sCount+1)
	for i := range stdOffsets {
		o, err := decodeOffset(r)
		if err != nil {
			return nil, err
		}
		stdOffsets[i] = o
	}

	var wCount int32
	if err := binary.Read(r, order, &wCount); err != nil {
		return nil, fmt.Errorf("%w: reading wall transition count: %v", tzerr.ErrParse, err)
	}
	wallTransitions, err := decodeEpochSecondsArray(r, int(wCount))
	if err != nil {
		return nil, err
	}
	wallOffsets := make([]zone.ZoneOffset, wCount+1)
	for i := range wallOffsets {
		o, err := decodeOffset(r)
		if err != nil {
			return nil, err
		}
		wallOffsets[i] = o
	}

	lCount, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading last-rule count: %v", tzerr.ErrParse, err)
	}
	if int(lCount) > maxLastRules {
		return nil, fmt.Errorf("%w: archive declares %d last-rules, limit is %d", tzerr.ErrInvalidField, lCount, maxLastRules)
	}
	lastRules := make([]zone.ZoneOffsetTransitionRule, lCount)
	for i := range lastRules {
		lr, err := decodeTransitionRule(r)
		if err != nil {
			return nil, err
		}
		lastRules[i] = lr
	}

	return zone.NewStandardZoneRules(stdTransitions, stdOffsets, wallTransitions, wallOffsets, lastRules)
}

func encodeEpochSecondsArray(buf *bytes.Buffer, values []int64) error {
	ref := int64(0)
	for _, v := range values {
		if err := encodeEpochSeconds(buf, v, ref); err != nil {
			return err
		}
		ref = v
	}
	return nil
}

func decodeEpochSecondsArray(r *bytes.Reader, count int) ([]int64, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: negative transition count %d", tzerr.ErrInvalidField, count)
	}
	values := make([]int64, count)
	ref := int64(0)
	for i := range values {
		v, err := decodeEpochSeconds(r, ref)
		if err != nil {
			return nil, err
		}
		values[i] = v
		ref = v
	}
	return values, nil
}

func encodeTransitionRule(buf *bytes.Buffer, r zone.ZoneOffsetTransitionRule) error {
	buf.WriteByte(byte(r.Month))
	buf.WriteByte(byte(int8(r.DayOfMonthIndicator)))
	buf.WriteByte(byte(r.DayOfWeek))
	if err := binary.Write(buf, order, int32(r.TimeOfDaySeconds)); err != nil {
		return err
	}
	var endOfDay byte
	if r.EndOfDay {
		endOfDay = 1
	}
	buf.WriteByte(endOfDay)
	buf.WriteByte(byte(r.TimeDefinition))
	if err := encodeOffset(buf, r.StandardOffset); err != nil {
		return err
	}
	if err := encodeOffset(buf, r.OffsetBefore); err != nil {
		return err
	}
	return encodeOffset(buf, r.OffsetAfter)
}

func decodeTransitionRule(r *bytes.Reader) (zone.ZoneOffsetTransitionRule, error) {
	var out zone.ZoneOffsetTransitionRule

	month, err := r.ReadByte()
	if err != nil {
		return out, fmt.Errorf("%w: reading rule month: %v", tzerr.ErrParse, err)
	}
	dom, err := r.ReadByte()
	if err != nil {
		return out, fmt.Errorf("%w: reading rule day-of-month indicator: %v", tzerr.ErrParse, err)
	}
	dow, err := r.ReadByte()
	if err != nil {
		return out, fmt.Errorf("%w: reading rule day-of-week: %v", tzerr.ErrParse, err)
	}
	var timeOfDay int32
	if err := binary.Read(r, order, &timeOfDay); err != nil {
		return out, fmt.Errorf("%w: reading rule time-of-day: %v", tzerr.ErrParse, err)
	}
	endOfDay, err := r.ReadByte()
	if err != nil {
		return out, fmt.Errorf("%w: reading rule end-of-day flag: %v", tzerr.ErrParse, err)
	}
	timeDef, err := r.ReadByte()
	if err != nil {
		return out, fmt.Errorf("%w: reading rule time definition: %v", tzerr.ErrParse, err)
	}
	std, err := decodeOffset(r)
	if err != nil {
		return out, err
	}
	before, err := decodeOffset(r)
	if err != nil {
		return out, err
	}
	after, err := decodeOffset(r)
	if err != nil {
		return out, err
	}

	out = zone.ZoneOffsetTransitionRule{
		Month:               int(month),
		DayOfMonthIndicator: int(int8(dom)),
		DayOfWeek:           int(dow),
		TimeOfDaySeconds:    int(timeOfDay),
		EndOfDay:            endOfDay != 0,
		TimeDefinition:      zone.TimeDefinition(timeDef),
		StandardOffset:      std,
		OffsetBefore:        before,
		OffsetAfter:         after,
	}
	return out, nil
}
