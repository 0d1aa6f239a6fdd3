package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

// Offset prefix bytes: minute-granularity values (the common case for
// every real-world UT offset) cost a 1-byte prefix plus 2 data bytes;
// anything not a whole number of minutes falls back to second
// granularity, 1 byte prefix plus 3 data bytes (offsets span +-18:00,
// i.e. +-64800 seconds, which does not fit a 16-bit count of seconds
// but does fit 24 bits).
const (
	offsetMinutePrefix = 0
	offsetSecondPrefix = 1
)

func encodeOffset(buf *bytes.Buffer, o zone.ZoneOffset) error {
	total := o.TotalSeconds()
	if total%60 == 0 {
		minutes := total / 60
		if minutes >= -32768 && minutes <= 32767 {
			buf.WriteByte(offsetMinutePrefix)
			return binary.Write(buf, order, int16(minutes))
		}
	}
	buf.WriteByte(offsetSecondPrefix)
	return writeInt24(buf, total)
}

func decodeOffset(r *bytes.Reader) (zone.ZoneOffset, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return zone.ZoneOffset{}, fmt.Errorf("%w: reading offset prefix: %v", tzerr.ErrParse, err)
	}
	switch prefix {
	case offsetMinutePrefix:
		var minutes int16
		if err := binary.Read(r, order, &minutes); err != nil {
			return zone.ZoneOffset{}, fmt.Errorf("%w: reading minute offset: %v", tzerr.ErrParse, err)
		}
		return zone.OfTotalSeconds(int32(minutes) * 60)
	case offsetSecondPrefix:
		seconds, err := readInt24(r)
		if err != nil {
			return zone.ZoneOffset{}, err
		}
		return zone.OfTotalSeconds(seconds)
	default:
		return zone.ZoneOffset{}, fmt.Errorf("%w: invalid offset prefix byte %d", tzerr.ErrParse, prefix)
	}
}

// Epoch-second prefix bytes. Every value is stored as a delta from a
// rolling reference (the previous entry in the same stream, starting at
// 0), since consecutive historical and rule-generated transitions are
// almost always an exact number of hours apart (ordinary yearly DST
// boundaries) or minutes apart (older, irregular transitions); the i64
// absolute fallback only costs extra bytes for the rare outlier.
const (
	epochHourDeltaPrefix   = 0
	epochMinuteDeltaPrefix = 1
	epochAbsolutePrefix    = 2
)

func encodeEpochSeconds(buf *bytes.Buffer, value, reference int64) error {
	delta := value - reference
	if delta%3600 == 0 {
		hours := delta / 3600
		if hours >= -32768 && hours <= 32767 {
			buf.WriteByte(epochHourDeltaPrefix)
			return binary.Write(buf, order, int16(hours))
		}
	}
	if delta%60 == 0 {
		minutes := delta / 60
		if minutes >= -8388608 && minutes <= 8388607 {
			buf.WriteByte(epochMinuteDeltaPrefix)
			return writeInt24(buf, int32(minutes))
		}
	}
	buf.WriteByte(epochAbsolutePrefix)
	return binary.Write(buf, order, value)
}

func decodeEpochSeconds(r *bytes.Reader, reference int64) (int64, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: reading epoch-second prefix: %v", tzerr.ErrParse, err)
	}
	switch prefix {
	case epochHourDeltaPrefix:
		var hours int16
		if err := binary.Read(r, order, &hours); err != nil {
			return 0, fmt.Errorf("%w: reading hour delta: %v", tzerr.ErrParse, err)
		}
		return reference + int64(hours)*3600, nil
	case epochMinuteDeltaPrefix:
		minutes, err := readInt24(r)
		if err != nil {
			return 0, err
		}
		return reference + int64(minutes)*60, nil
	case epochAbsolutePrefix:
		var v int64
		if err := binary.Read(r, order, &v); err != nil {
			return 0, fmt.Errorf("%w: reading absolute epoch seconds: %v", tzerr.ErrParse, err)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("%w: invalid epoch-second prefix byte %d", tzerr.ErrParse, prefix)
	}
}

// writeInt24 writes the low 24 bits of v's two's-complement
// representation, big-endian. v must fit in [-8388608, 8388607].
func writeInt24(buf *bytes.Buffer, v int32) error {
	if v < -8388608 || v > 8388607 {
		return fmt.Errorf("%w: value %d does not fit in 24 bits", tzerr.ErrOverflow, v)
	}
	u := uint32(v) & 0xFFFFFF
	buf.WriteByte(byte(u >> 16))
	buf.WriteByte(byte(u >> 8))
	buf.WriteByte(byte(u))
	return nil
}

func readInt24(r *bytes.Reader) (int32, error) {
	b0, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: reading 24-bit value: %v", tzerr.ErrParse, err)
	}
	b1, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: reading 24-bit value: %v", tzerr.ErrParse, err)
	}
	b2, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: reading 24-bit value: %v", tzerr.ErrParse, err)
	}
	u := uint32(b0)<<16 | uint32(b1)<<8 | uint32(b2)
	if u&0x800000 != 0 {
		u |= 0xFF000000
	}
	return int32(u), nil
}
