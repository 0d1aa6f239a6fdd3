package utctime

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dimensia/tzcore/internal/unixtime"
	"github.com/dimensia/tzcore/tzerr"
)

// ParseLeapSecondFile reads the UTF-8 leap-second resource format: one
// record per non-blank, non-comment ('#') line, whitespace-separated
// "YYYY-MM-DD N" where N is the cumulative TAI-UTC offset in whole
// seconds after the end of that day. Field-level errors accumulate via
// errors.Join, mirroring the line-oriented scanning and per-line error
// wrapping the TZDB text parser uses.
func ParseLeapSecondFile(r io.Reader) (*LeapSecondTable, error) {
	scanner := bufio.NewScanner(r)
	var dates []int64
	var offsets []int64
	var errs []error
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}
		mjd, offset, err := parseLeapLine(line)
		if err != nil {
			errs = append(errs, &tzerr.ParseError{Text: line, Index: lineNo, Err: err})
			continue
		}
		dates = append(dates, mjd)
		offsets = append(offsets, offset)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewLeapSecondTable(dates, offsets)
}

func parseLeapLine(line string) (mjd int64, offset int64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected \"YYYY-MM-DD N\", got %q", line)
	}
	mjd, err = parseISODateToMJD(fields[0])
	if err != nil {
		return 0, 0, err
	}
	offset, err = strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid offset %q: %w", fields[1], err)
	}
	return mjd, offset, nil
}

func parseISODateToMJD(s string) (int64, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid year in %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, fmt.Errorf("invalid day in %q: %w", s, err)
	}
	epochSeconds := unixtime.FromDateTime(year, month, day, 0, 0, 0)
	return epochSeconds/secondsPerDay + mjdUnixEpoch, nil
}
