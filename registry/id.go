package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

// ID is a parsed zone identifier: group_id:region_id#version_id, with
// group_id: and #version_id both optional, or one of the fixed-offset
// forms Z / +-HH:MM[:SS].
type ID struct {
	GroupID   string
	RegionID  string
	VersionID string // "" means floating: resolve to the latest applicable version.

	Fixed       bool
	FixedOffset zone.ZoneOffset
}

// String renders id back to its canonical textual form.
func (id ID) String() string {
	if id.Fixed {
		return id.FixedOffset.String()
	}
	var b strings.Builder
	if id.GroupID != "" {
		b.WriteString(id.GroupID)
		b.WriteByte(':')
	}
	b.WriteString(id.RegionID)
	if id.VersionID != "" {
		b.WriteByte('#')
		b.WriteString(id.VersionID)
	}
	return b.String()
}

// ParseID parses the zone id syntax described in the archive/registry
// interface: group_id:region_id#version_id (group and version both
// optional), or a fixed-offset id ("Z", "+02:00", "-05:30:00").
func ParseID(s string) (ID, error) {
	if s == "" {
		return ID{}, fmt.Errorf("%w: empty zone id", tzerr.ErrParse)
	}
	if offset, ok := parseFixedOffset(s); ok {
		return ID{Fixed: true, FixedOffset: offset}, nil
	}

	rest := s
	versionID := ""
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		versionID = rest[i+1:]
		rest = rest[:i]
		if versionID == "" {
			return ID{}, fmt.Errorf("%w: empty version in zone id %q", tzerr.ErrParse, s)
		}
	}

	groupID := ""
	regionID := rest
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		groupID = rest[:i]
		regionID = rest[i+1:]
		if groupID == "" {
			return ID{}, fmt.Errorf("%w: empty group in zone id %q", tzerr.ErrParse, s)
		}
	}
	if regionID == "" {
		return ID{}, fmt.Errorf("%w: empty region in zone id %q", tzerr.ErrParse, s)
	}

	return ID{GroupID: groupID, RegionID: regionID, VersionID: versionID}, nil
}

// parseFixedOffset recognises "Z" and "+-HH:MM[:SS]".
func parseFixedOffset(s string) (zone.ZoneOffset, bool) {
	if s == "Z" {
		return zone.UTC, true
	}
	if len(s) < 6 || (s[0] != '+' && s[0] != '-') {
		return zone.ZoneOffset{}, false
	}
	neg := s[0] == '-'
	fields := strings.Split(s[1:], ":")
	if len(fields) < 2 || len(fields) > 3 {
		return zone.ZoneOffset{}, false
	}
	values := make([]int, len(fields))
	for i, f := range fields {
		if len(f) != 2 {
			return zone.ZoneOffset{}, false
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return zone.ZoneOffset{}, false
		}
		values[i] = v
	}
	hours, minutes := values[0], values[1]
	seconds := 0
	if len(values) == 3 {
		seconds = values[2]
	}
	if neg {
		hours, minutes, seconds = -hours, -minutes, -seconds
	}
	offset, err := zone.Of(hours, minutes, seconds)
	if err != nil {
		return zone.ZoneOffset{}, false
	}
	return offset, true
}
