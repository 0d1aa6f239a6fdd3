// Package archive implements the binary file format one group of
// time-zone rule versions is serialised to and read back from: a
// header naming the group and listing its versions and regions,
// followed by a deduplicated pool of encoded zone rules that every
// version's regions index into.
package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

var order = binary.BigEndian

// Version is the archive format's own version byte. Only format
// version 1 is currently understood.
const Version uint8 = 1

// RuleIndex addresses one entry in an Archive's deduplicated rule
// pool.
type RuleIndex uint16

// RegionRule pairs a region (by index into Archive.Regions) with the
// rule set (by index into Archive.RawRules) its version uses.
type RegionRule struct {
	RegionIndex uint16
	RuleIndex   RuleIndex
}

// Archive is the in-memory form of one group's rule file: every
// version names a subset of regions, and every (version, region) pair
// resolves to one rule set in the shared pool.
//
// Rules are kept as their still-encoded per-rule byte records, not as
// materialised *zone.StandardZoneRules: a loaded Archive holds the raw
// catalogue, and DecodeRuleAt does the actual parsing on demand. This
// is what lets a provider cache materialised rules lazily, per
// (version, region), instead of paying to decode an entire archive's
// rule pool up front.
type Archive struct {
	GroupID  string
	Versions []string
	Regions  []string // sorted, unique

	// Entries[v] holds version Versions[v]'s region/rule pairs, sorted
	// by RegionIndex.
	Entries [][]RegionRule

	// RawRules is the deduplicated pool of still-encoded rule records;
	// multiple (version, region) pairs, including across versions, may
	// share the same RuleIndex when their rules are byte-identical.
	RawRules [][]byte
}

const maxTableEntries = 1<<16 - 1

// Build assembles an Archive from a group ID and, for every version,
// the region->rules mapping that version publishes. Versions and their
// regions are sorted for determinism; identical rule sets (byte-for-byte,
// including across different versions) collapse to one pool entry.
func Build(groupID string, versionRegions map[string]map[string]*zone.StandardZoneRules) (Archive, error) {
	versions := make([]string, 0, len(versionRegions))
	regionSet := map[string]struct{}{}
	for v, regions := range versionRegions {
		versions = append(versions, v)
		for region := range regions {
			regionSet[region] = struct{}{}
		}
	}
	sort.Strings(versions)
	if len(versions) > maxTableEntries {
		return Archive{}, fmt.Errorf("%w: %d versions exceeds the %d archive limit", tzerr.ErrInvalidField, len(versions), maxTableEntries)
	}

	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	if len(regions) > maxTableEntries {
		return Archive{}, fmt.Errorf("%w: %d regions exceeds the %d archive limit", tzerr.ErrInvalidField, len(regions), maxTableEntries)
	}
	regionIndex := make(map[string]int, len(regions))
	for i, r := range regions {
		regionIndex[r] = i
	}

	ruleIndexByEncoding := map[string]int{}
	var pool [][]byte

	entries := make([][]RegionRule, len(versions))
	for vi, v := range versions {
		for region, rules := range versionRegions[v] {
			encoded, err := encodeRule(rules)
			if err != nil {
				return Archive{}, fmt.Errorf("encoding rules for %s/%s: %w", v, region, err)
			}
			key := string(encoded)
			idx, ok := ruleIndexByEncoding[key]
			if !ok {
				if len(pool) > maxTableEntries {
					return Archive{}, fmt.Errorf("%w: rule pool exceeds the %d archive limit", tzerr.ErrInvalidField, maxTableEntries)
				}
				idx = len(pool)
				pool = append(pool, encoded)
				ruleIndexByEncoding[key] = idx
			}
			entries[vi] = append(entries[vi], RegionRule{
				RegionIndex: uint16(regionIndex[region]),
				RuleIndex:   RuleIndex(idx),
			})
		}
		sort.Slice(entries[vi], func(a, b int) bool { return entries[vi][a].RegionIndex < entries[vi][b].RegionIndex })
	}

	return Archive{
		GroupID:  groupID,
		Versions: versions,
		Regions:  regions,
		Entries:  entries,
		RawRules: pool,
	}, nil
}

// Encode writes the archive in its binary wire format.
func Encode(w io.Writer, a Archive) error {
	if err := writeU8(w, Version); err != nil {
		return err
	}
	if err := writeString(w, a.GroupID); err != nil {
		return err
	}

	if err := writeU16(w, len(a.Versions)); err != nil {
		return err
	}
	for _, v := range a.Versions {
		if err := writeString(w, v); err != nil {
			return err
		}
	}

	if err := writeU16(w, len(a.Regions)); err != nil {
		return err
	}
	for _, r := range a.Regions {
		if err := writeString(w, r); err != nil {
			return err
		}
	}

	if len(a.Entries) != len(a.Versions) {
		return fmt.Errorf("%w: %d entry lists for %d versions", tzerr.ErrInvalidField, len(a.Entries), len(a.Versions))
	}
	for _, entries := range a.Entries {
		if err := writeU16(w, len(entries)); err != nil {
			return err
		}
		for _, e := range entries {
			if err := writeU16(w, int(e.RegionIndex)); err != nil {
				return err
			}
			if err := writeU16(w, int(e.RuleIndex)); err != nil {
				return err
			}
		}
	}

	if err := writeU16(w, len(a.RawRules)); err != nil {
		return err
	}
	for _, encoded := range a.RawRules {
		if len(encoded) > maxTableEntries {
			return fmt.Errorf("%w: encoded rule is %d bytes, exceeds the %d limit", tzerr.ErrInvalidField, len(encoded), maxTableEntries)
		}
		if err := writeU16(w, len(encoded)); err != nil {
			return err
		}
		if _, err := w.Write(encoded); err != nil {
			return err
		}
	}

	return nil
}

// Decode reads an archive previously written by Encode.
func Decode(r io.Reader) (Archive, error) {
	version, err := readU8(r)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: reading archive version: %v", tzerr.ErrParse, err)
	}
	if version != Version {
		return Archive{}, fmt.Errorf("%w: unsupported archive version %d", tzerr.ErrInvalidField, version)
	}

	groupID, err := readString(r)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: reading group id: %v", tzerr.ErrParse, err)
	}

	versionCount, err := readU16(r)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: reading version count: %v", tzerr.ErrParse, err)
	}
	versions := make([]string, versionCount)
	for i := range versions {
		versions[i], err = readString(r)
		if err != nil {
			return Archive{}, fmt.Errorf("%w: reading version id %d: %v", tzerr.ErrParse, i, err)
		}
	}

	regionCount, err := readU16(r)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: reading region count: %v", tzerr.ErrParse, err)
	}
	regions := make([]string, regionCount)
	for i := range regions {
		regions[i], err = readString(r)
		if err != nil {
			return Archive{}, fmt.Errorf("%w: reading region id %d: %v", tzerr.ErrParse, i, err)
		}
	}

	entries := make([][]RegionRule, versionCount)
	for vi := range entries {
		n, err := readU16(r)
		if err != nil {
			return Archive{}, fmt.Errorf("%w: reading entry count for version %d: %v", tzerr.ErrParse, vi, err)
		}
		regionRules := make([]RegionRule, n)
		for i := range regionRules {
			regionIdx, err := readU16(r)
			if err != nil {
				return Archive{}, fmt.Errorf("%w: reading region index: %v", tzerr.ErrParse, err)
			}
			ruleIdx, err := readU16(r)
			if err != nil {
				return Archive{}, fmt.Errorf("%w: reading rule index: %v", tzerr.ErrParse, err)
			}
			if regionIdx >= len(regions) {
				return Archive{}, fmt.Errorf("%w: region index %d out of range (%d regions)", tzerr.ErrInvalidField, regionIdx, len(regions))
			}
			regionRules[i] = RegionRule{RegionIndex: uint16(regionIdx), RuleIndex: RuleIndex(ruleIdx)}
		}
		entries[vi] = regionRules
	}

	ruleCount, err := readU16(r)
	if err != nil {
		return Archive{}, fmt.Errorf("%w: reading rule count: %v", tzerr.ErrParse, err)
	}
	rawRules := make([][]byte, ruleCount)
	for i := range rawRules {
		length, err := readU16(r)
		if err != nil {
			return Archive{}, fmt.Errorf("%w: reading rule %d length: %v", tzerr.ErrParse, i, err)
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return Archive{}, fmt.Errorf("%w: reading rule %d body: %v", tzerr.ErrParse, i, err)
		}
		rawRules[i] = buf
	}

	for vi, regionRules := range entries {
		for _, rr := range regionRules {
			if int(rr.RuleIndex) >= len(rawRules) {
				return Archive{}, fmt.Errorf("%w: version %d references rule index %d, pool has %d", tzerr.ErrInvalidField, vi, rr.RuleIndex, len(rawRules))
			}
		}
	}

	return Archive{
		GroupID:  groupID,
		Versions: versions,
		Regions:  regions,
		Entries:  entries,
		RawRules: rawRules,
	}, nil
}

// VersionIndex returns the index of version id v, if present.
func (a Archive) VersionIndex(v string) (int, bool) {
	i := sort.SearchStrings(a.Versions, v)
	if i < len(a.Versions) && a.Versions[i] == v {
		return i, true
	}
	return -1, false
}

// RegionIndex returns the index of region id r, if present.
func (a Archive) RegionIndex(r string) (int, bool) {
	i := sort.SearchStrings(a.Regions, r)
	if i < len(a.Regions) && a.Regions[i] == r {
		return i, true
	}
	return -1, false
}

// RuleIndexFor resolves (version, region) to its index into RawRules,
// without decoding anything. This is the lookup a provider performs
// before consulting or populating its materialisation cache.
func (a Archive) RuleIndexFor(version, region string) (RuleIndex, bool) {
	vi, ok := a.VersionIndex(version)
	if !ok {
		return 0, false
	}
	ri, ok := a.RegionIndex(region)
	if !ok {
		return 0, false
	}
	entries := a.Entries[vi]
	j := sort.Search(len(entries), func(i int) bool { return int(entries[i].RegionIndex) >= ri })
	if j >= len(entries) || int(entries[j].RegionIndex) != ri {
		return 0, false
	}
	return entries[j].RuleIndex, true
}

// DecodeRuleAt materialises the rule set at idx. Every call re-decodes
// from RawRules; callers that query the same index repeatedly should
// cache the result themselves (see package provider).
func (a Archive) DecodeRuleAt(idx RuleIndex) (*zone.StandardZoneRules, error) {
	if int(idx) >= len(a.RawRules) {
		return nil, fmt.Errorf("%w: rule index %d out of range (%d rules)", tzerr.ErrInvalidField, idx, len(a.RawRules))
	}
	return decodeRule(a.RawRules[idx])
}

// Lookup resolves (version, region) directly to a materialised rule
// set, decoding on every call. Convenience for callers (tests, simple
// tools) that do not need a provider's caching.
func (a Archive) Lookup(version, region string) (*zone.StandardZoneRules, bool) {
	idx, ok := a.RuleIndexFor(version, region)
	if !ok {
		return nil, false
	}
	rules, err := a.DecodeRuleAt(idx)
	if err != nil {
		return nil, false
	}
	return rules, true
}

// RegionsForVersion lists the region ids version v publishes rules for.
func (a Archive) RegionsForVersion(version string) []string {
	vi, ok := a.VersionIndex(version)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(a.Entries[vi]))
	for _, e := range a.Entries[vi] {
		out = append(out, a.Regions[e.RegionIndex])
	}
	return out
}

func writeU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func readU8(r io.Reader) (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func writeU16(w io.Writer, v int) error {
	if v < 0 || v > maxTableEntries {
		return fmt.Errorf("%w: value %d does not fit a u16 table length", tzerr.ErrOverflow, v)
	}
	return binary.Write(w, order, uint16(v))
}

func readU16(r io.Reader) (int, error) {
	var v uint16
	if err := binary.Read(r, order, &v); err != nil {
		return 0, err
	}
	return int(v), nil
}

func writeString(w io.Writer, s string) error {
	if err := writeU16(w, len(s)); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readU16(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
