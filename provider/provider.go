// Package provider materialises zone rules out of an archive.Archive
// lazily, one (version, region) pair at a time, caching each result so
// repeated lookups never re-decode.
package provider

import (
	"fmt"
	"sync"

	"github.com/dimensia/tzcore/archive"
	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

// Provider wraps one archive.Archive and caches the zone.StandardZoneRules
// it materialises on demand. A zero Provider is not usable; construct
// one with New.
type Provider struct {
	archive archive.Archive

	// cache holds materialisation results keyed by archive.RuleIndex.
	// Lazily populated, one entry per distinct rule index actually
	// requested; a failed materialisation is never stored, so a later
	// retry can attempt again.
	mu    sync.Mutex
	cache map[archive.RuleIndex]*zone.StandardZoneRules
}

// New wraps a already-decoded archive. The archive's RawRules stay
// encoded; nothing is materialised until first use.
func New(a archive.Archive) *Provider {
	return &Provider{
		archive: a,
		cache:   make(map[archive.RuleIndex]*zone.StandardZoneRules),
	}
}

// GroupID is the group this provider serves.
func (p *Provider) GroupID() string { return p.archive.GroupID }

// Versions lists every version id this provider's archive carries.
func (p *Provider) Versions() []string { return p.archive.Versions }

// RegionsForVersion lists the regions a version publishes rules for.
func (p *Provider) RegionsForVersion(version string) []string {
	return p.archive.RegionsForVersion(version)
}

// Rules materialises (and caches) the rule set for (version, region),
// decoding it from the archive's rule pool on first request.
func (p *Provider) Rules(version, region string) (*zone.StandardZoneRules, error) {
	idx, ok := p.archive.RuleIndexFor(version, region)
	if !ok {
		return nil, fmt.Errorf("%w: no rules for %s/%s in group %q", tzerr.ErrConfiguration, version, region, p.archive.GroupID)
	}
	return p.RulesAt(idx)
}

// RulesAt materialises the rule set at a raw archive.RuleIndex,
// bypassing the (version, region) lookup. Rules calls it once it has
// resolved the index.
func (p *Provider) RulesAt(idx archive.RuleIndex) (*zone.StandardZoneRules, error) {
	p.mu.Lock()
	if cached, ok := p.cache[idx]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.mu.Unlock()

	rules, err := p.archive.DecodeRuleAt(idx)
	if err != nil {
		return nil, fmt.Errorf("materialising rule index %d: %w", idx, err)
	}

	p.mu.Lock()
	// Another goroutine may have populated the slot first; last writer
	// loses, first writer's equivalent result wins, matching the
	// put-if-absent semantics the year-rule cache in zone also follows.
	if cached, ok := p.cache[idx]; ok {
		p.mu.Unlock()
		return cached, nil
	}
	p.cache[idx] = rules
	p.mu.Unlock()
	return rules, nil
}
