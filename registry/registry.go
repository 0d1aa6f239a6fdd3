// Package registry is the process-wide map from group id to the
// versions and regions its registered providers publish, and resolves
// a parsed zone ID to a zone.ZoneRules: fixed-offset directly, named
// zones through whichever provider covers the requested (or latest
// applicable) version.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dimensia/tzcore/provider"
	"github.com/dimensia/tzcore/tzerr"
	"github.com/dimensia/tzcore/zone"
)

// Registry holds every provider registered for each group id. It is
// treated as write-once at startup: RegisterProvider is expected to run
// during initialisation, after which the query path (Resolve) only
// reads.
type Registry struct {
	mu        sync.RWMutex
	providers map[string][]*provider.Provider
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{providers: make(map[string][]*provider.Provider)}
}

// Default is the process-wide registry. Package-level mutable state,
// guarded by Registry's own mutex; callers that want isolation (tests,
// multiple independent configurations within one process) should build
// their own Registry with New instead.
var Default = New()

// RegisterProvider merges p's versions into the group its archive
// declares (p.GroupID()). Multiple providers may be registered for the
// same group, e.g. as successive TZDB releases are loaded.
func (r *Registry) RegisterProvider(p *provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.GroupID()] = append(r.providers[p.GroupID()], p)
}

// Groups lists every group id with at least one registered provider.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for g := range r.providers {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Resolve maps a parsed ID to its zone.ZoneRules. referenceEpochSeconds
// is only consulted for floating (version-less) ids: it picks the
// highest-sorted version whose region set contains id.RegionID and
// whose materialised rules are valid at that instant.
func (r *Registry) Resolve(id ID, referenceEpochSeconds int64) (zone.ZoneRules, error) {
	if id.Fixed {
		return zone.FixedRules{Offset: id.FixedOffset}, nil
	}

	r.mu.RLock()
	providers := append([]*provider.Provider(nil), r.providers[id.GroupID]...)
	r.mu.RUnlock()
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: unregistered group %q", tzerr.ErrConfiguration, id.GroupID)
	}

	if id.VersionID != "" {
		for _, p := range providers {
			if !containsString(p.Versions(), id.VersionID) {
				continue
			}
			if !containsString(p.RegionsForVersion(id.VersionID), id.RegionID) {
				continue
			}
			return p.Rules(id.VersionID, id.RegionID)
		}
		return nil, fmt.Errorf("%w: %s not found in %s#%s", tzerr.ErrConfiguration, id.RegionID, id.GroupID, id.VersionID)
	}

	return r.resolveFloating(providers, id, referenceEpochSeconds)
}

// resolveFloating implements the Open Question #3 decision: plain
// lexicographic ordering on version ids, filtered to versions that
// cover the region and whose rules resolve cleanly at the reference
// instant.
func (r *Registry) resolveFloating(providers []*provider.Provider, id ID, referenceEpochSeconds int64) (zone.ZoneRules, error) {
	type candidate struct {
		version  string
		provider *provider.Provider
	}
	var candidates []candidate
	for _, p := range providers {
		for _, v := range p.Versions() {
			if containsString(p.RegionsForVersion(v), id.RegionID) {
				candidates = append(candidates, candidate{version: v, provider: p})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].version > candidates[j].version })

	for _, c := range candidates {
		rules, err := c.provider.Rules(c.version, id.RegionID)
		if err != nil {
			continue
		}
		if isValidAt(rules, referenceEpochSeconds) {
			return rules, nil
		}
	}
	return nil, fmt.Errorf("%w: no version of %s in group %q is valid at instant %d", tzerr.ErrConfiguration, id.RegionID, id.GroupID, referenceEpochSeconds)
}

// isValidAt reports whether rules resolves an offset for the given
// instant without error.
func isValidAt(rules zone.ZoneRules, epochSeconds int64) bool {
	_, err := rules.OffsetAtInstant(epochSeconds)
	return err == nil
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
