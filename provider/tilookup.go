package provider

import (
	"context"
	"sort"
	"sync"

	"github.com/skillsenselab/pivotkit/logger"
	"github.com/skillsenselab/pivotkit/timespan"
)

// TILookupName is the registry key and provider name of the TI aggregator.
const TILookupName = "TILookup"

// TILookup is the built-in threat-intelligence provider. It holds named
// child providers and fans each lookup out to all of them, merging the
// results. A TILookup with no children is valid and returns empty results.
//
// The pivot environment constructs one automatically when discovery finds
// no TIProvider in the namespace or the explicit provider list.
type TILookup struct {
	mu       sync.RWMutex
	children map[string]TIProvider
	log      *logger.Logger
}

// NewTILookup creates a TI aggregator over the given child providers.
// Children are keyed by their Name; a later child replaces an earlier one
// of the same name.
func NewTILookup(children ...TIProvider) *TILookup {
	t := &TILookup{
		children: make(map[string]TIProvider, len(children)),
		log:      logger.WithComponent("tilookup"),
	}
	for _, c := range children {
		t.children[c.Name()] = c
	}
	return t
}

// Name returns the aggregator's fixed provider name.
func (t *TILookup) Name() string { return TILookupName }

// IsAvailable reports whether at least one child provider is available.
// An empty aggregator reports true so lookups degrade to empty results
// instead of erroring.
func (t *TILookup) IsAvailable(ctx context.Context) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.children) == 0 {
		return true
	}
	for _, c := range t.children {
		if c.IsAvailable(ctx) {
			return true
		}
	}
	return false
}

// AddProvider registers a child provider, replacing any existing child of
// the same name.
func (t *TILookup) AddProvider(p TIProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.children[p.Name()] = p
}

// Providers returns the sorted names of the child providers.
func (t *TILookup) Providers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.children))
	for name := range t.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupIoC looks the indicator up in every available child provider and
// merges the results. A failing child is logged and skipped; the lookup
// itself only fails if the context is cancelled.
func (t *TILookup) LookupIoC(ctx context.Context, ioc string, ts timespan.TimeSpan) ([]TIResult, error) {
	t.mu.RLock()
	names := make([]string, 0, len(t.children))
	for name := range t.children {
		names = append(names, name)
	}
	sort.Strings(names)
	children := make([]TIProvider, 0, len(names))
	for _, name := range names {
		children = append(children, t.children[name])
	}
	t.mu.RUnlock()

	var results []TIResult
	for _, c := range children {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if !c.IsAvailable(ctx) {
			t.log.Debug("TI provider unavailable, skipping", map[string]interface{}{
				logger.FieldProvider: c.Name(),
			})
			continue
		}

		res, err := c.LookupIoC(ctx, ioc, ts)
		if err != nil {
			t.log.Warn("TI lookup failed", map[string]interface{}{
				logger.FieldProvider: c.Name(),
				logger.FieldError:    err.Error(),
			})
			continue
		}
		results = append(results, res...)
	}
	return results, nil
}
