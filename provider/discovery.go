package provider

import (
	"sort"

	"github.com/skillsenselab/pivotkit/logger"
)

// Discover builds the provider registry mapping for a pivot environment.
//
// Data providers are keyed by their environment name. The namespace is
// scanned in sorted key order, so the provider bound under the
// lexicographically later key wins a duplicate environment. Explicit-list
// entries override namespace entries of the same environment; within the
// explicit list, later entries win.
//
// Exactly one TI provider ends up under the "TILookup" key: the first
// match in the explicit list, otherwise the namespace match under the
// greatest sorted key, otherwise a fresh empty TILookup.
//
// Zero data providers is not an error; the environment simply registers
// no query pivots.
func Discover(namespace map[string]any, explicit []any) map[string]Provider {
	providers := make(map[string]Provider)
	log := logger.WithComponent("discovery")

	for _, key := range sortedKeys(namespace) {
		if dp, ok := namespace[key].(DataProvider); ok {
			providers[dp.Environment()] = dp
			log.Debug("Data provider discovered", map[string]interface{}{
				"namespace_key":      key,
				"environment":        dp.Environment(),
				logger.FieldProvider: dp.Name(),
			})
		}
	}
	for _, v := range explicit {
		if dp, ok := v.(DataProvider); ok {
			providers[dp.Environment()] = dp
			log.Debug("Data provider supplied", map[string]interface{}{
				"environment":        dp.Environment(),
				logger.FieldProvider: dp.Name(),
			})
		}
	}

	providers[TILookupName] = resolveTIProvider(namespace, explicit)
	return providers
}

// resolveTIProvider picks the TI provider for the environment, creating
// the default aggregator when neither source has one.
func resolveTIProvider(namespace map[string]any, explicit []any) TIProvider {
	for _, v := range explicit {
		if tp, ok := v.(TIProvider); ok {
			return tp
		}
	}

	var found TIProvider
	for _, key := range sortedKeys(namespace) {
		if tp, ok := namespace[key].(TIProvider); ok {
			found = tp
		}
	}
	if found != nil {
		return found
	}
	return NewTILookup()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
