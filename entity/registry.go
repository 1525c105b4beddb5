package entity

import (
	"sort"
	"sync"

	"github.com/skillsenselab/pivotkit/errors"
	"github.com/skillsenselab/pivotkit/logger"
)

// pivotEntry holds a pivot and its position within a container.
type pivotEntry struct {
	pivot Pivot
}

// container holds pivots in registration order with name lookup.
type container struct {
	order  []*pivotEntry
	lookup map[string]*pivotEntry
}

func newContainer() *container {
	return &container{lookup: make(map[string]*pivotEntry)}
}

// Registry maps entity type names to their pivot containers.
type Registry struct {
	mu        sync.RWMutex
	types     map[string]map[string]*container
	typeOrder []string
}

// NewRegistry creates a registry pre-populated with the builtin entity types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]map[string]*container)}
	for _, name := range []string{
		TypeHost, TypeIPAddress, TypeAccount, TypeURL, TypeDNS, TypeFileHash,
	} {
		r.types[name] = make(map[string]*container)
		r.typeOrder = append(r.typeOrder, name)
	}
	return r
}

// RegisterType adds a custom entity type name to the registry.
// Registering an existing type is a no-op.
func (r *Registry) RegisterType(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[name]; exists {
		return
	}
	r.types[name] = make(map[string]*container)
	r.typeOrder = append(r.typeOrder, name)
}

// HasType reports whether the entity type name is known.
func (r *Registry) HasType(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.types[name]
	return exists
}

// Types returns the known entity type names, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.typeOrder))
	copy(names, r.typeOrder)
	sort.Strings(names)
	return names
}

// Register attaches a pivot to an entity type. An unknown entity type is
// an error. A pivot with the same container and name replaces the earlier
// one in place, keeping its position.
func (r *Registry) Register(entityType string, p Pivot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	containers, exists := r.types[entityType]
	if !exists {
		return errors.EntityNotFound(entityType)
	}

	c, exists := containers[p.Container]
	if !exists {
		c = newContainer()
		containers[p.Container] = c
	}

	if entry, exists := c.lookup[p.Name]; exists {
		entry.pivot = p
	} else {
		entry := &pivotEntry{pivot: p}
		c.order = append(c.order, entry)
		c.lookup[p.Name] = entry
	}

	logger.Debug("Pivot registered", map[string]interface{}{
		logger.FieldEntity:    entityType,
		logger.FieldContainer: p.Container,
		logger.FieldPivot:     p.Name,
	})
	return nil
}

// Lookup returns the pivot registered under container and name.
func (r *Registry) Lookup(entityType, containerName, name string) (Pivot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	containers, exists := r.types[entityType]
	if !exists {
		return Pivot{}, false
	}
	c, exists := containers[containerName]
	if !exists {
		return Pivot{}, false
	}
	entry, exists := c.lookup[name]
	if !exists {
		return Pivot{}, false
	}
	return entry.pivot, true
}

// Pivots returns all pivots for an entity type, container by container in
// sorted container order, registration order within each.
func (r *Registry) Pivots(entityType string) []Pivot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	containers, exists := r.types[entityType]
	if !exists {
		return nil
	}

	names := make([]string, 0, len(containers))
	for name := range containers {
		names = append(names, name)
	}
	sort.Strings(names)

	var result []Pivot
	for _, name := range names {
		for _, entry := range containers[name].order {
			result = append(result, entry.pivot)
		}
	}
	return result
}

// Containers returns the sorted container names holding pivots for an
// entity type.
func (r *Registry) Containers(entityType string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	containers, exists := r.types[entityType]
	if !exists {
		return nil
	}
	names := make([]string, 0, len(containers))
	for name := range containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoveSource drops every pivot registered by the given source across all
// entity types. Used when an environment re-runs its registrations.
func (r *Registry) RemoveSource(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, containers := range r.types {
		for name, c := range containers {
			kept := c.order[:0]
			for _, entry := range c.order {
				if entry.pivot.Source == source {
					delete(c.lookup, entry.pivot.Name)
					removed++
					continue
				}
				kept = append(kept, entry)
			}
			c.order = kept
			if len(c.order) == 0 {
				delete(containers, name)
			}
		}
	}

	if removed > 0 {
		logger.Debug("Pivots removed", map[string]interface{}{
			"source": source,
			"count":  removed,
		})
	}
}
