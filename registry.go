/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queryset

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe mapping from collection names to query sets.
// It is the application wiring point: query sets are registered once at
// startup and looked up by the request-handling layer.
//
// Because query sets are generic over their record type, the registry
// stores them untyped; Register and Lookup restore type safety at the
// boundary.
type Registry struct {
	mu   sync.RWMutex
	sets map[string]any
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		sets: make(map[string]any),
	}
}

// Register stores the query set under the given collection name.
func Register[T Record](r *Registry, name string, qs *QuerySet[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sets[name]; exists {
		return fmt.Errorf("queryset for collection %q already registered", name)
	}
	r.sets[name] = qs
	return nil
}

// Lookup retrieves the query set registered under the given collection
// name. It fails when the name is unknown or registered for a different
// record type.
func Lookup[T Record](r *Registry, name string) (*QuerySet[T], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.sets[name]
	if !exists {
		return nil, fmt.Errorf("queryset for collection %q not found", name)
	}
	qs, ok := entry.(*QuerySet[T])
	if !ok {
		return nil, fmt.Errorf("queryset for collection %q has record type %T", name, entry)
	}
	return qs, nil
}

// Remove deletes the query set registered under the given collection name.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sets[name]; !exists {
		return fmt.Errorf("queryset for collection %q not found", name)
	}
	delete(r.sets, name)
	return nil
}

// Names returns all registered collection names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	return names
}
