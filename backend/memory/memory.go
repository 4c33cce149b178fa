/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package memory provides the in-process reference backend: a map from
// backend-native identifier to the record's plain-data projection.
//
// The store performs no locking. A query set sharing one Store across
// concurrent callers must serialize mutating calls itself (single-writer
// discipline); the other backends delegate consistency to the remote store
// instead.
package memory

import (
	"context"

	"github.com/suparena/queryset"
)

// Store implements queryset.Backend[T] over an in-process map. It is the
// baseline implementation of the contract and the one the shared backend
// test suite is written against.
type Store[T queryset.Record] struct {
	data                 map[string]map[string]any
	idField              string
	updateCreatesMissing bool
}

// New creates an empty Store. The backing map is owned by the store.
func New[T queryset.Record]() *Store[T] {
	return &Store[T]{
		data:                 make(map[string]map[string]any),
		idField:              "id",
		updateCreatesMissing: true,
	}
}

// WithIDField sets the identifier field used to key records.
func (s *Store[T]) WithIDField(field string) *Store[T] {
	s.idField = field
	return s
}

// WithUpdateCreatesMissing controls whether UpdateMany writes items whose
// identifier is absent. When disabled, such items report Not Found.
func (s *Store[T]) WithUpdateCreatesMissing(v bool) *Store[T] {
	s.updateCreatesMissing = v
	return s
}

// CreateMany upserts every item, reporting Created for fresh identifiers
// and Updated for overwrites.
func (s *Store[T]) CreateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(items))
	for _, item := range items {
		key := queryset.KeyOf(item, s.idField)
		status := queryset.StatusCreated
		if _, exists := s.data[key]; exists {
			status = queryset.StatusUpdated
		}
		data := item.PlainData()
		s.data[key] = data
		results = append(results, queryset.Result{Status: status, ID: key, Data: data})
	}
	return results, nil
}

// ReadAll returns every stored item.
func (s *Store[T]) ReadAll(ctx context.Context) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(s.data))
	for key, data := range s.data {
		results = append(results, queryset.Result{Status: queryset.StatusOK, ID: key, Data: data})
	}
	return results, nil
}

// ReadMany returns the stored item for each identifier, in input order.
func (s *Store[T]) ReadMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(ids))
	for _, id := range ids {
		if data, exists := s.data[id]; exists {
			results = append(results, queryset.Result{Status: queryset.StatusOK, ID: id, Data: data})
		} else {
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: id})
		}
	}
	return results, nil
}

// UpdateMany overwrites the stored item for each given item.
func (s *Store[T]) UpdateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(items))
	for _, item := range items {
		key := queryset.KeyOf(item, s.idField)
		_, exists := s.data[key]
		switch {
		case exists:
			data := item.PlainData()
			s.data[key] = data
			results = append(results, queryset.Result{Status: queryset.StatusUpdated, ID: key, Data: data})
		case s.updateCreatesMissing:
			data := item.PlainData()
			s.data[key] = data
			results = append(results, queryset.Result{Status: queryset.StatusCreated, ID: key, Data: data})
		default:
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: key})
		}
	}
	return results, nil
}

// DestroyMany removes each identified item, echoing the identifier on
// success.
func (s *Store[T]) DestroyMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(ids))
	for _, id := range ids {
		if _, exists := s.data[id]; !exists {
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: id})
			continue
		}
		delete(s.data, id)
		results = append(results, queryset.Result{Status: queryset.StatusUpdated, ID: id})
	}
	return results, nil
}

// Len returns the number of stored items.
func (s *Store[T]) Len() int {
	return len(s.data)
}

// Clear removes all stored items.
func (s *Store[T]) Clear() {
	s.data = make(map[string]map[string]any)
}
