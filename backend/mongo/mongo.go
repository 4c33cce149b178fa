/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mongo provides the document-store backend over a MongoDB
// collection. Each plural primitive issues one round-trip per item (reads
// excepted); there is no cross-item atomicity. Store-reported failures are
// caught per call and carried as a Failed status so a plural call never
// loses partial-failure visibility.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suparena/queryset"
	qserrors "github.com/suparena/queryset/errors"
)

// Store implements queryset.Backend[T] over one collection. Records are
// stored as their plain-data projection with the identifier field set to
// the backend-native key, so identifier lookup is a field-match filter.
type Store[T queryset.Record] struct {
	coll                 *mongodriver.Collection
	idField              string
	updateCreatesMissing bool
}

// New creates a Store over the injected collection handle. Connection and
// transport setup belong to the caller.
func New[T queryset.Record](coll *mongodriver.Collection) *Store[T] {
	return &Store[T]{
		coll:                 coll,
		idField:              "id",
		updateCreatesMissing: true,
	}
}

// WithIDField sets the identifier field used to key and filter records.
func (s *Store[T]) WithIDField(field string) *Store[T] {
	s.idField = field
	return s
}

// WithUpdateCreatesMissing controls whether UpdateMany upserts items whose
// identifier is absent. When disabled, such items report Not Found.
func (s *Store[T]) WithUpdateCreatesMissing(v bool) *Store[T] {
	s.updateCreatesMissing = v
	return s
}

// document builds the stored form of an item, pinning the identifier
// field to the backend-native key so the mapping stays deterministic.
func (s *Store[T]) document(item T, key string) bson.M {
	doc := bson.M{}
	for k, v := range item.PlainData() {
		doc[k] = v
	}
	doc[s.idField] = key
	return doc
}

// projection hides the driver's synthetic _id unless it is the configured
// identifier field.
func (s *Store[T]) projection() bson.M {
	if s.idField == "_id" {
		return bson.M{}
	}
	return bson.M{"_id": 0}
}

func (s *Store[T]) keyOf(doc map[string]any) string {
	if v, ok := doc[s.idField]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// upsert writes one item, reporting Created or Updated from the store's
// own upsert result.
func (s *Store[T]) upsert(ctx context.Context, item T) queryset.Result {
	key := queryset.KeyOf(item, s.idField)
	res, err := s.coll.UpdateOne(ctx,
		bson.M{s.idField: key},
		bson.M{"$set": s.document(item, key)},
		mongooptions.Update().SetUpsert(true),
	)
	if err != nil {
		return queryset.Result{
			Status: queryset.StatusFailed,
			ID:     key,
			Err:    qserrors.NewBackendOperationError("upsert", key, err),
		}
	}
	status := queryset.StatusUpdated
	if res.UpsertedCount > 0 {
		status = queryset.StatusCreated
	}
	return queryset.Result{Status: status, ID: key, Data: item.PlainData()}
}

// CreateMany upserts every item, one round-trip each.
func (s *Store[T]) CreateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(items))
	for _, item := range items {
		results = append(results, s.upsert(ctx, item))
	}
	return results, nil
}

// ReadAll returns every stored document.
func (s *Store[T]) ReadAll(ctx context.Context) ([]queryset.Result, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, mongooptions.Find().SetProjection(s.projection()))
	if err != nil {
		return s.failAll(ctx, "find", nil, err)
	}
	var docs []map[string]any
	if err := cursor.All(ctx, &docs); err != nil {
		return s.failAll(ctx, "find", nil, err)
	}

	results := make([]queryset.Result, 0, len(docs))
	for _, doc := range docs {
		results = append(results, queryset.Result{
			Status: queryset.StatusOK,
			ID:     s.keyOf(doc),
			Data:   doc,
		})
	}
	return results, nil
}

// ReadMany issues a single filtered query for all identifiers, then
// re-associates the matches with the input order. Absent identifiers
// report Not Found individually.
func (s *Store[T]) ReadMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{s.idField: bson.M{"$in": ids}},
		mongooptions.Find().SetProjection(s.projection()),
	)
	if err != nil {
		return s.failAll(ctx, "find", ids, err)
	}
	var docs []map[string]any
	if err := cursor.All(ctx, &docs); err != nil {
		return s.failAll(ctx, "find", ids, err)
	}

	byKey := make(map[string]map[string]any, len(docs))
	for _, doc := range docs {
		byKey[s.keyOf(doc)] = doc
	}

	results := make([]queryset.Result, 0, len(ids))
	for _, id := range ids {
		if doc, ok := byKey[id]; ok {
			results = append(results, queryset.Result{Status: queryset.StatusOK, ID: id, Data: doc})
		} else {
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: id})
		}
	}
	return results, nil
}

// UpdateMany overwrites each item's document, one round-trip each.
func (s *Store[T]) UpdateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(items))
	for _, item := range items {
		if s.updateCreatesMissing {
			results = append(results, s.upsert(ctx, item))
			continue
		}

		key := queryset.KeyOf(item, s.idField)
		res, err := s.coll.UpdateOne(ctx,
			bson.M{s.idField: key},
			bson.M{"$set": s.document(item, key)},
		)
		switch {
		case err != nil:
			results = append(results, queryset.Result{
				Status: queryset.StatusFailed,
				ID:     key,
				Err:    qserrors.NewBackendOperationError("update", key, err),
			})
		case res.MatchedCount == 0:
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: key})
		default:
			results = append(results, queryset.Result{Status: queryset.StatusUpdated, ID: key, Data: item.PlainData()})
		}
	}
	return results, nil
}

// DestroyMany removes each identified document. FindOneAndDelete folds the
// existence check and the delete into one round-trip, so an absent
// identifier is signaled without a separate read.
func (s *Store[T]) DestroyMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(ids))
	for _, id := range ids {
		var doc map[string]any
		err := s.coll.FindOneAndDelete(ctx,
			bson.M{s.idField: id},
			mongooptions.FindOneAndDelete().SetProjection(s.projection()),
		).Decode(&doc)
		switch {
		case errors.Is(err, mongodriver.ErrNoDocuments):
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: id})
		case err != nil:
			results = append(results, queryset.Result{
				Status: queryset.StatusFailed,
				ID:     id,
				Err:    qserrors.NewBackendOperationError("findAndDelete", id, err),
			})
		default:
			results = append(results, queryset.Result{Status: queryset.StatusUpdated, ID: id})
		}
	}
	return results, nil
}

// failAll translates a whole-query failure into per-item Failed results so
// plural calls keep their positional contract.
func (s *Store[T]) failAll(ctx context.Context, op string, ids []string, err error) ([]queryset.Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if ids == nil {
		return []queryset.Result{{
			Status: queryset.StatusFailed,
			Err:    qserrors.NewBackendOperationError(op, "", err),
		}}, nil
	}
	results := make([]queryset.Result, 0, len(ids))
	for _, id := range ids {
		results = append(results, queryset.Result{
			Status: queryset.StatusFailed,
			ID:     id,
			Err:    qserrors.NewBackendOperationError(op, id, err),
		})
	}
	return results, nil
}
