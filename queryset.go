/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queryset

import (
	"context"

	"github.com/rs/zerolog"

	qserrors "github.com/suparena/queryset/errors"
)

// QuerySet binds the four CRUD verbs to one backend. Verbs dispatch on
// arity: zero identifiers on Read means read-all, exactly one item or
// identifier takes the singular path, more than one the plural path. Every
// singular form is implemented by wrapping its plural primitive, so the
// backend surface stays at the five plural primitives.
//
// A QuerySet holds no per-request state and may be shared across callers,
// subject to the backend's own concurrency discipline.
type QuerySet[T Record] struct {
	backend Backend[T]
	log     zerolog.Logger
}

// Option configures a QuerySet.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger attaches a logger; verbs emit one debug event per call.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// New creates a QuerySet over the given backend. The backend handle is
// injected here and owned by the query set for its lifetime.
func New[T Record](b Backend[T], opts ...Option) *QuerySet[T] {
	o := &options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return &QuerySet[T]{backend: b, log: o.log}
}

// Create commits items to the backend, upserting each one.
func (q *QuerySet[T]) Create(ctx context.Context, items ...T) ([]Result, error) {
	if len(items) == 1 {
		res, err := q.CreateOne(ctx, items[0])
		if err != nil {
			return nil, err
		}
		return []Result{res}, nil
	}
	results, err := q.backend.CreateMany(ctx, items)
	q.trace("create", results, err)
	return results, err
}

// Read returns the items matching ids. With no ids it returns every stored
// item.
func (q *QuerySet[T]) Read(ctx context.Context, ids ...string) ([]Result, error) {
	switch len(ids) {
	case 0:
		results, err := q.backend.ReadAll(ctx)
		q.trace("read_all", results, err)
		return results, err
	case 1:
		res, err := q.ReadOne(ctx, ids[0])
		if err != nil {
			if qserrors.IsNotFound(err) {
				return []Result{res}, nil
			}
			return nil, err
		}
		return []Result{res}, nil
	default:
		results, err := q.backend.ReadMany(ctx, ids)
		q.trace("read", results, err)
		return results, err
	}
}

// Update overwrites the stored item for each given item.
func (q *QuerySet[T]) Update(ctx context.Context, items ...T) ([]Result, error) {
	if len(items) == 1 {
		res, err := q.UpdateOne(ctx, items[0])
		if err != nil {
			return nil, err
		}
		return []Result{res}, nil
	}
	results, err := q.backend.UpdateMany(ctx, items)
	q.trace("update", results, err)
	return results, err
}

// Destroy removes the items matching ids.
func (q *QuerySet[T]) Destroy(ctx context.Context, ids ...string) ([]Result, error) {
	if len(ids) == 1 {
		res, err := q.DestroyOne(ctx, ids[0])
		if err != nil {
			if qserrors.IsNotFound(err) {
				return []Result{res}, nil
			}
			return nil, err
		}
		return []Result{res}, nil
	}
	results, err := q.backend.DestroyMany(ctx, ids)
	q.trace("destroy", results, err)
	return results, err
}

// CreateOne commits a single item and returns its result.
func (q *QuerySet[T]) CreateOne(ctx context.Context, item T) (Result, error) {
	return q.one(ctx, "create_one", func(ctx context.Context) ([]Result, error) {
		return q.backend.CreateMany(ctx, []T{item})
	})
}

// ReadOne returns the single item matching id. Unlike the plural forms, it
// reports an absent identifier as an error satisfying errors.IsNotFound.
func (q *QuerySet[T]) ReadOne(ctx context.Context, id string) (Result, error) {
	res, err := q.one(ctx, "read_one", func(ctx context.Context) ([]Result, error) {
		return q.backend.ReadMany(ctx, []string{id})
	})
	if err != nil {
		return Result{}, err
	}
	if res.Status == StatusNotFound {
		return res, qserrors.NewNotFoundError("record", id)
	}
	return res, nil
}

// UpdateOne overwrites the stored item for a single item.
func (q *QuerySet[T]) UpdateOne(ctx context.Context, item T) (Result, error) {
	return q.one(ctx, "update_one", func(ctx context.Context) ([]Result, error) {
		return q.backend.UpdateMany(ctx, []T{item})
	})
}

// DestroyOne removes the single item matching id, reporting an absent
// identifier as an error satisfying errors.IsNotFound.
func (q *QuerySet[T]) DestroyOne(ctx context.Context, id string) (Result, error) {
	res, err := q.one(ctx, "destroy_one", func(ctx context.Context) ([]Result, error) {
		return q.backend.DestroyMany(ctx, []string{id})
	})
	if err != nil {
		return Result{}, err
	}
	if res.Status == StatusNotFound {
		return res, qserrors.NewNotFoundError("record", id)
	}
	return res, nil
}

// one wraps a plural primitive around a single element and unwraps the
// result.
func (q *QuerySet[T]) one(ctx context.Context, op string, call func(context.Context) ([]Result, error)) (Result, error) {
	results, err := call(ctx)
	q.trace(op, results, err)
	if err != nil {
		return Result{}, err
	}
	if len(results) != 1 {
		return Result{}, qserrors.NewInvalidInputError(op, "backend returned misaligned batch result")
	}
	return results[0], nil
}

func (q *QuerySet[T]) trace(op string, results []Result, err error) {
	if err != nil {
		q.log.Debug().Str("op", op).Err(err).Msg("queryset operation failed")
		return
	}
	tally := make(map[Status]int, 4)
	for _, r := range results {
		tally[r.Status]++
	}
	ev := q.log.Debug().Str("op", op).Int("items", len(results))
	for status, n := range tally {
		ev = ev.Int(string(status), n)
	}
	ev.Msg("queryset operation")
}
