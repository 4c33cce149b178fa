/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package redis provides the remote-cache backend. Each logical collection
// lives in one Redis hash whose fields are the backend-native identifiers;
// stored values are the record's serialized form, optionally compressed by
// a Codec.
//
// Every plural primitive queues its per-item commands into a single
// pipeline and executes them in one round-trip, then re-associates replies
// with the input items by position. Pipelining reduces latency, not
// contention: commands still execute sequentially on the server.
package redis

import (
	"context"
	"encoding/json"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/suparena/queryset"
	qserrors "github.com/suparena/queryset/errors"
)

// Store implements queryset.Backend[T] over one Redis hash.
type Store[T queryset.Record] struct {
	client               goredis.UniversalClient
	hash                 string
	idField              string
	codec                Codec
	updateCreatesMissing bool
}

// New creates a Store over the injected client, keeping the collection in
// the named hash. Identifiers are already scoped by the hash, so the
// record's own Identifier is used as the field name unless WithIDField
// overrides it.
func New[T queryset.Record](client goredis.UniversalClient, hash string) *Store[T] {
	return &Store[T]{
		client:               client,
		hash:                 hash,
		codec:                IdentityCodec(),
		updateCreatesMissing: true,
	}
}

// WithIDField sets the identifier field used to key records.
func (s *Store[T]) WithIDField(field string) *Store[T] {
	s.idField = field
	return s
}

// WithCodec sets the value codec applied at the serialization boundary.
func (s *Store[T]) WithCodec(c Codec) *Store[T] {
	s.codec = c
	return s
}

// WithUpdateCreatesMissing controls whether UpdateMany writes items whose
// identifier is absent. When disabled, such items report Not Found.
func (s *Store[T]) WithUpdateCreatesMissing(v bool) *Store[T] {
	s.updateCreatesMissing = v
	return s
}

// statusByCount maps a numeric Redis reply onto a status pair: a truthy
// (nonzero) reply yields truthy, a falsy (zero) reply yields falsy. Each
// operation supplies its own pair, e.g. HSET 1/0 → Created/Updated and
// HDEL 1/0 → Updated/Not Found.
func statusByCount(n int64, truthy, falsy queryset.Status) queryset.Status {
	if n != 0 {
		return truthy
	}
	return falsy
}

// encode serializes an item and runs it through the codec.
func (s *Store[T]) encode(item T) ([]byte, error) {
	raw, err := item.SerializedForm()
	if err != nil {
		return nil, err
	}
	return s.codec.Encode(raw)
}

// decode reverses encode into the stored plain-data map. Failures are
// corrupt-value errors: the value exists but cannot be read back.
func (s *Store[T]) decode(key string, val []byte) (map[string]any, error) {
	raw, err := s.codec.Decode(val)
	if err != nil {
		return nil, qserrors.NewCorruptValueError(key, err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, qserrors.NewCorruptValueError(key, err)
	}
	return data, nil
}

// exec runs the pipeline, keeping per-command errors on their commands.
// Only context cancellation aborts the whole batch.
func exec(ctx context.Context, pipe goredis.Pipeliner) error {
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, goredis.Nil) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return nil
}

// writeMany is the shared pipelined HSET path for CreateMany and
// UpdateMany, parameterized by the status pair for new vs overwritten
// fields.
func (s *Store[T]) writeMany(ctx context.Context, op string, items []T, fresh, overwritten queryset.Status) ([]queryset.Result, error) {
	results := make([]queryset.Result, len(items))
	cmds := make([]*goredis.IntCmd, len(items))

	pipe := s.client.Pipeline()
	for i, item := range items {
		key := queryset.KeyOf(item, s.idField)
		results[i] = queryset.Result{ID: key}
		val, err := s.encode(item)
		if err != nil {
			results[i].Status = queryset.StatusFailed
			results[i].Err = qserrors.NewBackendOperationError(op, key, err)
			continue
		}
		cmds[i] = pipe.HSet(ctx, s.hash, key, val)
	}
	if err := exec(ctx, pipe); err != nil {
		return nil, err
	}

	for i, cmd := range cmds {
		if cmd == nil {
			continue
		}
		if err := cmd.Err(); err != nil {
			results[i].Status = queryset.StatusFailed
			results[i].Err = qserrors.NewBackendOperationError(op, results[i].ID, err)
			continue
		}
		results[i].Status = statusByCount(cmd.Val(), fresh, overwritten)
		results[i].Data = items[i].PlainData()
	}
	return results, nil
}

// CreateMany upserts every item in one pipeline. HSET reports whether the
// field was new, which decides Created vs Updated.
func (s *Store[T]) CreateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	return s.writeMany(ctx, "hset", items, queryset.StatusCreated, queryset.StatusUpdated)
}

// ReadAll returns every value stored in the hash.
func (s *Store[T]) ReadAll(ctx context.Context) ([]queryset.Result, error) {
	vals, err := s.client.HVals(ctx, s.hash).Result()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return []queryset.Result{{
			Status: queryset.StatusFailed,
			Err:    qserrors.NewBackendOperationError("hvals", s.hash, err),
		}}, nil
	}

	results := make([]queryset.Result, 0, len(vals))
	for _, val := range vals {
		data, err := s.decode("", []byte(val))
		if err != nil {
			results = append(results, queryset.Result{Status: queryset.StatusFailed, Err: err})
			continue
		}
		res := queryset.Result{Status: queryset.StatusOK, Data: data}
		if id, ok := data["id"].(string); ok {
			res.ID = id
		}
		results = append(results, res)
	}
	return results, nil
}

// ReadMany fetches every identifier in one pipeline.
func (s *Store[T]) ReadMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	cmds := make([]*goredis.StringCmd, len(ids))
	pipe := s.client.Pipeline()
	for i, id := range ids {
		cmds[i] = pipe.HGet(ctx, s.hash, id)
	}
	if err := exec(ctx, pipe); err != nil {
		return nil, err
	}

	results := make([]queryset.Result, len(ids))
	for i, cmd := range cmds {
		results[i] = s.readResult(ids[i], cmd)
	}
	return results, nil
}

// readResult translates one HGET reply into a per-item result.
func (s *Store[T]) readResult(id string, cmd *goredis.StringCmd) queryset.Result {
	val, err := cmd.Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return queryset.Result{Status: queryset.StatusNotFound, ID: id}
	case err != nil:
		return queryset.Result{
			Status: queryset.StatusFailed,
			ID:     id,
			Err:    qserrors.NewBackendOperationError("hget", id, err),
		}
	}
	data, err := s.decode(id, val)
	if err != nil {
		return queryset.Result{Status: queryset.StatusFailed, ID: id, Err: err}
	}
	return queryset.Result{Status: queryset.StatusOK, ID: id, Data: data}
}

// UpdateMany overwrites every item in one pipeline. With the
// update-creates-missing option disabled it pipelines an existence round
// first and skips absent identifiers.
func (s *Store[T]) UpdateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	if s.updateCreatesMissing {
		return s.writeMany(ctx, "hset", items, queryset.StatusCreated, queryset.StatusUpdated)
	}

	keys := make([]string, len(items))
	existsCmds := make([]*goredis.BoolCmd, len(items))
	pipe := s.client.Pipeline()
	for i, item := range items {
		keys[i] = queryset.KeyOf(item, s.idField)
		existsCmds[i] = pipe.HExists(ctx, s.hash, keys[i])
	}
	if err := exec(ctx, pipe); err != nil {
		return nil, err
	}

	results := make([]queryset.Result, len(items))
	setCmds := make([]*goredis.IntCmd, len(items))
	pipe = s.client.Pipeline()
	for i, item := range items {
		results[i] = queryset.Result{ID: keys[i]}
		if err := existsCmds[i].Err(); err != nil {
			results[i].Status = queryset.StatusFailed
			results[i].Err = qserrors.NewBackendOperationError("hexists", keys[i], err)
			continue
		}
		if !existsCmds[i].Val() {
			results[i].Status = queryset.StatusNotFound
			continue
		}
		val, err := s.encode(item)
		if err != nil {
			results[i].Status = queryset.StatusFailed
			results[i].Err = qserrors.NewBackendOperationError("hset", keys[i], err)
			continue
		}
		setCmds[i] = pipe.HSet(ctx, s.hash, keys[i], val)
	}
	if err := exec(ctx, pipe); err != nil {
		return nil, err
	}

	for i, cmd := range setCmds {
		if cmd == nil {
			continue
		}
		if err := cmd.Err(); err != nil {
			results[i].Status = queryset.StatusFailed
			results[i].Err = qserrors.NewBackendOperationError("hset", keys[i], err)
			continue
		}
		results[i].Status = queryset.StatusUpdated
		results[i].Data = items[i].PlainData()
	}
	return results, nil
}

// DestroyMany issues two pipeline rounds: a fetch round to recover
// payloads for the response, then a delete round. An identifier absent in
// the fetch round still gets its delete, a benign no-op.
func (s *Store[T]) DestroyMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	getCmds := make([]*goredis.StringCmd, len(ids))
	pipe := s.client.Pipeline()
	for i, id := range ids {
		getCmds[i] = pipe.HGet(ctx, s.hash, id)
	}
	if err := exec(ctx, pipe); err != nil {
		return nil, err
	}

	delCmds := make([]*goredis.IntCmd, len(ids))
	pipe = s.client.Pipeline()
	for i, id := range ids {
		delCmds[i] = pipe.HDel(ctx, s.hash, id)
	}
	if err := exec(ctx, pipe); err != nil {
		return nil, err
	}

	results := make([]queryset.Result, len(ids))
	for i, id := range ids {
		if err := delCmds[i].Err(); err != nil {
			results[i] = queryset.Result{
				Status: queryset.StatusFailed,
				ID:     id,
				Err:    qserrors.NewBackendOperationError("hdel", id, err),
			}
			continue
		}
		results[i] = queryset.Result{
			Status: statusByCount(delCmds[i].Val(), queryset.StatusUpdated, queryset.StatusNotFound),
			ID:     id,
		}
		// Echo the removed payload when the fetch round could decode it.
		if val, err := getCmds[i].Bytes(); err == nil {
			if data, derr := s.decode(id, val); derr == nil {
				results[i].Data = data
			}
		}
	}
	return results, nil
}
