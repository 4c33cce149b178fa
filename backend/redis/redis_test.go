/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/queryset"
	"github.com/suparena/queryset/backend/backendtest"
	"github.com/suparena/queryset/backend/redis"
	qserrors "github.com/suparena/queryset/errors"
	"github.com/suparena/queryset/testmodels"
)

const testHash = "queryset:widgets"

func newClient(t *testing.T) (goredis.UniversalClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestContract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) queryset.Backend[*testmodels.Widget] {
		client, _ := newClient(t)
		return redis.New[*testmodels.Widget](client, testHash)
	})
}

func TestContractWithCompression(t *testing.T) {
	// The whole contract must hold with the codec in the write/read path.
	backendtest.Run(t, func(t *testing.T) queryset.Backend[*testmodels.Widget] {
		client, _ := newClient(t)
		return redis.New[*testmodels.Widget](client, testHash).WithCodec(redis.ZlibCodec())
	})
}

func TestZlibCodecRoundTrip(t *testing.T) {
	codec := redis.ZlibCodec()

	payloads := [][]byte{
		[]byte(""),
		[]byte("x"),
		[]byte(`{"id":"foo","data":"bar"}`),
		make([]byte, 1<<16),
	}
	for _, payload := range payloads {
		compressed, err := codec.Encode(payload)
		require.NoError(t, err)
		decoded, err := codec.Decode(compressed)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded)
	}
}

func TestZlibCodecRejectsGarbage(t *testing.T) {
	_, err := redis.ZlibCodec().Decode([]byte("not zlib data"))
	assert.Error(t, err)
}

func TestCorruptValueDistinctFromAbsent(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	store := redis.New[*testmodels.Widget](client, testHash).WithCodec(redis.ZlibCodec())
	qs := queryset.New[*testmodels.Widget](store)

	// Plant a value the codec did not produce.
	mr.HSet(testHash, "broken", "garbage bytes")

	results, err := qs.Read(ctx, "broken", "missing")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, queryset.StatusFailed, results[0].Status)
	assert.True(t, qserrors.IsCorruptValue(results[0].Err))

	// A never-written identifier reports absence, not corruption.
	assert.Equal(t, queryset.StatusNotFound, results[1].Status)
	assert.Nil(t, results[1].Err)
}

func TestReadOneMissingNeverRaisesFailure(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)
	qs := queryset.New[*testmodels.Widget](redis.New[*testmodels.Widget](client, testHash))

	res, err := qs.ReadOne(ctx, "missing")
	require.Error(t, err)
	assert.True(t, qserrors.IsNotFound(err))
	assert.Equal(t, queryset.StatusNotFound, res.Status)
}

func TestDestroyEchoesPayload(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)
	qs := queryset.New[*testmodels.Widget](redis.New[*testmodels.Widget](client, testHash))

	w := &testmodels.Widget{ID: "foo", Name: "widget-foo", Data: "keep"}
	_, err := qs.CreateOne(ctx, w)
	require.NoError(t, err)

	res, err := qs.DestroyOne(ctx, "foo")
	require.NoError(t, err)
	assert.Equal(t, queryset.StatusUpdated, res.Status)
	assert.Equal(t, "foo", res.ID)
	assert.Equal(t, w.PlainData(), res.Data)
}

func TestUpdateMissingDisabled(t *testing.T) {
	ctx := context.Background()
	client, mr := newClient(t)
	store := redis.New[*testmodels.Widget](client, testHash).WithUpdateCreatesMissing(false)
	qs := queryset.New[*testmodels.Widget](store)

	res, err := qs.UpdateOne(ctx, &testmodels.Widget{ID: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, queryset.StatusNotFound, res.Status)
	assert.False(t, mr.Exists(testHash))

	// Existing identifiers still update.
	_, err = qs.CreateOne(ctx, &testmodels.Widget{ID: "real", Data: "v1"})
	require.NoError(t, err)
	res, err = qs.UpdateOne(ctx, &testmodels.Widget{ID: "real", Data: "v2"})
	require.NoError(t, err)
	assert.Equal(t, queryset.StatusUpdated, res.Status)

	res, err = qs.ReadOne(ctx, "real")
	require.NoError(t, err)
	assert.Equal(t, "v2", res.Data["data"])
}

func TestCollectionsAreScopedByHash(t *testing.T) {
	ctx := context.Background()
	client, _ := newClient(t)

	widgets := queryset.New[*testmodels.Widget](redis.New[*testmodels.Widget](client, "queryset:widgets"))
	gadgets := queryset.New[*testmodels.Widget](redis.New[*testmodels.Widget](client, "queryset:gadgets"))

	_, err := widgets.CreateOne(ctx, &testmodels.Widget{ID: "foo"})
	require.NoError(t, err)

	_, err = gadgets.ReadOne(ctx, "foo")
	assert.True(t, qserrors.IsNotFound(err))

	results, err := gadgets.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, results)
}
