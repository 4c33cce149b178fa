/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package backendtest runs the query-set contract against a backend. Every
// backend's tests call Run with a factory so all implementations are held
// to the same laws: idempotent overwrite on create, ordered batch results,
// per-item independence inside partial failures, read-after-write
// consistency.
package backendtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/queryset"
	qserrors "github.com/suparena/queryset/errors"
	"github.com/suparena/queryset/testmodels"
)

// Factory returns a fresh, empty backend for one subtest. Backends holding
// remote connections should register cleanup on t.
type Factory func(t *testing.T) queryset.Backend[*testmodels.Widget]

func widget(id, data string) *testmodels.Widget {
	return &testmodels.Widget{ID: id, Name: "widget-" + id, Data: data}
}

// seedReads stores the canonical foo/bar/baz fixtures.
func seedReads(t *testing.T, qs *queryset.QuerySet[*testmodels.Widget]) []*testmodels.Widget {
	t.Helper()
	widgets := []*testmodels.Widget{widget("foo", ""), widget("bar", ""), widget("baz", "")}
	results, err := qs.Create(context.Background(), widgets...)
	require.NoError(t, err)
	require.Len(t, results, len(widgets))
	return widgets
}

// Run exercises the full query-set contract against the backend produced
// by factory.
func Run(t *testing.T, factory Factory) {
	ctx := context.Background()

	t.Run("CreateOne", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))

		res, err := qs.CreateOne(ctx, widget("foo", "first"))
		require.NoError(t, err)
		assert.Equal(t, queryset.StatusCreated, res.Status)
		assert.Equal(t, "foo", res.ID)

		// Same identifier again: idempotent overwrite, latest write wins.
		res, err = qs.CreateOne(ctx, widget("foo", "second"))
		require.NoError(t, err)
		assert.Equal(t, queryset.StatusUpdated, res.Status)

		res, err = qs.ReadOne(ctx, "foo")
		require.NoError(t, err)
		assert.Equal(t, queryset.StatusOK, res.Status)
		assert.Equal(t, "second", res.Data["data"])
	})

	t.Run("CreateMany", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))

		results, err := qs.Create(ctx, widget("foo", ""), widget("bar", ""), widget("baz", ""))
		require.NoError(t, err)
		require.Len(t, results, 3)
		for _, res := range results {
			assert.Equal(t, queryset.StatusCreated, res.Status)
		}

		// A mixed batch keeps results aligned with input order.
		results, err = qs.Create(ctx, widget("foo", ""), widget("bloop", ""), widget("baz", ""))
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, queryset.StatusUpdated, results[0].Status)
		assert.Equal(t, queryset.StatusCreated, results[1].Status)
		assert.Equal(t, queryset.StatusUpdated, results[2].Status)
	})

	t.Run("ReadAll", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		widgets := seedReads(t, qs)

		results, err := qs.Read(ctx)
		require.NoError(t, err)
		require.Len(t, results, len(widgets))

		expected := make(map[string]map[string]any, len(widgets))
		for _, w := range widgets {
			expected[w.ID] = w.PlainData()
		}
		for _, res := range results {
			assert.Equal(t, queryset.StatusOK, res.Status)
			id, _ := res.Data["id"].(string)
			assert.Equal(t, expected[id], res.Data)
		}
	})

	t.Run("ReadOne", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		widgets := seedReads(t, qs)

		for _, w := range widgets {
			res, err := qs.ReadOne(ctx, w.ID)
			require.NoError(t, err)
			assert.Equal(t, queryset.StatusOK, res.Status)
			assert.Equal(t, w.PlainData(), res.Data)
		}

		res, err := qs.ReadOne(ctx, "DOESNTEXIST")
		require.Error(t, err)
		assert.True(t, qserrors.IsNotFound(err))
		assert.Equal(t, queryset.StatusNotFound, res.Status)
	})

	t.Run("ReadMany", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		widgets := seedReads(t, qs)

		ids := []string{widgets[0].ID, widgets[1].ID, widgets[2].ID}
		results, err := qs.Read(ctx, ids...)
		require.NoError(t, err)
		require.Len(t, results, 3)
		for i, res := range results {
			assert.Equal(t, queryset.StatusOK, res.Status)
			assert.Equal(t, ids[i], res.ID)
			assert.Equal(t, widgets[i].PlainData(), res.Data)
		}

		// One absent identifier fails alone; its neighbors still succeed.
		results, err = qs.Read(ctx, widgets[0].ID, "DOESNTEXIST", widgets[2].ID)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, queryset.StatusOK, results[0].Status)
		assert.Equal(t, queryset.StatusNotFound, results[1].Status)
		assert.Equal(t, "DOESNTEXIST", results[1].ID)
		assert.Equal(t, queryset.StatusOK, results[2].Status)
	})

	t.Run("UpdateOne", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		widgets := seedReads(t, qs)

		changed := widgets[0]
		changed.Data = "foob"
		res, err := qs.UpdateOne(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, queryset.StatusUpdated, res.Status)

		res, err = qs.ReadOne(ctx, changed.ID)
		require.NoError(t, err)
		assert.Equal(t, "foob", res.Data["data"])

		// Untouched identifiers keep their payload.
		res, err = qs.ReadOne(ctx, widgets[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "", res.Data["data"])
	})

	t.Run("UpdateMany", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		widgets := seedReads(t, qs)

		for _, w := range widgets {
			w.Data = "foob"
		}
		results, err := qs.Update(ctx, widgets...)
		require.NoError(t, err)
		require.Len(t, results, len(widgets))
		for _, res := range results {
			assert.Equal(t, queryset.StatusUpdated, res.Status)
		}

		results, err = qs.Read(ctx)
		require.NoError(t, err)
		for _, res := range results {
			assert.Equal(t, "foob", res.Data["data"])
		}
	})

	t.Run("UpdateCreatesMissing", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))

		// Default behavior: an update on a fresh identifier writes the
		// item and reports it as created.
		res, err := qs.UpdateOne(ctx, widget("ghost", "boo"))
		require.NoError(t, err)
		assert.Equal(t, queryset.StatusCreated, res.Status)

		res, err = qs.ReadOne(ctx, "ghost")
		require.NoError(t, err)
		assert.Equal(t, "boo", res.Data["data"])
	})

	t.Run("DestroyOne", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		widgets := seedReads(t, qs)

		res, err := qs.DestroyOne(ctx, widgets[0].ID)
		require.NoError(t, err)
		assert.Equal(t, queryset.StatusUpdated, res.Status)
		assert.Equal(t, widgets[0].ID, res.ID)

		_, err = qs.ReadOne(ctx, widgets[0].ID)
		assert.True(t, qserrors.IsNotFound(err))

		_, err = qs.DestroyOne(ctx, "DOESNTEXIST")
		assert.True(t, qserrors.IsNotFound(err))
	})

	t.Run("DestroyManySubset", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		seedReads(t, qs)

		results, err := qs.Read(ctx)
		require.NoError(t, err)
		require.Len(t, results, 3)

		results, err = qs.Destroy(ctx, "foo", "bar")
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, res := range results {
			assert.Equal(t, queryset.StatusUpdated, res.Status)
		}

		results, err = qs.Read(ctx, "foo", "bar", "baz")
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, queryset.StatusNotFound, results[0].Status)
		assert.Equal(t, queryset.StatusNotFound, results[1].Status)
		assert.Equal(t, queryset.StatusOK, results[2].Status)

		// The retained item is intact.
		res, err := qs.ReadOne(ctx, "baz")
		require.NoError(t, err)
		assert.Equal(t, widget("baz", "").PlainData(), res.Data)
	})

	t.Run("DestroyManyMissing", func(t *testing.T) {
		qs := queryset.New[*testmodels.Widget](factory(t))
		seedReads(t, qs)

		results, err := qs.Destroy(ctx, "foo", "DOESNTEXIST")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, queryset.StatusUpdated, results[0].Status)
		assert.Equal(t, queryset.StatusNotFound, results[1].Status)
	})
}
