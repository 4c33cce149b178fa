/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mongo_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suparena/queryset"
	"github.com/suparena/queryset/backend/backendtest"
	"github.com/suparena/queryset/backend/mongo"
	"github.com/suparena/queryset/testmodels"
)

// newCollection connects to the test deployment named by MONGO_TEST_URI
// and hands each test its own disposable collection. Without the env var
// the test is skipped, mirroring the other remote-store suites.
func newCollection(t *testing.T) *mongodriver.Collection {
	t.Helper()

	_ = godotenv.Load()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongodriver.Connect(ctx, mongooptions.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	dbName := os.Getenv("MONGO_TEST_DB")
	if dbName == "" {
		dbName = "queryset_test"
	}

	coll := client.Database(dbName).Collection(fmt.Sprintf("widgets_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = coll.Drop(context.Background()) })
	return coll
}

func TestContract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) queryset.Backend[*testmodels.Widget] {
		return mongo.New[*testmodels.Widget](newCollection(t))
	})
}

func TestUpdateMissingDisabled(t *testing.T) {
	ctx := context.Background()
	store := mongo.New[*testmodels.Widget](newCollection(t)).WithUpdateCreatesMissing(false)
	qs := queryset.New[*testmodels.Widget](store)

	res, err := qs.UpdateOne(ctx, &testmodels.Widget{ID: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, queryset.StatusNotFound, res.Status)

	_, err = qs.CreateOne(ctx, &testmodels.Widget{ID: "real", Data: "v1"})
	require.NoError(t, err)
	res, err = qs.UpdateOne(ctx, &testmodels.Widget{ID: "real", Data: "v2"})
	require.NoError(t, err)
	assert.Equal(t, queryset.StatusUpdated, res.Status)
}

func TestStoredDocumentsHideDriverID(t *testing.T) {
	ctx := context.Background()
	qs := queryset.New[*testmodels.Widget](mongo.New[*testmodels.Widget](newCollection(t)))

	w := &testmodels.Widget{ID: "foo", Name: "widget-foo"}
	_, err := qs.CreateOne(ctx, w)
	require.NoError(t, err)

	res, err := qs.ReadOne(ctx, "foo")
	require.NoError(t, err)

	// The driver's synthetic _id must not leak into the payload.
	_, leaked := res.Data["_id"]
	assert.False(t, leaked)
	assert.Equal(t, w.PlainData(), res.Data)
}
