/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package dynamo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/queryset"
	"github.com/suparena/queryset/backend/backendtest"
	"github.com/suparena/queryset/backend/dynamo"
	"github.com/suparena/queryset/testmodels"
)

// newStore connects to the table named by AWS_DDB_TEST_TABLE, which must
// have a single string partition key "id". Without the env var the test is
// skipped. Each test starts from an empty table.
func newStore(t *testing.T) *dynamo.Store[*testmodels.Widget] {
	t.Helper()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, proceeding with environment variables")
	}

	table := os.Getenv("AWS_DDB_TEST_TABLE")
	if table == "" {
		t.Skip("AWS_DDB_TEST_TABLE not set, skipping integration test")
	}

	client, err := dynamo.NewClient(
		os.Getenv("AWS_ACCESS_KEY"),
		os.Getenv("AWS_SECRET_KEY"),
		os.Getenv("AWS_REGION"),
	)
	require.NoError(t, err)

	clearTable(t, client, table)
	return dynamo.New[*testmodels.Widget](client, table)
}

// clearTable deletes every item so tests are independent on a shared
// table.
func clearTable(t *testing.T, client *sdk.Client, table string) {
	t.Helper()
	ctx := context.Background()

	var startKey map[string]types.AttributeValue
	for {
		out, err := client.Scan(ctx, &sdk.ScanInput{
			TableName:         &table,
			ExclusiveStartKey: startKey,
		})
		require.NoError(t, err)

		var writes []types.WriteRequest
		for _, item := range out.Items {
			writes = append(writes, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{
					Key: map[string]types.AttributeValue{"id": item["id"]},
				},
			})
			// BatchWriteItem caps a request at 25 writes.
			if len(writes) == 25 {
				flushDeletes(t, client, table, writes)
				writes = nil
			}
		}
		if len(writes) > 0 {
			flushDeletes(t, client, table, writes)
		}

		if len(out.LastEvaluatedKey) == 0 {
			return
		}
		startKey = out.LastEvaluatedKey
	}
}

func flushDeletes(t *testing.T, client *sdk.Client, table string, writes []types.WriteRequest) {
	t.Helper()
	_, err := client.BatchWriteItem(context.Background(), &sdk.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{table: writes},
	})
	require.NoError(t, err)
}

func TestContract(t *testing.T) {
	backendtest.Run(t, func(t *testing.T) queryset.Backend[*testmodels.Widget] {
		return newStore(t)
	})
}

func TestUpdateMissingDisabled(t *testing.T) {
	ctx := context.Background()
	store := newStore(t).WithUpdateCreatesMissing(false)
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

func TestMarshalRoundTrip(t *testing.T) {
	// The attributevalue mapping must keep string projections intact; no
	// remote table is needed for this.
	w := &testmodels.Widget{ID: "foo", Name: "widget-foo", Data: "payload"}

	av, err := attributevalue.MarshalMap(w.PlainData())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, attributevalue.UnmarshalMap(av, &doc))
	assert.Equal(t, w.PlainData(), doc)
}
