/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package dynamo provides a DynamoDB backend. The table uses a simple
// primary key: one string partition-key attribute named after the
// configured identifier field.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/queryset"
	qserrors "github.com/suparena/queryset/errors"
)

// BatchGetItem accepts at most this many keys per request.
const batchGetLimit = 100

// Store implements queryset.Backend[T] over one DynamoDB table.
type Store[T queryset.Record] struct {
	client               *sdk.Client
	table                string
	idField              string
	updateCreatesMissing bool
}

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// New creates a Store over the injected client and table.
func New[T queryset.Record](client *sdk.Client, table string) *Store[T] {
	return &Store[T]{
		client:               client,
		table:                table,
		idField:              "id",
		updateCreatesMissing: true,
	}
}

// WithIDField sets the identifier field, which must match the table's
// partition-key attribute name.
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

func (s *Store[T]) keyAttr(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		s.idField: &types.AttributeValueMemberS{Value: key},
	}
}

// marshal builds the stored item, pinning the identifier attribute to the
// backend-native key.
func (s *Store[T]) marshal(item T, key string) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.MarshalMap(item.PlainData())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	av[s.idField] = &types.AttributeValueMemberS{Value: key}
	return av, nil
}

func (s *Store[T]) unmarshal(av map[string]types.AttributeValue) (map[string]any, string, error) {
	var doc map[string]any
	if err := attributevalue.UnmarshalMap(av, &doc); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal item: %w", err)
	}
	id := ""
	if v, ok := doc[s.idField]; ok {
		id = fmt.Sprintf("%v", v)
	}
	return doc, id, nil
}

// put writes one item, deciding Created vs Updated from the previous item
// image. A non-nil condition turns the put into update-existing-only.
func (s *Store[T]) put(ctx context.Context, item T, condition *string) queryset.Result {
	key := queryset.KeyOf(item, s.idField)
	av, err := s.marshal(item, key)
	if err != nil {
		return queryset.Result{
			Status: queryset.StatusFailed,
			ID:     key,
			Err:    qserrors.NewBackendOperationError("put", key, err),
		}
	}

	out, err := s.client.PutItem(ctx, &sdk.PutItemInput{
		TableName:           &s.table,
		Item:                av,
		ConditionExpression: condition,
		ReturnValues:        types.ReturnValueAllOld,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return queryset.Result{Status: queryset.StatusNotFound, ID: key}
		}
		return queryset.Result{
			Status: queryset.StatusFailed,
			ID:     key,
			Err:    qserrors.NewBackendOperationError("put", key, err),
		}
	}

	status := queryset.StatusCreated
	if len(out.Attributes) > 0 {
		status = queryset.StatusUpdated
	}
	return queryset.Result{Status: status, ID: key, Data: item.PlainData()}
}

// CreateMany upserts every item, one PutItem each.
func (s *Store[T]) CreateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(items))
	for _, item := range items {
		results = append(results, s.put(ctx, item, nil))
	}
	return results, nil
}

// ReadAll scans the whole table.
func (s *Store[T]) ReadAll(ctx context.Context) ([]queryset.Result, error) {
	var results []queryset.Result
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &sdk.ScanInput{
			TableName:         &s.table,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return []queryset.Result{{
				Status: queryset.StatusFailed,
				Err:    qserrors.NewBackendOperationError("scan", s.table, err),
			}}, nil
		}
		for _, av := range out.Items {
			doc, id, err := s.unmarshal(av)
			if err != nil {
				results = append(results, queryset.Result{
					Status: queryset.StatusFailed,
					Err:    qserrors.NewCorruptValueError(id, err),
				})
				continue
			}
			results = append(results, queryset.Result{Status: queryset.StatusOK, ID: id, Data: doc})
		}
		if len(out.LastEvaluatedKey) == 0 {
			return results, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ReadMany fetches identifiers through BatchGetItem, chunked to the API
// limit, then re-associates the responses with the input order.
func (s *Store[T]) ReadMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	found := make(map[string]map[string]any, len(ids))
	failed := make(map[string]error)

	for start := 0; start < len(ids); start += batchGetLimit {
		end := start + batchGetLimit
		if end > len(ids) {
			end = len(ids)
		}
		if err := s.batchGet(ctx, ids[start:end], found, failed); err != nil {
			return nil, err
		}
	}

	results := make([]queryset.Result, 0, len(ids))
	for _, id := range ids {
		switch {
		case failed[id] != nil:
			results = append(results, queryset.Result{Status: queryset.StatusFailed, ID: id, Err: failed[id]})
		case found[id] != nil:
			results = append(results, queryset.Result{Status: queryset.StatusOK, ID: id, Data: found[id]})
		default:
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: id})
		}
	}
	return results, nil
}

func (s *Store[T]) batchGet(ctx context.Context, ids []string, found map[string]map[string]any, failed map[string]error) error {
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.keyAttr(id))
	}

	request := map[string]types.KeysAndAttributes{s.table: {Keys: keys}}
	for len(request[s.table].Keys) > 0 {
		out, err := s.client.BatchGetItem(ctx, &sdk.BatchGetItemInput{RequestItems: request})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			for _, id := range ids {
				if found[id] == nil {
					failed[id] = qserrors.NewBackendOperationError("batchGet", id, err)
				}
			}
			return nil
		}
		for _, av := range out.Responses[s.table] {
			doc, id, err := s.unmarshal(av)
			if err != nil {
				failed[id] = qserrors.NewCorruptValueError(id, err)
				continue
			}
			found[id] = doc
		}
		// The service may return a partial page; re-request the remainder.
		rest, ok := out.UnprocessedKeys[s.table]
		if !ok || len(rest.Keys) == 0 {
			return nil
		}
		request = map[string]types.KeysAndAttributes{s.table: rest}
	}
	return nil
}

// UpdateMany overwrites each item. With the update-creates-missing option
// disabled the put is conditioned on the identifier already existing.
func (s *Store[T]) UpdateMany(ctx context.Context, items []T) ([]queryset.Result, error) {
	var condition *string
	if !s.updateCreatesMissing {
		expr := fmt.Sprintf("attribute_exists(%s)", s.idField)
		condition = &expr
	}

	results := make([]queryset.Result, 0, len(items))
	for _, item := range items {
		results = append(results, s.put(ctx, item, condition))
	}
	return results, nil
}

// DestroyMany removes each identified item. The previous item image
// decides whether anything was actually there.
func (s *Store[T]) DestroyMany(ctx context.Context, ids []string) ([]queryset.Result, error) {
	results := make([]queryset.Result, 0, len(ids))
	for _, id := range ids {
		out, err := s.client.DeleteItem(ctx, &sdk.DeleteItemInput{
			TableName:    &s.table,
			Key:          s.keyAttr(id),
			ReturnValues: types.ReturnValueAllOld,
		})
		switch {
		case err != nil:
			results = append(results, queryset.Result{
				Status: queryset.StatusFailed,
				ID:     id,
				Err:    qserrors.NewBackendOperationError("delete", id, err),
			})
		case len(out.Attributes) == 0:
			results = append(results, queryset.Result{Status: queryset.StatusNotFound, ID: id})
		default:
			results = append(results, queryset.Result{Status: queryset.StatusUpdated, ID: id})
		}
	}
	return results, nil
}
