/*
Package queryset maps RESTful CRUD calls onto pluggable storage backends,
presenting one polymorphic contract with per-item status reporting.

A QuerySet binds the four verbs — Create, Read, Update, Destroy — to one
backend and one collection. Each verb accepts one or more items or
identifiers and returns an ordered sequence of (status, payload) results,
positionally aligned with the input, so callers keep per-item outcome
visibility inside batch operations: partial success and partial failure,
never all-or-nothing.

Backends implement five plural primitives (CreateMany, ReadAll, ReadMany,
UpdateMany, DestroyMany); the singular convenience forms are derived by
wrapping the plural ones. Implementations are provided for:

  - backend/memory: an in-process map, the reference implementation
  - backend/mongo: a MongoDB collection, one round-trip per item
  - backend/redis: a Redis hash per collection, with pipelined batches
    and optional zlib value compression
  - backend/dynamo: a DynamoDB table

Basic Usage:

	store := memory.New[*testmodels.Widget]()
	qs := queryset.New[*testmodels.Widget](store)

	results, _ := qs.Create(ctx, w1, w2, w3)
	for _, res := range results {
	    fmt.Println(res.Status, res.ID)
	}

	res, err := qs.ReadOne(ctx, "123")
	if errors.IsNotFound(err) {
	    // only the singular forms report absence as an error
	}

Stored values are the record's plain-data projection (or its serialized
form for the cache backend); the model layer owns validation and
instantiation. See the Record interface for the contract a model type
must satisfy.

For more information, see the documentation at https://github.com/suparena/queryset
*/
package queryset
