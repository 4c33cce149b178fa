/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queryset

import (
	"context"
	"fmt"
)

// Backend is the minimal surface a storage backend implements: five plural
// primitives. Singular convenience forms are derived by QuerySet, so a new
// backend only provides these.
//
// Plural primitives never report per-item failure through the error return:
// absent identifiers and store-reported failures are encoded in the status
// slot of the corresponding Result. The error return is reserved for
// context cancellation and invalid input.
type Backend[T Record] interface {
	// CreateMany upserts every item. An item whose backend-native
	// identifier already exists reports StatusUpdated, otherwise
	// StatusCreated. Results are in input order.
	CreateMany(ctx context.Context, items []T) ([]Result, error)

	// ReadAll returns every stored item with StatusOK.
	ReadAll(ctx context.Context) ([]Result, error)

	// ReadMany returns, for each identifier in input order, StatusOK with
	// the stored projection, or StatusNotFound.
	ReadMany(ctx context.Context, ids []string) ([]Result, error)

	// UpdateMany overwrites the item at each identifier. Behavior for
	// absent identifiers follows the backend's update-creates-missing
	// option: when enabled (the default) the item is written and reported
	// StatusCreated, when disabled nothing is written and the item reports
	// StatusNotFound. Existing identifiers always report StatusUpdated.
	UpdateMany(ctx context.Context, items []T) ([]Result, error)

	// DestroyMany removes each identified item, reporting StatusUpdated
	// with an identifier echo on success and StatusNotFound for absent
	// identifiers.
	DestroyMany(ctx context.Context, ids []string) ([]Result, error)
}

// KeyOf maps a record to its backend-native identifier. When field is empty
// the record's Identifier is used directly; otherwise the named field is
// read from the plain-data projection and stringified, falling back to
// Identifier when the field is absent. The mapping is total: every record
// yields a key.
func KeyOf(r Record, field string) string {
	if field == "" {
		return r.Identifier()
	}
	if v, ok := r.PlainData()[field]; ok {
		return fmt.Sprintf("%v", v)
	}
	return r.Identifier()
}
