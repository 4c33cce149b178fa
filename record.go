/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queryset

// Record is the contract a model type must satisfy to be stored through a
// query set. Records are owned by the caller; the query set never constructs
// or validates them.
type Record interface {
	// Identifier returns the value of the record's identifier field as a
	// string. The mapping to a backend-native key must be total and
	// deterministic.
	Identifier() string

	// PlainData returns the record projected to a field-name → value map.
	// The in-memory, document and DynamoDB backends store this projection.
	PlainData() map[string]any

	// SerializedForm returns the record serialized to bytes. The remote
	// cache backend stores this form, optionally compressed.
	SerializedForm() ([]byte, error)
}
