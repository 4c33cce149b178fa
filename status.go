/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package queryset

// Status is the outcome code attached to every per-item operation result.
// The set is closed; backends must not invent additional codes.
type Status string

const (
	// StatusOK marks a successful read.
	StatusOK Status = "OK"

	// StatusCreated marks a write that stored a previously-absent item.
	StatusCreated Status = "Created"

	// StatusUpdated marks a write that replaced an existing item. Destroy
	// operations also report StatusUpdated on success; the wire strings
	// predate a distinct deleted code and are kept for compatibility.
	StatusUpdated Status = "Updated"

	// StatusNotFound marks an identifier with no stored item.
	StatusNotFound Status = "Not Found"

	// StatusFailed marks a store-reported failure (constraint violation,
	// connectivity loss, corrupt stored value). Result.Err carries the cause.
	StatusFailed Status = "Failed"
)

// Result is one per-item outcome. Batch operations return a []Result whose
// length equals the input length and whose order matches the input order;
// callers zip results back against the items they passed in.
type Result struct {
	// Status is the outcome code for this item.
	Status Status

	// ID is the backend-native identifier of the item, when known. Destroy
	// results carry the identifier echo here rather than the removed record.
	ID string

	// Data is the stored plain-data projection, populated on successful
	// reads and on writes where the backend returned the stored value.
	Data map[string]any

	// Err is the store-reported cause when Status is StatusFailed.
	Err error
}

// OK reports whether the result carries a non-failure status.
func (r Result) OK() bool {
	return r.Status != StatusFailed && r.Status != StatusNotFound
}
