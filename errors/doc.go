/*
Package errors provides semantic error types for the queryset library.

The package defines the error taxonomy shared by all backends with specific
types that can be checked using the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrNotFound     = errors.New("record not found")
	    ErrBackendOp    = errors.New("backend operation failed")
	    ErrCorruptValue = errors.New("corrupt stored value")
	    ErrInvalidInput = errors.New("invalid input")
	)

Usage:

	// Check error type
	res, err := qs.ReadOne(ctx, "123")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // Handle not found case
	        return nil, fmt.Errorf("record %s does not exist", "123")
	    }
	    return nil, err
	}

	// Create typed errors
	err := errors.NewNotFoundError("widgets", "123")
	err := errors.NewBackendOperationError("hset", "123", cause)
	err := errors.NewCorruptValueError("123", cause)

Plural query-set operations never return these errors for per-item
conditions; they carry per-item failure in the result's status slot and
attach the typed error to the result. The singular convenience forms
ReadOne and DestroyOne do return ErrNotFound for an absent identifier.

The error types implement the error interface and support wrapping,
making them compatible with Go's standard error handling patterns.
*/
package errors
