package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy of the retrieval engine. Nothing here is fatal to the
// calling process; every failure mode resolves to a degraded-but-valid
// response object.
var (
	// ErrProviderUnavailable marks an embedding or vector-store backend that
	// is not reachable or not configured. Pipelines degrade instead of
	// surfacing it to callers.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrStorageWrite marks a failed vector-store write. Ingestion logs it
	// and still reports local success.
	ErrStorageWrite = errors.New("storage write failure")

	ErrInvalidInput = errors.New("invalid input")
	ErrTemporary    = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
