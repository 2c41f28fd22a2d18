package repo

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable marks any storage-layer failure (I/O, corruption, lock
// timeout, cancelled context). The original cause stays reachable through
// errors.Is / errors.As. The store never retries on its own.
var ErrStoreUnavailable = errors.New("store unavailable")

// unavailable wraps err with ErrStoreUnavailable. nil stays nil.
func unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
