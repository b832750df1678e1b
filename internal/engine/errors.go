package engine

import "fmt"

// LoadError is a failed reconciliation cycle. It wraps the underlying
// remote failure; prior in-memory state is left intact when it occurs.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("reload failed: %v", e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
