package remote

import "fmt"

// Error is a failed remote store call: network unreachable, non-2xx
// status, or malformed response. There are no retries at this layer;
// failures propagate once and retry policy belongs to callers.
type Error struct {
	// Status is the HTTP status code, 0 when the transport itself failed.
	Status int
	// Message is human-readable, taken from the JSON error body's
	// "message" field with the HTTP status text as fallback.
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("remote store unreachable: %s", e.Message)
	}
	return fmt.Sprintf("remote store error (%d): %s", e.Status, e.Message)
}
